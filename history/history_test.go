package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/0glabs/0g-namespace/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLog(t *testing.T, path string, cacheSize int) *BoltLog {
	log, err := Open(Config{Path: path, CacheSize: cacheSize}, common.NewLogger())
	require.NoError(t, err)
	return log
}

func TestLogAccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	log := openTestLog(t, path, 2)
	defer log.Close()

	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	log.LogAccess("/a", base)
	log.LogAccess("/b", base.Add(time.Second))
	log.LogAccess("/a", base.Add(2*time.Second))
	log.LogAccess("/c", base.Add(3*time.Second))

	entries, err := log.Entries(0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "/c", entries[0].Path)
	assert.True(t, entries[0].At.Equal(base.Add(3*time.Second)))
	assert.Equal(t, "/a", entries[3].Path)

	entries, err = log.Entries(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"/c", "/a"}, []string{entries[0].Path, entries[1].Path})

	// only the two most recently used paths stay cached
	recent := log.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "/c", recent[0].Path)
	assert.Equal(t, "/a", recent[1].Path)
	assert.True(t, recent[1].At.Equal(base.Add(2*time.Second)))

	assert.Zero(t, log.Failures())
}

func TestSameTimestamp(t *testing.T) {
	log := openTestLog(t, filepath.Join(t.TempDir(), "history.db"), 8)
	defer log.Close()

	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	log.LogAccess("/first", at)
	log.LogAccess("/second", at)

	entries, err := log.Entries(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/second", entries[0].Path)
	assert.Equal(t, "/first", entries[1].Path)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	log := openTestLog(t, path, 8)
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	log.LogAccess("/persisted", at)
	require.NoError(t, log.Close())

	log = openTestLog(t, path, 8)
	defer log.Close()

	entries, err := log.Entries(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/persisted", entries[0].Path)

	recent := log.Recent()
	require.Len(t, recent, 1)
	assert.True(t, recent[0].At.Equal(at))
}

func TestKeyOrdering(t *testing.T) {
	at := time.Unix(100, 5)
	k1 := encodeKey(at, 1)
	k2 := encodeKey(at, 2)
	k3 := encodeKey(at.Add(time.Nanosecond), 0)

	assert.Less(t, string(k1), string(k2))
	assert.Less(t, string(k2), string(k3))
	assert.True(t, decodeKey(k1).Equal(at))
}
