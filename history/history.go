package history

import (
	"encoding/binary"
	"sort"
	"sync/atomic"
	"time"

	"github.com/boltdb/bolt"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var bucketName = []byte("access")

const keySize = 16 // unix nanos + sequence

type Config struct {
	Path      string
	CacheSize int
	Expiry    time.Duration // zero keeps recent entries until evicted by size
}

// Entry is one recorded file access.
type Entry struct {
	Path string    `json:"path"`
	At   time.Time `json:"at"`
}

// BoltLog is a durable access history. Each access is appended to a bolt
// bucket, and the last access per path is cached in memory.
type BoltLog struct {
	db     *bolt.DB
	recent *expirable.LRU[string, time.Time]
	logger *logrus.Logger

	failures atomic.Uint64
}

// Open opens or creates the history database and warms the cache with the
// latest entries.
func Open(config Config, logger *logrus.Logger) (*BoltLog, error) {
	db, err := bolt.Open(config.Path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to open history database %s", config.Path)
	}

	if err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, errors.WithMessage(err, "failed to prepare history database")
	}

	cacheSize := config.CacheSize
	if cacheSize <= 0 {
		cacheSize = 128
	}

	log := &BoltLog{
		db:     db,
		recent: expirable.NewLRU[string, time.Time](cacheSize, nil, config.Expiry),
		logger: logger,
	}

	entries, err := log.Entries(cacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}

	// oldest first so the newest end up most recently used
	for i := len(entries) - 1; i >= 0; i-- {
		log.recent.Add(entries[i].Path, entries[i].At)
	}

	return log, nil
}

func (log *BoltLog) Close() error {
	return log.db.Close()
}

// LogAccess records an access. Failures are logged and counted, never
// returned.
func (log *BoltLog) LogAccess(fullPath string, at time.Time) {
	log.recent.Add(fullPath, at)

	err := log.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		return b.Put(encodeKey(at, seq), []byte(fullPath))
	})

	if err != nil {
		log.failures.Add(1)
		log.logger.WithError(err).WithField("path", fullPath).Warn("Failed to record file access")
	}
}

// Failures returns the number of accesses that could not be recorded.
func (log *BoltLog) Failures() uint64 {
	return log.failures.Load()
}

// Entries returns up to limit accesses, newest first. A non-positive limit
// returns all of them.
func (log *BoltLog) Entries(limit int) ([]Entry, error) {
	var entries []Entry

	err := log.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}

			if len(k) != keySize {
				continue
			}

			entries = append(entries, Entry{Path: string(v), At: decodeKey(k)})
		}
		return nil
	})

	if err != nil {
		return nil, errors.WithMessage(err, "failed to read history")
	}

	return entries, nil
}

// Recent returns the last access of every cached path, newest first.
func (log *BoltLog) Recent() []Entry {
	keys := log.recent.Keys()
	entries := make([]Entry, 0, len(keys))
	for _, path := range keys {
		if at, ok := log.recent.Peek(path); ok {
			entries = append(entries, Entry{Path: path, At: at})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].At.After(entries[j].At)
	})

	return entries
}

func encodeKey(at time.Time, seq uint64) []byte {
	key := make([]byte, keySize)
	binary.BigEndian.PutUint64(key, uint64(at.UnixNano()))
	binary.BigEndian.PutUint64(key[8:], seq)
	return key
}

func decodeKey(key []byte) time.Time {
	return time.Unix(0, int64(binary.BigEndian.Uint64(key))).UTC()
}
