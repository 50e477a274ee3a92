package namespace_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/0glabs/0g-namespace/namespace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

// newTestTree returns a tree mirrored into a temporary directory.
func newTestTree(t *testing.T, opts ...namespace.Option) (*namespace.Tree, string, *fakeClock) {
	storage := t.TempDir()

	mirror, err := namespace.NewOsMirror(storage)
	require.NoError(t, err)

	clock := newFakeClock()
	opts = append([]namespace.Option{namespace.WithClock(clock.Now)}, opts...)

	tree, err := namespace.New(mirror, opts...)
	require.NoError(t, err)

	return tree, storage, clock
}

func assertDir(t *testing.T, path string) {
	info, err := os.Stat(path)
	if assert.NoError(t, err) {
		assert.True(t, info.IsDir(), "%s is not a directory", path)
	}
}

func assertFile(t *testing.T, path, content string) {
	data, err := os.ReadFile(path)
	if assert.NoError(t, err) {
		assert.Equal(t, content, string(data))
	}
}

func assertMissing(t *testing.T, path string) {
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "%s should not exist", path)
}

func TestNewTree(t *testing.T) {
	tree, storage, clock := newTestTree(t)

	root := tree.Root()
	assert.True(t, root.IsRoot())
	assert.True(t, root.IsFolder())
	assert.Equal(t, "/", root.Name())
	assert.Equal(t, "/", tree.PathOf(root))
	assert.Equal(t, "/", tree.Cwd())
	assert.True(t, root.CreatedAt().Equal(clock.Now()))
	assert.Nil(t, tree.Parent(root))

	assertDir(t, storage)
	assert.Equal(t, 1, tree.Count(root))
}

func TestResolve(t *testing.T) {
	tree, _, _ := newTestTree(t)

	docs, err := tree.CreateFolder("/Docs")
	require.NoError(t, err)
	notes, err := tree.CreateFolder("/Docs/Notes")
	require.NoError(t, err)
	file, err := tree.CreateFile("/Docs/Notes/a.txt", []byte("hello"))
	require.NoError(t, err)

	cases := []struct {
		path     string
		expected *namespace.Entity
	}{
		{"/", tree.Root()},
		{"//", tree.Root()},
		{"/docs", docs},
		{"/DOCS/notes", notes},
		{"//docs///Notes/", notes},
		{"/docs/./notes/../notes/A.TXT", file},
		{"/docs/..", tree.Root()},
		{"docs/notes", notes},
		{".", tree.Root()},
	}

	for _, c := range cases {
		e, err := tree.Resolve(c.path)
		if assert.NoError(t, err, c.path) {
			assert.Equal(t, c.expected.ID(), e.ID(), c.path)
		}
	}

	for _, path := range []string{"/..", "..", "/missing", "/docs/notes/a.txt/x", "/docs/notes/a.txt/.."} {
		_, err := tree.Resolve(path)
		assert.ErrorIs(t, err, namespace.ErrNotFound, path)
	}
}

func TestResolveRelative(t *testing.T) {
	tree, _, _ := newTestTree(t)

	_, err := tree.CreateFolder("/a")
	require.NoError(t, err)
	b, err := tree.CreateFolder("/a/b")
	require.NoError(t, err)
	c, err := tree.CreateFolder("/c")
	require.NoError(t, err)
	_, err = tree.CreateFile("/c/f", nil)
	require.NoError(t, err)

	require.NoError(t, tree.Chdir("/a"))
	assert.Equal(t, "/a", tree.Cwd())

	e, err := tree.Resolve("b")
	require.NoError(t, err)
	assert.Equal(t, b.ID(), e.ID())

	e, err = tree.Resolve("../c")
	require.NoError(t, err)
	assert.Equal(t, c.ID(), e.ID())

	e, err = tree.ResolveFrom("b", nil)
	assert.ErrorIs(t, err, namespace.ErrNotFound)
	assert.Nil(t, e)

	e, err = tree.ResolveFrom("..", b)
	require.NoError(t, err)
	assert.Equal(t, "/a", tree.PathOf(e))

	assert.ErrorIs(t, tree.Chdir("/c/f"), namespace.ErrNotAFolder)
	assert.ErrorIs(t, tree.Chdir("/missing"), namespace.ErrNotFound)
	assert.Equal(t, "/a", tree.Cwd())
}

func TestWalk(t *testing.T) {
	tree, _, _ := newTestTree(t)

	for _, path := range []string{"/b", "/a", "/a/y", "/a/x"} {
		_, err := tree.CreateFolder(path)
		require.NoError(t, err)
	}
	_, err := tree.CreateFile("/b/f", []byte("12345"))
	require.NoError(t, err)

	var visited []string
	var depths []int
	err = tree.Walk(nil, func(e *namespace.Entity, depth int) error {
		visited = append(visited, tree.PathOf(e))
		depths = append(depths, depth)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/", "/a", "/a/x", "/a/y", "/b", "/b/f"}, visited)
	assert.Equal(t, []int{0, 1, 2, 2, 1, 2}, depths)

	assert.Equal(t, 6, tree.Count(tree.Root()))
	assert.EqualValues(t, 5, tree.Size(tree.Root()))
}

func TestPhysicalPath(t *testing.T) {
	tree, storage, _ := newTestTree(t)

	_, err := tree.CreateFolder("/Projects")
	require.NoError(t, err)
	f, err := tree.CreateFile("/projects/Readme.MD", []byte("# readme"))
	require.NoError(t, err)

	physical := tree.PhysicalPath(f)
	assert.Equal(t, string(filepath.Separator)+filepath.Join("Projects", "Readme.MD"), physical)
	assertFile(t, filepath.Join(storage, physical), "# readme")
	assert.Equal(t, "/Projects/Readme.MD", tree.PathOf(f))
}
