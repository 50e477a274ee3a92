package namespace

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/0glabs/0g-namespace/common"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AccessLogger records reads and edits of files. The tree never reads back
// what it logged.
type AccessLogger interface {
	LogAccess(fullPath string, at time.Time)
}

// Tree is the namespace context: the entity arena, the root, the current
// folder and the physical mirror. All operations are serialized by a single
// lock over the whole tree.
type Tree struct {
	mu sync.RWMutex

	nodes  map[ID]*Entity
	root   ID
	cwd    ID
	mirror *Mirror

	logger  *logrus.Logger
	history AccessLogger
	clock   func() time.Time
}

// Option customizes a Tree.
type Option func(*Tree)

// WithLogger sets the logger used for mutation and repair messages.
func WithLogger(logger *logrus.Logger) Option {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithAccessLogger sets the history collaborator.
func WithAccessLogger(history AccessLogger) Option {
	return func(t *Tree) { t.history = history }
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(t *Tree) {
		if clock != nil {
			t.clock = clock
		}
	}
}

func defaultClock() time.Time {
	return time.Now().UTC().Round(0)
}

func newTree(mirror *Mirror, opts ...Option) *Tree {
	t := &Tree{
		nodes:  make(map[ID]*Entity),
		mirror: mirror,
		logger: common.NewLogger(),
		clock:  defaultClock,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// New creates a tree holding only the root folder, whose physical backing
// is created immediately.
func New(mirror *Mirror, opts ...Option) (*Tree, error) {
	t := newTree(mirror, opts...)

	now := t.clock()
	root := newEntity(FileTypeFolder, Separator, Times{now, now, now})
	t.nodes[root.id] = root
	t.root = root.id
	t.cwd = root.id

	if err := mirror.Mkdir(Separator); err != nil {
		return nil, ioError("create", Separator, err)
	}

	return t, nil
}

// Mirror returns the physical mirror of the tree.
func (t *Tree) Mirror() *Mirror {
	return t.mirror
}

// Logger returns the logger the tree reports to.
func (t *Tree) Logger() *logrus.Logger {
	return t.logger
}

// Root returns the root folder.
func (t *Tree) Root() *Entity {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.nodes[t.root]
}

// Get returns the entity with the given id.
func (t *Tree) Get(id ID) (*Entity, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.nodes[id]
	return e, ok
}

// Parent returns the parent folder, nil for the root.
func (t *Tree) Parent(e *Entity) *Entity {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.parentOf(e)
}

// Children returns the children of a folder sorted by name.
func (t *Tree) Children(e *Entity) []*Entity {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.childrenOf(e)
}

// PathOf rebuilds the absolute logical path of an entity.
func (t *Tree) PathOf(e *Entity) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.pathOf(e)
}

// PhysicalPath returns the mirror path of an entity, derived from ancestor
// names. It is the only place mirror paths are computed.
func (t *Tree) PhysicalPath(e *Entity) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.physicalPath(e)
}

// Size returns the byte length of a file or the recursive size of a folder.
func (t *Tree) Size(e *Entity) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.size(e)
}

// Count returns the number of entities in the subtree rooted at e.
func (t *Tree) Count(e *Entity) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	t.walk(e, 0, func(*Entity, int) error {
		count++
		return nil
	})
	return count
}

// Walk visits the subtree rooted at e depth-first, pre-order, children in
// name order. A nil e walks the whole tree.
func (t *Tree) Walk(e *Entity, fn func(e *Entity, depth int) error) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if e == nil {
		e = t.nodes[t.root]
	}
	return t.walk(e, 0, fn)
}

// State is a copy of an entity taken under the tree lock.
type State struct {
	ID       ID
	Name     string
	Type     FileType
	Times    Times
	Physical string
}

// WalkStates is Walk over the whole tree, handing fn copies of the entities
// all taken under one read lock. fn must not call back into the tree.
func (t *Tree) WalkStates(fn func(s State, depth int) error) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.walk(t.nodes[t.root], 0, func(e *Entity, depth int) error {
		return fn(State{
			ID:       e.id,
			Name:     e.name,
			Type:     e.typ,
			Times:    e.times,
			Physical: t.physicalPath(e),
		}, depth)
	})
}

func (t *Tree) parentOf(e *Entity) *Entity {
	if e.parent == uuid.Nil {
		return nil
	}
	return t.nodes[e.parent]
}

func (t *Tree) childrenOf(e *Entity) []*Entity {
	children := make([]*Entity, 0, len(e.children))
	for _, id := range e.children {
		children = append(children, t.nodes[id])
	}

	sort.Slice(children, func(i, j int) bool {
		return children[i].name < children[j].name
	})

	return children
}

// ancestry returns the names from the root's first child down to e.
func (t *Tree) ancestry(e *Entity) []string {
	var names []string
	for cur := e; cur != nil && cur.parent != uuid.Nil; cur = t.nodes[cur.parent] {
		names = append(names, cur.name)
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	return names
}

func (t *Tree) pathOf(e *Entity) string {
	return Separator + strings.Join(t.ancestry(e), Separator)
}

func (t *Tree) physicalPath(e *Entity) string {
	return string(filepath.Separator) + filepath.Join(t.ancestry(e)...)
}

// physicalPathIn derives the mirror path e would have as a child of parent.
func (t *Tree) physicalPathIn(parent *Entity, name string) string {
	return filepath.Join(t.physicalPath(parent), name)
}

func (t *Tree) isAncestor(ancestor, e *Entity) bool {
	for cur := e; cur != nil; cur = t.parentOf(cur) {
		if cur.id == ancestor.id {
			return true
		}
	}
	return false
}

func (t *Tree) size(e *Entity) int64 {
	if e.IsFile() {
		return t.mirror.Size(t.physicalPath(e))
	}

	var total int64
	for _, id := range e.children {
		total += t.size(t.nodes[id])
	}
	return total
}

func (t *Tree) walk(e *Entity, depth int, fn func(*Entity, int) error) error {
	if err := fn(e, depth); err != nil {
		return err
	}

	if !e.IsFolder() {
		return nil
	}

	for _, child := range t.childrenOf(e) {
		if err := t.walk(child, depth+1, fn); err != nil {
			return err
		}
	}

	return nil
}

func (t *Tree) logAccess(e *Entity, at time.Time) {
	if t.history != nil {
		t.history.LogAccess(t.pathOf(e), at)
	}
}
