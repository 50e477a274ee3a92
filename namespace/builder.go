package namespace

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Builder reconstructs a tree from a forward-only description. Entities are
// added detached, children before their folder; Build then links every
// parent reference by walking down from the root.
type Builder struct {
	nodes map[ID]*Entity
}

func NewBuilder() *Builder {
	return &Builder{nodes: make(map[ID]*Entity)}
}

// AddFile adds a detached file.
func (b *Builder) AddFile(name string, times Times) (ID, error) {
	if err := ValidateName(name); err != nil {
		return uuid.Nil, err
	}

	e := newEntity(FileTypeFile, name, times)
	b.nodes[e.id] = e
	return e.id, nil
}

// AddFolder adds a detached folder owning the given, previously added,
// children. The root is added with an empty name.
func (b *Builder) AddFolder(name string, times Times, children []ID) (ID, error) {
	e := newEntity(FileTypeFolder, name, times)

	for _, id := range children {
		child, ok := b.nodes[id]
		if !ok {
			return uuid.Nil, errors.Errorf("unknown child %v of folder %s", id, name)
		}

		k := key(child.name)
		if _, dup := e.children[k]; dup {
			return uuid.Nil, newError(KindDuplicateName, "restore", child.name)
		}
		e.children[k] = id
	}

	b.nodes[e.id] = e
	return e.id, nil
}

// Build assigns parent links starting at root and returns the tree. Every
// added entity must be reachable from root exactly once, and every entity
// but the root must carry a valid name.
func (b *Builder) Build(root ID, mirror *Mirror, opts ...Option) (*Tree, error) {
	r, ok := b.nodes[root]
	if !ok {
		return nil, errors.New("root not found")
	}

	if !r.IsFolder() {
		return nil, errors.New("root must be a folder")
	}
	r.name = Separator

	seen := map[ID]bool{root: true}
	if err := b.link(r, seen); err != nil {
		return nil, err
	}

	if len(seen) != len(b.nodes) {
		return nil, errors.Errorf("%d entities are not reachable from root", len(b.nodes)-len(seen))
	}

	t := newTree(mirror, opts...)
	t.nodes = b.nodes
	t.root = root
	t.cwd = root

	return t, nil
}

func (b *Builder) link(folder *Entity, seen map[ID]bool) error {
	for _, id := range folder.children {
		if seen[id] {
			return errors.Errorf("entity %v is referenced more than once", id)
		}
		seen[id] = true

		child := b.nodes[id]
		if err := ValidateName(child.name); err != nil {
			return err
		}
		child.parent = folder.id

		if child.IsFolder() {
			if err := b.link(child, seen); err != nil {
				return err
			}
		}
	}

	return nil
}
