package namespace

import (
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Every mutation validates completely, then changes the mirror, then the
// logical tree. A mirror failure aborts before the tree is touched.

// CreateFolder creates an empty folder at path.
func (t *Tree) CreateFolder(path string) (*Entity, error) {
	return t.Create(path, FileTypeFolder, nil)
}

// CreateFile creates a file at path holding content.
func (t *Tree) CreateFile(path string, content []byte) (*Entity, error) {
	return t.Create(path, FileTypeFile, content)
}

// Create allocates a new entity under the parent of path.
func (t *Tree) Create(path string, typ FileType, content []byte) (*Entity, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	parent, name, err := t.resolveParentAndName("create", path)
	if err != nil {
		return nil, err
	}

	if err := ValidateName(name); err != nil {
		return nil, newError(KindInvalidName, "create", path)
	}

	if _, ok := parent.child(name); ok {
		return nil, newError(KindDuplicateName, "create", path)
	}

	now := t.clock()
	e := newEntity(typ, name, Times{now, now, now})
	physical := t.physicalPathIn(parent, name)

	switch typ {
	case FileTypeFolder:
		err = t.mirror.Mkdir(physical)
	default:
		err = t.mirror.WriteFile(physical, content)
	}
	if err != nil {
		return nil, ioError("create", path, err)
	}

	if err := parent.addChild(e, now); err != nil {
		return nil, err
	}
	t.nodes[e.id] = e

	t.logger.WithFields(logrus.Fields{
		"op":       "create",
		"path":     t.pathOf(e),
		"kind":     typ,
		"physical": physical,
	}).Debug("Entity created")

	return e, nil
}

// Delete detaches the entity at path and removes its physical backing,
// recursively for folders.
func (t *Tree) Delete(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.resolve(path, t.nodes[t.cwd])
	if err != nil {
		return newError(KindNotFound, "delete", path)
	}

	if e.IsRoot() {
		return newError(KindInvalidOperationOnRoot, "delete", path)
	}

	logical, physical := t.pathOf(e), t.physicalPath(e)
	if err := t.mirror.RemoveAll(physical); err != nil {
		return ioError("delete", path, err)
	}

	parent := t.parentOf(e)
	if t.isAncestor(e, t.nodes[t.cwd]) {
		t.cwd = parent.id
	}

	if err := parent.removeChild(e, t.clock()); err != nil {
		return err
	}
	t.forget(e)

	t.logger.WithFields(logrus.Fields{
		"op":       "delete",
		"path":     logical,
		"physical": physical,
	}).Debug("Entity deleted")

	return nil
}

// forget drops a detached subtree from the arena.
func (t *Tree) forget(e *Entity) {
	for _, id := range e.children {
		t.forget(t.nodes[id])
	}
	delete(t.nodes, e.id)
}

// Rename gives the entity at path a new name, keeping its identity. The
// mirror directory is renamed as a whole, so every descendant's derived
// physical path follows.
func (t *Tree) Rename(path, newName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.resolve(path, t.nodes[t.cwd])
	if err != nil {
		return newError(KindNotFound, "rename", path)
	}

	if e.IsRoot() {
		return newError(KindInvalidOperationOnRoot, "rename", path)
	}

	if err := ValidateName(newName); err != nil {
		return newError(KindInvalidName, "rename", newName)
	}

	parent := t.parentOf(e)
	if id, ok := parent.child(newName); ok && id != e.id {
		return newError(KindDuplicateName, "rename", newName)
	}

	oldPhysical := t.physicalPath(e)
	newPhysical := t.physicalPathIn(parent, newName)
	if oldPhysical != newPhysical {
		if err := t.mirror.Rename(oldPhysical, newPhysical); err != nil {
			return ioError("rename", path, err)
		}
	}

	if err := e.rename(newName, parent, t.clock()); err != nil {
		return err
	}

	t.logger.WithFields(logrus.Fields{
		"op":       "rename",
		"path":     t.pathOf(e),
		"physical": newPhysical,
	}).Debug("Entity renamed")

	return nil
}

// checkTransfer validates the shared preconditions of Move and Copy.
func (t *Tree) checkTransfer(op, srcPath, dstPath string) (src, dst *Entity, err error) {
	src, err = t.resolve(srcPath, t.nodes[t.cwd])
	if err != nil {
		return nil, nil, newError(KindNotFound, op, srcPath)
	}

	if src.IsRoot() && op == "move" {
		return nil, nil, newError(KindInvalidOperationOnRoot, op, srcPath)
	}

	dst, err = t.resolve(dstPath, t.nodes[t.cwd])
	if err != nil {
		return nil, nil, newError(KindNotFound, op, dstPath)
	}

	if !dst.IsFolder() {
		return nil, nil, newError(KindNotAFolder, op, dstPath)
	}

	if src.IsFolder() && t.isAncestor(src, dst) {
		return nil, nil, newError(KindInvalidDestination, op, dstPath)
	}

	if _, ok := dst.child(src.name); ok {
		return nil, nil, newError(KindDuplicateName, op, dstPath+Separator+src.name)
	}

	return src, dst, nil
}

// Move re-parents the entity at srcPath into the folder at dstPath.
func (t *Tree) Move(srcPath, dstPath string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	src, dst, err := t.checkTransfer("move", srcPath, dstPath)
	if err != nil {
		return err
	}

	oldPhysical := t.physicalPath(src)
	newPhysical := t.physicalPathIn(dst, src.name)
	if err := t.mirror.Rename(oldPhysical, newPhysical); err != nil {
		return ioError("move", srcPath, err)
	}

	now := t.clock()
	if err := t.parentOf(src).removeChild(src, now); err != nil {
		return err
	}
	if err := dst.addChild(src, now); err != nil {
		return err
	}

	t.logger.WithFields(logrus.Fields{
		"op":       "move",
		"path":     t.pathOf(src),
		"physical": newPhysical,
	}).Debug("Entity moved")

	return nil
}

// Copy duplicates the subtree at srcPath into the folder at dstPath. The copy
// gets fresh identities and timestamps and its own physical content.
func (t *Tree) Copy(srcPath, dstPath string) (*Entity, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	src, dst, err := t.checkTransfer("copy", srcPath, dstPath)
	if err != nil {
		return nil, err
	}

	now := t.clock()
	created := make(map[ID]*Entity)
	physical := t.physicalPathIn(dst, src.name)

	// a stray backing the tree does not know about is left alone
	if exists, _ := t.mirror.Exists(physical); exists {
		return nil, ioError("copy", srcPath, errors.Errorf("%s already exists in the mirror", physical))
	}

	clone, err := t.clone(src, physical, now, created)
	if err != nil {
		if rmErr := t.mirror.RemoveAll(physical); rmErr != nil {
			t.logger.WithError(rmErr).WithField("physical", physical).Warn("Failed to remove partial copy")
		}
		return nil, ioError("copy", srcPath, err)
	}

	if err := dst.addChild(clone, now); err != nil {
		return nil, err
	}
	for id, e := range created {
		t.nodes[id] = e
	}

	t.logger.WithFields(logrus.Fields{
		"op":       "copy",
		"path":     t.pathOf(clone),
		"entities": len(created),
	}).Debug("Entity copied")

	return clone, nil
}

// clone builds a detached duplicate of src whose physical backing lives at
// physical. New entities are collected in created.
func (t *Tree) clone(src *Entity, physical string, now time.Time, created map[ID]*Entity) (*Entity, error) {
	c := newEntity(src.typ, src.name, Times{now, now, now})
	created[c.id] = c

	if src.IsFile() {
		if err := t.mirror.CopyFile(t.physicalPath(src), physical); err != nil {
			return nil, err
		}
		return c, nil
	}

	if err := t.mirror.Mkdir(physical); err != nil {
		return nil, err
	}

	for _, child := range t.childrenOf(src) {
		cc, err := t.clone(child, filepath.Join(physical, child.name), now, created)
		if err != nil {
			return nil, err
		}
		c.children[key(cc.name)] = cc.id
		cc.parent = c.id
	}

	return c, nil
}
