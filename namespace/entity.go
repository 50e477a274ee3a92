package namespace

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID addresses an entity inside the tree arena.
type ID = uuid.UUID

// FileType represents the kind tag of an entity.
type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
)

// Times holds the three entity timestamps.
type Times struct {
	CreatedAt  time.Time
	ModifiedAt time.Time
	AccessedAt time.Time
}

// Entity is a node of the namespace, either a folder or a file. Entities are
// owned by the Tree; parent and children are arena IDs, never pointers.
type Entity struct {
	id     ID
	name   string
	typ    FileType
	times  Times
	parent ID

	// lower-cased name -> child, folders only
	children map[string]ID
}

func newEntity(typ FileType, name string, times Times) *Entity {
	e := &Entity{
		id:    uuid.New(),
		name:  name,
		typ:   typ,
		times: times,
	}

	if typ == FileTypeFolder {
		e.children = make(map[string]ID)
	}

	return e
}

func (e *Entity) ID() ID                { return e.id }
func (e *Entity) Name() string          { return e.name }
func (e *Entity) Type() FileType        { return e.typ }
func (e *Entity) IsFolder() bool        { return e.typ == FileTypeFolder }
func (e *Entity) IsFile() bool          { return e.typ == FileTypeFile }
func (e *Entity) IsRoot() bool          { return e.parent == uuid.Nil }
func (e *Entity) Times() Times          { return e.times }
func (e *Entity) CreatedAt() time.Time  { return e.times.CreatedAt }
func (e *Entity) ModifiedAt() time.Time { return e.times.ModifiedAt }
func (e *Entity) AccessedAt() time.Time { return e.times.AccessedAt }

// NumChildren returns the number of direct children, 0 for files.
func (e *Entity) NumChildren() int {
	return len(e.children)
}

// key is the case-insensitive lookup key of a name.
func key(name string) string {
	return strings.ToLower(name)
}

// ValidateName reports whether name may be used for an entity.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return newError(KindInvalidName, "validate", name)
	case name == "." || name == "..":
		return newError(KindInvalidName, "validate", name)
	case strings.Contains(name, Separator), strings.ContainsRune(name, filepath.Separator):
		return newError(KindInvalidName, "validate", name)
	}
	return nil
}

// child returns the child ID registered under name, case-insensitively.
func (e *Entity) child(name string) (ID, bool) {
	id, ok := e.children[key(name)]
	return id, ok
}

// addChild attaches c to folder e. The name check happens before any state
// changes so a failure leaves both entities untouched.
func (e *Entity) addChild(c *Entity, now time.Time) error {
	if !e.IsFolder() {
		return newError(KindNotAFolder, "attach", e.name)
	}

	k := key(c.name)
	if _, ok := e.children[k]; ok {
		return newError(KindDuplicateName, "attach", c.name)
	}

	e.children[k] = c.id
	c.parent = e.id
	e.times.ModifiedAt = now
	return nil
}

// removeChild detaches c from folder e.
func (e *Entity) removeChild(c *Entity, now time.Time) error {
	k := key(c.name)
	if id, ok := e.children[k]; !ok || id != c.id {
		return newError(KindNotFound, "detach", c.name)
	}

	delete(e.children, k)
	c.parent = uuid.Nil
	e.times.ModifiedAt = now
	return nil
}

// rename changes the entity name. siblings is the parent folder, nil for a
// detached entity. The parent's child index is re-keyed in place.
func (e *Entity) rename(newName string, siblings *Entity, now time.Time) error {
	if err := ValidateName(newName); err != nil {
		return err
	}

	if siblings != nil {
		if id, ok := siblings.child(newName); ok && id != e.id {
			return newError(KindDuplicateName, "rename", newName)
		}
		delete(siblings.children, key(e.name))
		siblings.children[key(newName)] = e.id
	}

	e.name = newName
	e.times.ModifiedAt = now
	return nil
}
