package namespace

import (
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Editor produces new file content from the current one.
type Editor interface {
	EditText(current string) (string, error)
}

// Viewer presents file content.
type Viewer interface {
	ViewText(content string) error
}

// Info describes an entity for presentation.
type Info struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Type       FileType  `json:"type"`
	Size       int64     `json:"size"`
	Children   int       `json:"children,omitempty"`
	MIME       string    `json:"mime,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	AccessedAt time.Time `json:"accessedAt"`
}

func (t *Tree) info(e *Entity) Info {
	return Info{
		Name:       e.name,
		Path:       t.pathOf(e),
		Type:       e.typ,
		Size:       t.size(e),
		Children:   len(e.children),
		CreatedAt:  e.times.CreatedAt,
		ModifiedAt: e.times.ModifiedAt,
		AccessedAt: e.times.AccessedAt,
	}
}

// resolveFile resolves path and requires a file.
func (t *Tree) resolveFile(op, path string) (*Entity, error) {
	e, err := t.resolve(path, t.nodes[t.cwd])
	if err != nil {
		return nil, newError(KindNotFound, op, path)
	}

	if !e.IsFile() {
		return nil, newError(KindNotAFile, op, path)
	}

	return e, nil
}

func (t *Tree) readFile(op, path string, e *Entity) ([]byte, error) {
	data, err := t.mirror.ReadFile(t.physicalPath(e))
	if err != nil {
		return nil, ioError(op, path, err)
	}
	return data, nil
}

// Read returns the content of the file at path and records the access.
func (t *Tree) Read(path string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.resolveFile("read", path)
	if err != nil {
		return nil, err
	}

	data, err := t.readFile("read", path, e)
	if err != nil {
		return nil, err
	}

	now := t.clock()
	e.times.AccessedAt = now
	t.logAccess(e, now)

	return data, nil
}

// View hands the content of the file at path to viewer.
func (t *Tree) View(path string, viewer Viewer) error {
	data, err := t.Read(path)
	if err != nil {
		return err
	}

	return viewer.ViewText(string(data))
}

// Write replaces the content of the file at path.
func (t *Tree) Write(path string, content []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.resolveFile("write", path)
	if err != nil {
		return err
	}

	return t.write(path, e, content)
}

func (t *Tree) write(path string, e *Entity, content []byte) error {
	if err := t.mirror.WriteFile(t.physicalPath(e), content); err != nil {
		return ioError("write", path, err)
	}

	now := t.clock()
	e.times.ModifiedAt = now
	t.logAccess(e, now)

	t.logger.WithFields(logrus.Fields{
		"op":   "write",
		"path": t.pathOf(e),
		"size": len(content),
	}).Debug("File content written")

	return nil
}

// Edit runs editor over the content of the file at path and stores the
// result. An editor error leaves the file unchanged.
func (t *Tree) Edit(path string, editor Editor) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.resolveFile("edit", path)
	if err != nil {
		return err
	}

	data, err := t.readFile("edit", path, e)
	if err != nil {
		return err
	}

	edited, err := editor.EditText(string(data))
	if err != nil {
		return errors.WithMessagef(err, "failed to edit %s", path)
	}

	return t.write(path, e, []byte(edited))
}

// List returns the children of the folder at path sorted by name.
func (t *Tree) List(path string) ([]Info, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.resolve(path, t.nodes[t.cwd])
	if err != nil {
		return nil, newError(KindNotFound, "list", path)
	}

	if !e.IsFolder() {
		return nil, newError(KindNotAFolder, "list", path)
	}

	children := t.childrenOf(e)
	infos := make([]Info, 0, len(children))
	for _, child := range children {
		infos = append(infos, t.info(child))
	}

	e.times.AccessedAt = t.clock()

	return infos, nil
}

// Stat describes the entity at path without touching its timestamps.
func (t *Tree) Stat(path string) (Info, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, err := t.resolve(path, t.nodes[t.cwd])
	if err != nil {
		return Info{}, newError(KindNotFound, "stat", path)
	}

	info := t.info(e)
	if e.IsFile() {
		if data, err := t.mirror.ReadFile(t.physicalPath(e)); err == nil {
			info.MIME = mimetype.Detect(data).String()
		}
	}

	return info, nil
}

// Find returns the absolute logical paths matching a doublestar pattern,
// e.g. "/docs/**/*.txt". Relative patterns are anchored at the current folder.
func (t *Tree) Find(pattern string) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(pattern) == 0 || pattern[0] != '/' {
		cwd := t.pathOf(t.nodes[t.cwd])
		if cwd != Separator {
			cwd += Separator
		}
		pattern = cwd + pattern
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid pattern %q", pattern)
	}

	var matches []string
	t.walk(t.nodes[t.root], 0, func(e *Entity, _ int) error {
		p := t.pathOf(e)
		if ok, _ := doublestar.Match(pattern, p); ok {
			matches = append(matches, p)
		}
		return nil
	})

	sort.Strings(matches)
	return matches, nil
}
