package namespace

import (
	"strings"
)

// Separator joins path segments, regardless of platform.
const Separator = "/"

// segments splits a path into its non-empty segments and reports whether the
// path is absolute.
func segments(path string) (parts []string, absolute bool) {
	absolute = strings.HasPrefix(path, Separator)
	for _, part := range strings.Split(path, Separator) {
		if len(part) > 0 {
			parts = append(parts, part)
		}
	}
	return parts, absolute
}

// Resolve maps a path onto an entity. Absolute paths start at the root,
// relative ones at the current folder. Resolution never changes the tree.
func (t *Tree) Resolve(path string) (*Entity, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.resolve(path, t.nodes[t.cwd])
}

// ResolveFrom resolves a path relative to the given folder.
func (t *Tree) ResolveFrom(path string, from *Entity) (*Entity, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if from == nil {
		from = t.nodes[t.root]
	}
	return t.resolve(path, from)
}

func (t *Tree) resolve(path string, from *Entity) (*Entity, error) {
	parts, absolute := segments(path)

	current := from
	if absolute {
		current = t.nodes[t.root]
	}

	for _, part := range parts {
		// nothing can be resolved below a file
		if !current.IsFolder() {
			return nil, newError(KindNotFound, "resolve", path)
		}

		switch part {
		case ".":
		case "..":
			parent := t.parentOf(current)
			if parent == nil {
				return nil, newError(KindNotFound, "resolve", path)
			}
			current = parent
		default:
			id, ok := current.child(part)
			if !ok {
				return nil, newError(KindNotFound, "resolve", path)
			}
			current = t.nodes[id]
		}
	}

	return current, nil
}

// resolveParentAndName splits off the final segment of path as the target
// name and resolves the remainder as the parent folder.
func (t *Tree) resolveParentAndName(op, path string) (*Entity, string, error) {
	trimmed := strings.TrimRight(path, Separator)

	var dir, name string
	if i := strings.LastIndex(trimmed, Separator); i >= 0 {
		dir, name = trimmed[:i+1], trimmed[i+1:]
	} else {
		dir, name = "", trimmed
	}

	if strings.TrimSpace(name) == "" {
		return nil, "", newError(KindInvalidName, op, path)
	}

	parent, err := t.resolve(dir, t.nodes[t.cwd])
	if err != nil {
		return nil, "", newError(KindNotFound, op, path)
	}

	if !parent.IsFolder() {
		return nil, "", newError(KindNotAFolder, op, path)
	}

	return parent, name, nil
}

// Chdir changes the current folder.
func (t *Tree) Chdir(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.resolve(path, t.nodes[t.cwd])
	if err != nil {
		return newError(KindNotFound, "chdir", path)
	}

	if !e.IsFolder() {
		return newError(KindNotAFolder, "chdir", path)
	}

	t.cwd = e.id
	return nil
}

// Cwd returns the logical path of the current folder.
func (t *Tree) Cwd() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.pathOf(t.nodes[t.cwd])
}
