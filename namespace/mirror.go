package namespace

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Mirror is the physical counterpart of the tree. Paths passed to a Mirror
// are rooted at the storage root, e.g. "/docs/notes".
type Mirror struct {
	fs   afero.Afero
	root string
}

// NewMirror wraps an arbitrary afero filesystem.
func NewMirror(fs afero.Fs) *Mirror {
	return &Mirror{fs: afero.Afero{Fs: fs}}
}

// NewOsMirror creates the storage root if needed and confines all physical
// operations below it.
func NewOsMirror(storageRoot string) (*Mirror, error) {
	abs, err := filepath.Abs(storageRoot)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to resolve storage root %s", storageRoot)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, errors.WithMessagef(err, "failed to create storage root %s", abs)
	}

	return &Mirror{
		fs:   afero.Afero{Fs: afero.NewBasePathFs(afero.NewOsFs(), abs)},
		root: abs,
	}, nil
}

// NewMemMirror returns a volatile in-memory mirror.
func NewMemMirror() *Mirror {
	return NewMirror(afero.NewMemMapFs())
}

// Root returns the storage root on the host, empty for non-OS mirrors.
func (m *Mirror) Root() string {
	return m.root
}

// Fs exposes the underlying filesystem.
func (m *Mirror) Fs() afero.Fs {
	return m.fs.Fs
}

func (m *Mirror) Mkdir(path string) error {
	return m.fs.MkdirAll(path, 0755)
}

func (m *Mirror) WriteFile(path string, data []byte) error {
	return m.fs.WriteFile(path, data, 0644)
}

func (m *Mirror) ReadFile(path string) ([]byte, error) {
	return m.fs.ReadFile(path)
}

func (m *Mirror) RemoveAll(path string) error {
	return m.fs.RemoveAll(path)
}

func (m *Mirror) Rename(oldPath, newPath string) error {
	return m.fs.Rename(oldPath, newPath)
}

// Exists reports whether path exists and whether it is a directory.
func (m *Mirror) Exists(path string) (exists, isDir bool) {
	info, err := m.fs.Stat(path)
	if err != nil {
		return false, false
	}
	return true, info.IsDir()
}

// Size returns the byte length of a physical file, 0 if it is absent.
func (m *Mirror) Size(path string) int64 {
	info, err := m.fs.Stat(path)
	if err != nil || info.IsDir() {
		return 0
	}
	return info.Size()
}

// CopyFile duplicates the content of src into a new file dst.
func (m *Mirror) CopyFile(src, dst string) error {
	in, err := m.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := m.fs.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
