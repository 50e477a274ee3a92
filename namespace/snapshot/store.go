package snapshot

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ErrNoSnapshot is returned by a Store that holds no snapshot yet.
var ErrNoSnapshot = errors.New("no snapshot")

// zstdMagic prefixes every zstd frame.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Store is durable storage for one snapshot.
type Store interface {
	Load() (*Node, error)
	Save(node *Node) error
}

// FileStore keeps the encoded snapshot in a single file. Writes go to a
// temporary sibling first and are renamed into place.
type FileStore struct {
	fs       afero.Afero
	path     string
	compress bool
}

func NewFileStore(fs afero.Fs, path string, compress bool) *FileStore {
	return &FileStore{
		fs:       afero.Afero{Fs: fs},
		path:     path,
		compress: compress,
	}
}

// NewOsFileStore stores the snapshot at path on the host filesystem.
func NewOsFileStore(path string, compress bool) *FileStore {
	return NewFileStore(afero.NewOsFs(), path, compress)
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads the snapshot, transparently decompressing it.
func (s *FileStore) Load() (*Node, error) {
	data, err := s.fs.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to read snapshot %s", s.path)
	}

	if bytes.HasPrefix(data, zstdMagic) {
		if data, err = decompress(data); err != nil {
			return nil, errors.WithMessagef(err, "failed to decompress snapshot %s", s.path)
		}
	}

	node, err := Decode(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to decode snapshot %s", s.path)
	}

	return node, nil
}

// Save writes the snapshot atomically.
func (s *FileStore) Save(node *Node) error {
	data, err := Encode(node)
	if err != nil {
		return err
	}

	if s.compress {
		if data, err = compress(data); err != nil {
			return errors.WithMessage(err, "failed to compress snapshot")
		}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return errors.WithMessagef(err, "failed to create snapshot folder %s", dir)
		}
	}

	tmp := s.path + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.WithMessagef(err, "failed to write snapshot %s", tmp)
	}

	if err := s.fs.Rename(tmp, s.path); err != nil {
		s.fs.Remove(tmp)
		return errors.WithMessagef(err, "failed to replace snapshot %s", s.path)
	}

	return nil
}

func compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Close()

	return encoder.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	return decoder.DecodeAll(data, nil)
}
