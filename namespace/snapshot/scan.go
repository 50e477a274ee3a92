package snapshot

import (
	"context"
	"os"
	"path/filepath"

	"github.com/0glabs/0g-namespace/common/parallel"
	"github.com/0glabs/0g-namespace/namespace"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ScanMirror builds records straight from the physical mirror, without
// consulting any tree. Every timestamp of a record is the modification time
// on disk. The result is what Diff compares a saved snapshot against to see
// how the mirror changed.
func ScanMirror(ctx context.Context, mirror *namespace.Mirror, option ...parallel.SerialOption) (*Node, error) {
	rootPath := string(filepath.Separator)

	info, err := mirror.Fs().Stat(rootPath)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to stat storage root")
	}

	var files []*Node
	root, err := scan(mirror.Fs(), rootPath, namespace.Separator, info, &files)
	if err != nil {
		return nil, err
	}

	if err := hashFiles(ctx, mirror, files, option...); err != nil {
		return nil, err
	}

	return root, nil
}

func scan(fs afero.Fs, path, name string, info os.FileInfo, files *[]*Node) (*Node, error) {
	mod := info.ModTime().UTC()
	times := namespace.Times{CreatedAt: mod, ModifiedAt: mod, AccessedAt: mod}

	if !info.IsDir() {
		node := NewFileNode(name, times, 0, "", filepath.ToSlash(path))
		*files = append(*files, node)
		return node, nil
	}

	infos, err := afero.ReadDir(fs, path)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to read directory %s", path)
	}

	children := make([]*Node, 0, len(infos))
	for _, child := range infos {
		if !child.IsDir() && !child.Mode().IsRegular() {
			continue
		}

		node, err := scan(fs, filepath.Join(path, child.Name()), child.Name(), child, files)
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}

	return NewFolderNode(name, times, children), nil
}
