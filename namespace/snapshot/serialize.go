package snapshot

import (
	"context"
	"path/filepath"

	"github.com/0glabs/0g-namespace/common/parallel"
	"github.com/0glabs/0g-namespace/namespace"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Serialize walks the tree top-down into snapshot records. Parent links are
// never emitted.
func Serialize(tree *namespace.Tree) *Node {
	// file hashing never fails and the background context is never cancelled
	node, _ := SerializeContext(context.Background(), tree)
	return node
}

// SerializeContext is Serialize with file contents hashed on a pool of
// routines. The record skeleton is copied under one tree read lock, so
// concurrent reads and mutations never tear it.
func SerializeContext(ctx context.Context, tree *namespace.Tree, option ...parallel.SerialOption) (*Node, error) {
	root, files, err := skeleton(tree)
	if err != nil {
		return nil, err
	}

	if err := hashFiles(ctx, tree.Mirror(), files, option...); err != nil {
		return nil, err
	}

	return root, nil
}

// skeleton rebuilds the folder structure from the pre-order walk. stack[d]
// is the folder most recently seen at depth d.
func skeleton(tree *namespace.Tree) (*Node, []*Node, error) {
	var stack, files []*Node

	err := tree.WalkStates(func(s namespace.State, depth int) error {
		var node *Node
		if s.Type == namespace.FileTypeFile {
			node = NewFileNode(s.Name, s.Times, 0, "", filepath.ToSlash(s.Physical))
			files = append(files, node)
		} else {
			node = NewFolderNode(s.Name, s.Times, []*Node{})
		}

		if depth > 0 {
			parent := stack[depth-1]
			parent.Children = append(parent.Children, node)
			sortNodes(parent.Children)
		}

		stack = append(stack[:depth], node)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if len(stack) == 0 {
		return nil, nil, errors.New("empty tree")
	}

	return stack[0], files, nil
}

// hashFiles fills in the size and hash of every file record from the
// physical content at its path.
func hashFiles(ctx context.Context, mirror *namespace.Mirror, files []*Node, option ...parallel.SerialOption) error {
	hasher := &contentHasher{mirror: mirror, files: files}
	if err := parallel.Serial[fileDigest](ctx, hasher, len(files), option...); err != nil {
		return errors.WithMessage(err, "failed to hash file contents")
	}
	return nil
}

type fileDigest struct {
	size int64
	hash string
	ok   bool
}

type contentHasher struct {
	mirror *namespace.Mirror
	files  []*Node
}

func (h *contentHasher) ParallelDo(ctx context.Context, routine, task int) (fileDigest, error) {
	data, err := h.mirror.ReadFile(filepath.FromSlash(h.files[task].Path))
	if err != nil {
		// a missing backing is recorded as empty and repaired on load
		return fileDigest{}, nil
	}

	return fileDigest{int64(len(data)), ContentHash(data), true}, nil
}

func (h *contentHasher) ParallelCollect(result *parallel.Result[fileDigest]) error {
	if result.Value.ok {
		h.files[result.Task].Size = result.Value.size
		h.files[result.Task].Hash = result.Value.hash
	}
	return nil
}

// ContentHash returns the hex keccak256 hash of file content.
func ContentHash(data []byte) string {
	return crypto.Keccak256Hash(data).Hex()
}

// Deserialize rebuilds a tree from snapshot records. The first pass creates
// detached entities bottom-up; the second pass, done by the builder, links
// every parent reference. The file records are returned by entity id for
// reconciliation.
func Deserialize(root *Node, mirror *namespace.Mirror, opts ...namespace.Option) (*namespace.Tree, map[namespace.ID]*Node, error) {
	if root == nil {
		return nil, nil, errors.New("empty snapshot")
	}

	if root.Kind != namespace.FileTypeFolder {
		return nil, nil, errors.Errorf("root must be a folder, got %s", root.Kind)
	}

	builder := namespace.NewBuilder()
	records := make(map[namespace.ID]*Node)

	rootID, err := restore(builder, root, records, true)
	if err != nil {
		return nil, nil, err
	}

	tree, err := builder.Build(rootID, mirror, opts...)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "failed to link snapshot entities")
	}

	return tree, records, nil
}

func restore(builder *namespace.Builder, node *Node, records map[namespace.ID]*Node, isRoot bool) (namespace.ID, error) {
	if !isRoot {
		if err := namespace.ValidateName(node.Name); err != nil {
			return uuid.Nil, errors.WithMessage(err, "invalid entity name in snapshot")
		}
	}

	switch node.Kind {
	case namespace.FileTypeFile:
		id, err := builder.AddFile(node.Name, node.Times())
		if err != nil {
			return uuid.Nil, err
		}
		records[id] = node
		return id, nil

	case namespace.FileTypeFolder:
		children := make([]namespace.ID, 0, len(node.Children))
		for _, child := range node.Children {
			id, err := restore(builder, child, records, false)
			if err != nil {
				return uuid.Nil, err
			}
			children = append(children, id)
		}

		id, err := builder.AddFolder(node.Name, node.Times(), children)
		if err != nil {
			return uuid.Nil, errors.WithMessagef(err, "failed to restore folder %s", node.Name)
		}
		return id, nil

	default:
		return uuid.Nil, errors.Errorf("unsupported entity kind %q", node.Kind)
	}
}
