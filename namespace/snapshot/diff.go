package snapshot

import (
	"strings"

	"github.com/0glabs/0g-namespace/namespace"
	"github.com/google/btree"
	"github.com/pkg/errors"
)

// DiffStatus represents the status of a record in the diff.
type DiffStatus string

const (
	Added     DiffStatus = "added"
	Removed   DiffStatus = "removed"
	Modified  DiffStatus = "modified"
	Unchanged DiffStatus = "unchanged"
)

// DiffNode is a record annotated with its diff status. Folder entries are
// kept in a B-Tree ordered by case-insensitive name.
type DiffNode struct {
	Node    *Node
	Status  DiffStatus
	Entries *btree.BTreeG[*DiffNode]
}

func NewDiffNode(node *Node, status DiffStatus) *DiffNode {
	diffNode := &DiffNode{
		Node:   node,
		Status: status,
	}

	if node.Kind == namespace.FileTypeFolder {
		diffNode.Entries = btree.NewG(2, func(a, b *DiffNode) bool {
			return strings.ToLower(a.Node.Name) < strings.ToLower(b.Node.Name)
		})
	}

	return diffNode
}

// Children returns the folder entries in name order.
func (dn *DiffNode) Children() []*DiffNode {
	if dn.Entries == nil {
		return nil
	}

	children := make([]*DiffNode, 0, dn.Entries.Len())
	dn.Entries.Ascend(func(item *DiffNode) bool {
		children = append(children, item)
		return true
	})
	return children
}

// Diff compares a saved snapshot with a newer one, typically the serialized
// live tree. Entries present in both are descended into when both are
// folders.
func Diff(saved, live *Node) (*DiffNode, error) {
	if saved.Kind != namespace.FileTypeFolder || live.Kind != namespace.FileTypeFolder {
		return nil, errors.New("diff is only supported for folders")
	}

	return diff(saved, live), nil
}

func diff(saved, live *Node) *DiffNode {
	root := NewDiffNode(live, Unchanged)

	for _, savedEntry := range saved.Children {
		liveEntry, found := live.Search(savedEntry.Name)
		if !found {
			root.Entries.ReplaceOrInsert(NewDiffNode(savedEntry, Removed))
			root.Status = Modified
			continue
		}

		if savedEntry.Equal(liveEntry) {
			root.Entries.ReplaceOrInsert(NewDiffNode(liveEntry, Unchanged))
			continue
		}

		root.Status = Modified
		if savedEntry.Kind == namespace.FileTypeFolder && liveEntry.Kind == namespace.FileTypeFolder {
			sub := diff(savedEntry, liveEntry)
			sub.Status = Modified
			root.Entries.ReplaceOrInsert(sub)
		} else {
			root.Entries.ReplaceOrInsert(NewDiffNode(liveEntry, Modified))
		}
	}

	for _, liveEntry := range live.Children {
		if _, found := saved.Search(liveEntry.Name); !found {
			root.Status = Modified
			root.Entries.ReplaceOrInsert(NewDiffNode(liveEntry, Added))
		}
	}

	return root
}
