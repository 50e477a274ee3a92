package snapshot

import (
	"sort"
	"strings"
	"time"

	"github.com/0glabs/0g-namespace/namespace"
)

// Node is the snapshot record of one entity.
type Node struct {
	Kind       namespace.FileType `json:"kind"`
	Name       string             `json:"name"`
	CreatedAt  time.Time          `json:"createdAt"`
	ModifiedAt time.Time          `json:"modifiedAt"`
	AccessedAt time.Time          `json:"accessedAt"`
	Size       int64              `json:"size,omitempty"`     // content length (only for files)
	Hash       string             `json:"hash,omitempty"`     // keccak256 of content (only for files)
	Path       string             `json:"path,omitempty"`     // physical path at save time (only for files)
	Children   []*Node            `json:"children,omitempty"` // only for folders
}

// NewFolderNode creates a folder record. Children are ordered by their
// case-insensitive name.
func NewFolderNode(name string, times namespace.Times, children []*Node) *Node {
	sortNodes(children)

	return &Node{
		Kind:       namespace.FileTypeFolder,
		Name:       name,
		CreatedAt:  times.CreatedAt,
		ModifiedAt: times.ModifiedAt,
		AccessedAt: times.AccessedAt,
		Children:   children,
	}
}

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
}

// NewFileNode creates a file record.
func NewFileNode(name string, times namespace.Times, size int64, hash, path string) *Node {
	return &Node{
		Kind:       namespace.FileTypeFile,
		Name:       name,
		CreatedAt:  times.CreatedAt,
		ModifiedAt: times.ModifiedAt,
		AccessedAt: times.AccessedAt,
		Size:       size,
		Hash:       hash,
		Path:       path,
	}
}

// Times returns the three timestamps of the record.
func (node *Node) Times() namespace.Times {
	return namespace.Times{
		CreatedAt:  node.CreatedAt,
		ModifiedAt: node.ModifiedAt,
		AccessedAt: node.AccessedAt,
	}
}

// Search looks for a child by name, case-insensitively.
func (node *Node) Search(name string) (*Node, bool) {
	target := strings.ToLower(name)
	i, found := sort.Find(len(node.Children), func(i int) int {
		return strings.Compare(target, strings.ToLower(node.Children[i].Name))
	})

	if found {
		return node.Children[i], true
	}
	return nil, false
}

// Count returns the number of records in the subtree.
func (node *Node) Count() int {
	count := 1
	for _, child := range node.Children {
		count += child.Count()
	}
	return count
}

// Equal compares two records structurally, ignoring timestamps.
func (node *Node) Equal(rhs *Node) bool {
	if node.Kind != rhs.Kind || node.Name != rhs.Name {
		return false
	}

	switch node.Kind {
	case namespace.FileTypeFile:
		return node.Hash == rhs.Hash && node.Size == rhs.Size
	case namespace.FileTypeFolder:
		if len(node.Children) != len(rhs.Children) {
			return false
		}
		for i := 0; i < len(node.Children); i++ {
			if !node.Children[i].Equal(rhs.Children[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
