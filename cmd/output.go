package cmd

import (
	"fmt"
	"time"

	"github.com/0glabs/0g-namespace/namespace"
	"github.com/0glabs/0g-namespace/namespace/snapshot"
	"github.com/pterm/pterm"
)

const timeLayout = time.DateTime

func renderInfos(infos []namespace.Info) error {
	data := pterm.TableData{{"Name", "Type", "Size", "Modified"}}
	for _, info := range infos {
		data = append(data, []string{
			info.Name,
			string(info.Type),
			fmt.Sprint(info.Size),
			info.ModifiedAt.Local().Format(timeLayout),
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderInfo(info namespace.Info) error {
	data := pterm.TableData{
		{"Field", "Value"},
		{"Name", info.Name},
		{"Path", info.Path},
		{"Type", string(info.Type)},
		{"Size", fmt.Sprint(info.Size)},
		{"Created", info.CreatedAt.Local().Format(timeLayout)},
		{"Modified", info.ModifiedAt.Local().Format(timeLayout)},
		{"Accessed", info.AccessedAt.Local().Format(timeLayout)},
	}

	if info.Type == namespace.FileTypeFolder {
		data = append(data, []string{"Children", fmt.Sprint(info.Children)})
	} else if len(info.MIME) > 0 {
		data = append(data, []string{"MIME", info.MIME})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderTree(tree *namespace.Tree, e *namespace.Entity) error {
	return pterm.DefaultTree.WithRoot(treeNode(tree, e)).Render()
}

func treeNode(tree *namespace.Tree, e *namespace.Entity) pterm.TreeNode {
	if e.IsFile() {
		return pterm.TreeNode{Text: e.Name()}
	}

	node := pterm.TreeNode{Text: pterm.FgBlue.Sprint(e.Name())}
	for _, child := range tree.Children(e) {
		node.Children = append(node.Children, treeNode(tree, child))
	}
	return node
}

var diffStyles = map[snapshot.DiffStatus]pterm.Color{
	snapshot.Added:     pterm.FgGreen,
	snapshot.Removed:   pterm.FgRed,
	snapshot.Modified:  pterm.FgYellow,
	snapshot.Unchanged: pterm.FgDefault,
}

func renderDiff(root *snapshot.DiffNode) error {
	return pterm.DefaultTree.WithRoot(diffTreeNode(root)).Render()
}

func diffTreeNode(dn *snapshot.DiffNode) pterm.TreeNode {
	text := dn.Node.Name
	if dn.Status != snapshot.Unchanged {
		text = fmt.Sprintf("%s (%s)", text, dn.Status)
	}

	node := pterm.TreeNode{Text: diffStyles[dn.Status].Sprint(text)}
	for _, child := range dn.Children() {
		node.Children = append(node.Children, diffTreeNode(child))
	}
	return node
}
