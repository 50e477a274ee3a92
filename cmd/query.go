package cmd

import (
	"os"

	"github.com/0glabs/0g-namespace/editor"
	"github.com/0glabs/0g-namespace/namespace"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	lsCmd = &cobra.Command{
		Use:   "ls [path]",
		Short: "List the children of a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE:  list,
	}

	catCmd = &cobra.Command{
		Use:   "cat <path>",
		Short: "Print the content of a file with line numbers",
		Args:  cobra.ExactArgs(1),
		RunE:  cat,
	}

	editCmd = &cobra.Command{
		Use:   "edit <path>",
		Short: "Edit a file in the line editor",
		Args:  cobra.ExactArgs(1),
		RunE:  edit,
	}

	statCmd = &cobra.Command{
		Use:   "stat <path>",
		Short: "Show entity metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  stat,
	}

	treeCmd = &cobra.Command{
		Use:   "tree [path]",
		Short: "Print a folder recursively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printTree,
	}

	findCmd = &cobra.Command{
		Use:   "find <pattern>",
		Short: "Find entities by glob pattern, e.g. '/docs/**/*.md'",
		Args:  cobra.ExactArgs(1),
		RunE:  find,
	}
)

func init() {
	rootCmd.AddCommand(lsCmd, catCmd, editCmd, statCmd, treeCmd, findCmd)
}

func pathArg(args []string) string {
	if len(args) == 0 {
		return namespace.Separator
	}
	return args[0]
}

func list(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		infos, err := s.tree.List(pathArg(args))
		if err != nil {
			return err
		}
		return renderInfos(infos)
	})
}

func cat(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		return s.tree.View(args[0], editor.New(os.Stdin, os.Stdout))
	})
}

func edit(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		if err := s.tree.Edit(args[0], editor.New(os.Stdin, os.Stdout)); err != nil {
			return err
		}
		pterm.Success.Println("Saved", args[0])
		return nil
	})
}

func stat(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		info, err := s.tree.Stat(args[0])
		if err != nil {
			return err
		}
		return renderInfo(info)
	})
}

func printTree(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		e, err := s.tree.Resolve(pathArg(args))
		if err != nil {
			return err
		}
		return renderTree(s.tree, e)
	})
}

func find(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		matches, err := s.tree.Find(args[0])
		if err != nil {
			return err
		}
		for _, match := range matches {
			pterm.Println(match)
		}
		return nil
	})
}
