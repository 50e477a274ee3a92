package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	touchContent string

	mkdirCmd = &cobra.Command{
		Use:   "mkdir <path>...",
		Short: "Create folders",
		Args:  cobra.MinimumNArgs(1),
		RunE:  mkdir,
	}

	touchCmd = &cobra.Command{
		Use:   "touch <path>",
		Short: "Create a file",
		Args:  cobra.ExactArgs(1),
		RunE:  touch,
	}

	writeCmd = &cobra.Command{
		Use:   "write <path> <content>",
		Short: "Replace the content of a file",
		Args:  cobra.ExactArgs(2),
		RunE:  write,
	}

	rmCmd = &cobra.Command{
		Use:   "rm <path>...",
		Short: "Delete files and folders recursively",
		Args:  cobra.MinimumNArgs(1),
		RunE:  remove,
	}

	mvCmd = &cobra.Command{
		Use:   "mv <src> <dst-folder>",
		Short: "Move an entity into another folder",
		Args:  cobra.ExactArgs(2),
		RunE:  move,
	}

	cpCmd = &cobra.Command{
		Use:   "cp <src> <dst-folder>",
		Short: "Copy an entity into another folder",
		Args:  cobra.ExactArgs(2),
		RunE:  copyEntity,
	}

	renameCmd = &cobra.Command{
		Use:   "rename <path> <new-name>",
		Short: "Rename an entity",
		Args:  cobra.ExactArgs(2),
		RunE:  rename,
	}
)

func init() {
	touchCmd.Flags().StringVar(&touchContent, "content", "", "Initial file content")

	rootCmd.AddCommand(mkdirCmd, touchCmd, writeCmd, rmCmd, mvCmd, cpCmd, renameCmd)
}

func mkdir(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		for _, path := range args {
			e, err := s.tree.CreateFolder(path)
			if err != nil {
				return err
			}
			pterm.Success.Println("Created folder", s.tree.PathOf(e))
		}
		return nil
	})
}

func touch(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		e, err := s.tree.CreateFile(args[0], []byte(touchContent))
		if err != nil {
			return err
		}
		pterm.Success.Println("Created file", s.tree.PathOf(e))
		return nil
	})
}

func write(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		if err := s.tree.Write(args[0], []byte(args[1])); err != nil {
			return err
		}
		pterm.Success.Println("Written", args[0])
		return nil
	})
}

func remove(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		// nothing is deleted unless every path resolves
		for _, path := range args {
			if _, err := s.tree.Stat(path); err != nil {
				return err
			}
		}

		for _, path := range args {
			if err := s.tree.Delete(path); err != nil {
				return err
			}
			pterm.Success.Println("Deleted", path)
		}
		return nil
	})
}

func move(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		if err := s.tree.Move(args[0], args[1]); err != nil {
			return err
		}
		pterm.Success.Printfln("Moved %s into %s", args[0], args[1])
		return nil
	})
}

func copyEntity(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		e, err := s.tree.Copy(args[0], args[1])
		if err != nil {
			return err
		}
		pterm.Success.Println("Copied to", s.tree.PathOf(e))
		return nil
	})
}

func rename(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		if err := s.tree.Rename(args[0], args[1]); err != nil {
			return err
		}
		pterm.Success.Printfln("Renamed %s to %s", args[0], args[1])
		return nil
	})
}
