package cmd

import (
	"context"

	"github.com/0glabs/0g-namespace/namespace"
	"github.com/0glabs/0g-namespace/namespace/snapshot"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show the changes of the physical mirror since the last snapshot",
	Args:  cobra.NoArgs,
	RunE:  diff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

// diff compares the saved snapshot with the mirror as it is on disk. The
// namespace is not loaded, so nothing gets reconciled before comparing.
func diff(cmd *cobra.Command, _ []string) error {
	root, err := diffMirror(cmd.Context())
	if err != nil {
		return err
	}

	return renderDiff(root)
}

func diffMirror(ctx context.Context) (*snapshot.DiffNode, error) {
	saved, err := snapshot.NewOsFileStore(conf.SnapshotPath, conf.SnapshotCompress).Load()
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		return nil, errors.New("no snapshot saved yet")
	}
	if err != nil {
		return nil, err
	}

	mirror, err := namespace.NewOsMirror(conf.StorageRoot)
	if err != nil {
		return nil, err
	}

	live, err := snapshot.ScanMirror(ctx, mirror)
	if err != nil {
		return nil, err
	}

	root, err := snapshot.Diff(saved, live)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to diff namespace")
	}

	return root, nil
}
