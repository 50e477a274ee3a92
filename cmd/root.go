package cmd

import (
	"fmt"
	"os"

	"github.com/0glabs/0g-namespace/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel         string
	logColorDisabled bool

	storageRoot  string
	snapshotPath string

	conf *config.Config

	rootCmd = &cobra.Command{
		Use:           "0g-namespace",
		Short:         "Virtual namespace of folders and files mirrored on disk",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			initLog()
			return initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logrus.InfoLevel.String(), "Log level")
	rootCmd.PersistentFlags().BoolVar(&logColorDisabled, "log-color-disabled", false, "Force to disable colorful logs")
	rootCmd.PersistentFlags().StringVar(&storageRoot, "storage-root", "", "Physical mirror root, overrides NAMESPACE_STORAGE_ROOT")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "Snapshot file, overrides NAMESPACE_SNAPSHOT_PATH")
}

func initLog() {
	formatter := logrus.TextFormatter{
		FullTimestamp: true,
	}

	if logColorDisabled {
		formatter.DisableColors = true
	} else {
		formatter.ForceColors = true
	}

	logrus.SetFormatter(&formatter)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.WithError(err).WithField("level", logLevel).Fatal("Failed to parse log level")
	}

	logrus.SetLevel(level)
}

func initConfig(cmd *cobra.Command) (err error) {
	if conf, err = config.Load(); err != nil {
		return err
	}

	if cmd.Flags().Changed("storage-root") {
		conf.StorageRoot = storageRoot
	}

	if cmd.Flags().Changed("snapshot") {
		conf.SnapshotPath = snapshotPath
	}

	return nil
}

// Execute is the command line entrypoint.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
