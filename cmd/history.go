package cmd

import (
	"github.com/0glabs/0g-namespace/common"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	historyArgs struct {
		limit  int
		recent bool
	}

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show file access history, newest first",
		Args:  cobra.NoArgs,
		RunE:  showHistory,
	}
)

func init() {
	historyCmd.Flags().IntVar(&historyArgs.limit, "limit", 20, "Maximum number of entries, 0 for all")
	historyCmd.Flags().BoolVar(&historyArgs.recent, "recent", false, "Show only the last access of recently used files")

	rootCmd.AddCommand(historyCmd)
}

func showHistory(*cobra.Command, []string) error {
	log, err := openHistory(common.NewLogger(common.LogOption{Logger: logrus.StandardLogger()}))
	if err != nil {
		return err
	}
	defer log.Close()

	data := pterm.TableData{{"Time", "Path"}}

	if historyArgs.recent {
		for _, entry := range log.Recent() {
			data = append(data, []string{entry.At.Local().Format(timeLayout), entry.Path})
		}
	} else {
		entries, err := log.Entries(historyArgs.limit)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			data = append(data, []string{entry.At.Local().Format(timeLayout), entry.Path})
		}
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
