package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"civicrecords-backend/lib/scrapestate"
	"civicrecords-backend/lib/serviceutil"
)

func init() {
	rootCmd.AddCommand(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clears the scrape state so the next run refetches every document.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		adapter := newAdapter(cfg)

		state := scrapestate.Empty(cfg.StateDir, adapter.Source())
		if err := state.Save(); err != nil {
			serviceutil.Fatal("failed to save empty scrape state", err)
		}
		slog.Info("scrape state reset", "source", adapter.Source())
	},
}
