package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"civicrecords-backend/lib/scrape"
	"civicrecords-backend/lib/serviceutil"
	"civicrecords-backend/lib/sqliteutil"
	"civicrecords-backend/lib/telemetry"
	"civicrecords-backend/services/ingest"
	"civicrecords-backend/services/ingest/db"
)

var (
	runLimit *int
	runForce *bool
	runReset *bool
	runDb    *string
)

func init() {
	runLimit = runCmd.Flags().Int("limit", 0, "Maximum number of new documents to process, 0 means all.")
	runForce = runCmd.Flags().Bool("force", false, "Process documents even when already seen.")
	runReset = runCmd.Flags().Bool("reset", false, "Start from an empty scrape state, refetching everything.")
	runDb = runCmd.Flags().String("db", "", "Database path, overrides the config file.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--limit <n>] [--force] [--reset] [--db <path>]",
	Short: "Runs the full pipeline: fetch, convert, parse items and votes, persist.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		if *runDb != "" {
			cfg.Database = *runDb
		}

		adapter := newAdapter(cfg)
		state := loadState(cfg, adapter.Source(), *runReset)

		database, err := sqliteutil.OpenDB(db.Schema, cfg.Database)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer database.Close()

		svc := ingest.NewService(database, loadRoster(cfg))
		telemetry.InstrumentPerfStats(cmd.Context())

		t1 := time.Now()
		summary, err := svc.Run(cmd.Context(), adapter, state, scrape.Options{
			Limit: *runLimit,
			Force: *runForce,
		})
		if err != nil {
			serviceutil.Fatal("pipeline run failed", err)
		}

		fmt.Println(summary.Render())
		slog.Info("pipeline run complete", "seconds", time.Since(t1).Seconds())
	},
}
