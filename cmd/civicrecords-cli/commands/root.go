package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"civicrecords-backend/lib/configutil"
	"civicrecords-backend/lib/scrapers/sfbos"
	"civicrecords-backend/lib/scrapestate"
	"civicrecords-backend/lib/serviceutil"
	"civicrecords-backend/lib/telemetry"
	"civicrecords-backend/services/minutes/roster"

	"github.com/spf13/cobra"
)

var verbose *bool

func init() {
	verbose = rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging.")
}

var rootCmd = &cobra.Command{
	Use:   "civicrecords-cli",
	Short: "civicrecords-cli scrapes and parses municipal legislative records.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	// BaseUrl defaults to the production sfbos site when empty.
	BaseUrl string `json:"base_url"`
	// StateDir holds the per-source seen-id files.
	StateDir string `json:"state_dir"`
	Database string `json:"database"`
	// Roster points to a member roster file, the built-in seed roster is
	// used when empty.
	Roster         string `json:"roster"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("civicrecords.json5")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.StateDir == "" {
		cfg.StateDir = "."
	}
	if cfg.Database == "" {
		cfg.Database = "civicrecords.db"
	}
	return cfg
}

func timeout(cfg Config) time.Duration {
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

func newAdapter(cfg Config) *sfbos.Adapter {
	adapter, err := sfbos.New(sfbos.Options{
		BaseURL: cfg.BaseUrl,
		Timeout: timeout(cfg),
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize scraper", err)
	}
	return adapter
}

func loadRoster(cfg Config) *roster.Roster {
	if cfg.Roster == "" {
		return roster.Default()
	}
	ros, err := roster.LoadFile(cfg.Roster)
	if err != nil {
		serviceutil.Fatal("failed to load roster", err)
	}
	return ros
}

func loadState(cfg Config, source string, reset bool) *scrapestate.State {
	if reset {
		return scrapestate.Empty(cfg.StateDir, source)
	}
	state, err := scrapestate.Load(cfg.StateDir, source)
	if err != nil {
		if errors.Is(err, scrapestate.ErrCorrupt) {
			serviceutil.Fatal("scrape state is corrupt, rerun with --reset to refetch from scratch", err)
		}
		serviceutil.Fatal("failed to load scrape state", err)
	}
	return state
}
