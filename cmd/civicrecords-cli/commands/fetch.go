package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"civicrecords-backend/lib/pdftext"
	"civicrecords-backend/lib/scrape"
	"civicrecords-backend/lib/serviceutil"
)

var (
	fetchLimit *int
	fetchForce *bool
	fetchOut   *string
)

func init() {
	fetchLimit = fetchCmd.Flags().Int("limit", 0, "Maximum number of new documents to fetch, 0 means all.")
	fetchForce = fetchCmd.Flags().Bool("force", false, "Fetch documents even when already seen.")
	fetchOut = fetchCmd.Flags().String("out", ".", "Directory to write fetched text files to.")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--limit <n>] [--force] [--out <dir>]",
	Short: "Fetches new documents and writes their extracted text to disk, without parsing.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		adapter := newAdapter(cfg)
		state := loadState(cfg, adapter.Source(), false)

		result, err := scrape.Run(cmd.Context(), adapter, state, scrape.Options{
			Limit: *fetchLimit,
			Force: *fetchForce,
		})
		if err != nil {
			serviceutil.Fatal("fetch failed", err)
		}

		if err := os.MkdirAll(*fetchOut, 0755); err != nil {
			serviceutil.Fatal("failed to create output directory", err)
		}
		for _, doc := range result.Fetched {
			text, err := pdftext.ToText(doc.Raw)
			if err != nil {
				slog.Warn("skipping unreadable document", "url", doc.URL, "err", err)
				continue
			}
			name := filepath.Join(*fetchOut, doc.ID+".txt")
			if err := os.WriteFile(name, []byte(text), 0644); err != nil {
				serviceutil.Fatal("failed to write output file", err)
			}
			slog.Info("wrote document text", "file", name, "url", doc.URL)
		}
		slog.Info("fetch complete",
			"fetched", len(result.Fetched),
			"skipped", result.Skipped,
			"failed", len(result.Failed),
		)
	},
}
