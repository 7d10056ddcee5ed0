package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"civicrecords-backend/lib/serviceutil"
)

func init() {
	rootCmd.AddCommand(discoverCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Lists the documents currently discoverable on the source site without fetching them.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		adapter := newAdapter(cfg)
		state := loadState(cfg, adapter.Source(), false)

		candidates, err := adapter.Discover(cmd.Context())
		if err != nil {
			serviceutil.Fatal("discovery failed", err)
		}

		t := table.NewWriter()
		t.AppendHeader(table.Row{"Date", "Kind", "Seen", "URL"})
		for _, c := range candidates {
			t.AppendRow(table.Row{
				c.Date.Format(time.DateOnly),
				c.Kind,
				state.Contains(c.ID()),
				c.URL,
			})
		}
		fmt.Println(t.Render())
	},
}
