package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"civicrecords-backend/lib/serviceutil"
	"civicrecords-backend/lib/sqliteutil"
	"civicrecords-backend/services/ingest/db"
)

var summaryDb *string

func init() {
	summaryDb = summaryCmd.Flags().String("db", "", "Database path, overrides the config file.")
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary [--db <path>]",
	Short: "Prints counts of stored documents, items and votes.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		if *summaryDb != "" {
			cfg.Database = *summaryDb
		}

		database, err := sqliteutil.OpenDB(db.Schema, cfg.Database)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer database.Close()

		qry := db.New(database)
		ctx := cmd.Context()

		docs, err := qry.CountDocuments(ctx)
		if err != nil {
			serviceutil.Fatal("failed to count documents", err)
		}
		items, err := qry.CountItems(ctx)
		if err != nil {
			serviceutil.Fatal("failed to count items", err)
		}
		votes, err := qry.CountVotes(ctx)
		if err != nil {
			serviceutil.Fatal("failed to count votes", err)
		}

		t := table.NewWriter()
		t.AppendHeader(table.Row{"Table", "Rows"})
		t.AppendRows([]table.Row{
			{"documents", docs},
			{"items", items},
			{"votes", votes},
		})
		fmt.Println(t.Render())
	},
}
