// Package ingest ties the acquisition, conversion and parsing stages into
// one pipeline run: scrape new documents, extract their text, parse
// legislative items and votes out of minutes, and persist everything.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"civicrecords-backend/lib/pdftext"
	"civicrecords-backend/lib/scrape"
	"civicrecords-backend/lib/scrapestate"
	"civicrecords-backend/services/ingest/db"
	"civicrecords-backend/services/minutes"
	"civicrecords-backend/services/minutes/roster"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/ingest")

type Service struct {
	database *sql.DB
	qry      *db.Queries
	roster   *roster.Roster
	now      func() time.Time

	toText     func([]byte) (string, error)
	toMarkdown func([]byte) (string, error)
}

func NewService(database *sql.DB, ros *roster.Roster) *Service {
	return &Service{
		database:   database,
		qry:        db.New(database),
		roster:     ros,
		now:        time.Now,
		toText:     pdftext.ToText,
		toMarkdown: pdftext.ToMarkdown,
	}
}

// Summary aggregates one pipeline run for reporting.
type Summary struct {
	Fetched    int
	Skipped    int
	Failed     int
	Stored     int
	Unreadable int
	Items      int
	Votes      int
	Mismatches int
	Unresolved int
}

// Render formats the summary as a table for CLI output.
func (s Summary) Render() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Stage", "Count"})
	t.AppendRows([]table.Row{
		{"Fetched", s.Fetched},
		{"Skipped (already seen)", s.Skipped},
		{"Fetch failures", s.Failed},
		{"Stored documents", s.Stored},
		{"Unreadable PDFs", s.Unreadable},
		{"Items parsed", s.Items},
		{"Votes recorded", s.Votes},
		{"Tally mismatches", s.Mismatches},
		{"Unresolved members", s.Unresolved},
	})
	return t.Render()
}

// Run executes one full pipeline pass against the given adapter. Failures
// on individual documents are counted, logged and skipped; only discovery,
// state persistence, or database errors abort the run.
func (s *Service) Run(ctx context.Context, adapter scrape.Adapter, state *scrapestate.State, opts scrape.Options) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	var summary Summary

	result, err := scrape.Run(ctx, adapter, state, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scrape failed")
		return summary, err
	}
	summary.Fetched = len(result.Fetched)
	summary.Skipped = result.Skipped
	summary.Failed = len(result.Failed)

	for _, doc := range result.Fetched {
		if err := s.ProcessDocument(ctx, adapter.Source(), doc, &summary); err != nil {
			if errors.Is(err, pdftext.ErrUnreadable) {
				slog.WarnContext(ctx, "skipping unreadable document",
					"id", doc.ID, "url", doc.URL, "err", err)
				summary.Unreadable++
				continue
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "processing failed")
			return summary, fmt.Errorf("processing document %s: %w", doc.ID, err)
		}
		summary.Stored++
	}

	return summary, nil
}

// ProcessDocument converts one fetched document, persists its text and, for
// minutes, parses and persists its items and votes inside one transaction.
func (s *Service) ProcessDocument(ctx context.Context, source string, doc scrape.Document, summary *Summary) error {
	ctx, span := tracer.Start(ctx, "ProcessDocument")
	defer span.End()
	span.SetAttributes(
		attribute.String("id", doc.ID),
		attribute.String("kind", string(doc.Kind)),
	)

	text, err := s.toText(doc.Raw)
	if err != nil {
		return err
	}
	markdown, err := s.toMarkdown(doc.Raw)
	if err != nil {
		return err
	}

	meetingDate := doc.Date.Format(time.DateOnly)
	err = s.qry.UpsertDocument(ctx, db.UpsertDocumentParams{
		ID:              doc.ID,
		Source:          source,
		URL:             doc.URL,
		Kind:            string(doc.Kind),
		MeetingDate:     meetingDate,
		TextContent:     text,
		MarkdownContent: markdown,
		FetchedAt:       s.now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	if doc.Kind != scrape.KindMinutes {
		return nil
	}

	items := minutes.ParseItems(text, s.roster)
	slog.InfoContext(ctx, "parsed minutes document",
		"id", doc.ID, "date", meetingDate, "items", len(items))

	tx, err := s.database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	qtx := s.qry.WithTx(tx)

	for _, item := range items {
		itemID, err := qtx.UpsertItem(ctx, db.UpsertItemParams{
			MeetingDate: meetingDate,
			FileNumber:  item.FileNumber,
			Title:       item.Title,
			Description: item.Description,
			Result:      string(item.Result),
			Ayes:        tally(item.Tallies, minutes.ChoiceAye),
			Noes:        tally(item.Tallies, minutes.ChoiceNo),
			Abstains:    tally(item.Tallies, minutes.ChoiceAbstain),
			Absents:     tally(item.Tallies, minutes.ChoiceAbsent),
			Excused:     tally(item.Tallies, minutes.ChoiceExcused),
			Annotations: strings.Join(item.Annotations, "; "),
		})
		if err != nil {
			return fmt.Errorf("upserting item %q: %w", item.FileNumber, err)
		}

		// re-processing replaces the vote set wholesale, a stale record
		// from a prior parse must not survive
		if err := qtx.DeleteItemVotes(ctx, itemID); err != nil {
			return err
		}
		for _, vote := range item.Votes {
			err := qtx.CreateVote(ctx, db.CreateVoteParams{
				ItemID:     itemID,
				Member:     vote.Member,
				Choice:     string(vote.Choice),
				Unresolved: vote.Unresolved,
			})
			if err != nil {
				return fmt.Errorf("recording vote for %q: %w", vote.Member, err)
			}
			if summary != nil {
				summary.Votes++
				if vote.Unresolved {
					summary.Unresolved++
				}
			}
		}
		if summary != nil {
			summary.Items++
			summary.Mismatches += len(item.Annotations)
		}
	}

	return tx.Commit()
}

func tally(t minutes.Tallies, choice minutes.Choice) sql.NullInt64 {
	n, ok := t[choice]
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}
