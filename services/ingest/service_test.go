package ingest

import (
	"context"
	"testing"
	"time"

	"civicrecords-backend/lib/pdftext"
	"civicrecords-backend/lib/scrape"
	"civicrecords-backend/lib/scrapestate"
	"civicrecords-backend/lib/testutil"
	"civicrecords-backend/services/ingest/db"
	"civicrecords-backend/services/minutes/roster"

	"github.com/stretchr/testify/require"
)

const minutesBody = `BOARD OF SUPERVISORS
Meeting Minutes

File No. 250210
Ordinance amending the Planning Code to rename a street.
Approved on first reading.
Ayes: Chan, Walton and Mandelman
Noes: Peskin

File No. 250211
Resolution commending the parks department.
Continued to the next meeting.
`

// fakeAdapter serves canned candidates and payloads so the pipeline can be
// exercised without a network or real pdf bytes. Payloads flow through an
// identity converter installed on the service under test.
type fakeAdapter struct {
	candidates []scrape.Candidate
	payloads   map[string][]byte
}

func (a *fakeAdapter) Source() string { return "testsource" }

func (a *fakeAdapter) Discover(ctx context.Context) ([]scrape.Candidate, error) {
	return a.candidates, nil
}

func (a *fakeAdapter) Fetch(ctx context.Context, c scrape.Candidate) ([]byte, error) {
	return a.payloads[c.URL], nil
}

func newTestService(t *testing.T) (*Service, func()) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "ingest",
		DbSchema: db.Schema,
	})

	svc := NewService(result.DB, roster.Default())
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	svc.toText = func(raw []byte) (string, error) {
		if string(raw) == "unreadable" {
			return "", pdftext.ErrUnreadable
		}
		return string(raw), nil
	}
	svc.toMarkdown = func(raw []byte) (string, error) {
		if string(raw) == "unreadable" {
			return "", pdftext.ErrUnreadable
		}
		return string(raw), nil
	}
	return svc, cleanup
}

func TestRunPersistsMinutes(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	date := time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)
	adapter := &fakeAdapter{
		candidates: []scrape.Candidate{
			{URL: "https://example.org/minutes_2025-02-25.pdf", Kind: scrape.KindMinutes, Date: date},
			{URL: "https://example.org/agenda_2025-02-25.pdf", Kind: scrape.KindAgenda, Date: date},
		},
		payloads: map[string][]byte{
			"https://example.org/minutes_2025-02-25.pdf": []byte(minutesBody),
			"https://example.org/agenda_2025-02-25.pdf":  []byte("AGENDA\nFile No. 250210\nSomething scheduled."),
		},
	}
	state := scrapestate.Empty(t.TempDir(), adapter.Source())

	summary, err := svc.Run(ctx, adapter, state, scrape.Options{})
	require.NoError(t, err)
	require.Equal(t, 2, summary.Fetched)
	require.Equal(t, 2, summary.Stored)
	require.Equal(t, 0, summary.Unreadable)
	require.Equal(t, 2, summary.Items)
	require.Equal(t, 11, summary.Votes, "four explicit votes plus absent fill for the rest of the roster")

	qry := db.New(svc.database)
	docs, err := qry.CountDocuments(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, docs)

	stored, err := qry.GetDocument(ctx, adapter.candidates[0].ID())
	require.NoError(t, err)
	require.Equal(t, "2025-02-25", stored.MeetingDate)
	require.Contains(t, stored.TextContent, "File No. 250210")
	require.NotEmpty(t, stored.MarkdownContent)

	// the agenda must not contribute items
	count, err := qry.CountItems(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	item, err := qry.GetItemByKey(ctx, "2025-02-25", "250210")
	require.NoError(t, err)
	require.Equal(t, "approved", item.Result)
	require.False(t, item.Ayes.Valid, "no tally phrase in the text, counts stay unknown")

	votes, err := qry.GetItemVotes(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, votes, 11, "roll call fills in absent for unmentioned members")

	choices := map[string]string{}
	for _, v := range votes {
		require.False(t, v.Unresolved)
		choices[v.Member] = v.Choice
	}
	require.Equal(t, "aye", choices["Connie Chan"])
	require.Equal(t, "aye", choices["Shamann Walton"])
	require.Equal(t, "aye", choices["Rafael Mandelman"])
	require.Equal(t, "no", choices["Aaron Peskin"])
	require.Equal(t, "absent", choices["Matt Dorsey"])

	continued, err := qry.GetItemByKey(ctx, "2025-02-25", "250211")
	require.NoError(t, err)
	require.Equal(t, "pending", continued.Result)
}

func TestRunSecondPassSkipsSeen(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	adapter := &fakeAdapter{
		candidates: []scrape.Candidate{
			{URL: "https://example.org/minutes_2025-02-25.pdf", Kind: scrape.KindMinutes,
				Date: time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)},
		},
		payloads: map[string][]byte{
			"https://example.org/minutes_2025-02-25.pdf": []byte(minutesBody),
		},
	}
	dir := t.TempDir()
	state := scrapestate.Empty(dir, adapter.Source())

	_, err := svc.Run(ctx, adapter, state, scrape.Options{})
	require.NoError(t, err)

	reloaded, err := scrapestate.Load(dir, adapter.Source())
	require.NoError(t, err)
	summary, err := svc.Run(ctx, adapter, reloaded, scrape.Options{})
	require.NoError(t, err)
	require.Equal(t, 0, summary.Fetched)
	require.Equal(t, 1, summary.Skipped)
}

func TestRunUnreadableDocumentDoesNotAbortBatch(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	date := time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)
	adapter := &fakeAdapter{
		candidates: []scrape.Candidate{
			{URL: "https://example.org/broken.pdf", Kind: scrape.KindMinutes, Date: date},
			{URL: "https://example.org/minutes_2025-02-25.pdf", Kind: scrape.KindMinutes, Date: date},
		},
		payloads: map[string][]byte{
			"https://example.org/broken.pdf":             []byte("unreadable"),
			"https://example.org/minutes_2025-02-25.pdf": []byte(minutesBody),
		},
	}
	state := scrapestate.Empty(t.TempDir(), adapter.Source())

	summary, err := svc.Run(ctx, adapter, state, scrape.Options{})
	require.NoError(t, err)
	require.Equal(t, 2, summary.Fetched)
	require.Equal(t, 1, summary.Unreadable)
	require.Equal(t, 1, summary.Stored)
	require.Equal(t, 2, summary.Items)
}

func TestProcessDocumentIsIdempotent(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	doc := scrape.Document{
		ID: "abc123",
		Candidate: scrape.Candidate{
			URL:  "https://example.org/minutes_2025-02-25.pdf",
			Kind: scrape.KindMinutes,
			Date: time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC),
		},
		Raw: []byte(minutesBody),
	}

	require.NoError(t, svc.ProcessDocument(ctx, "testsource", doc, nil))
	require.NoError(t, svc.ProcessDocument(ctx, "testsource", doc, nil))

	qry := db.New(svc.database)
	count, err := qry.CountItems(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	item, err := qry.GetItemByKey(ctx, "2025-02-25", "250210")
	require.NoError(t, err)
	votes, err := qry.GetItemVotes(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, votes, 11)
}

func TestSummaryRender(t *testing.T) {
	out := Summary{Fetched: 3, Items: 7}.Render()
	require.Contains(t, out, "Fetched")
	require.Contains(t, out, "Items parsed")
}
