package scrape

import (
	"context"
	"log/slog"

	"civicrecords-backend/lib/scrapestate"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/scrape")

type Options struct {
	// Limit caps how many new candidates are fetched, 0 means no cap.
	Limit int
	// Force fetches candidates even when the state already contains them.
	Force bool
}

type Failure struct {
	Candidate Candidate
	Err       error
}

type Result struct {
	Fetched []Document
	Skipped int
	Failed  []Failure
}

// Run executes one incremental acquisition pass: discover, filter against
// the seen-id state, fetch what is new, then persist the state exactly
// once. Per-candidate fetch failures are recorded and never abort the
// batch; only discovery and state persistence failures do.
//
// Fetches run sequentially on purpose, the upstream site must not see
// concurrent requests from this pipeline.
func Run(ctx context.Context, adapter Adapter, state *scrapestate.State, opts Options) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(attribute.String("source", adapter.Source()))

	var result Result

	candidates, err := adapter.Discover(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "discover failed")
		return result, err
	}
	slog.InfoContext(ctx, "discovered candidates", "source", adapter.Source(), "count", len(candidates))

	// partition preserving discovery order, the adapter is responsible
	// for most-recent-first
	var pending []Candidate
	for _, c := range candidates {
		if !opts.Force && state.Contains(c.ID()) {
			result.Skipped++
			continue
		}
		pending = append(pending, c)
	}
	if opts.Limit > 0 && len(pending) > opts.Limit {
		pending = pending[:opts.Limit]
	}
	slog.InfoContext(ctx, "fetching new documents",
		"source", adapter.Source(),
		"new", len(pending),
		"skipped", result.Skipped,
	)

	for _, c := range pending {
		raw, err := adapter.Fetch(ctx, c)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch document", "url", c.URL, "err", err)
			result.Failed = append(result.Failed, Failure{Candidate: c, Err: err})
			continue
		}

		state.MarkSeen(c.ID())
		result.Fetched = append(result.Fetched, Document{
			ID:        c.ID(),
			Candidate: c,
			Raw:       raw,
		})
		slog.DebugContext(ctx, "fetched document", "url", c.URL, "bytes", len(raw))
	}

	// one save per batch; a crash before this line re-fetches the batch
	// on the next run, which is harmless because fetch and extraction are
	// idempotent per document id
	if err := state.Save(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "state save failed")
		return result, err
	}

	return result, nil
}
