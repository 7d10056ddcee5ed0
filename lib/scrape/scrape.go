// Package scrape defines the source adapter boundary and the orchestrator
// that drives incremental acquisition against a persisted scrape state.
//
// adapters are mostly stateless, discovery and fetching are independent of
// each other and output depends solely on input plus whatever the upstream
// site currently serves.
//
// each adapter generally has this structure:
// 1. Discover: listing page -> candidate descriptors (url, kind, date).
// 2. Fetch: candidate -> raw document bytes.
// the orchestrator is the thing that combines the two with the seen-id
// state into one incremental pass.
package scrape

import (
	"context"
	"fmt"
	"time"

	"civicrecords-backend/lib/docid"
)

type Kind string

const (
	KindAgenda  Kind = "agenda"
	KindMinutes Kind = "minutes"
	KindOther   Kind = "other"
)

// Candidate describes a document an adapter discovered but has not fetched.
type Candidate struct {
	URL  string
	Kind Kind
	// Date is the meeting date the document was published for, not the
	// date it was discovered.
	Date time.Time
}

// ID returns the stable deduplication id for this candidate.
func (c Candidate) ID() string {
	return docid.Identify(c.URL, string(c.Kind), c.Date)
}

// Document is a fetched candidate. It is owned by the orchestration pass
// that produced it, only its id outlives the pass via the scrape state.
type Document struct {
	ID string
	Candidate
	Raw []byte
}

// FetchError wraps a per-candidate fetch failure. Transient failures
// (network, 5xx) may succeed on a later batch, permanent ones (4xx) are
// recorded so the candidate is never retried automatically.
type FetchError struct {
	URL       string
	Transient bool
	Err       error
}

func (e *FetchError) Error() string {
	cause := "permanent"
	if e.Transient {
		cause = "transient"
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, cause, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Adapter is implemented once per upstream site.
type Adapter interface {
	Source() string
	// Discover returns the finite set of currently-listed candidates,
	// most recent first. It is restartable only by calling it again.
	Discover(ctx context.Context) ([]Candidate, error)
	// Fetch retrieves the raw bytes of one candidate. Implementations own
	// the per-request timeout.
	Fetch(ctx context.Context, c Candidate) ([]byte, error)
}
