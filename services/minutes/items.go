package minutes

import (
	"regexp"
	"strings"

	"civicrecords-backend/services/minutes/roster"
)

type Result string

const (
	ResultApproved Result = "approved"
	ResultRejected Result = "rejected"
	ResultPending  Result = "pending"
	ResultUnknown  Result = "unknown"
)

// Item is one legislative item extracted from a document.
type Item struct {
	FileNumber  string
	Title       string
	Description string
	Result      Result
	Tallies     Tallies
	Votes       []VoteRecord
	Annotations []string
}

// ParseItems segments the document and runs the vote extraction cascade
// over every item span.
func ParseItems(text string, ros *roster.Roster) []Item {
	spans := Segment(text)
	items := make([]Item, 0, len(spans))

	for _, span := range spans {
		body := text[span.Start:span.End]
		extraction := Extract(body, ros)

		items = append(items, Item{
			FileNumber:  span.FileNumber,
			Title:       itemTitle(body, span.FileNumber),
			Description: strings.TrimSpace(body),
			Result:      extractResult(body, extraction),
			Tallies:     extraction.Tallies,
			Votes:       extraction.Votes,
			Annotations: extraction.Annotations,
		})
	}

	return items
}

var (
	approvedRegex = regexp.MustCompile(`(?i)\b(approved|passed|adopted)\b`)
	rejectedRegex = regexp.MustCompile(`(?i)\b(rejected|failed)\b`)
	pendingRegex  = regexp.MustCompile(`(?i)\b(continued|withdrawn|tabled)\b`)
)

// extractResult scans the item span for disposition keywords. An item with
// vote data but no keyword is pending; an item with neither is unknown,
// informational items are never voted on.
func extractResult(body string, extraction Extraction) Result {
	switch {
	case approvedRegex.MatchString(body):
		return ResultApproved
	case rejectedRegex.MatchString(body):
		return ResultRejected
	case pendingRegex.MatchString(body):
		return ResultPending
	case len(extraction.Tallies) > 0 || len(extraction.Votes) > 0:
		return ResultPending
	default:
		return ResultUnknown
	}
}
