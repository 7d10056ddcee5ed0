package minutes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"civicrecords-backend/services/minutes/roster"
)

type Choice string

const (
	ChoiceAye     Choice = "aye"
	ChoiceNo      Choice = "no"
	ChoiceAbstain Choice = "abstain"
	ChoiceAbsent  Choice = "absent"
	ChoiceExcused Choice = "excused"
)

// Tallies holds the aggregate counts stated in the text; a missing key
// means the count is unknown, which is different from zero.
type Tallies map[Choice]int

// VoteRecord is one member's vote on one item. Unresolvable mentions are
// retained with the raw token rather than dropped, silent data loss is a
// defect.
type VoteRecord struct {
	// Member is the canonical name, or the raw extracted token when
	// Unresolved is set.
	Member     string
	Choice     Choice
	Unresolved bool
	// Candidates carries ambiguous roster matches for unresolved records.
	Candidates []string
}

// Extraction is the vote data pulled out of one item span.
type Extraction struct {
	Tallies     Tallies
	Votes       []VoteRecord
	Annotations []string
}

// attributionRule produces per-member vote records from item text. Rules
// are tried in a fixed order and the first one yielding any records wins;
// partial results from different rules are never merged, that would double
// count.
type attributionRule interface {
	name() string
	extract(text string, ros *roster.Roster) []VoteRecord
}

// Extract runs the rule cascade over one item span. The tally phrase rule
// fills the aggregate counts independently of attribution; the inline and
// roll-call rules compete for the vote records. No rule matching is not an
// error, plenty of items are never voted on.
func Extract(text string, ros *roster.Roster) Extraction {
	out := Extraction{
		Tallies: extractTallies(text),
	}

	for _, rule := range []attributionRule{inlineAttributionRule{}, rollCallRule{}} {
		votes := rule.extract(text, ros)
		if len(votes) > 0 {
			out.Votes = votes
			break
		}
	}

	out.Annotations = reconcile(out.Tallies, out.Votes)
	return out
}

// reconcile cross-checks stated tallies against attribution-derived counts.
// Discrepancies are surfaced as annotations, never silently corrected in
// either direction.
func reconcile(tallies Tallies, votes []VoteRecord) []string {
	if len(tallies) == 0 || len(votes) == 0 {
		return nil
	}

	derived := map[Choice]int{}
	for _, v := range votes {
		derived[v.Choice]++
	}

	var annotations []string
	for _, choice := range []Choice{ChoiceAye, ChoiceNo, ChoiceAbstain, ChoiceAbsent, ChoiceExcused} {
		stated, ok := tallies[choice]
		if !ok {
			continue
		}
		if stated != derived[choice] {
			annotations = append(annotations, fmt.Sprintf(
				"vote count mismatch: %s tally says %d, attribution says %d",
				choice, stated, derived[choice],
			))
		}
	}
	return annotations
}

// tally phrases look like "8 ayes, 3 noes" with optional abstain, absent
// and excused variants
var tallyRegexes = []struct {
	choice Choice
	regex  *regexp.Regexp
}{
	{ChoiceAye, regexp.MustCompile(`(?i)(\d+)\s+ayes?\b`)},
	{ChoiceNo, regexp.MustCompile(`(?i)(\d+)\s+no(?:es)?\b`)},
	{ChoiceAbstain, regexp.MustCompile(`(?i)(\d+)\s+abstain(?:ed|s)?\b`)},
	{ChoiceAbsent, regexp.MustCompile(`(?i)(\d+)\s+absent\b`)},
	{ChoiceExcused, regexp.MustCompile(`(?i)(\d+)\s+excused\b`)},
}

func extractTallies(text string) Tallies {
	tallies := Tallies{}
	for _, entry := range tallyRegexes {
		groups := entry.regex.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		n, err := strconv.Atoi(groups[1])
		if err != nil {
			continue
		}
		tallies[entry.choice] = n
	}
	return tallies
}

// inlineAttributionRule matches sentences like "Supervisor Preston voted
// aye", one record per mention. The keywords match case-insensitively
// since pdf text layers often lose casing, but the name capture still
// requires capitalization so stray prose is not read as a member.
type inlineAttributionRule struct{}

var inlineVoteRegex = regexp.MustCompile(`(?i:supervisor)\s+([A-Z][A-Za-z.'-]+(?:\s+[A-Z][A-Za-z.'-]+)?)\s+(?i:voted)\s+([A-Za-z]+)`)

func (inlineAttributionRule) name() string { return "inline-attribution" }

func (inlineAttributionRule) extract(text string, ros *roster.Roster) []VoteRecord {
	var votes []VoteRecord
	for _, groups := range inlineVoteRegex.FindAllStringSubmatch(text, -1) {
		choice, ok := normalizeChoice(groups[2])
		if !ok {
			continue
		}
		votes = append(votes, makeRecord(ros.Resolve(groups[1]), choice))
	}
	return votes
}

// rollCallRule matches labeled lists like "Ayes: Chan, Walton, Mandelman"
// and "Noes: Peskin". Labels are not anchored to line starts, several lists
// can share one line separated by sentence punctuation. When at least one
// labeled list is present the roll call is closed-world: roster members
// absent from every list are recorded Absent. Without any list no such
// inference is made, absence of a roll call must not be read as absence
// from the meeting.
type rollCallRule struct{}

var rollCallRegex = regexp.MustCompile(`(?i)\b(ayes?|noes?|abstain(?:ed)?|absent|excused)\s*:\s*([^.;\n]+)`)

func (rollCallRule) name() string { return "roll-call-block" }

func (rollCallRule) extract(text string, ros *roster.Roster) []VoteRecord {
	matches := rollCallRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var votes []VoteRecord
	mentioned := map[string]struct{}{}

	for _, groups := range matches {
		choice, ok := normalizeChoice(groups[1])
		if !ok {
			continue
		}
		for _, token := range splitNameList(groups[2]) {
			res := ros.Resolve(token)
			record := makeRecord(res, choice)
			if res.Resolved() {
				if _, dup := mentioned[res.Member.Name]; dup {
					continue
				}
				mentioned[res.Member.Name] = struct{}{}
			}
			votes = append(votes, record)
		}
	}
	if len(votes) == 0 {
		return nil
	}

	for _, m := range ros.Members() {
		if _, ok := mentioned[m.Name]; !ok {
			votes = append(votes, VoteRecord{Member: m.Name, Choice: ChoiceAbsent})
		}
	}
	return votes
}

func splitNameList(list string) []string {
	list = strings.ReplaceAll(list, " and ", ",")
	var out []string
	for _, token := range strings.Split(list, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}

func makeRecord(res roster.Resolution, choice Choice) VoteRecord {
	if res.Resolved() {
		return VoteRecord{Member: res.Member.Name, Choice: choice}
	}
	return VoteRecord{
		Member:     res.Raw,
		Choice:     choice,
		Unresolved: true,
		Candidates: res.Candidates,
	}
}

func normalizeChoice(word string) (Choice, bool) {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "aye", "ayes", "yes":
		return ChoiceAye, true
	case "no", "noes", "nay":
		return ChoiceNo, true
	case "abstain", "abstained":
		return ChoiceAbstain, true
	case "absent":
		return ChoiceAbsent, true
	case "excused":
		return ChoiceExcused, true
	default:
		return "", false
	}
}
