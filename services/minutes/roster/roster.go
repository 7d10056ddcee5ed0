// Package roster resolves free-text member mentions against the canonical
// board roster.
package roster

import (
	"fmt"
	"strings"

	"civicrecords-backend/lib/configutil"
	"civicrecords-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

type Member struct {
	// Name is the canonical identity VoteRecords are keyed on.
	Name     string   `json:"name"`
	Aliases  []string `json:"aliases,omitempty"`
	District int      `json:"district,omitempty"`
}

func (m Member) Surname() string {
	fields := strings.Fields(m.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// Roster is static reference data, loaded once at process start and
// immutable during a run.
type Roster struct {
	members []Member
}

func New(members []Member) *Roster {
	return &Roster{members: members}
}

func (r *Roster) Members() []Member {
	return r.members
}

func (r *Roster) Len() int {
	return len(r.members)
}

type rosterFile struct {
	Members []Member `json:"members"`
}

// LoadFile reads a roster config (json5, with local overrides).
func LoadFile(name string) (*Roster, error) {
	cfg, err := configutil.ReadConfig[rosterFile](name)
	if err != nil {
		return nil, err
	}
	if len(cfg.Members) == 0 {
		return nil, fmt.Errorf("roster %s has no members", name)
	}
	return New(cfg.Members), nil
}

// Resolution is the outcome of resolving one raw token. Member is nil when
// the token could not be resolved unambiguously; Candidates then carries
// the ambiguous surname matches, or a single nearest-name hint.
type Resolution struct {
	Raw        string
	Member     *Member
	Candidates []string
}

func (res Resolution) Resolved() bool {
	return res.Member != nil
}

var honorifics = []string{"supervisor", "president", "member", "mr.", "ms.", "mrs.", "dr."}

func stripHonorific(raw string) string {
	token := textutil.CollapseWhitespace(raw)
	lower := strings.ToLower(token)
	for _, prefix := range honorifics {
		if strings.HasPrefix(lower, prefix+" ") {
			return token[len(prefix)+1:]
		}
	}
	return token
}

// similarity floor for the nearest-name hint attached to unresolved tokens
const hintSimilarity = 0.9

// Resolve matches a raw textual mention to a roster member: exact canonical
// name first, then aliases, then a case-insensitive surname match (roll
// call blocks mostly use bare surnames). Two members sharing a surname are
// never silently resolved to either, a wrong attribution is worse than a
// missing one.
func (r *Roster) Resolve(raw string) Resolution {
	token := stripHonorific(raw)
	normalized := textutil.NormalizeName(token)
	if normalized == "" {
		return Resolution{Raw: raw}
	}

	for i, m := range r.members {
		if textutil.NormalizeName(m.Name) == normalized {
			return Resolution{Raw: raw, Member: &r.members[i]}
		}
	}

	for i, m := range r.members {
		for _, alias := range m.Aliases {
			if textutil.NormalizeName(alias) == normalized {
				return Resolution{Raw: raw, Member: &r.members[i]}
			}
		}
	}

	var surnameMatches []int
	for i, m := range r.members {
		if strings.EqualFold(m.Surname(), token) {
			surnameMatches = append(surnameMatches, i)
		}
	}
	switch len(surnameMatches) {
	case 1:
		return Resolution{Raw: raw, Member: &r.members[surnameMatches[0]]}
	case 0:
		// fall through to the similarity hint
	default:
		candidates := make([]string, len(surnameMatches))
		for i, idx := range surnameMatches {
			candidates[i] = r.members[idx].Name
		}
		return Resolution{Raw: raw, Candidates: candidates}
	}

	// nothing matched; attach the closest canonical name as a hint for
	// external disambiguation, never as a resolution
	var best string
	var bestScore float64
	for _, m := range r.members {
		score := matchr.JaroWinkler(strings.ToLower(token), strings.ToLower(m.Surname()), false)
		if score > bestScore {
			bestScore = score
			best = m.Name
		}
	}
	if bestScore >= hintSimilarity {
		return Resolution{Raw: raw, Candidates: []string{best}}
	}
	return Resolution{Raw: raw}
}
