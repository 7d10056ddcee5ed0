// Package scrapestate persists the set of document ids a source has already
// been scraped for, so repeated invocations only fetch what is new.
package scrapestate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// ErrCorrupt indicates the state file exists but cannot be parsed. Callers
// must not silently treat this as an empty state, discarding scrape history
// is an explicit operation (Reset).
var ErrCorrupt = errors.New("scrape state is corrupt")

type stateFile struct {
	Source      string   `json:"source"`
	SeenIds     []string `json:"seen_ids"`
	LastUpdated string   `json:"last_updated"`
}

// State is the single source of truth for "already acquired" documents of
// one source. It only grows, except under an explicit Reset. It is not safe
// for concurrent writers, a second process mutating the same state file
// must be prevented externally.
type State struct {
	Source      string
	LastUpdated time.Time

	path string
	seen map[string]struct{}
}

// Load reads the persisted state for the given source, returning an empty
// state when no file exists yet. A file that exists but does not parse
// fails with ErrCorrupt.
func Load(dir, source string) (*State, error) {
	s := &State{
		Source: source,
		path:   filepath.Join(dir, fmt.Sprintf("%s_state.json", source)),
		seen:   map[string]struct{}{},
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	var file stateFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if file.LastUpdated != "" {
		s.LastUpdated, err = time.Parse(time.RFC3339, file.LastUpdated)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad last_updated: %v", ErrCorrupt, s.path, err)
		}
	}
	for _, id := range file.SeenIds {
		s.seen[id] = struct{}{}
	}
	return s, nil
}

// Empty returns a fresh in-memory state that will save to the same location
// Load would have used. It is the recovery path for ErrCorrupt when the
// caller explicitly requested a reset.
func Empty(dir, source string) *State {
	return &State{
		Source: source,
		path:   filepath.Join(dir, fmt.Sprintf("%s_state.json", source)),
		seen:   map[string]struct{}{},
	}
}

func (s *State) Contains(id string) bool {
	_, ok := s.seen[id]
	return ok
}

func (s *State) Len() int {
	return len(s.seen)
}

// MarkSeen records an id in memory only. Persistence is explicit via Save
// so a batch of fetches costs one write.
func (s *State) MarkSeen(id string) {
	s.seen[id] = struct{}{}
	s.LastUpdated = time.Now()
}

// Save writes the state atomically, temp file then rename, so a crash mid
// write leaves the previous valid file in place.
func (s *State) Save() error {
	ids := make([]string, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	file := stateFile{
		Source:      s.Source,
		SeenIds:     ids,
		LastUpdated: s.LastUpdated.Format(time.RFC3339),
	}
	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Reset clears the seen set. Never called automatically.
func (s *State) Reset() {
	s.seen = map[string]struct{}{}
	s.LastUpdated = time.Now()
}
