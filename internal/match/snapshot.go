package match

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pable/volleytag/internal/model"
)

// Lineup pairs both sides' on-court assignments for serialization.
type Lineup struct {
	Home SideLineup `json:"home"`
	Away SideLineup `json:"away"`
}

// Snapshot is the persistence schema read and written by external
// collaborators. Round-tripping serialize → deserialize reproduces an
// identical engine state.
type Snapshot struct {
	Metadata   model.MatchMetadata `json:"metadata"`
	Lineup     Lineup              `json:"lineup"`
	Events     []model.TagEvent    `json:"events"`
	Score      model.Score         `json:"score"`
	Serving    model.TeamSide      `json:"serving"`
	CurrentSet int                 `json:"currentSet"`
}

// Snapshot captures the full engine state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Metadata:   e.meta,
		Lineup:     Lineup{Home: e.home, Away: e.away},
		Events:     e.Events(),
		Score:      e.score,
		Serving:    e.serving,
		CurrentSet: e.set,
	}
}

// Validate checks a snapshot for structural sanity before it is allowed to
// replace live state.
func (s Snapshot) Validate() error {
	if s.CurrentSet < 1 {
		return fmt.Errorf("snapshot: set %d out of range", s.CurrentSet)
	}
	if !s.Serving.Valid() {
		return fmt.Errorf("snapshot: bad serving side %q", s.Serving)
	}
	if s.Score.Home < 0 || s.Score.Away < 0 {
		return fmt.Errorf("snapshot: negative score %d-%d", s.Score.Home, s.Score.Away)
	}
	for i, ev := range s.Events {
		if ev.ID == "" {
			return fmt.Errorf("snapshot: event %d has no id", i)
		}
		if !ev.Result.Valid() {
			return fmt.Errorf("snapshot: event %s has bad result %q", ev.ID, ev.Result)
		}
		if !ev.StartZone.Valid() || !ev.EndZone.Valid() {
			return fmt.Errorf("snapshot: event %s has out-of-range zones", ev.ID)
		}
		if ev.Set < 1 || ev.Set > s.CurrentSet {
			return fmt.Errorf("snapshot: event %s in set %d beyond current set %d", ev.ID, ev.Set, s.CurrentSet)
		}
	}
	return nil
}

// Restore replaces the engine state with a validated snapshot. On a
// malformed snapshot the import is aborted and the current in-memory state
// is left untouched.
func (e *Engine) Restore(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.meta = s.Metadata
	e.home = s.Lineup.Home
	e.away = s.Lineup.Away
	e.events = make([]model.TagEvent, len(s.Events))
	copy(e.events, s.Events)
	e.score = s.Score
	e.serving = s.Serving
	e.set = s.CurrentSet
	e.mutated()
	return nil
}

// Encode serializes the snapshot as indented JSON.
func (s Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// ReadSnapshot decodes and validates a snapshot from JSON.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
