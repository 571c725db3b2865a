// Package match implements the volleyball match-state engine: the lineup and
// rotation state machine, the append-only event ledger, the score/serve
// coupling, and substitutions. All transitions run on one logical control
// path; the engine holds no locks and expects a single writer.
package match

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pable/volleytag/internal/court"
	"github.com/pable/volleytag/internal/model"
)

// Validation failures surfaced to the caller. None are fatal; all leave the
// engine state untouched.
var (
	ErrIncompleteEvent     = errors.New("pending event needs a team, player and skill")
	ErrInvalidResult       = errors.New("unknown rally result")
	ErrInvalidSubstitution = errors.New("substitution rejected")
)

// Engine is the live match state. Construct with New; zero value is not
// usable.
type Engine struct {
	meta    model.MatchMetadata
	home    SideLineup
	away    SideLineup
	events  []model.TagEvent
	score   model.Score
	serving model.TeamSide
	set     int

	policy RotationPolicy
	roles  RoleStore

	now      func() time.Time
	newID    func() string
	onMutate func()
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithPolicy overrides the default libero auto-swap convention.
func WithPolicy(p RotationPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithRoleStore injects a role-preference repository.
func WithRoleStore(s RoleStore) Option {
	return func(e *Engine) { e.roles = s }
}

// WithServing sets the side serving first. Default is Home.
func WithServing(side model.TeamSide) Option {
	return func(e *Engine) {
		if side.Valid() {
			e.serving = side
		}
	}
}

// WithClock substitutes the event timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDSource substitutes the event id generator, for tests.
func WithIDSource(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// OnMutation registers a hook invoked after every state transition. It is
// how the autosave side-channel schedules persistence without the engine
// knowing about it; the hook must not call back into the engine.
func OnMutation(fn func()) Option {
	return func(e *Engine) { e.onMutate = fn }
}

// New creates an engine for the given fixture, set 1, score 0–0, Home serving.
func New(meta model.MatchMetadata, opts ...Option) *Engine {
	e := &Engine{
		meta:    meta,
		serving: model.SideHome,
		set:     1,
		policy:  DefaultRotationPolicy(),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) mutated() {
	if e.onMutate != nil {
		e.onMutate()
	}
}

// Metadata returns the fixture description.
func (e *Engine) Metadata() model.MatchMetadata { return e.meta }

// SetMetadata replaces the fixture description (setup phase edits).
func (e *Engine) SetMetadata(meta model.MatchMetadata) {
	e.meta = meta
	e.mutated()
}

// Team returns the side's roster for mutation during the setup phase.
func (e *Engine) Team(side model.TeamSide) *model.Team {
	return e.meta.TeamFor(side)
}

// Lineup returns the side's lineup for mutation during the lineup phase.
func (e *Engine) Lineup(side model.TeamSide) *SideLineup {
	if side == model.SideHome {
		return &e.home
	}
	return &e.away
}

// Events returns a copy of the ledger in commit order.
func (e *Engine) Events() []model.TagEvent {
	out := make([]model.TagEvent, len(e.events))
	copy(out, e.events)
	return out
}

// Score returns the live scoreboard for the current set.
func (e *Engine) Score() model.Score { return e.score }

// Serving returns the side currently holding serve.
func (e *Engine) Serving() model.TeamSide { return e.serving }

// CurrentSet returns the 1-based set counter.
func (e *Engine) CurrentSet() int { return e.set }

// Policy returns the active rotation policy.
func (e *Engine) Policy() RotationPolicy { return e.policy }

// Commit validates and appends a tagged action, updates the score per the
// attribution rule, and rotates the winner's lineup on a side-out.
//
// Zone resolution: an explicit zone wins; otherwise the matching coordinate
// is classified; otherwise zone 1.
func (e *Engine) Commit(p model.PendingEvent, result model.Result) (model.TagEvent, error) {
	if !p.Team.Valid() || p.PlayerNumber == "" || !p.Skill.Valid() {
		return model.TagEvent{}, ErrIncompleteEvent
	}
	if !result.Valid() {
		return model.TagEvent{}, fmt.Errorf("%w: %q", ErrInvalidResult, result)
	}

	ev := model.TagEvent{
		ID:              e.newID(),
		Set:             e.set,
		Time:            e.now(),
		Team:            p.Team,
		PlayerNumber:    p.PlayerNumber,
		Skill:           p.Skill,
		SubType:         p.SubType,
		Grade:           p.Grade,
		StartZone:       resolveZone(p.StartZone, p.StartCoordinate),
		EndZone:         resolveZone(p.EndZone, p.EndCoordinate),
		StartCoordinate: p.StartCoordinate,
		EndCoordinate:   p.EndCoordinate,
		Result:          result,
		Tags:            p.Tags,
	}
	e.events = append(e.events, ev)

	var winner model.TeamSide
	switch result {
	case model.ResultPoint:
		e.score.Add(ev.Team, 1)
		winner = ev.Team
	case model.ResultError:
		// A fault is charged to the acting team; the point goes across.
		e.score.Add(ev.Team.Opponent(), 1)
		winner = ev.Team.Opponent()
	}

	// Side-out: the rally winner was not serving, so they rotate and take
	// the serve.
	if winner != "" && winner != e.serving {
		e.Lineup(winner).Rotate(e.policy)
		e.serving = winner
	}

	e.mutated()
	return ev, nil
}

func resolveZone(explicit model.Zone, coord *model.Coordinate) model.Zone {
	if explicit.Valid() {
		return explicit
	}
	if coord != nil {
		return court.ZoneAt(*coord)
	}
	return 1
}

// Remove deletes exactly one ledger entry by id; unknown ids are a no-op.
// Deletion is a correction tool for the audit trail: it does not recompute
// the score or undo a rotation the event caused. Callers adjust the score
// manually when that is what they mean.
func (e *Engine) Remove(id string) bool {
	for i := range e.events {
		if e.events[i].ID == id {
			e.events = append(e.events[:i], e.events[i+1:]...)
			e.mutated()
			return true
		}
	}
	return false
}

// Substitute exchanges an on-court player for a bench player on one side.
// The outgoing player must occupy a slot and the incoming player must be
// rostered and off court; anything else refuses without touching state.
//
// Role inheritance: an incoming player with no known role plays the
// outgoing player's role on court. The roster entry keeps its stored role —
// only the derived on-court record changes.
func (e *Engine) Substitute(side model.TeamSide, outgoingID, incomingID string) error {
	if !side.Valid() {
		return fmt.Errorf("%w: bad side %q", ErrInvalidSubstitution, side)
	}
	lineup := e.Lineup(side)
	team := e.meta.TeamFor(side)

	out, onCourt := lineup.ByID(outgoingID)
	if !onCourt {
		return fmt.Errorf("%w: outgoing player not on court", ErrInvalidSubstitution)
	}
	in, rostered := team.FindByID(incomingID)
	if !rostered {
		return fmt.Errorf("%w: incoming player not in roster", ErrInvalidSubstitution)
	}
	if _, already := lineup.Occupies(incomingID); already {
		return fmt.Errorf("%w: incoming player already on court", ErrInvalidSubstitution)
	}

	active := in
	if !active.Role.Known() {
		active.Role = out.Role
	}
	lineup.replaceAll(outgoingID, active)

	// Non-scoring audit event, one per substitution.
	e.events = append(e.events, model.TagEvent{
		ID:           e.newID(),
		Set:          e.set,
		Time:         e.now(),
		Team:         side,
		PlayerNumber: active.Number,
		Skill:        model.SkillSubstitution,
		StartZone:    1,
		EndZone:      1,
		Result:       model.ResultContinue,
		Tags:         []string{fmt.Sprintf("%s OUT, %s IN", out.Number, active.Number)},
	})
	e.mutated()
	return nil
}

// AdjustScore applies a manual ±1 correction to one counter. It bypasses the
// ledger entirely: no event, no rotation, no serve change.
func (e *Engine) AdjustScore(side model.TeamSide, delta int) {
	if !side.Valid() {
		return
	}
	e.score.Add(side, delta)
	e.mutated()
}

// SetServing moves the serve marker without rotating anyone.
func (e *Engine) SetServing(side model.TeamSide) {
	if side.Valid() {
		e.serving = side
		e.mutated()
	}
}

// SetRole records a position on one side's roster entry and on-court record,
// and persists the preference when a role store is configured.
func (e *Engine) SetRole(side model.TeamSide, number string, role model.PlayerRole) {
	team := e.meta.TeamFor(side)
	team.SetRole(number, role)
	lineup := e.Lineup(side)
	for _, s := range allSlots {
		if p := lineup.Get(s); p != nil && p.Number == number {
			p.Role = role
		}
	}
	if e.roles != nil {
		// Preference persistence is best-effort; live state is already set.
		_ = e.roles.Set(team.Name, number, role)
	}
	e.mutated()
}

// AdvanceSet closes the current set: it appends a "Set End" marker event for
// history reconstruction, then zeroes the score and bumps the set counter.
func (e *Engine) AdvanceSet() {
	e.events = append(e.events, model.TagEvent{
		ID:           e.newID(),
		Set:          e.set,
		Time:         e.now(),
		Team:         model.SideHome,
		PlayerNumber: "",
		Skill:        model.SkillFreeball,
		StartZone:    1,
		EndZone:      1,
		Result:       model.ResultContinue,
		Tags:         []string{"Set End"},
	})
	e.score = model.Score{}
	e.set++
	e.mutated()
}
