// Package aggregator derives statistics from the event ledger. Everything in
// here is a pure function over events and rosters: nothing mutates match
// state, so the views can be recomputed at any point mid-match.
package aggregator

import (
	"sort"

	"github.com/pable/volleytag/internal/model"
)

// BasicStats is the per-selection stat line (a player, a team, or a whole
// match depending on how the events were filtered).
type BasicStats struct {
	Points  int
	Errors  int
	Attacks int
	Kills   int
	Aces    int
	Digs    int
	Blocks  int
}

// AttackEfficiency returns (kills-errors)/attacks. The second value is false
// when the player has no attacks; display a dash, not zero.
func (s BasicStats) AttackEfficiency() (float64, bool) {
	if s.Attacks == 0 {
		return 0, false
	}
	return float64(s.Kills-s.Errors) / float64(s.Attacks), true
}

// Compute tallies the basic stat line over a slice of events.
func Compute(events []model.TagEvent) BasicStats {
	var s BasicStats
	for _, e := range events {
		if e.Result == model.ResultPoint {
			s.Points++
		}
		if e.Result == model.ResultError {
			s.Errors++
		}
		switch e.Skill {
		case model.SkillAttack:
			s.Attacks++
			if e.Result == model.ResultPoint {
				s.Kills++
			}
		case model.SkillServe:
			if e.Result == model.ResultPoint {
				s.Aces++
			}
		case model.SkillDig:
			s.Digs++
		case model.SkillBlock:
			if e.Result == model.ResultPoint {
				s.Blocks++
			}
		}
	}
	return s
}

// FilterTeam returns the events tagged for one side.
func FilterTeam(events []model.TagEvent, side model.TeamSide) []model.TagEvent {
	var out []model.TagEvent
	for _, e := range events {
		if e.Team == side {
			out = append(out, e)
		}
	}
	return out
}

// FilterPlayer returns the events tagged for one jersey number on one side.
func FilterPlayer(events []model.TagEvent, side model.TeamSide, number string) []model.TagEvent {
	var out []model.TagEvent
	for _, e := range events {
		if e.Team == side && e.PlayerNumber == number {
			out = append(out, e)
		}
	}
	return out
}

// SetScore is one set's reconstructed scoreboard.
type SetScore struct {
	Set  int
	Home int
	Away int
}

// PerSetScores replays the score attribution rule over each set's events,
// independent of the live scorekeeper: Point credits the acting team, Error
// credits the opponent, Continue is neutral. For a consistent ledger the
// highest set's entry equals the live score.
func PerSetScores(events []model.TagEvent) []SetScore {
	bySet := make(map[int]*SetScore)
	for _, e := range events {
		ss := bySet[e.Set]
		if ss == nil {
			ss = &SetScore{Set: e.Set}
			bySet[e.Set] = ss
		}
		var winner model.TeamSide
		switch e.Result {
		case model.ResultPoint:
			winner = e.Team
		case model.ResultError:
			winner = e.Team.Opponent()
		default:
			continue
		}
		if winner == model.SideHome {
			ss.Home++
		} else {
			ss.Away++
		}
	}

	out := make([]SetScore, 0, len(bySet))
	for _, ss := range bySet {
		out = append(out, *ss)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Set < out[j].Set })
	return out
}

// HeatmapPoint is a landing spot with no recorded origin.
type HeatmapPoint struct {
	At     model.Coordinate
	Result model.Result
	Skill  model.Skill
}

// Trajectory is a start-to-end pair for arrow rendering.
type Trajectory struct {
	Start  model.Coordinate
	End    model.Coordinate
	Result model.Result
	Skill  model.Skill
}

// HeatmapData partitions one skill's events for the court renderer: events
// with only an end coordinate become points, events with both coordinates
// become trajectories. Grouping only; no numeric aggregation happens here.
type HeatmapData struct {
	Points       []HeatmapPoint
	Trajectories []Trajectory
}

// Heatmap collects the spatial entries for one skill.
func Heatmap(events []model.TagEvent, skill model.Skill) HeatmapData {
	var data HeatmapData
	for _, e := range events {
		if e.Skill != skill {
			continue
		}
		switch {
		case e.EndCoordinate != nil && e.StartCoordinate == nil:
			data.Points = append(data.Points, HeatmapPoint{
				At: *e.EndCoordinate, Result: e.Result, Skill: e.Skill,
			})
		case e.StartCoordinate != nil && e.EndCoordinate != nil:
			data.Trajectories = append(data.Trajectories, Trajectory{
				Start: *e.StartCoordinate, End: *e.EndCoordinate,
				Result: e.Result, Skill: e.Skill,
			})
		}
	}
	return data
}

// MVPResult names the top scorer of one side.
type MVPResult struct {
	Player model.Player
	Stats  BasicStats
}

// MVP picks the roster player with the most points among the side's events.
// Ties break to the first player in roster order, which keeps the choice
// stable and deterministic.
func MVP(team model.Team, side model.TeamSide, events []model.TagEvent) (MVPResult, bool) {
	var best MVPResult
	found := false
	maxPoints := -1
	for _, p := range team.Roster {
		stats := Compute(FilterPlayer(events, side, p.Number))
		if stats.Points > maxPoints {
			maxPoints = stats.Points
			best = MVPResult{Player: p, Stats: stats}
			found = true
		}
	}
	return best, found
}

// TeamSummary is the side-by-side comparison block: how each side's points
// came about.
type TeamSummary struct {
	Points      int // total points credited to this side
	AttackKills int
	Blocks      int
	Aces        int
	OppErrors   int // points gifted by the other side's faults
	SelfErrors  int // faults committed by this side
}

// Summarize tallies both sides' summaries in one pass over the full ledger.
func Summarize(events []model.TagEvent) (home, away TeamSummary) {
	sides := map[model.TeamSide]*TeamSummary{
		model.SideHome: &home,
		model.SideAway: &away,
	}
	for _, e := range events {
		own := sides[e.Team]
		if own == nil {
			continue
		}
		switch e.Result {
		case model.ResultPoint:
			own.Points++
			switch e.Skill {
			case model.SkillAttack:
				own.AttackKills++
			case model.SkillBlock:
				own.Blocks++
			case model.SkillServe:
				own.Aces++
			}
		case model.ResultError:
			own.SelfErrors++
			opp := sides[e.Team.Opponent()]
			opp.Points++
			opp.OppErrors++
		}
	}
	return home, away
}
