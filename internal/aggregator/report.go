package aggregator

import (
	"fmt"

	"github.com/pable/volleytag/internal/model"
)

// TeamReport bundles everything the report renderer needs for one side.
type TeamReport struct {
	Name    string
	Summary TeamSummary
	Stats   BasicStats
	MVP     MVPResult
	HasMVP  bool
	Notes   []string
}

// MatchReport is the post-match analysis view.
type MatchReport struct {
	Home    TeamReport
	Away    TeamReport
	Sets    []SetScore
	Winner  string // team name, empty on a tie
	SetsWon [2]int // home, away
}

// BuildReport derives the full analysis from metadata and the ledger.
func BuildReport(meta model.MatchMetadata, events []model.TagEvent) MatchReport {
	homeSummary, awaySummary := Summarize(events)
	r := MatchReport{
		Home: teamReport(meta.HomeTeam, model.SideHome, homeSummary, events),
		Away: teamReport(meta.AwayTeam, model.SideAway, awaySummary, events),
		Sets: PerSetScores(events),
	}
	for _, s := range r.Sets {
		if s.Home > s.Away {
			r.SetsWon[0]++
		} else if s.Away > s.Home {
			r.SetsWon[1]++
		}
	}
	switch {
	case r.SetsWon[0] > r.SetsWon[1]:
		r.Winner = r.Home.Name
	case r.SetsWon[1] > r.SetsWon[0]:
		r.Winner = r.Away.Name
	}
	return r
}

func teamReport(team model.Team, side model.TeamSide, sum TeamSummary, events []model.TagEvent) TeamReport {
	tr := TeamReport{
		Name:    team.Name,
		Summary: sum,
		Stats:   Compute(FilterTeam(events, side)),
	}
	tr.MVP, tr.HasMVP = MVP(team, side, events)
	tr.Notes = coachingNotes(tr.Stats, sum)
	return tr
}

// coachingNotes flags the patterns a coach looks for first. Thresholds follow
// the usual scouting rules of thumb.
func coachingNotes(stats BasicStats, sum TeamSummary) []string {
	var notes []string
	if sum.SelfErrors > 10 {
		notes = append(notes, fmt.Sprintf("High error count (%d): tighten serve and attack discipline.", sum.SelfErrors))
	}
	if sum.Blocks < 3 {
		notes = append(notes, fmt.Sprintf("Low block production (%d): review net positioning and read timing.", sum.Blocks))
	}
	if eff, ok := stats.AttackEfficiency(); ok && eff < 0.30 {
		notes = append(notes, fmt.Sprintf("Attack efficiency %.0f%% is below 30%%: diversify set distribution.", eff*100))
	}
	return notes
}
