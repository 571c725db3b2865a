// Package report renders match state as console tables and tabular exports.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pable/volleytag/internal/aggregator"
	"github.com/pable/volleytag/internal/match"
	"github.com/pable/volleytag/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMatchHeader prints the one-line match summary.
func PrintMatchHeader(w io.Writer, snap match.Snapshot) {
	meta := snap.Metadata
	fmt.Fprintf(w, "\n%s vs %s  |  %s  |  %s  |  Set %d  |  Score: %d – %d (serving: %s)\n\n",
		meta.HomeTeam.Name, meta.AwayTeam.Name, meta.Tournament, meta.Date,
		snap.CurrentSet, snap.Score.Home, snap.Score.Away, snap.Serving)
}

// PrintSetScoreboard prints per-set scores replayed from the ledger.
func PrintSetScoreboard(w io.Writer, snap match.Snapshot) {
	table := newTable(w)
	table.Header("SET", snap.Metadata.HomeTeam.Name, snap.Metadata.AwayTeam.Name)
	for _, s := range aggregator.PerSetScores(snap.Events) {
		table.Append(
			strconv.Itoa(s.Set),
			strconv.Itoa(s.Home),
			strconv.Itoa(s.Away),
		)
	}
	table.Render()
}

// PrintTeamComparison prints the side-by-side summary block.
func PrintTeamComparison(w io.Writer, snap match.Snapshot) {
	home, away := aggregator.Summarize(snap.Events)
	table := newTable(w)
	table.Header("", snap.Metadata.HomeTeam.Name, snap.Metadata.AwayTeam.Name)
	rows := []struct {
		label      string
		home, away int
	}{
		{"POINTS", home.Points, away.Points},
		{"ATTACK KILLS", home.AttackKills, away.AttackKills},
		{"BLOCKS", home.Blocks, away.Blocks},
		{"ACES", home.Aces, away.Aces},
		{"OPP ERRORS", home.OppErrors, away.OppErrors},
		{"OWN ERRORS", home.SelfErrors, away.SelfErrors},
	}
	for _, r := range rows {
		table.Append(r.label, strconv.Itoa(r.home), strconv.Itoa(r.away))
	}
	table.Render()
}

// PrintPlayerTable prints the per-player stat lines for one side.
func PrintPlayerTable(w io.Writer, snap match.Snapshot, side model.TeamSide) {
	team := snap.Metadata.TeamFor(side)
	table := newTable(w)
	table.Header("#", "NAME", "ROLE", "PTS", "ERR", "ATT", "K", "EFF%", "ACE", "DIG", "BLK")

	for _, p := range team.Roster {
		s := aggregator.Compute(aggregator.FilterPlayer(snap.Events, side, p.Number))
		eff := "—"
		if v, ok := s.AttackEfficiency(); ok {
			eff = fmt.Sprintf("%.0f%%", v*100)
		}
		table.Append(
			p.Number,
			p.Name,
			p.Role.Label(),
			strconv.Itoa(s.Points),
			strconv.Itoa(s.Errors),
			strconv.Itoa(s.Attacks),
			strconv.Itoa(s.Kills),
			eff,
			strconv.Itoa(s.Aces),
			strconv.Itoa(s.Digs),
			strconv.Itoa(s.Blocks),
		)
	}
	table.Render()
}

// PrintReport prints the post-match analysis: winner, MVPs, coaching notes.
func PrintReport(w io.Writer, snap match.Snapshot) {
	r := aggregator.BuildReport(snap.Metadata, snap.Events)

	if r.Winner != "" {
		fmt.Fprintf(w, "Winner: %s (%d–%d in sets)\n\n", r.Winner, r.SetsWon[0], r.SetsWon[1])
	} else {
		fmt.Fprintf(w, "Sets even at %d–%d\n\n", r.SetsWon[0], r.SetsWon[1])
	}

	for _, tr := range []aggregator.TeamReport{r.Home, r.Away} {
		fmt.Fprintf(w, "%s\n", tr.Name)
		if tr.HasMVP {
			fmt.Fprintf(w, "  MVP: #%s %s (%d pts)\n",
				tr.MVP.Player.Number, tr.MVP.Player.Name, tr.MVP.Stats.Points)
		}
		for _, note := range tr.Notes {
			fmt.Fprintf(w, "  - %s\n", note)
		}
		fmt.Fprintln(w)
	}
}
