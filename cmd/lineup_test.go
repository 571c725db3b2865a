package cmd

import (
	"path/filepath"
	"testing"

	"github.com/pable/volleytag/internal/match"
	"github.com/pable/volleytag/internal/model"
	"github.com/pable/volleytag/internal/storage"
)

// seedMatch stores a fresh match with seven-player rosters and points the
// package-level dbPath at a throwaway database so the run functions hit it.
func seedMatch(t *testing.T) string {
	t.Helper()
	dbPath = filepath.Join(t.TempDir(), "matches.db")

	meta := model.MatchMetadata{
		Date:       "2026-08-30",
		Tournament: "City Open",
		HomeTeam:   model.Team{Name: "Hawks"},
		AwayTeam:   model.Team{Name: "Owls"},
	}
	names := []string{"Ana", "Bea", "Cam", "Dot", "Eve", "Fay", "Gia"}
	for i, name := range names {
		number := string(rune('1' + i))
		meta.HomeTeam.AddPlayer(model.NewPlayer(number, name, model.RoleUnknown))
		meta.AwayTeam.AddPlayer(model.NewPlayer(number, name, model.RoleUnknown))
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	defer db.Close()

	const id = "aaaa1111-0000-0000-0000-000000000000"
	engine := match.New(meta)
	if err := db.SaveMatch(id, engine.Snapshot()); err != nil {
		t.Fatalf("save match: %v", err)
	}
	return id
}

func reloadLineup(t *testing.T, id string, side model.TeamSide) *match.SideLineup {
	t.Helper()
	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	defer db.Close()
	snap, err := db.LoadMatch(id)
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	engine := match.New(snap.Metadata)
	if err := engine.Restore(snap); err != nil {
		t.Fatalf("restore match: %v", err)
	}
	return engine.Lineup(side)
}

func TestLineupCommandAssignsSlots(t *testing.T) {
	id := seedMatch(t)

	lineupSide = "home"
	lineupSlots = "1,2,3,4,5,6"
	lineupLibero = "7"
	if err := runLineup(lineupCmd, []string{id[:8]}); err != nil {
		t.Fatalf("runLineup: %v", err)
	}

	lineup := reloadLineup(t, id, model.SideHome)
	for i := 1; i <= 6; i++ {
		p := lineup.Get(match.Slot(i))
		want := string(rune('0' + i))
		if p == nil || p.Number != want {
			t.Errorf("slot %d = %+v, want #%s", i, p, want)
		}
	}
	if lib := lineup.Get(match.SlotLibero); lib == nil || lib.Number != "7" {
		t.Errorf("libero slot = %+v, want #7", lib)
	}
}

func TestLineupCommandRejectsUnknownNumber(t *testing.T) {
	id := seedMatch(t)

	lineupSide = "home"
	lineupSlots = "1,2,3,4,5,99"
	lineupLibero = ""
	if err := runLineup(lineupCmd, []string{id[:8]}); err == nil {
		t.Fatal("runLineup accepted a jersey number not on the roster")
	}
	if p := reloadLineup(t, id, model.SideHome).Get(match.Slot1); p != nil {
		t.Errorf("slot 1 = %+v after rejected lineup, want empty", p)
	}
}

func TestSubCommandSwapsBenchPlayer(t *testing.T) {
	id := seedMatch(t)

	lineupSide = "away"
	lineupSlots = "1,2,3,4,5,6"
	lineupLibero = ""
	if err := runLineup(lineupCmd, []string{id[:8]}); err != nil {
		t.Fatalf("runLineup: %v", err)
	}

	subSide = "away"
	subOut = "3"
	subIn = "7"
	if err := runSub(subCmd, []string{id[:8]}); err != nil {
		t.Fatalf("runSub: %v", err)
	}

	lineup := reloadLineup(t, id, model.SideAway)
	if p := lineup.Get(match.Slot3); p == nil || p.Number != "7" {
		t.Errorf("slot 3 = %+v after substitution, want #7", p)
	}
	if _, onCourt := lineup.ByNumber("3"); onCourt {
		t.Error("outgoing #3 still on court after substitution")
	}
}

func TestSubCommandRefusesOffCourtOutgoing(t *testing.T) {
	id := seedMatch(t)

	subSide = "home"
	subOut = "3"
	subIn = "7"
	if err := runSub(subCmd, []string{id[:8]}); err == nil {
		t.Fatal("runSub substituted against an empty court")
	}
}
