package match

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pable/volleytag/internal/model"
)

func testMeta() model.MatchMetadata {
	home := model.Team{Name: "Harbor"}
	away := model.Team{Name: "Ridge"}
	for i := 1; i <= 8; i++ {
		home.AddPlayer(model.NewPlayer(fmt.Sprintf("%d", i), fmt.Sprintf("H%d", i), model.RoleOutside))
		away.AddPlayer(model.NewPlayer(fmt.Sprintf("%d", i), fmt.Sprintf("A%d", i), model.RoleOutside))
	}
	return model.MatchMetadata{
		Date:       "2026-08-30",
		Tournament: "City Cup",
		HomeTeam:   home,
		AwayTeam:   away,
	}
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	var seq int
	e := New(testMeta(),
		WithClock(func() time.Time { return time.Unix(1700000000, 0).UTC() }),
		WithIDSource(func() string { seq++; return fmt.Sprintf("ev-%d", seq) }),
	)
	// Put the first six roster players of each side on court.
	for _, side := range []model.TeamSide{model.SideHome, model.SideAway} {
		team := e.Team(side)
		for i, s := range []Slot{Slot1, Slot2, Slot3, Slot4, Slot5, Slot6} {
			e.Lineup(side).Assign(team.Roster[i], s)
		}
	}
	return e
}

func TestCommitRejectsIncompleteEvent(t *testing.T) {
	e := testEngine(t)
	_, err := e.Commit(model.PendingEvent{Team: model.SideHome}, model.ResultPoint)
	if !errors.Is(err, ErrIncompleteEvent) {
		t.Fatalf("expected ErrIncompleteEvent, got %v", err)
	}
	if len(e.Events()) != 0 || e.Score() != (model.Score{}) {
		t.Error("state changed on rejected commit")
	}
}

func TestCommitResolvesZones(t *testing.T) {
	e := testEngine(t)

	// Explicit zone wins over coordinate.
	ev, err := e.Commit(model.PendingEvent{
		Team: model.SideHome, PlayerNumber: "1", Skill: model.SkillAttack,
		StartZone:     4,
		EndCoordinate: &model.Coordinate{X: 50, Y: 20}, // far back center
	}, model.ResultContinue)
	if err != nil {
		t.Fatal(err)
	}
	if ev.StartZone != 4 {
		t.Errorf("start zone = %d, want explicit 4", ev.StartZone)
	}
	if ev.EndZone != 6 {
		t.Errorf("end zone = %d, want classified 6", ev.EndZone)
	}

	// Nothing provided defaults to zone 1.
	ev2, _ := e.Commit(model.PendingEvent{
		Team: model.SideHome, PlayerNumber: "1", Skill: model.SkillDig,
	}, model.ResultContinue)
	if ev2.StartZone != 1 || ev2.EndZone != 1 {
		t.Errorf("default zones = %d/%d, want 1/1", ev2.StartZone, ev2.EndZone)
	}
}

// End-to-end scenario from the scoring rules: Home serves and wins (no
// rotation, serve kept), then Away wins a rally (side-out: Away rotates and
// takes the serve).
func TestCommitScoreAndSideOut(t *testing.T) {
	e := testEngine(t)
	awayBefore := slotNumbers(e.Lineup(model.SideAway))
	homeBefore := slotNumbers(e.Lineup(model.SideHome))

	if _, err := e.Commit(model.PendingEvent{
		Team: model.SideHome, PlayerNumber: "1", Skill: model.SkillServe,
	}, model.ResultPoint); err != nil {
		t.Fatal(err)
	}
	if got := e.Score(); got != (model.Score{Home: 1, Away: 0}) {
		t.Fatalf("score = %+v, want 1-0", got)
	}
	if e.Serving() != model.SideHome {
		t.Error("server won: serve must stay with Home")
	}
	if slotNumbers(e.Lineup(model.SideHome)) != homeBefore {
		t.Error("no rotation expected when the server wins")
	}

	if _, err := e.Commit(model.PendingEvent{
		Team: model.SideAway, PlayerNumber: "2", Skill: model.SkillAttack,
	}, model.ResultPoint); err != nil {
		t.Fatal(err)
	}
	if got := e.Score(); got != (model.Score{Home: 1, Away: 1}) {
		t.Fatalf("score = %+v, want 1-1", got)
	}
	if e.Serving() != model.SideAway {
		t.Error("side-out: serve must move to Away")
	}
	if slotNumbers(e.Lineup(model.SideAway)) == awayBefore {
		t.Error("side-out: Away lineup must rotate once")
	}
}

func TestCommitErrorCreditsOpponent(t *testing.T) {
	e := testEngine(t)
	// Home serving; a Home fault gives Away the point and the serve.
	if _, err := e.Commit(model.PendingEvent{
		Team: model.SideHome, PlayerNumber: "3", Skill: model.SkillFault,
		SubType: model.SubNetTouch,
	}, model.ResultError); err != nil {
		t.Fatal(err)
	}
	if got := e.Score(); got != (model.Score{Home: 0, Away: 1}) {
		t.Fatalf("score = %+v, want 0-1", got)
	}
	if e.Serving() != model.SideAway {
		t.Error("fault by the serving side is a side-out")
	}
}

func TestCommitContinueLeavesScoreAlone(t *testing.T) {
	e := testEngine(t)
	e.Commit(model.PendingEvent{
		Team: model.SideAway, PlayerNumber: "4", Skill: model.SkillReceive,
		Grade: model.GradeGood,
	}, model.ResultContinue)
	if e.Score() != (model.Score{}) {
		t.Error("Continue must not move the score")
	}
	if e.Serving() != model.SideHome {
		t.Error("Continue must not move the serve")
	}
}

func TestRemoveIsNotAnUndo(t *testing.T) {
	e := testEngine(t)
	ev, _ := e.Commit(model.PendingEvent{
		Team: model.SideHome, PlayerNumber: "1", Skill: model.SkillServe,
	}, model.ResultPoint)

	if !e.Remove(ev.ID) {
		t.Fatal("Remove returned false for a known id")
	}
	if len(e.Events()) != 0 {
		t.Error("event not removed from ledger")
	}
	// Deletion is an audit correction, not an undo: the score stands.
	if got := e.Score(); got != (model.Score{Home: 1, Away: 0}) {
		t.Errorf("score = %+v, want 1-0 preserved after delete", got)
	}
	if e.Remove("no-such-id") {
		t.Error("Remove of unknown id must be a no-op returning false")
	}
}

func TestSubstituteRoleInheritance(t *testing.T) {
	e := testEngine(t)
	home := e.Team(model.SideHome)
	out := home.Roster[0] // on court, role OH
	in := home.Roster[6]  // benched
	e.SetRole(model.SideHome, in.Number, model.RoleUnknown)
	in, _ = home.FindByID(in.ID)

	if err := e.Substitute(model.SideHome, out.ID, in.ID); err != nil {
		t.Fatal(err)
	}
	onCourt, ok := e.Lineup(model.SideHome).ByID(in.ID)
	if !ok {
		t.Fatal("incoming player not on court")
	}
	if onCourt.Role != out.Role {
		t.Errorf("on-court role = %s, want inherited %s", onCourt.Role, out.Role)
	}
	// The roster entry keeps its own stored role.
	rosterIn, _ := e.Team(model.SideHome).FindByID(in.ID)
	if rosterIn.Role != model.RoleUnknown {
		t.Errorf("roster role overwritten to %s", rosterIn.Role)
	}

	// Audit event: non-scoring, tagged "N OUT, M IN".
	events := e.Events()
	last := events[len(events)-1]
	if last.Skill != model.SkillSubstitution || last.Result != model.ResultContinue {
		t.Errorf("audit event = %s/%s", last.Skill, last.Result)
	}
	wantTag := fmt.Sprintf("%s OUT, %s IN", out.Number, in.Number)
	if len(last.Tags) != 1 || last.Tags[0] != wantTag {
		t.Errorf("audit tag = %v, want %q", last.Tags, wantTag)
	}
}

func TestSubstituteKeepsDefinedRole(t *testing.T) {
	e := testEngine(t)
	home := e.Team(model.SideHome)
	out := home.Roster[0]
	in := home.Roster[6]
	e.SetRole(model.SideHome, in.Number, model.RoleSetter)
	in, _ = home.FindByID(in.ID)

	if err := e.Substitute(model.SideHome, out.ID, in.ID); err != nil {
		t.Fatal(err)
	}
	onCourt, _ := e.Lineup(model.SideHome).ByID(in.ID)
	if onCourt.Role != model.RoleSetter {
		t.Errorf("on-court role = %s, want own role S", onCourt.Role)
	}
}

func TestSubstituteRefusals(t *testing.T) {
	e := testEngine(t)
	home := e.Team(model.SideHome)
	onCourtA := home.Roster[0]
	onCourtB := home.Roster[1]
	bench := home.Roster[6]

	cases := []struct {
		name     string
		out, in  string
	}{
		{"outgoing not on court", bench.ID, onCourtA.ID},
		{"incoming not in roster", onCourtA.ID, "ghost"},
		{"incoming already on court", onCourtA.ID, onCourtB.ID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := len(e.Events())
			err := e.Substitute(model.SideHome, tc.out, tc.in)
			if !errors.Is(err, ErrInvalidSubstitution) {
				t.Fatalf("expected ErrInvalidSubstitution, got %v", err)
			}
			if len(e.Events()) != before {
				t.Error("refused substitution appended an event")
			}
		})
	}
}

func TestManualAdjustBypassesLedger(t *testing.T) {
	e := testEngine(t)
	e.AdjustScore(model.SideAway, 1)
	e.AdjustScore(model.SideAway, 1)
	e.AdjustScore(model.SideHome, -1) // clamps at zero

	if got := e.Score(); got != (model.Score{Home: 0, Away: 2}) {
		t.Fatalf("score = %+v, want 0-2", got)
	}
	if len(e.Events()) != 0 {
		t.Error("manual adjust must not append events")
	}
	if e.Serving() != model.SideHome {
		t.Error("manual adjust must not trigger rotation or serve change")
	}
}

func TestAdvanceSet(t *testing.T) {
	e := testEngine(t)
	e.Commit(model.PendingEvent{
		Team: model.SideHome, PlayerNumber: "1", Skill: model.SkillServe,
	}, model.ResultPoint)

	e.AdvanceSet()
	if e.CurrentSet() != 2 {
		t.Errorf("set = %d, want 2", e.CurrentSet())
	}
	if e.Score() != (model.Score{}) {
		t.Error("score not reset on set advance")
	}
	events := e.Events()
	marker := events[len(events)-1]
	if marker.Set != 1 {
		t.Errorf("marker recorded in set %d, want 1", marker.Set)
	}
	if len(marker.Tags) != 1 || marker.Tags[0] != "Set End" {
		t.Errorf("marker tags = %v", marker.Tags)
	}
	if marker.Result != model.ResultContinue {
		t.Error("set marker must not score")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	e := testEngine(t)
	// Populate: a realistic spread of events across two sets.
	for i := 0; i < 55; i++ {
		side := model.SideHome
		if i%3 == 0 {
			side = model.SideAway
		}
		result := model.ResultContinue
		switch i % 4 {
		case 1:
			result = model.ResultPoint
		case 2:
			result = model.ResultError
		}
		e.Commit(model.PendingEvent{
			Team:          side,
			PlayerNumber:  fmt.Sprintf("%d", i%6+1),
			Skill:         model.SkillAttack,
			Grade:         model.GradeGood,
			StartCoordinate: &model.Coordinate{X: float64(i % 100), Y: 55},
			EndCoordinate:   &model.Coordinate{X: float64(i % 100), Y: 25},
		}, result)
		if i == 30 {
			e.AdvanceSet()
		}
	}

	snap := e.Snapshot()
	var buf bytes.Buffer
	if err := snap.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	decoded, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatal(err)
	}

	restored := New(model.MatchMetadata{})
	if err := restored.Restore(decoded); err != nil {
		t.Fatal(err)
	}

	if restored.Score() != e.Score() {
		t.Errorf("score %+v != %+v", restored.Score(), e.Score())
	}
	if restored.Serving() != e.Serving() || restored.CurrentSet() != e.CurrentSet() {
		t.Error("serving/set not restored")
	}
	if len(restored.Events()) != len(e.Events()) {
		t.Fatalf("events %d != %d", len(restored.Events()), len(e.Events()))
	}
	if slotNumbers(restored.Lineup(model.SideHome)) != slotNumbers(e.Lineup(model.SideHome)) {
		t.Error("home lineup not restored")
	}
	if restored.Metadata().HomeTeam.Name != "Harbor" {
		t.Error("metadata not restored")
	}
}

func TestRestoreRejectsMalformedSnapshot(t *testing.T) {
	e := testEngine(t)
	e.Commit(model.PendingEvent{
		Team: model.SideHome, PlayerNumber: "1", Skill: model.SkillServe,
	}, model.ResultPoint)
	want := e.Snapshot()

	bad := want
	bad.Score = model.Score{Home: -3}
	if err := e.Restore(bad); err == nil {
		t.Fatal("expected validation error")
	}
	// Aborted import leaves current state untouched.
	if e.Score() != want.Score || len(e.Events()) != len(want.Events) {
		t.Error("engine state changed after rejected restore")
	}

	if _, err := ReadSnapshot(strings.NewReader("{not json")); err == nil {
		t.Error("expected decode error")
	}
	if _, err := ReadSnapshot(strings.NewReader(`{"currentSet":0,"serving":"Home"}`)); err == nil {
		t.Error("expected validation error for set 0")
	}
}

func TestMutationHookFires(t *testing.T) {
	var calls int
	e := New(testMeta(), OnMutation(func() { calls++ }))
	team := e.Team(model.SideHome)
	e.Lineup(model.SideHome).Assign(team.Roster[0], Slot1)

	e.Commit(model.PendingEvent{
		Team: model.SideHome, PlayerNumber: "1", Skill: model.SkillServe,
	}, model.ResultContinue)
	e.AdjustScore(model.SideHome, 1)
	e.AdvanceSet()
	if calls != 3 {
		t.Errorf("mutation hook fired %d times, want 3", calls)
	}
}

func TestTeamReturnsLiveRoster(t *testing.T) {
	e := testEngine(t)

	// The accessor hands out the engine's own roster, so setup-phase edits
	// through it are visible on later reads.
	e.Team(model.SideHome).SetRole("1", model.RoleSetter)
	p, ok := e.Team(model.SideHome).FindByNumber("1")
	if !ok || p.Role != model.RoleSetter {
		t.Errorf("role = %v (found=%v), want Setter on the live roster", p.Role, ok)
	}
}
