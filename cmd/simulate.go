package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/volleytag/internal/autosave"
	"github.com/pable/volleytag/internal/match"
	"github.com/pable/volleytag/internal/model"
	"github.com/pable/volleytag/internal/storage"
)

var (
	simulateEvents int
	simulateSeed   int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <id-prefix>",
	Short: "Append random rally events to a match",
	Long:  "Generate random tagged actions through the full commit path (zone classification, score attribution, side-out rotation). Useful for trying out the stats and export commands without tagging a real match.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simulateEvents, "events", 30, "number of events to generate")
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", time.Now().UnixNano(), "random seed")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	snap, id, err := loadByPrefix(db, args[0])
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	saver := autosave.New(func(ctx context.Context, s match.Snapshot) error {
		return db.SaveMatch(id, s)
	}, autosave.WithDelay(cfg.AutosaveDelay()))
	defer saver.Close()

	var engine *match.Engine
	engine = match.New(snap.Metadata,
		match.WithRoleStore(db.RolePrefs()),
		match.WithPolicy(policyFromConfig()),
		match.OnMutation(func() { saver.Schedule(engine.Snapshot()) }),
	)
	if err := engine.Restore(*snap); err != nil {
		return fmt.Errorf("restore match: %w", err)
	}
	seedLineup(engine, model.SideHome)
	seedLineup(engine, model.SideAway)

	rng := rand.New(rand.NewSource(simulateSeed))
	committed := 0
	for i := 0; i < simulateEvents; i++ {
		if _, err := engine.Commit(randomAction(rng, engine.Metadata()), randomResult(rng)); err != nil {
			continue
		}
		committed++
	}

	score := engine.Score()
	fmt.Fprintf(os.Stdout, "Committed %d events; score now %d–%d, set %d, %s serving\n",
		committed, score.Home, score.Away, engine.CurrentSet(), engine.Serving())
	return nil
}

// seedLineup puts the first six rostered players on an empty court so the
// simulated rallies rotate real players. A side that already has anyone on
// court is left alone.
func seedLineup(engine *match.Engine, side model.TeamSide) {
	lineup := engine.Lineup(side)
	for _, s := range []match.Slot{
		match.Slot1, match.Slot2, match.Slot3,
		match.Slot4, match.Slot5, match.Slot6,
	} {
		if lineup.Get(s) != nil {
			return
		}
	}
	roster := engine.Team(side).Roster
	for i := 0; i < len(roster) && i < 6; i++ {
		lineup.Assign(roster[i], match.Slot(i+1))
	}
}

var simulateSkills = []model.Skill{
	model.SkillServe, model.SkillReceive, model.SkillSet,
	model.SkillAttack, model.SkillBlock, model.SkillDig,
}

func randomAction(rng *rand.Rand, meta model.MatchMetadata) model.PendingEvent {
	side := model.SideHome
	if rng.Intn(2) == 0 {
		side = model.SideAway
	}
	team := meta.TeamFor(side)
	if len(team.Roster) == 0 {
		return model.PendingEvent{}
	}
	player := team.Roster[rng.Intn(min(len(team.Roster), 7))]

	p := model.PendingEvent{
		Team:         side,
		PlayerNumber: player.Number,
		Skill:        simulateSkills[rng.Intn(len(simulateSkills))],
	}

	switch p.Skill {
	case model.SkillServe:
		serviceY := 95.0
		if side == model.SideAway {
			serviceY = 5.0
		}
		p.StartCoordinate = &model.Coordinate{X: 10 + rng.Float64()*80, Y: serviceY}
		p.EndCoordinate = &model.Coordinate{X: 10 + rng.Float64()*80, Y: 30 + rng.Float64()*40}
	case model.SkillAttack:
		p.StartCoordinate = &model.Coordinate{X: 10 + rng.Float64()*80, Y: 40 + rng.Float64()*20}
		p.EndCoordinate = &model.Coordinate{X: 5 + rng.Float64()*90, Y: 5 + rng.Float64()*90}
	}
	return p
}

func randomResult(rng *rand.Rand) model.Result {
	// Continue twice as likely as either rally-ending outcome.
	switch rng.Intn(4) {
	case 0:
		return model.ResultPoint
	case 1:
		return model.ResultError
	default:
		return model.ResultContinue
	}
}
