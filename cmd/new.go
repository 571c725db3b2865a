package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/volleytag/internal/match"
	"github.com/pable/volleytag/internal/model"
	"github.com/pable/volleytag/internal/roster"
	"github.com/pable/volleytag/internal/storage"
)

var (
	newDate       string
	newTournament string
	newHomeName   string
	newAwayName   string
	newHomeRoster string
	newAwayRoster string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new match",
	Long:  "Create a match fixture. Roster files hold one player per line as 'NUMBER NAME' (name optional), the format a spreadsheet paste produces.",
	Args:  cobra.NoArgs,
	RunE:  runNew,
}

func init() {
	newCmd.Flags().StringVar(&newDate, "date", "", "match date, e.g. 2026-03-14")
	newCmd.Flags().StringVar(&newTournament, "tournament", "", "tournament name")
	newCmd.Flags().StringVar(&newHomeName, "home", "Home", "home team name")
	newCmd.Flags().StringVar(&newAwayName, "away", "Away", "away team name")
	newCmd.Flags().StringVar(&newHomeRoster, "home-roster", "", "path to home roster file")
	newCmd.Flags().StringVar(&newAwayRoster, "away-roster", "", "path to away roster file")
}

func runNew(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()
	prefs := db.RolePrefs()

	meta := model.MatchMetadata{
		Date:       newDate,
		Tournament: newTournament,
		HomeTeam:   model.Team{Name: newHomeName},
		AwayTeam:   model.Team{Name: newAwayName},
	}

	for _, r := range []struct {
		path string
		team *model.Team
	}{
		{newHomeRoster, &meta.HomeTeam},
		{newAwayRoster, &meta.AwayTeam},
	} {
		if r.path == "" {
			continue
		}
		f, err := os.Open(r.path)
		if err != nil {
			return fmt.Errorf("open roster: %w", err)
		}
		added, err := roster.ParseBulk(f, r.team, prefs)
		f.Close()
		if err != nil {
			return fmt.Errorf("parse roster %s: %w", r.path, err)
		}
		fmt.Fprintf(os.Stdout, "%s: %d players\n", r.team.Name, added)
	}

	engine := match.New(meta,
		match.WithRoleStore(prefs),
		match.WithServing(model.TeamSide(cfg.ServingSide)),
		match.WithPolicy(policyFromConfig()),
	)

	id := uuid.New().String()
	if err := db.SaveMatch(id, engine.Snapshot()); err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Created match %s (%s vs %s)\n", id, meta.HomeTeam.Name, meta.AwayTeam.Name)
	return nil
}

func policyFromConfig() match.RotationPolicy {
	p := match.DefaultRotationPolicy()
	p.LiberoAutoSwap = cfg.LiberoAutoSwap
	p.BackSwapSlot = match.Slot(cfg.BackSwapSlot)
	p.FrontRestoreSlot = match.Slot(cfg.FrontRestoreSlot)
	return p
}
