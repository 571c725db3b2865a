package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/volleytag/internal/match"
	"github.com/pable/volleytag/internal/model"
	"github.com/pable/volleytag/internal/storage"
)

var (
	lineupSide   string
	lineupSlots  string
	lineupLibero string
)

var lineupCmd = &cobra.Command{
	Use:   "lineup <id-prefix>",
	Short: "Put rostered players on court",
	Long:  "Assign six rostered players (by jersey number, in slot order 1-6) to one side's court, with an optional libero. Without --slots the current assignment is printed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLineup,
}

func init() {
	lineupCmd.Flags().StringVar(&lineupSide, "side", "home", "side to set: home or away")
	lineupCmd.Flags().StringVar(&lineupSlots, "slots", "", "comma-separated jersey numbers for slots 1-6")
	lineupCmd.Flags().StringVar(&lineupLibero, "libero", "", "jersey number for the libero slot")
}

func runLineup(cmd *cobra.Command, args []string) error {
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

	side, err := parseSide(lineupSide)
	if err != nil {
		return err
	}

	engine := match.New(snap.Metadata)
	if err := engine.Restore(*snap); err != nil {
		return fmt.Errorf("restore match: %w", err)
	}
	lineup := engine.Lineup(side)

	if lineupSlots == "" && lineupLibero == "" {
		printLineup(os.Stdout, lineup)
		return nil
	}

	team := engine.Team(side)
	if lineupSlots != "" {
		numbers := strings.Split(lineupSlots, ",")
		if len(numbers) != 6 {
			return fmt.Errorf("--slots needs exactly 6 jersey numbers, got %d", len(numbers))
		}
		for i, number := range numbers {
			p, ok := team.FindByNumber(strings.TrimSpace(number))
			if !ok {
				return fmt.Errorf("no player %q on %s", strings.TrimSpace(number), team.Name)
			}
			lineup.Assign(p, match.Slot(i+1))
		}
	}
	if lineupLibero != "" {
		p, ok := team.FindByNumber(strings.TrimSpace(lineupLibero))
		if !ok {
			return fmt.Errorf("no player %q on %s", strings.TrimSpace(lineupLibero), team.Name)
		}
		lineup.Assign(p, match.SlotLibero)
	}

	if err := db.SaveMatch(id, engine.Snapshot()); err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	printLineup(os.Stdout, lineup)
	return nil
}

func printLineup(w *os.File, lineup *match.SideLineup) {
	for _, s := range []match.Slot{
		match.Slot1, match.Slot2, match.Slot3,
		match.Slot4, match.Slot5, match.Slot6, match.SlotLibero,
	} {
		label := fmt.Sprintf("%d", s)
		if s == match.SlotLibero {
			label = "L"
		}
		if p := lineup.Get(s); p != nil {
			fmt.Fprintf(w, "%-2s #%-3s %s (%s)\n", label, p.Number, p.Name, p.Role.Label())
		} else {
			fmt.Fprintf(w, "%-2s —\n", label)
		}
	}
}

func parseSide(s string) (model.TeamSide, error) {
	switch strings.ToLower(s) {
	case "home":
		return model.SideHome, nil
	case "away":
		return model.SideAway, nil
	}
	return "", fmt.Errorf("side must be home or away, got %q", s)
}
