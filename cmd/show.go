package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/volleytag/internal/match"
	"github.com/pable/volleytag/internal/report"
	"github.com/pable/volleytag/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a stored match scoreboard by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	snap, _, err := loadByPrefix(db, args[0])
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	report.PrintMatchHeader(os.Stdout, *snap)
	report.PrintSetScoreboard(os.Stdout, *snap)
	report.PrintTeamComparison(os.Stdout, *snap)
	return nil
}

// loadByPrefix resolves a match id prefix to its snapshot and full id. A miss
// prints a notice and returns a nil snapshot with no error.
func loadByPrefix(db *storage.DB, prefix string) (*match.Snapshot, string, error) {
	summary, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return nil, "", fmt.Errorf("query match: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", prefix)
		return nil, "", nil
	}
	snap, err := db.LoadMatch(summary.ID)
	if err != nil {
		return nil, "", fmt.Errorf("load match: %w", err)
	}
	return &snap, summary.ID, nil
}
