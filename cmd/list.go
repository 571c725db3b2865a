package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/volleytag/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'volleytag new' to create one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-12s  %-30s  %5s  %4s  %6s\n",
		"ID", "DATE", "MATCH", "SCORE", "SET", "EVENTS")
	fmt.Fprintf(os.Stdout, "%-10s  %-12s  %-30s  %5s  %4s  %6s\n",
		"──────────", "────────────", "──────────────────────────────", "─────", "────", "──────")
	for _, m := range matches {
		fixture := fmt.Sprintf("%s vs %s", m.HomeTeam, m.AwayTeam)
		score := fmt.Sprintf("%d-%d", m.HomeScore, m.AwayScore)
		fmt.Fprintf(os.Stdout, "%-10s  %-12s  %-30s  %5s  %4d  %6d\n",
			shortID(m.ID), m.Date, fixture, score, m.CurrentSet, m.Events)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
