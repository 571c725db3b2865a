package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/volleytag/internal/model"
	"github.com/pable/volleytag/internal/report"
	"github.com/pable/volleytag/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats <id-prefix>",
	Short: "Show player stats and the match report",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
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
	for _, side := range []model.TeamSide{model.SideHome, model.SideAway} {
		fmt.Fprintf(os.Stdout, "%s\n", snap.Metadata.TeamFor(side).Name)
		report.PrintPlayerTable(os.Stdout, *snap, side)
		fmt.Fprintln(os.Stdout)
	}
	report.PrintReport(os.Stdout, *snap)
	return nil
}
