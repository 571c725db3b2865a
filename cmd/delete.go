package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/volleytag/internal/storage"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id-prefix>",
	Short: "Delete a stored match",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	summary, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", args[0])
		return nil
	}

	if err := db.DeleteMatch(summary.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted match %s (%s vs %s)\n",
		shortID(summary.ID), summary.HomeTeam, summary.AwayTeam)
	return nil
}
