package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/volleytag/internal/config"
)

var (
	dbPath string
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "volleytag",
	Short: "Volleyball match tagging and stats tool",
	Long:  "Tag volleyball actions against a live lineup and derive stats, heatmap exports and reports from the match ledger.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		// Flag beats config beats the per-user default.
		if !cmd.Flags().Changed("db") && cfg.DBPath != "" {
			dbPath = cfg.DBPath
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".volleytag", "matches.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(lineupCmd)
	rootCmd.AddCommand(subCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(deleteCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
