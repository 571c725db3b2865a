package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/volleytag/internal/report"
	"github.com/pable/volleytag/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <id-prefix>",
	Short: "Export the match ledger as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := report.ExportCSV(w, *snap); err != nil {
		return fmt.Errorf("export %s: %w", id, err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d events to %s\n", len(snap.Events), exportOut)
	}
	return nil
}
