package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/volleytag/internal/match"
	"github.com/pable/volleytag/internal/storage"
)

var (
	subSide string
	subOut  string
	subIn   string
)

var subCmd = &cobra.Command{
	Use:   "sub <id-prefix>",
	Short: "Substitute a bench player for an on-court player",
	Args:  cobra.ExactArgs(1),
	RunE:  runSub,
}

func init() {
	subCmd.Flags().StringVar(&subSide, "side", "home", "side to substitute on: home or away")
	subCmd.Flags().StringVar(&subOut, "out", "", "jersey number of the outgoing player")
	subCmd.Flags().StringVar(&subIn, "in", "", "jersey number of the incoming player")
	subCmd.MarkFlagRequired("out")
	subCmd.MarkFlagRequired("in")
}

func runSub(cmd *cobra.Command, args []string) error {
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

	side, err := parseSide(subSide)
	if err != nil {
		return err
	}

	engine := match.New(snap.Metadata)
	if err := engine.Restore(*snap); err != nil {
		return fmt.Errorf("restore match: %w", err)
	}

	out, onCourt := engine.Lineup(side).ByNumber(subOut)
	if !onCourt {
		return fmt.Errorf("no player #%s on court for %s", subOut, subSide)
	}
	in, rostered := engine.Team(side).FindByNumber(subIn)
	if !rostered {
		return fmt.Errorf("no player #%s on the %s roster", subIn, subSide)
	}
	if err := engine.Substitute(side, out.ID, in.ID); err != nil {
		return err
	}

	if err := db.SaveMatch(id, engine.Snapshot()); err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Substituted #%s %s for #%s %s\n", in.Number, in.Name, out.Number, out.Name)
	return nil
}
