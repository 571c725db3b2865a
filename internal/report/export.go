package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pable/volleytag/internal/match"
	"github.com/pable/volleytag/internal/model"
)

var csvHeader = []string{
	"Set", "Time", "Team", "Number", "Name", "Role",
	"Skill", "SubType", "Grade", "Tags",
	"Start Zone", "Start X%", "Start Y%",
	"End Zone", "End X%", "End Y%",
	"Result",
}

// ExportCSV writes one row per ledger event. The output starts with a UTF-8
// BOM so spreadsheet tools detect the encoding. Absent optional fields render
// as empty cells; coordinates use two decimal places.
func ExportCSV(w io.Writer, snap match.Snapshot) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range snap.Events {
		name, role := resolvePlayer(snap, e)
		sx, sy := coordCells(e.StartCoordinate)
		ex, ey := coordCells(e.EndCoordinate)
		row := []string{
			strconv.Itoa(e.Set),
			e.Time.Format("15:04:05"),
			snap.Metadata.TeamFor(e.Team).Name,
			e.PlayerNumber,
			name,
			role,
			e.Skill.Label(),
			e.SubType.Label(),
			string(e.Grade),
			strings.Join(e.Tags, ", "),
			strconv.Itoa(int(e.StartZone)),
			sx, sy,
			strconv.Itoa(int(e.EndZone)),
			ex, ey,
			e.Result.Label(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write event %s: %w", e.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// resolvePlayer finds a name and role label for the event's jersey number.
// Roster first, then the lineup, so events survive a roster edit that removed
// the player.
func resolvePlayer(snap match.Snapshot, e model.TagEvent) (name, role string) {
	if team := snap.Metadata.TeamFor(e.Team); team != nil {
		if p, ok := team.FindByNumber(e.PlayerNumber); ok {
			return p.Name, p.Role.Label()
		}
	}
	lineup := &snap.Lineup.Home
	if e.Team == model.SideAway {
		lineup = &snap.Lineup.Away
	}
	if p, ok := lineup.ByNumber(e.PlayerNumber); ok {
		return p.Name, p.Role.Label()
	}
	return "", model.RoleUnknown.Label()
}

func coordCells(c *model.Coordinate) (x, y string) {
	if c == nil {
		return "", ""
	}
	return strconv.FormatFloat(c.X, 'f', 2, 64), strconv.FormatFloat(c.Y, 'f', 2, 64)
}
