package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pable/volleytag/internal/match"
	"github.com/pable/volleytag/internal/model"
)

// MatchSummary is the list-view row for a stored match.
type MatchSummary struct {
	ID         string
	Date       string
	Tournament string
	HomeTeam   string
	AwayTeam   string
	HomeScore  int
	AwayScore  int
	CurrentSet int
	Events     int
	UpdatedAt  time.Time
}

// SaveMatch upserts a snapshot under the given id and rebuilds the tabular
// event mirror in the same transaction.
func (db *DB) SaveMatch(id string, snap match.Snapshot) error {
	blob, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches(id, date, tournament, home_team, away_team,
			home_score, away_score, current_set, updated_at, snapshot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, snap.Metadata.Date, snap.Metadata.Tournament,
		snap.Metadata.HomeTeam.Name, snap.Metadata.AwayTeam.Name,
		snap.Score.Home, snap.Score.Away, snap.CurrentSet,
		time.Now().UTC().Format(time.RFC3339Nano), string(blob),
	)
	if err != nil {
		return fmt.Errorf("upsert match %s: %w", id, err)
	}

	if _, err := tx.Exec("DELETE FROM events WHERE match_id = ?", id); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO events(match_id, event_id, set_number, time, team, player_number,
			skill, sub_type, grade, start_zone, end_zone,
			start_x, start_y, end_x, end_y, result, tags)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range snap.Events {
		sx, sy := coordCols(e.StartCoordinate)
		ex, ey := coordCols(e.EndCoordinate)
		_, err = stmt.Exec(
			id, e.ID, e.Set, e.Time.UTC().Format(time.RFC3339Nano),
			string(e.Team), e.PlayerNumber,
			string(e.Skill), string(e.SubType), string(e.Grade),
			int(e.StartZone), int(e.EndZone),
			sx, sy, ex, ey,
			string(e.Result), strings.Join(e.Tags, "|"),
		)
		if err != nil {
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

func coordCols(c *model.Coordinate) (x, y interface{}) {
	if c == nil {
		return nil, nil
	}
	return c.X, c.Y
}

// LoadMatch returns the stored snapshot for a match id.
func (db *DB) LoadMatch(id string) (match.Snapshot, error) {
	var blob string
	err := db.conn.QueryRow("SELECT snapshot FROM matches WHERE id = ?", id).Scan(&blob)
	if err == sql.ErrNoRows {
		return match.Snapshot{}, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return match.Snapshot{}, err
	}
	var snap match.Snapshot
	if err := json.Unmarshal([]byte(blob), &snap); err != nil {
		return match.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return snap, nil
}

// GetMatchByPrefix finds the first match whose id starts with the given prefix.
func (db *DB) GetMatchByPrefix(prefix string) (*MatchSummary, error) {
	row := db.conn.QueryRow(`
		SELECT id, date, tournament, home_team, away_team,
		       home_score, away_score, current_set, updated_at,
		       (SELECT COUNT(1) FROM events WHERE match_id = matches.id)
		FROM matches WHERE id LIKE ? LIMIT 1`, prefix+"%")
	s, err := scanSummary(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListMatches returns all stored matches, most recently updated first.
func (db *DB) ListMatches() ([]MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, date, tournament, home_team, away_team,
		       home_score, away_score, current_set, updated_at,
		       (SELECT COUNT(1) FROM events WHERE match_id = matches.id)
		FROM matches ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSummary(row rowScanner) (MatchSummary, error) {
	var s MatchSummary
	var updated string
	err := row.Scan(&s.ID, &s.Date, &s.Tournament, &s.HomeTeam, &s.AwayTeam,
		&s.HomeScore, &s.AwayScore, &s.CurrentSet, &updated, &s.Events)
	if err != nil {
		return MatchSummary{}, err
	}
	s.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return s, nil
}

// DeleteMatch removes a match and, via the foreign key cascade, its events.
func (db *DB) DeleteMatch(id string) error {
	res, err := db.conn.Exec("DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return nil
}
