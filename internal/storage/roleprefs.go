package storage

import (
	"github.com/pable/volleytag/internal/model"
)

// RolePrefs is the SQLite-backed role preference store. It satisfies
// match.RoleStore, so an engine wired with it remembers positions across
// matches (keyed by team name and jersey number, not player identity).
type RolePrefs struct {
	db *DB
}

// RolePrefs returns the role preference store backed by this database.
func (db *DB) RolePrefs() *RolePrefs {
	return &RolePrefs{db: db}
}

// Get returns the remembered role for a jersey number on a team. Lookup
// failures read as "no preference"; the caller falls back to Unknown.
func (rp *RolePrefs) Get(team, number string) (model.PlayerRole, bool) {
	var role string
	err := rp.db.conn.QueryRow(
		"SELECT role FROM role_prefs WHERE team = ? AND number = ?",
		team, number).Scan(&role)
	if err != nil {
		return model.RoleUnknown, false
	}
	return model.PlayerRole(role), true
}

// Set records (or overwrites) the remembered role.
func (rp *RolePrefs) Set(team, number string, role model.PlayerRole) error {
	_, err := rp.db.conn.Exec(`
		INSERT OR REPLACE INTO role_prefs(team, number, role) VALUES (?, ?, ?)`,
		team, number, string(role))
	return err
}
