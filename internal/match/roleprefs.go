package match

import "github.com/pable/volleytag/internal/model"

// RoleStore persists role preferences keyed by team name and jersey number,
// so a returning player's position survives roster re-entry across matches.
// Implementations live outside the engine (in-memory below, sqlite in
// storage); the engine only ever calls Get and Set.
type RoleStore interface {
	Get(team, number string) (model.PlayerRole, bool)
	Set(team, number string, role model.PlayerRole) error
}

// MemoryRoleStore is a map-backed RoleStore for tests and ephemeral sessions.
type MemoryRoleStore map[string]model.PlayerRole

func roleKey(team, number string) string {
	return team + "-" + number
}

func (m MemoryRoleStore) Get(team, number string) (model.PlayerRole, bool) {
	r, ok := m[roleKey(team, number)]
	return r, ok
}

func (m MemoryRoleStore) Set(team, number string, role model.PlayerRole) error {
	m[roleKey(team, number)] = role
	return nil
}

// PreferredRole looks up a saved role, falling back to RoleUnknown. A nil
// store always falls back.
func PreferredRole(store RoleStore, team, number string) model.PlayerRole {
	if store == nil {
		return model.RoleUnknown
	}
	if r, ok := store.Get(team, number); ok && r != "" {
		return r
	}
	return model.RoleUnknown
}
