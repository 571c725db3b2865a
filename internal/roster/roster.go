// Package roster ingests bulk roster text, one player per line. The format
// is "NUMBER NAME" with the name optional, which is what a paste from a
// spreadsheet column pair produces.
package roster

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/pable/volleytag/internal/match"
	"github.com/pable/volleytag/internal/model"
)

var lineRe = regexp.MustCompile(`^(\d+)(?:\s+(.*))?$`)

// ParseBulk reads roster lines from r and appends the players to team.
// Lines that do not start with a jersey number are skipped, as are numbers
// already on the roster. When roles is non-nil, each new player starts with
// the remembered role for their team and number.
// Returns the number of players added.
func ParseBulk(r io.Reader, team *model.Team, roles match.RoleStore) (int, error) {
	added := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		number := m[1]
		name := strings.TrimSpace(m[2])

		p := model.NewPlayer(number, name, match.PreferredRole(roles, team.Name, number))
		if err := team.AddPlayer(p); err != nil {
			// Duplicate number: keep the existing entry, keep scanning.
			continue
		}
		added++
	}
	return added, scanner.Err()
}

// ParseBulkString is ParseBulk over an in-memory string.
func ParseBulkString(text string, team *model.Team, roles match.RoleStore) (int, error) {
	return ParseBulk(strings.NewReader(text), team, roles)
}
