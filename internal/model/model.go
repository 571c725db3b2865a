package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TeamSide identifies which bench a player or event belongs to.
type TeamSide string

const (
	SideHome TeamSide = "Home"
	SideAway TeamSide = "Away"
)

// Opponent returns the other side.
func (s TeamSide) Opponent() TeamSide {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// Valid reports whether the side is one of the two known values.
func (s TeamSide) Valid() bool {
	return s == SideHome || s == SideAway
}

// PlayerRole is a volleyball position.
type PlayerRole string

const (
	RoleOutside  PlayerRole = "OH" // outside hitter
	RoleMiddle   PlayerRole = "MB" // middle blocker
	RoleOpposite PlayerRole = "OP"
	RoleSetter   PlayerRole = "S"
	RoleLibero   PlayerRole = "L"
	RoleDefense  PlayerRole = "DS" // defensive specialist
	RoleUnknown  PlayerRole = "?"
)

var roleLabels = map[PlayerRole]string{
	RoleOutside:  "Outside Hitter",
	RoleMiddle:   "Middle Blocker",
	RoleOpposite: "Opposite",
	RoleSetter:   "Setter",
	RoleLibero:   "Libero",
	RoleDefense:  "Defensive Specialist",
	RoleUnknown:  "Unassigned",
}

// Label returns the long position name, or "Unassigned" for unknown roles.
func (r PlayerRole) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return roleLabels[RoleUnknown]
}

// Known reports whether the role carries position information.
func (r PlayerRole) Known() bool {
	_, ok := roleLabels[r]
	return ok && r != RoleUnknown
}

// Skill is the action category of a tagged event.
type Skill string

const (
	SkillServe        Skill = "Serve"
	SkillReceive      Skill = "Receive"
	SkillSet          Skill = "Set"
	SkillAttack       Skill = "Attack"
	SkillBlock        Skill = "Block"
	SkillDig          Skill = "Dig"
	SkillFreeball     Skill = "Freeball"
	SkillFault        Skill = "Fault"
	SkillSubstitution Skill = "Substitution"
)

var skillLabels = map[Skill]string{
	SkillServe:        "Serve",
	SkillReceive:      "Receive",
	SkillSet:          "Set",
	SkillAttack:       "Attack",
	SkillBlock:        "Block",
	SkillDig:          "Dig",
	SkillFreeball:     "Freeball",
	SkillFault:        "Fault",
	SkillSubstitution: "Substitution",
}

// Label returns the display name for the skill. Unknown skills render as-is.
func (s Skill) Label() string {
	if l, ok := skillLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether the skill is one of the known categories.
func (s Skill) Valid() bool {
	_, ok := skillLabels[s]
	return ok
}

// SubType refines a skill: attack tempos, serve styles, fault kinds, set calls.
type SubType string

const (
	SubQuickA    SubType = "QuickA"
	SubQuickB    SubType = "QuickB"
	SubQuickC    SubType = "QuickC"
	SubOpen      SubType = "Open"
	SubBackRow   SubType = "BackRow"
	SubTip       SubType = "Tip"
	SubTool      SubType = "Tool"
	SubFloat     SubType = "Float"
	SubSpin      SubType = "Spin"
	SubNetTouch  SubType = "NetTouch"
	SubDouble    SubType = "DoubleHit"
	SubViolation SubType = "Violation"
	SubOut       SubType = "Out"
	SubCarry     SubType = "Carry"
	SubSetA      SubType = "SetA"
	SubSetB      SubType = "SetB"
	SubSetC      SubType = "SetC"
	SubSetOpen   SubType = "SetOpen"
	SubSetSlide  SubType = "SetSlide"
)

var subTypeLabels = map[SubType]string{
	SubQuickA:    "Quick A",
	SubQuickB:    "Quick B",
	SubQuickC:    "Quick C",
	SubOpen:      "Open",
	SubBackRow:   "Back Row",
	SubTip:       "Tip",
	SubTool:      "Tool",
	SubFloat:     "Float",
	SubSpin:      "Spin",
	SubNetTouch:  "Net Touch",
	SubDouble:    "Double Hit",
	SubViolation: "Violation",
	SubOut:       "Out",
	SubCarry:     "Carry",
	SubSetA:      "Set A",
	SubSetB:      "Set B",
	SubSetC:      "Set C",
	SubSetOpen:   "Set Open",
	SubSetSlide:  "Set Slide",
}

// Label returns the display name for the sub-type, empty for the zero value.
func (st SubType) Label() string {
	if st == "" {
		return ""
	}
	if l, ok := subTypeLabels[st]; ok {
		return l
	}
	return string(st)
}

// Grade is the five-step quality mark used by scouts: # perfect, + good,
// ! in-system, - poor, = error.
type Grade string

const (
	GradePerfect Grade = "#"
	GradeGood    Grade = "+"
	GradeOK      Grade = "!"
	GradePoor    Grade = "-"
	GradeError   Grade = "="
)

var gradeLabels = map[Grade]string{
	GradePerfect: "Perfect",
	GradeGood:    "Good",
	GradeOK:      "In System",
	GradePoor:    "Poor",
	GradeError:   "Error",
}

// Label returns the display name for the grade, empty for the zero value.
func (g Grade) Label() string {
	if g == "" {
		return ""
	}
	if l, ok := gradeLabels[g]; ok {
		return l
	}
	return string(g)
}

// Zone is one of the six court regions in volleyball numbering: 1 back-right,
// 2 front-right, 3 front-center, 4 front-left, 5 back-left, 6 back-center,
// always from the acting team's own perspective.
type Zone int

// Valid reports whether z is in 1..6.
func (z Zone) Valid() bool {
	return z >= 1 && z <= 6
}

// Result is the rally outcome of a tagged action.
type Result string

const (
	ResultPoint    Result = "Point"    // rally-ending score for the acting team
	ResultError    Result = "Error"    // rally-ending fault, point to the opponent
	ResultContinue Result = "Continue" // non-terminal action
)

var resultLabels = map[Result]string{
	ResultPoint:    "Point",
	ResultError:    "Error",
	ResultContinue: "Continue",
}

// Label returns the display name for the result.
func (r Result) Label() string {
	if l, ok := resultLabels[r]; ok {
		return l
	}
	return string(r)
}

// Valid reports whether the result is one of the three known outcomes.
func (r Result) Valid() bool {
	_, ok := resultLabels[r]
	return ok
}

// Coordinate is a point on the tagging canvas in percent of the full
// two-court surface, origin top-left, net at Y=50.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Player is a roster entry. ID is an opaque unique token; Number is the
// jersey number, unique within a team.
type Player struct {
	ID     string     `json:"id"`
	Number string     `json:"number"`
	Name   string     `json:"name"`
	Role   PlayerRole `json:"role,omitempty"`
}

// NewPlayer creates a player with a fresh unique id.
func NewPlayer(number, name string, role PlayerRole) Player {
	if role == "" {
		role = RoleUnknown
	}
	return Player{ID: uuid.New().String(), Number: number, Name: name, Role: role}
}

// Team holds a named roster ordered by jersey number.
type Team struct {
	Name   string   `json:"name"`
	Roster []Player `json:"roster"`
}

// ErrDuplicateNumber is returned when a roster edit would introduce a second
// player with the same jersey number.
var ErrDuplicateNumber = fmt.Errorf("jersey number already in roster")

// AddPlayer appends a player, rejecting duplicate jersey numbers. The roster
// stays sorted by number.
func (t *Team) AddPlayer(p Player) error {
	for _, existing := range t.Roster {
		if existing.Number == p.Number {
			return fmt.Errorf("add player %s: %w", p.Number, ErrDuplicateNumber)
		}
	}
	t.Roster = append(t.Roster, p)
	t.sortRoster()
	return nil
}

// UpdatePlayer replaces the number and name of the player with the given id.
// The new number must not collide with any other roster entry.
func (t *Team) UpdatePlayer(id, number, name string) error {
	for _, existing := range t.Roster {
		if existing.Number == number && existing.ID != id {
			return fmt.Errorf("update player %s: %w", number, ErrDuplicateNumber)
		}
	}
	for i := range t.Roster {
		if t.Roster[i].ID == id {
			t.Roster[i].Number = number
			t.Roster[i].Name = name
			t.sortRoster()
			return nil
		}
	}
	return fmt.Errorf("update player: no roster entry with id %s", id)
}

// RemovePlayer deletes the roster entry with the given id, if present.
func (t *Team) RemovePlayer(id string) {
	for i := range t.Roster {
		if t.Roster[i].ID == id {
			t.Roster = append(t.Roster[:i], t.Roster[i+1:]...)
			return
		}
	}
}

// SetRole records a role on the roster entry with the given jersey number.
func (t *Team) SetRole(number string, role PlayerRole) {
	for i := range t.Roster {
		if t.Roster[i].Number == number {
			t.Roster[i].Role = role
			return
		}
	}
}

// FindByNumber returns the roster entry with the given jersey number.
func (t *Team) FindByNumber(number string) (Player, bool) {
	for _, p := range t.Roster {
		if p.Number == number {
			return p, true
		}
	}
	return Player{}, false
}

// FindByID returns the roster entry with the given id.
func (t *Team) FindByID(id string) (Player, bool) {
	for _, p := range t.Roster {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

func (t *Team) sortRoster() {
	sort.SliceStable(t.Roster, func(i, j int) bool {
		return numberKey(t.Roster[i].Number) < numberKey(t.Roster[j].Number)
	})
}

// numberKey orders jersey numbers numerically where possible so "10" sorts
// after "9"; non-numeric numbers sort after all numeric ones.
func numberKey(n string) int {
	if v, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
		return v
	}
	return 1 << 20
}

// MatchMetadata describes the fixture: date, tournament, and both teams.
type MatchMetadata struct {
	Date       string `json:"date"`
	Tournament string `json:"tournament"`
	HomeTeam   Team   `json:"homeTeam"`
	AwayTeam   Team   `json:"awayTeam"`
}

// TeamFor returns a pointer to the side's team.
func (m *MatchMetadata) TeamFor(side TeamSide) *Team {
	if side == SideHome {
		return &m.HomeTeam
	}
	return &m.AwayTeam
}

// TagEvent is one tagged action. Events are immutable once created: the
// ledger only ever appends them or deletes them by id.
type TagEvent struct {
	ID              string      `json:"id"`
	Set             int         `json:"set"`
	Time            time.Time   `json:"time"`
	Team            TeamSide    `json:"team"`
	PlayerNumber    string      `json:"playerNumber"`
	Skill           Skill       `json:"skill"`
	SubType         SubType     `json:"subType,omitempty"`
	Grade           Grade       `json:"grade,omitempty"`
	StartZone       Zone        `json:"startZone"`
	EndZone         Zone        `json:"endZone"`
	StartCoordinate *Coordinate `json:"startCoordinate,omitempty"`
	EndCoordinate   *Coordinate `json:"endCoordinate,omitempty"`
	Result          Result      `json:"result"`
	Tags            []string    `json:"tags,omitempty"`
}

// PendingEvent collects the fields of an action while the scorer clicks
// through the tagging sequence. All fields are optional until commit.
type PendingEvent struct {
	Team            TeamSide
	PlayerNumber    string
	Skill           Skill
	SubType         SubType
	Grade           Grade
	StartZone       Zone
	EndZone         Zone
	StartCoordinate *Coordinate
	EndCoordinate   *Coordinate
	Tags            []string
}

// Score is the live scoreboard for the current set.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// For returns the side's counter.
func (s Score) For(side TeamSide) int {
	if side == SideHome {
		return s.Home
	}
	return s.Away
}

// Add increments the side's counter by delta, clamping at zero.
func (s *Score) Add(side TeamSide, delta int) {
	v := s.For(side) + delta
	if v < 0 {
		v = 0
	}
	if side == SideHome {
		s.Home = v
	} else {
		s.Away = v
	}
}
