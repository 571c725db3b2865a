package match

import "github.com/pable/volleytag/internal/model"

// Slot addresses one of the seven lineup positions: the six rotational slots
// 1–6 (numbered like the zones they start in) plus the floating libero slot.
type Slot int

const (
	Slot1 Slot = 1
	Slot2 Slot = 2
	Slot3 Slot = 3
	Slot4 Slot = 4
	Slot5 Slot = 5
	Slot6 Slot = 6
	// SlotLibero is outside the rotation order and untouched by Rotate.
	SlotLibero Slot = 7
)

// Valid reports whether s addresses an existing slot.
func (s Slot) Valid() bool {
	return s >= Slot1 && s <= SlotLibero
}

// SideLineup is one side's on-court assignment. The slots are named fields
// rather than a map so the libero auto-swap rules stay statically checkable.
// A nil entry is an empty slot; a player id never occupies two slots at once.
type SideLineup struct {
	P1     *model.Player `json:"1,omitempty"`
	P2     *model.Player `json:"2,omitempty"`
	P3     *model.Player `json:"3,omitempty"`
	P4     *model.Player `json:"4,omitempty"`
	P5     *model.Player `json:"5,omitempty"`
	P6     *model.Player `json:"6,omitempty"`
	Libero *model.Player `json:"L,omitempty"`
}

// Get returns the occupant of the slot, nil when empty or the slot is invalid.
func (l *SideLineup) Get(s Slot) *model.Player {
	switch s {
	case Slot1:
		return l.P1
	case Slot2:
		return l.P2
	case Slot3:
		return l.P3
	case Slot4:
		return l.P4
	case Slot5:
		return l.P5
	case Slot6:
		return l.P6
	case SlotLibero:
		return l.Libero
	}
	return nil
}

func (l *SideLineup) set(s Slot, p *model.Player) {
	switch s {
	case Slot1:
		l.P1 = p
	case Slot2:
		l.P2 = p
	case Slot3:
		l.P3 = p
	case Slot4:
		l.P4 = p
	case Slot5:
		l.P5 = p
	case Slot6:
		l.P6 = p
	case SlotLibero:
		l.Libero = p
	}
}

var allSlots = [...]Slot{Slot1, Slot2, Slot3, Slot4, Slot5, Slot6, SlotLibero}

// Occupies returns the slot currently holding the given player id.
func (l *SideLineup) Occupies(playerID string) (Slot, bool) {
	for _, s := range allSlots {
		if p := l.Get(s); p != nil && p.ID == playerID {
			return s, true
		}
	}
	return 0, false
}

// OnCourt returns every occupied slot's player in slot order.
func (l *SideLineup) OnCourt() []model.Player {
	var players []model.Player
	for _, s := range allSlots {
		if p := l.Get(s); p != nil {
			players = append(players, *p)
		}
	}
	return players
}

// ByID returns the on-court player with the given id.
func (l *SideLineup) ByID(id string) (model.Player, bool) {
	if s, ok := l.Occupies(id); ok {
		return *l.Get(s), true
	}
	return model.Player{}, false
}

// ByNumber returns the on-court player with the given jersey number.
func (l *SideLineup) ByNumber(number string) (model.Player, bool) {
	for _, s := range allSlots {
		if p := l.Get(s); p != nil && p.Number == number {
			return *p, true
		}
	}
	return model.Player{}, false
}

// Assign places a player into a slot during lineup building. If the player
// already occupies another slot they are moved, keeping the one-slot-per-
// player invariant; the previous occupant of the target slot is displaced
// off court.
func (l *SideLineup) Assign(p model.Player, target Slot) {
	if !target.Valid() {
		return
	}
	if prev, ok := l.Occupies(p.ID); ok {
		l.set(prev, nil)
	}
	cp := p
	l.set(target, &cp)
}

// Swap exchanges the occupants of two slots; either may be empty.
func (l *SideLineup) Swap(a, b Slot) {
	if !a.Valid() || !b.Valid() || a == b {
		return
	}
	pa, pb := l.Get(a), l.Get(b)
	l.set(a, pb)
	l.set(b, pa)
}

// Clear empties a slot.
func (l *SideLineup) Clear(s Slot) {
	if s.Valid() {
		l.set(s, nil)
	}
}

// replaceAll swaps in the incoming player wherever the outgoing id appears.
// Returns the number of slots changed (0 or 1 given the invariant).
func (l *SideLineup) replaceAll(outgoingID string, incoming model.Player) int {
	n := 0
	for _, s := range allSlots {
		if p := l.Get(s); p != nil && p.ID == outgoingID {
			cp := incoming
			l.set(s, &cp)
			n++
		}
	}
	return n
}

// RotationPolicy configures the libero auto-swap convention applied after
// each rotation. The defaults encode the house rule from this system's
// original ruleset: the libero replaces a middle blocker arriving in the
// back row (slot 1) and is pulled back out when stranded in the front row
// (slot 4). These are conventions, not official volleyball law, so they
// stay configurable.
type RotationPolicy struct {
	LiberoAutoSwap bool
	// BackSwapSlot is checked after rotation; if its occupant has
	// BackSwapRole and the libero slot is occupied, the two swap.
	BackSwapSlot Slot
	BackSwapRole model.PlayerRole
	// FrontRestoreSlot is checked after rotation; if its occupant carries
	// the libero role, it swaps with the libero slot to restore the
	// parked player to the front row.
	FrontRestoreSlot Slot
}

// DefaultRotationPolicy returns the house convention: auto-swap enabled,
// MB replaced in slot 1, libero restored out of slot 4.
func DefaultRotationPolicy() RotationPolicy {
	return RotationPolicy{
		LiberoAutoSwap:   true,
		BackSwapSlot:     Slot1,
		BackSwapRole:     model.RoleMiddle,
		FrontRestoreSlot: Slot4,
	}
}

// AutoSwap identifies which libero exchange fired during a rotation.
type AutoSwap int

const (
	SwapNone    AutoSwap = iota
	SwapLiberoIn          // libero entered for the BackSwapRole player
	SwapLiberoOut         // stranded libero restored from the front row
)

// Rotate shifts the six rotational slots one position forward (slot 1 takes
// old slot 2, …, slot 6 takes old slot 1); the libero slot is untouched by
// the shift. It then applies at most one libero auto-swap per the policy —
// the two rules check disjoint slots, so they are mutually exclusive.
func (l *SideLineup) Rotate(policy RotationPolicy) AutoSwap {
	l.P1, l.P2, l.P3, l.P4, l.P5, l.P6 = l.P2, l.P3, l.P4, l.P5, l.P6, l.P1

	if !policy.LiberoAutoSwap || l.Libero == nil {
		return SwapNone
	}
	if in := l.Get(policy.BackSwapSlot); in != nil && in.Role == policy.BackSwapRole {
		l.Swap(policy.BackSwapSlot, SlotLibero)
		return SwapLiberoIn
	}
	if front := l.Get(policy.FrontRestoreSlot); front != nil && front.Role == model.RoleLibero {
		l.Swap(policy.FrontRestoreSlot, SlotLibero)
		return SwapLiberoOut
	}
	return SwapNone
}
