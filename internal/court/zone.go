// Package court maps continuous tagging-canvas coordinates to discrete court
// zones. The canvas shows both courts stacked vertically with the net at
// y=50; the playing surface is inset to x 5–95 and y 4–96, so each half is
// 46 units deep and 90 units wide.
package court

import "github.com/pable/volleytag/internal/model"

// Geometry of the tagging canvas, in percent.
const (
	netY = 50.0

	// The three-meter line sits one third of the half depth (46 units)
	// from the net: 50 ∓ 46/3.
	farFrontRowY  = netY - 46.0/3 // 34.667: far half is front when y is above this
	nearFrontRowY = netY + 46.0/3 // 65.333: near half is front when y is below this

	// Column boundaries: thirds of the 90-unit playing width (5 + 30, 95 - 30).
	leftColX  = 35.0
	rightColX = 65.0
)

// ZoneAt classifies a canvas coordinate into a zone 1–6. Coordinates outside
// [0,100] are clamped first; the function is pure and total.
//
// The two halves mirror each other per volleyball numbering: the far (away)
// half reads 1-6-5 / 2-3-4 top to bottom, the near (home) half 4-3-2 / 5-6-1.
func ZoneAt(c model.Coordinate) model.Zone {
	x := clamp(c.X)
	y := clamp(c.Y)

	if y < netY {
		// Far half, away perspective.
		front := y > farFrontRowY
		switch {
		case x < leftColX:
			return pick(front, 2, 1)
		case x < rightColX:
			return pick(front, 3, 6)
		default:
			return pick(front, 4, 5)
		}
	}
	// Near half, home perspective.
	front := y < nearFrontRowY
	switch {
	case x < leftColX:
		return pick(front, 4, 5)
	case x < rightColX:
		return pick(front, 3, 6)
	default:
		return pick(front, 2, 1)
	}
}

func pick(front bool, frontZone, backZone model.Zone) model.Zone {
	if front {
		return frontZone
	}
	return backZone
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
