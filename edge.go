package wang

import (
	"fmt"
	"strings"
)

// EdgeMask records which sides of a tile connect outward.
// bit 0 = North, bit 1 = East, bit 2 = South, bit 3 = West.
type EdgeMask uint8

const (
	// Isolated is the tile with no edges. It doubles as the fallback
	// when no variant satisfies a cell's constraints.
	Isolated EdgeMask = 0

	// Full has all four edges set.
	Full EdgeMask = 0xF

	// NumMasks is how many distinct edge masks exist.
	NumMasks = 16
)

// Direction is one of the four cardinal sides of a tile.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// Directions in bit order.
var Directions = [4]Direction{North, East, South, West}

// edgeCount is the popcount of every 4 bit value
var edgeCount = [NumMasks]int{
	0, 1, 1, 2, 1, 2, 2, 3,
	1, 2, 2, 3, 2, 3, 3, 4,
}

// Bit returns the mask bit for this side.
func (d Direction) Bit() EdgeMask {
	return 1 << d
}

// Opposite returns the side facing this one across a shared border.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Offset returns the grid step (dx, dy) towards the neighbour on this side.
// y grows northwards.
func (d Direction) Offset() (int, int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	default:
		return -1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "unknown"
}

// MaskFromCardinals packs the four side flags into a mask.
func MaskFromCardinals(north, east, south, west bool) EdgeMask {
	var m EdgeMask
	if north {
		m |= North.Bit()
	}
	if east {
		m |= East.Bit()
	}
	if south {
		m |= South.Bit()
	}
	if west {
		m |= West.Bit()
	}
	return m
}

// MaskFromInt converts a decoded integer (file property, db column, flag)
// to a mask, rejecting anything outside [0,15].
func MaskFromInt(v int) (EdgeMask, error) {
	if v < 0 || v > int(Full) {
		return Isolated, fmt.Errorf("%w: %d", ErrInvalidMask, v)
	}
	return EdgeMask(v), nil
}

// CountEdges returns how many of the low four bits are set.
func CountEdges(m EdgeMask) int {
	return edgeCount[m&Full]
}

// RotateClockwise turns the tile a quarter turn: what was North becomes
// East, East becomes South, South becomes West and West becomes North.
// Bits above the low four are dropped.
func RotateClockwise(m EdgeMask) EdgeMask {
	m &= Full
	return ((m << 1) | (m >> 3)) & Full
}

// Has returns if the mask has an edge on side `d`.
func (m EdgeMask) Has(d Direction) bool {
	return m&d.Bit() != 0
}

// Valid returns if the mask fits in four bits.
func (m EdgeMask) Valid() bool {
	return m <= Full
}

// String lists the set sides, eg. "NES", or "-" for the isolated tile.
func (m EdgeMask) String() string {
	if m&Full == 0 {
		return "-"
	}
	b := strings.Builder{}
	for _, d := range Directions {
		if m.Has(d) {
			b.WriteByte(strings.ToUpper(d.String())[0])
		}
	}
	return b.String()
}
