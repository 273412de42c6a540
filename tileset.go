package wang

import (
	"fmt"
)

// TileSet maps each edge mask to the source (image file) of the tile variant
// drawn for it. A mask with source "" has no variant and can never be placed.
//
// The tile set owns its compatibility table and rebuilds it on every change,
// so Table() always reflects the current variants.
type TileSet struct {
	sources [NumMasks]string
	table   *Table
}

// NewTileSet returns an empty tile set.
func NewTileSet() *TileSet {
	ts := &TileSet{}
	ts.table = BuildTable(ts)
	return ts
}

// NewTileSetFromSources returns a tile set using sources[mask] as the variant
// for each mask. Empty strings are skipped.
func NewTileSetFromSources(sources map[EdgeMask]string) (*TileSet, error) {
	ts := &TileSet{}
	for mask, src := range sources {
		if !mask.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidMask, mask)
		}
		ts.sources[mask] = src
	}
	ts.table = BuildTable(ts)
	return ts, nil
}

// NewTileSetFromSides builds a tile set from per side lists of sources.
// A source listed under "north" and "east" has mask N|E, one listed nowhere
// but as `empty` is the isolated tile. The same source may appear in several
// lists, but two different sources may not end up with the same mask.
func NewTileSetFromSides(north, east, south, west []string, empty string) (*TileSet, error) {
	masks := map[string]EdgeMask{}
	order := []string{}

	add := func(srcs []string, d Direction) {
		for _, src := range srcs {
			if src == "" {
				continue
			}
			if _, ok := masks[src]; !ok {
				order = append(order, src)
			}
			masks[src] |= d.Bit()
		}
	}
	add(north, North)
	add(east, East)
	add(south, South)
	add(west, West)

	if empty != "" {
		if _, ok := masks[empty]; !ok {
			order = append(order, empty)
			masks[empty] = Isolated
		}
	}

	ts := &TileSet{}
	for _, src := range order {
		mask := masks[src]
		if ts.sources[mask] != "" && ts.sources[mask] != src {
			return nil, fmt.Errorf("%w: %s has both %s and %s", ErrDuplicateMask, mask, ts.sources[mask], src)
		}
		ts.sources[mask] = src
	}
	ts.table = BuildTable(ts)
	return ts, nil
}

// Set the variant source for the given mask (replacing any existing one).
// Setting "" removes the variant.
func (t *TileSet) Set(mask EdgeMask, src string) error {
	if !mask.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMask, mask)
	}
	t.sources[mask] = src
	t.table = BuildTable(t)
	return nil
}

// Remove the variant for the given mask.
func (t *TileSet) Remove(mask EdgeMask) error {
	return t.Set(mask, "")
}

// Has returns if a variant exists for the given mask.
func (t *TileSet) Has(mask EdgeMask) bool {
	return mask.Valid() && t.sources[mask] != ""
}

// Source returns the variant source for a mask, or "" if there is none.
func (t *TileSet) Source(mask EdgeMask) string {
	if !mask.Valid() {
		return ""
	}
	return t.sources[mask]
}

// Masks returns every mask with a variant, low -> high.
func (t *TileSet) Masks() []EdgeMask {
	out := []EdgeMask{}
	for m := EdgeMask(0); m < NumMasks; m++ {
		if t.sources[m] != "" {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of variants.
func (t *TileSet) Len() int {
	n := 0
	for _, src := range t.sources {
		if src != "" {
			n++
		}
	}
	return n
}

// Table returns the compatibility table for the current variants.
func (t *TileSet) Table() *Table {
	if t.table == nil {
		// zero value TileSet
		t.table = BuildTable(t)
	}
	return t.table
}
