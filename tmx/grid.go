package tmx

import (
	"fmt"

	"github.com/voidshard/wang"
)

const (
	// PropMask is the tile property holding a tile's edge mask
	PropMask = "mask"
)

// FromGrid lays out a grid as a TMX map, using the tile set to find the
// image for each mask. Each tile in the tileset is tagged with its mask &
// which sides have edges.
//
// TMX rows run top to bottom while grid rows run south to north, so grid row
// y lands on map row height-1-y.
//
// Cells whose mask has no variant (eg. the Isolated fallback when the tile
// set has no empty tile) are left as the nil tile.
func FromGrid(g *wang.Grid, ts *wang.TileSet, tw, th uint) (*Map, error) {
	if g == nil {
		return nil, wang.ErrNoGrid
	}
	if ts == nil {
		return nil, wang.ErrInvalidTileSet
	}

	m := New(uint(g.Width()), uint(g.Height()), tw, th)
	for _, mask := range ts.Masks() {
		props := NewProperties()
		props.SetInt(PropMask, int(mask))
		for _, d := range wang.Directions {
			props.SetBool(d.String(), mask.Has(d))
		}
		m.SetProperties(ts.Source(mask), props)
	}

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			src := ts.Source(g.At(x, y))
			if err := m.Set(x, g.Height()-1-y, src); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// ToGrid reads a grid back out of a map written by FromGrid. Masks come
// from the "mask" property of each tile; nil tiles read as Isolated.
func ToGrid(m *Map) (*wang.Grid, error) {
	if m.Width <= 0 || m.Height <= 0 {
		return nil, wang.ErrInvalidSize
	}

	masks := map[string]wang.EdgeMask{}
	for _, src := range m.Sources() {
		v, ok := m.Properties(src).Int(PropMask)
		if !ok {
			return nil, fmt.Errorf("tile %s has no %q property", src, PropMask)
		}
		mask, err := wang.MaskFromInt(v)
		if err != nil {
			return nil, fmt.Errorf("tile %s: %w", src, err)
		}
		masks[src] = mask
	}

	g, err := wang.NewGrid(uint(m.Width), uint(m.Height))
	if err != nil {
		return nil, err
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			src := m.At(x, m.Height-1-y)
			if src == "" {
				continue // Isolated
			}
			if err := g.Set(x, y, masks[src]); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
