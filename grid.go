package wang

import (
	"fmt"
	"strings"
)

// Point is a cell coordinate. y grows northwards.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid is a width x height array of chosen edge masks.
// Cell (0,0) is the south west corner.
type Grid struct {
	width  int
	height int
	cells  []EdgeMask
}

// NewGrid returns a grid with every cell set to Isolated.
func NewGrid(width, height uint) (*Grid, error) {
	if width == 0 || height == 0 {
		return nil, ErrInvalidSize
	}
	return &Grid{
		width:  int(width),
		height: int(height),
		cells:  make([]EdgeMask, width*height),
	}, nil
}

// NewGridFromCells wraps row major `cells` (index = y * width + x).
func NewGridFromCells(width, height uint, cells []EdgeMask) (*Grid, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	if len(cells) != len(g.cells) {
		return nil, fmt.Errorf("%w: got %d cells for a %dx%d grid", ErrInvalidSize, len(cells), width, height)
	}
	for i, c := range cells {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %d at index %d", ErrInvalidMask, c, i)
		}
	}
	copy(g.cells, cells)
	return g, nil
}

// Width in cells
func (g *Grid) Width() int {
	return g.width
}

// Height in cells
func (g *Grid) Height() int {
	return g.height
}

// InBounds returns if (x,y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the mask at (x,y). Out of bounds reads return Isolated.
func (g *Grid) At(x, y int) EdgeMask {
	if !g.InBounds(x, y) {
		return Isolated
	}
	return g.cells[y*g.width+x]
}

// Set the mask at (x,y).
func (g *Grid) Set(x, y int, m EdgeMask) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d grid", ErrOutOfBounds, x, y, g.width, g.height)
	}
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMask, m)
	}
	g.cells[y*g.width+x] = m
	return nil
}

// Cells returns a copy of the row major cell data.
func (g *Grid) Cells() []EdgeMask {
	out := make([]EdgeMask, len(g.cells))
	copy(out, g.cells)
	return out
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	return &Grid{width: g.width, height: g.height, cells: g.Cells()}
}

// Equal returns if both grids have the same size and cells.
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Mismatches returns every cell whose west or south border disagrees with
// its neighbour. Cells are reported once per bad border.
func (g *Grid) Mismatches() []Point {
	bad := []Point{}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			m := g.At(x, y)
			if x > 0 && m.Has(West) != g.At(x-1, y).Has(East) {
				bad = append(bad, Point{x, y})
			}
			if y > 0 && m.Has(South) != g.At(x, y-1).Has(North) {
				bad = append(bad, Point{x, y})
			}
		}
	}
	return bad
}

// boxRunes draws each mask with a box drawing character
var boxRunes = [NumMasks]rune{
	'·', '╵', '╶', '└', '╷', '│', '┌', '├',
	'╴', '┘', '─', '┴', '┐', '┤', '┬', '┼',
}

// String draws the grid, north row first.
func (g *Grid) String() string {
	b := strings.Builder{}
	for y := g.height - 1; y >= 0; y-- {
		for x := 0; x < g.width; x++ {
			b.WriteRune(boxRunes[g.At(x, y)])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
