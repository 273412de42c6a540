package wang

import (
	"fmt"
)

// RegenerateArea writes `newMask` to (x,y) and then resamples each of its
// orthogonal neighbours once, constraining every side of a neighbour that
// borders an existing cell.
//
// The edited cell is taken as is. Neighbours of neighbours are not revisited,
// so the patch may disagree with the ring of cells around it; this is a local
// fix, not a solver.
//
// Returns the cells written: the edited cell first, then west, east, south
// and north where they exist.
func RegenerateArea(g *Grid, table *Table, x, y int, newMask EdgeMask, porosity float64, rng Rand) ([]Point, []Diagnostic, error) {
	if table == nil {
		return nil, nil, ErrNoTable
	}
	if g == nil {
		return nil, nil, ErrNoGrid
	}
	if !validPorosity(porosity) {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPorosity, porosity)
	}
	if err := g.Set(x, y, newMask); err != nil {
		return nil, nil, err
	}

	touched := []Point{{x, y}}
	diags := []Diagnostic{}

	for _, d := range []Direction{West, East, South, North} {
		dx, dy := d.Offset()
		nx, ny := x+dx, y+dy
		if !g.InBounds(nx, ny) {
			continue
		}

		mask, diag := resampleCell(g, table, nx, ny, porosity, rng)
		g.cells[ny*g.width+nx] = mask
		touched = append(touched, Point{nx, ny})
		if diag != nil {
			diags = append(diags, *diag)
		}
	}

	return touched, diags, nil
}

// constraints derives the (required, excluded) pair for (x,y) from all four
// neighbours that exist.
func constraints(g *Grid, x, y int) (EdgeMask, EdgeMask) {
	var required, excluded EdgeMask
	for _, d := range Directions {
		dx, dy := d.Offset()
		nx, ny := x+dx, y+dy
		if !g.InBounds(nx, ny) {
			continue // free
		}
		if g.At(nx, ny).Has(d.Opposite()) {
			required |= d.Bit()
		} else {
			excluded |= d.Bit()
		}
	}
	return required, excluded
}

// resampleCell picks a fresh mask for (x,y) given its current neighbours.
func resampleCell(g *Grid, table *Table, x, y int, porosity float64, rng Rand) (EdgeMask, *Diagnostic) {
	required, excluded := constraints(g, x, y)

	candidates := table.Candidates(required, excluded)
	if len(candidates) == 0 {
		return Isolated, &Diagnostic{X: x, Y: y, Required: required, Excluded: excluded}
	}
	return SampleWeighted(candidates, porosity, rng), nil
}
