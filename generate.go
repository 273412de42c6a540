package wang

import (
	"fmt"
)

// Diagnostic records a cell for which no variant satisfied the derived
// constraints, so the Isolated tile was placed instead.
type Diagnostic struct {
	X        int
	Y        int
	Required EdgeMask
	Excluded EdgeMask
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("no candidates at (%d,%d) for required=%s excluded=%s", d.X, d.Y, d.Required, d.Excluded)
}

// Generate fills a new width x height grid from the tile set.
//
// Cells are visited row by row from the south, west to east, so the only
// constraints on a cell come from its south and west neighbours; its north
// and east borders are left free. The top row and east column may therefore
// point edges off the grid.
func Generate(ts *TileSet, width, height uint, porosity float64, rng Rand) (*Grid, []Diagnostic, error) {
	if ts == nil || ts.Len() == 0 {
		return nil, nil, ErrInvalidTileSet
	}
	if !validPorosity(porosity) {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPorosity, porosity)
	}

	grid, err := NewGrid(width, height)
	if err != nil {
		return nil, nil, err
	}

	table := ts.Table()
	diags := []Diagnostic{}

	for y := 0; y < grid.height; y++ {
		for x := 0; x < grid.width; x++ {
			var required, excluded EdgeMask

			if y > 0 {
				if grid.At(x, y-1).Has(North) {
					required |= South.Bit()
				} else {
					excluded |= South.Bit()
				}
			}
			if x > 0 {
				if grid.At(x-1, y).Has(East) {
					required |= West.Bit()
				} else {
					excluded |= West.Bit()
				}
			}

			candidates := table.Candidates(required, excluded)
			if len(candidates) == 0 {
				grid.cells[y*grid.width+x] = Isolated
				diags = append(diags, Diagnostic{X: x, Y: y, Required: required, Excluded: excluded})
				continue
			}

			grid.cells[y*grid.width+x] = SampleWeighted(candidates, porosity, rng)
		}
	}

	return grid, diags, nil
}
