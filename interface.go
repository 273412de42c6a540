package wang

// Editor represents something holding a grid that can be regenerated and
// edited cell by cell.
type Editor interface {
	// Generate replaces the whole grid
	Generate() error

	// HandleEdit applies a click on x,y (rotating if modifierHeld)
	// and regenerates the neighbours
	HandleEdit(x, y int, modifierHeld bool) error

	// Edit sets x,y to mask and regenerates the neighbours
	Edit(x, y int, mask EdgeMask) error

	// Porosity used for generations & edits
	Porosity() float64

	// SetPorosity for later generations & edits
	SetPorosity(p float64) error

	// Grid returns the current grid, or nil if none has been generated
	Grid() *Grid
}

var _ Editor = (*Generator)(nil)
