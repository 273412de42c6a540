package wang

import (
	"fmt"
	"io/ioutil"
	"log"
	"math/rand"
	"time"
)

// EventKind says what caused a grid update.
type EventKind int

const (
	// Generated means the whole grid was replaced.
	Generated EventKind = iota
	// Edited means a single cell & its neighbours were rewritten.
	Edited
)

func (k EventKind) String() string {
	switch k {
	case Generated:
		return "generated"
	case Edited:
		return "edited"
	}
	return "unknown"
}

// Event is passed to update listeners each time the grid changes.
type Event struct {
	Kind EventKind
	// Cells that were written. For Generated this is nil, every cell changed.
	Cells []Point
	Grid  *Grid
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source. By default one is seeded from the config
// seed (or the clock if the seed is 0).
func WithRand(rng Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithLogger sets where diagnostics are logged. Defaults to discarding them.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// Generator owns a grid & everything needed to (re)generate it: the tile set,
// porosity and random source. It notifies listeners each time the grid changes.
//
// A Generator is not safe for concurrent use.
type Generator struct {
	cfg       *Config
	tiles     *TileSet
	rng       Rand
	log       *log.Logger
	grid      *Grid
	diags     []Diagnostic
	listeners []func(Event)
}

// NewGenerator returns a generator for the given config & tiles.
// No grid exists until Generate is called.
func NewGenerator(cfg *Config, ts *TileSet, opts ...Option) *Generator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	// own copy, SetPorosity must not reach back into the caller's config
	c := *cfg
	g := &Generator{cfg: &c, tiles: ts}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		g.rng = rand.New(rand.NewSource(seed))
	}
	if g.log == nil {
		g.log = log.New(ioutil.Discard, "", 0)
	}
	return g
}

// OnUpdate registers fn to be called after every grid change.
func (g *Generator) OnUpdate(fn func(Event)) {
	g.listeners = append(g.listeners, fn)
}

// Grid returns the current grid (or nil). Callers must not modify it.
func (g *Generator) Grid() *Grid {
	return g.grid
}

// TileSet returns the current tile set.
func (g *Generator) TileSet() *TileSet {
	return g.tiles
}

// Porosity returns the porosity used for sampling.
func (g *Generator) Porosity() float64 {
	return g.cfg.Porosity
}

// Diagnostics returns cells from the last Generate or edit that fell back
// to the Isolated tile.
func (g *Generator) Diagnostics() []Diagnostic {
	return g.diags
}

// SetTileSet swaps the tile set. The current grid is kept; call Generate to
// rebuild it from the new variants.
func (g *Generator) SetTileSet(ts *TileSet) {
	g.tiles = ts
}

// SetPorosity sets the porosity used by later generations & edits.
func (g *Generator) SetPorosity(p float64) error {
	if !validPorosity(p) {
		return fmt.Errorf("%w: %v", ErrInvalidPorosity, p)
	}
	g.cfg.Porosity = p
	return nil
}

// SetGrid replaces the grid with an existing one (eg. loaded from a store)
// without notifying listeners.
func (g *Generator) SetGrid(grid *Grid) {
	g.grid = grid
	g.diags = nil
}

// Generate replaces the grid with a freshly generated one.
func (g *Generator) Generate() error {
	grid, diags, err := Generate(g.tiles, g.cfg.MapWidth, g.cfg.MapHeight, g.cfg.Porosity, g.rng)
	if err != nil {
		return err
	}

	g.log.Printf("generated %dx%d grid (porosity %.2f)", grid.Width(), grid.Height(), g.cfg.Porosity)
	g.grid = grid
	g.record(diags)
	g.notify(Event{Kind: Generated, Grid: grid})
	return nil
}

// HandleEdit applies a click on (x,y): with the modifier held the cell is
// rotated clockwise, otherwise its mask is incremented (wrapping at 15).
// The neighbours are then regenerated around it.
func (g *Generator) HandleEdit(x, y int, modifierHeld bool) error {
	if g.grid == nil {
		return ErrNoGrid
	}
	if !g.grid.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}

	current := g.grid.At(x, y)
	next := (current + 1) & Full
	if modifierHeld {
		next = RotateClockwise(current)
	}
	return g.Edit(x, y, next)
}

// Edit sets (x,y) to `mask` and regenerates its neighbours.
func (g *Generator) Edit(x, y int, mask EdgeMask) error {
	if g.grid == nil {
		return ErrNoGrid
	}
	if g.tiles == nil {
		return ErrNoTable
	}

	touched, diags, err := RegenerateArea(g.grid, g.tiles.Table(), x, y, mask, g.cfg.Porosity, g.rng)
	if err != nil {
		return err
	}

	g.record(diags)
	g.notify(Event{Kind: Edited, Cells: touched, Grid: g.grid})
	return nil
}

// record keeps & logs diagnostics
func (g *Generator) record(diags []Diagnostic) {
	g.diags = diags
	for _, d := range diags {
		g.log.Println(d.String())
	}
}

// notify all listeners in the order they registered
func (g *Generator) notify(e Event) {
	for _, fn := range g.listeners {
		fn(e)
	}
}
