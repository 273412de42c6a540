package wang

import (
	"fmt"
	"io"
	"sort"
)

const (
	CmdGenerate     = "generate"
	CmdPrintWeights = "print-weights"
	CmdPrintTable   = "print-table"
	CmdPrintGrid    = "print-grid"
)

// Commands maps names to callbacks, so tools can expose generator actions
// (buttons, websocket messages, cli) without knowing about them.
type Commands struct {
	fns map[string]func() error
}

// NewCommands returns an empty registry.
func NewCommands() *Commands {
	return &Commands{fns: map[string]func() error{}}
}

// Register a callback under `name`.
func (c *Commands) Register(name string, fn func() error) error {
	if _, ok := c.fns[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	c.fns[name] = fn
	return nil
}

// Run the callback registered under `name`.
func (c *Commands) Run(name string) error {
	fn, ok := c.fns[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return fn()
}

// Names returns all registered names, sorted.
func (c *Commands) Names() []string {
	names := make([]string, 0, len(c.fns))
	for name := range c.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commands returns a registry of the generator's actions. Anything printed
// is written to `w`.
func (g *Generator) Commands(w io.Writer) *Commands {
	c := NewCommands()

	// names are distinct so Register can't fail here
	c.Register(CmdGenerate, g.Generate)
	c.Register(CmdPrintWeights, func() error {
		_, err := io.WriteString(w, WeightsTable(g.cfg.Porosity))
		return err
	})
	c.Register(CmdPrintTable, func() error {
		if g.tiles == nil {
			return ErrNoTable
		}
		_, err := io.WriteString(w, g.tiles.Table().String())
		return err
	})
	c.Register(CmdPrintGrid, func() error {
		if g.grid == nil {
			return ErrNoGrid
		}
		_, err := io.WriteString(w, g.grid.String())
		return err
	})

	return c
}
