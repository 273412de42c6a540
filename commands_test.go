package wang

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistry(t *testing.T) {
	c := NewCommands()
	ran := 0

	require.NoError(t, c.Register("b", func() error { ran++; return nil }))
	require.NoError(t, c.Register("a", func() error { return errors.New("boom") }))

	assert.True(t, errors.Is(c.Register("a", nil), ErrDuplicateCommand))
	assert.Equal(t, []string{"a", "b"}, c.Names())

	assert.NoError(t, c.Run("b"))
	assert.Equal(t, 1, ran)
	assert.EqualError(t, c.Run("a"), "boom")
	assert.True(t, errors.Is(c.Run("zzz"), ErrUnknownCommand))
}

func TestGeneratorCommands(t *testing.T) {
	buf := &bytes.Buffer{}
	g := newTestGenerator(t, allTiles(t), 3, 2)
	c := g.Commands(buf)

	assert.Equal(t, []string{CmdGenerate, CmdPrintGrid, CmdPrintTable, CmdPrintWeights}, c.Names())
	assert.True(t, errors.Is(c.Run(CmdPrintGrid), ErrNoGrid))

	require.NoError(t, c.Run(CmdGenerate))
	require.NotNil(t, g.Grid())

	require.NoError(t, c.Run(CmdPrintGrid))
	assert.Equal(t, g.Grid().String(), buf.String())

	buf.Reset()
	require.NoError(t, c.Run(CmdPrintWeights))
	assert.Equal(t, WeightsTable(g.Porosity()), buf.String())

	buf.Reset()
	require.NoError(t, c.Run(CmdPrintTable))
	assert.Equal(t, g.TileSet().Table().String(), buf.String())
}
