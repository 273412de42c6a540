package wang

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	_, err := NewGrid(0, 3)
	assert.True(t, errors.Is(err, ErrInvalidSize))

	g, err := NewGrid(3, 2)
	require.NoError(t, err)
	assert.Equal(t, make([]EdgeMask, 6), g.Cells())
}

func TestNewGridFromCells(t *testing.T) {
	g, err := NewGridFromCells(2, 2, []EdgeMask{1, 2, 3, 4})
	require.NoError(t, err)

	// row major from the south west corner
	assert.Equal(t, EdgeMask(1), g.At(0, 0))
	assert.Equal(t, EdgeMask(2), g.At(1, 0))
	assert.Equal(t, EdgeMask(3), g.At(0, 1))

	_, err = NewGridFromCells(2, 2, []EdgeMask{1})
	assert.True(t, errors.Is(err, ErrInvalidSize))

	_, err = NewGridFromCells(1, 1, []EdgeMask{99})
	assert.True(t, errors.Is(err, ErrInvalidMask))
}

func TestGridBounds(t *testing.T) {
	g, err := NewGrid(3, 2)
	require.NoError(t, err)

	for _, p := range []Point{{0, 0}, {2, 1}, {1, 1}} {
		assert.True(t, g.InBounds(p.X, p.Y), "%v", p)
	}
	for _, p := range []Point{{-1, 0}, {3, 0}, {1, 2}, {2, -1}} {
		assert.False(t, g.InBounds(p.X, p.Y), "%v", p)
		assert.True(t, errors.Is(g.Set(p.X, p.Y, 1), ErrOutOfBounds))
		assert.Equal(t, Isolated, g.At(p.X, p.Y))
	}
}

func TestGridCloneEqual(t *testing.T) {
	g, err := NewGridFromCells(2, 1, []EdgeMask{2, 8})
	require.NoError(t, err)

	c := g.Clone()
	assert.True(t, g.Equal(c))

	require.NoError(t, c.Set(0, 0, 0))
	assert.False(t, g.Equal(c))
	assert.False(t, g.Equal(nil))
}

func TestGridMismatches(t *testing.T) {
	// (0,0) points east, (1,0) has no west edge
	g, err := NewGridFromCells(2, 1, []EdgeMask{2, 0})
	require.NoError(t, err)

	assert.Equal(t, []Point{{1, 0}}, g.Mismatches())

	require.NoError(t, g.Set(1, 0, 8))
	assert.Empty(t, g.Mismatches())
}

func TestGridString(t *testing.T) {
	g, err := NewGridFromCells(2, 2, []EdgeMask{6, 12, 3, 9})
	require.NoError(t, err)

	assert.Equal(t, "└┘\n┌┐\n", g.String())
}
