package wang

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEdgeConsistent(t *testing.T) {
	ts := allTiles(t)
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 30; i++ {
		w, h := uint(1+rng.Intn(12)), uint(1+rng.Intn(12))

		g, diags, err := Generate(ts, w, h, rng.Float64(), rng)
		require.NoError(t, err)
		require.Equal(t, int(w), g.Width())
		require.Equal(t, int(h), g.Height())
		assert.Empty(t, diags)

		for y := 0; y < g.Height(); y++ {
			for x := 0; x < g.Width(); x++ {
				m := g.At(x, y)
				if x > 0 {
					assert.Equal(t, g.At(x-1, y).Has(East), m.Has(West), "west border of (%d,%d)", x, y)
				}
				if y > 0 {
					assert.Equal(t, g.At(x, y-1).Has(North), m.Has(South), "south border of (%d,%d)", x, y)
				}
			}
		}
	}
}

func TestGenerateSparseTileSets(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	for i := 0; i < 30; i++ {
		ts := randomTiles(t, rng)
		if ts.Len() == 0 {
			continue
		}

		g, diags, err := Generate(ts, 8, 8, rng.Float64(), rng)
		require.NoError(t, err)

		fallbacks := map[Point]bool{}
		for _, d := range diags {
			fallbacks[Point{d.X, d.Y}] = true
			assert.Equal(t, Isolated, g.At(d.X, d.Y))
		}
		// only a fallback cell can disagree with its placed neighbours
		for _, p := range g.Mismatches() {
			assert.True(t, fallbacks[p], "mismatch at %v without a diagnostic", p)
		}
		for _, c := range g.Cells() {
			assert.True(t, c == Isolated || ts.Has(c), "mask %d has no variant", c)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	ts := allTiles(t)

	a, _, err := Generate(ts, 20, 15, 0.3, rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	b, _, err := Generate(ts, 20, 15, 0.3, rand.New(rand.NewSource(99)))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
}

func TestGenerateFullSetNoDiagnostics(t *testing.T) {
	g, diags, err := Generate(allTiles(t), 2, 2, 0.5, rand.New(rand.NewSource(1)))

	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Empty(t, g.Mismatches())
}

func TestGenerateFallsBackToIsolated(t *testing.T) {
	// only an east facing tile: the cell east of it needs a west edge
	// which nothing has.
	ts, err := NewTileSetFromSources(map[EdgeMask]string{East.Bit(): "e.png"})
	require.NoError(t, err)

	g, diags, err := Generate(ts, 2, 1, 0.5, rand.New(rand.NewSource(1)))

	require.NoError(t, err)
	assert.Equal(t, East.Bit(), g.At(0, 0))
	assert.Equal(t, Isolated, g.At(1, 0))
	require.Len(t, diags, 1)
	assert.Equal(t, Diagnostic{X: 1, Y: 0, Required: West.Bit(), Excluded: 0}, diags[0])
}

func TestGeneratePorosityBias(t *testing.T) {
	ts := allTiles(t)

	edges := func(p float64) int {
		g, _, err := Generate(ts, 30, 30, p, rand.New(rand.NewSource(5)))
		require.NoError(t, err)
		n := 0
		for _, c := range g.Cells() {
			n += CountEdges(c)
		}
		return n
	}

	assert.Greater(t, edges(0), edges(1))
}

func TestGenerateErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ts := allTiles(t)

	_, _, err := Generate(nil, 2, 2, 0.5, rng)
	assert.True(t, errors.Is(err, ErrInvalidTileSet))

	_, _, err = Generate(NewTileSet(), 2, 2, 0.5, rng)
	assert.True(t, errors.Is(err, ErrInvalidTileSet))

	_, _, err = Generate(ts, 0, 2, 0.5, rng)
	assert.True(t, errors.Is(err, ErrInvalidSize))

	_, _, err = Generate(ts, 2, 2, 1.5, rng)
	assert.True(t, errors.Is(err, ErrInvalidPorosity))

	_, _, err = Generate(ts, 2, 2, math.NaN(), rng)
	assert.True(t, errors.Is(err, ErrInvalidPorosity))
}
