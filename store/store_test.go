package store

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/voidshard/wang"
)

// StoreSuite runs each test against a fresh database file.
type StoreSuite struct {
	suite.Suite
	store *Store
	tiles *wang.TileSet
}

func (s *StoreSuite) SetupTest() {
	st, err := Open(filepath.Join(s.T().TempDir(), "test.sqlite"))
	require.NoError(s.T(), err)
	s.store = st

	srcs := map[wang.EdgeMask]string{}
	for m := wang.EdgeMask(0); m < wang.NumMasks; m++ {
		srcs[m] = m.String()
	}
	s.tiles, err = wang.NewTileSetFromSources(srcs)
	require.NoError(s.T(), err)
}

func (s *StoreSuite) TearDownTest() {
	require.NoError(s.T(), s.store.Close())
}

func (s *StoreSuite) generate(w, h uint, seed int64) *wang.Grid {
	g, _, err := wang.Generate(s.tiles, w, h, 0.5, rand.New(rand.NewSource(seed)))
	require.NoError(s.T(), err)
	return g
}

// TestSaveLoad: a saved grid loads back cell for cell.
func (s *StoreSuite) TestSaveLoad() {
	g := s.generate(7, 5, 1)

	require.NoError(s.T(), s.store.Save("cave", g, 0.25))

	out, info, err := s.store.Load("cave")
	require.NoError(s.T(), err)
	require.True(s.T(), g.Equal(out), "loaded grid should match saved grid")
	require.Equal(s.T(), "cave", info.Name)
	require.Equal(s.T(), 7, info.Width)
	require.Equal(s.T(), 5, info.Height)
	require.Equal(s.T(), 0.25, info.Porosity)
}

// TestSaveReplaces: saving again under the same name drops the old cells.
func (s *StoreSuite) TestSaveReplaces() {
	require.NoError(s.T(), s.store.Save("cave", s.generate(8, 8, 1), 0.5))

	small := s.generate(2, 3, 2)
	require.NoError(s.T(), s.store.Save("cave", small, 0.5))

	out, info, err := s.store.Load("cave")
	require.NoError(s.T(), err)
	require.True(s.T(), small.Equal(out))
	require.Equal(s.T(), 2, info.Width)
}

// TestSaveLarge: grids bigger than one insert batch.
func (s *StoreSuite) TestSaveLarge() {
	g := s.generate(60, 40, 3)

	require.NoError(s.T(), s.store.Save("big", g, 0.5))

	out, _, err := s.store.Load("big")
	require.NoError(s.T(), err)
	require.True(s.T(), g.Equal(out))
}

// TestSaveCells: only the edited cells are rewritten.
func (s *StoreSuite) TestSaveCells() {
	g := s.generate(3, 3, 4)
	require.NoError(s.T(), s.store.Save("cave", g, 0.5))

	touched, _, err := wang.RegenerateArea(g, s.tiles.Table(), 1, 1, wang.Full, 0.5, rand.New(rand.NewSource(5)))
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.store.SaveCells("cave", g, touched))

	out, _, err := s.store.Load("cave")
	require.NoError(s.T(), err)
	require.True(s.T(), g.Equal(out))
	require.Equal(s.T(), wang.Full, out.At(1, 1))
}

// TestSaveCellsUnknownGrid yields ErrNotFound.
func (s *StoreSuite) TestSaveCellsUnknownGrid() {
	g := s.generate(2, 2, 1)

	err := s.store.SaveCells("nope", g, []wang.Point{{X: 0, Y: 0}})

	require.True(s.T(), errors.Is(err, ErrNotFound))
}

// TestSaveCellsOutOfBounds rejects cells off the grid.
func (s *StoreSuite) TestSaveCellsOutOfBounds() {
	g := s.generate(2, 2, 1)
	require.NoError(s.T(), s.store.Save("cave", g, 0.5))

	err := s.store.SaveCells("cave", g, []wang.Point{{X: 5, Y: 0}})

	require.True(s.T(), errors.Is(err, wang.ErrOutOfBounds))
}

// TestLoadMissing yields ErrNotFound.
func (s *StoreSuite) TestLoadMissing() {
	_, _, err := s.store.Load("nope")

	require.True(s.T(), errors.Is(err, ErrNotFound))
}

// TestListDelete: list is sorted by name & delete removes the grid.
func (s *StoreSuite) TestListDelete() {
	require.NoError(s.T(), s.store.Save("b", s.generate(2, 2, 1), 0.5))
	require.NoError(s.T(), s.store.Save("a", s.generate(3, 3, 1), 0.5))

	infos, err := s.store.List()
	require.NoError(s.T(), err)
	require.Len(s.T(), infos, 2)
	require.Equal(s.T(), "a", infos[0].Name)
	require.Equal(s.T(), "b", infos[1].Name)

	require.NoError(s.T(), s.store.Delete("a"))

	infos, err = s.store.List()
	require.NoError(s.T(), err)
	require.Len(s.T(), infos, 1)

	_, _, err = s.store.Load("a")
	require.True(s.T(), errors.Is(err, ErrNotFound))
}

// TestLoadRejectsBadMask: a stored mask outside [0,15] is an error, not a
// wrapped around tile.
func (s *StoreSuite) TestLoadRejectsBadMask() {
	require.NoError(s.T(), s.store.Save("cave", s.generate(1, 1, 1), 0.5))
	_, err := s.store.db.Exec(`UPDATE cells SET mask=258 WHERE grid=?;`, "cave")
	require.NoError(s.T(), err)

	_, _, err = s.store.Load("cave")

	require.True(s.T(), errors.Is(err, wang.ErrInvalidMask))
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}
