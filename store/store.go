package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/multierr"

	"github.com/voidshard/wang"
)

const (
	sqlUpsertGrid = `INSERT INTO grids (name, width, height, porosity, updated) VALUES (:name, :width, :height, :porosity, :updated)
		ON CONFLICT (name) DO UPDATE SET width=EXCLUDED.width, height=EXCLUDED.height, porosity=EXCLUDED.porosity, updated=EXCLUDED.updated;`
	sqlTouchGrid  = `UPDATE grids SET updated=:updated WHERE name=:name;`
	sqlUpsertCell = `INSERT INTO cells (id, grid, x, y, mask) VALUES (:id, :grid, :x, :y, :mask) ON CONFLICT (id) DO UPDATE SET mask=EXCLUDED.mask;`

	// rows per batched insert, keeps us well under sqlite's bound parameter limit
	batchSize = 1000
)

var (
	// ErrNotFound indicates no grid is stored under the given name.
	ErrNotFound = errors.New("store: grid not found")
)

// namedExec allows us to use either a transaction.NamedExec or DB.NamedExec
// in our sub functions.
type namedExec func(string, interface{}) (sql.Result, error)

// Info describes a stored grid.
type Info struct {
	Name     string
	Width    int
	Height   int
	Porosity float64
	Updated  time.Time
}

// Store keeps generated grids (and later edits to them) in a sqlite database
// so sessions can pick up where they left off.
type Store struct {
	filename string
	db       *sqlx.DB
}

// OpenTemp creates a store with a random name in the os tempdir.
func OpenTemp() (*Store, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	fname := filepath.Join(os.TempDir(), fmt.Sprintf("wang.%d.sqlite", rng.Intn(1000000)))
	return Open(fname)
}

// Open the store at the given database file, creating it if it doesn't exist.
// A leading ~ is expanded to the home dir.
func Open(fname string) (*Store, error) {
	path, err := homedir.Expand(fname)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, filename: path}
	if err := s.init(); err != nil {
		return nil, multierr.Append(err, db.Close())
	}
	return s, nil
}

// Filename returns the path to the database on disk
func (s *Store) Filename() string {
	return s.filename
}

// Close the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save the whole grid under `name`, replacing anything stored there.
func (s *Store) Save(name string, g *wang.Grid, porosity float64) error {
	if g == nil {
		return wang.ErrNoGrid
	}

	txn, err := s.db.Beginx()
	if err != nil {
		return err
	}

	_, err = txn.NamedExec(sqlUpsertGrid, dbGrid{
		Name:     name,
		Width:    g.Width(),
		Height:   g.Height(),
		Porosity: porosity,
		Updated:  time.Now().UnixNano(),
	})
	if err != nil {
		return multierr.Append(err, txn.Rollback())
	}

	_, err = txn.Exec(`DELETE FROM cells WHERE grid=?;`, name)
	if err != nil {
		return multierr.Append(err, txn.Rollback())
	}

	all := make([]wang.Point, 0, g.Width()*g.Height())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			all = append(all, wang.Point{X: x, Y: y})
		}
	}

	err = writeCells(txn.NamedExec, name, g, all)
	if err != nil {
		return multierr.Append(err, txn.Rollback())
	}

	return txn.Commit()
}

// SaveCells writes only the given cells of an already saved grid, eg. those
// touched by an edit.
func (s *Store) SaveCells(name string, g *wang.Grid, cells []wang.Point) error {
	if g == nil {
		return wang.ErrNoGrid
	}

	txn, err := s.db.Beginx()
	if err != nil {
		return err
	}

	res, err := txn.NamedExec(sqlTouchGrid, dbGrid{Name: name, Updated: time.Now().UnixNano()})
	if err != nil {
		return multierr.Append(err, txn.Rollback())
	}
	n, err := res.RowsAffected()
	if err != nil {
		return multierr.Append(err, txn.Rollback())
	}
	if n == 0 {
		return multierr.Append(fmt.Errorf("%w: %s", ErrNotFound, name), txn.Rollback())
	}

	err = writeCells(txn.NamedExec, name, g, cells)
	if err != nil {
		return multierr.Append(err, txn.Rollback())
	}

	return txn.Commit()
}

// Load the grid stored under `name`.
func (s *Store) Load(name string) (*wang.Grid, *Info, error) {
	info, err := s.info(name)
	if err != nil {
		return nil, nil, err
	}

	g, err := wang.NewGrid(uint(info.Width), uint(info.Height))
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.Queryx(`SELECT id, grid, x, y, mask FROM cells WHERE grid=?;`, name)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	c := dbCell{}
	for rows.Next() {
		if err := rows.StructScan(&c); err != nil {
			return nil, nil, err
		}
		mask, err := wang.MaskFromInt(c.Mask)
		if err != nil {
			return nil, nil, fmt.Errorf("cell %s: %w", c.ID, err)
		}
		if err := g.Set(c.X, c.Y, mask); err != nil {
			return nil, nil, fmt.Errorf("cell %s: %w", c.ID, err)
		}
	}

	return g, info, rows.Err()
}

// List returns info on all stored grids, by name.
func (s *Store) List() ([]*Info, error) {
	rows, err := s.db.Queryx(`SELECT name, width, height, porosity, updated FROM grids ORDER BY name;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*Info{}
	for rows.Next() {
		r := dbGrid{}
		if err := rows.StructScan(&r); err != nil {
			return nil, err
		}
		result = append(result, r.info())
	}
	return result, rows.Err()
}

// Delete the grid stored under `name` (if any).
func (s *Store) Delete(name string) error {
	txn, err := s.db.Beginx()
	if err != nil {
		return err
	}
	if _, err := txn.Exec(`DELETE FROM cells WHERE grid=?;`, name); err != nil {
		return multierr.Append(err, txn.Rollback())
	}
	if _, err := txn.Exec(`DELETE FROM grids WHERE name=?;`, name); err != nil {
		return multierr.Append(err, txn.Rollback())
	}
	return txn.Commit()
}

// info reads a single grids row
func (s *Store) info(name string) (*Info, error) {
	r := dbGrid{}
	err := s.db.Get(&r, `SELECT name, width, height, porosity, updated FROM grids WHERE name=? LIMIT 1;`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	} else if err != nil {
		return nil, err
	}
	return r.info(), nil
}

// writeCells upserts the given cells in batches
func writeCells(do namedExec, name string, g *wang.Grid, cells []wang.Point) error {
	batch := make([]dbCell, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := do(sqlUpsertCell, batch)
		batch = batch[:0]
		return err
	}

	for _, p := range cells {
		if !g.InBounds(p.X, p.Y) {
			return fmt.Errorf("%w: (%d,%d)", wang.ErrOutOfBounds, p.X, p.Y)
		}
		batch = append(batch, newDBCell(name, p.X, p.Y, g.At(p.X, p.Y)))
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// init creates our tables if they don't exist
func (s *Store) init() error {
	createGrids := `CREATE TABLE IF NOT EXISTS grids(
		name TEXT PRIMARY KEY,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		porosity REAL NOT NULL,
		updated INTEGER NOT NULL
	    );`
	_, err := s.db.Exec(createGrids)
	if err != nil {
		return err
	}

	createCells := `CREATE TABLE IF NOT EXISTS cells(
		id TEXT PRIMARY KEY,
		grid TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		mask INTEGER NOT NULL
	    );`
	_, err = s.db.Exec(createCells)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS cells_by_grid ON cells (grid);`)
	return err
}

// dbGrid is a single row of the grids table
type dbGrid struct {
	Name     string  `db:"name"`
	Width    int     `db:"width"`
	Height   int     `db:"height"`
	Porosity float64 `db:"porosity"`
	Updated  int64   `db:"updated"`
}

func (r dbGrid) info() *Info {
	return &Info{
		Name:     r.Name,
		Width:    r.Width,
		Height:   r.Height,
		Porosity: r.Porosity,
		Updated:  time.Unix(0, r.Updated),
	}
}

// dbCell encodes a single cell.
// The ID lets us upsert on a unique (grid,x,y) with a more straight forward query.
type dbCell struct {
	ID   string `db:"id"`
	Grid string `db:"grid"`
	X    int    `db:"x"`
	Y    int    `db:"y"`
	Mask int    `db:"mask"`
}

// newDBCell crafts a dbCell given it's inputs
func newDBCell(grid string, x, y int, mask wang.EdgeMask) dbCell {
	return dbCell{ID: fmt.Sprintf("%s-%d-%d", grid, x, y), Grid: grid, X: x, Y: y, Mask: int(mask)}
}
