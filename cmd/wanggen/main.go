package main

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/voidshard/wang"
	"github.com/voidshard/wang/internal/session"
	"github.com/voidshard/wang/internal/ws"
	"github.com/voidshard/wang/store"
	"github.com/voidshard/wang/tmx"
)

const desc = `Generates grids of edge matched (wang) tiles.

Tiles are described in a yaml config by which sides (north, east, south, west) they have an edge on.
Grids are filled from the south west corner so that every tile agrees with the tiles beside it, with
'porosity' deciding between tiles with many edges (0) or few (1).`

type generateCmd struct {
	Output string `short:"o" help:"write the grid to this .tmx map"`
	Name   string `short:"n" default:"default" help:"name to save the grid under (with --db)"`

	// set properties on map
	Props map[string]string `short:"p" help:"set props on resulting map"`
}

type editCmd struct {
	Name   string `short:"n" default:"default" help:"name of the saved grid"`
	X      int    `short:"x" help:"x coord of the cell (from the west)"`
	Y      int    `short:"y" help:"y coord of the cell (from the south)"`
	Mask   int    `short:"m" default:"-1" help:"set the cell to this mask (0-15) rather than incrementing it"`
	Rotate bool   `short:"r" help:"rotate the cell clockwise rather than incrementing it"`
}

type serveCmd struct {
	Addr string `short:"a" default:"localhost:8080" help:"address to listen on"`
	Name string `short:"n" default:"default" help:"name of the grid to load or create"`
}

var cli struct {
	Config   string  `short:"c" help:"yaml config file describing the map & tiles"`
	DB       string  `help:"sqlite database to save grids in"`
	Seed     int64   `short:"s" help:"random seed (overrides config)"`
	Porosity float64 `default:"-1" help:"porosity 0-1 (overrides config)"`
	Width    uint    `help:"map width in tiles (overrides config)"`
	Height   uint    `help:"map height in tiles (overrides config)"`

	Generate generateCmd `cmd:"" help:"generate a new grid"`
	Edit     editCmd     `cmd:"" help:"edit one cell of a saved grid & regenerate around it"`
	Weights  struct{}    `cmd:"" help:"print the sampling weight of each mask"`
	Table    struct{}    `cmd:"" help:"print the compatibility table of the configured tiles"`
	Serve    serveCmd    `cmd:"" help:"serve a grid for editing over websockets"`
}

func main() {
	ctx := kong.Parse(&cli, kong.Name("wanggen"), kong.Description(desc))

	cfg := loadConfig()

	switch ctx.Command() {
	case "generate":
		generate(cfg)
	case "edit":
		edit(cfg)
	case "weights":
		fmt.Print(wang.WeightsTable(cfg.Porosity))
	case "table":
		fmt.Print(tileSet(cfg).Table().String())
	case "serve":
		serve(cfg)
	default:
		panic(ctx.Command())
	}
}

func generate(cfg *wang.Config) {
	ts := tileSet(cfg)
	gen := wang.NewGenerator(cfg, ts, wang.WithLogger(log.New(os.Stderr, "", log.LstdFlags)))
	if err := gen.Generate(); err != nil {
		panic(err)
	}

	g := gen.Grid()
	fmt.Print(g.String())

	if cli.DB != "" {
		s := openStore()
		defer s.Close()
		if err := s.Save(cli.Generate.Name, g, cfg.Porosity); err != nil {
			panic(err)
		}
		fmt.Printf("saved %s to %s\n", cli.Generate.Name, s.Filename())
	}

	if cli.Generate.Output == "" {
		return
	}

	m, err := tmx.FromGrid(g, ts, cfg.TileWidth, cfg.TileHeight)
	if err != nil {
		panic(err)
	}

	m.SetMapProperties(parseProps(cli.Generate.Props))

	err = m.WriteFile(cli.Generate.Output)
	if err != nil {
		panic(err)
	}

	fmt.Printf("wrote %s\n", cli.Generate.Output)
}

func edit(cfg *wang.Config) {
	if cli.DB == "" {
		panic("edit requires --db")
	}
	s := openStore()
	defer s.Close()

	g, info, err := s.Load(cli.Edit.Name)
	if err != nil {
		panic(err)
	}
	if cli.Porosity < 0 {
		cfg.Porosity = info.Porosity
	}

	gen := wang.NewGenerator(cfg, tileSet(cfg), wang.WithLogger(log.New(os.Stderr, "", log.LstdFlags)))
	gen.SetGrid(g)
	gen.OnUpdate(func(e wang.Event) {
		if err := s.SaveCells(cli.Edit.Name, e.Grid, e.Cells); err != nil {
			panic(err)
		}
	})

	if cli.Edit.Mask >= 0 {
		mask, merr := wang.MaskFromInt(cli.Edit.Mask)
		if merr != nil {
			panic(merr)
		}
		err = gen.Edit(cli.Edit.X, cli.Edit.Y, mask)
	} else {
		err = gen.HandleEdit(cli.Edit.X, cli.Edit.Y, cli.Edit.Rotate)
	}
	if err != nil {
		panic(err)
	}

	fmt.Print(gen.Grid().String())
}

func serve(cfg *wang.Config) {
	logger := log.New(os.Stderr, "[wanggen] ", log.LstdFlags)

	var (
		s   *store.Store
		err error
	)
	if cli.DB != "" {
		s, err = store.Open(cli.DB)
	} else {
		s, err = store.OpenTemp()
	}
	if err != nil {
		panic(err)
	}
	defer s.Close()

	gen := wang.NewGenerator(cfg, tileSet(cfg), wang.WithLogger(logger))

	output := &bytes.Buffer{}
	hub := ws.NewHub()
	sess := session.New(
		gen,
		hub,
		session.WithStore(s, cli.Serve.Name),
		session.WithCommands(gen.Commands(output), output),
		session.WithLogger(logger),
	)
	gen.OnUpdate(sess.Notify)

	g, _, err := s.Load(cli.Serve.Name)
	if errors.Is(err, store.ErrNotFound) {
		err = gen.Generate()
	} else if err == nil {
		gen.SetGrid(g)
		logger.Printf("loaded %s (%dx%d) from %s", cli.Serve.Name, g.Width(), g.Height(), s.Filename())
	}
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", ws.Handler(hub, sess.Snapshot, sess.Handle, logger))

	logger.Printf("serving %s on ws://%s/ws", cli.Serve.Name, cli.Serve.Addr)
	panic(http.ListenAndServe(cli.Serve.Addr, mux))
}

// loadConfig reads --config (if given) and applies flag overrides
func loadConfig() *wang.Config {
	cfg := wang.DefaultConfig()
	if cli.Config != "" {
		if !fileExists(cli.Config) {
			panic(fmt.Sprintf("config file not found: %s", cli.Config))
		}
		var err error
		cfg, err = wang.LoadConfig(cli.Config)
		if err != nil {
			panic(err)
		}
	}

	if cli.Seed != 0 {
		cfg.Seed = cli.Seed
	}
	if cli.Porosity >= 0 {
		cfg.Porosity = cli.Porosity
	}
	if cli.Width > 0 {
		cfg.MapWidth = cli.Width
	}
	if cli.Height > 0 {
		cfg.MapHeight = cli.Height
	}

	err := cfg.Validate()
	if err != nil {
		panic(err)
	}
	return cfg
}

func tileSet(cfg *wang.Config) *wang.TileSet {
	ts, err := cfg.TileSet()
	if err != nil {
		panic(err)
	}
	return ts
}

func openStore() *store.Store {
	s, err := store.Open(cli.DB)
	if err != nil {
		panic(err)
	}
	return s
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// parseProps reads given cli -p --props into a final *Properties
func parseProps(in map[string]string) *tmx.Properties {
	p := tmx.NewProperties()

	for k, v := range in {
		if v == "true" {
			p.SetBool(k, true)
			continue
		} else if v == "false" {
			p.SetBool(k, false)
			continue
		}

		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			p.SetInt(k, int(i))
		} else {
			p.SetString(k, v)
		}
	}

	return p
}
