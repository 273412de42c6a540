package wang

import (
	"fmt"
	"io/ioutil"
	"math"

	"github.com/go-yaml/yaml"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/multierr"
)

// Config includes settings for generating a grid.
type Config struct {
	// in tiles
	MapWidth  uint `yaml:"map_width"`
	MapHeight uint `yaml:"map_height"`

	// in pixels, only used when exporting maps
	TileWidth  uint `yaml:"tile_width"`
	TileHeight uint `yaml:"tile_height"`

	// 0 favours tiles with many edges, 1 favours tiles with few
	Porosity float64 `yaml:"porosity"`

	// seed for the random source, 0 picks one from the clock
	Seed int64 `yaml:"seed"`

	Tiles TileSources `yaml:"tiles"`
}

// TileSources lists tile images by the sides they have edges on.
// An image listed under several sides has an edge on each of them.
type TileSources struct {
	North []string `yaml:"north"`
	East  []string `yaml:"east"`
	South []string `yaml:"south"`
	West  []string `yaml:"west"`
	Empty string   `yaml:"empty"`
}

// DefaultConfig returns a config with default settings & no tiles.
func DefaultConfig() *Config {
	return &Config{
		MapWidth:   40,
		MapHeight:  30,
		TileWidth:  32,
		TileHeight: 32,
		Porosity:   0.5,
	}
}

// LoadConfig reads a YAML config file over the defaults.
// A leading ~ in the path is expanded to the user's home dir.
func LoadConfig(fname string) (*Config, error) {
	path, err := homedir.Expand(fname)
	if err != nil {
		return nil, err
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseConfig(data)
}

// ParseConfig decodes YAML config data over the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var err error
	if c.MapWidth == 0 || c.MapHeight == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, c.MapWidth, c.MapHeight))
	}
	if math.IsNaN(c.Porosity) || !validPorosity(c.Porosity) {
		err = multierr.Append(err, fmt.Errorf("%w: got %v", ErrInvalidPorosity, c.Porosity))
	}
	if c.TileWidth == 0 || c.TileHeight == 0 {
		err = multierr.Append(err, fmt.Errorf("tile width and height must be at least 1px: got %dx%d", c.TileWidth, c.TileHeight))
	}
	return err
}

// TileSet builds the tile set described by the config.
func (c *Config) TileSet() (*TileSet, error) {
	t := c.Tiles
	ts, err := NewTileSetFromSides(t.North, t.East, t.South, t.West, t.Empty)
	if err != nil {
		return nil, err
	}
	if ts.Len() == 0 {
		return nil, ErrInvalidTileSet
	}
	return ts, nil
}
