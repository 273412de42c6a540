/* this file is a simplified set of structs for reading & writing TMX files.

We only need a small slice of TMX to hand a generated grid to Tiled (or any
other TMX reader), so we only parse / write those things.
- a single tileset, one <tile> per image source
- a single tile layer
- CSV tile data, no compression
- the 'orthogonal' orientation
*/
package tmx

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

const (
	orientation = "orthogonal"
	encodingCSV = "csv"
	layerName   = "wang"
	tilesetName = "wang"
	firstGID    = 1
)

// Map is a TMX file structure representing the map as a whole.
type Map struct {
	XMLName        xml.Name     `xml:"map"`
	Orientation    string       `xml:"orientation,attr"`
	Width          int          `xml:"width,attr"`      // in tiles
	Height         int          `xml:"height,attr"`     // in tiles
	TileWidth      int          `xml:"tilewidth,attr"`  // in pixels
	TileHeight     int          `xml:"tileheight,attr"` // in pixels
	RootProperties []*Property  `xml:"properties>property"`
	Tilesets       []*Tileset   `xml:"tileset"`
	TileLayers     []*TileLayer `xml:"layer"`
	nextID         uint
}

// Tileset is a TMX file structure which represents a Tiled Tileset
type Tileset struct {
	FirstGID   uint    `xml:"firstgid,attr"`
	Name       string  `xml:"name,attr"`
	TileWidth  int     `xml:"tilewidth,attr"`
	TileHeight int     `xml:"tileheight,attr"`
	TileCount  int     `xml:"tilecount,attr"`
	Tiles      []*Tile `xml:"tile"`
	tileByID   map[uint]*Tile
	tileBySrc  map[string]*Tile
}

// Property is a TMX file structure which holds a Tiled property.
type Property struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	Type  string `xml:"type,attr"`
}

// Image is an image file in TMX
type Image struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

// Tile is a TMX tile (from a tileset). IDs are local to the tileset.
type Tile struct {
	ID         uint        `xml:"id,attr"`
	Image      *Image      `xml:"image"`
	Properties []*Property `xml:"properties>property"`
}

// TileLayer is a TMX tile layer. Tiles are stored top row first.
type TileLayer struct {
	ID     uint   `xml:"id,attr"`
	Name   string `xml:"name,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Data   Data   `xml:"data"`
	// global tile ids, 0 is the nil tile
	gids []uint
}

// Data is a TMX file structure holding layer data.
type Data struct {
	Encoding    string `xml:"encoding,attr"`
	Compression string `xml:"compression,attr,omitempty"`
	RawData     []byte `xml:",innerxml"`
}

// newTileset makes a new tileset starting at `first`
func newTileset(name string, first uint, tw, th int) *Tileset {
	return &Tileset{
		FirstGID:   first,
		Name:       name,
		TileWidth:  tw,
		TileHeight: th,
		Tiles:      []*Tile{},
		tileByID:   map[uint]*Tile{},
		tileBySrc:  map[string]*Tile{},
	}
}

// index rebuilds the lookup maps from Tiles
func (ts *Tileset) index() {
	ts.tileByID = map[uint]*Tile{}
	ts.tileBySrc = map[string]*Tile{}
	for _, t := range ts.Tiles {
		ts.tileByID[t.ID] = t
		if t.Image != nil {
			ts.tileBySrc[t.Image.Source] = t
		}
	}
	ts.TileCount = len(ts.Tiles)
}

// encodeCSV writes gids as rows of comma separated values
func encodeCSV(width, height int, gids []uint) ([]byte, error) {
	if len(gids) != width*height {
		return nil, fmt.Errorf("layer has %d tiles, expected %dx%d", len(gids), width, height)
	}

	rows := make([]string, height)
	for row := 0; row < height; row++ {
		csvrow := make([]string, width)
		for col := 0; col < width; col++ {
			csvrow[col] = strconv.FormatUint(uint64(gids[row*width+col]), 10)
		}
		rows[row] = strings.Join(csvrow, ",")
	}

	return []byte("\n" + strings.Join(rows, ",\n") + "\n"), nil
}

// decodeCSV reads csv encoded gids, ignoring whitespace
func decodeCSV(raw []byte) ([]uint, error) {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' {
			return r
		}
		return -1
	}, string(raw))
	if clean == "" {
		return []uint{}, nil
	}

	fields := strings.Split(clean, ",")
	gids := make([]uint, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, err
		}
		gids[i] = uint(v)
	}
	return gids, nil
}
