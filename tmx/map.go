/* file adds helper functions to our tmx map struct.
 */
package tmx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/mitchellh/go-homedir"
)

// New returns an empty map of width x height tiles, each tw x th pixels.
func New(width, height, tw, th uint) *Map {
	m := &Map{
		Orientation:    orientation,
		Width:          int(width),
		Height:         int(height),
		TileWidth:      int(tw),
		TileHeight:     int(th),
		RootProperties: []*Property{},
		Tilesets:       []*Tileset{newTileset(tilesetName, firstGID, int(tw), int(th))},
		nextID:         0,
	}
	m.TileLayers = []*TileLayer{{
		ID:     1,
		Name:   layerName,
		Width:  m.Width,
		Height: m.Height,
		Data:   Data{Encoding: encodingCSV},
		gids:   make([]uint, m.Width*m.Height),
	}}
	return m
}

// MapProperties returns properties set on the map itself
func (m *Map) MapProperties() *Properties {
	return newPropertiesFromList(m.RootProperties)
}

// SetMapProperties sets properties on the map
func (m *Map) SetMapProperties(in *Properties) {
	m.RootProperties = in.toList()
}

// At returns the image source at (x,y) or "" for the nil tile.
// (0,0) is the top left tile.
func (m *Map) At(x, y int) string {
	index, ok := m.index(x, y)
	if !ok {
		return ""
	}

	gid := m.layer().gids[index]
	if gid == 0 {
		return ""
	}

	ts := m.Tilesets[0]
	t, ok := ts.tileByID[gid-ts.FirstGID]
	if !ok || t.Image == nil {
		return ""
	}
	return t.Image.Source
}

// Set the tile at (x,y) to the given image source, registering the source
// in the tileset if needed. "" sets the nil tile.
func (m *Map) Set(x, y int, source string) error {
	index, ok := m.index(x, y)
	if !ok {
		return fmt.Errorf("(%d,%d) is out of bounds for a %dx%d map", x, y, m.Width, m.Height)
	}

	l := m.layer()
	if source == "" {
		l.gids[index] = 0
		return nil
	}

	ts := m.Tilesets[0]
	t, ok := ts.tileBySrc[source]
	if !ok {
		t = m.newTile(source)
	}
	l.gids[index] = t.ID + ts.FirstGID
	return nil
}

// Properties returns the properties of the tile with the given source,
// or nil if no such tile exists.
func (m *Map) Properties(source string) *Properties {
	t, ok := m.Tilesets[0].tileBySrc[source]
	if !ok {
		return nil
	}
	return newPropertiesFromList(t.Properties)
}

// SetProperties sets properties on the tile with the given source,
// registering the source if needed.
func (m *Map) SetProperties(source string, in *Properties) {
	if source == "" {
		// cannot set properties on the nil tile
		return
	}
	t, ok := m.Tilesets[0].tileBySrc[source]
	if !ok {
		t = m.newTile(source)
	}
	t.Properties = in.toList()
}

// Sources returns every image source in the tileset, in ID order.
func (m *Map) Sources() []string {
	out := []string{}
	for _, t := range m.Tilesets[0].Tiles {
		if t.Image != nil {
			out = append(out, t.Image.Source)
		}
	}
	return out
}

// Encode the map as XML to w
func (m *Map) Encode(w io.Writer) error {
	for _, ts := range m.Tilesets {
		ts.index()
	}
	for _, l := range m.TileLayers {
		data, err := encodeCSV(m.Width, m.Height, l.gids)
		if err != nil {
			return err
		}
		l.Data.Encoding = encodingCSV
		l.Data.RawData = data
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	return enc.Encode(m)
}

// Decode a TMX map from r
func Decode(r io.Reader) (*Map, error) {
	m := &Map{}
	if err := xml.NewDecoder(r).Decode(m); err != nil {
		return nil, err
	}

	if len(m.Tilesets) != 1 {
		return nil, fmt.Errorf("expected exactly one tileset, got %d", len(m.Tilesets))
	}
	if len(m.TileLayers) != 1 {
		return nil, fmt.Errorf("expected exactly one tile layer, got %d", len(m.TileLayers))
	}

	ts := m.Tilesets[0]
	ts.index()
	for _, t := range ts.Tiles {
		if t.ID >= m.nextID {
			m.nextID = t.ID + 1
		}
	}

	l := m.TileLayers[0]
	if l.Data.Encoding != encodingCSV || l.Data.Compression != "" {
		return nil, fmt.Errorf("unsupported layer encoding %q (compression %q)", l.Data.Encoding, l.Data.Compression)
	}
	gids, err := decodeCSV(l.Data.RawData)
	if err != nil {
		return nil, err
	}
	if len(gids) != m.Width*m.Height {
		return nil, fmt.Errorf("layer has %d tiles, expected %dx%d", len(gids), m.Width, m.Height)
	}
	l.gids = gids

	return m, nil
}

// Open reads a .tmx file. A leading ~ is expanded to the home dir.
func Open(fname string) (*Map, error) {
	path, err := homedir.Expand(fname)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile encodes the map to the given file, overwriting it.
func (m *Map) WriteFile(fname string) error {
	path, err := homedir.Expand(fname)
	if err != nil {
		return err
	}
	buff := bytes.Buffer{}
	if err := m.Encode(&buff); err != nil {
		return err
	}
	return ioutil.WriteFile(path, buff.Bytes(), 0644)
}

// index returns the layer index of (x,y)
func (m *Map) index(x, y int) (int, bool) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return 0, false
	}
	return y*m.Width + x, true
}

// layer returns our single tile layer
func (m *Map) layer() *TileLayer {
	return m.TileLayers[0]
}

// newTile registers a new tile by it's image source
func (m *Map) newTile(source string) *Tile {
	ts := m.Tilesets[0]
	t := &Tile{
		ID:         m.nextID,
		Image:      &Image{Source: source, Width: m.TileWidth, Height: m.TileHeight},
		Properties: []*Property{},
	}
	ts.Tiles = append(ts.Tiles, t)
	ts.tileByID[t.ID] = t
	ts.tileBySrc[source] = t
	ts.TileCount = len(ts.Tiles)
	m.nextID++
	return t
}
