package tmx

import (
	"bytes"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/wang"
)

const csvdata = `<?xml version="1.0" encoding="UTF-8"?>
<map orientation="orthogonal" width="3" height="2" tilewidth="16" tileheight="16">
 <tileset firstgid="1" name="wang" tilewidth="16" tileheight="16" tilecount="2">
  <tile id="0">
   <image source="ew.png" width="16" height="16"/>
   <properties>
    <property name="mask" value="10" type="int"/>
   </properties>
  </tile>
  <tile id="1">
   <image source="ns.png" width="16" height="16"/>
   <properties>
    <property name="mask" value="5" type="int"/>
   </properties>
  </tile>
 </tileset>
 <layer id="1" name="wang" width="3" height="2">
  <data encoding="csv">
1,1,0,
0,2,2
</data>
 </layer>
</map>`

func fullTileSet(t *testing.T) *wang.TileSet {
	srcs := map[wang.EdgeMask]string{}
	for m := wang.EdgeMask(0); m < wang.NumMasks; m++ {
		srcs[m] = "tile." + m.String() + ".png"
	}
	ts, err := wang.NewTileSetFromSources(srcs)
	require.NoError(t, err)
	return ts
}

func TestDecode(t *testing.T) {
	m, err := Decode(bytes.NewBufferString(csvdata))

	require.NoError(t, err)
	assert.Equal(t, 3, m.Width)
	assert.Equal(t, 2, m.Height)
	assert.Equal(t, 16, m.TileWidth)
	assert.Equal(t, []string{"ew.png", "ns.png"}, m.Sources())
	assert.Equal(t, "ew.png", m.At(0, 0))
	assert.Equal(t, "", m.At(2, 0))
	assert.Equal(t, "ns.png", m.At(2, 1))
	assert.Equal(t, "", m.At(5, 5))

	mask, ok := m.Properties("ns.png").Int(PropMask)
	assert.True(t, ok)
	assert.Equal(t, 5, mask)
}

func TestDecodeRejectsShortLayer(t *testing.T) {
	bad := bytes.Replace([]byte(csvdata), []byte("0,2,2"), []byte("0,2"), 1)

	_, err := Decode(bytes.NewBuffer(bad))

	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	m := New(2, 2, 32, 32)
	require.NoError(t, m.Set(0, 0, "a.png"))
	require.NoError(t, m.Set(1, 1, "b.png"))
	props := NewProperties()
	props.SetString("biome", "cave")
	m.SetMapProperties(props)

	buf := bytes.Buffer{}
	require.NoError(t, m.Encode(&buf))

	out, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "a.png", out.At(0, 0))
	assert.Equal(t, "", out.At(1, 0))
	assert.Equal(t, "b.png", out.At(1, 1))
	biome, _ := out.MapProperties().String("biome")
	assert.Equal(t, "cave", biome)
}

func TestSetOutOfBounds(t *testing.T) {
	m := New(2, 2, 32, 32)

	assert.Error(t, m.Set(2, 0, "a.png"))
	assert.Error(t, m.Set(0, -1, "a.png"))
}

func TestFromGridRoundTrip(t *testing.T) {
	ts := fullTileSet(t)
	g, _, err := wang.Generate(ts, 6, 4, 0.5, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	m, err := FromGrid(g, ts, 32, 32)
	require.NoError(t, err)

	// north row of the grid is the top row of the map
	assert.Equal(t, ts.Source(g.At(0, 3)), m.At(0, 0))
	assert.Equal(t, ts.Source(g.At(5, 0)), m.At(5, 3))

	north, ok := m.Properties(ts.Source(wang.Full)).Bool("north")
	assert.True(t, ok)
	assert.True(t, north)

	fname := filepath.Join(t.TempDir(), "grid.tmx")
	require.NoError(t, m.WriteFile(fname))

	in, err := Open(fname)
	require.NoError(t, err)

	out, err := ToGrid(in)
	require.NoError(t, err)
	assert.True(t, g.Equal(out))
}

func TestFromGridMissingVariant(t *testing.T) {
	ts, err := wang.NewTileSetFromSources(map[wang.EdgeMask]string{5: "ns.png"})
	require.NoError(t, err)
	g, err := wang.NewGridFromCells(2, 1, []wang.EdgeMask{5, 0})
	require.NoError(t, err)

	m, err := FromGrid(g, ts, 16, 16)
	require.NoError(t, err)

	assert.Equal(t, "ns.png", m.At(0, 0))
	assert.Equal(t, "", m.At(1, 0))

	out, err := ToGrid(m)
	require.NoError(t, err)
	assert.True(t, g.Equal(out))
}

func TestToGridMissingMask(t *testing.T) {
	m := New(1, 1, 16, 16)
	require.NoError(t, m.Set(0, 0, "plain.png"))

	_, err := ToGrid(m)

	assert.Error(t, err)
}

func TestToGridMaskOutOfRange(t *testing.T) {
	m := New(1, 1, 16, 16)
	require.NoError(t, m.Set(0, 0, "odd.png"))
	props := NewProperties()
	props.SetInt(PropMask, 257)
	m.SetProperties("odd.png", props)

	_, err := ToGrid(m)

	assert.True(t, errors.Is(err, wang.ErrInvalidMask))
}
