package geomg

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/terrageo/geomg/internal/raster"
)

func makeRaster(t *testing.T, w, h int, fill func(x, y int) byte) *raster.Raster {
	t.Helper()
	data := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			data[y*w+x] = fill(x, y)
		}
	}
	return &raster.Raster{
		Width:        w,
		Height:       h,
		Type:         raster.U8,
		Data:         data,
		Geotransform: [6]float64{0, 1, 0, 0, 0, -1},
		Projection:   "+proj=longlat +datum=WGS84",
	}
}

func TestWriteContainerRoundTrip(t *testing.T) {
	r := makeRaster(t, 10, 7, func(x, y int) byte { return byte((x*31 + y*7) % 251) })

	var buf bytes.Buffer
	err := WriteContainer(&buf, 4, 10, 7, r.Projection, r.Geotransform, []LayerSpec{
		{Type: LayerHeightmap, Raster: r, Metadata: ""},
	})
	require.NoError(t, err)

	c, err := Open(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 4, c.Frag)
	require.Equal(t, 12, c.X) // ceil(10/4)*4, per §4.2 padding
	require.Equal(t, 8, c.Y) // ceil(7/4)*4
	require.Equal(t, r.Projection, c.Projection)
	require.Equal(t, r.Geotransform, c.Geotransform)
	require.Len(t, c.Layers, 1)

	layer := c.Layers[0]
	require.Equal(t, LayerHeightmap, layer.Type)
	require.Equal(t, raster.U8, layer.ElementType)

	tilesX, tilesY := layer.TileGrid()
	require.Equal(t, 3, tilesX) // ceil(10/4)
	require.Equal(t, 2, tilesY) // ceil(7/4)

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			tile, err := layer.Tile(tx, ty)
			require.NoError(t, err)
			require.Len(t, tile, 4*4)
			for row := 0; row < 4; row++ {
				for col := 0; col < 4; col++ {
					sx, sy := tx*4+col, ty*4+row
					got := tile[row*4+col]
					if sx < r.Width && sy < r.Height {
						require.Equal(t, r.Data[sy*r.Width+sx], got, "tile (%d,%d) cell (%d,%d)", tx, ty, col, row)
					} else {
						require.Equal(t, byte(0), got, "edge padding must be zero at tile (%d,%d) cell (%d,%d)", tx, ty, col, row)
					}
				}
			}
		}
	}
}

func TestWriteContainerExactMultipleNoPadding(t *testing.T) {
	r := makeRaster(t, 8, 8, func(x, y int) byte { return byte(x + y) })

	var buf bytes.Buffer
	require.NoError(t, WriteContainer(&buf, 4, 8, 8, "", [6]float64{}, []LayerSpec{
		{Type: LayerHeightmap, Raster: r},
	}))

	c, err := Open(buf.Bytes())
	require.NoError(t, err)
	tilesX, tilesY := c.Layers[0].TileGrid()
	require.Equal(t, 2, tilesX)
	require.Equal(t, 2, tilesY)
}

func TestWriteContainerRejectsUnalignedLayer(t *testing.T) {
	r := makeRaster(t, 5, 5, func(x, y int) byte { return 0 })
	var buf bytes.Buffer
	err := WriteContainer(&buf, 4, 10, 10, "", [6]float64{}, []LayerSpec{
		{Type: LayerHeightmap, Raster: r},
	})
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, UnalignedLayer, gerr.Kind)
}

func TestWriteContainerRejectsTooManyLayers(t *testing.T) {
	r := makeRaster(t, 4, 4, func(x, y int) byte { return 0 })
	specs := make([]LayerSpec, MaxLayers+1)
	for i := range specs {
		specs[i] = LayerSpec{Type: LayerHeightmap, Raster: r}
	}
	var buf bytes.Buffer
	err := WriteContainer(&buf, 4, 4, 4, "", [6]float64{}, specs)
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, TooManyLayers, gerr.Kind)
}

func TestWriteContainerRejectsNoLayers(t *testing.T) {
	var buf bytes.Buffer
	err := WriteContainer(&buf, 4, 4, 4, "", [6]float64{}, nil)
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, InvalidInput, gerr.Kind)
}

func TestMultiLayerMetadataPreserved(t *testing.T) {
	elev := makeRaster(t, 6, 6, func(x, y int) byte { return byte(x) })
	cover := makeRaster(t, 6, 6, func(x, y int) byte { return byte(y) })

	var buf bytes.Buffer
	err := WriteContainer(&buf, 3, 6, 6, "", [6]float64{}, []LayerSpec{
		{Type: LayerHeightmap, Raster: elev},
		{Type: LayerLandCover, Raster: cover, Metadata: "0:water,1:forest"},
	})
	require.NoError(t, err)

	c, err := Open(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, c.Layers, 2)
	require.Equal(t, "", c.Layers[0].Metadata)
	require.Equal(t, "0:water,1:forest", c.Layers[1].Metadata)
}

func TestWriteContainerWideSamplesTileGrid(t *testing.T) {
	// 200x200 uint16 elevation, frag=80: ceil(200/80)=3 tiles per axis.
	w, h := 200, 200
	data := make([]byte, w*h*2)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint16((x*7 + y*13) % 60000)
			off := (y*w + x) * 2
			data[off] = byte(v)
			data[off+1] = byte(v >> 8)
		}
	}
	r := &raster.Raster{
		Width:        w,
		Height:       h,
		Type:         raster.U16,
		Data:         data,
		Geotransform: [6]float64{0, 1, 0, 0, 0, -1},
		Projection:   "+proj=longlat +datum=WGS84",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteContainer(&buf, 80, w, h, r.Projection, r.Geotransform, []LayerSpec{
		{Type: LayerHeightmap, Raster: r},
	}))

	c, err := Open(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 240, c.X) // ceil(200/80)*80
	require.Equal(t, 240, c.Y)

	tilesX, tilesY := c.Layers[0].TileGrid()
	require.Equal(t, 3, tilesX)
	require.Equal(t, 3, tilesY)

	tile, err := c.Layers[0].Tile(0, 0)
	require.NoError(t, err)
	require.Len(t, tile, 80*80*2)
}

func TestWriteContainerHeaderBytes(t *testing.T) {
	r := makeRaster(t, 4, 4, func(x, y int) byte { return 0 })
	var buf bytes.Buffer
	require.NoError(t, WriteContainer(&buf, 4, 4, 4, "", [6]float64{}, []LayerSpec{
		{Type: LayerHeightmap, Raster: r},
	}))

	out := buf.Bytes()
	require.GreaterOrEqual(t, len(out), 14)
	require.Equal(t, []byte("GEOMG"), out[0:5])
	require.Equal(t, Version, out[5])

	frag := uint16(out[6]) | uint16(out[7])<<8
	require.Equal(t, uint16(4), frag)
}

func TestLayerOffsetTableMonotone(t *testing.T) {
	r := makeRaster(t, 20, 20, func(x, y int) byte { return byte((x*13 + y*29) % 251) })
	var buf bytes.Buffer
	require.NoError(t, WriteContainer(&buf, 5, 20, 20, "", [6]float64{}, []LayerSpec{
		{Type: LayerHeightmap, Raster: r},
	}))

	c, err := Open(buf.Bytes())
	require.NoError(t, err)
	layer := c.Layers[0]
	require.Equal(t, 16, layer.TileCount()) // 4x4 tiles

	for i := 1; i < len(layer.table); i++ {
		require.GreaterOrEqual(t, layer.table[i], layer.table[i-1], "table[%d] must not precede table[%d]", i, i-1)
	}
}

func TestWriteContainerSeedIndependent(t *testing.T) {
	// The container writer itself has no RNG dependence (that lives in
	// internal/hydrology); two writes of the same input must be
	// byte-identical, matching invariant 6's determinism requirement for
	// the codec half of the pipeline.
	r := makeRaster(t, 12, 9, func(x, y int) byte { return byte(x ^ y) })

	var buf1, buf2 bytes.Buffer
	specs := []LayerSpec{{Type: LayerHeightmap, Raster: r}}
	require.NoError(t, WriteContainer(&buf1, 4, 12, 9, r.Projection, r.Geotransform, specs))
	require.NoError(t, WriteContainer(&buf2, 4, 12, 9, r.Projection, r.Geotransform, specs))
	require.Equal(t, buf1.Bytes(), buf2.Bytes())
}

func TestWriteContainerLayersAreContiguous(t *testing.T) {
	// Each layer's header, table and tile data must sit back-to-back —
	// layer 1's header must start immediately after layer 0's tile data,
	// not after every layer's header as a grouped layout would place it.
	a := makeRaster(t, 4, 4, func(x, y int) byte { return byte(x) })
	b := makeRaster(t, 4, 4, func(x, y int) byte { return byte(y) })

	var buf bytes.Buffer
	require.NoError(t, WriteContainer(&buf, 4, 4, 4, "", [6]float64{}, []LayerSpec{
		{Type: LayerHeightmap, Raster: a},
		{Type: LayerRivers, Raster: b},
	}))
	out := buf.Bytes()

	off := headerFixedLen // empty projection string, so no proj bytes
	off += geotransformLen
	off++ // layer count

	require.Equal(t, byte(LayerHeightmap), out[off], "first layer header must start right after the fixed header")
	tableLen0 := int(binary.LittleEndian.Uint32(out[off+2:]))
	metaLen0 := int(binary.LittleEndian.Uint16(out[off+6:]))
	off += layerHeaderFixedLen + metaLen0 // past layer 0's header
	off += tableLen0                      // past layer 0's table

	// Layer 0's tile data immediately precedes layer 1's header: derive
	// its length from the offset table's final cumulative value rather
	// than assuming any grouping of tile-data blocks. A 4x4 raster at
	// frag=4 has exactly one tile, so the raw table is one uint32.
	rawTable, err := decompress(out[off-tableLen0:off], 4)
	require.NoError(t, err)
	tileDataLen0 := int(binary.LittleEndian.Uint32(rawTable[len(rawTable)-4:]))
	off += tileDataLen0

	require.Equal(t, byte(LayerRivers), out[off], "second layer header must start immediately after layer 0's tile data, not after both layers' headers")
}

func TestWriteContainerOrdersLayersByTag(t *testing.T) {
	a := makeRaster(t, 4, 4, func(x, y int) byte { return 1 })
	b := makeRaster(t, 4, 4, func(x, y int) byte { return 2 })

	var buf bytes.Buffer
	require.NoError(t, WriteContainer(&buf, 4, 4, 4, "", [6]float64{}, []LayerSpec{
		{Type: LayerLandCover, Raster: a},
		{Type: LayerHeightmap, Raster: b},
	}))

	c, err := Open(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, c.Layers, 2)
	require.Equal(t, LayerHeightmap, c.Layers[0].Type, "layers must be reordered tag-ascending regardless of caller order")
	require.Equal(t, LayerLandCover, c.Layers[1].Type)
}

func TestWriteContainerRejectsDuplicateTag(t *testing.T) {
	r := makeRaster(t, 4, 4, func(x, y int) byte { return 0 })
	var buf bytes.Buffer
	err := WriteContainer(&buf, 4, 4, 4, "", [6]float64{}, []LayerSpec{
		{Type: LayerHeightmap, Raster: r},
		{Type: LayerHeightmap, Raster: r},
	})
	require.Error(t, err)
	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, InvalidInput, gerr.Kind)
}

func TestNumberTypeRoundTrip(t *testing.T) {
	for _, et := range []raster.ElementType{raster.U8, raster.U16, raster.I32, raster.F32, raster.F64} {
		b := et.NumberTypeByte()
		got, err := raster.ParseNumberTypeByte(b)
		require.NoError(t, err)
		require.Equal(t, et, got)
	}
}
