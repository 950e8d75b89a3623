package geomg

import (
	"encoding/binary"
	"math"

	"github.com/terrageo/geomg/internal/raster"
)

// Layer describes one decoded layer's header fields and gives random
// access to its tiles without decompressing tiles the caller never asks
// for.
type Layer struct {
	Type        LayerType
	ElementType raster.ElementType
	Metadata    string

	frag       int
	tilesX     int
	tilesY     int
	table      []uint32 // cumulative compressed offsets, length = tile count
	tileData   []byte   // concatenated compressed tile bytes for this layer
}

// Container is a fully parsed, in-memory GEOMG container (C7): the
// header and every layer's offset table are decoded eagerly; individual
// tiles are inflated lazily via Layer.Tile.
type Container struct {
	Frag         int
	X, Y         int
	Projection   string
	Geotransform [6]float64
	Layers       []*Layer
}

// Open parses a complete in-memory container image.
func Open(data []byte) (*Container, error) {
	if len(data) < headerFixedLen {
		return nil, newErr(InvalidInput, "container shorter than fixed header", nil)
	}
	if string(data[headerMagicOff:headerMagicOff+headerMagicLen]) != Magic {
		return nil, newErr(InvalidInput, "bad magic", nil)
	}
	version := data[headerVersionOff]
	if version != Version {
		return nil, newErr(InvalidInput, "unsupported version", nil)
	}

	frag := int(binary.LittleEndian.Uint16(data[headerFragOff:]))
	x := int(binary.LittleEndian.Uint16(data[headerXOff:]))
	y := int(binary.LittleEndian.Uint16(data[headerYOff:]))
	projLen := int(binary.LittleEndian.Uint16(data[headerProjLenOff:]))

	off := headerFixedLen
	if off+projLen > len(data) {
		return nil, newErr(InvalidInput, "truncated projection string", nil)
	}
	proj := string(data[off : off+projLen])
	off += projLen

	if off+geotransformLen > len(data) {
		return nil, newErr(InvalidInput, "truncated geotransform", nil)
	}
	var gt [6]float64
	for i := range gt {
		bits := binary.LittleEndian.Uint64(data[off:])
		gt[i] = math.Float64frombits(bits)
		off += 8
	}

	if off >= len(data) {
		return nil, newErr(InvalidInput, "missing layer count", nil)
	}
	layerCount := int(data[off])
	off++

	tilesX, tilesY := tileGrid(x, y, frag)
	tileCount := tilesX * tilesY

	// Each layer's header, compressed table and tile data sit
	// contiguously, one layer fully before the next.
	layers := make([]*Layer, layerCount)
	var prevType LayerType
	for i := 0; i < layerCount; i++ {
		if off+layerHeaderFixedLen > len(data) {
			return nil, newErr(InvalidInput, "truncated layer header", nil)
		}
		lt := LayerType(data[off])
		et, err := raster.ParseNumberTypeByte(data[off+1])
		if err != nil {
			return nil, newErr(InvalidInput, "bad number_type", err)
		}
		tableLen := int(binary.LittleEndian.Uint32(data[off+2:]))
		metaLen := int(binary.LittleEndian.Uint16(data[off+6:]))
		off += layerHeaderFixedLen
		if off+metaLen > len(data) {
			return nil, newErr(InvalidInput, "truncated layer metadata", nil)
		}
		meta := string(data[off : off+metaLen])
		off += metaLen

		if i > 0 && lt <= prevType {
			return nil, newErr(InvalidInput, "layer tags not strictly ascending", nil)
		}
		prevType = lt

		if off+tableLen > len(data) {
			return nil, newErr(InvalidInput, "truncated offset table", nil)
		}
		rawTable, err := decompress(data[off:off+tableLen], tileCount*4)
		if err != nil {
			return nil, err
		}
		off += tableLen

		table := make([]uint32, tileCount)
		for j := range table {
			table[j] = binary.LittleEndian.Uint32(rawTable[j*4:])
		}

		n := uint32(0)
		if len(table) > 0 {
			n = table[len(table)-1]
		}
		if off+int(n) > len(data) {
			return nil, newErr(InvalidInput, "truncated tile data", nil)
		}
		tileData := data[off : off+int(n)]
		off += int(n)

		layers[i] = &Layer{
			Type:        lt,
			ElementType: et,
			Metadata:    meta,
			frag:        frag,
			tilesX:      tilesX,
			tilesY:      tilesY,
			table:       table,
			tileData:    tileData,
		}
	}

	return &Container{
		Frag:         frag,
		X:            x,
		Y:            y,
		Projection:   proj,
		Geotransform: gt,
		Layers:       layers,
	}, nil
}

// tileSpan returns the compressed byte range of tile index i within the
// layer's tileData, derived from the cumulative offset table.
func (l *Layer) tileSpan(i int) (start, end uint32) {
	if i == 0 {
		return 0, l.table[0]
	}
	return l.table[i-1], l.table[i]
}

// Tile inflates and returns the raw bytes of the tile at tile-grid
// coordinates (tx, ty): always frag*frag*width bytes, the right/bottom
// edge tiles zero-padded past the container's true raster extent.
func (l *Layer) Tile(tx, ty int) ([]byte, error) {
	if tx < 0 || tx >= l.tilesX || ty < 0 || ty >= l.tilesY {
		return nil, newErr(InvalidInput, "tile coordinates out of range", nil)
	}
	i := ty*l.tilesX + tx
	start, end := l.tileSpan(i)
	want := l.frag * l.frag * l.ElementType.Width
	return decompress(l.tileData[start:end], want)
}

// TileCount reports the number of tiles in the layer's tile grid.
func (l *Layer) TileCount() int { return l.tilesX * l.tilesY }

// TileGrid returns the layer's tile grid dimensions.
func (l *Layer) TileGrid() (tilesX, tilesY int) { return l.tilesX, l.tilesY }
