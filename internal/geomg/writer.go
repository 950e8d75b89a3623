package geomg

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/terrageo/geomg/internal/raster"
)

// LayerSpec is one layer's worth of input to the container writer: a
// raster plus the metadata string that travels with it (e.g. a land-cover
// legend's comma-joined biome names).
type LayerSpec struct {
	Type     LayerType
	Raster   *raster.Raster
	Metadata string
}

// layerOutput is the tiled-and-compressed form of one LayerSpec, built by
// writeLayer (C1) ahead of container assembly (C2).
type layerOutput struct {
	spec      LayerSpec
	table     []byte // compressed cumulative-offset table
	tileData  []byte // concatenated compressed tile bytes, tile order
	tileCount int
}

// tileGrid returns the frag-aligned tile grid dimensions covering an
// X x Y raster: the resolved open question means every tile is emitted
// at full frag x frag, zero-padded at the right/bottom edges, so the
// count is a simple ceiling division.
func tileGrid(x, y, frag int) (tilesX, tilesY int) {
	tilesX = (x + frag - 1) / frag
	tilesY = (y + frag - 1) / frag
	return
}

// extractTile copies the frag x frag window at tile coordinates (tx, ty)
// out of r, zero-padding any portion that falls outside r's extent.
func extractTile(r *raster.Raster, tx, ty, frag int) []byte {
	w := r.Type.Width
	tile := make([]byte, frag*frag*w)

	x0 := tx * frag
	y0 := ty * frag
	rowBytes := frag * w

	for row := 0; row < frag; row++ {
		sy := y0 + row
		if sy >= r.Height {
			break // remaining rows stay zero
		}
		sx0 := x0
		cols := frag
		if sx0+cols > r.Width {
			cols = r.Width - sx0
			if cols < 0 {
				cols = 0
			}
		}
		if cols == 0 {
			continue
		}
		srcOff := (sy*r.Width + sx0) * w
		dstOff := row * rowBytes
		n := cols * w
		copy(tile[dstOff:dstOff+n], r.Data[srcOff:srcOff+n])
	}
	return tile
}

// writeLayer tiles r into frag x frag blocks in row-major order,
// compresses each tile independently (in parallel, via errgroup, per the
// concurrency model: pure per-tile work, serial reduction afterward so
// tile order in the output is never disturbed), and builds the
// cumulative compressed-offset table.
func writeLayer(spec LayerSpec, frag int) (*layerOutput, error) {
	r := spec.Raster
	if frag <= 0 {
		return nil, newErr(InvalidInput, "frag must be positive", nil)
	}
	tilesX, tilesY := tileGrid(r.Width, r.Height, frag)
	n := tilesX * tilesY
	if n == 0 {
		return nil, newErr(InvalidInput, "layer has no tiles", nil)
	}

	compressed := make([][]byte, n)

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.NumCPU())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			ty := i / tilesX
			tx := i % tilesX
			raw := extractTile(r, tx, ty, frag)
			c, err := compress(raw)
			if err != nil {
				return err
			}
			compressed[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := make([]byte, n*4)
	var cumulative uint64
	tileData := getBuf()
	defer putBuf(tileData)
	for i, c := range compressed {
		cumulative += uint64(len(c))
		if cumulative > MaxTableOffset {
			return nil, newErr(TableOverflow, "cumulative compressed size exceeds table width", nil)
		}
		binary.LittleEndian.PutUint32(table[i*4:], uint32(cumulative))
		tileData.Write(c)
	}

	compressedTable, err := compress(table)
	if err != nil {
		return nil, err
	}

	out := &layerOutput{
		spec:      spec,
		table:     compressedTable,
		tileCount: n,
	}
	out.tileData = make([]byte, tileData.Len())
	copy(out.tileData, tileData.Bytes())
	return out, nil
}

// WriteContainer assembles a complete container (C2) from a set of
// layers: the fixed header, then, per layer in tag-ascending order, that
// layer's header, compressed offset table and compressed tile data
// contiguously before moving on to the next layer.
//
// x and y are the logical (unpadded) raster extent shared by every
// layer; the header records the frag-padded extent per §4.2, computed
// here as ceil(x/frag)*frag and ceil(y/frag)*frag. A layer whose raster
// dimensions disagree with x, y is rejected with UnalignedLayer before
// anything is written.
func WriteContainer(sink io.Writer, frag, x, y int, proj string, geotransform [6]float64, specs []LayerSpec) error {
	if len(specs) == 0 {
		return newErr(InvalidInput, "no layers supplied", nil)
	}
	if len(specs) > MaxLayers {
		return newErr(TooManyLayers, "layer count exceeds 255", nil)
	}
	if frag <= 0 || x <= 0 || y <= 0 {
		return newErr(InvalidInput, "frag, x and y must be positive", nil)
	}
	for _, s := range specs {
		if s.Raster.Width != x || s.Raster.Height != y {
			return newErr(UnalignedLayer, "layer dimensions do not match container extent", nil)
		}
	}

	specs = append([]LayerSpec(nil), specs...)
	sort.Slice(specs, func(i, j int) bool { return specs[i].Type < specs[j].Type })
	for i := 1; i < len(specs); i++ {
		if specs[i].Type == specs[i-1].Type {
			return newErr(InvalidInput, "duplicate layer tag", nil)
		}
	}

	tilesX, tilesY := tileGrid(x, y, frag)
	paddedX := tilesX * frag
	paddedY := tilesY * frag
	if frag > MaxDim || paddedX > MaxDim || paddedY > MaxDim {
		return newErr(InvalidInput, "padded dimensions exceed uint16 range", nil)
	}
	if len(proj) > MaxDim {
		return newErr(InvalidInput, "projection string too long", nil)
	}

	outputs := make([]*layerOutput, len(specs))
	for i, s := range specs {
		out, err := writeLayer(s, frag)
		if err != nil {
			return err
		}
		outputs[i] = out
	}

	buf := getBuf()
	defer putBuf(buf)

	buf.WriteString(Magic)
	buf.WriteByte(Version)
	writeUint16(buf, uint16(frag))
	writeUint16(buf, uint16(paddedX))
	writeUint16(buf, uint16(paddedY))
	writeUint16(buf, uint16(len(proj)))
	buf.WriteString(proj)
	for _, g := range geotransform {
		writeFloat64(buf, g)
	}
	buf.WriteByte(byte(len(specs)))

	// Each layer's header, compressed table and tile data are written
	// contiguously, one layer fully before the next.
	for _, out := range outputs {
		buf.WriteByte(byte(out.spec.Type))
		buf.WriteByte(out.spec.Raster.Type.NumberTypeByte())
		writeUint32(buf, uint32(len(out.table)))
		meta := []byte(out.spec.Metadata)
		if len(meta) > MaxDim {
			return newErr(InvalidInput, "layer metadata too long", nil)
		}
		writeUint16(buf, uint16(len(meta)))
		buf.Write(meta)

		buf.Write(out.table)
		buf.Write(out.tileData)
	}

	if _, err := sink.Write(buf.Bytes()); err != nil {
		return newErr(SinkIOError, "writing container", err)
	}
	return nil
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeFloat64(buf *bytes.Buffer, v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	buf.Write(b[:])
}
