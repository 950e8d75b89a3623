package cog

import (
	"fmt"

	"github.com/terrageo/geomg/internal/raster"
)

// NativeElementType reports the (kind, width) of level 0's first band,
// derived from the TIFF SampleFormat/BitsPerSample tags. It gives the
// raster.Provider adapter the sample type ReadRawRegion returns, so a
// float32 DEM or a uint16 land-cover code keeps its full precision.
func (r *Reader) NativeElementType() (raster.ElementType, error) {
	ifd := &r.ifds[0]
	bits := 8
	if len(ifd.BitsPerSample) > 0 {
		bits = int(ifd.BitsPerSample[0])
	}
	width := bits / 8
	if width*8 != bits {
		return raster.ElementType{}, fmt.Errorf("cog: unsupported bits-per-sample %d (not byte-aligned)", bits)
	}

	kind := raster.KindUnsigned
	if len(ifd.SampleFormat) > 0 {
		switch ifd.SampleFormat[0] {
		case 1:
			kind = raster.KindUnsigned
		case 2:
			kind = raster.KindSigned
		case 3:
			kind = raster.KindFloat
		default:
			return raster.ElementType{}, fmt.Errorf("cog: unsupported sample format %d", ifd.SampleFormat[0])
		}
	}

	et := raster.ElementType{Kind: kind, Width: width}
	if !et.Valid() {
		return raster.ElementType{}, fmt.Errorf("cog: (%v, width %d) is not a supported element type", kind, width)
	}
	return et, nil
}

// ReadRawRegion reads a dense, row-major, native-byte-order single-band
// region of level 0, width bytes per sample as reported by
// NativeElementType. Tiles and strips behave identically here: both
// reach this through readTileRaw/readStripTileRaw, which already undo
// compression and horizontal-differencing.
func (r *Reader) ReadRawRegion(startX, startY, width, height int) ([]byte, error) {
	et, err := r.NativeElementType()
	if err != nil {
		return nil, err
	}
	sw := et.Width

	ifd := &r.ifds[0]
	tw := int(ifd.TileWidth)
	th := int(ifd.TileHeight)
	spp := int(ifd.SamplesPerPixel)
	if spp == 0 {
		spp = 1
	}

	out := make([]byte, width*height*sw)

	colStart := startX / tw
	colEnd := (startX + width - 1) / tw
	rowStart := startY / th
	rowEnd := (startY + height - 1) / th

	for row := rowStart; row <= rowEnd; row++ {
		for col := colStart; col <= colEnd; col++ {
			data, tileIFD, err := r.readTileRaw(0, col, row)
			if err != nil {
				return nil, err
			}

			tileMinX := col * tw
			tileMinY := row * th

			srcMinX := max(startX, tileMinX) - tileMinX
			srcMinY := max(startY, tileMinY) - tileMinY
			srcMaxX := min(startX+width, tileMinX+tw) - tileMinX
			srcMaxY := min(startY+height, tileMinY+th) - tileMinY

			dstMinX := max(startX, tileMinX) - startX
			dstMinY := max(startY, tileMinY) - startY

			rowStride := tw * spp * sw
			for y := srcMinY; y < srcMaxY; y++ {
				if data == nil {
					continue // empty tile: output stays zero for this row
				}
				srcRowOff := y * rowStride
				dstRowOff := (dstMinY + (y - srcMinY)) * width * sw
				for x := srcMinX; x < srcMaxX; x++ {
					srcOff := srcRowOff + x*spp*sw
					if srcOff+sw > len(data) {
						continue
					}
					dstOff := dstRowOff + (dstMinX+(x-srcMinX))*sw
					copy(out[dstOff:dstOff+sw], data[srcOff:srcOff+sw])
				}
			}
			_ = tileIFD
		}
	}

	return out, nil
}
