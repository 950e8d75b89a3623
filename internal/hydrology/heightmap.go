package hydrology

import (
	"encoding/binary"
	"math"

	"github.com/terrageo/geomg/internal/raster"
)

// Heightmap is the hydrology engine's internal numeric representation: a
// dense row-major grid of float64 elevations, decoupled from whatever
// element kind/width the caller's raster was stored in. The engine only
// ever compares and adds heights, so everything is widened once up
// front rather than re-dispatched on every comparison.
type Heightmap struct {
	Width, Height int
	H             []float64
}

// At returns the elevation at (x, y).
func (hm *Heightmap) At(x, y int) float64 { return hm.H[y*hm.Width+x] }

// FromRaster widens r's native element type into a Heightmap. Signed and
// unsigned integer rasters are interpreted as plain magnitudes; floats
// are read natively.
func FromRaster(r *raster.Raster) (*Heightmap, error) {
	n := r.Width * r.Height
	out := make([]float64, n)
	w := r.Type.Width

	for i := 0; i < n; i++ {
		b := r.Data[i*w : i*w+w]
		var v float64
		switch r.Type.Kind {
		case raster.KindUnsigned:
			v = float64(decodeUint(b))
		case raster.KindSigned:
			v = float64(decodeInt(b))
		case raster.KindFloat:
			switch w {
			case 4:
				v = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
			case 8:
				v = math.Float64frombits(binary.LittleEndian.Uint64(b))
			}
		}
		out[i] = v
	}
	return &Heightmap{Width: r.Width, Height: r.Height, H: out}, nil
}

func decodeUint(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	case 8:
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func decodeInt(b []byte) int64 {
	switch len(b) {
	case 1:
		return int64(int8(b[0]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(b)))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(b)))
	case 8:
		return int64(binary.LittleEndian.Uint64(b))
	}
	return 0
}
