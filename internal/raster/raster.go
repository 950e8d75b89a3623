// Package raster defines the element-type model and RasterProvider contract
// shared by the hydrology engine and the tile codec.
package raster

import "fmt"

// Kind is the closed set of element kinds a raster cell can hold.
type Kind uint8

const (
	KindUnsigned Kind = 0
	KindSigned   Kind = 1
	KindFloat    Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindUnsigned:
		return "unsigned"
	case KindSigned:
		return "signed"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ElementType names the dispatch-closed variant referenced in the design
// notes ("duck-typed raster element type -> tagged variant"): a kind plus
// a byte width. Valid widths are {1, 2, 4, 8}; float only at 4 or 8.
type ElementType struct {
	Kind  Kind
	Width int
}

var (
	U8  = ElementType{KindUnsigned, 1}
	U16 = ElementType{KindUnsigned, 2}
	U32 = ElementType{KindUnsigned, 4}
	U64 = ElementType{KindUnsigned, 8}
	I8  = ElementType{KindSigned, 1}
	I16 = ElementType{KindSigned, 2}
	I32 = ElementType{KindSigned, 4}
	I64 = ElementType{KindSigned, 8}
	F32 = ElementType{KindFloat, 4}
	F64 = ElementType{KindFloat, 8}
)

// Valid reports whether the (kind, width) combination is one this codec
// knows how to dispatch.
func (e ElementType) Valid() bool {
	switch e.Width {
	case 1, 2, 4, 8:
	default:
		return false
	}
	if e.Kind == KindFloat && e.Width != 4 && e.Width != 8 {
		return false
	}
	return e.Kind == KindUnsigned || e.Kind == KindSigned || e.Kind == KindFloat
}

// NumberTypeByte encodes (kind, width) as the single byte k*16+w used by
// the layer header's number_type field.
func (e ElementType) NumberTypeByte() byte {
	return byte(e.Kind)*16 + byte(e.Width)
}

// ParseNumberTypeByte decodes a number_type byte back into an ElementType.
func ParseNumberTypeByte(b byte) (ElementType, error) {
	k := Kind(b / 16)
	w := int(b % 16)
	e := ElementType{Kind: k, Width: w}
	if !e.Valid() {
		return ElementType{}, fmt.Errorf("raster: invalid number_type byte 0x%02x", b)
	}
	return e, nil
}

// Raster is a 2-D, row-major, little-endian-on-disk array plus its
// geospatial framing. Once constructed it is treated as immutable by
// every component that consumes it.
type Raster struct {
	Width, Height int
	Type          ElementType
	// Data holds Width*Height*Type.Width bytes, row-major. The provider
	// contract assumes a little-endian host; Data is copied through
	// unchanged, with no byte-swap at any stage.
	Data []byte
	// Geotransform is the 6-double GDAL-convention affine map, forwarded
	// verbatim to the container.
	Geotransform [6]float64
	// Projection is an opaque Proj-4 descriptor, forwarded verbatim.
	Projection string
}

// Provider is the external RasterProvider contract from §6: a source of
// already-aligned 2-D raster data that the core consumes without
// reprojecting or resampling it.
type Provider interface {
	Dims() (x, y int)
	ElementType() ElementType
	Projection() string
	Geotransform() [6]float64
	// ReadRegion returns a dense row-major buffer for the [x, x+w) x [y, y+h)
	// window, in native byte order, ElementType().Width bytes per sample.
	ReadRegion(x, y, w, h int) ([]byte, error)
}

// ToRaster materializes a Provider's full extent into a Raster value.
func ToRaster(p Provider) (*Raster, error) {
	x, y := p.Dims()
	data, err := p.ReadRegion(0, 0, x, y)
	if err != nil {
		return nil, fmt.Errorf("raster: reading full extent: %w", err)
	}
	return &Raster{
		Width:        x,
		Height:       y,
		Type:         p.ElementType(),
		Data:         data,
		Geotransform: p.Geotransform(),
		Projection:   p.Projection(),
	}, nil
}

// At returns the raw bytes for cell (x, y). Panics on out-of-range indices,
// matching the immutable/internal-boundary contract: callers within the
// core are trusted not to pass bad coordinates.
func (r *Raster) At(x, y int) []byte {
	w := r.Type.Width
	off := (y*r.Width + x) * w
	return r.Data[off : off+w]
}
