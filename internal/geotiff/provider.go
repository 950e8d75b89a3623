package geotiff

import (
	"fmt"

	"github.com/terrageo/geomg/internal/cog"
	"github.com/terrageo/geomg/internal/raster"
)

// Provider adapts a cog.Reader into the core's raster.Provider contract.
// It never reprojects or resamples: the core consumes whatever CRS and
// pixel grid the file already carries.
type Provider struct {
	r *cog.Reader
}

// Open opens path as a GeoTIFF/COG and wraps it as a raster.Provider.
func Open(path string) (*Provider, error) {
	r, err := cog.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geotiff: opening %s: %w", path, err)
	}
	return &Provider{r: r}, nil
}

// Close releases the underlying memory-mapped file.
func (p *Provider) Close() error { return p.r.Close() }

func (p *Provider) Dims() (x, y int) { return p.r.Width(), p.r.Height() }

func (p *Provider) ElementType() raster.ElementType {
	et, err := p.r.NativeElementType()
	if err != nil {
		// The core's Valid() check on a zero-value ElementType will
		// reject this at the first point it's used; callers that care
		// about diagnosing the file itself should call NativeElementType
		// directly, which returns the error.
		return raster.ElementType{}
	}
	return et
}

func (p *Provider) Projection() string {
	return EPSGToProj4(p.r.EPSG())
}

func (p *Provider) Geotransform() [6]float64 {
	info := p.r.GeoInfo()
	// GDAL convention: x = a + b*px + c*py; y = d + e*px + f*py.
	return [6]float64{
		info.OriginX, info.PixelSizeX, 0,
		info.OriginY, 0, -info.PixelSizeY,
	}
}

func (p *Provider) ReadRegion(x, y, w, h int) ([]byte, error) {
	return p.r.ReadRawRegion(x, y, w, h)
}

var _ raster.Provider = (*Provider)(nil)
