// Package geotiff adapts a GeoTIFF/COG file into the raster.Provider
// contract the core consumes, so command-line callers can hand it a
// .tif file without the core ever knowing TIFF exists.
package geotiff

import "fmt"

// proj4ByEPSG is a small registry of the EPSG codes this adapter knows a
// canonical Proj-4 string for, following the same table-per-code pattern
// the teacher's coordinate package used for its reprojection registry —
// here repurposed to produce an opaque descriptor string rather than to
// reproject anything.
var proj4ByEPSG = map[int]string{
	4326: "+proj=longlat +datum=WGS84 +no_defs",
	3857: "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +nadgrids=@null +wktext +no_defs",
	2056: "+proj=somerc +lat_0=46.9524055555556 +lon_0=7.43958333333333 +k_0=1 +x_0=2600000 +y_0=1200000 +ellps=bessel +towgs84=674.374,15.056,405.346,0,0,0,0 +units=m +no_defs",
	25832: "+proj=utm +zone=32 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
	3035: "+proj=laea +lat_0=52 +lon_0=10 +x_0=4321000 +y_0=3210000 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
}

// EPSGToProj4 returns a Proj-4 descriptor for code. Codes outside the
// built-in table fall back to a generic "+init=epsg:N" descriptor: the
// core treats the whole string as opaque, so an unrecognized code still
// round-trips through the container even though this adapter cannot
// expand it to full Proj-4 parameters.
func EPSGToProj4(code int) string {
	if p, ok := proj4ByEPSG[code]; ok {
		return p
	}
	if code == 0 {
		return ""
	}
	return fmt.Sprintf("+init=epsg:%d", code)
}
