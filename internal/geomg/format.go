package geomg

// Magic is the fixed 5-byte container identifier, written verbatim at
// offset 0 of every container.
const Magic = "GEOMG"

// Version is the on-disk format version this package reads and writes.
const Version uint8 = 0x02

// LayerType enumerates the three kinds of raster layer a container can
// hold, carried in each layer header's layer_type byte. A layer type is
// a container's identity tag for that layer: at most one layer per tag.
type LayerType uint8

const (
	LayerHeightmap LayerType = 0
	LayerRivers    LayerType = 1
	LayerLandCover LayerType = 2
)

func (t LayerType) String() string {
	switch t {
	case LayerHeightmap:
		return "heightmap"
	case LayerRivers:
		return "rivers"
	case LayerLandCover:
		return "landcover"
	default:
		return "unknown"
	}
}

// MaxLayers is the largest layer count a single byte can address.
const MaxLayers = 255

// MaxDim is the largest raster dimension the uint16 frag/X/Y fields can
// hold.
const MaxDim = 1<<16 - 1

// MaxTableOffset is the largest cumulative offset the table's uint32
// entries can hold.
const MaxTableOffset = 1<<32 - 1

// Container header layout (little-endian throughout):
//
//	offset  size  field
//	0       5     magic "GEOMG"
//	5       1     version
//	6       2     frag (tile edge length, pixels, uint16 LE)
//	8       2     X (padded raster width, pixels, uint16 LE)
//	10      2     Y (padded raster height, pixels, uint16 LE)
//	12      2     proj_length (uint16 LE)
//	14      *     proj (proj_length bytes, Proj-4 string)
//	14+L    48    geotransform (6 x float64 LE)
//	62+L    1     layer_count (uint8)
//
// layer_count layers follow, one after another. Each layer starts with
// this header:
//
//	offset  size  field
//	0       1     layer_type
//	1       1     number_type (kind*16 + width)
//	2       4     compressed_table_length (uint32 LE)
//	6       2     metadata_length (uint16 LE)
//	8       *     metadata (metadata_length bytes)
//
// Right after its header comes that layer's compressed cumulative-offset
// table (compressed_table_length bytes), then its concatenated compressed
// tile data (the table's last entry gives its length); the next layer's
// header follows immediately.
const (
	headerMagicOff   = 0
	headerMagicLen   = 5
	headerVersionOff = 5
	headerFragOff    = 6
	headerXOff       = 8
	headerYOff       = 10
	headerProjLenOff = 12
	headerFixedLen   = 14 // bytes before the variable-length proj string

	geotransformLen = 48 // 6 * 8 bytes
)

const layerHeaderFixedLen = 8 // layer_type, number_type, table_len, meta_len
