package geomg

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
)

// bufPool recycles the *bytes.Buffer used to stage compressed tile and
// table output, the same way the teacher's rgbapool.go recycles RGBA
// backing arrays keyed by size: here a single pool is enough since a
// *bytes.Buffer already grows to fit.
var bufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

func getBuf() *bytes.Buffer {
	b := bufPool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

func putBuf(b *bytes.Buffer) {
	bufPool.Put(b)
}

// compressionLevel is fixed rather than configurable: the format only
// records compressed bytes, not a level, so callers never need to know
// which level produced them.
const compressionLevel = flate.BestCompression

// compress DEFLATE-compresses src, returning a fresh byte slice owned by
// the caller.
func compress(src []byte) ([]byte, error) {
	buf := getBuf()
	defer putBuf(buf)

	w, err := flate.NewWriter(buf, compressionLevel)
	if err != nil {
		return nil, newErr(CompressionFailure, "opening flate writer", err)
	}
	if _, err := w.Write(src); err != nil {
		return nil, newErr(CompressionFailure, "writing to flate stream", err)
	}
	if err := w.Close(); err != nil {
		return nil, newErr(CompressionFailure, "closing flate stream", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// decompress inflates a single DEFLATE-compressed member into a buffer of
// exactly wantLen bytes.
func decompress(src []byte, wantLen int) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(src))
	defer r.Close()

	out := make([]byte, wantLen)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, newErr(CompressionFailure, "inflating stream", err)
	}
	return out, nil
}
