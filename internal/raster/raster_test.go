package raster

import "testing"

func TestNumberTypeByteRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		et   ElementType
		want byte
	}{
		{"u8", U8, 0x01},
		{"u16", U16, 0x02},
		{"u32", U32, 0x04},
		{"u64", U64, 0x08},
		{"i8", I8, 0x11},
		{"i32", I32, 0x14},
		{"f32", F32, 0x24},
		{"f64", F64, 0x28},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.et.NumberTypeByte()
			if b != tt.want {
				t.Errorf("NumberTypeByte() = 0x%02x, want 0x%02x", b, tt.want)
			}
			got, err := ParseNumberTypeByte(b)
			if err != nil {
				t.Fatalf("ParseNumberTypeByte(0x%02x): %v", b, err)
			}
			if got != tt.et {
				t.Errorf("ParseNumberTypeByte(0x%02x) = %+v, want %+v", b, got, tt.et)
			}
		})
	}
}

func TestElementTypeValid(t *testing.T) {
	tests := []struct {
		name string
		et   ElementType
		want bool
	}{
		{"u8", ElementType{KindUnsigned, 1}, true},
		{"i64", ElementType{KindSigned, 8}, true},
		{"f32", ElementType{KindFloat, 4}, true},
		{"f8 invalid width for float", ElementType{KindFloat, 1}, false},
		{"width 3 unsupported", ElementType{KindUnsigned, 3}, false},
		{"unknown kind", ElementType{Kind(7), 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.et.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseNumberTypeByteRejectsInvalid(t *testing.T) {
	// Kind 3 doesn't exist; width component is 4, so the byte is 0x34.
	if _, err := ParseNumberTypeByte(0x34); err == nil {
		t.Errorf("ParseNumberTypeByte(0x34) succeeded, want error for unknown kind")
	}
	// Width 3 is never valid.
	if _, err := ParseNumberTypeByte(0x03); err == nil {
		t.Errorf("ParseNumberTypeByte(0x03) succeeded, want error for width 3")
	}
}

// fakeProvider is a minimal in-memory Provider for exercising ToRaster.
type fakeProvider struct {
	w, h  int
	et    ElementType
	proj  string
	geot  [6]float64
	data  []byte
}

func (f *fakeProvider) Dims() (int, int)        { return f.w, f.h }
func (f *fakeProvider) ElementType() ElementType { return f.et }
func (f *fakeProvider) Projection() string       { return f.proj }
func (f *fakeProvider) Geotransform() [6]float64 { return f.geot }
func (f *fakeProvider) ReadRegion(x, y, w, h int) ([]byte, error) {
	out := make([]byte, w*h)
	for row := 0; row < h; row++ {
		srcOff := (y+row)*f.w + x
		copy(out[row*w:(row+1)*w], f.data[srcOff:srcOff+w])
	}
	return out, nil
}

func TestToRasterAndAt(t *testing.T) {
	data := make([]byte, 4*3)
	for i := range data {
		data[i] = byte(i)
	}
	p := &fakeProvider{
		w: 4, h: 3,
		et:   U8,
		proj: "+proj=longlat",
		geot: [6]float64{0, 1, 0, 0, 0, -1},
		data: data,
	}

	r, err := ToRaster(p)
	if err != nil {
		t.Fatalf("ToRaster: %v", err)
	}
	if r.Width != 4 || r.Height != 3 {
		t.Fatalf("dims = %dx%d, want 4x3", r.Width, r.Height)
	}
	if r.Projection != "+proj=longlat" {
		t.Errorf("Projection = %q", r.Projection)
	}

	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			cell := r.At(x, y)
			want := byte(y*4 + x)
			if len(cell) != 1 || cell[0] != want {
				t.Errorf("At(%d,%d) = %v, want [%d]", x, y, cell, want)
			}
		}
	}
}
