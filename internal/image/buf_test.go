package image

import (
	"bytes"
	"errors"
	"testing"
)

// rgbaAt reads pixel (x, y) as straight RGBA.
func rgbaAt(b *ImageBuf, x, y int) (r, g, bl, a uint8) {
	info := b.format.Info()
	off := x * info.BytesPerPixel
	return decodePixel(info, b.RowBytes(y)[off:off+info.BytesPerPixel])
}

// setRGBA writes pixel (x, y) from straight RGBA.
func setRGBA(b *ImageBuf, x, y int, r, g, bl, a uint8) {
	info := b.format.Info()
	off := x * info.BytesPerPixel
	encodePixel(info, b.RowBytes(y)[off:off+info.BytesPerPixel], r, g, bl, a)
}

func TestNewImageBuf(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		format  Format
		wantErr error
	}{
		{"valid RGBA8", 100, 100, FormatRGBA8, nil},
		{"valid Gray8", 50, 50, FormatGray8, nil},
		{"valid BGR8", 3, 7, FormatBGR8, nil},
		{"1x1 minimum", 1, 1, FormatRGBA8, nil},
		{"zero width", 0, 100, FormatRGBA8, ErrInvalidDimensions},
		{"zero height", 100, 0, FormatRGBA8, ErrInvalidDimensions},
		{"negative width", -1, 100, FormatRGBA8, ErrInvalidDimensions},
		{"negative height", 100, -1, FormatRGBA8, ErrInvalidDimensions},
		{"invalid format", 100, 100, Format(255), ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewImageBuf(tt.width, tt.height, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewImageBuf() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}
			if buf.width != tt.width || buf.height != tt.height {
				t.Errorf("size = (%d, %d), want (%d, %d)", buf.width, buf.height, tt.width, tt.height)
			}
			if buf.format != tt.format {
				t.Errorf("format = %v, want %v", buf.format, tt.format)
			}
			expectedStride := tt.format.RowBytes(tt.width)
			if buf.stride != expectedStride {
				t.Errorf("stride = %d, want %d", buf.stride, expectedStride)
			}
			if len(buf.Data()) != expectedStride*tt.height {
				t.Errorf("len(Data()) = %d, want %d", len(buf.Data()), expectedStride*tt.height)
			}
		})
	}
}

func TestFromRaw(t *testing.T) {
	tests := []struct {
		name    string
		dataLen int
		width   int
		height  int
		stride  int
		wantErr error
	}{
		{"exact", 24, 3, 2, 12, nil},
		{"padded stride", 28, 3, 2, 16, nil},
		{"stride too small", 24, 3, 2, 8, ErrInvalidStride},
		{"data too small", 20, 3, 2, 12, ErrDataTooSmall},
		{"zero width", 24, 0, 2, 12, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.dataLen)
			buf, err := FromRaw(data, tt.width, tt.height, FormatRGBA8, tt.stride)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FromRaw() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			// Writes must land in the caller's slice.
			setRGBA(buf, 2, 1, 9, 8, 7, 6)
			off := tt.stride + 8
			if !bytes.Equal(data[off:off+4], []byte{9, 8, 7, 6}) {
				t.Errorf("data[%d:%d] = %v, want [9 8 7 6]", off, off+4, data[off:off+4])
			}
		})
	}
}

func TestPixelCodec(t *testing.T) {
	tests := []struct {
		format     Format
		r, g, b, a uint8
		want       [4]uint8
		raw        []byte
	}{
		{FormatRGBA8, 10, 20, 30, 40, [4]uint8{10, 20, 30, 40}, []byte{10, 20, 30, 40}},
		{FormatBGRA8, 10, 20, 30, 40, [4]uint8{10, 20, 30, 40}, []byte{30, 20, 10, 40}},
		{FormatRGB8, 10, 20, 30, 40, [4]uint8{10, 20, 30, 255}, []byte{10, 20, 30}},
		{FormatBGR8, 10, 20, 30, 40, [4]uint8{10, 20, 30, 255}, []byte{30, 20, 10}},
		{FormatGray8, 100, 100, 100, 40, [4]uint8{100, 100, 100, 255}, []byte{100}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			info := tt.format.Info()
			pixel := make([]byte, info.BytesPerPixel)
			encodePixel(info, pixel, tt.r, tt.g, tt.b, tt.a)
			if !bytes.Equal(pixel, tt.raw) {
				t.Errorf("encodePixel() = %v, want %v", pixel, tt.raw)
			}
			r, g, b, a := decodePixel(info, pixel)
			if got := [4]uint8{r, g, b, a}; got != tt.want {
				t.Errorf("decodePixel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRowBytesOutOfRange(t *testing.T) {
	buf, _ := NewImageBuf(2, 2, FormatRGBA8)
	if buf.RowBytes(2) != nil || buf.RowBytes(-1) != nil {
		t.Error("RowBytes outside the image should be nil")
	}
}

func TestConvert_BGRToRGBA(t *testing.T) {
	src, _ := NewImageBuf(2, 1, FormatBGR8)
	copy(src.Data(), []byte{0, 0, 255, 255, 0, 0})

	dst, err := src.Convert(FormatRGBA8)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	want := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	if !bytes.Equal(dst.Data(), want) {
		t.Errorf("Data() = %v, want %v", dst.Data(), want)
	}
}

func TestConvert_SameFormatCopies(t *testing.T) {
	src, _ := NewImageBuf(1, 1, FormatRGBA8)
	setRGBA(src, 0, 0, 1, 2, 3, 4)

	dst, err := src.Convert(FormatRGBA8)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	setRGBA(src, 0, 0, 0, 0, 0, 0)
	if r, g, b, a := rgbaAt(dst, 0, 0); r != 1 || g != 2 || b != 3 || a != 4 {
		t.Errorf("converted copy changed with source: (%d, %d, %d, %d)", r, g, b, a)
	}
}

func TestConvertTo_SizeMismatch(t *testing.T) {
	src, _ := NewImageBuf(2, 2, FormatGray8)
	dst, _ := NewImageBuf(2, 3, FormatRGBA8)
	if err := src.ConvertTo(dst); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("ConvertTo() error = %v, want ErrSizeMismatch", err)
	}
}

func TestFlipVertical(t *testing.T) {
	for _, height := range []int{1, 2, 3} {
		buf, _ := NewImageBuf(1, height, FormatGray8)
		for y := 0; y < height; y++ {
			buf.Data()[y] = byte(y)
		}
		buf.FlipVertical()
		for y := 0; y < height; y++ {
			if got, want := buf.Data()[y], byte(height-1-y); got != want {
				t.Errorf("height %d: row %d = %d, want %d", height, y, got, want)
			}
		}
	}
}
