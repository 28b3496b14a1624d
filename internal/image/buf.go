package image

import "errors"

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("image: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrSizeMismatch is returned when two buffers must share dimensions and do not.
	ErrSizeMismatch = errors.New("image: size mismatch")
)

// ImageBuf is a contiguous pixel buffer with an optional row stride.
//
// Thread safety: ImageBuf is safe for concurrent read access. Write
// operations (Set*, Flip*, ConvertTo into it) require external synchronization.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewImageBuf creates a new image buffer with the given dimensions and format.
// Returns an error if dimensions are invalid or format is unknown.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	stride := format.RowBytes(width)
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw creates an ImageBuf over existing data without copying.
// The caller must ensure data remains valid for the lifetime of the ImageBuf.
// Stride must be at least format.RowBytes(width).
func FromRaw(data []byte, width, height int, format Format, stride int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	minStride := format.RowBytes(width)
	if stride < minStride {
		return nil, ErrInvalidStride
	}

	// The last row needs no padding after it.
	requiredSize := stride*(height-1) + minStride
	if len(data) < requiredSize {
		return nil, ErrDataTooSmall
	}

	return &ImageBuf{
		data:   data[:requiredSize],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	end := start + b.format.RowBytes(b.width)
	return b.data[start:end]
}

// decodePixel reads one pixel stored in a format described by info.
func decodePixel(info FormatInfo, pixel []byte) (r, g, bl, a uint8) {
	if info.IsGrayscale {
		return pixel[0], pixel[0], pixel[0], 255
	}
	r, g, bl, a = pixel[0], pixel[1], pixel[2], 255
	if info.SwapRB {
		r, bl = bl, r
	}
	if info.HasAlpha {
		a = pixel[3]
	}
	return r, g, bl, a
}

// encodePixel writes one pixel in a format described by info.
func encodePixel(info FormatInfo, pixel []byte, r, g, bl, a uint8) {
	if info.IsGrayscale {
		// Standard luminance: 0.299*R + 0.587*G + 0.114*B
		pixel[0] = byte((int(r)*299 + int(g)*587 + int(bl)*114) / 1000)
		return
	}
	if info.SwapRB {
		r, bl = bl, r
	}
	pixel[0], pixel[1], pixel[2] = r, g, bl
	if info.HasAlpha {
		pixel[3] = a
	}
}

// ConvertTo writes this image into dst, converting pixels to dst's format.
// Both buffers must have the same dimensions.
func (b *ImageBuf) ConvertTo(dst *ImageBuf) error {
	if dst.width != b.width || dst.height != b.height {
		return ErrSizeMismatch
	}

	if dst.format == b.format {
		for y := 0; y < b.height; y++ {
			copy(dst.RowBytes(y), b.RowBytes(y))
		}
		return nil
	}

	sinfo, dinfo := b.format.Info(), dst.format.Info()
	sbpp, dbpp := sinfo.BytesPerPixel, dinfo.BytesPerPixel
	for y := 0; y < b.height; y++ {
		src := b.RowBytes(y)
		out := dst.RowBytes(y)
		for x := 0; x < b.width; x++ {
			r, g, bl, a := decodePixel(sinfo, src[x*sbpp:x*sbpp+sbpp])
			encodePixel(dinfo, out[x*dbpp:x*dbpp+dbpp], r, g, bl, a)
		}
	}
	return nil
}

// Convert returns a new buffer holding this image in the given format.
func (b *ImageBuf) Convert(format Format) (*ImageBuf, error) {
	dst, err := NewImageBuf(b.width, b.height, format)
	if err != nil {
		return nil, err
	}
	if err := b.ConvertTo(dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// FlipVertical reverses the row order in place.
func (b *ImageBuf) FlipVertical() {
	tmp := make([]byte, b.format.RowBytes(b.width))
	for top, bottom := 0, b.height-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := b.RowBytes(top)
		bt := b.RowBytes(bottom)
		copy(tmp, t)
		copy(t, bt)
		copy(bt, tmp)
	}
}
