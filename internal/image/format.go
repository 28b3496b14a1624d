// Package image provides the pixel buffers imgload decodes into.
//
// Decoders write rows in whatever layout the source file stores (BGR for
// TGA, gray, RGBA for most codecs) and the buffer is then converted to
// FormatRGBA8, the only layout handed to callers.
package image

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatGray8 is 8-bit grayscale (1 byte per pixel).
	FormatGray8 Format = iota

	// FormatRGB8 is 24-bit RGB (3 bytes per pixel, no alpha).
	FormatRGB8

	// FormatBGR8 is 24-bit BGR (3 bytes per pixel, no alpha).
	// This is how truecolor TGA files store their pixels.
	FormatBGR8

	// FormatRGBA8 is 32-bit non-premultiplied RGBA (4 bytes per pixel).
	// This is the output format of every decode.
	FormatRGBA8

	// FormatBGRA8 is 32-bit non-premultiplied BGRA (4 bytes per pixel).
	FormatBGRA8

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// BytesPerPixel is the number of bytes per pixel.
	BytesPerPixel int

	// HasAlpha indicates if the format has an alpha channel.
	HasAlpha bool

	// IsGrayscale indicates if this is a grayscale format.
	IsGrayscale bool

	// SwapRB indicates the red and blue channels are stored swapped.
	SwapRB bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatGray8: {BytesPerPixel: 1, IsGrayscale: true},
	FormatRGB8:  {BytesPerPixel: 3},
	FormatBGR8:  {BytesPerPixel: 3, SwapRB: true},
	FormatRGBA8: {BytesPerPixel: 4, HasAlpha: true},
	FormatBGRA8: {BytesPerPixel: 4, HasAlpha: true, SwapRB: true},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatGray8:
		return "Gray8"
	case FormatRGB8:
		return "RGB8"
	case FormatBGR8:
		return "BGR8"
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}
