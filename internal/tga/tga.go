// Package tga decodes Truevision TGA images.
//
// TGA files carry no magic number, so the package does not register itself
// with the standard image package. Callers try the registered codecs first
// and fall back to Decode, the same order stb_image uses.
//
// Supported: color-mapped, truecolor and grayscale images, raw or RLE
// compressed, at 8, 15, 16, 24 and 32 bits per pixel. The alpha bit of
// 16-bit color pixels is ignored.
package tga

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	intImage "github.com/gogpu/imgload/internal/image"
)

// Decoding errors.
var (
	// ErrHeader is returned when the header does not describe a TGA image.
	ErrHeader = errors.New("tga: invalid header")

	// ErrTruncated is returned when the pixel data ends early.
	ErrTruncated = errors.New("tga: truncated data")
)

const headerSize = 18

// Image types.
const (
	typeColorMapped    = 1
	typeTrueColor      = 2
	typeGray           = 3
	typeRLEColorMapped = 9
	typeRLETrueColor   = 10
	typeRLEGray        = 11
)

// descTopLeft is the image descriptor bit selecting a top-down row order.
const descTopLeft = 0x20

// header is the fixed 18-byte TGA file header.
type header struct {
	idLength     uint8
	colorMapType uint8
	imageType    uint8
	cmapStart    uint16
	cmapLength   uint16
	cmapDepth    uint8
	width        uint16
	height       uint16
	depth        uint8
	descriptor   uint8
}

func parseHeader(b []byte) (header, error) {
	if len(b) < headerSize {
		return header{}, fmt.Errorf("%w: %d bytes", ErrHeader, len(b))
	}
	h := header{
		idLength:     b[0],
		colorMapType: b[1],
		imageType:    b[2],
		cmapStart:    binary.LittleEndian.Uint16(b[3:5]),
		cmapLength:   binary.LittleEndian.Uint16(b[5:7]),
		cmapDepth:    b[7],
		width:        binary.LittleEndian.Uint16(b[12:14]),
		height:       binary.LittleEndian.Uint16(b[14:16]),
		depth:        b[16],
		descriptor:   b[17],
	}
	if err := h.validate(); err != nil {
		return header{}, err
	}
	return h, nil
}

func (h header) validate() error {
	switch h.colorMapType {
	case 0:
		switch h.imageType {
		case typeTrueColor, typeGray, typeRLETrueColor, typeRLEGray:
		default:
			return fmt.Errorf("%w: image type %d", ErrHeader, h.imageType)
		}
		if !validDepth(h.depth) {
			return fmt.Errorf("%w: pixel depth %d", ErrHeader, h.depth)
		}
	case 1:
		if !h.colorMapped() {
			return fmt.Errorf("%w: image type %d with color map", ErrHeader, h.imageType)
		}
		if !validDepth(h.cmapDepth) {
			return fmt.Errorf("%w: color map depth %d", ErrHeader, h.cmapDepth)
		}
		if h.depth != 8 && h.depth != 16 {
			return fmt.Errorf("%w: index depth %d", ErrHeader, h.depth)
		}
		if h.cmapLength == 0 {
			return fmt.Errorf("%w: empty color map", ErrHeader)
		}
	default:
		return fmt.Errorf("%w: color map type %d", ErrHeader, h.colorMapType)
	}
	if h.width == 0 || h.height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrHeader, h.width, h.height)
	}
	return nil
}

func validDepth(d uint8) bool {
	switch d {
	case 8, 15, 16, 24, 32:
		return true
	}
	return false
}

func (h header) colorMapped() bool {
	return h.imageType == typeColorMapped || h.imageType == typeRLEColorMapped
}

func (h header) rle() bool {
	return h.imageType >= typeRLEColorMapped
}

func (h header) gray() bool {
	return h.imageType == typeGray || h.imageType == typeRLEGray
}

// DecodeConfig returns the dimensions of a TGA image without reading pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var b [headerSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return image.Config{}, fmt.Errorf("%w: %w", ErrHeader, err)
	}
	h, err := parseHeader(b[:])
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.width),
		Height:     int(h.height),
	}, nil
}

// Decode reads a TGA image with rows ordered top to bottom. The buffer keeps
// the stored channel layout (Gray8, RGB8, BGR8, RGBA8 or BGRA8); callers
// convert with NRGBA.
func Decode(r io.Reader) (*intImage.ImageBuf, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("tga: read: %w", err)
	}
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	rd := &reader{data: data, off: headerSize + int(h.idLength)}

	var pal *palette
	if h.colorMapped() {
		pal, err = readPalette(rd, h)
		if err != nil {
			return nil, err
		}
	}

	buf, err := readPixels(rd, h, pal)
	if err != nil {
		return nil, err
	}

	if h.descriptor&descTopLeft == 0 {
		buf.FlipVertical()
	}
	return buf, nil
}

// reader is a bounds-checked cursor over the file bytes.
type reader struct {
	data []byte
	off  int
}

func (r *reader) next(n int) ([]byte, error) {
	if n > len(r.data)-r.off {
		return nil, ErrTruncated
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

// pixelLayout describes how stored pixels of one depth are expanded.
type pixelLayout struct {
	size   int             // bytes per stored pixel
	format intImage.Format // format of the expanded pixel
	expand func(dst, src []byte)
}

func layoutFor(depth uint8, gray bool) pixelLayout {
	switch {
	case depth == 8:
		return pixelLayout{size: 1, format: intImage.FormatGray8, expand: copyPixel}
	case depth == 16 && gray:
		return pixelLayout{size: 2, format: intImage.FormatRGBA8, expand: expandGrayAlpha}
	case depth == 15 || depth == 16:
		return pixelLayout{size: 2, format: intImage.FormatRGB8, expand: expand555}
	case depth == 24:
		return pixelLayout{size: 3, format: intImage.FormatBGR8, expand: copyPixel}
	default:
		return pixelLayout{size: 4, format: intImage.FormatBGRA8, expand: copyPixel}
	}
}

func copyPixel(dst, src []byte) {
	copy(dst, src)
}

func expandGrayAlpha(dst, src []byte) {
	dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], src[1]
}

// expand555 unpacks a little-endian A1R5G5B5 pixel.
func expand555(dst, src []byte) {
	v := uint16(src[0]) | uint16(src[1])<<8
	dst[0] = byte((v >> 10 & 0x1f) * 255 / 31)
	dst[1] = byte((v >> 5 & 0x1f) * 255 / 31)
	dst[2] = byte((v & 0x1f) * 255 / 31)
}

// palette holds color map entries already expanded to format.
type palette struct {
	entries []byte
	format  intImage.Format
	start   int
	length  int
}

func readPalette(rd *reader, h header) (*palette, error) {
	layout := layoutFor(h.cmapDepth, false)
	raw, err := rd.next(int(h.cmapLength) * layout.size)
	if err != nil {
		return nil, fmt.Errorf("tga: color map: %w", err)
	}

	bpp := layout.format.BytesPerPixel()
	p := &palette{
		entries: make([]byte, int(h.cmapLength)*bpp),
		format:  layout.format,
		start:   int(h.cmapStart),
		length:  int(h.cmapLength),
	}
	for i := 0; i < p.length; i++ {
		layout.expand(p.entries[i*bpp:(i+1)*bpp], raw[i*layout.size:(i+1)*layout.size])
	}
	return p, nil
}

// lookup writes the color for a stored index. Out-of-range indexes map to
// the first entry.
func (p *palette) lookup(dst, src []byte) {
	idx := int(src[0])
	if len(src) == 2 {
		idx |= int(src[1]) << 8
	}
	idx -= p.start
	if idx < 0 || idx >= p.length {
		idx = 0
	}
	bpp := p.format.BytesPerPixel()
	copy(dst, p.entries[idx*bpp:(idx+1)*bpp])
}

func readPixels(rd *reader, h header, pal *palette) (*intImage.ImageBuf, error) {
	layout := layoutFor(h.depth, h.gray())
	if pal != nil {
		layout = pixelLayout{size: int(h.depth) / 8, format: pal.format, expand: pal.lookup}
	}

	width, height := int(h.width), int(h.height)
	total := width * height

	// Reject files too short to hold the pixel count before allocating.
	minBytes := total * layout.size
	if h.rle() {
		minBytes = (total + 127) / 128 * (1 + layout.size)
	}
	if rd.remaining() < minBytes {
		return nil, ErrTruncated
	}

	buf, err := intImage.NewImageBuf(width, height, layout.format)
	if err != nil {
		return nil, fmt.Errorf("tga: %w", err)
	}

	dst := buf.Data()
	bpp := layout.format.BytesPerPixel()

	if !h.rle() {
		src, _ := rd.next(minBytes)
		for i := 0; i < total; i++ {
			layout.expand(dst[i*bpp:(i+1)*bpp], src[i*layout.size:(i+1)*layout.size])
		}
		return buf, nil
	}

	// Packets may run across scanlines.
	for i := 0; i < total; {
		hdr, err := rd.next(1)
		if err != nil {
			return nil, err
		}
		count := int(hdr[0]&0x7f) + 1
		if count > total-i {
			count = total - i
		}

		if hdr[0]&0x80 != 0 {
			src, err := rd.next(layout.size)
			if err != nil {
				return nil, err
			}
			first := dst[i*bpp : (i+1)*bpp]
			layout.expand(first, src)
			for j := 1; j < count; j++ {
				copy(dst[(i+j)*bpp:(i+j+1)*bpp], first)
			}
		} else {
			src, err := rd.next(count * layout.size)
			if err != nil {
				return nil, err
			}
			for j := 0; j < count; j++ {
				layout.expand(dst[(i+j)*bpp:(i+j+1)*bpp], src[j*layout.size:(j+1)*layout.size])
			}
		}
		i += count
	}
	return buf, nil
}
