package image

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	// Codecs sniffed by Decode.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode decodes an image from r with the first registered codec whose
// magic number matches. The returned buffer is always FormatRGBA8.
// The format name reported by the codec is returned alongside.
//
// Data no registered codec claims yields an error wrapping image.ErrFormat.
func Decode(r io.Reader) (*ImageBuf, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("image: decode: %w", err)
	}
	buf, err := FromStdImage(img)
	if err != nil {
		return nil, format, fmt.Errorf("image: decode %s: %w", format, err)
	}
	return buf, format, nil
}

// DecodeConfig reads only the header of a registered format.
func DecodeConfig(r io.Reader) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("image: decode config: %w", err)
	}
	return cfg, format, nil
}

// FromStdImage creates an ImageBuf from a standard library image.Image.
// The resulting ImageBuf is in FormatRGBA8 (non-premultiplied).
func FromStdImage(img image.Image) (*ImageBuf, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	buf, err := NewImageBuf(width, height, FormatRGBA8)
	if err != nil {
		return nil, err
	}

	switch src := img.(type) {
	case *image.NRGBA:
		// Same layout, row-by-row copy handles sub-images.
		for y := 0; y < height; y++ {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.RowBytes(y), src.Pix[start:start+width*4])
		}
		return buf, nil

	case *image.Gray:
		for y := 0; y < height; y++ {
			start := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			gray, _ := FromRaw(src.Pix[start:start+width], width, 1, FormatGray8, width)
			row, _ := FromRaw(buf.RowBytes(y), width, 1, FormatRGBA8, width*4)
			if err := gray.ConvertTo(row); err != nil {
				return nil, err
			}
		}
		return buf, nil
	}

	// Everything else, premultiplied RGBA and paletted images included,
	// goes through the NRGBA color model.
	draw.Draw(buf.NRGBA(), image.Rect(0, 0, width, height), img, bounds.Min, draw.Src)
	return buf, nil
}

// NRGBA returns b as an *image.NRGBA. A FormatRGBA8 buffer is shared;
// any other format is converted into new memory first.
func (b *ImageBuf) NRGBA() *image.NRGBA {
	if b.format != FormatRGBA8 {
		converted, err := b.Convert(FormatRGBA8)
		if err != nil {
			// Only possible for a zero ImageBuf.
			return image.NewNRGBA(image.Rectangle{})
		}
		b = converted
	}
	return &image.NRGBA{Pix: b.data, Stride: b.stride, Rect: image.Rect(0, 0, b.width, b.height)}
}

// EncodePNG encodes the image as PNG to the given writer.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.NRGBA()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// SavePNG saves the image as a PNG file.
func (b *ImageBuf) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
