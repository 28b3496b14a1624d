package imgload

import (
	"bytes"
	"errors"
	"image"
	"io"

	intImage "github.com/gogpu/imgload/internal/image"
	"github.com/gogpu/imgload/internal/tga"
)

// Decoder turns an encoded image into non-premultiplied RGBA pixels.
//
// Implementations report the name of the codec that handled the data, the
// way image.Decode does. The Loader only depends on this interface, so the
// codec set can be swapped without changing the decode/release contract.
type Decoder interface {
	Decode(r io.Reader) (*image.NRGBA, string, error)
	DecodeConfig(r io.Reader) (image.Config, string, error)
}

// StdDecoder decodes PNG, JPEG, GIF, BMP, TIFF and WebP by sniffing their
// magic numbers, then falls back to TGA for data no codec claims.
type StdDecoder struct{}

// Decode implements Decoder.
func (StdDecoder) Decode(r io.Reader) (*image.NRGBA, string, error) {
	rs, start, err := rewindable(r)
	if err != nil {
		return nil, "", err
	}

	buf, format, err := intImage.Decode(rs)
	if errors.Is(err, image.ErrFormat) {
		if _, err = rs.Seek(start, io.SeekStart); err != nil {
			return nil, "", err
		}
		buf, err = tga.Decode(rs)
		format = "tga"
	}
	if err != nil {
		return nil, format, err
	}
	return buf.NRGBA(), format, nil
}

// DecodeConfig implements Decoder.
func (StdDecoder) DecodeConfig(r io.Reader) (image.Config, string, error) {
	rs, start, err := rewindable(r)
	if err != nil {
		return image.Config{}, "", err
	}

	cfg, format, err := intImage.DecodeConfig(rs)
	if errors.Is(err, image.ErrFormat) {
		if _, err = rs.Seek(start, io.SeekStart); err != nil {
			return image.Config{}, "", err
		}
		cfg, err = tga.DecodeConfig(rs)
		format = "tga"
	}
	return cfg, format, err
}

// rewindable returns r as a seeker along with its current offset, so a
// failed sniff can restart from there. Readers that cannot seek are
// buffered in memory.
func rewindable(r io.Reader) (io.ReadSeeker, int64, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		start, err := rs.Seek(0, io.SeekCurrent)
		if err == nil {
			return rs, start, nil
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), 0, nil
}
