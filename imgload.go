package imgload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
)

// Channels is the channel count of every decoded image (RGBA).
const Channels = 4

var (
	// ErrTooLarge is wrapped when an image exceeds the loader's dimension
	// or pixel limit.
	ErrTooLarge = errors.New("imgload: image dimensions exceed limit")

	// errDecoderPanic is wrapped when a Decoder panics.
	errDecoderPanic = errors.New("imgload: decoder panic")
)

// DecodedImage is a decoded image that owns its pixel buffer.
//
// Pix holds Width*Height RGBA pixels, rows top to bottom, no padding.
// Len is always uint64(Width)*uint64(Height)*4. The record is read-only
// after a successful decode and must be released exactly once with Release;
// further Release calls are no-ops. A released record has every field zeroed.
type DecodedImage struct {
	Width    int32
	Height   int32
	Channels int32
	Pix      []byte
	Len      uint64

	alloc Allocator
}

// Release frees the pixel buffer through the allocator that produced it and
// zeroes the record. Releasing a nil, zero or already released record does
// nothing.
func (img *DecodedImage) Release() {
	if img == nil || img.Pix == nil {
		return
	}

	alloc := img.alloc
	if alloc == nil {
		alloc = GoAllocator{}
	}
	alloc.Free(img.Pix)

	Logger().Debug("released image", "width", img.Width, "height", img.Height, "bytes", img.Len)
	*img = DecodedImage{}
}

// Released reports whether the record holds no buffer.
func (img *DecodedImage) Released() bool {
	return img == nil || img.Pix == nil
}

// NRGBA returns an *image.NRGBA sharing Pix, or nil once released.
// The view must not be used after Release.
func (img *DecodedImage) NRGBA() *image.NRGBA {
	if img.Released() {
		return nil
	}
	return &image.NRGBA{
		Pix:    img.Pix,
		Stride: int(img.Width) * Channels,
		Rect:   image.Rect(0, 0, int(img.Width), int(img.Height)),
	}
}

// Loader decodes image files into DecodedImage records.
//
// A Loader holds no mutable state and is safe for concurrent use, provided
// its Decoder and Allocator are.
type Loader struct {
	opts options
}

// NewLoader creates a Loader with the given options applied over defaults.
func NewLoader(opts ...Option) *Loader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader{opts: o}
}

// Decode decodes the image file at path into 4-channel RGBA.
//
// An empty path yields an error wrapping ErrInvalidArgument. A file that
// cannot be read or decoded yields an error wrapping ErrDecodeFailure.
// Nothing is allocated on failure.
func (l *Loader) Decode(path string) (*DecodedImage, error) {
	if path == "" {
		err := fmt.Errorf("%w: empty path", ErrInvalidArgument)
		Logger().Warn("decode rejected", "err", err)
		return nil, err
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, l.fail(path, err)
	}
	return l.decode(path, data)
}

// DecodeBytes decodes an in-memory image file. Empty data yields an error
// wrapping ErrInvalidArgument.
func (l *Loader) DecodeBytes(data []byte) (*DecodedImage, error) {
	if len(data) == 0 {
		err := fmt.Errorf("%w: empty data", ErrInvalidArgument)
		Logger().Warn("decode rejected", "err", err)
		return nil, err
	}
	return l.decode("<memory>", data)
}

// Load is Decode with the status-code contract of the C interface.
//
// On success it fills *out and returns StatusOK; whatever buffer out held
// before is not released. On failure out is left untouched. A nil out is
// StatusInvalidArgument.
func (l *Loader) Load(path string, out *DecodedImage) Status {
	if out == nil {
		Logger().Warn("decode rejected", "path", path, "err", "nil output record")
		return StatusInvalidArgument
	}
	img, err := l.Decode(path)
	if err != nil {
		return StatusOf(err)
	}
	*out = *img
	return StatusOK
}

func (l *Loader) decode(source string, data []byte) (img *DecodedImage, err error) {
	// Decoder panics are reported as decode failures.
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, l.fail(source, fmt.Errorf("%w: %v", errDecoderPanic, r))
		}
	}()

	cfg, _, err := l.opts.decoder.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, l.fail(source, err)
	}
	if err := l.checkSize(cfg.Width, cfg.Height); err != nil {
		return nil, l.fail(source, err)
	}

	src, format, err := l.opts.decoder.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, l.fail(source, err)
	}

	w, h := src.Rect.Dx(), src.Rect.Dy()
	if err := l.checkSize(w, h); err != nil {
		return nil, l.fail(source, err)
	}

	img, err = l.copyOut(src, w, h)
	if err != nil {
		return nil, l.fail(source, err)
	}

	Logger().Debug("decoded image",
		"path", source,
		"codec", format,
		"width", w,
		"height", h,
		"bytes", img.Len)
	return img, nil
}

func (l *Loader) checkSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("imgload: empty image %dx%d", w, h)
	}
	if w > l.opts.maxDimension || h > l.opts.maxDimension {
		return fmt.Errorf("%w: %dx%d > %d", ErrTooLarge, w, h, l.opts.maxDimension)
	}
	if n := uint64(w) * uint64(h); n > l.opts.maxPixels {
		return fmt.Errorf("%w: %d pixels > %d", ErrTooLarge, n, l.opts.maxPixels)
	}
	return nil
}

// copyOut copies src into a buffer from the loader's allocator.
func (l *Loader) copyOut(src *image.NRGBA, w, h int) (*DecodedImage, error) {
	n := uint64(w) * uint64(h) * Channels
	if n > math.MaxInt {
		return nil, fmt.Errorf("%w: %d bytes", ErrAllocation, n)
	}

	pix, err := l.opts.allocator.Alloc(int(n))
	if err != nil {
		return nil, err
	}
	if uint64(len(pix)) != n {
		l.opts.allocator.Free(pix)
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrAllocation, len(pix), n)
	}

	rowBytes := w * Channels
	for y := 0; y < h; y++ {
		start := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		copy(pix[y*rowBytes:(y+1)*rowBytes], src.Pix[start:start+rowBytes])
	}

	return &DecodedImage{
		Width:    int32(w),
		Height:   int32(h),
		Channels: Channels,
		Pix:      pix,
		Len:      n,
		alloc:    l.opts.allocator,
	}, nil
}

func (l *Loader) fail(source string, err error) error {
	Logger().Warn("decode failed", "path", source, "err", err)
	return fmt.Errorf("%w: %s: %w", ErrDecodeFailure, source, err)
}

// defaultLoader serves the package-level functions.
var defaultLoader = NewLoader()

// Decode decodes the image file at path with the default Loader.
func Decode(path string) (*DecodedImage, error) {
	return defaultLoader.Decode(path)
}

// DecodeBytes decodes an in-memory image file with the default Loader.
func DecodeBytes(data []byte) (*DecodedImage, error) {
	return defaultLoader.DecodeBytes(data)
}

// Load decodes path into out with the default Loader.
// See Loader.Load for the status contract.
func Load(path string, out *DecodedImage) Status {
	return defaultLoader.Load(path, out)
}

// Release frees img's buffer. It is equivalent to img.Release().
func Release(img *DecodedImage) {
	img.Release()
}
