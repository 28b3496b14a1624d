package imgload

import "math"

// MaxDimension is the default limit on image width and height.
const MaxDimension = 1 << 24

// MaxPixels is the default limit on width*height. At 4 bytes per pixel
// it caps a single decoded buffer at 1 GiB.
const MaxPixels = 1 << 28

// Option configures a Loader during creation.
//
// Example:
//
//	// Defaults: every built-in codec, Go heap buffers.
//	l := imgload.NewLoader()
//
//	// Refuse anything wider or taller than 8192 pixels.
//	l := imgload.NewLoader(imgload.WithMaxDimension(8192))
//
//	// Refuse anything above 16 megapixels.
//	l := imgload.NewLoader(imgload.WithMaxPixels(16 << 20))
type Option func(*options)

// options holds optional configuration for Loader creation.
type options struct {
	decoder      Decoder
	allocator    Allocator
	maxDimension int
	maxPixels    uint64
}

// defaultOptions returns the default loader options.
func defaultOptions() options {
	return options{
		decoder:      StdDecoder{},
		allocator:    GoAllocator{},
		maxDimension: MaxDimension,
		maxPixels:    MaxPixels,
	}
}

// WithDecoder replaces the codec set used by the Loader.
// A nil decoder keeps the default.
func WithDecoder(d Decoder) Option {
	return func(o *options) {
		if d != nil {
			o.decoder = d
		}
	}
}

// WithAllocator sets where pixel buffers are allocated.
// Buffers are released through the same allocator.
// A nil allocator keeps the default.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.allocator = a
		}
	}
}

// WithMaxDimension limits the width and height of decoded images.
// Values <= 0 keep the default; values above math.MaxInt32 are clamped
// because dimensions are reported as int32.
func WithMaxDimension(n int) Option {
	return func(o *options) {
		switch {
		case n <= 0:
			return
		case n > math.MaxInt32:
			o.maxDimension = math.MaxInt32
		default:
			o.maxDimension = n
		}
	}
}

// WithMaxPixels limits width*height of decoded images. The limit is checked
// against the header before any pixel data is decoded. Values <= 0 keep the
// default.
func WithMaxPixels(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPixels = uint64(n)
		}
	}
}
