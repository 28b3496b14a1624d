// Package imgload decodes image files into raw RGBA pixel buffers.
//
// # Overview
//
// imgload is a thin layer over image codecs: give it a path, get back the
// pixels as tightly packed, non-premultiplied RGBA bytes together with the
// image geometry. It exists for callers that want plain buffers rather than
// image.Image values, typically to upload them as textures or to hand them
// across a C boundary (see cmd/libimgload).
//
// # Quick Start
//
//	import "github.com/gogpu/imgload"
//
//	img, err := imgload.Decode("sprite.tga")
//	if err != nil {
//	    return err
//	}
//	defer img.Release()
//
//	upload(img.Pix, img.Width, img.Height)
//
// # Formats
//
// The default StdDecoder handles PNG, JPEG and GIF from the standard library,
// BMP, TIFF and WebP from golang.org/x/image, and Truevision TGA. TGA has no
// magic number and is tried last.
//
// # Ownership
//
// A DecodedImage owns its buffer until Release. Release returns the buffer to
// the Allocator that produced it and zeroes the record; calling it again is a
// no-op. Buffers come from the Go heap unless WithAllocator says otherwise.
//
// # Errors
//
// Failures fall in two classes, exposed both as wrapped sentinel errors and
// as Status codes for the C-style API:
//   - ErrInvalidArgument / StatusInvalidArgument: empty path or nil record
//   - ErrDecodeFailure / StatusDecodeFailure: anything the decoder rejects
package imgload
