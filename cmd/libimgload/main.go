// Command libimgload builds imgload as a C shared library.
//
//	go build -buildmode=c-shared -o libimgload.so ./cmd/libimgload
//
// tga_image.h and the generated header declare:
//
//	typedef struct {
//	    int32_t  width;
//	    int32_t  height;
//	    int32_t  channels;  // always 4 after a successful load
//	    uint8_t* data;      // RGBA pixels, freed by tga_free
//	    size_t   len;       // width * height * 4
//	} tga_image;
//
//	int  tga_load_rgba(const char* path, tga_image* out); // 0, -1 or -2
//	void tga_free(tga_image* img);
//
// Pixel buffers live on the C heap and are released with free(), so they
// stay valid independently of the Go garbage collector.
package main

// #include "tga_image.h"
import "C"

import (
	"unsafe"

	"github.com/gogpu/imgload"
)

// cAllocator hands out malloc'd memory viewed as Go slices.
type cAllocator struct{}

func (cAllocator) Alloc(n int) ([]byte, error) {
	if n <= 0 {
		return nil, imgload.ErrAllocation
	}
	p := C.malloc(C.size_t(n))
	if p == nil {
		return nil, imgload.ErrAllocation
	}
	return unsafe.Slice((*byte)(p), n), nil
}

func (cAllocator) Free(b []byte) {
	if b == nil {
		return
	}
	C.free(unsafe.Pointer(unsafe.SliceData(b)))
}

var loader = imgload.NewLoader(imgload.WithAllocator(cAllocator{}))

//export tga_load_rgba
func tga_load_rgba(path *C.char, out *C.tga_image) C.int {
	if path == nil || out == nil {
		return C.int(imgload.StatusInvalidArgument)
	}

	var img imgload.DecodedImage
	if status := loader.Load(C.GoString(path), &img); status != imgload.StatusOK {
		return C.int(status)
	}

	// Ownership moves to the C record; img is not released here.
	out.width = C.int32_t(img.Width)
	out.height = C.int32_t(img.Height)
	out.channels = C.int32_t(img.Channels)
	out.data = (*C.uint8_t)(unsafe.Pointer(unsafe.SliceData(img.Pix)))
	out.len = C.size_t(img.Len)
	return C.int(imgload.StatusOK)
}

//export tga_free
func tga_free(img *C.tga_image) {
	if img == nil || img.data == nil {
		return
	}
	cAllocator{}.Free(unsafe.Slice((*byte)(unsafe.Pointer(img.data)), int(img.len)))
	img.data = nil
	img.len = 0
	img.width, img.height, img.channels = 0, 0, 0
}

func main() {}
