package main

// #include "tga_image.h"
import "C"

import "unsafe"

// record mirrors tga_image with Go field types.
type record struct {
	Width    int32
	Height   int32
	Channels int32
	Data     unsafe.Pointer
	Len      uint64
}

func (r record) toC() C.tga_image {
	return C.tga_image{
		width:    C.int32_t(r.Width),
		height:   C.int32_t(r.Height),
		channels: C.int32_t(r.Channels),
		data:     (*C.uint8_t)(r.Data),
		len:      C.size_t(r.Len),
	}
}

func fromC(c C.tga_image) record {
	return record{
		Width:    int32(c.width),
		Height:   int32(c.height),
		Channels: int32(c.channels),
		Data:     unsafe.Pointer(c.data),
		Len:      uint64(c.len),
	}
}

// loadRecord calls tga_load_rgba with out preset to r and returns the
// status along with out as the call left it.
func loadRecord(path string, r record) (int, record) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	out := r.toC()
	status := tga_load_rgba(cpath, &out)
	return int(status), fromC(out)
}

// freeRecord calls tga_free on r and returns the record as it was left.
func freeRecord(r record) record {
	c := r.toC()
	tga_free(&c)
	return fromC(c)
}
