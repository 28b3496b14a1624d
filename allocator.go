package imgload

import "errors"

// ErrAllocation is wrapped by allocators that cannot provide memory.
var ErrAllocation = errors.New("imgload: allocation failed")

// Allocator provides the memory pixel buffers live in.
//
// A DecodedImage remembers the allocator that produced its buffer and
// Release hands the buffer back to that same allocator, so memory is never
// freed by a different allocator family than the one that allocated it.
type Allocator interface {
	// Alloc returns a buffer of exactly n bytes.
	Alloc(n int) ([]byte, error)

	// Free releases a buffer previously returned by Alloc.
	// It is called at most once per buffer.
	Free(b []byte)
}

// GoAllocator allocates pixel buffers on the Go heap.
// Free zeroes the buffer and leaves reclamation to the garbage collector.
type GoAllocator struct{}

// Alloc implements Allocator.
func (GoAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrAllocation
	}
	return make([]byte, n), nil
}

// Free implements Allocator.
func (GoAllocator) Free(b []byte) {
	clear(b)
}
