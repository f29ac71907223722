package arena

import (
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// arrowAlignment matches the buffer alignment Arrow's own allocators
// provide.
const arrowAlignment = 64

// ArrowAllocator adapts an Arena to arrow's memory.Allocator, so record
// builders and buffers draw their storage from arena chunks instead of the
// Go heap.
type ArrowAllocator struct {
	raw *Arena
}

var _ memory.Allocator = (*ArrowAllocator)(nil)

// NewArrowAllocator returns an allocator over raw. A nil raw means the
// process-wide arena.
func NewArrowAllocator(raw *Arena) *ArrowAllocator {
	if raw == nil {
		raw = Global()
	}
	return &ArrowAllocator{raw: raw}
}

// Allocate returns a zeroed buffer of size bytes at Arrow's buffer
// alignment. The memory.Allocator interface has no error path, so an
// unsatisfiable request panics, like Arrow's own allocators.
func (a *ArrowAllocator) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}
	p, err := a.raw.Allocate(uintptr(size), arrowAlignment)
	if err != nil {
		panic(err)
	}
	b := unsafe.Slice((*byte)(p), size)
	clear(b)
	return b
}

// Reallocate grows or shrinks b to size bytes, preserving its prefix.
func (a *ArrowAllocator) Reallocate(size int, b []byte) []byte {
	if size == len(b) {
		return b
	}
	if size <= 0 {
		a.Free(b)
		return nil
	}
	nb := a.Allocate(size)
	copy(nb, b)
	a.Free(b)
	return nb
}

// Free returns b's storage to the arena.
func (a *ArrowAllocator) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	a.raw.Release(unsafe.Pointer(unsafe.SliceData(b)))
}

// Install routes Arrow's process-default allocation entry points through
// the process-wide arena, so every Arrow consumer in the process that uses
// memory.DefaultAllocator is serviced by it.
func Install() {
	memory.DefaultAllocator = NewArrowAllocator(nil)
}
