package arena

import "unsafe"

// ObjectAllocator carves storage for values of type T out of a backing
// Arena. It is the shape generic containers expect from a pluggable
// allocator: Allocate/Deallocate, identity-based equality and Rebind.
// Copies share the backing arena rather than cloning it.
type ObjectAllocator[T any] struct {
	raw *Arena
}

// NewObjectAllocator returns an allocator backed by the process-wide arena.
func NewObjectAllocator[T any]() ObjectAllocator[T] {
	return ObjectAllocator[T]{raw: Global()}
}

// NewObjectAllocatorIn returns an allocator backed by an explicit arena.
func NewObjectAllocatorIn[T any](raw *Arena) ObjectAllocator[T] {
	return ObjectAllocator[T]{raw: raw}
}

// Arena returns the backing arena.
func (a ObjectAllocator[T]) Arena() *Arena {
	return a.raw
}

// Allocate returns zeroed storage for n values of T, requested at T's
// natural alignment. n must be positive.
func (a ObjectAllocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		panic("arena: element count must be positive")
	}
	var zero T
	size := uintptr(n) * unsafe.Sizeof(zero)
	if size == 0 {
		size = 1
	}
	p, err := a.raw.Allocate(size, unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	s := unsafe.Slice((*T)(p), n)
	clear(s)
	return s, nil
}

// New returns a single zeroed T in arena storage.
func (a ObjectAllocator[T]) New() (*T, error) {
	s, err := a.Allocate(1)
	if err != nil {
		return nil, err
	}
	return &s[0], nil
}

// Deallocate releases storage previously returned by New or by Allocate
// with n == 1.
func (a ObjectAllocator[T]) Deallocate(p *T) {
	a.raw.Release(unsafe.Pointer(p))
}

// DeallocateSlice releases storage previously returned by Allocate.
func (a ObjectAllocator[T]) DeallocateSlice(s []T) {
	if len(s) == 0 {
		return
	}
	a.raw.Release(unsafe.Pointer(unsafe.SliceData(s)))
}

// Equal reports whether both allocators draw from the same arena.
func (a ObjectAllocator[T]) Equal(other ObjectAllocator[T]) bool {
	return a.raw == other.raw
}

// Rebind returns an allocator for element type U sharing a's backing arena.
func Rebind[U, T any](a ObjectAllocator[T]) ObjectAllocator[U] {
	return ObjectAllocator[U]{raw: a.raw}
}
