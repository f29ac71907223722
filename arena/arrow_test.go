package arena

import (
	"testing"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrowAllocatorAllocate(t *testing.T) {
	a := NewArena()
	alloc := NewArrowAllocator(a)

	b := alloc.Allocate(1000)
	require.Len(t, b, 1000)
	assert.Zero(t, uintptr(unsafe.Pointer(unsafe.SliceData(b)))&(arrowAlignment-1))
	for _, v := range b {
		assert.Zero(t, v)
	}

	alloc.Free(b)
	assert.Zero(t, a.Stats().OccupiedBytes)

	assert.Nil(t, alloc.Allocate(0))
	alloc.Free(nil)
}

func TestArrowAllocatorReallocate(t *testing.T) {
	a := NewArena()
	alloc := NewArrowAllocator(a)

	b := alloc.Allocate(64)
	for i := range b {
		b[i] = byte(i)
	}

	grown := alloc.Reallocate(128, b)
	require.Len(t, grown, 128)
	for i := 0; i < 64; i++ {
		assert.Equal(t, byte(i), grown[i])
	}

	same := alloc.Reallocate(128, grown)
	assert.Equal(t, unsafe.SliceData(grown), unsafe.SliceData(same))

	alloc.Free(same)
	assert.Zero(t, a.Stats().OccupiedBytes)
}

func TestArrowAllocatorWithBuffer(t *testing.T) {
	a := NewArena()
	alloc := NewArrowAllocator(a)

	buf := memory.NewResizableBuffer(alloc)
	buf.Resize(512)
	copy(buf.Bytes(), "arena-backed")
	buf.Resize(2048)
	assert.Equal(t, "arena-backed", string(buf.Bytes()[:12]))
	buf.Release()

	assert.Zero(t, a.Stats().OccupiedBytes)
}

func TestInstallRoutesDefaultAllocator(t *testing.T) {
	prev := memory.DefaultAllocator
	defer func() { memory.DefaultAllocator = prev }()

	Install()

	alloc, ok := memory.DefaultAllocator.(*ArrowAllocator)
	require.True(t, ok)
	assert.Same(t, Global(), alloc.raw)

	b := memory.DefaultAllocator.Allocate(256)
	require.Len(t, b, 256)
	memory.DefaultAllocator.Free(b)
}
