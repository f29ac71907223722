package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	id   uint64
	next *node
}

func TestObjectAllocatorAllocate(t *testing.T) {
	a := NewArena()
	alloc := NewObjectAllocatorIn[node](a)

	s, err := alloc.Allocate(16)
	require.NoError(t, err)
	require.Len(t, s, 16)

	// Storage is zeroed and aligned for the element type.
	assert.Zero(t, uintptr(unsafe.Pointer(&s[0]))&(unsafe.Alignof(node{})-1))
	for i := range s {
		assert.Zero(t, s[i].id)
		assert.Nil(t, s[i].next)
	}

	s[0].id = 42
	alloc.DeallocateSlice(s)

	// The released storage is reused and comes back zeroed.
	s2, err := alloc.Allocate(16)
	require.NoError(t, err)
	assert.Equal(t, unsafe.Pointer(&s[0]), unsafe.Pointer(&s2[0]))
	assert.Zero(t, s2[0].id)
}

func TestObjectAllocatorNew(t *testing.T) {
	a := NewArena()
	alloc := NewObjectAllocatorIn[node](a)

	n, err := alloc.New()
	require.NoError(t, err)
	n.id = 7

	alloc.Deallocate(n)
	assert.Zero(t, a.Stats().OccupiedBytes)
}

func TestObjectAllocatorCountContract(t *testing.T) {
	alloc := NewObjectAllocatorIn[node](NewArena())
	assert.Panics(t, func() { _, _ = alloc.Allocate(0) })
	assert.Panics(t, func() { _, _ = alloc.Allocate(-1) })
}

func TestObjectAllocatorEquality(t *testing.T) {
	a1 := NewArena()
	a2 := NewArena()

	x := NewObjectAllocatorIn[node](a1)
	y := NewObjectAllocatorIn[node](a1)
	z := NewObjectAllocatorIn[node](a2)

	assert.True(t, x.Equal(y), "same backing arena")
	assert.False(t, x.Equal(z), "different backing arenas")

	// Copies share the arena rather than cloning it.
	c := x
	assert.True(t, c.Equal(x))

	// The default constructor binds to the process-wide instance.
	g1 := NewObjectAllocator[node]()
	g2 := NewObjectAllocator[byte]()
	assert.Same(t, g1.Arena(), g2.Arena())
}

func TestRebindSharesArena(t *testing.T) {
	a := NewArena()
	nodes := NewObjectAllocatorIn[node](a)
	bytes := Rebind[byte](nodes)

	assert.Same(t, a, bytes.Arena())

	b, err := bytes.Allocate(100)
	require.NoError(t, err)
	require.Len(t, b, 100)
	bytes.DeallocateSlice(b)
	assert.Zero(t, a.Stats().OccupiedBytes)
}
