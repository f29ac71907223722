// Package arena implements a chunk-based first-fit allocator with explicit
// control over alignment, chunk reuse and coalescing. A single Arena owns a
// set of large blocks obtained from the Go allocator, splits them into
// chunks to satisfy requests and merges adjacent free chunks on release.
// Blocks are held for the arena's lifetime and never returned to the
// system.
package arena

import (
	"errors"
	"math"
	"slices"
	"sync"
	"unsafe"

	"github.com/23skdu/memarena/internal/metrics"
)

// DefaultAlignment is used by AllocateDefault.
const DefaultAlignment = 8

// minBlockSize is the floor for new system blocks. Small requests amortize
// into one block instead of each paying for their own.
const minBlockSize = 4096

// maxBlockSize caps a single system block at what the Go allocator can
// represent.
const maxBlockSize = uintptr(math.MaxInt)

// ErrOutOfMemory is returned when the underlying system allocator cannot
// provide a backing block for the request.
var ErrOutOfMemory = errors.New("arena: out of memory")

// Arena is a first-fit chunk allocator. All mutation of the chunk sequence
// happens under a single mutex held for the full body of Allocate and
// Release; there is no finer-grained locking and no lock-free path.
type Arena struct {
	mu     sync.Mutex
	chunks []chunk
	blocks [][]byte // system blocks, held alive for the arena's lifetime
}

// NewArena returns an empty arena. The first allocation obtains the first
// system block.
func NewArena() *Arena {
	return &Arena{}
}

// Allocate returns a pointer to size bytes aligned to alignment. size must
// be positive and alignment a power of two; violating either is a
// programming error and panics. The occupied region is exactly
// [ptr, ptr+size) and disjoint from every other chunk. Returns
// ErrOutOfMemory when no backing block can be obtained.
func (a *Arena) Allocate(size, alignment uintptr) (unsafe.Pointer, error) {
	if size == 0 {
		panic("arena: size must be positive")
	}
	if alignment == 0 || alignment&(alignment-1) != 0 {
		panic("arena: alignment must be a power of two")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// First-fit scan over the whole sequence.
	idx := -1
	for i := range a.chunks {
		c := &a.chunks[i]
		if c.free && c.canFit(size, alignment) {
			idx = i
			break
		}
	}

	if idx < 0 {
		// No suitable chunk; wrap a fresh system block in a single free
		// chunk and insert it at the front of the sequence.
		blockSize := size + alignment
		if blockSize < size {
			return nil, ErrOutOfMemory
		}
		if blockSize < minBlockSize {
			blockSize = minBlockSize
		}
		block, err := newBlock(blockSize)
		if err != nil {
			return nil, err
		}
		a.blocks = append(a.blocks, block)
		a.chunks = slices.Insert(a.chunks, 0, chunk{
			first: true,
			free:  true,
			size:  blockSize,
			base:  unsafe.Pointer(&block[0]),
		})
		idx = 0
		metrics.ArenaSystemBlocksTotal.Inc()
		metrics.ArenaReservedBytes.Add(float64(blockSize))
	}

	// Carve the chosen chunk: misaligned prefix first, then the exact size.
	if trail, ok := a.chunks[idx].splitAlignment(alignment); ok {
		a.chunks = slices.Insert(a.chunks, idx+1, trail)
		idx++
	}
	if rest, ok := a.chunks[idx].splitSize(size); ok {
		a.chunks = slices.Insert(a.chunks, idx+1, rest)
	}

	c := &a.chunks[idx]
	c.free = false
	metrics.ArenaAllocationsTotal.Inc()
	metrics.ArenaOccupiedBytes.Add(float64(c.size))
	return c.ptr(), nil
}

// AllocateDefault returns size bytes at DefaultAlignment.
func (a *Arena) AllocateDefault(size uintptr) (unsafe.Pointer, error) {
	return a.Allocate(size, DefaultAlignment)
}

// Release marks the chunk starting at p free and coalesces it with its
// immediate neighbours. Pointers the arena does not own, including already
// released ones, are ignored.
func (a *Arena) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	idx := -1
	for i := range a.chunks {
		c := &a.chunks[i]
		if !c.free && c.ptr() == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		metrics.ArenaForeignReleasesTotal.Inc()
		return
	}

	a.chunks[idx].free = true
	metrics.ArenaReleasesTotal.Inc()
	metrics.ArenaOccupiedBytes.Sub(float64(a.chunks[idx].size))

	// One merge per side: predecessor first, then successor of whatever
	// chunk survived. merge itself rejects block boundaries.
	if idx > 0 && a.chunks[idx-1].merge(&a.chunks[idx]) {
		a.chunks = slices.Delete(a.chunks, idx, idx+1)
		idx--
	}
	if idx+1 < len(a.chunks) && a.chunks[idx].merge(&a.chunks[idx+1]) {
		a.chunks = slices.Delete(a.chunks, idx+1, idx+2)
	}
}

// Stats is a point-in-time snapshot of an arena's bookkeeping.
type Stats struct {
	Chunks        int
	FreeChunks    int
	SystemBlocks  int
	ReservedBytes uintptr
	OccupiedBytes uintptr
}

// Stats returns a snapshot of the arena's bookkeeping.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Stats{
		Chunks:       len(a.chunks),
		SystemBlocks: len(a.blocks),
	}
	for i := range a.blocks {
		s.ReservedBytes += uintptr(len(a.blocks[i]))
	}
	for i := range a.chunks {
		if a.chunks[i].free {
			s.FreeChunks++
		} else {
			s.OccupiedBytes += a.chunks[i].size
		}
	}
	return s
}

// newBlock obtains one block from the Go allocator. Requests the runtime
// cannot represent surface as ErrOutOfMemory instead of a crash.
func newBlock(n uintptr) (b []byte, err error) {
	if n > maxBlockSize {
		return nil, ErrOutOfMemory
	}
	defer func() {
		// makeslice panics on lengths beyond the runtime's allocation
		// limit; report those as allocation failure.
		if recover() != nil {
			b, err = nil, ErrOutOfMemory
		}
	}()
	return make([]byte, n), nil
}
