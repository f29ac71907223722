package arena

import "unsafe"

// chunk describes one contiguous region carved out of a system block.
// Chunks descended from the same block are kept address-ordered in the
// arena's sequence with no gaps and no overlap between neighbours; the sum
// of their sizes always equals the block's original size.
type chunk struct {
	first bool           // begins a block obtained directly from the Go allocator
	free  bool
	size  uintptr        // bytes covered by this chunk
	base  unsafe.Pointer // start of the owning system block
	off   uintptr        // offset of this chunk within the block
}

func (c *chunk) addr() uintptr { return uintptr(c.base) + c.off }

func (c *chunk) ptr() unsafe.Pointer { return unsafe.Add(c.base, c.off) }

// canFit reports whether a request of requestSize bytes at the given
// alignment fits into this chunk once its base address is rounded up to the
// alignment. Pure predicate, no mutation.
func (c *chunk) canFit(requestSize, alignment uintptr) bool {
	pad := alignUp(c.addr(), alignment) - c.addr()
	return pad <= c.size && c.size-pad >= requestSize
}

// splitAlignment carves off the misaligned prefix of this chunk. If the base
// address is already aligned it reports false (common fast path). Otherwise
// this chunk shrinks to cover the prefix and the returned trailing chunk,
// whose base is aligned, must be inserted immediately after it.
func (c *chunk) splitAlignment(alignment uintptr) (chunk, bool) {
	if !c.free {
		panic("arena: splitting an occupied chunk")
	}
	aligned := alignUp(c.addr(), alignment)
	if aligned == c.addr() {
		return chunk{}, false
	}
	lead := aligned - c.addr()
	if lead >= c.size {
		panic("arena: aligned address out of chunk bounds")
	}
	trail := chunk{
		free: true,
		size: c.size - lead,
		base: c.base,
		off:  c.off + lead,
	}
	c.size = lead
	return trail, true
}

// splitSize truncates this chunk to n bytes. An exact fit reports false;
// otherwise the returned remainder chunk must be inserted immediately after
// this one.
func (c *chunk) splitSize(n uintptr) (chunk, bool) {
	if !c.free {
		panic("arena: splitting an occupied chunk")
	}
	if n == 0 || n > c.size {
		panic("arena: split size out of range")
	}
	if n == c.size {
		return chunk{}, false
	}
	rest := chunk{
		free: true,
		size: c.size - n,
		base: c.base,
		off:  c.off + n,
	}
	c.size = n
	return rest, true
}

// merge absorbs other into this chunk. It succeeds only when both chunks are
// free, other does not begin a system block, and other starts exactly where
// this chunk ends within the same block. On failure nothing is mutated.
func (c *chunk) merge(other *chunk) bool {
	if !c.free || !other.free {
		return false
	}
	if other.first {
		return false
	}
	if other.base != c.base || other.addr() < c.addr() {
		return false
	}
	if c.addr()+c.size != other.addr() {
		return false
	}
	c.size += other.size
	return true
}

// alignUp rounds addr up to the next multiple of align. align must be a
// power of two.
func alignUp(addr, align uintptr) uintptr {
	mask := align - 1
	return (addr + mask) &^ mask
}
