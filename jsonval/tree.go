package jsonval

import (
	"fmt"
	"unsafe"

	"github.com/23skdu/memarena/arena"
)

// Tree builds and releases Values. All node and payload storage is drawn
// from one backing arena through rebinds of a single typed allocator, so
// every tree built over the same arena compares equal on its allocators.
type Tree struct {
	vals  arena.ObjectAllocator[Value]
	bytes arena.ObjectAllocator[byte]
	refs  arena.ObjectAllocator[*Value]
	mems  arena.ObjectAllocator[member]
}

// NewTree returns a Tree backed by the process-wide arena.
func NewTree() *Tree {
	return NewTreeIn(arena.Global())
}

// NewTreeIn returns a Tree backed by an explicit arena.
func NewTreeIn(a *arena.Arena) *Tree {
	vals := arena.NewObjectAllocatorIn[Value](a)
	return &Tree{
		vals:  vals,
		bytes: arena.Rebind[byte](vals),
		refs:  arena.Rebind[*Value](vals),
		mems:  arena.Rebind[member](vals),
	}
}

// Arena returns the backing arena.
func (t *Tree) Arena() *arena.Arena {
	return t.vals.Arena()
}

// Null allocates a null value.
func (t *Tree) Null() (*Value, error) {
	return t.vals.New()
}

// Bool allocates a boolean value.
func (t *Tree) Bool(b bool) (*Value, error) {
	v, err := t.vals.New()
	if err != nil {
		return nil, err
	}
	v.kind = KindBool
	v.b = b
	return v, nil
}

// Number allocates a number value.
func (t *Tree) Number(n float64) (*Value, error) {
	v, err := t.vals.New()
	if err != nil {
		return nil, err
	}
	v.kind = KindNumber
	v.num = n
	return v, nil
}

// String allocates a string value. The bytes of s are copied into arena
// storage.
func (t *Tree) String(s string) (*Value, error) {
	v, err := t.vals.New()
	if err != nil {
		return nil, err
	}
	v.kind = KindString
	if len(s) > 0 {
		v.str, err = t.copyBytes(s)
		if err != nil {
			t.vals.Deallocate(v)
			return nil, err
		}
	}
	return v, nil
}

// Array allocates an empty array value.
func (t *Tree) Array() (*Value, error) {
	v, err := t.vals.New()
	if err != nil {
		return nil, err
	}
	v.kind = KindArray
	return v, nil
}

// Map allocates an empty map value.
func (t *Tree) Map() (*Value, error) {
	v, err := t.vals.New()
	if err != nil {
		return nil, err
	}
	v.kind = KindMap
	return v, nil
}

// Append adds child at the end of the array value arr. The tree takes
// ownership of child.
func (t *Tree) Append(arr *Value, child *Value) error {
	if arr.kind != KindArray {
		return fmt.Errorf("jsonval: Append on %s value: %w", arr.kind, ErrKindMismatch)
	}
	if arr.arr.len == arr.arr.cap {
		if err := t.growElems(arr); err != nil {
			return err
		}
	}
	storage := unsafe.Slice((**Value)(arr.arr.p), arr.arr.cap)
	storage[arr.arr.len] = child
	arr.arr.len++
	return nil
}

// Set stores child under key in the map value m, keeping members sorted by
// key. A previously stored value under the same key is freed.
func (t *Tree) Set(m *Value, key string, child *Value) error {
	if m.kind != KindMap {
		return fmt.Errorf("jsonval: Set on %s value: %w", m.kind, ErrKindMismatch)
	}

	mems := m.members()
	i := searchMembers(mems, key)
	if i < len(mems) && mems[i].key.view() == key {
		old := mems[i].val
		mems[i].val = child
		t.Free(old)
		return nil
	}

	if m.mems.len == m.mems.cap {
		if err := t.growMembers(m); err != nil {
			return err
		}
	}
	keySpan, err := t.copyBytes(key)
	if err != nil {
		return err
	}

	storage := unsafe.Slice((*member)(m.mems.p), m.mems.cap)
	copy(storage[i+1:m.mems.len+1], storage[i:m.mems.len])
	storage[i] = member{key: keySpan, val: child}
	m.mems.len++
	return nil
}

// Free releases the whole value tree rooted at v back to the arena.
func (t *Tree) Free(v *Value) {
	if v == nil {
		return
	}
	switch v.kind {
	case KindString:
		t.freeSpan(v.str)
	case KindArray:
		for _, c := range v.elems() {
			t.Free(c)
		}
		if v.arr.cap > 0 {
			t.refs.DeallocateSlice(unsafe.Slice((**Value)(v.arr.p), v.arr.cap))
		}
	case KindMap:
		for _, m := range v.members() {
			t.freeSpan(m.key)
			t.Free(m.val)
		}
		if v.mems.cap > 0 {
			t.mems.DeallocateSlice(unsafe.Slice((*member)(v.mems.p), v.mems.cap))
		}
	}
	t.vals.Deallocate(v)
}

func (t *Tree) copyBytes(s string) (span, error) {
	if len(s) == 0 {
		return span{}, nil
	}
	b, err := t.bytes.Allocate(len(s))
	if err != nil {
		return span{}, err
	}
	copy(b, s)
	return span{p: unsafe.Pointer(unsafe.SliceData(b)), n: len(s)}, nil
}

func (t *Tree) freeSpan(s span) {
	if s.n == 0 {
		return
	}
	t.bytes.DeallocateSlice(unsafe.Slice((*byte)(s.p), s.n))
}

func (t *Tree) growElems(arr *Value) error {
	newCap := arr.arr.cap * 2
	if newCap == 0 {
		newCap = 4
	}
	storage, err := t.refs.Allocate(newCap)
	if err != nil {
		return err
	}
	if arr.arr.cap > 0 {
		old := unsafe.Slice((**Value)(arr.arr.p), arr.arr.cap)
		copy(storage, old[:arr.arr.len])
		t.refs.DeallocateSlice(old)
	}
	arr.arr.p = unsafe.Pointer(unsafe.SliceData(storage))
	arr.arr.cap = newCap
	return nil
}

func (t *Tree) growMembers(m *Value) error {
	newCap := m.mems.cap * 2
	if newCap == 0 {
		newCap = 4
	}
	storage, err := t.mems.Allocate(newCap)
	if err != nil {
		return err
	}
	if m.mems.cap > 0 {
		old := unsafe.Slice((*member)(m.mems.p), m.mems.cap)
		copy(storage, old[:m.mems.len])
		t.mems.DeallocateSlice(old)
	}
	m.mems.p = unsafe.Pointer(unsafe.SliceData(storage))
	m.mems.cap = newCap
	return nil
}
