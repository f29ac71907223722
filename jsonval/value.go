// Package jsonval provides a JSON value tree whose nodes and payloads live
// in arena storage obtained through the arena package's typed allocation
// adapter. Values are built and freed through a Tree, traversed through a
// double-dispatch Visitor, and rendered to text by a Serializer.
package jsonval

import (
	"fmt"
	"unsafe"
)

// Kind identifies which alternative a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// span references a byte region inside arena storage.
type span struct {
	p unsafe.Pointer
	n int
}

func (s span) view() string {
	if s.n == 0 {
		return ""
	}
	return unsafe.String((*byte)(s.p), s.n)
}

// vector references growable element storage inside the arena. Only arena
// pointers are stored here, never Go-heap pointers, so the garbage
// collector has nothing to trace through arena memory.
type vector struct {
	p        unsafe.Pointer
	len, cap int
}

// member is one key/value pair of a map value. Members are kept sorted by
// key.
type member struct {
	key span
	val *Value
}

// Value is a tagged union over null, boolean, number, string, array and
// map. The zero Value is null. Values are created, mutated and released
// through a Tree; reading accessors are safe on any Value.
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  span
	arr  vector // elements, *Value
	mems vector // members, sorted by key
}

// Kind returns the alternative this value holds.
func (v *Value) Kind() Kind { return v.kind }

func (v *Value) IsNull() bool   { return v.kind == KindNull }
func (v *Value) IsBool() bool   { return v.kind == KindBool }
func (v *Value) IsNumber() bool { return v.kind == KindNumber }
func (v *Value) IsString() bool { return v.kind == KindString }
func (v *Value) IsArray() bool  { return v.kind == KindArray }
func (v *Value) IsMap() bool    { return v.kind == KindMap }

// Bool returns the boolean alternative.
func (v *Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, fmt.Errorf("jsonval: Bool on %s value: %w", v.kind, ErrKindMismatch)
	}
	return v.b, nil
}

// Number returns the number alternative.
func (v *Value) Number() (float64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("jsonval: Number on %s value: %w", v.kind, ErrKindMismatch)
	}
	return v.num, nil
}

// String returns the string alternative. The returned string views arena
// storage and stays valid while the value's tree is alive.
func (v *Value) String() (string, error) {
	if v.kind != KindString {
		return "", fmt.Errorf("jsonval: String on %s value: %w", v.kind, ErrKindMismatch)
	}
	return v.str.view(), nil
}

// Len returns the number of elements of an array or members of a map.
func (v *Value) Len() (int, error) {
	switch v.kind {
	case KindArray:
		return v.arr.len, nil
	case KindMap:
		return v.mems.len, nil
	}
	return 0, fmt.Errorf("jsonval: Len on %s value: %w", v.kind, ErrKindMismatch)
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	if v.kind != KindArray {
		return nil, fmt.Errorf("jsonval: Index on %s value: %w", v.kind, ErrKindMismatch)
	}
	if i < 0 || i >= v.arr.len {
		return nil, fmt.Errorf("jsonval: index %d of %d: %w", i, v.arr.len, ErrIndexOutOfRange)
	}
	return v.elems()[i], nil
}

// Get returns the value stored under key in a map.
func (v *Value) Get(key string) (*Value, error) {
	if v.kind != KindMap {
		return nil, fmt.Errorf("jsonval: Get on %s value: %w", v.kind, ErrKindMismatch)
	}
	mems := v.members()
	i := searchMembers(mems, key)
	if i < len(mems) && mems[i].key.view() == key {
		return mems[i].val, nil
	}
	return nil, fmt.Errorf("jsonval: %q: %w", key, ErrKeyNotFound)
}

// Keys returns the keys of a map in sorted order.
func (v *Value) Keys() ([]string, error) {
	if v.kind != KindMap {
		return nil, fmt.Errorf("jsonval: Keys on %s value: %w", v.kind, ErrKindMismatch)
	}
	mems := v.members()
	keys := make([]string, len(mems))
	for i := range mems {
		keys[i] = mems[i].key.view()
	}
	return keys, nil
}

// Equal reports deep equality of two value trees.
func (v *Value) Equal(o *Value) bool {
	if o == nil {
		return false
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str.view() == o.str.view()
	case KindArray:
		if v.arr.len != o.arr.len {
			return false
		}
		ve, oe := v.elems(), o.elems()
		for i := range ve {
			if !ve[i].Equal(oe[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if v.mems.len != o.mems.len {
			return false
		}
		vm, om := v.members(), o.members()
		for i := range vm {
			if vm[i].key.view() != om[i].key.view() || !vm[i].val.Equal(om[i].val) {
				return false
			}
		}
		return true
	}
	return false
}

func (v *Value) elems() []*Value {
	if v.arr.len == 0 {
		return nil
	}
	return unsafe.Slice((**Value)(v.arr.p), v.arr.len)
}

func (v *Value) members() []member {
	if v.mems.len == 0 {
		return nil
	}
	return unsafe.Slice((*member)(v.mems.p), v.mems.len)
}

// searchMembers returns the insertion position of key in the sorted member
// slice.
func searchMembers(mems []member, key string) int {
	lo, hi := 0, len(mems)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if mems[mid].key.view() < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
