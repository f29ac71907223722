package jsonval

import (
	"testing"

	"github.com/23skdu/memarena/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T) *Tree {
	t.Helper()
	return NewTreeIn(arena.NewArena())
}

func TestConstructNull(t *testing.T) {
	tr := newTestTree(t)
	v, err := tr.Null()
	require.NoError(t, err)
	assert.Equal(t, KindNull, v.Kind())
	assert.True(t, v.IsNull())
}

func TestConstructBool(t *testing.T) {
	tr := newTestTree(t)
	v, err := tr.Bool(false)
	require.NoError(t, err)
	assert.Equal(t, KindBool, v.Kind())
	assert.True(t, v.IsBool())

	b, err := v.Bool()
	require.NoError(t, err)
	assert.False(t, b)
}

func TestConstructNumber(t *testing.T) {
	tr := newTestTree(t)
	v, err := tr.Number(10)
	require.NoError(t, err)
	assert.Equal(t, KindNumber, v.Kind())

	n, err := v.Number()
	require.NoError(t, err)
	assert.Equal(t, float64(10), n)
}

func TestConstructString(t *testing.T) {
	tr := newTestTree(t)
	v, err := tr.String("hello")
	require.NoError(t, err)
	assert.Equal(t, KindString, v.Kind())

	s, err := v.String()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	empty, err := tr.String("")
	require.NoError(t, err)
	s, err = empty.String()
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestConstructArray(t *testing.T) {
	tr := newTestTree(t)
	v, err := tr.Array()
	require.NoError(t, err)
	assert.Equal(t, KindArray, v.Kind())

	n, err := v.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConstructMap(t *testing.T) {
	tr := newTestTree(t)
	v, err := tr.Map()
	require.NoError(t, err)
	assert.Equal(t, KindMap, v.Kind())
	assert.True(t, v.IsMap())
}

func TestAccessorKindMismatch(t *testing.T) {
	tr := newTestTree(t)
	v, err := tr.Number(1)
	require.NoError(t, err)

	_, err = v.Bool()
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, err = v.String()
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, err = v.Len()
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, err = v.Index(0)
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, err = v.Get("k")
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestArrayAppendIndex(t *testing.T) {
	tr := newTestTree(t)
	arr, err := tr.Array()
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		child, err := tr.Number(float64(i))
		require.NoError(t, err)
		require.NoError(t, tr.Append(arr, child))
	}

	n, err := arr.Len()
	require.NoError(t, err)
	require.Equal(t, 20, n)

	for i := 0; i < 20; i++ {
		child, err := arr.Index(i)
		require.NoError(t, err)
		got, err := child.Number()
		require.NoError(t, err)
		assert.Equal(t, float64(i), got)
	}

	_, err = arr.Index(20)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = arr.Index(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMapSetGetKeys(t *testing.T) {
	tr := newTestTree(t)
	m, err := tr.Map()
	require.NoError(t, err)

	for _, key := range []string{"zeta", "alpha", "mid"} {
		child, err := tr.String(key)
		require.NoError(t, err)
		require.NoError(t, tr.Set(m, key, child))
	}

	keys, err := m.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, keys)

	got, err := m.Get("mid")
	require.NoError(t, err)
	s, err := got.String()
	require.NoError(t, err)
	assert.Equal(t, "mid", s)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMapSetReplacesValue(t *testing.T) {
	tr := newTestTree(t)
	m, err := tr.Map()
	require.NoError(t, err)

	first, err := tr.Number(1)
	require.NoError(t, err)
	require.NoError(t, tr.Set(m, "k", first))

	second, err := tr.Number(2)
	require.NoError(t, err)
	require.NoError(t, tr.Set(m, "k", second))

	n, err := m.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := m.Get("k")
	require.NoError(t, err)
	num, err := got.Number()
	require.NoError(t, err)
	assert.Equal(t, float64(2), num)
}

func TestEqual(t *testing.T) {
	tr := newTestTree(t)

	build := func() *Value {
		m, err := tr.Map()
		require.NoError(t, err)
		arr, err := tr.Array()
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			n, err := tr.Number(float64(i))
			require.NoError(t, err)
			require.NoError(t, tr.Append(arr, n))
		}
		s, err := tr.String("txt")
		require.NoError(t, err)
		require.NoError(t, tr.Set(m, "arr", arr))
		require.NoError(t, tr.Set(m, "s", s))
		return m
	}

	x, y := build(), build()
	assert.True(t, x.Equal(y))

	extra, err := tr.Bool(true)
	require.NoError(t, err)
	require.NoError(t, tr.Set(y, "b", extra))
	assert.False(t, x.Equal(y))
}
