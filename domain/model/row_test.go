package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRow(t *testing.T) {
	t.Parallel()

	t.Run("keeps key order", func(t *testing.T) {
		t.Parallel()

		r := NewRow([]string{"b", "a"}, []Value{NewNumber(1), NewString("x")})
		assert.Equal(t, []string{"b", "a"}, r.Keys())
		assert.Equal(t, 2, r.Len())
		assert.True(t, NewNumber(1).Equal(r.Get("b")))
	})

	t.Run("duplicate key keeps first position and last value", func(t *testing.T) {
		t.Parallel()

		r := NewRow([]string{"a", "b", "a"}, []Value{NewNumber(1), NewNumber(2), NewNumber(3)})
		assert.Equal(t, []string{"a", "b"}, r.Keys())
		assert.True(t, NewNumber(3).Equal(r.Get("a")))
	})

	t.Run("short value slice pads with null", func(t *testing.T) {
		t.Parallel()

		r := NewRow([]string{"a", "b"}, []Value{NewNumber(1)})
		v, ok := r.Lookup("b")
		assert.True(t, ok)
		assert.True(t, v.IsNull())
	})

	t.Run("missing key is undefined", func(t *testing.T) {
		t.Parallel()

		r := NewRow([]string{"a"}, []Value{NewNumber(1)})
		_, ok := r.Lookup("z")
		assert.False(t, ok)
		assert.True(t, r.Get("z").IsNull())
	})

	t.Run("keys are copied", func(t *testing.T) {
		t.Parallel()

		r := NewRow([]string{"a"}, []Value{NewNumber(1)})
		keys := r.Keys()
		keys[0] = "changed"
		assert.Equal(t, []string{"a"}, r.Keys())
	})
}

func TestRow_Equal(t *testing.T) {
	t.Parallel()

	a := NewRow([]string{"x", "y"}, []Value{NewNumber(1), Null()})
	b := NewRow([]string{"x", "y"}, []Value{NewNumber(1), Null()})
	c := NewRow([]string{"y", "x"}, []Value{Null(), NewNumber(1)})
	d := NewRow([]string{"x", "y"}, []Value{NewNumber(1), NewString("")})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "key order matters")
	assert.False(t, a.Equal(d))
}

func TestRowSet(t *testing.T) {
	t.Parallel()

	var empty RowSet
	assert.Nil(t, empty.Header())
	assert.Equal(t, 0, empty.Len())

	rs := RowSet{
		NewRow([]string{"id", "name"}, []Value{NewNumber(1), NewString("a")}),
		NewRow([]string{"id"}, []Value{NewNumber(2)}),
	}
	assert.Equal(t, Header{"id", "name"}, rs.Header())
	assert.Equal(t, 2, rs.Len())
}

func TestHeader_Equal(t *testing.T) {
	t.Parallel()

	assert.True(t, NewHeader([]string{"a", "b"}).Equal(Header{"a", "b"}))
	assert.False(t, NewHeader([]string{"a", "b"}).Equal(Header{"b", "a"}))
	assert.False(t, NewHeader([]string{"a"}).Equal(Header{"a", "b"}))
}
