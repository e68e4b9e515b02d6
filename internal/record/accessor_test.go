package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAccessor(t *testing.T) {
	m := NewMap("catalog.Product", map[string]any{"Name": "A"})
	assert.Equal(t, "catalog.Product", m.TypeName())

	v, err := m.Get("Name")
	require.NoError(t, err)
	assert.Equal(t, "A", v)

	_, err = m.Get("Missing")
	assert.Error(t, err)

	require.NoError(t, m.Set("Active", true))
	v, err = m.Get("Active")
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestMapAccessorNilValues(t *testing.T) {
	m := NewMap("t", nil)
	require.NoError(t, m.Set("X", 1))
	v, err := m.Get("X")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestStructAccessor(t *testing.T) {
	type Event struct {
		Title string
		Count int
		When  time.Time
	}
	e := Event{Title: "launch", Count: 3}
	acc, err := OfStruct(&e)
	require.NoError(t, err)

	v, err := acc.Get("Title")
	require.NoError(t, err)
	assert.Equal(t, "launch", v)

	// Decoded ints arrive as int64 and convert into the narrower field.
	require.NoError(t, acc.Set("Count", int64(7)))
	assert.Equal(t, 7, e.Count)

	when := time.Date(2024, time.March, 15, 13, 30, 0, 0, time.UTC)
	require.NoError(t, acc.Set("When", when))
	assert.True(t, when.Equal(e.When))

	// Nil clears the field.
	require.NoError(t, acc.Set("When", nil))
	assert.True(t, e.When.IsZero())
}

func TestStructAccessorErrors(t *testing.T) {
	type Rec struct{ A string }

	_, err := OfStruct(Rec{})
	assert.Error(t, err)
	_, err = OfStruct(nil)
	assert.Error(t, err)

	var r Rec
	acc, err := OfStruct(&r)
	require.NoError(t, err)

	_, err = acc.Get("Nope")
	assert.Error(t, err)
	assert.Error(t, acc.Set("Nope", "x"))
	assert.Error(t, acc.Set("A", []int{1}))
}

func TestStructAccessorTypeName(t *testing.T) {
	type Product struct{ Name string }
	var p Product
	acc, err := OfStruct(&p)
	require.NoError(t, err)
	assert.Contains(t, acc.TypeName(), "record.Product")
}
