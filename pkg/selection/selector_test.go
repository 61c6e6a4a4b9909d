package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectorAdd(t *testing.T) {
	s := NewSelector()
	s.Add(false, "b", "a")
	assert.Equal(t, []string{"a", "b"}, s.Selected())

	s.Add(true, "c")
	assert.Equal(t, []string{"a", "b", "c"}, s.Selected())

	s.Add(false, "c")
	assert.Equal(t, []string{"c"}, s.Selected())
	assert.True(t, s.IsSelected("c"))
	assert.False(t, s.IsSelected("a"))
	assert.Equal(t, 1, s.Len())

	s.Add(false)
	assert.Zero(t, s.Len())
}

func TestSelectorRemoveAndClear(t *testing.T) {
	s := NewSelector()
	s.Add(true, "a", "b")
	s.Remove("a")
	s.Remove("missing")
	assert.Equal(t, []string{"b"}, s.Selected())
	s.Clear()
	assert.Empty(t, s.Selected())
}

func TestSelectorOnChange(t *testing.T) {
	s := NewSelector()
	var got [][]string
	remove := s.OnChange(func(ids []string) { got = append(got, ids) })

	s.Add(false, "a")
	s.Add(true, "a") // unchanged
	s.Remove("a")
	s.Clear() // already empty
	remove()
	s.Add(false, "z")

	assert.Equal(t, [][]string{{"a"}, {}}, got)
}
