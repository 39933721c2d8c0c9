package ringidx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_NextWraps(t *testing.T) {
	r := New(5)

	i := 0
	seen := make([]int, 0, 7)
	for range 7 {
		seen = append(seen, i)
		i = r.Next(i)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4, 0, 1}, seen)
}

func TestRing_Advance(t *testing.T) {
	r := New(4)

	assert.Equal(t, 3, r.Advance(1, 2))
	assert.Equal(t, 1, r.Advance(3, 2))
	assert.Equal(t, 2, r.Advance(2, 8))
	assert.Equal(t, 0, r.Advance(0, 0))
}

func TestRing_Valid(t *testing.T) {
	r := New(3)

	assert.True(t, r.Valid(0))
	assert.True(t, r.Valid(2))
	assert.False(t, r.Valid(3))
	assert.False(t, r.Valid(-1))
	assert.Equal(t, 3, r.Size())
}

func TestNew_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { New(0) })
}
