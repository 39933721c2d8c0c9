// Package ringidx holds the wrap-around index arithmetic shared by the ring-shaped
// structures in this module.
package ringidx

// Ring addresses the slots of a fixed-size circular array.
// The zero value is not usable; construct with New.
type Ring struct {
	size int
}

// New returns a Ring over size slots. size must be positive.
func New(size int) Ring {
	if size <= 0 {
		panic("ringidx: size must be > 0")
	}
	return Ring{size: size}
}

// Size returns the number of slots.
func (r Ring) Size() int { return r.size }

// Next returns the index following i.
func (r Ring) Next(i int) int {
	return (i + 1) % r.size
}

// Advance returns the index n steps after i.
func (r Ring) Advance(i, n int) int {
	return (i + n%r.size) % r.size
}

// Valid reports whether i addresses a slot.
func (r Ring) Valid(i int) bool {
	return i >= 0 && i < r.size
}
