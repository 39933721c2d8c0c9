package queue

import (
	"fmt"
	"strings"

	"github.com/a2y-d5l/go-rendezvous/errs"
	"github.com/a2y-d5l/go-rendezvous/internal/syncx"
)

// BoundedQueue is a fixed-capacity FIFO that blocks producers while full and
// consumers while empty. Both CondQueue and SemQueue implement it.
type BoundedQueue[T any] interface {
	// Insert appends item, blocking while the queue is full.
	Insert(item T) error
	// Remove takes the oldest item, blocking while the queue is empty.
	Remove() (T, error)
	// TryInsert appends item or fails with ErrFull.
	TryInsert(item T) error
	// TryRemove takes the oldest item or fails with ErrEmpty.
	TryRemove() (T, error)
	Len() int
	Capacity() int
	// Drain removes and returns every queued item without running the destructor.
	Drain() ([]T, error)
	Stats() Stats
	// Close destroys the remaining items and releases blocked goroutines.
	Close() error
}

// Stats is a point-in-time snapshot of queue counters.
type Stats struct {
	Capacity    int    `json:"capacity" yaml:"capacity"`
	Size        int    `json:"size" yaml:"size"`
	Inserted    uint64 `json:"inserted" yaml:"inserted"`
	Removed     uint64 `json:"removed" yaml:"removed"`
	InsertWaits uint64 `json:"insert_waits" yaml:"insert_waits"`
	RemoveWaits uint64 `json:"remove_waits" yaml:"remove_waits"`
}

// Variant selects the blocking strategy of a queue.
type Variant int

const (
	// VariantCond blocks on a single condition variable.
	VariantCond Variant = iota
	// VariantSemaphore blocks on a pair of counting semaphores.
	VariantSemaphore
)

// String returns the canonical name of the variant
func (v Variant) String() string {
	switch v {
	case VariantCond:
		return "cond"
	case VariantSemaphore:
		return "semaphore"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant converts a name to a Variant. Matching is case-insensitive and
// accepts the short forms "condvar" and "sem".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cond", "condvar":
		return VariantCond, nil
	case "semaphore", "sem":
		return VariantSemaphore, nil
	default:
		return 0, errs.WrapInvalid(fmt.Errorf("%w: %q", ErrUnknownVariant, s), component, "ParseVariant")
	}
}

// MarshalText implements encoding.TextMarshaler
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// New creates a queue of the given variant.
func New[T any](variant Variant, capacity int, opts ...Option[T]) (BoundedQueue[T], error) {
	switch variant {
	case VariantCond:
		q, err := NewCondQueue(capacity, opts...)
		if err != nil {
			return nil, err
		}
		return q, nil
	case VariantSemaphore:
		q, err := NewSemQueue(capacity, opts...)
		if err != nil {
			return nil, err
		}
		return q, nil
	default:
		return nil, errs.WrapInvalid(fmt.Errorf("%w: %d", ErrUnknownVariant, int(variant)), component, "New")
	}
}

func checkItem[T any](item T, op string) error {
	if syncx.IsNil(item) {
		return errs.WrapInvalid(ErrNilItem, component, op)
	}
	return nil
}

func destroyAll[T any](items []T, destroy func(T)) {
	if destroy == nil {
		return
	}
	for _, item := range items {
		destroy(item)
	}
}
