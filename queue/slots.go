package queue

import "github.com/a2y-d5l/go-rendezvous/internal/ringidx"

// slots is the circular element store shared by both variants. It is not
// synchronised; callers hold their queue's mutex.
type slots[T any] struct {
	items []T
	ring  ringidx.Ring
	head  int
	tail  int
	count int
}

func newSlots[T any](capacity int) slots[T] {
	return slots[T]{
		items: make([]T, capacity),
		ring:  ringidx.New(capacity),
	}
}

func (s *slots[T]) full() bool  { return s.count == len(s.items) }
func (s *slots[T]) empty() bool { return s.count == 0 }

func (s *slots[T]) push(item T) {
	s.items[s.tail] = item
	s.tail = s.ring.Next(s.tail)
	s.count++
}

// pop removes the head element and zeroes its slot so the queue does not keep
// it reachable.
func (s *slots[T]) pop() T {
	var zero T
	item := s.items[s.head]
	s.items[s.head] = zero
	s.head = s.ring.Next(s.head)
	s.count--
	return item
}

// drain pops every element in FIFO order.
func (s *slots[T]) drain() []T {
	if s.count == 0 {
		return nil
	}
	out := make([]T, 0, s.count)
	for !s.empty() {
		out = append(out, s.pop())
	}
	return out
}
