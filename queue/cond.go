package queue

import (
	"sync"
	"time"

	"github.com/a2y-d5l/go-rendezvous/errs"
	"github.com/a2y-d5l/go-rendezvous/observability"
)

// CondQueue is a BoundedQueue guarded by one mutex and one condition
// variable. Producers and consumers wait on the same condition, so every state
// change is broadcast.
type CondQueue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    slots[T]
	closed bool

	inserted    uint64
	removed     uint64
	insertWaits uint64
	removeWaits uint64

	destroy func(T)
	log     *observability.ComponentLogger
	metrics *observability.QueueMetrics
}

// NewCondQueue creates a condition variable queue holding at most capacity items.
func NewCondQueue[T any](capacity int, opts ...Option[T]) (*CondQueue[T], error) {
	if capacity < 1 {
		return nil, errs.WrapInvalid(ErrInvalidCapacity, component, "New")
	}

	cfg := applyOptions(opts)
	q := &CondQueue[T]{
		buf:     newSlots[T](capacity),
		destroy: cfg.destroy,
		log:     observability.NewComponentLogger(cfg.logger, component, cfg.name),
		metrics: observability.NewQueueMetrics(cfg.collector, cfg.name, VariantCond.String()),
	}
	q.cond = sync.NewCond(&q.mu)

	q.log.LogCreated(
		observability.Capacity(capacity),
		observability.Variant(VariantCond.String()),
	)
	return q, nil
}

// Insert appends item, blocking while the queue is full. It fails with
// ErrClosed if the queue is closed before the item is stored; the item then
// remains the caller's.
func (q *CondQueue[T]) Insert(item T) error {
	if q == nil {
		return errs.WrapInvalid(ErrNilQueue, component, "Insert")
	}
	if err := checkItem(item, "Insert"); err != nil {
		q.metrics.RecordRejected("insert")
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	var blocked time.Time
	if !q.closed && q.buf.full() {
		q.insertWaits++
		blocked = time.Now()
	}
	for q.buf.full() && !q.closed {
		q.cond.Wait()
	}
	if !blocked.IsZero() {
		q.metrics.RecordWait("insert", time.Since(blocked))
	}
	if q.closed {
		return errs.WrapSync(ErrClosed, component, "Insert")
	}

	q.store(item)
	return nil
}

// Remove takes the oldest item, blocking while the queue is empty.
func (q *CondQueue[T]) Remove() (T, error) {
	var zero T
	if q == nil {
		return zero, errs.WrapInvalid(ErrNilQueue, component, "Remove")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	var blocked time.Time
	if !q.closed && q.buf.empty() {
		q.removeWaits++
		blocked = time.Now()
	}
	for q.buf.empty() && !q.closed {
		q.cond.Wait()
	}
	if !blocked.IsZero() {
		q.metrics.RecordWait("remove", time.Since(blocked))
	}
	if q.closed {
		return zero, errs.WrapSync(ErrClosed, component, "Remove")
	}

	return q.take(), nil
}

// TryInsert appends item without blocking.
func (q *CondQueue[T]) TryInsert(item T) error {
	if q == nil {
		return errs.WrapInvalid(ErrNilQueue, component, "TryInsert")
	}
	if err := checkItem(item, "TryInsert"); err != nil {
		q.metrics.RecordRejected("insert")
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return errs.WrapSync(ErrClosed, component, "TryInsert")
	}
	if q.buf.full() {
		q.metrics.RecordRejected("insert")
		return errs.WrapCapacity(ErrFull, component, "TryInsert")
	}

	q.store(item)
	return nil
}

// TryRemove takes the oldest item without blocking.
func (q *CondQueue[T]) TryRemove() (T, error) {
	var zero T
	if q == nil {
		return zero, errs.WrapInvalid(ErrNilQueue, component, "TryRemove")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return zero, errs.WrapSync(ErrClosed, component, "TryRemove")
	}
	if q.buf.empty() {
		q.metrics.RecordRejected("remove")
		return zero, errs.WrapCapacity(ErrEmpty, component, "TryRemove")
	}

	return q.take(), nil
}

// store and take are called with mu held.
func (q *CondQueue[T]) store(item T) {
	q.buf.push(item)
	q.inserted++
	q.metrics.RecordInsert(q.buf.count)
	q.cond.Broadcast()
}

func (q *CondQueue[T]) take() T {
	item := q.buf.pop()
	q.removed++
	q.metrics.RecordRemove(q.buf.count)
	q.cond.Broadcast()
	return item
}

// Drain removes every queued item and returns them oldest first.
func (q *CondQueue[T]) Drain() ([]T, error) {
	if q == nil {
		return nil, errs.WrapInvalid(ErrNilQueue, component, "Drain")
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, errs.WrapSync(ErrClosed, component, "Drain")
	}
	items := q.buf.drain()
	if len(items) > 0 {
		q.removed += uint64(len(items))
		q.metrics.RecordDrain(len(items))
		q.cond.Broadcast()
	}
	q.mu.Unlock()

	q.log.LogDrained(len(items))
	return items, nil
}

// Len returns the number of queued items.
func (q *CondQueue[T]) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.count
}

// Capacity returns the maximum number of queued items.
func (q *CondQueue[T]) Capacity() int {
	if q == nil {
		return 0
	}
	return len(q.buf.items)
}

// Stats returns a snapshot of the queue counters.
func (q *CondQueue[T]) Stats() Stats {
	if q == nil {
		return Stats{}
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Capacity:    len(q.buf.items),
		Size:        q.buf.count,
		Inserted:    q.inserted,
		Removed:     q.removed,
		InsertWaits: q.insertWaits,
		RemoveWaits: q.removeWaits,
	}
}

// Close retires the queue. The destructor runs once per queued item, outside
// the lock, and every blocked Insert or Remove returns ErrClosed.
func (q *CondQueue[T]) Close() error {
	if q == nil {
		return errs.WrapInvalid(ErrNilQueue, component, "Close")
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return errs.WrapSync(ErrClosed, component, "Close")
	}
	q.closed = true
	items := q.buf.drain()
	q.metrics.RecordDepth(0)
	q.cond.Broadcast()
	q.mu.Unlock()

	destroyAll(items, q.destroy)
	q.log.LogClosed(len(items))
	return nil
}
