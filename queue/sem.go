package queue

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/a2y-d5l/go-rendezvous/errs"
	"github.com/a2y-d5l/go-rendezvous/internal/syncx"
	"github.com/a2y-d5l/go-rendezvous/observability"
)

// SemQueue is a BoundedQueue that counts free and filled slots with two
// semaphores and holds its mutex only while touching the slots.
type SemQueue[T any] struct {
	mu     sync.Mutex
	buf    slots[T]
	closed bool

	emptySlots *syncx.Semaphore
	fullSlots  *syncx.Semaphore
	done       chan struct{}

	inserted uint64
	removed  uint64
	// Wait counters are read before the semaphore is taken and may over or
	// under count under contention.
	insertWaits atomic.Uint64
	removeWaits atomic.Uint64

	destroy func(T)
	log     *observability.ComponentLogger
	metrics *observability.QueueMetrics
}

// NewSemQueue creates a semaphore queue holding at most capacity items.
func NewSemQueue[T any](capacity int, opts ...Option[T]) (*SemQueue[T], error) {
	if capacity < 1 {
		return nil, errs.WrapInvalid(ErrInvalidCapacity, component, "New")
	}

	emptySlots, err := syncx.NewSemaphore(capacity, capacity)
	if err != nil {
		return nil, errs.WrapResource(err, component, "New")
	}
	fullSlots, err := syncx.NewSemaphore(capacity, 0)
	if err != nil {
		return nil, errs.WrapResource(err, component, "New")
	}

	cfg := applyOptions(opts)
	q := &SemQueue[T]{
		buf:        newSlots[T](capacity),
		emptySlots: emptySlots,
		fullSlots:  fullSlots,
		done:       make(chan struct{}),
		destroy:    cfg.destroy,
		log:        observability.NewComponentLogger(cfg.logger, component, cfg.name),
		metrics:    observability.NewQueueMetrics(cfg.collector, cfg.name, VariantSemaphore.String()),
	}

	q.log.LogCreated(
		observability.Capacity(capacity),
		observability.Variant(VariantSemaphore.String()),
	)
	return q, nil
}

// Insert appends item, blocking while no slot is free. It fails with
// ErrClosed if the queue is closed before the item is stored; the item then
// remains the caller's.
func (q *SemQueue[T]) Insert(item T) error {
	if q == nil {
		return errs.WrapInvalid(ErrNilQueue, component, "Insert")
	}
	if err := checkItem(item, "Insert"); err != nil {
		q.metrics.RecordRejected("insert")
		return err
	}

	var blocked time.Time
	if q.emptySlots.Available() == 0 {
		q.insertWaits.Add(1)
		blocked = time.Now()
	}
	if err := q.emptySlots.Acquire(q.done); err != nil {
		return q.acquireErr(err, "Insert")
	}
	if !blocked.IsZero() {
		q.metrics.RecordWait("insert", time.Since(blocked))
	}
	return q.store(item, "Insert")
}

// Remove takes the oldest item, blocking while no slot is filled.
func (q *SemQueue[T]) Remove() (T, error) {
	var zero T
	if q == nil {
		return zero, errs.WrapInvalid(ErrNilQueue, component, "Remove")
	}

	var blocked time.Time
	if q.fullSlots.Available() == 0 {
		q.removeWaits.Add(1)
		blocked = time.Now()
	}
	if err := q.fullSlots.Acquire(q.done); err != nil {
		return zero, q.acquireErr(err, "Remove")
	}
	if !blocked.IsZero() {
		q.metrics.RecordWait("remove", time.Since(blocked))
	}
	return q.take("Remove")
}

// TryInsert appends item without blocking.
func (q *SemQueue[T]) TryInsert(item T) error {
	if q == nil {
		return errs.WrapInvalid(ErrNilQueue, component, "TryInsert")
	}
	if err := checkItem(item, "TryInsert"); err != nil {
		q.metrics.RecordRejected("insert")
		return err
	}
	if q.isDone() {
		return errs.WrapSync(ErrClosed, component, "TryInsert")
	}
	if !q.emptySlots.TryAcquire() {
		q.metrics.RecordRejected("insert")
		return errs.WrapCapacity(ErrFull, component, "TryInsert")
	}
	return q.store(item, "TryInsert")
}

// TryRemove takes the oldest item without blocking.
func (q *SemQueue[T]) TryRemove() (T, error) {
	var zero T
	if q == nil {
		return zero, errs.WrapInvalid(ErrNilQueue, component, "TryRemove")
	}
	if q.isDone() {
		return zero, errs.WrapSync(ErrClosed, component, "TryRemove")
	}
	if !q.fullSlots.TryAcquire() {
		q.metrics.RecordRejected("remove")
		return zero, errs.WrapCapacity(ErrEmpty, component, "TryRemove")
	}
	return q.take("TryRemove")
}

// store writes item into a slot already reserved on emptySlots.
func (q *SemQueue[T]) store(item T, op string) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return errs.WrapSync(ErrClosed, component, op)
	}
	q.buf.push(item)
	q.inserted++
	q.metrics.RecordInsert(q.buf.count)
	q.mu.Unlock()

	if err := q.fullSlots.Release(); err != nil {
		return q.semaphoreErr(err, op)
	}
	return nil
}

// take reads the item from a slot already reserved on fullSlots.
func (q *SemQueue[T]) take(op string) (T, error) {
	var zero T

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return zero, errs.WrapSync(ErrClosed, component, op)
	}
	item := q.buf.pop()
	q.removed++
	q.metrics.RecordRemove(q.buf.count)
	q.mu.Unlock()

	if err := q.emptySlots.Release(); err != nil {
		return item, q.semaphoreErr(err, op)
	}
	return item, nil
}

func (q *SemQueue[T]) isDone() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}

func (q *SemQueue[T]) acquireErr(err error, op string) error {
	if errors.Is(err, syncx.ErrSemaphoreClosed) {
		return errs.WrapSync(ErrClosed, component, op)
	}
	return q.semaphoreErr(err, op)
}

func (q *SemQueue[T]) semaphoreErr(err error, op string) error {
	wrapped := errs.WrapSync(fmt.Errorf("%w: %w", ErrSemaphore, err), component, op)
	q.log.LogFailure(op, wrapped)
	return wrapped
}

// Drain removes every queued item and returns them oldest first. Items
// inserted concurrently may or may not be included.
func (q *SemQueue[T]) Drain() ([]T, error) {
	if q == nil {
		return nil, errs.WrapInvalid(ErrNilQueue, component, "Drain")
	}
	if q.isDone() {
		return nil, errs.WrapSync(ErrClosed, component, "Drain")
	}

	var items []T
	for q.fullSlots.TryAcquire() {
		item, err := q.take("Drain")
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	q.log.LogDrained(len(items))
	return items, nil
}

// Len returns the number of queued items.
func (q *SemQueue[T]) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.count
}

// Capacity returns the maximum number of queued items.
func (q *SemQueue[T]) Capacity() int {
	if q == nil {
		return 0
	}
	return len(q.buf.items)
}

// Stats returns a snapshot of the queue counters.
func (q *SemQueue[T]) Stats() Stats {
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
		InsertWaits: q.insertWaits.Load(),
		RemoveWaits: q.removeWaits.Load(),
	}
}

// Close retires the queue. The destructor runs once per queued item, outside
// the lock, and every blocked Insert or Remove returns ErrClosed.
func (q *SemQueue[T]) Close() error {
	if q == nil {
		return errs.WrapInvalid(ErrNilQueue, component, "Close")
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return errs.WrapSync(ErrClosed, component, "Close")
	}
	q.closed = true
	close(q.done)
	items := q.buf.drain()
	q.metrics.RecordDepth(0)
	q.mu.Unlock()

	destroyAll(items, q.destroy)
	q.log.LogClosed(len(items))
	return nil
}
