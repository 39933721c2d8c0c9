package barrier

import (
	"log/slog"
	"sync"
	"time"

	"github.com/a2y-d5l/go-rendezvous/errs"
	"github.com/a2y-d5l/go-rendezvous/observability"
)

// Barrier is a reusable rendezvous point for a fixed number of goroutines.
//
// Each call to Wait parks the caller until threshold goroutines have arrived,
// then releases all of them at once and starts a new cycle.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	threshold  int
	count      int    // goroutines parked in the current cycle
	generation uint64 // completed cycles
	closed     bool

	log     *observability.ComponentLogger
	metrics *observability.BarrierMetrics
}

// New creates a barrier released by every threshold-th arrival.
func New(threshold int, opts ...Option) (*Barrier, error) {
	if threshold < 1 {
		return nil, errs.WrapInvalid(ErrInvalidThreshold, component, "New")
	}

	cfg := applyOptions(opts)
	b := &Barrier{
		threshold: threshold,
		log:       observability.NewComponentLogger(cfg.logger, component, cfg.name),
		metrics:   observability.NewBarrierMetrics(cfg.collector, cfg.name),
	}
	b.cond = sync.NewCond(&b.mu)

	b.log.LogCreated(observability.Threshold(threshold))
	return b, nil
}

// Wait blocks until threshold goroutines, the caller included, have called Wait
// in the current cycle. The arrival that completes the cycle resets the count,
// wakes every waiter and returns without blocking.
//
// Wait fails with ErrClosed if the barrier is closed before or while waiting.
// A barrier whose Wait has failed is broken and must not be reused.
func (b *Barrier) Wait() error {
	if b == nil {
		return errs.WrapInvalid(ErrNilBarrier, component, "Wait")
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return errs.WrapSync(ErrClosed, component, "Wait")
	}

	gen := b.generation
	b.count++
	if b.count >= b.threshold {
		b.count = 0
		b.generation++
		cycle := b.generation
		b.metrics.RecordCycle()
		b.cond.Broadcast()
		b.mu.Unlock()

		b.log.LogCycle(cycle, b.threshold)
		return nil
	}

	b.metrics.RecordArrival()
	start := time.Now()
	for gen == b.generation && !b.closed {
		b.cond.Wait()
	}
	released := gen != b.generation
	b.mu.Unlock()

	if !released {
		return errs.WrapSync(ErrClosed, component, "Wait")
	}
	b.metrics.RecordWait(time.Since(start))
	return nil
}

// Close retires the barrier. Goroutines parked in Wait are released with
// ErrClosed, as is every later Wait. Closing twice returns ErrClosed.
func (b *Barrier) Close() error {
	if b == nil {
		return errs.WrapInvalid(ErrNilBarrier, component, "Close")
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return errs.WrapSync(ErrClosed, component, "Close")
	}
	b.closed = true
	stranded := b.count
	b.count = 0
	b.cond.Broadcast()
	b.mu.Unlock()

	b.metrics.RecordClosed()
	if stranded > 0 {
		b.log.Warn("barrier closed with parked goroutines",
			slog.Int("waiters", stranded),
			observability.Operation("close"),
		)
		return nil
	}
	b.log.LogClosed(0)
	return nil
}

// Threshold returns the number of arrivals that release the barrier.
func (b *Barrier) Threshold() int {
	if b == nil {
		return 0
	}
	return b.threshold
}

// Waiting returns the number of goroutines parked in the current cycle.
func (b *Barrier) Waiting() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Cycles returns the number of completed cycles.
func (b *Barrier) Cycles() uint64 {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}

// IsClosed reports whether Close has been called.
func (b *Barrier) IsClosed() bool {
	if b == nil {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
