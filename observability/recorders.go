package observability

import "time"

// Metric names recorded by the primitives.
const (
	MetricQueueInserts   = "rendezvous_queue_inserts_total"
	MetricQueueRemoves   = "rendezvous_queue_removes_total"
	MetricQueueWaits     = "rendezvous_queue_waits_total"
	MetricQueueWaitTime  = "rendezvous_queue_wait_seconds"
	MetricQueueRejected  = "rendezvous_queue_rejected_total"
	MetricQueueDepth     = "rendezvous_queue_depth"
	MetricBarrierCycles  = "rendezvous_barrier_cycles_total"
	MetricBarrierWaiting = "rendezvous_barrier_waiting"
	MetricBarrierWait    = "rendezvous_barrier_wait_seconds"
	MetricRingPuts       = "rendezvous_ring_puts_total"
	MetricRingGets       = "rendezvous_ring_gets_total"
	MetricRingRejected   = "rendezvous_ring_rejected_total"
	MetricRingDepth      = "rendezvous_ring_depth"
)

// QueueMetrics records bounded queue activity under a fixed name label.
// A nil *QueueMetrics records nothing.
type QueueMetrics struct {
	collector MetricsCollector
	labels    map[string]string
}

// NewQueueMetrics returns a recorder for the queue called name, or nil when
// collector is nil.
func NewQueueMetrics(collector MetricsCollector, name, variant string) *QueueMetrics {
	if collector == nil {
		return nil
	}
	return &QueueMetrics{
		collector: collector,
		labels:    map[string]string{"queue": name, "variant": variant},
	}
}

// RecordInsert records a completed insert and the resulting depth.
func (m *QueueMetrics) RecordInsert(depth int) {
	if m == nil {
		return
	}
	m.collector.IncrementCounter(MetricQueueInserts, m.labels)
	m.collector.SetGauge(MetricQueueDepth, float64(depth), m.labels)
}

// RecordRemove records a completed remove and the resulting depth.
func (m *QueueMetrics) RecordRemove(depth int) {
	if m == nil {
		return
	}
	m.collector.IncrementCounter(MetricQueueRemoves, m.labels)
	m.collector.SetGauge(MetricQueueDepth, float64(depth), m.labels)
}

// RecordDrain records n items removed in one batch, leaving the queue empty.
func (m *QueueMetrics) RecordDrain(n int) {
	if m == nil {
		return
	}
	m.collector.IncrementCounterBy(MetricQueueRemoves, float64(n), m.labels)
	m.collector.SetGauge(MetricQueueDepth, 0, m.labels)
}

// RecordDepth records the current depth without counting an operation.
func (m *QueueMetrics) RecordDepth(depth int) {
	if m == nil {
		return
	}
	m.collector.SetGauge(MetricQueueDepth, float64(depth), m.labels)
}

// RecordWait records an operation that blocked for d before it could proceed.
// op is "insert" or "remove".
func (m *QueueMetrics) RecordWait(op string, d time.Duration) {
	if m == nil {
		return
	}
	labels := m.with("op", op)
	m.collector.IncrementCounter(MetricQueueWaits, labels)
	m.collector.RecordHistogram(MetricQueueWaitTime, d.Seconds(), labels)
}

// RecordRejected records an operation that failed without touching the queue.
func (m *QueueMetrics) RecordRejected(op string) {
	if m == nil {
		return
	}
	m.collector.IncrementCounter(MetricQueueRejected, m.with("op", op))
}

func (m *QueueMetrics) with(k, v string) map[string]string {
	labels := copyLabels(m.labels)
	labels[k] = v
	return labels
}

// BarrierMetrics records barrier activity. A nil *BarrierMetrics records nothing.
type BarrierMetrics struct {
	collector MetricsCollector
	labels    map[string]string
}

// NewBarrierMetrics returns a recorder for the barrier called name, or nil
// when collector is nil.
func NewBarrierMetrics(collector MetricsCollector, name string) *BarrierMetrics {
	if collector == nil {
		return nil
	}
	return &BarrierMetrics{
		collector: collector,
		labels:    map[string]string{"barrier": name},
	}
}

// RecordArrival records one more goroutine parked at the barrier.
func (m *BarrierMetrics) RecordArrival() {
	if m == nil {
		return
	}
	m.collector.IncrementGauge(MetricBarrierWaiting, m.labels)
}

// RecordCycle records a release of all waiters.
func (m *BarrierMetrics) RecordCycle() {
	if m == nil {
		return
	}
	m.collector.IncrementCounter(MetricBarrierCycles, m.labels)
	m.collector.SetGauge(MetricBarrierWaiting, 0, m.labels)
}

// RecordWait records how long a parked goroutine waited for its release.
func (m *BarrierMetrics) RecordWait(d time.Duration) {
	if m == nil {
		return
	}
	m.collector.RecordHistogram(MetricBarrierWait, d.Seconds(), m.labels)
}

// RecordClosed records a close, which strands any parked goroutines.
func (m *BarrierMetrics) RecordClosed() {
	if m == nil {
		return
	}
	m.collector.SetGauge(MetricBarrierWaiting, 0, m.labels)
}

// RingMetrics records message ring activity. A nil *RingMetrics records nothing.
type RingMetrics struct {
	collector MetricsCollector
	labels    map[string]string
}

// NewRingMetrics returns a recorder for the ring called name, or nil when
// collector is nil.
func NewRingMetrics(collector MetricsCollector, name string) *RingMetrics {
	if collector == nil {
		return nil
	}
	return &RingMetrics{
		collector: collector,
		labels:    map[string]string{"ring": name},
	}
}

// RecordPut records a stored message and the resulting depth.
func (m *RingMetrics) RecordPut(depth int) {
	if m == nil {
		return
	}
	m.collector.IncrementCounter(MetricRingPuts, m.labels)
	m.collector.SetGauge(MetricRingDepth, float64(depth), m.labels)
}

// RecordGet records a retrieved message and the resulting depth.
func (m *RingMetrics) RecordGet(depth int) {
	if m == nil {
		return
	}
	m.collector.IncrementCounter(MetricRingGets, m.labels)
	m.collector.SetGauge(MetricRingDepth, float64(depth), m.labels)
}

// RecordRejected records a put on a full ring or a get on an empty one.
func (m *RingMetrics) RecordRejected(op string) {
	if m == nil {
		return
	}
	labels := copyLabels(m.labels)
	labels["op"] = op
	m.collector.IncrementCounter(MetricRingRejected, labels)
}
