package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryMetricsCollector_Counters(t *testing.T) {
	c := NewInMemoryMetricsCollector()
	labels := map[string]string{"queue": "jobs", "variant": "cond"}

	c.IncrementCounter("inserts", labels)
	c.IncrementCounterBy("inserts", 2, map[string]string{"variant": "cond", "queue": "jobs"})

	m, ok := c.GetMetric("inserts", labels)
	require.True(t, ok)
	assert.Equal(t, Counter, m.Type)
	assert.Equal(t, 3.0, m.Value)
	assert.Len(t, c.GetMetrics(), 1, "label order must not split a series")
}

func TestInMemoryMetricsCollector_Gauges(t *testing.T) {
	c := NewInMemoryMetricsCollector()

	c.SetGauge("depth", 5, nil)
	c.IncrementGauge("depth", nil)
	c.DecrementGauge("depth", nil)
	c.DecrementGauge("depth", nil)

	m, ok := c.GetMetric("depth", nil)
	require.True(t, ok)
	assert.Equal(t, 4.0, m.Value)
}

func TestInMemoryMetricsCollector_Histogram(t *testing.T) {
	c := NewInMemoryMetricsCollector()
	labels := map[string]string{"op": "insert"}

	c.RecordHistogram("wait_seconds", 0.25, labels)
	c.RecordHistogram("wait_seconds", 0.5, labels)

	m, ok := c.GetMetric("wait_seconds", labels)
	require.True(t, ok)
	assert.Equal(t, Histogram, m.Type)
	assert.Equal(t, 0.75, m.Value)
	assert.Equal(t, uint64(2), m.Count)

	_, ok = c.GetMetric("missing", nil)
	assert.False(t, ok)
}

func TestInMemoryMetricsCollector_SnapshotIsCopy(t *testing.T) {
	c := NewInMemoryMetricsCollector()
	c.IncrementCounter("b_total", map[string]string{"q": "x"})
	c.IncrementCounter("a_total", nil)

	all := c.GetMetrics()
	require.Len(t, all, 2)
	assert.Equal(t, "a_total", all[0].Name)

	all[1].Labels["q"] = "mutated"
	m, ok := c.GetMetric("b_total", map[string]string{"q": "x"})
	require.True(t, ok)
	assert.Equal(t, "x", m.Labels["q"])
}

func TestQueueMetrics(t *testing.T) {
	c := NewInMemoryMetricsCollector()
	m := NewQueueMetrics(c, "jobs", "semaphore")

	m.RecordInsert(1)
	m.RecordInsert(2)
	m.RecordRemove(1)
	m.RecordWait("insert", 20*time.Millisecond)
	m.RecordWait("insert", 30*time.Millisecond)
	m.RecordRejected("remove")

	labels := map[string]string{"queue": "jobs", "variant": "semaphore"}

	inserts, ok := c.GetMetric(MetricQueueInserts, labels)
	require.True(t, ok)
	assert.Equal(t, 2.0, inserts.Value)

	depth, ok := c.GetMetric(MetricQueueDepth, labels)
	require.True(t, ok)
	assert.Equal(t, 1.0, depth.Value)

	insertLabels := map[string]string{"queue": "jobs", "variant": "semaphore", "op": "insert"}
	waits, ok := c.GetMetric(MetricQueueWaits, insertLabels)
	require.True(t, ok)
	assert.Equal(t, 2.0, waits.Value)

	waitTime, ok := c.GetMetric(MetricQueueWaitTime, insertLabels)
	require.True(t, ok)
	assert.Equal(t, uint64(2), waitTime.Count)
	assert.InDelta(t, 0.05, waitTime.Value, 1e-9)

	_, ok = c.GetMetric(MetricQueueRejected, map[string]string{"queue": "jobs", "variant": "semaphore", "op": "remove"})
	assert.True(t, ok)
}

func TestRecorders_NilSafe(t *testing.T) {
	assert.Nil(t, NewQueueMetrics(nil, "q", "cond"))
	assert.Nil(t, NewBarrierMetrics(nil, "b"))
	assert.Nil(t, NewRingMetrics(nil, "r"))

	var q *QueueMetrics
	var b *BarrierMetrics
	var r *RingMetrics
	assert.NotPanics(t, func() {
		q.RecordInsert(1)
		q.RecordRemove(0)
		q.RecordWait("insert", time.Millisecond)
		q.RecordRejected("insert")
		b.RecordArrival()
		b.RecordWait(time.Millisecond)
		b.RecordCycle()
		b.RecordClosed()
		r.RecordPut(1)
		r.RecordGet(0)
		r.RecordRejected("put")
	})
}

func TestBarrierAndRingMetrics(t *testing.T) {
	c := NewInMemoryMetricsCollector()

	b := NewBarrierMetrics(c, "sync")
	b.RecordArrival()
	b.RecordArrival()

	waiting, ok := c.GetMetric(MetricBarrierWaiting, map[string]string{"barrier": "sync"})
	require.True(t, ok)
	assert.Equal(t, 2.0, waiting.Value)

	b.RecordCycle()
	b.RecordWait(10 * time.Millisecond)
	b.RecordWait(10 * time.Millisecond)
	b.RecordCycle()

	cycles, ok := c.GetMetric(MetricBarrierCycles, map[string]string{"barrier": "sync"})
	require.True(t, ok)
	assert.Equal(t, 2.0, cycles.Value)

	waiting, ok = c.GetMetric(MetricBarrierWaiting, map[string]string{"barrier": "sync"})
	require.True(t, ok)
	assert.Equal(t, 0.0, waiting.Value)

	wait, ok := c.GetMetric(MetricBarrierWait, map[string]string{"barrier": "sync"})
	require.True(t, ok)
	assert.Equal(t, uint64(2), wait.Count)

	r := NewRingMetrics(c, "ipc")
	r.RecordPut(1)
	r.RecordGet(0)
	r.RecordRejected("get")

	gets, ok := c.GetMetric(MetricRingGets, map[string]string{"ring": "ipc"})
	require.True(t, ok)
	assert.Equal(t, 1.0, gets.Value)

	_, ok = c.GetMetric(MetricRingRejected, map[string]string{"ring": "ipc", "op": "get"})
	assert.True(t, ok)
}
