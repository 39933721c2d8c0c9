package observability

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// MetricType represents the type of metric
type MetricType int

const (
	// Counter metrics only increase
	Counter MetricType = iota
	// Gauge metrics can go up or down
	Gauge
	// Histogram metrics track distributions
	Histogram
)

// Metric is a snapshot of one labelled series. For histograms Value is the
// sum of observations and Count their number.
type Metric struct {
	Name      string            `json:"name"`
	Type      MetricType        `json:"type"`
	Value     float64           `json:"value"`
	Count     uint64            `json:"count,omitempty"`
	Labels    map[string]string `json:"labels"`
	Timestamp time.Time         `json:"timestamp"`
}

// MetricsCollector receives the measurements recorded by the primitives.
// Implementations must be safe for concurrent use.
type MetricsCollector interface {
	IncrementCounter(name string, labels map[string]string)
	IncrementCounterBy(name string, value float64, labels map[string]string)

	SetGauge(name string, value float64, labels map[string]string)
	IncrementGauge(name string, labels map[string]string)
	DecrementGauge(name string, labels map[string]string)

	RecordHistogram(name string, value float64, labels map[string]string)

	GetMetrics() []Metric
	GetMetric(name string, labels map[string]string) (*Metric, bool)
}

// InMemoryMetricsCollector keeps every series in a map. It is meant for tests
// and for inspecting a single run; use PrometheusCollector to export.
type InMemoryMetricsCollector struct {
	mu     sync.RWMutex
	series map[string]*Metric
}

// NewInMemoryMetricsCollector creates an empty collector
func NewInMemoryMetricsCollector() *InMemoryMetricsCollector {
	return &InMemoryMetricsCollector{series: make(map[string]*Metric)}
}

// IncrementCounter adds 1 to a counter
func (c *InMemoryMetricsCollector) IncrementCounter(name string, labels map[string]string) {
	c.IncrementCounterBy(name, 1, labels)
}

// IncrementCounterBy adds value to a counter
func (c *InMemoryMetricsCollector) IncrementCounterBy(name string, value float64, labels map[string]string) {
	c.update(name, Counter, labels, func(m *Metric) { m.Value += value })
}

// SetGauge sets a gauge to value
func (c *InMemoryMetricsCollector) SetGauge(name string, value float64, labels map[string]string) {
	c.update(name, Gauge, labels, func(m *Metric) { m.Value = value })
}

// IncrementGauge adds 1 to a gauge
func (c *InMemoryMetricsCollector) IncrementGauge(name string, labels map[string]string) {
	c.update(name, Gauge, labels, func(m *Metric) { m.Value++ })
}

// DecrementGauge subtracts 1 from a gauge
func (c *InMemoryMetricsCollector) DecrementGauge(name string, labels map[string]string) {
	c.update(name, Gauge, labels, func(m *Metric) { m.Value-- })
}

// RecordHistogram adds one observation to a histogram
func (c *InMemoryMetricsCollector) RecordHistogram(name string, value float64, labels map[string]string) {
	c.update(name, Histogram, labels, func(m *Metric) {
		m.Value += value
		m.Count++
	})
}

// update applies fn to the series, creating it on first use.
func (c *InMemoryMetricsCollector) update(name string, typ MetricType, labels map[string]string, fn func(*Metric)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := seriesKey(name, labels)
	m, ok := c.series[key]
	if !ok {
		m = &Metric{Name: name, Type: typ, Labels: copyLabels(labels)}
		c.series[key] = m
	}
	fn(m)
	m.Timestamp = time.Now()
}

// GetMetrics returns a copy of every series, sorted by name then labels
func (c *InMemoryMetricsCollector) GetMetrics() []Metric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := slices.Sorted(maps.Keys(c.series))
	out := make([]Metric, 0, len(keys))
	for _, k := range keys {
		out = append(out, snapshot(c.series[k]))
	}
	return out
}

// GetMetric returns a copy of one series
func (c *InMemoryMetricsCollector) GetMetric(name string, labels map[string]string) (*Metric, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.series[seriesKey(name, labels)]
	if !ok {
		return nil, false
	}
	s := snapshot(m)
	return &s, true
}

func snapshot(m *Metric) Metric {
	s := *m
	s.Labels = copyLabels(m.Labels)
	return s
}

// seriesKey identifies a series independently of label map order.
func seriesKey(name string, labels map[string]string) string {
	var b strings.Builder
	b.WriteString(name)
	for _, k := range slices.Sorted(maps.Keys(labels)) {
		b.WriteByte(':')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
	}
	return b.String()
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}
	return maps.Clone(labels)
}
