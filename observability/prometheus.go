package observability

import (
	stderrors "errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// PrometheusCollector implements MetricsCollector on top of a Prometheus registry.
// Vectors are created lazily on first use; the label names of a metric are fixed by
// its first observation.
type PrometheusCollector struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	lastErr    error
}

// NewPrometheusCollector creates a collector registering into registry.
// A nil registry gets a fresh one.
func NewPrometheusCollector(registry *prometheus.Registry) *PrometheusCollector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	return &PrometheusCollector{
		registry:   registry,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// Registry returns the underlying Prometheus registry
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler exposing the registry in the Prometheus text format.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// LastError returns the most recent registration or label error, if any.
func (c *PrometheusCollector) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// IncrementCounter increments a counter metric by 1
func (c *PrometheusCollector) IncrementCounter(name string, labels map[string]string) {
	c.IncrementCounterBy(name, 1.0, labels)
}

// IncrementCounterBy increments a counter metric by the specified value
func (c *PrometheusCollector) IncrementCounterBy(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vec, ok := c.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: helpFor(name)}, labelNames(labels))
		collector, err := c.register(vec)
		if err != nil {
			c.lastErr = err
			return
		}
		vec = collector.(*prometheus.CounterVec)
		c.counters[name] = vec
	}

	counter, err := vec.GetMetricWith(prometheus.Labels(labels))
	if err != nil {
		c.lastErr = fmt.Errorf("counter %s: %w", name, err)
		return
	}
	counter.Add(value)
}

// SetGauge sets a gauge metric to the specified value
func (c *PrometheusCollector) SetGauge(name string, value float64, labels map[string]string) {
	c.withGauge(name, labels, func(g prometheus.Gauge) { g.Set(value) })
}

// IncrementGauge increments a gauge metric by 1
func (c *PrometheusCollector) IncrementGauge(name string, labels map[string]string) {
	c.withGauge(name, labels, func(g prometheus.Gauge) { g.Inc() })
}

// DecrementGauge decrements a gauge metric by 1
func (c *PrometheusCollector) DecrementGauge(name string, labels map[string]string) {
	c.withGauge(name, labels, func(g prometheus.Gauge) { g.Dec() })
}

func (c *PrometheusCollector) withGauge(name string, labels map[string]string, fn func(prometheus.Gauge)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vec, ok := c.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: helpFor(name)}, labelNames(labels))
		collector, err := c.register(vec)
		if err != nil {
			c.lastErr = err
			return
		}
		vec = collector.(*prometheus.GaugeVec)
		c.gauges[name] = vec
	}

	gauge, err := vec.GetMetricWith(prometheus.Labels(labels))
	if err != nil {
		c.lastErr = fmt.Errorf("gauge %s: %w", name, err)
		return
	}
	fn(gauge)
}

// RecordHistogram records a value in a histogram metric
func (c *PrometheusCollector) RecordHistogram(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vec, ok := c.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    helpFor(name),
			Buckets: prometheus.DefBuckets,
		}, labelNames(labels))
		collector, err := c.register(vec)
		if err != nil {
			c.lastErr = err
			return
		}
		vec = collector.(*prometheus.HistogramVec)
		c.histograms[name] = vec
	}

	observer, err := vec.GetMetricWith(prometheus.Labels(labels))
	if err != nil {
		c.lastErr = fmt.Errorf("histogram %s: %w", name, err)
		return
	}
	observer.Observe(value)
}

// register adds a vector to the registry, reusing an identical collector that
// is already registered.
func (c *PrometheusCollector) register(collector prometheus.Collector) (prometheus.Collector, error) {
	if err := c.registry.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if stderrors.As(err, &alreadyRegErr) {
			return alreadyRegErr.ExistingCollector, nil
		}
		return nil, fmt.Errorf("register metric: %w", err)
	}
	return collector, nil
}

// GetMetrics returns a snapshot of every gathered metric. Histograms report
// their sample sum as Value and their sample count as Count.
func (c *PrometheusCollector) GetMetrics() []Metric {
	families, err := c.registry.Gather()
	if err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
	}

	now := time.Now()
	var metrics []Metric
	for _, family := range families {
		for _, m := range family.GetMetric() {
			metric, ok := convertMetric(family, m, now)
			if ok {
				metrics = append(metrics, metric)
			}
		}
	}
	return metrics
}

// GetMetric returns a specific metric
func (c *PrometheusCollector) GetMetric(name string, labels map[string]string) (*Metric, bool) {
	for _, m := range c.GetMetrics() {
		if m.Name == name && maps.Equal(m.Labels, labels) {
			return &m, true
		}
	}
	return nil, false
}

func convertMetric(family *dto.MetricFamily, m *dto.Metric, ts time.Time) (Metric, bool) {
	labels := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}

	metric := Metric{
		Name:      family.GetName(),
		Labels:    labels,
		Timestamp: ts,
	}

	switch family.GetType() {
	case dto.MetricType_COUNTER:
		metric.Type = Counter
		metric.Value = m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		metric.Type = Gauge
		metric.Value = m.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		metric.Type = Histogram
		metric.Value = m.GetHistogram().GetSampleSum()
		metric.Count = m.GetHistogram().GetSampleCount()
	default:
		return Metric{}, false
	}
	return metric, true
}

func labelNames(labels map[string]string) []string {
	return slices.Sorted(maps.Keys(labels))
}

func helpFor(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}
