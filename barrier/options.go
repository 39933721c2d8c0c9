package barrier

import "github.com/a2y-d5l/go-rendezvous/observability"

// Option configures a Barrier.
type Option func(*config)

type config struct {
	name      string
	logger    observability.Logger
	collector observability.MetricsCollector
}

// WithName labels the barrier in logs.
func WithName(name string) Option { return func(c *config) { c.name = name } }

// WithLogger injects a logger (default observability.Default()).
func WithLogger(l observability.Logger) Option { return func(c *config) { c.logger = l } }

// WithMetrics records cycles and waiters into collector under name.
func WithMetrics(collector observability.MetricsCollector, name string) Option {
	return func(c *config) {
		c.collector = collector
		if name != "" {
			c.name = name
		}
	}
}

func applyOptions(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
