package workload

import "github.com/a2y-d5l/go-rendezvous/observability"

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger    observability.Logger
	collector observability.MetricsCollector
}

// WithLogger injects a logger (default observability.Default()).
func WithLogger(l observability.Logger) Option { return func(c *runConfig) { c.logger = l } }

// WithMetrics records queue and barrier activity of the run into collector.
func WithMetrics(collector observability.MetricsCollector) Option {
	return func(c *runConfig) { c.collector = collector }
}

func applyOptions(opts []Option) runConfig {
	var cfg runConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = observability.Default()
	}
	return cfg
}
