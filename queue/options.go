package queue

import "github.com/a2y-d5l/go-rendezvous/observability"

// Option configures a queue holding elements of type T.
type Option[T any] func(*config[T])

type config[T any] struct {
	name      string
	destroy   func(T)
	logger    observability.Logger
	collector observability.MetricsCollector
}

// WithDestructor sets the function Close runs on every element still queued.
func WithDestructor[T any](fn func(T)) Option[T] {
	return func(c *config[T]) { c.destroy = fn }
}

// WithName labels the queue in logs.
func WithName[T any](name string) Option[T] {
	return func(c *config[T]) { c.name = name }
}

// WithLogger injects a logger (default observability.Default()).
func WithLogger[T any](l observability.Logger) Option[T] {
	return func(c *config[T]) { c.logger = l }
}

// WithMetrics records queue activity into collector under name.
func WithMetrics[T any](collector observability.MetricsCollector, name string) Option[T] {
	return func(c *config[T]) {
		c.collector = collector
		if name != "" {
			c.name = name
		}
	}
}

func applyOptions[T any](opts []Option[T]) config[T] {
	var cfg config[T]
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
