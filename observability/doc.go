// Package observability provides structured logging and metrics collection for the
// go-rendezvous primitives.
//
// # Structured Logging
//
// Logging is built on the standard slog package:
//
//	logger := observability.NewLogger(observability.LoggerConfig{
//		Level:  slog.LevelDebug,
//		Format: observability.JSON,
//		Output: os.Stdout,
//	})
//
//	q, _ := queue.NewCondQueue[*Job](64, queue.WithLogger[*Job](logger))
//
// Every primitive logs through a ComponentLogger that stamps the component kind and
// instance name. Lifecycle events log at Debug; closing a queue that still holds
// items logs at Info.
//
// # Context-Aware Logging
//
// The logger picks up correlation fields stored in a context:
//
//	ctx = observability.ContextWithComponent(ctx, "ingest")
//	ctx = observability.ContextWithOperation(ctx, "drain")
//	logger.WithContext(ctx).Info("draining")
//
// # High-Volume Sampling
//
// Sampling keeps debug output from hot producer/consumer loops in check:
//
//	logger := observability.NewLogger(observability.LoggerConfig{
//		Level:  slog.LevelDebug,
//		Format: observability.JSON,
//		Output: os.Stdout,
//		Sampling: &observability.SamplingConfig{
//			Enabled:      true,
//			Rate:         0.1,
//			MaxPerSecond: 100,
//		},
//	})
//
// Warnings and errors are never sampled, and records below the handler level
// never count against the budget. WithSampling applies the same thinning to an
// existing logger, which is how the workload harness samples only its per-item
// records.
//
// # Metrics
//
// MetricsCollector abstracts the metrics backend. InMemoryMetricsCollector suits
// tests; PrometheusCollector registers vectors into a prometheus.Registry and can
// serve them with Handler. QueueMetrics, BarrierMetrics and RingMetrics translate
// primitive events into metric updates and are nil-safe, so a component without a
// collector pays nothing. Time spent blocked in a queue Insert or Remove, or parked
// at a barrier, is recorded in the rendezvous_queue_wait_seconds and
// rendezvous_barrier_wait_seconds histograms.
package observability
