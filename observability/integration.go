package observability

import (
	"log/slog"
)

// ComponentLogger provides lifecycle logging for a single primitive instance
type ComponentLogger struct {
	Logger
	component string
	name      string
}

// NewComponentLogger creates a logger scoped to one named component instance.
// A nil logger falls back to the package default.
func NewComponentLogger(logger Logger, component, name string) *ComponentLogger {
	if logger == nil {
		logger = Default()
	}
	fields := []slog.Attr{Component(component)}
	if name != "" {
		fields = append(fields, slog.String("name", name))
	}
	return &ComponentLogger{
		Logger:    logger.With(fields...),
		component: component,
		name:      name,
	}
}

// LogCreated logs construction of the component
func (cl *ComponentLogger) LogCreated(fields ...slog.Attr) {
	cl.Debug(cl.component+" created", append(fields, Operation("create"))...)
}

// LogClosed logs retirement of the component. A queue that still held depth
// items logs at Info, since those items were destroyed unconsumed.
func (cl *ComponentLogger) LogClosed(depth int) {
	if depth > 0 {
		cl.Info(cl.component+" closed with queued items",
			QueueDepth(depth),
			Operation("close"),
		)
		return
	}
	cl.Debug(cl.component+" closed", Operation("close"))
}

// LogDrained logs n items handed back by a drain, which empties the queue.
func (cl *ComponentLogger) LogDrained(n int) {
	cl.Debug(cl.component+" drained",
		slog.Int("drained", n),
		QueueDepth(0),
		Operation("drain"),
	)
}

// LogCycle logs a barrier release
func (cl *ComponentLogger) LogCycle(cycle uint64, threshold int) {
	cl.Debug("barrier released",
		Cycle(cycle),
		Threshold(threshold),
		Operation("release"),
	)
}

// LogFailure logs a failed operation
func (cl *ComponentLogger) LogFailure(op string, err error) {
	cl.Error(cl.component+" operation failed",
		ErrorField(err),
		Operation(op),
	)
}

// Name returns the instance name
func (cl *ComponentLogger) Name() string {
	return cl.name
}
