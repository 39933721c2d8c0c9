package observability

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// LogFormat selects the slog handler a logger writes through.
type LogFormat int

const (
	// JSON writes one JSON object per record
	JSON LogFormat = iota
	// Text writes key=value records
	Text
)

// Logger is the structured logger every primitive writes through.
type Logger interface {
	Debug(msg string, fields ...slog.Attr)
	Info(msg string, fields ...slog.Attr)
	Warn(msg string, fields ...slog.Attr)
	Error(msg string, fields ...slog.Attr)
	With(fields ...slog.Attr) Logger
	// WithContext returns a logger carrying the component and operation
	// stored in ctx by ContextWithComponent and ContextWithOperation.
	WithContext(ctx context.Context) Logger
	Log(ctx context.Context, level slog.Level, msg string, fields ...slog.Attr)
}

// LoggerConfig holds configuration for creating a logger
type LoggerConfig struct {
	Level    slog.Level
	Format   LogFormat
	Output   io.Writer // defaults to os.Stderr
	Sampling *SamplingConfig
}

// SamplingConfig thins Debug and Info records from hot paths such as per-item
// queue logging. Warnings and errors always pass.
type SamplingConfig struct {
	Enabled bool `yaml:"enabled"`
	// Rate is the fraction of records kept, spread evenly. Zero or anything
	// at or above 1 keeps every record.
	Rate float64 `yaml:"rate"`
	// MaxPerSecond caps kept records per wall-clock second. Zero disables it.
	MaxPerSecond int `yaml:"max_per_second"`
}

type ctxKey int

const (
	componentCtxKey ctxKey = iota
	operationCtxKey
)

// ContextWithComponent stores the component name read by Logger.WithContext.
func ContextWithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentCtxKey, component)
}

// ContextWithOperation stores the operation name read by Logger.WithContext.
func ContextWithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationCtxKey, op)
}

var defaultLogger = NewLogger(LoggerConfig{Level: slog.LevelInfo, Format: Text})

// Default returns the logger used by components built without one: Info and
// above, text format, to stderr.
func Default() Logger {
	return defaultLogger
}

// Discard returns a logger that drops every record.
func Discard() Logger {
	return NewLogger(LoggerConfig{Level: slog.LevelError + 1, Output: io.Discard})
}

type logger struct {
	slogger *slog.Logger
	sampler *sampler
}

// NewLogger creates a logger from config.
func NewLogger(config LoggerConfig) Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: config.Level}
	var handler slog.Handler
	if config.Format == JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &logger{
		slogger: slog.New(handler),
		sampler: newSampler(config.Sampling),
	}
}

// WithSampling returns l with its Debug and Info records thinned by cfg. The
// returned logger has its own sampling state. A nil or disabled cfg, or a
// Logger not built by NewLogger, returns l unchanged.
func WithSampling(l Logger, cfg *SamplingConfig) Logger {
	base, ok := l.(*logger)
	if !ok {
		return l
	}
	s := newSampler(cfg)
	if s == nil {
		return l
	}
	return &logger{slogger: base.slogger, sampler: s}
}

func (l *logger) Debug(msg string, fields ...slog.Attr) {
	l.Log(context.Background(), slog.LevelDebug, msg, fields...)
}

func (l *logger) Info(msg string, fields ...slog.Attr) {
	l.Log(context.Background(), slog.LevelInfo, msg, fields...)
}

func (l *logger) Warn(msg string, fields ...slog.Attr) {
	l.Log(context.Background(), slog.LevelWarn, msg, fields...)
}

func (l *logger) Error(msg string, fields ...slog.Attr) {
	l.Log(context.Background(), slog.LevelError, msg, fields...)
}

func (l *logger) With(fields ...slog.Attr) Logger {
	if len(fields) == 0 {
		return l
	}
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	return &logger{slogger: l.slogger.With(args...), sampler: l.sampler}
}

func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	var fields []slog.Attr
	if v, ok := ctx.Value(componentCtxKey).(string); ok {
		fields = append(fields, Component(v))
	}
	if v, ok := ctx.Value(operationCtxKey).(string); ok {
		fields = append(fields, Operation(v))
	}
	return l.With(fields...)
}

// Log writes a record at level. Records below the handler level are dropped
// before sampling so they do not use up the sampling budget.
func (l *logger) Log(ctx context.Context, level slog.Level, msg string, fields ...slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.slogger.Enabled(ctx, level) || !l.sampler.allow(level) {
		return
	}
	l.slogger.LogAttrs(ctx, level, msg, fields...)
}

type sampler struct {
	rate   float64
	seen   atomic.Uint64
	budget int

	mu     sync.Mutex
	window int64 // unix second of the current budget window
	used   int
	now    func() time.Time
}

// newSampler returns nil when cfg asks for no sampling.
func newSampler(cfg *SamplingConfig) *sampler {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	s := &sampler{budget: cfg.MaxPerSecond, now: time.Now}
	if cfg.Rate > 0 && cfg.Rate < 1 {
		s.rate = cfg.Rate
	}
	return s
}

func (s *sampler) allow(level slog.Level) bool {
	if s == nil || level >= slog.LevelWarn {
		return true
	}
	if s.rate > 0 {
		// Keep the n-th record when it crosses an integer multiple of 1/rate.
		n := float64(s.seen.Add(1))
		if math.Ceil(n*s.rate) == math.Ceil((n-1)*s.rate) {
			return false
		}
	}
	if s.budget > 0 {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sec := s.now().Unix(); sec != s.window {
			s.window, s.used = sec, 0
		}
		if s.used >= s.budget {
			return false
		}
		s.used++
	}
	return true
}

// Component creates a component field
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration creates a duration field
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// Operation creates an operation field
func Operation(op string) slog.Attr {
	return slog.String("operation", op)
}

// ErrorField creates an error field
func ErrorField(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Capacity creates a capacity field
func Capacity(n int) slog.Attr {
	return slog.Int("capacity", n)
}

// QueueDepth creates a queue depth field
func QueueDepth(depth int) slog.Attr {
	return slog.Int("queue_depth", depth)
}

// Threshold creates a barrier threshold field
func Threshold(n int) slog.Attr {
	return slog.Int("threshold", n)
}

// Cycle creates a barrier cycle field
func Cycle(n uint64) slog.Attr {
	return slog.Uint64("cycle", n)
}

// Variant creates a queue variant field
func Variant(name string) slog.Attr {
	return slog.String("variant", name)
}

// MessageSize creates a message size field
func MessageSize(bytes int) slog.Attr {
	return slog.Int("message_size", bytes)
}

// MessageCount creates a message count field
func MessageCount(count int64) slog.Attr {
	return slog.Int64("message_count", count)
}
