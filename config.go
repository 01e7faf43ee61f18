package taskbatch

import (
	"strconv"
	"time"

	"github.com/ygrebnov/errorc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ygrebnov/taskbatch/metrics"
)

const instrumentationName = "github.com/ygrebnov/taskbatch"

// config holds Batch configuration.
type config struct {
	// Concurrency is the maximum number of simultaneously unsettled tasks during a run.
	// Set by New; must be > 0.
	Concurrency int

	// EventBuffer defines the size of the internal completions channel between task
	// goroutines and the scheduler.
	// Default: 0 (sized to Concurrency at run start).
	EventBuffer uint

	// Logger receives lifecycle and failure logs.
	// Default: zap.NewNop().
	Logger *zap.Logger

	// Tracer creates one span per run and one child span per task.
	// Default: the global otel tracer provider.
	Tracer trace.Tracer

	// Metrics records task counters, in-flight gauge and durations.
	// Default: metrics.NoopProvider.
	Metrics metrics.Provider

	// Clock supplies event timestamps.
	// Default: time.Now.
	Clock func() time.Time
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		Concurrency: 0,
		EventBuffer: 0,
		Logger:      zap.NewNop(),
		Tracer:      otel.Tracer(instrumentationName),
		Metrics:     metrics.NewNoopProvider(),
		Clock:       time.Now,
	}
}

// validateConfig checks the invariants New relies on.
func validateConfig(cfg *config) error {
	if cfg.Concurrency <= 0 {
		return errorc.With(ErrInvalidConcurrency, errorc.String("concurrency", strconv.Itoa(cfg.Concurrency)))
	}
	return nil
}

// Option configures a Batch. Options return an error on invalid input instead of panicking.
type Option func(*config) error

// WithLogger sets the structured logger. A nil logger is rejected.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithLogger requires a non-nil logger"))
		}
		cfg.Logger = l
		return nil
	}
}

// WithTracer sets the tracer used for run and task spans.
func WithTracer(t trace.Tracer) Option {
	return func(cfg *config) error {
		if t == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithTracer requires a non-nil tracer"))
		}
		cfg.Tracer = t
		return nil
	}
}

// WithTracerProvider derives the tracer from tp using the package instrumentation name.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) error {
		if tp == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithTracerProvider requires a non-nil provider"))
		}
		cfg.Tracer = tp.Tracer(instrumentationName)
		return nil
	}
}

// WithMetrics sets the metrics provider.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetrics requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

// WithClock overrides the time source for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) error {
		if now == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithClock requires a non-nil clock"))
		}
		cfg.Clock = now
		return nil
	}
}

// WithEventBuffer sets the size of the internal completions channel.
func WithEventBuffer(size uint) Option {
	return func(cfg *config) error { cfg.EventBuffer = size; return nil }
}
