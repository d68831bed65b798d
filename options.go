package anongo

import (
	"log/slog"

	"github.com/hupe1980/anongo/internal/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	resourceConfig   resource.Config
}

// Option configures Anonymizer behavior.
//
// Today options primarily exist to avoid exploding the API surface
// (e.g. logger-specific constructor variants).
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &anongo.BasicMetricsCollector{}
//	a := anongo.New(anongo.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
//	fmt.Printf("Checked nodes: %d\n", stats.CheckedNodes)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for runs.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := anongo.NewJSONLogger(slog.LevelInfo)
//	a := anongo.New(anongo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMemoryLimit caps the memory the snapshot history may hold, in bytes.
// Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.resourceConfig.MemoryLimitBytes = bytes
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
