package anongo

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    checkCounter    prometheus.Counter
//	    searchHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordCheck(duration time.Duration, anonymous bool) {
//	    p.checkCounter.Inc()
//	    // ... record duration, anonymity outcome, etc.
//	}
type MetricsCollector interface {
	// RecordEncode is called once after the input table was encoded.
	// rows is the table size, err is nil if successful.
	RecordEncode(rows int, duration time.Duration, err error)

	// RecordProgress is called during the search, throttled to a few calls
	// per second. checked is the number of evaluated nodes, total the
	// lattice size.
	RecordProgress(checked, total int)

	// RecordSearch is called after the lattice search.
	// checked is the number of evaluated nodes, err is nil if successful.
	RecordSearch(checked int, duration time.Duration, err error)

	// RecordAnonymize is called once per run with the end-to-end duration.
	RecordAnonymize(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEncode(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordProgress(int, int)                {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordAnonymize(time.Duration, error)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EncodeCount       atomic.Int64
	EncodeErrors      atomic.Int64
	EncodeTotalNanos  atomic.Int64
	CheckedNodes      atomic.Int64
	SearchCount       atomic.Int64
	SearchErrors      atomic.Int64
	SearchTotalNanos  atomic.Int64
	AnonymizeCount    atomic.Int64
	AnonymizeErrors   atomic.Int64
	AnonymizeTotNanos atomic.Int64
}

// RecordEncode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEncode(rows int, duration time.Duration, err error) {
	b.EncodeCount.Add(1)
	b.EncodeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EncodeErrors.Add(1)
	}
}

// RecordProgress implements MetricsCollector.
func (b *BasicMetricsCollector) RecordProgress(checked, total int) {
	b.CheckedNodes.Store(int64(checked))
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(checked int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.CheckedNodes.Store(int64(checked))
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordAnonymize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAnonymize(duration time.Duration, err error) {
	b.AnonymizeCount.Add(1)
	b.AnonymizeTotNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AnonymizeErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EncodeCount:     b.EncodeCount.Load(),
		EncodeErrors:    b.EncodeErrors.Load(),
		CheckedNodes:    b.CheckedNodes.Load(),
		SearchCount:     b.SearchCount.Load(),
		SearchErrors:    b.SearchErrors.Load(),
		SearchAvgNanos:  b.getAvgSearchNanos(),
		AnonymizeCount:  b.AnonymizeCount.Load(),
		AnonymizeErrors: b.AnonymizeErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSearchNanos() int64 {
	count := b.SearchCount.Load()
	if count == 0 {
		return 0
	}
	return b.SearchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EncodeCount     int64
	EncodeErrors    int64
	CheckedNodes    int64
	SearchCount     int64
	SearchErrors    int64
	SearchAvgNanos  int64
	AnonymizeCount  int64
	AnonymizeErrors int64
}

// progressReporter throttles per-node progress callbacks so large searches
// do not drown the collector.
type progressReporter struct {
	collector MetricsCollector
	limiter   *rate.Limiter
}

func newProgressReporter(collector MetricsCollector) *progressReporter {
	return &progressReporter{
		collector: collector,
		limiter:   rate.NewLimiter(rate.Limit(4), 1),
	}
}

func (p *progressReporter) report(checked, total int) {
	if checked == total || p.limiter.Allow() {
		p.collector.RecordProgress(checked, total)
	}
}
