package hstrat

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    deposits  prometheus.Counter
//	    retained  prometheus.Gauge
//	}
//
//	func (p *PrometheusCollector) RecordDeposit(duration time.Duration, numRetained int) {
//	    p.deposits.Inc()
//	    p.retained.Set(float64(numRetained))
//	}
type MetricsCollector interface {
	// RecordDeposit is called after each stratum deposit.
	// numRetained is the column's retained count after the deposit.
	RecordDeposit(duration time.Duration, numRetained int)

	// RecordComparison is called after each Compare call.
	RecordComparison(op string, duration time.Duration)

	// RecordRecordsIngest is called after records are decoded into a
	// specimen or column. err is nil if successful.
	RecordRecordsIngest(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDeposit(time.Duration, int)       {}
func (NoopMetricsCollector) RecordComparison(string, time.Duration) {}
func (NoopMetricsCollector) RecordRecordsIngest(error)              {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	DepositCount      atomic.Int64
	DepositTotalNanos atomic.Int64
	MaxRetained       atomic.Int64
	ComparisonCount   atomic.Int64
	ComparisonNanos   atomic.Int64
	IngestCount       atomic.Int64
	IngestErrors      atomic.Int64
}

// RecordDeposit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDeposit(duration time.Duration, numRetained int) {
	b.DepositCount.Add(1)
	b.DepositTotalNanos.Add(duration.Nanoseconds())
	for {
		cur := b.MaxRetained.Load()
		if int64(numRetained) <= cur || b.MaxRetained.CompareAndSwap(cur, int64(numRetained)) {
			return
		}
	}
}

// RecordComparison implements MetricsCollector.
func (b *BasicMetricsCollector) RecordComparison(_ string, duration time.Duration) {
	b.ComparisonCount.Add(1)
	b.ComparisonNanos.Add(duration.Nanoseconds())
}

// RecordRecordsIngest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRecordsIngest(err error) {
	b.IngestCount.Add(1)
	if err != nil {
		b.IngestErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		DepositCount:       b.DepositCount.Load(),
		DepositAvgNanos:    avg(b.DepositTotalNanos.Load(), b.DepositCount.Load()),
		MaxRetained:        b.MaxRetained.Load(),
		ComparisonCount:    b.ComparisonCount.Load(),
		ComparisonAvgNanos: avg(b.ComparisonNanos.Load(), b.ComparisonCount.Load()),
		IngestCount:        b.IngestCount.Load(),
		IngestErrors:       b.IngestErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	DepositCount       int64
	DepositAvgNanos    int64
	MaxRetained        int64
	ComparisonCount    int64
	ComparisonAvgNanos int64
	IngestCount        int64
	IngestErrors       int64
}
