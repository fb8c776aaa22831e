package annogo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives measurements from store and select operations.
// Implementations must be safe for concurrent use.
type MetricsCollector interface {
	// RecordAdd is called once per record insertion.
	RecordAdd(duration time.Duration, err error)

	// RecordSelect is called once per terminal select operation.
	RecordSelect(duration time.Duration, err error)

	// RecordMaterialize is called when a select materializes results,
	// with the number of records produced.
	RecordMaterialize(count int, duration time.Duration)
}

// NoopMetricsCollector discards all measurements.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, error)       {}
func (NoopMetricsCollector) RecordSelect(time.Duration, error)    {}
func (NoopMetricsCollector) RecordMaterialize(int, time.Duration) {}

// BasicMetricsCollector keeps lock-free counters, suitable for tests and
// simple monitoring.
type BasicMetricsCollector struct {
	addCount     atomic.Int64
	addErrors    atomic.Int64
	addNanos     atomic.Int64
	selectCount  atomic.Int64
	selectErrors atomic.Int64
	selectNanos  atomic.Int64
	materialized atomic.Int64
}

// NewBasicMetricsCollector creates an empty collector.
func NewBasicMetricsCollector() *BasicMetricsCollector {
	return &BasicMetricsCollector{}
}

func (c *BasicMetricsCollector) RecordAdd(d time.Duration, err error) {
	c.addCount.Add(1)
	c.addNanos.Add(int64(d))
	if err != nil {
		c.addErrors.Add(1)
	}
}

func (c *BasicMetricsCollector) RecordSelect(d time.Duration, err error) {
	c.selectCount.Add(1)
	c.selectNanos.Add(int64(d))
	if err != nil {
		c.selectErrors.Add(1)
	}
}

func (c *BasicMetricsCollector) RecordMaterialize(count int, _ time.Duration) {
	c.materialized.Add(int64(count))
}

// MetricsSnapshot is a point-in-time copy of the collector's counters.
type MetricsSnapshot struct {
	AddCount            int64
	AddErrors           int64
	AddTotalDuration    time.Duration
	SelectCount         int64
	SelectErrors        int64
	SelectDuration      time.Duration
	RecordsMaterialized int64
}

// Snapshot returns the current counter values.
func (c *BasicMetricsCollector) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		AddCount:            c.addCount.Load(),
		AddErrors:           c.addErrors.Load(),
		AddTotalDuration:    time.Duration(c.addNanos.Load()),
		SelectCount:         c.selectCount.Load(),
		SelectErrors:        c.selectErrors.Load(),
		SelectDuration:      time.Duration(c.selectNanos.Load()),
		RecordsMaterialized: c.materialized.Load(),
	}
}
