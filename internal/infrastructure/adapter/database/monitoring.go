package database

import (
	"context"
	"sync/atomic"
	"time"

	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
)

// WorkMetrics holds metrics about one unit of work
type WorkMetrics struct {
	Operation    string
	Duration     time.Duration
	Failed       bool
	ErrorMessage string
}

// MetricsSnapshot is a point-in-time copy of the collected counters
type MetricsSnapshot struct {
	Units    int64 `json:"units"`
	Failures int64 `json:"failures"`
	Slow     int64 `json:"slow"`
}

// MetricsCollector collects unit-of-work metrics
type MetricsCollector struct {
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	slowThreshold time.Duration

	units    atomic.Int64
	failures atomic.Int64
	slow     atomic.Int64
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger coreport.Logger, timeProvider coreport.TimeProvider, slowThreshold time.Duration) *MetricsCollector {
	return &MetricsCollector{
		logger:        logger,
		timeProvider:  timeProvider,
		slowThreshold: slowThreshold,
	}
}

// MeasureWork measures the execution time of a unit of work
func (c *MetricsCollector) MeasureWork(ctx context.Context, operation string, fn func() error) (*WorkMetrics, error) {
	start := c.timeProvider.Now()

	err := fn()

	metrics := &WorkMetrics{
		Operation: operation,
		Duration:  c.timeProvider.Since(start).Std(),
		Failed:    err != nil,
	}
	c.units.Add(1)

	if err != nil {
		metrics.ErrorMessage = err.Error()
		c.failures.Add(1)
	}

	if c.slowThreshold > 0 && metrics.Duration > c.slowThreshold {
		c.slow.Add(1)
		c.logger.Warn("Slow unit of work detected", map[string]any{
			"operation":     operation,
			"duration_ms":   metrics.Duration.Milliseconds(),
			"failed":        metrics.Failed,
			"error_message": metrics.ErrorMessage,
		})
	}

	return metrics, err
}

// Snapshot returns the current counters
func (c *MetricsCollector) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Units:    c.units.Load(),
		Failures: c.failures.Load(),
		Slow:     c.slow.Load(),
	}
}
