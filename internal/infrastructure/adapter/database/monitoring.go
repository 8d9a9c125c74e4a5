package database

import (
	"context"
	"time"

	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	corelogger "github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/logger"
)

// QueryObserver receives the timing of every measured store operation
type QueryObserver interface {
	ObserveQuery(operation string, seconds float64, failed bool)
}

// QueryMetrics holds metrics about a database query
type QueryMetrics struct {
	Operation    string
	Duration     time.Duration
	RowsAffected int64
	Failed       bool
	ErrorMessage string
}

// MetricsCollector times store operations and reports slow ones
type MetricsCollector struct {
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	observer      QueryObserver
	slowThreshold time.Duration
}

// NewMetricsCollector creates a new metrics collector; observer may be nil
func NewMetricsCollector(logger coreport.Logger, timeProvider coreport.TimeProvider, observer QueryObserver, slowThreshold time.Duration) *MetricsCollector {
	return &MetricsCollector{
		logger:        logger,
		timeProvider:  timeProvider,
		observer:      observer,
		slowThreshold: slowThreshold,
	}
}

// MeasureQuery measures the execution time of a database query
func (c *MetricsCollector) MeasureQuery(ctx context.Context, operation string, fn func() (int64, error)) (*QueryMetrics, error) {
	start := c.timeProvider.Now()

	rowsAffected, err := fn()

	metrics := &QueryMetrics{
		Operation:    operation,
		Duration:     c.timeProvider.Since(start).Std(),
		RowsAffected: rowsAffected,
		Failed:       err != nil,
	}
	if err != nil {
		metrics.ErrorMessage = err.Error()
	}

	if c.observer != nil {
		c.observer.ObserveQuery(operation, metrics.Duration.Seconds(), metrics.Failed)
	}

	if c.slowThreshold > 0 && metrics.Duration > c.slowThreshold {
		fields := map[string]any{
			"operation":     operation,
			"duration_ms":   metrics.Duration.Milliseconds(),
			"rows_affected": rowsAffected,
			"failed":        metrics.Failed,
		}
		if requestID := corelogger.RequestIDFromContext(ctx); requestID != "" {
			fields["request_id"] = requestID
		}
		c.logger.Warn("Slow database query detected", fields)
	}

	return metrics, err
}
