package database

import (
	"database/sql"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
)

// PoolStatsRecorder receives connection pool snapshots
type PoolStatsRecorder interface {
	RecordPoolStats(stats sql.DBStats)
}

// ConnectionPoolMetrics tracks database connection pool metrics
type ConnectionPoolMetrics struct {
	OpenConnections    int
	IdleConnections    int
	MaxOpenConnections int
	InUse              int
	WaitCount          int64
	WaitDuration       time.Duration
	MaxIdleClosed      int64
	MaxLifetimeClosed  int64
}

// ConnectionPoolMonitor samples the connection pool on a ticker
type ConnectionPoolMonitor struct {
	stats        func() sql.DBStats
	recorder     PoolStatsRecorder
	logger       coreport.Logger
	timeProvider coreport.TimeProvider

	mutex        sync.RWMutex
	metricsCache *ConnectionPoolMetrics
	stopChan     chan struct{}
	doneChan     chan struct{}
}

// NewConnectionPoolMonitor creates a monitor reading stats; recorder may be nil
func NewConnectionPoolMonitor(stats func() sql.DBStats, recorder PoolStatsRecorder, logger coreport.Logger, timeProvider coreport.TimeProvider) *ConnectionPoolMonitor {
	return &ConnectionPoolMonitor{
		stats:        stats,
		recorder:     recorder,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Start collects once and then on every tick of interval
func (m *ConnectionPoolMonitor) Start(interval time.Duration) {
	m.collectMetrics()

	ticker := m.timeProvider.NewTicker(coreport.Duration(interval))
	m.stopChan = make(chan struct{})
	m.doneChan = make(chan struct{})

	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C():
				m.collectMetrics()
			case <-stop:
				return
			}
		}
	}(m.stopChan, m.doneChan)
}

// Stop stops the monitoring
func (m *ConnectionPoolMonitor) Stop() {
	if m.stopChan == nil {
		return
	}
	close(m.stopChan)
	<-m.doneChan
	m.stopChan = nil
}

// GetMetrics returns the current connection pool metrics
func (m *ConnectionPoolMonitor) GetMetrics() ConnectionPoolMetrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.metricsCache == nil {
		return ConnectionPoolMetrics{}
	}
	return *m.metricsCache
}

func (m *ConnectionPoolMonitor) collectMetrics() {
	stats := m.stats()

	m.mutex.Lock()
	m.metricsCache = &ConnectionPoolMetrics{
		OpenConnections:    stats.OpenConnections,
		IdleConnections:    stats.Idle,
		MaxOpenConnections: stats.MaxOpenConnections,
		InUse:              stats.InUse,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
	m.mutex.Unlock()

	if m.recorder != nil {
		m.recorder.RecordPoolStats(stats)
	}

	threshold := float64(stats.MaxOpenConnections) * 0.8
	if stats.MaxOpenConnections > 0 && float64(stats.InUse) > threshold {
		m.logger.Warn("Database connection pool nearly exhausted", map[string]any{
			"in_use":     stats.InUse,
			"max_open":   stats.MaxOpenConnections,
			"idle":       stats.Idle,
			"wait_count": stats.WaitCount,
			"wait_time":  stats.WaitDuration.String(),
		})
	}
}
