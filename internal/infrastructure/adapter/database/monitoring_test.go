package database

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/time"
)

type recordingObserver struct {
	mu      sync.Mutex
	queries []string
	failed  []bool
	pools   []sql.DBStats
}

func (o *recordingObserver) ObserveQuery(operation string, _ float64, failed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.queries = append(o.queries, operation)
	o.failed = append(o.failed, failed)
}

func (o *recordingObserver) RecordPoolStats(stats sql.DBStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pools = append(o.pools, stats)
}

func (o *recordingObserver) poolSamples() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pools)
}

func TestMetricsCollector_MeasureQuery(t *testing.T) {
	clock := timeprovider.NewManualTimeProvider(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	obsCore, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewZapLoggerFromCore(obsCore, core.LogLevelDebug)
	rec := &recordingObserver{}
	collector := NewMetricsCollector(log, clock, rec, 100*time.Millisecond)

	t.Run("fast query", func(t *testing.T) {
		metrics, err := collector.MeasureQuery(context.Background(), "get_seat", func() (int64, error) {
			return 1, nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), metrics.RowsAffected)
		assert.False(t, metrics.Failed)
		assert.Zero(t, logs.FilterMessage("Slow database query detected").Len())
	})

	t.Run("slow failing query is logged with request id", func(t *testing.T) {
		ctx := logger.WithRequestID(context.Background(), "req-1")
		boom := errors.New("boom")

		metrics, err := collector.MeasureQuery(ctx, "release_expired", func() (int64, error) {
			clock.Advance(time.Second)
			return 0, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.True(t, metrics.Failed)
		assert.Equal(t, time.Second, metrics.Duration)

		slow := logs.FilterMessage("Slow database query detected").All()
		require.Len(t, slow, 1)
		assert.Equal(t, "req-1", slow[0].ContextMap()["request_id"])
	})

	assert.Equal(t, []string{"get_seat", "release_expired"}, rec.queries)
	assert.Equal(t, []bool{false, true}, rec.failed)
}

func TestConnectionPoolMonitor(t *testing.T) {
	clock := timeprovider.NewManualTimeProvider(time.Now())
	obsCore, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewZapLoggerFromCore(obsCore, core.LogLevelDebug)
	rec := &recordingObserver{}

	stats := sql.DBStats{MaxOpenConnections: 10, OpenConnections: 9, InUse: 9}
	monitor := NewConnectionPoolMonitor(func() sql.DBStats { return stats }, rec, log, clock)

	monitor.Start(time.Minute)
	// first sample is taken synchronously
	assert.Equal(t, 1, rec.poolSamples())
	assert.Equal(t, 9, monitor.GetMetrics().InUse)
	assert.Equal(t, 1, logs.FilterMessage("Database connection pool nearly exhausted").Len())

	clock.Tick()
	assert.Eventually(t, func() bool { return rec.poolSamples() == 2 }, time.Second, 5*time.Millisecond)

	monitor.Stop()
	monitor.Stop()
	assert.Equal(t, 10, monitor.GetMetrics().MaxOpenConnections)
}
