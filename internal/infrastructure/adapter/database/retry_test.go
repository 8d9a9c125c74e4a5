package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/logger"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, RetryInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestRetryOnTransientError(t *testing.T) {
	ctx := context.Background()
	mapper := NewErrorMapper()
	log := logger.NewNoopLogger()

	t.Run("retries transient failures until success", func(t *testing.T) {
		calls := 0
		err := RetryOnTransientError(ctx, fastRetry(5), func(context.Context) error {
			calls++
			if calls < 3 {
				return &pgconn.PgError{Code: "40001"}
			}
			return nil
		}, mapper, log)

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up on permanent failures immediately", func(t *testing.T) {
		calls := 0
		permanent := &pgconn.PgError{Code: "23505"}
		err := RetryOnTransientError(ctx, fastRetry(5), func(context.Context) error {
			calls++
			return permanent
		}, mapper, log)

		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops after max attempts", func(t *testing.T) {
		calls := 0
		err := RetryOnTransientError(ctx, fastRetry(3), func(context.Context) error {
			calls++
			return errors.New("connection refused")
		}, mapper, log)

		assert.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("honours context cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		config := RetryConfig{MaxAttempts: 5, RetryInterval: time.Hour, MaxInterval: time.Hour}

		err := RetryOnTransientError(cancelled, config, func(context.Context) error {
			cancel()
			return errors.New("connection refused")
		}, mapper, log)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCalculateBackoffWithJitter(t *testing.T) {
	config := RetryConfig{RetryInterval: 100 * time.Millisecond, MaxInterval: time.Second}

	assert.Equal(t, 100*time.Millisecond, calculateBackoffWithJitter(0, config))
	assert.Equal(t, 400*time.Millisecond, calculateBackoffWithJitter(2, config))
	assert.Equal(t, time.Second, calculateBackoffWithJitter(10, config))

	config.JitterFactor = 0.5
	backoff := calculateBackoffWithJitter(0, config)
	assert.GreaterOrEqual(t, backoff, 100*time.Millisecond)
	assert.LessOrEqual(t, backoff, 150*time.Millisecond)
}
