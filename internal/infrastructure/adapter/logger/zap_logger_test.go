package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
)

func TestZapLogger_LevelFiltering(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFromCore(observed, core.LogLevelWarn)

	log.Debug("debug", nil)
	log.Info("info", nil)
	log.Warn("warn", map[string]any{"seat_id": "A-1"})
	log.Error("error", nil)

	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, "warn", logs.All()[0].Message)
	assert.Equal(t, "A-1", logs.All()[0].ContextMap()["seat_id"])

	log.SetLevel(core.LogLevelDebug)
	assert.Equal(t, core.LogLevelDebug, log.GetLevel())
	log.Debug("debug again", nil)
	assert.Equal(t, 3, logs.Len())
}

func TestZapLogger_Named(t *testing.T) {
	observed, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFromCore(observed, core.LogLevelInfo)

	log.Named("sweeper").Info("Expired seat holds reclaimed", map[string]any{"reclaimed": int64(3)})

	entry := logs.All()[0]
	assert.Equal(t, "sweeper", entry.ContextMap()["component"])
	assert.Equal(t, int64(3), entry.ContextMap()["reclaimed"])

	// Children share the parent's level
	log.SetLevel(core.LogLevelError)
	log.Named("api").Info("dropped", nil)
	assert.Equal(t, 1, logs.Len())
}

func TestNoopLogger(t *testing.T) {
	log := NewNoopLogger()
	log.SetLevel(core.LogLevelDebug)

	assert.Equal(t, core.LogLevelDebug, log.GetLevel())
	assert.Same(t, log, log.Named("x"))
	assert.NoError(t, log.Flush())
}
