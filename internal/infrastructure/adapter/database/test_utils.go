package database

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	timeprovider "github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/time"
)

// TestDBManager provides utilities for testing against a real postgres
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDBManager connects to the database named by TEST_DB_* variables and
// migrates it. The test is skipped when TEST_DB_HOST is not set.
func NewTestDBManager(t *testing.T, logger coreport.Logger) *TestDBManager {
	t.Helper()

	host, ok := os.LookupEnv("TEST_DB_HOST")
	if !ok {
		t.Skip("TEST_DB_HOST not set, skipping postgres integration test")
	}

	timeProvider := timeprovider.NewRealTimeProvider()
	config := DefaultConfig()
	config.Host = host
	config.Port = getEnvIntOrDefault("TEST_DB_PORT", 5432)
	config.Username = getEnvOrDefault("TEST_DB_USERNAME", "postgres")
	config.Password = getEnvOrDefault("TEST_DB_PASSWORD", "postgres")
	config.Database = getEnvOrDefault("TEST_DB_DATABASE", "seat_hold_test")
	config.SSLMode = getEnvOrDefault("TEST_DB_SSL_MODE", "disable")
	config.MaxOpenConns = 20
	config.MaxIdleConns = 10
	config.LogLevel = "silent"
	config.RetryAttempts = 1

	manager := NewManager(config, logger, timeProvider, nil)
	ctx := context.Background()

	if _, err := manager.Connect(ctx); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	if err := manager.DB().Exec(`DROP TABLE IF EXISTS concert_seats, seat_hold_migrations CASCADE`).Error; err != nil {
		t.Fatalf("Failed to drop tables: %v", err)
	}
	if err := manager.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
	}
}

// TruncateSeats empties the seat table
func (m *TestDBManager) TruncateSeats(t *testing.T) {
	t.Helper()

	if err := m.Manager.DB().Exec(`TRUNCATE TABLE concert_seats`).Error; err != nil {
		t.Fatalf("Failed to truncate concert_seats: %v", err)
	}
}

// WaitForPool gives the pool monitor a sample to report
func (m *TestDBManager) WaitForPool(t *testing.T) ConnectionPoolMetrics {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if metrics := m.Manager.PoolMetrics(); metrics.MaxOpenConnections > 0 {
			return metrics
		}
		time.Sleep(10 * time.Millisecond)
	}
	return m.Manager.PoolMetrics()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
