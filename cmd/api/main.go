package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	cacheport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/cache"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/persistence"
	seatUseCase "github.com/amirhossein-jamali/seat-hold/internal/domain/usecase/seat"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/usecase/sweeper"

	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/repository"
	timeProvider "github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/config"
)

func main() {
	config.RegisterFlags(pflag.CommandLine)
	pflag.Parse()

	cfg, err := config.LoadConfig(pflag.CommandLine)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.IsProduction() || cfg.Logger.Format == "json", core.ParseLogLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	for _, warning := range productionWarnings(cfg) {
		appLogger.Warn("Potential issue in production configuration", map[string]any{"warning": warning})
	}

	tp := timeProvider.NewRealTimeProvider()
	ctx := context.Background()

	var (
		appMetrics   core.Metrics
		promMetrics  *metrics.PrometheusMetrics
		httpObserver middleware.HTTPObserver
	)
	if cfg.Metrics.Enabled {
		promMetrics = metrics.NewPrometheusMetrics()
		appMetrics = promMetrics
		httpObserver = promMetrics
	}

	checks := map[string]handler.HealthCheck{}

	// Seat store
	var seatRepo persistence.SeatRepository
	var dbManager *database.Manager
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		appLogger.Warn("Using in-memory seat store, state is lost on restart", nil)
		seatRepo = repository.NewMemorySeatRepository()
		checks["store"] = func(context.Context) error { return nil }

	default:
		dbConfig := database.FromAppConfig(cfg)
		var poolRecorder database.PoolStatsRecorder
		var queryObserver database.QueryObserver
		if promMetrics != nil {
			poolRecorder = promMetrics
			queryObserver = promMetrics
		}

		dbManager = database.NewManager(dbConfig, appLogger, tp, poolRecorder)
		if _, err := dbManager.Connect(ctx); err != nil {
			appLogger.Error("Failed to connect to database", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer func() { _ = dbManager.Close() }()

		if err := dbManager.Migrate(ctx); err != nil {
			appLogger.Error("Failed to run migrations", map[string]any{"error": err.Error()})
			os.Exit(1)
		}

		collector := database.NewMetricsCollector(appLogger, tp, queryObserver, dbConfig.SlowThreshold)
		seatRepo = repository.NewSeatRepository(dbManager.DB(), tp, appLogger.Named("seat_repository"), collector, dbConfig.QueryTimeout)
		checks["store"] = dbManager.Ping
	}

	// Seat map cache
	var seatMapCache cacheport.SeatMapCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = redisClient.Close() }()

		redisCache := cache.NewRedisSeatMapCache(redisClient, cfg.Redis.SeatMapTTL)
		if err := redisCache.Ping(ctx); err != nil {
			// reads fall through to the store while redis is down
			appLogger.Warn("Redis unreachable at startup", map[string]any{"addr": cfg.Redis.Addr, "error": err.Error()})
		}
		seatMapCache = redisCache
		checks["cache"] = redisCache.Ping
	}

	// Use cases
	bookingService := seatUseCase.NewBookingService(
		seatRepo,
		seatMapCache,
		tp,
		appLogger.Named("booking"),
		appMetrics,
		cfg.Booking.HoldDuration,
	)

	expirySweeper := sweeper.NewExpirySweeper(
		seatRepo,
		seatMapCache,
		tp,
		appLogger.Named("sweeper"),
		appMetrics,
		sweeper.Config{
			Interval:     cfg.Booking.SweepInterval,
			CycleTimeout: cfg.Booking.SweepTimeout,
		},
	)
	checks["sweeper"] = func(context.Context) error {
		if !expirySweeper.IsRunning() {
			return errors.New("expiry sweeper not running")
		}
		return nil
	}

	if err := seedSeats(ctx, cfg, dbManager, bookingService, appLogger); err != nil {
		appLogger.Error("Failed to seed default seats", map[string]any{"error": err.Error()})
	}

	if err := expirySweeper.Start(); err != nil {
		appLogger.Error("Failed to start expiry sweeper", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	// HTTP
	seatHandler := handler.NewSeatHandler(bookingService, appLogger.Named("http"))
	healthHandler := handler.NewHealthHandler(checks, tp, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger.Named("http"), tp, httpObserver)

	var metricsHandler http.Handler
	if promMetrics != nil {
		metricsHandler = promMetrics.Handler()
	}
	routes.SetupRoutes(router, seatHandler, healthHandler, cfg.Metrics.Path, metricsHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":          server.Addr,
			"env":           cfg.Environment,
			"store":         cfg.Store.Driver,
			"hold_duration": cfg.Booking.HoldDuration.String(),
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	// an in-flight sweep finishes before the store is closed
	expirySweeper.Stop()

	appLogger.Info("Server exited gracefully", nil)
}

// seedSeats provisions the configured demo seating. Against postgres it retries
// transient failures since the database may still be warming up.
func seedSeats(ctx context.Context, cfg *config.Config, dbManager *database.Manager, provisioner migration.SeatProvisioner, appLogger core.Logger) error {
	if cfg.Seed.ConcertID == "" || len(cfg.Seed.SeatIDs) == 0 {
		return nil
	}

	seed := func(ctx context.Context) error {
		_, err := migration.SeedDefaultSeats(ctx, provisioner, appLogger, cfg.Seed.ConcertID, cfg.Seed.SeatIDs)
		return err
	}
	if dbManager == nil {
		return seed(ctx)
	}

	seedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return database.RetryOnTransientError(seedCtx, database.FromAppConfig(cfg).RetryConfig(), seed, dbManager.GetErrorMapper(), appLogger)
}

// productionWarnings lists settings that are legal but risky in production
func productionWarnings(cfg *config.Config) []string {
	if !cfg.IsProduction() {
		return nil
	}

	var warnings []string
	switch strings.ToLower(cfg.Database.SSLMode) {
	case "require", "verify-ca", "verify-full":
	default:
		if cfg.Store.Driver == config.StoreDriverPostgres {
			warnings = append(warnings, "database.sslMode should be 'require', 'verify-ca' or 'verify-full' in production")
		}
	}
	if cfg.Store.Driver == config.StoreDriverMemory {
		warnings = append(warnings, "store.driver memory keeps seats in process memory only")
	}
	if cfg.Server.ReadTimeout < 5*time.Second {
		warnings = append(warnings, "server.readTimeout is too low for production")
	}
	if cfg.Booking.SweepInterval > cfg.Booking.HoldDuration {
		warnings = append(warnings, "booking.sweepIntervalSeconds exceeds the hold duration, expired holds linger")
	}
	return warnings
}
