package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	errs "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/cache"
	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/persistence"
)

// Defaults applied when Config leaves a field zero
const (
	DefaultInterval     = 60 * time.Second
	DefaultCycleTimeout = 10 * time.Second
)

// Config controls the sweep schedule
type Config struct {
	Interval     time.Duration
	CycleTimeout time.Duration
}

// ExpirySweeper periodically returns lapsed holds to AVAILABLE.
// It is the only place where a hold's expiry takes effect.
type ExpirySweeper struct {
	seatRepo     persistence.SeatRepository
	seatMapCache cache.SeatMapCache
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	metrics      coreport.Metrics
	config       Config

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewExpirySweeper creates a new ExpirySweeper. seatMapCache and metrics may be nil.
func NewExpirySweeper(
	seatRepo persistence.SeatRepository,
	seatMapCache cache.SeatMapCache,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	metrics coreport.Metrics,
	config Config,
) *ExpirySweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.CycleTimeout <= 0 {
		config.CycleTimeout = DefaultCycleTimeout
	}

	return &ExpirySweeper{
		seatRepo:     seatRepo,
		seatMapCache: seatMapCache,
		timeProvider: timeProvider,
		logger:       logger,
		metrics:      metrics,
		config:       config,
	}
}

// SweepExpiredHolds reclaims every hold that expired strictly before now in a
// single bulk write and returns the number of seats reclaimed. Repeating or
// overlapping calls are safe: a seat is only ever reclaimed once.
func (s *ExpirySweeper) SweepExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	start := s.timeProvider.Now()

	reclaimed, err := s.seatRepo.ReleaseExpiredHolds(ctx, now)
	elapsed := s.timeProvider.Since(start).Std()
	if err != nil {
		if !errs.IsStoreUnavailableError(err) {
			err = errs.NewStoreError("release expired holds", err)
		}
		s.observe(0, elapsed, true)
		s.logger.Error("Expiry sweep failed", map[string]any{
			"cutoff": now,
			"error":  err.Error(),
		})
		return 0, err
	}

	s.observe(reclaimed, elapsed, false)
	if reclaimed == 0 {
		s.logger.Debug("Expiry sweep found no lapsed holds", map[string]any{
			"cutoff": now,
		})
		return 0, nil
	}

	s.logger.Info("Expired seat holds reclaimed", map[string]any{
		"cutoff":      now,
		"reclaimed":   reclaimed,
		"duration_ms": elapsed.Milliseconds(),
	})

	if s.seatMapCache != nil {
		if err := s.seatMapCache.InvalidateAll(ctx); err != nil {
			s.logger.Warn("Failed to flush seat map cache after sweep", map[string]any{
				"error": err.Error(),
			})
		}
	}
	return reclaimed, nil
}

// Start launches the periodic sweep on its own goroutine
func (s *ExpirySweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errs.ErrSweeperRunning
	}

	ticker := s.timeProvider.NewTicker(coreport.Duration(s.config.Interval))
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.running = true

	go s.loop(ticker, s.stopChan, s.doneChan)

	s.logger.Info("Expiry sweeper started", map[string]any{
		"interval_seconds": s.config.Interval.Seconds(),
		"timeout_seconds":  s.config.CycleTimeout.Seconds(),
	})
	return nil
}

// Stop halts the periodic sweep and waits for an in-flight cycle to finish.
// Calling Stop on a stopped sweeper is a no-op.
func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	done := s.doneChan
	s.running = false
	s.mu.Unlock()

	<-done
	s.logger.Info("Expiry sweeper stopped", nil)
}

// IsRunning reports whether the periodic sweep is active
func (s *ExpirySweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *ExpirySweeper) loop(ticker coreport.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C():
			s.runCycle()
		case <-stop:
			return
		}
	}
}

// runCycle performs one scheduled sweep. Failures are logged and the next tick tries again.
func (s *ExpirySweeper) runCycle() {
	defer func() {
		if r := recover(); r != nil {
			s.observe(0, 0, true)
			s.logger.Error("Expiry sweep panicked", map[string]any{
				"panic": fmt.Sprint(r),
			})
		}
	}()

	ctx, cancel := s.timeProvider.WithTimeout(context.Background(), coreport.Duration(s.config.CycleTimeout))
	defer cancel()

	_, _ = s.SweepExpiredHolds(ctx, s.timeProvider.Now())
}

func (s *ExpirySweeper) observe(reclaimed int64, elapsed time.Duration, failed bool) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveSweep(reclaimed, elapsed.Seconds(), failed)
}
