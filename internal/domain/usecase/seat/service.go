package seat

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/cache"
	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/usecase"
)

// DefaultHoldDuration is used when no hold duration is configured
const DefaultHoldDuration = 600 * time.Second

// BookingService implements the booking flow on top of SeatStatusTransition
type BookingService struct {
	transition   *SeatStatusTransition
	seatRepo     persistence.SeatRepository
	seatMapCache cache.SeatMapCache
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	holdDuration time.Duration
}

var _ usecase.BookingUseCase = (*BookingService)(nil)

// NewBookingService creates a new BookingService.
// seatMapCache and metrics may be nil.
func NewBookingService(
	seatRepo persistence.SeatRepository,
	seatMapCache cache.SeatMapCache,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	metrics coreport.Metrics,
	holdDuration time.Duration,
) *BookingService {
	if holdDuration <= 0 {
		holdDuration = DefaultHoldDuration
	}

	return &BookingService{
		transition:   NewSeatStatusTransition(seatRepo, timeProvider, logger, metrics),
		seatRepo:     seatRepo,
		seatMapCache: seatMapCache,
		timeProvider: timeProvider,
		logger:       logger,
		holdDuration: holdDuration,
	}
}

// HoldDuration returns the configured hold lifetime
func (s *BookingService) HoldDuration() time.Duration {
	return s.holdDuration
}

// invalidateSeatMap drops the concert's cached seat map after a write.
// A failure only leaves a stale display entry until its TTL runs out.
func (s *BookingService) invalidateSeatMap(ctx context.Context, concertID string) {
	if s.seatMapCache == nil {
		return
	}
	if err := s.seatMapCache.Invalidate(ctx, concertID); err != nil {
		s.logger.Warn("Failed to invalidate seat map cache", map[string]any{
			"concert_id": concertID,
			"error":      err.Error(),
		})
	}
}
