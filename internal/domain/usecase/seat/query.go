package seat

import (
	"context"
	"strings"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
	errs "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
)

// GetSeat reads one seat directly from the store
func (s *BookingService) GetSeat(ctx context.Context, concertID, seatID string) (*entity.Seat, error) {
	if err := entity.ValidateSeatKey(concertID, seatID); err != nil {
		return nil, err
	}

	seat, err := s.seatRepo.GetSeat(ctx, concertID, seatID)
	if err != nil {
		if !errs.IsSeatNotFoundError(err) {
			s.logger.Error("Failed to get seat", map[string]any{
				"concert_id": concertID,
				"seat_id":    seatID,
				"error":      err.Error(),
			})
		}
		return nil, err
	}
	return seat, nil
}

// ListSeats returns the concert's seat map, served from the read cache when fresh.
// The result is for display only and may lag the store by the cache TTL.
func (s *BookingService) ListSeats(ctx context.Context, concertID string) ([]*entity.Seat, error) {
	if strings.TrimSpace(concertID) == "" {
		return nil, errs.ErrInvalidConcertID
	}

	if s.seatMapCache != nil {
		seats, ok, err := s.seatMapCache.Get(ctx, concertID)
		switch {
		case err != nil:
			s.logger.Warn("Seat map cache read failed", map[string]any{
				"concert_id": concertID,
				"error":      err.Error(),
			})
		case ok:
			s.logger.Debug("Seat map served from cache", map[string]any{
				"concert_id": concertID,
				"seats":      len(seats),
			})
			return seats, nil
		}
	}

	seats, err := s.seatRepo.ListSeats(ctx, concertID)
	if err != nil {
		s.logger.Error("Failed to list seats", map[string]any{
			"concert_id": concertID,
			"error":      err.Error(),
		})
		return nil, err
	}

	// A write landing between the read above and this fill leaves a stale entry
	// until the TTL lapses; the seat map is display-only so that window is accepted.
	if s.seatMapCache != nil && len(seats) > 0 {
		if err := s.seatMapCache.Set(ctx, concertID, seats); err != nil {
			s.logger.Warn("Failed to populate seat map cache", map[string]any{
				"concert_id": concertID,
				"error":      err.Error(),
			})
		}
	}
	return seats, nil
}
