package seat

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
	errs "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
)

// ProvisionSeats creates AVAILABLE seats for a concert.
// All seats are created together or none are.
func (s *BookingService) ProvisionSeats(ctx context.Context, concertID string, seatIDs []string) ([]*entity.Seat, error) {
	if len(seatIDs) == 0 {
		return nil, fmt.Errorf("%w: no seat IDs given", errs.ErrInvalidRequest)
	}

	now := s.timeProvider.Now()
	seen := make(map[string]struct{}, len(seatIDs))
	seats := make([]*entity.Seat, 0, len(seatIDs))

	for _, seatID := range seatIDs {
		seatID = strings.TrimSpace(seatID)
		if _, dup := seen[seatID]; dup {
			return nil, fmt.Errorf("%w: %s listed twice", errs.ErrDuplicateSeat, seatID)
		}
		seen[seatID] = struct{}{}

		seat, err := entity.NewSeat(concertID, seatID, now)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	if err := s.seatRepo.CreateSeats(ctx, seats); err != nil {
		s.logger.Error("Failed to provision seats", map[string]any{
			"concert_id": concertID,
			"count":      len(seats),
			"error":      err.Error(),
		})
		return nil, err
	}

	s.invalidateSeatMap(ctx, concertID)
	s.logger.Info("Seats provisioned", map[string]any{
		"concert_id": concertID,
		"count":      len(seats),
	})
	return seats, nil
}
