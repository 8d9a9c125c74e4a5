package migration

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
	errs "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
)

// SeatProvisioner is the part of the booking use case seeding relies on
type SeatProvisioner interface {
	ListSeats(ctx context.Context, concertID string) ([]*entity.Seat, error)
	ProvisionSeats(ctx context.Context, concertID string, seatIDs []string) ([]*entity.Seat, error)
}

// SeedDefaultSeats provisions the configured seats of concertID that do not exist yet.
// It returns the number of seats created.
func SeedDefaultSeats(ctx context.Context, provisioner SeatProvisioner, logger coreport.Logger, concertID string, seatIDs []string) (int, error) {
	if concertID == "" || len(seatIDs) == 0 {
		return 0, nil
	}

	existing, err := provisioner.ListSeats(ctx, concertID)
	if err != nil {
		return 0, err
	}

	present := make(map[string]bool, len(existing))
	for _, seat := range existing {
		present[seat.SeatID] = true
	}

	missing := make([]string, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		if !present[seatID] {
			missing = append(missing, seatID)
			present[seatID] = true
		}
	}
	if len(missing) == 0 {
		logger.Debug("Default seats already present", map[string]any{"concert_id": concertID})
		return 0, nil
	}

	created, err := provisioner.ProvisionSeats(ctx, concertID, missing)
	if errors.Is(err, errs.ErrDuplicateSeat) {
		// another instance seeded concurrently
		logger.Info("Default seats seeded by another instance", map[string]any{"concert_id": concertID})
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	logger.Info("Default seats seeded", map[string]any{
		"concert_id": concertID,
		"created":    len(created),
	})
	return len(created), nil
}
