package persistence

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
)

// SeatRepository is the durable seat record store keyed by (concert, seat).
// Both write methods must be atomic with respect to each other and to themselves:
// no caller may observe a row half-way through an update.
type SeatRepository interface {
	// UpdateStatusIf applies update to the row matching cond in one atomic
	// compare-and-set. It reports whether a row was modified; false means the
	// row's live state did not satisfy cond (or the row does not exist).
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the store could not be reached or did not acknowledge the write
	UpdateStatusIf(ctx context.Context, cond entity.SeatCondition, update entity.SeatUpdate) (bool, error)

	// ReleaseExpiredHolds returns every HOLD row whose hold_expires_at is strictly
	// before now to AVAILABLE, clearing hold_expires_at and last_action_user, in a
	// single bulk statement. It returns the number of rows modified.
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the store could not be reached
	ReleaseExpiredHolds(ctx context.Context, now time.Time) (int64, error)

	// GetSeat reads one seat
	//
	// Possible errors:
	// - ErrSeatNotFound: If no seat exists for the key
	// - ErrStoreUnavailable: If the store could not be reached
	GetSeat(ctx context.Context, concertID, seatID string) (*entity.Seat, error)

	// ListSeats reads every seat of a concert ordered by seat ID
	//
	// Possible errors:
	// - ErrStoreUnavailable: If the store could not be reached
	ListSeats(ctx context.Context, concertID string) ([]*entity.Seat, error)

	// CreateSeats inserts new seats in one statement; all or none are created
	//
	// Possible errors:
	// - ErrDuplicateSeat: If any of the seats already exists
	// - ErrStoreUnavailable: If the store could not be reached
	CreateSeats(ctx context.Context, seats []*entity.Seat) error
}
