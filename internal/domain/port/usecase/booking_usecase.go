package usecase

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
)

// TransitionResult describes a successfully applied seat transition
type TransitionResult struct {
	ConcertID     string
	SeatID        string
	FromStatuses  []entity.SeatStatus // statuses the conditional write accepted
	Status        entity.SeatStatus
	HoldExpiresAt *time.Time
	Holder        string
}

// BookingUseCase is the seat-hold contract consumed by the booking flow
type BookingUseCase interface {
	// Hold places a time-boxed hold on an AVAILABLE seat for userID
	Hold(ctx context.Context, concertID, seatID, userID string) (*TransitionResult, error)

	// Purchase turns userID's hold into a sale
	Purchase(ctx context.Context, concertID, seatID, userID string) (*TransitionResult, error)

	// Release gives userID's hold back before it expires
	Release(ctx context.Context, concertID, seatID, userID string) (*TransitionResult, error)

	// Cancel moves a SOLD seat to CANCELLED; userID scopes it to the owner when set
	Cancel(ctx context.Context, concertID, seatID, userID string) (*TransitionResult, error)

	// Reopen returns a CANCELLED seat to sale
	Reopen(ctx context.Context, concertID, seatID string) (*TransitionResult, error)

	// Override moves a seat into status from whichever state legally precedes it
	Override(ctx context.Context, concertID, seatID string, status entity.SeatStatus, actingUserID string) (*TransitionResult, error)

	// GetSeat reads one seat from the store
	GetSeat(ctx context.Context, concertID, seatID string) (*entity.Seat, error)

	// ListSeats returns a concert's seat map
	ListSeats(ctx context.Context, concertID string) ([]*entity.Seat, error)

	// ProvisionSeats creates AVAILABLE seats for a concert
	ProvisionSeats(ctx context.Context, concertID string, seatIDs []string) ([]*entity.Seat, error)
}
