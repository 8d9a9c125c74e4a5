package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
)

// SeatStatus represents the lifecycle state of a concert seat
type SeatStatus string

// Seat statuses
const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatHold      SeatStatus = "HOLD"
	SeatSold      SeatStatus = "SOLD"
	SeatCancelled SeatStatus = "CANCELLED"
)

// transitionSources lists, for every target status, the statuses a seat may leave to reach it.
//
//	AVAILABLE --hold--> HOLD
//	HOLD      --purchase--> SOLD
//	HOLD      --release/sweep--> AVAILABLE
//	SOLD      --cancel--> CANCELLED
//	CANCELLED --reopen--> AVAILABLE
var transitionSources = map[SeatStatus][]SeatStatus{
	SeatHold:      {SeatAvailable},
	SeatSold:      {SeatHold},
	SeatAvailable: {SeatHold, SeatCancelled},
	SeatCancelled: {SeatSold},
}

// IsValidSeatStatus checks if the given string names a known seat status
func IsValidSeatStatus(status string) bool {
	switch SeatStatus(status) {
	case SeatAvailable, SeatHold, SeatSold, SeatCancelled:
		return true
	default:
		return false
	}
}

// ParseSeatStatus converts a case-insensitive string into a SeatStatus
func ParseSeatStatus(status string) (SeatStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(status))
	if !IsValidSeatStatus(normalized) {
		return "", fmt.Errorf("%w: %s", errs.ErrInvalidSeatStatus, status)
	}
	return SeatStatus(normalized), nil
}

// SourcesFor returns the statuses from which a seat may move into target.
// The returned slice is a copy and may be modified by the caller.
func SourcesFor(target SeatStatus) []SeatStatus {
	sources := transitionSources[target]
	out := make([]SeatStatus, len(sources))
	copy(out, sources)
	return out
}

// CanTransition reports whether the state machine has an edge from -> to
func CanTransition(from, to SeatStatus) bool {
	for _, source := range transitionSources[to] {
		if source == from {
			return true
		}
	}
	return false
}

// Seat is a single seat of a concert, identified by (ConcertID, SeatID)
type Seat struct {
	ConcertID      string     // Concert the seat belongs to
	SeatID         string     // Physical seat identifier within the venue
	Status         SeatStatus // Current lifecycle status
	HoldExpiresAt  *time.Time // Set only while Status is HOLD
	LastActionUser *string    // Owner of the current hold or purchase
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewSeat creates an AVAILABLE seat as done at venue provisioning
func NewSeat(concertID, seatID string, now time.Time) (*Seat, error) {
	if err := ValidateSeatKey(concertID, seatID); err != nil {
		return nil, err
	}

	return &Seat{
		ConcertID: concertID,
		SeatID:    seatID,
		Status:    SeatAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateSeatKey checks the composite identity of a seat
func ValidateSeatKey(concertID, seatID string) error {
	if strings.TrimSpace(concertID) == "" {
		return errs.ErrInvalidConcertID
	}
	if strings.TrimSpace(seatID) == "" {
		return errs.ErrInvalidSeatID
	}
	return nil
}

// Validate checks the invariants that must hold for any persisted seat
func (s *Seat) Validate() error {
	if err := ValidateSeatKey(s.ConcertID, s.SeatID); err != nil {
		return err
	}
	if !IsValidSeatStatus(string(s.Status)) {
		return fmt.Errorf("%w: %s", errs.ErrInvalidSeatStatus, s.Status)
	}

	// hold_expires_at is non-null iff the seat is held
	if s.Status == SeatHold && s.HoldExpiresAt == nil {
		return fmt.Errorf("%w: held seat without expiry", errs.ErrSeatInvariant)
	}
	if s.Status != SeatHold && s.HoldExpiresAt != nil {
		return fmt.Errorf("%w: %s seat with hold expiry", errs.ErrSeatInvariant, s.Status)
	}
	if s.Status == SeatAvailable && s.LastActionUser != nil {
		return fmt.Errorf("%w: available seat with owner", errs.ErrSeatInvariant)
	}
	return nil
}

// Holder returns the user owning the current hold or purchase, or "" when none
func (s *Seat) Holder() string {
	if s.LastActionUser == nil {
		return ""
	}
	return *s.LastActionUser
}

// IsHeldBy reports whether userID owns the seat's current hold
func (s *Seat) IsHeldBy(userID string) bool {
	return s.Status == SeatHold && userID != "" && s.Holder() == userID
}

// IsHoldExpired reports whether the seat's hold lapsed strictly before now
func (s *Seat) IsHoldExpired(now time.Time) bool {
	return s.Status == SeatHold && s.HoldExpiresAt != nil && s.HoldExpiresAt.Before(now)
}

// Key returns a printable composite key for logging
func (s *Seat) Key() string {
	return SeatKey(s.ConcertID, s.SeatID)
}

// SeatKey formats a composite seat key
func SeatKey(concertID, seatID string) string {
	return concertID + "/" + seatID
}
