package entity

import (
	"time"
)

// SeatCondition is the predicate of a conditional seat write.
// A write only takes effect on the row matching the key whose live status is one of
// Statuses and, when Holder is set, whose last_action_user equals Holder.
type SeatCondition struct {
	ConcertID string
	SeatID    string
	Statuses  []SeatStatus
	Holder    string
}

// SeatUpdate is the set of columns a conditional seat write assigns.
// nil pointers are written as NULL.
type SeatUpdate struct {
	Status         SeatStatus
	HoldExpiresAt  *time.Time
	LastActionUser *string
	UpdatedAt      time.Time

	// KeepOwner leaves last_action_user untouched, LastActionUser is ignored
	KeepOwner bool
}

// Matches evaluates the condition against a seat snapshot
func (c SeatCondition) Matches(seat *Seat) bool {
	if seat == nil || seat.ConcertID != c.ConcertID || seat.SeatID != c.SeatID {
		return false
	}

	statusOK := false
	for _, status := range c.Statuses {
		if seat.Status == status {
			statusOK = true
			break
		}
	}
	if !statusOK {
		return false
	}

	if c.Holder != "" && seat.Holder() != c.Holder {
		return false
	}
	return true
}

// Apply writes the update onto a seat snapshot
func (u SeatUpdate) Apply(seat *Seat) {
	seat.Status = u.Status
	seat.HoldExpiresAt = copyTime(u.HoldExpiresAt)
	if !u.KeepOwner {
		seat.LastActionUser = copyString(u.LastActionUser)
	}
	seat.UpdatedAt = u.UpdatedAt
}

// Clone returns a deep copy of the seat
func (s *Seat) Clone() *Seat {
	if s == nil {
		return nil
	}
	clone := *s
	clone.HoldExpiresAt = copyTime(s.HoldExpiresAt)
	clone.LastActionUser = copyString(s.LastActionUser)
	return &clone
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
