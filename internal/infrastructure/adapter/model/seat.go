package model

import (
	"time"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
)

// ConcertSeat represents the database model for a concert seat
type ConcertSeat struct {
	ConcertID      string     `gorm:"primaryKey;size:64;not null"`
	SeatID         string     `gorm:"primaryKey;size:32;not null"`
	CurrentStatus  string     `gorm:"size:16;not null;default:AVAILABLE"`
	HoldExpiresAt  *time.Time `gorm:"column:hold_expires_at"`
	LastActionUser *string    `gorm:"size:64"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

// TableName specifies the table name for ConcertSeat
func (ConcertSeat) TableName() string {
	return "concert_seats"
}

// ToEntity converts the row into a domain seat
func (m *ConcertSeat) ToEntity() *entity.Seat {
	seat := &entity.Seat{
		ConcertID: m.ConcertID,
		SeatID:    m.SeatID,
		Status:    entity.SeatStatus(m.CurrentStatus),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.HoldExpiresAt != nil {
		expires := m.HoldExpiresAt.UTC()
		seat.HoldExpiresAt = &expires
	}
	if m.LastActionUser != nil {
		user := *m.LastActionUser
		seat.LastActionUser = &user
	}
	return seat
}

// ConcertSeatFromEntity converts a domain seat into a row
func ConcertSeatFromEntity(seat *entity.Seat) *ConcertSeat {
	row := &ConcertSeat{
		ConcertID:     seat.ConcertID,
		SeatID:        seat.SeatID,
		CurrentStatus: string(seat.Status),
		CreatedAt:     seat.CreatedAt,
		UpdatedAt:     seat.UpdatedAt,
	}
	if seat.HoldExpiresAt != nil {
		expires := *seat.HoldExpiresAt
		row.HoldExpiresAt = &expires
	}
	if seat.LastActionUser != nil {
		user := *seat.LastActionUser
		row.LastActionUser = &user
	}
	return row
}
