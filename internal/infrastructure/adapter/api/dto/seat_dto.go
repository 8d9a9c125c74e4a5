package dto

import (
	"time"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/usecase"
)

// SeatActionRequest is the body of hold, purchase, release and cancel
type SeatActionRequest struct {
	UserID string `json:"userId"`
}

// ProvisionSeatsRequest is the body of POST /concerts/:concertId/seats
type ProvisionSeatsRequest struct {
	SeatIDs []string `json:"seatIds" binding:"required,min=1,dive,required"`
}

// OverrideRequest is the body of the administrative status override
type OverrideRequest struct {
	Status string `json:"status" binding:"required"`
	UserID string `json:"userId"`
}

// SeatResponse represents one seat
type SeatResponse struct {
	ConcertID     string     `json:"concertId"`
	SeatID        string     `json:"seatId"`
	Status        string     `json:"status"`
	HoldExpiresAt *time.Time `json:"holdExpiresAt,omitempty"`
	Holder        string     `json:"holder,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// SeatMapResponse represents a concert's seat map
type SeatMapResponse struct {
	ConcertID string         `json:"concertId"`
	Seats     []SeatResponse `json:"seats"`
	Summary   map[string]int `json:"summary"`
}

// TransitionResponse represents an applied seat transition
type TransitionResponse struct {
	ConcertID     string     `json:"concertId"`
	SeatID        string     `json:"seatId"`
	Status        string     `json:"status"`
	FromStatuses  []string   `json:"fromStatuses"`
	HoldExpiresAt *time.Time `json:"holdExpiresAt,omitempty"`
	Holder        string     `json:"holder,omitempty"`
}

// HealthResponse reports the health of the service and its dependencies
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// NewSeatResponse converts a domain seat
func NewSeatResponse(seat *entity.Seat) SeatResponse {
	return SeatResponse{
		ConcertID:     seat.ConcertID,
		SeatID:        seat.SeatID,
		Status:        string(seat.Status),
		HoldExpiresAt: seat.HoldExpiresAt,
		Holder:        seat.Holder(),
		UpdatedAt:     seat.UpdatedAt,
	}
}

// NewSeatMapResponse converts a concert's seats and counts them per status
func NewSeatMapResponse(concertID string, seats []*entity.Seat) SeatMapResponse {
	resp := SeatMapResponse{
		ConcertID: concertID,
		Seats:     make([]SeatResponse, len(seats)),
		Summary:   make(map[string]int),
	}
	for i, seat := range seats {
		resp.Seats[i] = NewSeatResponse(seat)
		resp.Summary[string(seat.Status)]++
	}
	return resp
}

// NewTransitionResponse converts a transition result
func NewTransitionResponse(result *usecase.TransitionResult) TransitionResponse {
	from := make([]string, len(result.FromStatuses))
	for i, status := range result.FromStatuses {
		from[i] = string(status)
	}
	return TransitionResponse{
		ConcertID:     result.ConcertID,
		SeatID:        result.SeatID,
		Status:        string(result.Status),
		FromStatuses:  from,
		HoldExpiresAt: result.HoldExpiresAt,
		Holder:        result.Holder,
	}
}
