package seat

import (
	"context"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
	errs "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/usecase"
)

// Hold places a hold on an AVAILABLE seat for userID
func (s *BookingService) Hold(ctx context.Context, concertID, seatID, userID string) (*usecase.TransitionResult, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	return s.apply(ctx, TransitionRequest{
		ConcertID:    concertID,
		SeatID:       seatID,
		Expected:     statusPtr(entity.SeatAvailable),
		NewStatus:    entity.SeatHold,
		ActingUserID: userID,
		HoldDuration: s.holdDuration,
	})
}

// Purchase converts userID's hold into a sale.
// Expiry is not checked here: a hold stays purchasable until the sweeper reclaims it.
func (s *BookingService) Purchase(ctx context.Context, concertID, seatID, userID string) (*usecase.TransitionResult, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	return s.apply(ctx, TransitionRequest{
		ConcertID:      concertID,
		SeatID:         seatID,
		Expected:       statusPtr(entity.SeatHold),
		ExpectedHolder: userID,
		NewStatus:      entity.SeatSold,
		ActingUserID:   userID,
	})
}

// Release returns userID's hold to AVAILABLE
func (s *BookingService) Release(ctx context.Context, concertID, seatID, userID string) (*usecase.TransitionResult, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}

	return s.apply(ctx, TransitionRequest{
		ConcertID:      concertID,
		SeatID:         seatID,
		Expected:       statusPtr(entity.SeatHold),
		ExpectedHolder: userID,
		NewStatus:      entity.SeatAvailable,
		ActingUserID:   userID,
	})
}

// Cancel moves a SOLD seat to CANCELLED. With userID set only the buyer may cancel;
// without it the cancellation is administrative and the buyer stays recorded.
func (s *BookingService) Cancel(ctx context.Context, concertID, seatID, userID string) (*usecase.TransitionResult, error) {
	return s.apply(ctx, TransitionRequest{
		ConcertID:      concertID,
		SeatID:         seatID,
		Expected:       statusPtr(entity.SeatSold),
		ExpectedHolder: userID,
		NewStatus:      entity.SeatCancelled,
		ActingUserID:   userID,
	})
}

// Reopen puts a CANCELLED seat back on sale
func (s *BookingService) Reopen(ctx context.Context, concertID, seatID string) (*usecase.TransitionResult, error) {
	return s.apply(ctx, TransitionRequest{
		ConcertID: concertID,
		SeatID:    seatID,
		Expected:  statusPtr(entity.SeatCancelled),
		NewStatus: entity.SeatAvailable,
	})
}

// Override moves a seat into status from any state the state machine allows.
// SOLD stays reserved to the current holder: actingUserID must name them.
// CANCELLED keeps the recorded buyer.
func (s *BookingService) Override(ctx context.Context, concertID, seatID string, status entity.SeatStatus, actingUserID string) (*usecase.TransitionResult, error) {
	req := TransitionRequest{
		ConcertID:    concertID,
		SeatID:       seatID,
		NewStatus:    status,
		ActingUserID: actingUserID,
	}
	switch status {
	case entity.SeatHold:
		req.HoldDuration = s.holdDuration
	case entity.SeatSold:
		req.ExpectedHolder = actingUserID
	}

	s.logger.Warn("Administrative seat override requested", map[string]any{
		"concert_id":  concertID,
		"seat_id":     seatID,
		"to_status":   status,
		"acting_user": actingUserID,
	})
	return s.apply(ctx, req)
}

func (s *BookingService) apply(ctx context.Context, req TransitionRequest) (*usecase.TransitionResult, error) {
	result, err := s.transition.ApplyTransition(ctx, req)
	if err != nil {
		return nil, err
	}

	s.invalidateSeatMap(ctx, req.ConcertID)
	return result, nil
}

func statusPtr(status entity.SeatStatus) *entity.SeatStatus {
	return &status
}
