package seat

import (
	"context"
	"errors"
	"time"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
	errs "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/usecase"
)

// TransitionRequest describes one seat status change
type TransitionRequest struct {
	ConcertID string
	SeatID    string

	// Expected is the status the caller believes the seat is in.
	// nil means "don't care": the write is then guarded by every legal source of NewStatus.
	Expected *entity.SeatStatus

	// ExpectedHolder, when set, additionally requires last_action_user to match
	ExpectedHolder string

	NewStatus    entity.SeatStatus
	ActingUserID string        // empty for system-initiated transitions
	HoldDuration time.Duration // required when NewStatus is HOLD
}

// SeatStatusTransition validates a seat state change against the state machine and
// applies it as a single conditional write. It keeps no seat state between calls and
// takes no in-process locks; concurrent callers are arbitrated by the store alone.
type SeatStatusTransition struct {
	seatRepo     persistence.SeatRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	metrics      coreport.Metrics
}

// NewSeatStatusTransition creates a new SeatStatusTransition
func NewSeatStatusTransition(
	seatRepo persistence.SeatRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	metrics coreport.Metrics,
) *SeatStatusTransition {
	if metrics == nil {
		metrics = discardMetrics{}
	}
	return &SeatStatusTransition{
		seatRepo:     seatRepo,
		timeProvider: timeProvider,
		logger:       logger,
		metrics:      metrics,
	}
}

// ApplyTransition performs the transition described by req.
//
// It returns a *errs.ConflictError (matching errs.ErrSeatConflict) when the seat's live
// state does not satisfy the precondition, errs.ErrSeatNotFound when the seat does not
// exist, and an error matching errs.ErrStoreUnavailable when the store fails. None of
// these are retried here.
func (t *SeatStatusTransition) ApplyTransition(ctx context.Context, req TransitionRequest) (*usecase.TransitionResult, error) {
	if err := t.validate(req); err != nil {
		t.metrics.ObserveTransition(string(req.NewStatus), coreport.OutcomeInvalid)
		return nil, err
	}

	sources, err := t.sourceStatuses(req)
	if err != nil {
		t.metrics.ObserveTransition(string(req.NewStatus), coreport.OutcomeConflict)
		return nil, err
	}

	now := t.timeProvider.Now()
	cond := entity.SeatCondition{
		ConcertID: req.ConcertID,
		SeatID:    req.SeatID,
		Statuses:  sources,
		Holder:    req.ExpectedHolder,
	}
	update := buildUpdate(req, now)

	applied, err := t.seatRepo.UpdateStatusIf(ctx, cond, update)
	if err != nil {
		if !errs.IsStoreUnavailableError(err) {
			err = errs.NewStoreError("conditional seat update", err)
		}
		t.logger.Error("Seat transition failed: store unavailable", map[string]any{
			"concert_id": req.ConcertID,
			"seat_id":    req.SeatID,
			"to_status":  req.NewStatus,
			"error":      err.Error(),
		})
		t.metrics.ObserveTransition(string(req.NewStatus), coreport.OutcomeUnavailable)
		return nil, err
	}

	if !applied {
		t.metrics.ObserveTransition(string(req.NewStatus), coreport.OutcomeConflict)
		return nil, t.describeConflict(ctx, req, sources)
	}

	t.metrics.ObserveTransition(string(req.NewStatus), coreport.OutcomeApplied)
	t.logger.Info("Seat transition applied", map[string]any{
		"concert_id":   req.ConcertID,
		"seat_id":      req.SeatID,
		"from":         sources,
		"to_status":    req.NewStatus,
		"acting_user":  req.ActingUserID,
		"hold_expires": update.HoldExpiresAt,
	})

	result := &usecase.TransitionResult{
		ConcertID:     req.ConcertID,
		SeatID:        req.SeatID,
		FromStatuses:  sources,
		Status:        update.Status,
		HoldExpiresAt: update.HoldExpiresAt,
	}
	switch {
	case update.LastActionUser != nil:
		result.Holder = *update.LastActionUser
	case update.KeepOwner:
		result.Holder = req.ExpectedHolder
	}
	return result, nil
}

// validate checks the request shape before anything reaches the store
func (t *SeatStatusTransition) validate(req TransitionRequest) error {
	if err := entity.ValidateSeatKey(req.ConcertID, req.SeatID); err != nil {
		return err
	}
	if !entity.IsValidSeatStatus(string(req.NewStatus)) {
		return errs.ErrInvalidSeatStatus
	}
	if req.Expected != nil && !entity.IsValidSeatStatus(string(*req.Expected)) {
		return errs.ErrInvalidSeatStatus
	}

	switch req.NewStatus {
	case entity.SeatHold:
		if req.ActingUserID == "" {
			return errs.ErrInvalidUserID
		}
		if req.HoldDuration <= 0 {
			return errs.ErrInvalidHoldDuration
		}
	case entity.SeatSold:
		// Only the holder completing payment can buy the seat
		if req.ActingUserID == "" {
			return errs.ErrInvalidUserID
		}
	}
	return nil
}

// sourceStatuses resolves which live statuses the conditional write accepts
func (t *SeatStatusTransition) sourceStatuses(req TransitionRequest) ([]entity.SeatStatus, error) {
	if req.Expected == nil {
		return entity.SourcesFor(req.NewStatus), nil
	}

	if !entity.CanTransition(*req.Expected, req.NewStatus) {
		t.logger.Warn("Rejected illegal seat transition", map[string]any{
			"concert_id": req.ConcertID,
			"seat_id":    req.SeatID,
			"expected":   *req.Expected,
			"to_status":  req.NewStatus,
		})
		return nil, errs.NewConflictError(
			req.ConcertID,
			req.SeatID,
			[]string{string(*req.Expected)},
			string(req.NewStatus),
			"",
			errs.ConflictReasonIllegalTransition,
		)
	}
	return []entity.SeatStatus{*req.Expected}, nil
}

// buildUpdate computes the columns written by a transition into req.NewStatus
func buildUpdate(req TransitionRequest, now time.Time) entity.SeatUpdate {
	update := entity.SeatUpdate{
		Status:    req.NewStatus,
		UpdatedAt: now,
	}

	switch req.NewStatus {
	case entity.SeatHold:
		expiresAt := now.Add(req.HoldDuration)
		actor := req.ActingUserID
		update.HoldExpiresAt = &expiresAt
		update.LastActionUser = &actor
	case entity.SeatSold:
		actor := req.ActingUserID
		update.LastActionUser = &actor
	case entity.SeatCancelled:
		// the buyer stays on record; an owner cancel is already scoped to them
		update.KeepOwner = true
	case entity.SeatAvailable:
		// Both hold_expires_at and last_action_user are cleared
	}
	return update
}

// describeConflict builds the conflict error for a write that matched no row.
// The diagnostic read only labels the error; it never decides whether a write happens.
func (t *SeatStatusTransition) describeConflict(ctx context.Context, req TransitionRequest, sources []entity.SeatStatus) error {
	expected := make([]string, len(sources))
	for i, s := range sources {
		expected[i] = string(s)
	}

	observed, err := t.seatRepo.GetSeat(ctx, req.ConcertID, req.SeatID)
	if err != nil {
		if errors.Is(err, errs.ErrSeatNotFound) {
			t.logger.Warn("Seat transition on unknown seat", map[string]any{
				"concert_id": req.ConcertID,
				"seat_id":    req.SeatID,
			})
			return err
		}
		// The conflict itself is certain; only its label is degraded
		t.logger.Warn("Could not read seat after conflict", map[string]any{
			"concert_id": req.ConcertID,
			"seat_id":    req.SeatID,
			"error":      err.Error(),
		})
		observed = nil
	}

	reason := conflictReason(req, observed)
	observedStatus := ""
	if observed != nil {
		observedStatus = string(observed.Status)
	}

	conflict := errs.NewConflictError(req.ConcertID, req.SeatID, expected, string(req.NewStatus), observedStatus, reason)
	if ce, ok := conflict.(*errs.ConflictError); ok {
		t.logger.Info("Seat transition conflict", ce.LogFields())
	}
	return conflict
}

// conflictReason classifies a rejected write from the seat state observed afterwards
func conflictReason(req TransitionRequest, observed *entity.Seat) errs.ConflictReason {
	if observed == nil {
		return errs.ConflictReasonStateMismatch
	}

	if req.ExpectedHolder != "" && req.Expected != nil && *req.Expected == entity.SeatHold {
		switch {
		case observed.Status == entity.SeatAvailable:
			return errs.ConflictReasonHoldExpired
		case observed.Status == entity.SeatHold && observed.Holder() != req.ExpectedHolder:
			return errs.ConflictReasonHeldByOther
		}
		return errs.ConflictReasonStateMismatch
	}

	holder := observed.Holder()
	if holder != "" && holder != req.ActingUserID &&
		(observed.Status == entity.SeatHold || observed.Status == entity.SeatSold) {
		return errs.ConflictReasonHeldByOther
	}
	return errs.ConflictReasonStateMismatch
}

// discardMetrics is used when no metrics sink is wired
type discardMetrics struct{}

func (discardMetrics) ObserveTransition(string, coreport.TransitionOutcome) {}
func (discardMetrics) ObserveSweep(int64, float64, bool)                    {}
