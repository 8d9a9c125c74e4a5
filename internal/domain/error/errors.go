package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidConcertID  = 4001
	CodeInvalidSeatID     = 4002
	CodeInvalidUserID     = 4003
	CodeInvalidSeatStatus = 4004
	CodeInvalidRequest    = 4005
	CodeSeatNotFound      = 4040
	CodeSeatConflict      = 4090
	CodeDuplicateSeat     = 4091
	CodeHoldExpired       = 4100

	// 5xxx - Server errors
	CodeInternalServer   = 5000
	CodeStoreUnavailable = 5030
)

// Base error types
var (
	// ErrInvalidConcertID is returned when the concert identifier is empty
	ErrInvalidConcertID = errors.New("concert ID cannot be empty")

	// ErrInvalidSeatID is returned when the seat identifier is empty
	ErrInvalidSeatID = errors.New("seat ID cannot be empty")

	// ErrInvalidUserID is returned when an operation requires a user and none was given
	ErrInvalidUserID = errors.New("user ID cannot be empty")

	// ErrInvalidSeatStatus is returned for an unknown seat status value
	ErrInvalidSeatStatus = errors.New("invalid seat status")

	// ErrInvalidHoldDuration is returned when a hold is requested without a positive duration
	ErrInvalidHoldDuration = errors.New("hold duration must be positive")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSeatInvariant is returned when a seat snapshot breaks the hold/expiry invariants
	ErrSeatInvariant = errors.New("seat invariant violated")

	// ErrSeatNotFound is returned when no seat exists for the (concert, seat) key
	ErrSeatNotFound = errors.New("seat not found")

	// ErrDuplicateSeat is returned when provisioning a seat that already exists
	ErrDuplicateSeat = errors.New("seat already exists")

	// ErrSeatConflict is returned when the seat's live state no longer matches the
	// precondition of the requested transition
	ErrSeatConflict = errors.New("seat state conflict")

	// ErrHoldExpired is returned when a holder acts on a hold that has already been reclaimed
	ErrHoldExpired = errors.New("seat hold expired")

	// ErrStoreUnavailable is returned when the seat store could not be reached or did not
	// acknowledge the write
	ErrStoreUnavailable = errors.New("seat store unavailable")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrSweeperRunning is returned when starting an expiry sweeper that is already running
	ErrSweeperRunning = errors.New("expiry sweeper already running")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrHoldExpired):
		return CodeHoldExpired
	case errors.Is(err, ErrSeatConflict):
		return CodeSeatConflict
	case errors.Is(err, ErrInvalidConcertID):
		return CodeInvalidConcertID
	case errors.Is(err, ErrInvalidSeatID):
		return CodeInvalidSeatID
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrInvalidSeatStatus):
		return CodeInvalidSeatStatus
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidHoldDuration):
		return CodeInvalidRequest
	case errors.Is(err, ErrSeatNotFound):
		return CodeSeatNotFound
	case errors.Is(err, ErrDuplicateSeat):
		return CodeDuplicateSeat
	case errors.Is(err, ErrStoreUnavailable):
		return CodeStoreUnavailable
	default:
		return CodeInternalServer
	}
}

// ConflictReason narrows down why a conditional seat write did not apply
type ConflictReason string

// Conflict reasons
const (
	// ConflictReasonStateMismatch means the seat is in a different state than expected
	ConflictReasonStateMismatch ConflictReason = "state_mismatch"
	// ConflictReasonHeldByOther means another user owns the seat
	ConflictReasonHeldByOther ConflictReason = "held_by_other"
	// ConflictReasonHoldExpired means the caller's hold was reclaimed before the write
	ConflictReasonHoldExpired ConflictReason = "hold_expired"
	// ConflictReasonIllegalTransition means the state machine has no such edge
	ConflictReasonIllegalTransition ConflictReason = "illegal_transition"
)

// ConflictError describes a rejected conditional seat write
type ConflictError struct {
	ConcertID string
	SeatID    string
	Expected  []string // statuses the write required
	Requested string   // status the caller asked for
	Observed  string   // live status seen by a diagnostic read, "" if unknown
	Reason    ConflictReason
}

// Error implements the error interface for ConflictError
func (e *ConflictError) Error() string {
	observed := e.Observed
	if observed == "" {
		observed = "unknown"
	}
	return fmt.Sprintf("seat %s/%s conflict (%s): expected %v, requested %s, observed %s",
		e.ConcertID, e.SeatID, e.Reason, e.Expected, e.Requested, observed)
}

// Is matches ErrSeatConflict and, for expired holds, ErrHoldExpired
func (e *ConflictError) Is(target error) bool {
	if target == ErrSeatConflict {
		return true
	}
	return target == ErrHoldExpired && e.Reason == ConflictReasonHoldExpired
}

// LogFields returns a map of fields for structured logging
func (e *ConflictError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "seat_conflict",
		"concert_id": e.ConcertID,
		"seat_id":    e.SeatID,
		"expected":   e.Expected,
		"requested":  e.Requested,
		"observed":   e.Observed,
		"reason":     string(e.Reason),
		"error_code": ErrorCode(e),
	}
}

// NewConflictError creates a detailed seat conflict error
func NewConflictError(concertID, seatID string, expected []string, requested, observed string, reason ConflictReason) error {
	return &ConflictError{
		ConcertID: concertID,
		SeatID:    seatID,
		Expected:  expected,
		Requested: requested,
		Observed:  observed,
		Reason:    reason,
	}
}

// StoreError wraps a failure of the seat store
type StoreError struct {
	Operation string
	Err       error
}

// Error implements the error interface for StoreError
func (e *StoreError) Error() string {
	return fmt.Sprintf("seat store %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches ErrStoreUnavailable
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// LogFields returns a map of fields for structured logging
func (e *StoreError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "store_unavailable",
		"operation":  e.Operation,
		"error":      e.Err.Error(),
		"error_code": CodeStoreUnavailable,
	}
}

// NewStoreError wraps err as a store failure of the given operation
func NewStoreError(operation string, err error) error {
	return &StoreError{Operation: operation, Err: err}
}

// IsConflictError checks if the error is a seat conflict of any reason
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSeatConflict)
}

// IsHoldExpiredError checks if the error reports a reclaimed hold
func IsHoldExpiredError(err error) bool {
	return errors.Is(err, ErrHoldExpired)
}

// IsStoreUnavailableError checks if the error is a retryable infrastructure failure
func IsStoreUnavailableError(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsSeatNotFoundError checks if the error is a seat not found error
func IsSeatNotFoundError(err error) bool {
	return errors.Is(err, ErrSeatNotFound)
}

// IsValidationError checks if the error was caused by invalid input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidConcertID) ||
		errors.Is(err, ErrInvalidSeatID) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidSeatStatus) ||
		errors.Is(err, ErrInvalidHoldDuration) ||
		errors.Is(err, ErrInvalidRequest)
}
