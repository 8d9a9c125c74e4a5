package core

// TransitionOutcome labels the result of a seat transition for metrics
type TransitionOutcome string

// Transition outcomes
const (
	OutcomeApplied     TransitionOutcome = "applied"
	OutcomeConflict    TransitionOutcome = "conflict"
	OutcomeUnavailable TransitionOutcome = "store_unavailable"
	OutcomeInvalid     TransitionOutcome = "invalid"
)

// Metrics records operational counters of the seat-hold core
type Metrics interface {
	// ObserveTransition counts one ApplyTransition call towards status with its outcome
	ObserveTransition(toStatus string, outcome TransitionOutcome)
	// ObserveSweep records one sweep cycle: rows reclaimed, duration in seconds and whether it failed
	ObserveSweep(reclaimed int64, seconds float64, failed bool)
}
