package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
)

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		from, to SeatStatus
		allowed  bool
	}{
		{SeatAvailable, SeatHold, true},
		{SeatHold, SeatSold, true},
		{SeatHold, SeatAvailable, true},
		{SeatSold, SeatCancelled, true},
		{SeatCancelled, SeatAvailable, true},

		{SeatAvailable, SeatSold, false},
		{SeatHold, SeatHold, false},
		{SeatSold, SeatHold, false},
		{SeatSold, SeatAvailable, false},
		{SeatCancelled, SeatHold, false},
		{SeatCancelled, SeatSold, false},
		{SeatAvailable, SeatCancelled, false},
		{SeatAvailable, SeatAvailable, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to))
		})
	}
}

func TestSourcesFor(t *testing.T) {
	assert.ElementsMatch(t, []SeatStatus{SeatHold, SeatCancelled}, SourcesFor(SeatAvailable))
	assert.Equal(t, []SeatStatus{SeatAvailable}, SourcesFor(SeatHold))
	assert.Empty(t, SourcesFor(SeatStatus("BOGUS")))

	// Mutating the result must not alter the state machine
	sources := SourcesFor(SeatSold)
	sources[0] = SeatCancelled
	assert.True(t, CanTransition(SeatHold, SeatSold))
}

func TestParseSeatStatus(t *testing.T) {
	status, err := ParseSeatStatus(" hold ")
	require.NoError(t, err)
	assert.Equal(t, SeatHold, status)

	_, err = ParseSeatStatus("reserved")
	assert.ErrorIs(t, err, errs.ErrInvalidSeatStatus)
}

func TestNewSeat(t *testing.T) {
	now := time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)

	t.Run("creates an available seat", func(t *testing.T) {
		seat, err := NewSeat("concert-1", "A-1", now)
		require.NoError(t, err)
		assert.Equal(t, SeatAvailable, seat.Status)
		assert.Nil(t, seat.HoldExpiresAt)
		assert.Nil(t, seat.LastActionUser)
		assert.Equal(t, now, seat.CreatedAt)
		assert.NoError(t, seat.Validate())
	})

	t.Run("rejects empty identity", func(t *testing.T) {
		_, err := NewSeat("", "A-1", now)
		assert.ErrorIs(t, err, errs.ErrInvalidConcertID)

		_, err = NewSeat("concert-1", "  ", now)
		assert.ErrorIs(t, err, errs.ErrInvalidSeatID)
	})
}

func TestSeat_Validate(t *testing.T) {
	now := time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)
	expires := now.Add(10 * time.Minute)
	user := "user-1"

	testCases := []struct {
		name    string
		seat    Seat
		wantErr error
	}{
		{"available", Seat{ConcertID: "c", SeatID: "s", Status: SeatAvailable}, nil},
		{"held", Seat{ConcertID: "c", SeatID: "s", Status: SeatHold, HoldExpiresAt: &expires, LastActionUser: &user}, nil},
		{"sold", Seat{ConcertID: "c", SeatID: "s", Status: SeatSold, LastActionUser: &user}, nil},
		{"held without expiry", Seat{ConcertID: "c", SeatID: "s", Status: SeatHold}, errs.ErrSeatInvariant},
		{"sold with expiry", Seat{ConcertID: "c", SeatID: "s", Status: SeatSold, HoldExpiresAt: &expires}, errs.ErrSeatInvariant},
		{"available with owner", Seat{ConcertID: "c", SeatID: "s", Status: SeatAvailable, LastActionUser: &user}, errs.ErrSeatInvariant},
		{"unknown status", Seat{ConcertID: "c", SeatID: "s", Status: "LOCKED"}, errs.ErrInvalidSeatStatus},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.seat.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.wantErr), "got %v, want %v", err, tc.wantErr)
		})
	}
}

func TestSeat_HoldHelpers(t *testing.T) {
	holdStart := time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)
	expires := holdStart.Add(600 * time.Second)
	user := "user-1"
	seat := &Seat{ConcertID: "c", SeatID: "s", Status: SeatHold, HoldExpiresAt: &expires, LastActionUser: &user}

	assert.True(t, seat.IsHeldBy("user-1"))
	assert.False(t, seat.IsHeldBy("user-2"))
	assert.False(t, seat.IsHeldBy(""))

	// Expiry is strict: a hold is not expired at exactly T+Δ
	assert.False(t, seat.IsHoldExpired(holdStart.Add(599*time.Second)))
	assert.False(t, seat.IsHoldExpired(expires))
	assert.True(t, seat.IsHoldExpired(holdStart.Add(601*time.Second)))

	assert.Equal(t, "c/s", seat.Key())
}

func TestSeatCondition_Matches(t *testing.T) {
	expires := time.Date(2026, 5, 1, 19, 10, 0, 0, time.UTC)
	user := "user-1"
	seat := &Seat{ConcertID: "c", SeatID: "s", Status: SeatHold, HoldExpiresAt: &expires, LastActionUser: &user}

	assert.True(t, SeatCondition{ConcertID: "c", SeatID: "s", Statuses: []SeatStatus{SeatHold}}.Matches(seat))
	assert.True(t, SeatCondition{ConcertID: "c", SeatID: "s", Statuses: []SeatStatus{SeatHold}, Holder: "user-1"}.Matches(seat))
	assert.False(t, SeatCondition{ConcertID: "c", SeatID: "s", Statuses: []SeatStatus{SeatHold}, Holder: "user-2"}.Matches(seat))
	assert.False(t, SeatCondition{ConcertID: "c", SeatID: "s", Statuses: []SeatStatus{SeatAvailable}}.Matches(seat))
	assert.False(t, SeatCondition{ConcertID: "c", SeatID: "other", Statuses: []SeatStatus{SeatHold}}.Matches(seat))
	assert.False(t, SeatCondition{ConcertID: "c", SeatID: "s", Statuses: []SeatStatus{SeatHold}}.Matches(nil))
}

func TestSeatUpdate_ApplyCopiesPointers(t *testing.T) {
	expires := time.Date(2026, 5, 1, 19, 10, 0, 0, time.UTC)
	user := "user-1"
	seat := &Seat{ConcertID: "c", SeatID: "s", Status: SeatAvailable}

	update := SeatUpdate{Status: SeatHold, HoldExpiresAt: &expires, LastActionUser: &user, UpdatedAt: expires}
	update.Apply(seat)

	user = "mutated"
	assert.Equal(t, SeatHold, seat.Status)
	assert.Equal(t, "user-1", seat.Holder())
	assert.Equal(t, expires, *seat.HoldExpiresAt)

	clone := seat.Clone()
	*clone.LastActionUser = "other"
	assert.Equal(t, "user-1", seat.Holder())
}

func TestSeatUpdate_KeepOwner(t *testing.T) {
	user := "user-1"
	seat := &Seat{ConcertID: "c", SeatID: "s", Status: SeatSold, LastActionUser: &user}

	SeatUpdate{Status: SeatCancelled, KeepOwner: true}.Apply(seat)

	assert.Equal(t, SeatCancelled, seat.Status)
	assert.Equal(t, "user-1", seat.Holder())
	assert.Nil(t, seat.HoldExpiresAt)
}
