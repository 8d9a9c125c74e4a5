package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
	errs "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/persistence"
)

// MemorySeatRepository is a process-local SeatRepository.
// Every method runs under one mutex, so conditional writes and the bulk sweep are
// linearizable exactly like single-statement updates against Postgres.
type MemorySeatRepository struct {
	mu    sync.RWMutex
	seats map[string]*entity.Seat

	// failure, when set, is returned by every call; used to simulate an unreachable store
	failure error
}

var _ persistence.SeatRepository = (*MemorySeatRepository)(nil)

// NewMemorySeatRepository creates an empty in-memory seat store
func NewMemorySeatRepository() *MemorySeatRepository {
	return &MemorySeatRepository{
		seats: make(map[string]*entity.Seat),
	}
}

// SetFailure makes every subsequent call fail with a store error wrapping err; nil restores service
func (r *MemorySeatRepository) SetFailure(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure = err
}

// UpdateStatusIf applies update when the stored seat satisfies cond
func (r *MemorySeatRepository) UpdateStatusIf(ctx context.Context, cond entity.SeatCondition, update entity.SeatUpdate) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errs.NewStoreError("conditional update", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failure != nil {
		return false, errs.NewStoreError("conditional update", r.failure)
	}

	seat, ok := r.seats[entity.SeatKey(cond.ConcertID, cond.SeatID)]
	if !ok || !cond.Matches(seat) {
		return false, nil
	}

	update.Apply(seat)
	return true, nil
}

// ReleaseExpiredHolds reclaims every hold that lapsed strictly before now
func (r *MemorySeatRepository) ReleaseExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errs.NewStoreError("release expired holds", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failure != nil {
		return 0, errs.NewStoreError("release expired holds", r.failure)
	}

	var reclaimed int64
	for _, seat := range r.seats {
		if !seat.IsHoldExpired(now) {
			continue
		}
		entity.SeatUpdate{Status: entity.SeatAvailable, UpdatedAt: now}.Apply(seat)
		reclaimed++
	}
	return reclaimed, nil
}

// GetSeat returns a copy of the stored seat
func (r *MemorySeatRepository) GetSeat(ctx context.Context, concertID, seatID string) (*entity.Seat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failure != nil {
		return nil, errs.NewStoreError("get seat", r.failure)
	}

	seat, ok := r.seats[entity.SeatKey(concertID, seatID)]
	if !ok {
		return nil, errs.ErrSeatNotFound
	}
	return seat.Clone(), nil
}

// ListSeats returns copies of a concert's seats ordered by seat ID
func (r *MemorySeatRepository) ListSeats(ctx context.Context, concertID string) ([]*entity.Seat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failure != nil {
		return nil, errs.NewStoreError("list seats", r.failure)
	}

	seats := make([]*entity.Seat, 0)
	for _, seat := range r.seats {
		if seat.ConcertID == concertID {
			seats = append(seats, seat.Clone())
		}
	}
	sort.Slice(seats, func(i, j int) bool {
		return seats[i].SeatID < seats[j].SeatID
	})
	return seats, nil
}

// CreateSeats stores new seats; nothing is stored if any key already exists
func (r *MemorySeatRepository) CreateSeats(ctx context.Context, seats []*entity.Seat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failure != nil {
		return errs.NewStoreError("create seats", r.failure)
	}

	for _, seat := range seats {
		if _, exists := r.seats[seat.Key()]; exists {
			return fmt.Errorf("%w: %s", errs.ErrDuplicateSeat, seat.Key())
		}
	}
	for _, seat := range seats {
		r.seats[seat.Key()] = seat.Clone()
	}
	return nil
}
