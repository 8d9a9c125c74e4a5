package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
	errs "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/usecase/seat"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/repository"
	timeprovider "github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/time"
	cachemocks "github.com/amirhossein-jamali/seat-hold/mocks/port/cache"
	coremocks "github.com/amirhossein-jamali/seat-hold/mocks/port/core"
	persistencemocks "github.com/amirhossein-jamali/seat-hold/mocks/port/persistence"
)

const (
	concertID    = "concert-1"
	holdDuration = 600 * time.Second
)

var t0 = time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)

type fixture struct {
	repo    *repository.MemorySeatRepository
	clock   *timeprovider.ManualTimeProvider
	booking *seat.BookingService
	sweeper *ExpirySweeper
}

func newFixture(t *testing.T, seatIDs ...string) *fixture {
	t.Helper()

	repo := repository.NewMemorySeatRepository()
	clock := timeprovider.NewManualTimeProvider(t0)
	log := logger.NewNoopLogger()

	f := &fixture{
		repo:    repo,
		clock:   clock,
		booking: seat.NewBookingService(repo, nil, clock, log, nil, holdDuration),
		sweeper: NewExpirySweeper(repo, nil, clock, log, nil, Config{Interval: time.Minute}),
	}
	if len(seatIDs) > 0 {
		_, err := f.booking.ProvisionSeats(context.Background(), concertID, seatIDs)
		require.NoError(t, err)
	}
	return f
}

func TestSweepExpiredHolds_NothingExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A-1", "A-2", "A-3")

	_, err := f.booking.Hold(ctx, concertID, "A-1", "user-1")
	require.NoError(t, err)
	_, err = f.booking.Hold(ctx, concertID, "A-2", "user-2")
	require.NoError(t, err)
	_, err = f.booking.Purchase(ctx, concertID, "A-2", "user-2")
	require.NoError(t, err)

	before, err := f.repo.ListSeats(ctx, concertID)
	require.NoError(t, err)

	reclaimed, err := f.sweeper.SweepExpiredHolds(ctx, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Zero(t, reclaimed)

	after, err := f.repo.ListSeats(ctx, concertID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSweepExpiredHolds_ExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A-1")

	_, err := f.booking.Hold(ctx, concertID, "A-1", "user-1")
	require.NoError(t, err)

	reclaimed, err := f.sweeper.SweepExpiredHolds(ctx, t0.Add(599*time.Second))
	require.NoError(t, err)
	assert.Zero(t, reclaimed)

	// Expiry is strict: not reclaimed at exactly T0+Δ
	reclaimed, err = f.sweeper.SweepExpiredHolds(ctx, t0.Add(holdDuration))
	require.NoError(t, err)
	assert.Zero(t, reclaimed)

	reclaimed, err = f.sweeper.SweepExpiredHolds(ctx, t0.Add(601*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), reclaimed)

	s, err := f.repo.GetSeat(ctx, concertID, "A-1")
	require.NoError(t, err)
	assert.Equal(t, entity.SeatAvailable, s.Status)
	assert.Nil(t, s.HoldExpiresAt)
	assert.Nil(t, s.LastActionUser)
}

func TestSweepExpiredHolds_OnlyExpiredHoldsAreTouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A-1", "A-2")

	_, err := f.booking.Hold(ctx, concertID, "A-1", "user-1")
	require.NoError(t, err)

	f.clock.Advance(5 * time.Minute)
	_, err = f.booking.Hold(ctx, concertID, "A-2", "user-2")
	require.NoError(t, err)

	reclaimed, err := f.sweeper.SweepExpiredHolds(ctx, t0.Add(601*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), reclaimed)

	s, err := f.repo.GetSeat(ctx, concertID, "A-2")
	require.NoError(t, err)
	assert.True(t, s.IsHeldBy("user-2"))
}

func TestSweepExpiredHolds_OverlappingSweepsReclaimOnce(t *testing.T) {
	ctx := context.Background()

	const seats = 200
	seatIDs := make([]string, seats)
	for i := range seatIDs {
		seatIDs[i] = fmt.Sprintf("S-%03d", i)
	}
	f := newFixture(t, seatIDs...)

	for i, id := range seatIDs {
		_, err := f.booking.Hold(ctx, concertID, id, fmt.Sprintf("user-%d", i))
		require.NoError(t, err)
	}

	cutoff := t0.Add(601 * time.Second)
	results := make([]int64, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := f.sweeper.SweepExpiredHolds(ctx, cutoff)
			assert.NoError(t, err)
			results[i] = n
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(seats), results[0]+results[1])

	// A third sweep has nothing left to do
	n, err := f.sweeper.SweepExpiredHolds(ctx, cutoff)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestScenario_ReclaimedSeatCanBeHeldAgain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A-1")

	_, err := f.booking.Hold(ctx, concertID, "A-1", "user-1")
	require.NoError(t, err)

	f.clock.Set(t0.Add(601 * time.Second))
	reclaimed, err := f.sweeper.SweepExpiredHolds(ctx, f.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), reclaimed)

	held, err := f.booking.Hold(ctx, concertID, "A-1", "user-2")
	require.NoError(t, err)
	assert.Equal(t, "user-2", held.Holder)

	// The seat now belongs to someone else
	_, err = f.booking.Purchase(ctx, concertID, "A-1", "user-1")
	assert.ErrorIs(t, err, errs.ErrSeatConflict)
	assert.False(t, errs.IsHoldExpiredError(err))

	var conflict *errs.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, errs.ConflictReasonHeldByOther, conflict.Reason)
}

func TestScenario_PurchaseRacingSweepExactlyOneWins(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		f := newFixture(t, "A-1")
		_, err := f.booking.Hold(ctx, concertID, "A-1", "user-1")
		require.NoError(t, err)
		f.clock.Set(t0.Add(601 * time.Second))

		var (
			wg          sync.WaitGroup
			start       = make(chan struct{})
			purchaseErr error
			reclaimed   int64
			sweepErr    error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			_, purchaseErr = f.booking.Purchase(ctx, concertID, "A-1", "user-1")
		}()
		go func() {
			defer wg.Done()
			<-start
			reclaimed, sweepErr = f.sweeper.SweepExpiredHolds(ctx, f.clock.Now())
		}()
		close(start)
		wg.Wait()

		require.NoError(t, sweepErr)
		s, err := f.repo.GetSeat(ctx, concertID, "A-1")
		require.NoError(t, err)

		if purchaseErr == nil {
			assert.Zero(t, reclaimed, "iteration %d", i)
			assert.Equal(t, entity.SeatSold, s.Status, "iteration %d", i)
			assert.Equal(t, "user-1", s.Holder())
		} else {
			assert.ErrorIs(t, purchaseErr, errs.ErrHoldExpired, "iteration %d", i)
			assert.Equal(t, int64(1), reclaimed, "iteration %d", i)
			assert.Equal(t, entity.SeatAvailable, s.Status, "iteration %d", i)
		}
	}
}

func TestSweepExpiredHolds_StoreFailure(t *testing.T) {
	ctx := context.Background()
	repo := persistencemocks.NewMockSeatRepository(t)
	metrics := coremocks.NewMockMetrics(t)
	clock := timeprovider.NewManualTimeProvider(t0)
	sweeper := NewExpirySweeper(repo, nil, clock, logger.NewNoopLogger(), metrics, Config{})

	cause := errors.New("i/o timeout")
	repo.On("ReleaseExpiredHolds", ctx, t0).Return(int64(0), cause).Once()
	metrics.On("ObserveSweep", int64(0), mock.AnythingOfType("float64"), true).Return().Once()

	n, err := sweeper.SweepExpiredHolds(ctx, t0)

	assert.Zero(t, n)
	assert.True(t, errs.IsStoreUnavailableError(err))
	assert.ErrorIs(t, err, cause)
}

func TestSweepExpiredHolds_FlushesSeatMapOnlyWhenSeatsReclaimed(t *testing.T) {
	ctx := context.Background()
	repo := persistencemocks.NewMockSeatRepository(t)
	seatMapCache := cachemocks.NewMockSeatMapCache(t)
	metrics := coremocks.NewMockMetrics(t)
	clock := timeprovider.NewManualTimeProvider(t0)
	sweeper := NewExpirySweeper(repo, seatMapCache, clock, logger.NewNoopLogger(), metrics, Config{})

	repo.On("ReleaseExpiredHolds", ctx, t0).Return(int64(0), nil).Once()
	repo.On("ReleaseExpiredHolds", ctx, t0.Add(time.Hour)).Return(int64(4), nil).Once()
	metrics.On("ObserveSweep", int64(0), mock.AnythingOfType("float64"), false).Return().Once()
	metrics.On("ObserveSweep", int64(4), mock.AnythingOfType("float64"), false).Return().Once()
	seatMapCache.On("InvalidateAll", ctx).Return(nil).Once()

	_, err := sweeper.SweepExpiredHolds(ctx, t0)
	require.NoError(t, err)

	n, err := sweeper.SweepExpiredHolds(ctx, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestExpirySweeper_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A-1")

	_, err := f.booking.Hold(ctx, concertID, "A-1", "user-1")
	require.NoError(t, err)

	require.NoError(t, f.sweeper.Start())
	assert.True(t, f.sweeper.IsRunning())
	assert.ErrorIs(t, f.sweeper.Start(), errs.ErrSweeperRunning)

	// Before expiry a tick changes nothing
	f.clock.Advance(5 * time.Minute)
	f.clock.Tick()
	f.clock.Tick()
	s, err := f.repo.GetSeat(ctx, concertID, "A-1")
	require.NoError(t, err)
	assert.Equal(t, entity.SeatHold, s.Status)

	f.clock.Advance(6 * time.Minute)
	f.clock.Tick()

	assert.Eventually(t, func() bool {
		s, err := f.repo.GetSeat(ctx, concertID, "A-1")
		return err == nil && s.Status == entity.SeatAvailable
	}, time.Second, 5*time.Millisecond)

	f.sweeper.Stop()
	assert.False(t, f.sweeper.IsRunning())
	f.sweeper.Stop()

	// Stopped sweepers can be restarted
	require.NoError(t, f.sweeper.Start())
	f.sweeper.Stop()
}

func TestExpirySweeper_SurvivesFailingAndPanickingCycles(t *testing.T) {
	repo := persistencemocks.NewMockSeatRepository(t)
	clock := timeprovider.NewManualTimeProvider(t0)
	sweeper := NewExpirySweeper(repo, nil, clock, logger.NewNoopLogger(), nil, Config{Interval: time.Second})

	repo.On("ReleaseExpiredHolds", mock.Anything, t0).
		Run(func(mock.Arguments) { panic("driver bug") }).
		Return(int64(0), nil).Once()
	repo.On("ReleaseExpiredHolds", mock.Anything, t0).
		Return(int64(0), errors.New("connection refused")).Once()
	repo.On("ReleaseExpiredHolds", mock.Anything, t0).
		Return(int64(2), nil).Once()

	require.NoError(t, sweeper.Start())
	clock.Tick()
	clock.Tick()
	clock.Tick()
	// Stop waits for the third cycle to finish
	sweeper.Stop()

	repo.AssertNumberOfCalls(t, "ReleaseExpiredHolds", 3)
}
