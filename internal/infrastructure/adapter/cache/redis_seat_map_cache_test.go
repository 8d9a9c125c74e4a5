package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
)

const testTTL = 5 * time.Second

func setupTestCache() (*RedisSeatMapCache, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return NewRedisSeatMapCache(db, testTTL), mock
}

func sampleSeats() []*entity.Seat {
	now := time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)
	expires := now.Add(10 * time.Minute)
	holder := "alice"
	return []*entity.Seat{
		{ConcertID: "c-1", SeatID: "A1", Status: entity.SeatAvailable, CreatedAt: now, UpdatedAt: now},
		{ConcertID: "c-1", SeatID: "A2", Status: entity.SeatHold, HoldExpiresAt: &expires, LastActionUser: &holder, CreatedAt: now, UpdatedAt: now},
	}
}

func TestRedisSeatMapCache_SetThenGet(t *testing.T) {
	cache, mock := setupTestCache()
	defer mock.ClearExpect()
	ctx := context.Background()
	seats := sampleSeats()

	cached := []cachedSeat{
		{ConcertID: "c-1", SeatID: "A1", Status: "AVAILABLE", CreatedAt: seats[0].CreatedAt, UpdatedAt: seats[0].UpdatedAt},
		{ConcertID: "c-1", SeatID: "A2", Status: "HOLD", HoldExpiresAt: seats[1].HoldExpiresAt, LastActionUser: seats[1].LastActionUser, CreatedAt: seats[1].CreatedAt, UpdatedAt: seats[1].UpdatedAt},
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	mock.ExpectSet("seatmap:c-1", payload, testTTL).SetVal("OK")
	require.NoError(t, cache.Set(ctx, "c-1", seats))

	mock.ExpectGet("seatmap:c-1").SetVal(string(payload))
	got, hit, err := cache.Get(ctx, "c-1")
	require.NoError(t, err)
	assert.True(t, hit)
	require.Len(t, got, 2)
	assert.Equal(t, entity.SeatHold, got[1].Status)
	assert.Equal(t, "alice", got[1].Holder())
	assert.True(t, seats[1].HoldExpiresAt.Equal(*got[1].HoldExpiresAt))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSeatMapCache_Miss(t *testing.T) {
	cache, mock := setupTestCache()
	defer mock.ClearExpect()

	mock.ExpectGet("seatmap:c-9").RedisNil()
	seats, hit, err := cache.Get(context.Background(), "c-9")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, seats)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSeatMapCache_GetErrors(t *testing.T) {
	cache, mock := setupTestCache()
	defer mock.ClearExpect()
	ctx := context.Background()

	mock.ExpectGet("seatmap:c-1").SetErr(errors.New("connection refused"))
	_, hit, err := cache.Get(ctx, "c-1")
	require.Error(t, err)
	assert.False(t, hit)

	mock.ExpectGet("seatmap:c-1").SetVal("not json")
	_, hit, err = cache.Get(ctx, "c-1")
	require.Error(t, err)
	assert.False(t, hit)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSeatMapCache_Invalidate(t *testing.T) {
	cache, mock := setupTestCache()
	defer mock.ClearExpect()

	mock.ExpectDel("seatmap:c-1").SetVal(1)
	require.NoError(t, cache.Invalidate(context.Background(), "c-1"))

	mock.ExpectDel("seatmap:c-2").SetErr(errors.New("timeout"))
	require.Error(t, cache.Invalidate(context.Background(), "c-2"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSeatMapCache_InvalidateAll(t *testing.T) {
	cache, mock := setupTestCache()
	defer mock.ClearExpect()

	mock.ExpectScan(0, "seatmap:*", scanBatchSize).SetVal([]string{"seatmap:c-1", "seatmap:c-2"}, 42)
	mock.ExpectDel("seatmap:c-1", "seatmap:c-2").SetVal(2)
	mock.ExpectScan(42, "seatmap:*", scanBatchSize).SetVal([]string{}, 0)

	require.NoError(t, cache.InvalidateAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSeatMapCache_InvalidateAllScanError(t *testing.T) {
	cache, mock := setupTestCache()
	defer mock.ClearExpect()

	mock.ExpectScan(0, "seatmap:*", scanBatchSize).SetErr(errors.New("connection reset"))

	require.Error(t, cache.InvalidateAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
