package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/cache"
)

const (
	seatMapKeyPrefix = "seatmap:"
	scanBatchSize    = 100
)

// RedisSeatMapCache stores concert seat maps as JSON documents with a TTL
type RedisSeatMapCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ cache.SeatMapCache = (*RedisSeatMapCache)(nil)

// NewRedisSeatMapCache creates a seat map cache on client; entries live for ttl
func NewRedisSeatMapCache(client redis.Cmdable, ttl time.Duration) *RedisSeatMapCache {
	return &RedisSeatMapCache{client: client, ttl: ttl}
}

type cachedSeat struct {
	ConcertID      string     `json:"concertId"`
	SeatID         string     `json:"seatId"`
	Status         string     `json:"status"`
	HoldExpiresAt  *time.Time `json:"holdExpiresAt,omitempty"`
	LastActionUser *string    `json:"lastActionUser,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func seatMapKey(concertID string) string {
	return seatMapKeyPrefix + concertID
}

// Get returns the cached seat map of a concert
func (c *RedisSeatMapCache) Get(ctx context.Context, concertID string) ([]*entity.Seat, bool, error) {
	payload, err := c.client.Get(ctx, seatMapKey(concertID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("seat map cache get: %w", err)
	}

	var cached []cachedSeat
	if err := json.Unmarshal(payload, &cached); err != nil {
		return nil, false, fmt.Errorf("seat map cache decode: %w", err)
	}

	seats := make([]*entity.Seat, len(cached))
	for i, s := range cached {
		seats[i] = &entity.Seat{
			ConcertID:      s.ConcertID,
			SeatID:         s.SeatID,
			Status:         entity.SeatStatus(s.Status),
			HoldExpiresAt:  s.HoldExpiresAt,
			LastActionUser: s.LastActionUser,
			CreatedAt:      s.CreatedAt,
			UpdatedAt:      s.UpdatedAt,
		}
	}
	return seats, true, nil
}

// Set stores the seat map of a concert
func (c *RedisSeatMapCache) Set(ctx context.Context, concertID string, seats []*entity.Seat) error {
	cached := make([]cachedSeat, len(seats))
	for i, seat := range seats {
		cached[i] = cachedSeat{
			ConcertID:      seat.ConcertID,
			SeatID:         seat.SeatID,
			Status:         string(seat.Status),
			HoldExpiresAt:  seat.HoldExpiresAt,
			LastActionUser: seat.LastActionUser,
			CreatedAt:      seat.CreatedAt,
			UpdatedAt:      seat.UpdatedAt,
		}
	}

	payload, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("seat map cache encode: %w", err)
	}
	if err := c.client.Set(ctx, seatMapKey(concertID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("seat map cache set: %w", err)
	}
	return nil
}

// Invalidate drops the seat map of a concert
func (c *RedisSeatMapCache) Invalidate(ctx context.Context, concertID string) error {
	if err := c.client.Del(ctx, seatMapKey(concertID)).Err(); err != nil {
		return fmt.Errorf("seat map cache invalidate: %w", err)
	}
	return nil
}

// InvalidateAll drops every seat map, scanning the keyspace in batches
func (c *RedisSeatMapCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, seatMapKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("seat map cache scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("seat map cache invalidate all: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Ping checks the redis connection
func (c *RedisSeatMapCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
