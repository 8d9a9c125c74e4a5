package cache

import (
	"context"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
)

// SeatMapCache is a short-lived read model of a concert's seat list.
// It only serves display reads; seat transitions never consult it.
type SeatMapCache interface {
	// Get returns the cached seats of a concert and whether the entry was present
	Get(ctx context.Context, concertID string) ([]*entity.Seat, bool, error)
	// Set stores the seats of a concert
	Set(ctx context.Context, concertID string, seats []*entity.Seat) error
	// Invalidate drops the entry of a concert
	Invalidate(ctx context.Context, concertID string) error
	// InvalidateAll drops every concert entry
	InvalidateAll(ctx context.Context) error
}
