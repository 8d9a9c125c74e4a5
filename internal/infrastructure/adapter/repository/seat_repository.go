package repository

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/entity"
	errs "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/seat-hold/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// SeatRepository implements persistence.SeatRepository on postgres using GORM.
// Every write is a single statement, so postgres row locking makes it atomic.
type SeatRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	errorMapper  *database.ErrorMapper
	collector    *database.MetricsCollector
	queryTimeout time.Duration
}

var _ persistence.SeatRepository = (*SeatRepository)(nil)

// NewSeatRepository creates a new SeatRepository instance
func NewSeatRepository(
	db *gorm.DB,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	collector *database.MetricsCollector,
	queryTimeout time.Duration,
) *SeatRepository {
	return &SeatRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
		errorMapper:  database.NewErrorMapper(),
		collector:    collector,
		queryTimeout: queryTimeout,
	}
}

// UpdateStatusIf runs UPDATE ... WHERE key AND current_status IN (...) [AND last_action_user = ?]
func (r *SeatRepository) UpdateStatusIf(ctx context.Context, cond entity.SeatCondition, update entity.SeatUpdate) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	statuses := make([]string, len(cond.Statuses))
	for i, status := range cond.Statuses {
		statuses[i] = string(status)
	}

	values := map[string]any{
		"current_status":  string(update.Status),
		"hold_expires_at": update.HoldExpiresAt,
		"updated_at":      update.UpdatedAt,
	}
	if !update.KeepOwner {
		values["last_action_user"] = update.LastActionUser
	}

	metrics, err := r.collector.MeasureQuery(ctx, "update_status_if", func() (int64, error) {
		query := r.db.WithContext(ctx).Model(&model.ConcertSeat{}).
			Where("concert_id = ? AND seat_id = ? AND current_status IN ?", cond.ConcertID, cond.SeatID, statuses)
		if cond.Holder != "" {
			query = query.Where("last_action_user = ?", cond.Holder)
		}
		result := query.Updates(values)
		return result.RowsAffected, result.Error
	})
	if err != nil {
		return false, r.mapError(err, "conditional seat update")
	}

	r.logger.Debug("Conditional seat update executed", map[string]any{
		"concert_id":    cond.ConcertID,
		"seat_id":       cond.SeatID,
		"to_status":     update.Status,
		"rows_affected": metrics.RowsAffected,
	})
	return metrics.RowsAffected == 1, nil
}

// ReleaseExpiredHolds runs one bulk UPDATE over holds with hold_expires_at < now
func (r *SeatRepository) ReleaseExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	metrics, err := r.collector.MeasureQuery(ctx, "release_expired_holds", func() (int64, error) {
		result := r.db.WithContext(ctx).Model(&model.ConcertSeat{}).
			Where("current_status = ? AND hold_expires_at < ?", string(entity.SeatHold), now).
			Updates(map[string]any{
				"current_status":   string(entity.SeatAvailable),
				"hold_expires_at":  nil,
				"last_action_user": nil,
				"updated_at":       now,
			})
		return result.RowsAffected, result.Error
	})
	if err != nil {
		return 0, r.mapError(err, "release expired holds")
	}
	return metrics.RowsAffected, nil
}

// GetSeat reads one seat by key
func (r *SeatRepository) GetSeat(ctx context.Context, concertID, seatID string) (*entity.Seat, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var row model.ConcertSeat
	_, err := r.collector.MeasureQuery(ctx, "get_seat", func() (int64, error) {
		result := r.db.WithContext(ctx).
			Where("concert_id = ? AND seat_id = ?", concertID, seatID).
			Take(&row)
		return result.RowsAffected, result.Error
	})
	if err != nil {
		return nil, r.mapError(err, "get seat")
	}
	return row.ToEntity(), nil
}

// ListSeats reads every seat of a concert ordered by seat ID
func (r *SeatRepository) ListSeats(ctx context.Context, concertID string) ([]*entity.Seat, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rows []model.ConcertSeat
	_, err := r.collector.MeasureQuery(ctx, "list_seats", func() (int64, error) {
		result := r.db.WithContext(ctx).
			Where("concert_id = ?", concertID).
			Order("seat_id").
			Find(&rows)
		return result.RowsAffected, result.Error
	})
	if err != nil {
		return nil, r.mapError(err, "list seats")
	}

	seats := make([]*entity.Seat, len(rows))
	for i := range rows {
		seats[i] = rows[i].ToEntity()
	}
	return seats, nil
}

// CreateSeats inserts all seats in one INSERT statement
func (r *SeatRepository) CreateSeats(ctx context.Context, seats []*entity.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows := make([]*model.ConcertSeat, len(seats))
	for i, seat := range seats {
		rows[i] = model.ConcertSeatFromEntity(seat)
	}

	_, err := r.collector.MeasureQuery(ctx, "create_seats", func() (int64, error) {
		result := r.db.WithContext(ctx).Create(&rows)
		return result.RowsAffected, result.Error
	})
	if err != nil {
		return r.mapError(err, "create seats")
	}
	return nil
}

func (r *SeatRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return r.timeProvider.WithTimeout(ctx, coreport.Duration(r.queryTimeout))
}

func (r *SeatRepository) mapError(err error, operation string) error {
	mapped := r.errorMapper.MapError(err, operation)
	if errs.IsStoreUnavailableError(mapped) {
		r.logger.Error("Seat store operation failed", map[string]any{
			"operation": operation,
			"error":     err.Error(),
		})
	}
	return mapped
}
