package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	"gorm.io/gorm"
)

// AdvancedIndexManager manages PostgreSQL-specific indexes of the seat table
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

var seatIndexes = []struct {
	name string
	sql  string
}{
	{
		// the sweep only ever scans live holds
		name: "idx_concert_seats_hold_expiry",
		sql: `CREATE INDEX IF NOT EXISTS idx_concert_seats_hold_expiry
			ON concert_seats (hold_expires_at)
			WHERE current_status = 'HOLD'`,
	},
	{
		name: "idx_concert_seats_concert_status",
		sql: `CREATE INDEX IF NOT EXISTS idx_concert_seats_concert_status
			ON concert_seats (concert_id, current_status)`,
	},
}

// CreateSeatIndexes creates the indexes serving the sweep and seat-map reads
func (m *AdvancedIndexManager) CreateSeatIndexes(ctx context.Context) error {
	m.logger.Info("Creating seat indexes", nil)

	for _, index := range seatIndexes {
		if err := m.db.WithContext(ctx).Exec(index.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": index.name,
				"error": err.Error(),
			})
			return err
		}
	}
	return nil
}

// ApplyPerformanceTweaks tunes storage of the seat table. Failures are logged only.
func (m *AdvancedIndexManager) ApplyPerformanceTweaks(ctx context.Context) {
	// seat rows are updated in place constantly, leave room for HOT updates
	if err := m.db.WithContext(ctx).Exec(`ALTER TABLE concert_seats SET (fillfactor = 80)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for concert_seats", map[string]any{
			"error": err.Error(),
		})
	}

	if err := m.db.WithContext(ctx).Exec(`ALTER TABLE concert_seats SET (autovacuum_vacuum_scale_factor = 0.05)`).Error; err != nil {
		m.logger.Warn("Failed to set autovacuum scale factor for concert_seats", map[string]any{
			"error": err.Error(),
		})
	}
}
