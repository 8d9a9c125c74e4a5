package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
	"gorm.io/gorm"
)

// seatConstraints are the row invariants of concert_seats
var seatConstraints = map[string]string{
	"chk_concert_seats_status": `CHECK (current_status IN ('AVAILABLE', 'HOLD', 'SOLD', 'CANCELLED'))`,
	// an expiry exists exactly while the seat is held
	"chk_concert_seats_hold_expiry": `CHECK ((current_status = 'HOLD') = (hold_expires_at IS NOT NULL))`,
	"chk_concert_seats_hold_owner":  `CHECK (current_status <> 'HOLD' OR last_action_user IS NOT NULL)`,
}

// AddSeatConstraints adds the CHECK constraints of the seat table when missing
type AddSeatConstraints struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAddSeatConstraints creates a new migration instance
func NewAddSeatConstraints(db *gorm.DB, logger coreport.Logger) *AddSeatConstraints {
	return &AddSeatConstraints{
		db:     db,
		logger: logger,
	}
}

// Run executes the migration
func (m *AddSeatConstraints) Run(ctx context.Context) error {
	m.logger.Info("Adding CHECK constraints to concert_seats", nil)

	existing, err := m.existingConstraints(ctx)
	if err != nil {
		return err
	}

	for name, check := range seatConstraints {
		if existing[name] {
			continue
		}
		if err := m.db.WithContext(ctx).Exec(`ALTER TABLE concert_seats ADD CONSTRAINT ` + name + ` ` + check).Error; err != nil {
			m.logger.Error("Failed to add constraint", map[string]any{
				"constraint": name,
				"error":      err.Error(),
			})
			return err
		}
	}
	return nil
}

func (m *AddSeatConstraints) existingConstraints(ctx context.Context) (map[string]bool, error) {
	var names []string
	err := m.db.WithContext(ctx).Raw(`
		SELECT conname
		FROM pg_constraint
		WHERE conrelid = 'concert_seats'::regclass AND contype = 'c'
	`).Scan(&names).Error
	if err != nil {
		m.logger.Error("Failed to list existing constraints", map[string]any{"error": err.Error()})
		return nil, err
	}

	existing := make(map[string]bool, len(names))
	for _, name := range names {
		existing[name] = true
	}
	return existing, nil
}
