package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	errs "github.com/amirhossein-jamali/seat-hold/internal/domain/error"
)

func TestErrorMapper_MapError(t *testing.T) {
	mapper := NewErrorMapper()

	testCases := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"record not found", gorm.ErrRecordNotFound, errs.ErrSeatNotFound},
		{"wrapped not found", fmt.Errorf("get seat: %w", gorm.ErrRecordNotFound), errs.ErrSeatNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, errs.ErrDuplicateSeat},
		{"unique violation", &pgconn.PgError{Code: "23505", Detail: "Key (concert_id, seat_id)=(c, A-1) already exists."}, errs.ErrDuplicateSeat},
		{"check violation", &pgconn.PgError{Code: "23514", ConstraintName: "chk_concert_seats_hold_expiry"}, errs.ErrSeatInvariant},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), errs.ErrStoreUnavailable},
		{"deadline", context.DeadlineExceeded, errs.ErrStoreUnavailable},
		{"serialization", &pgconn.PgError{Code: "40001"}, errs.ErrStoreUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, mapper.MapError(tc.err, "test"), tc.wantErr)
		})
	}

	assert.NoError(t, mapper.MapError(nil, "test"))
}

func TestErrorMapper_StoreErrorKeepsCause(t *testing.T) {
	cause := errors.New("read: connection reset by peer")
	err := NewErrorMapper().MapError(cause, "conditional update")

	var storeErr *errs.StoreError
	assert.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "conditional update", storeErr.Operation)
	assert.ErrorIs(t, err, cause)
}

func TestErrorMapper_IsTransient(t *testing.T) {
	mapper := NewErrorMapper()

	assert.True(t, mapper.IsTransient(&pgconn.PgError{Code: "40P01"}))
	assert.True(t, mapper.IsTransient(&pgconn.PgError{Code: "08006"}))
	assert.True(t, mapper.IsTransient(errors.New("unexpected EOF")))
	assert.True(t, mapper.IsTransient(context.DeadlineExceeded))

	assert.False(t, mapper.IsTransient(nil))
	assert.False(t, mapper.IsTransient(context.Canceled))
	assert.False(t, mapper.IsTransient(&pgconn.PgError{Code: "23505"}))
	assert.False(t, mapper.IsTransient(errors.New("syntax error at or near")))
}
