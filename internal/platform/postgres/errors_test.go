package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskr-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "accounts",
		ColumnName:     "username",
		ConstraintName: "accounts_username_key",
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"unique violation", newPgError(uniqueViolationCode), store.ErrDuplicate},
		{"foreign key violation", newPgError(foreignKeyViolationCode), store.ErrInvalidEntity},
		{"check violation", newPgError(checkViolationCode), store.ErrInvalidEntity},
		{"not null violation", newPgError(notNullViolationCode), store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mapped := MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.target)

			var pgErr *pgconn.PgError
			if errors.As(tt.err, &pgErr) {
				assert.ErrorAs(t, mapped, &pgErr, "original error must stay reachable")
			}
		})
	}

	assert.NoError(t, MapError(nil))

	other := errors.New("boom")
	assert.Same(t, other, MapError(other))
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, MapUniqueViolation(newPgError(uniqueViolationCode), store.ErrUsernameExists), store.ErrUsernameExists)
	assert.ErrorIs(t, MapUniqueViolation(newPgError(checkViolationCode), store.ErrUsernameExists), store.ErrInvalidEntity)
}

func TestMapNotFound(t *testing.T) {
	t.Parallel()

	assert.Equal(t, store.ErrTaskNotFound, MapNotFound(sql.ErrNoRows, store.ErrTaskNotFound))
	assert.ErrorIs(t, MapNotFound(newPgError(uniqueViolationCode), store.ErrTaskNotFound), store.ErrDuplicate)
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.Error(t, CheckRowsAffected(nil, store.ErrTaskNotFound))
	assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrTaskNotFound))
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrTaskNotFound), store.ErrTaskNotFound)
	assert.Error(t, CheckRowsAffected(sqlmock.NewErrorResult(errors.New("driver")), store.ErrTaskNotFound))
}
