package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/listquery"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/store"
)

const accountColumns = "id, username, hashed_password, status, created_at, updated_at"

var accountsTable = table{
	name: "accounts",
	columns: map[string]string{
		"id":         "id",
		"username":   "username",
		"status":     "status",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
}

// PostgresAccountStore implements store.AccountStore.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccountStore creates an account store on a connection or
// transaction. If logger is nil, the default logger is used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

var _ store.AccountStore = (*PostgresAccountStore)(nil)

// WithTx implements store.AccountStore.WithTx.
func (s *PostgresAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &PostgresAccountStore{db: tx, logger: s.logger}
}

func (s *PostgresAccountStore) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// Create implements store.AccountStore.Create.
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := s.log(ctx)

	if account.HashedPassword == "" {
		return fmt.Errorf("%w: hashed password is required", store.ErrInvalidEntity)
	}
	if err := account.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, username, hashed_password, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID, account.Username, account.HashedPassword, string(account.Status),
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("username already taken", "username", account.Username)
		} else {
			log.Error("failed to insert account", "error", err, "account_id", account.ID)
		}
		return MapUniqueViolation(err, store.ErrUsernameExists)
	}

	log.Debug("account created", "account_id", account.ID)
	return nil
}

// GetByID implements store.AccountStore.GetByID.
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = $1", id)
	account, err := scanAccount(row)
	if err != nil {
		return nil, MapNotFound(err, store.ErrAccountNotFound)
	}
	return account, nil
}

// GetByUsername implements store.AccountStore.GetByUsername. The lookup is
// case-insensitive, matching the unique index.
func (s *PostgresAccountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE LOWER(username) = LOWER($1)", username)
	account, err := scanAccount(row)
	if err != nil {
		return nil, MapNotFound(err, store.ErrAccountNotFound)
	}
	return account, nil
}

// Update implements store.AccountStore.Update.
func (s *PostgresAccountStore) Update(ctx context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	account.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET username = $1, hashed_password = $2, updated_at = $3 WHERE id = $4`,
		account.Username, account.HashedPassword, account.UpdatedAt, account.ID,
	)
	if err != nil {
		s.log(ctx).Error("failed to update account", "error", err, "account_id", account.ID)
		return MapUniqueViolation(err, store.ErrUsernameExists)
	}
	return CheckRowsAffected(result, store.ErrAccountNotFound)
}

// UpdateStatus implements store.AccountStore.UpdateStatus with a single
// conditional UPDATE, so two concurrent requests for the same transition
// cannot both succeed.
func (s *PostgresAccountStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.AccountStatus,
) (*domain.Account, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	row := s.db.QueryRowContext(ctx,
		`UPDATE accounts SET status = $1, updated_at = $2
		 WHERE id = $3 AND status <> $1
		 RETURNING `+accountColumns,
		string(status), time.Now().UTC(), id,
	)
	account, err := scanAccount(row)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		s.log(ctx).Error("failed to update account status", "error", err, "account_id", id)
		return nil, MapError(err)
	}

	// No row changed: either the account is missing or already has status.
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)", id,
	).Scan(&exists); err != nil {
		return nil, MapError(err)
	}
	if !exists {
		return nil, store.ErrAccountNotFound
	}
	return nil, domain.ErrStatusUnchanged
}

// Delete implements store.AccountStore.Delete.
func (s *PostgresAccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		s.log(ctx).Error("failed to delete account", "error", err, "account_id", id)
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrAccountNotFound)
}

// Count implements store.AccountStore.Count.
func (s *PostgresAccountStore) Count(ctx context.Context, q listquery.Query) (int, error) {
	c, err := compileList(accountsTable, q)
	if err != nil {
		return 0, err
	}

	var total int
	if err := s.db.QueryRowContext(ctx, c.countSQL(accountsTable), c.args...).Scan(&total); err != nil {
		s.log(ctx).Error("failed to count accounts", "error", err)
		return 0, store.NewStoreError("account", "count", "query failed", MapError(err))
	}
	return total, nil
}

// Find implements store.AccountStore.Find.
func (s *PostgresAccountStore) Find(ctx context.Context, q listquery.Query) ([]*domain.Account, error) {
	c, err := compileList(accountsTable, q)
	if err != nil {
		return nil, err
	}

	query, args := c.selectSQL(accountsTable, accountColumns, q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.log(ctx).Error("failed to list accounts", "error", err)
		return nil, store.NewStoreError("account", "find", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	accounts := make([]*domain.Account, 0, q.Limit)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, store.NewStoreError("account", "find", "scan failed", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("account", "find", "iteration failed", MapError(err))
	}
	return accounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		account domain.Account
		status  string
	)
	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.HashedPassword,
		&status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	account.Status = domain.AccountStatus(status)
	return &account, nil
}
