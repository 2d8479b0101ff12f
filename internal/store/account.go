package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/listquery"
)

// AccountStore defines the interface for account persistence.
type AccountStore interface {
	// Create saves a new account. The account must already carry a
	// HashedPassword; plaintext passwords are never stored.
	// Returns ErrUsernameExists if the username is taken.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its ID.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByUsername retrieves an account by its username.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)

	// Update writes the username and hashed password of an existing account.
	// Returns ErrAccountNotFound or ErrUsernameExists.
	Update(ctx context.Context, account *domain.Account) error

	// UpdateStatus atomically moves the account to status and returns the
	// stored row. The write only happens when the current status differs;
	// otherwise domain.ErrStatusUnchanged is returned and nothing changes.
	// Returns ErrAccountNotFound if the account does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error)

	// Delete removes an account and, through the foreign key, its tasks.
	// Returns ErrAccountNotFound if the account does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of accounts matching q, ignoring paging.
	Count(ctx context.Context, q listquery.Query) (int, error)

	// Find returns the page of accounts described by q.
	Find(ctx context.Context, q listquery.Query) ([]*domain.Account, error)

	// WithTx returns a new AccountStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AccountStore
}
