package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/listquery"
)

// TaskStore defines the interface for task persistence. Every read and write
// that names a task also names its owner; a task owned by someone else is
// reported as ErrTaskNotFound.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves the owner's task with the given ID.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// Update writes name and done for an existing task of task.OwnerID.
	Update(ctx context.Context, task *domain.Task) error

	// SetDone sets the completion flag and returns the updated task.
	SetDone(ctx context.Context, ownerID, id uuid.UUID, done bool) (*domain.Task, error)

	// Delete removes the owner's task.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// Count returns the number of tasks matching q, ignoring paging.
	Count(ctx context.Context, q listquery.Query) (int, error)

	// Find returns the page of tasks described by q.
	Find(ctx context.Context, q listquery.Query) ([]*domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
