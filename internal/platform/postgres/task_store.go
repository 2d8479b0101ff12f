package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/listquery"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/store"
)

const taskColumns = "id, owner_id, name, done, created_at, updated_at"

var tasksTable = table{
	name: "tasks",
	columns: map[string]string{
		"id":         "id",
		"owner_id":   "owner_id",
		"name":       "name",
		"done":       "done",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
}

// PostgresTaskStore implements store.TaskStore.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a task store on a connection or transaction.
// If logger is nil, the default logger is used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

func (s *PostgresTaskStore) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, owner_id, name, done, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		task.ID, task.OwnerID, task.Name, task.Done, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		s.log(ctx).Error("failed to insert task", "error", err, "task_id", task.ID)
		return MapError(err)
	}
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1 AND owner_id = $2", id, ownerID)
	task, err := scanTask(row)
	if err != nil {
		return nil, MapNotFound(err, store.ErrTaskNotFound)
	}
	return task, nil
}

// Update implements store.TaskStore.Update.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	task.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET name = $1, done = $2, updated_at = $3 WHERE id = $4 AND owner_id = $5`,
		task.Name, task.Done, task.UpdatedAt, task.ID, task.OwnerID,
	)
	if err != nil {
		s.log(ctx).Error("failed to update task", "error", err, "task_id", task.ID)
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// SetDone implements store.TaskStore.SetDone.
func (s *PostgresTaskStore) SetDone(ctx context.Context, ownerID, id uuid.UUID, done bool) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET done = $1, updated_at = $2 WHERE id = $3 AND owner_id = $4
		 RETURNING `+taskColumns,
		done, time.Now().UTC(), id, ownerID,
	)
	task, err := scanTask(row)
	if err != nil {
		return nil, MapNotFound(err, store.ErrTaskNotFound)
	}
	return task, nil
}

// Delete implements store.TaskStore.Delete.
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		s.log(ctx).Error("failed to delete task", "error", err, "task_id", id)
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Count implements store.TaskStore.Count.
func (s *PostgresTaskStore) Count(ctx context.Context, q listquery.Query) (int, error) {
	c, err := compileList(tasksTable, q)
	if err != nil {
		return 0, err
	}

	var total int
	if err := s.db.QueryRowContext(ctx, c.countSQL(tasksTable), c.args...).Scan(&total); err != nil {
		s.log(ctx).Error("failed to count tasks", "error", err)
		return 0, store.NewStoreError("task", "count", "query failed", MapError(err))
	}
	return total, nil
}

// Find implements store.TaskStore.Find.
func (s *PostgresTaskStore) Find(ctx context.Context, q listquery.Query) ([]*domain.Task, error) {
	c, err := compileList(tasksTable, q)
	if err != nil {
		return nil, err
	}

	query, args := c.selectSQL(tasksTable, taskColumns, q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.log(ctx).Error("failed to list tasks", "error", err)
		return nil, store.NewStoreError("task", "find", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0, q.Limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "find", "scan failed", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "find", "iteration failed", MapError(err))
	}
	return tasks, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Name,
		&task.Done,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}
