package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/listquery"
	"github.com/phrazzld/taskr-api/internal/store"
)

// MockTaskStore is an in-memory store.TaskStore.
type MockTaskStore struct {
	CreateFn  func(ctx context.Context, task *domain.Task) error
	GetByIDFn func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	UpdateFn  func(ctx context.Context, task *domain.Task) error
	SetDoneFn func(ctx context.Context, ownerID, id uuid.UUID, done bool) (*domain.Task, error)
	DeleteFn  func(ctx context.Context, ownerID, id uuid.UUID) error
	CountFn   func(ctx context.Context, q listquery.Query) (int, error)
	FindFn    func(ctx context.Context, q listquery.Query) ([]*domain.Task, error)

	mu    sync.Mutex
	tasks map[uuid.UUID]domain.Task
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{tasks: make(map[uuid.UUID]domain.Task)}
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = *task
	return nil
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return &task, nil
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.tasks[task.ID]
	if !ok || current.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now().UTC()
	current.Name, current.Done, current.UpdatedAt = task.Name, task.Done, task.UpdatedAt
	m.tasks[task.ID] = current
	return nil
}

// SetDone implements store.TaskStore.
func (m *MockTaskStore) SetDone(ctx context.Context, ownerID, id uuid.UUID, done bool) (*domain.Task, error) {
	if m.SetDoneFn != nil {
		return m.SetDoneFn(ctx, ownerID, id, done)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	task.Done = done
	task.UpdatedAt = time.Now().UTC()
	m.tasks[id] = task
	return &task, nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// Count implements store.TaskStore.
func (m *MockTaskStore) Count(ctx context.Context, q listquery.Query) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, q)
	}
	return len(m.matching(q)), nil
}

// Find implements store.TaskStore.
func (m *MockTaskStore) Find(ctx context.Context, q listquery.Query) ([]*domain.Task, error) {
	if m.FindFn != nil {
		return m.FindFn(ctx, q)
	}
	return sortAndPage(m.matching(q), q, taskFields), nil
}

// WithTx implements store.TaskStore. The mock has no transactions.
func (m *MockTaskStore) WithTx(*sql.Tx) store.TaskStore {
	return m
}

// Len returns the number of stored tasks across all owners.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *MockTaskStore) deleteOwner(ownerID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, task := range m.tasks {
		if task.OwnerID == ownerID {
			delete(m.tasks, id)
		}
	}
}

func (m *MockTaskStore) matching(q listquery.Query) []*domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Task
	for _, task := range m.tasks {
		if matchesQuery(q, taskFields(&task)) {
			out = append(out, &task)
		}
	}
	return out
}

func taskFields(t *domain.Task) fieldFunc {
	return func(field string) (any, bool) {
		switch field {
		case "id":
			return t.ID, true
		case "owner_id":
			return t.OwnerID, true
		case "name":
			return t.Name, true
		case "done":
			return t.Done, true
		case "created_at":
			return t.CreatedAt, true
		case "updated_at":
			return t.UpdatedAt, true
		}
		return nil, false
	}
}
