package mocks

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/listquery"
	"github.com/phrazzld/taskr-api/internal/store"
)

// MockAccountStore is an in-memory store.AccountStore.
type MockAccountStore struct {
	CreateFn        func(ctx context.Context, account *domain.Account) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.Account, error)
	UpdateFn        func(ctx context.Context, account *domain.Account) error
	UpdateStatusFn  func(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error)
	DeleteFn        func(ctx context.Context, id uuid.UUID) error
	CountFn         func(ctx context.Context, q listquery.Query) (int, error)
	FindFn          func(ctx context.Context, q listquery.Query) ([]*domain.Account, error)

	// Tasks, when set, loses the tasks of deleted accounts.
	Tasks *MockTaskStore

	mu       sync.Mutex
	accounts map[uuid.UUID]domain.Account
}

var _ store.AccountStore = (*MockAccountStore)(nil)

// NewMockAccountStore creates an empty store.
func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{accounts: make(map[uuid.UUID]domain.Account)}
}

// Put stores a copy of account, replacing any account with the same ID.
func (m *MockAccountStore) Put(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = *account
}

// Create implements store.AccountStore.
func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, account)
	}
	if err := account.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if strings.EqualFold(existing.Username, account.Username) {
			return store.ErrUsernameExists
		}
	}
	m.accounts[account.ID] = *account
	return nil
}

// GetByID implements store.AccountStore.
func (m *MockAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return &account, nil
}

// GetByUsername implements store.AccountStore.
func (m *MockAccountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if strings.EqualFold(account.Username, username) {
			return &account, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

// Update implements store.AccountStore.
func (m *MockAccountStore) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, account)
	}
	if err := account.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.accounts[account.ID]
	if !ok {
		return store.ErrAccountNotFound
	}
	for id, existing := range m.accounts {
		if id != account.ID && strings.EqualFold(existing.Username, account.Username) {
			return store.ErrUsernameExists
		}
	}
	current.Username = account.Username
	current.HashedPassword = account.HashedPassword
	current.UpdatedAt = time.Now().UTC()
	m.accounts[account.ID] = current
	account.UpdatedAt = current.UpdatedAt
	return nil
}

// UpdateStatus implements store.AccountStore with the same compare-and-set
// semantics as the database.
func (m *MockAccountStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.AccountStatus,
) (*domain.Account, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	if err := account.TransitionTo(status); err != nil {
		return nil, err
	}
	m.accounts[id] = account
	return &account, nil
}

// Delete implements store.AccountStore.
func (m *MockAccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	if _, ok := m.accounts[id]; !ok {
		m.mu.Unlock()
		return store.ErrAccountNotFound
	}
	delete(m.accounts, id)
	m.mu.Unlock()

	if m.Tasks != nil {
		m.Tasks.deleteOwner(id)
	}
	return nil
}

// Count implements store.AccountStore.
func (m *MockAccountStore) Count(ctx context.Context, q listquery.Query) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, q)
	}
	return len(m.matching(q)), nil
}

// Find implements store.AccountStore.
func (m *MockAccountStore) Find(ctx context.Context, q listquery.Query) ([]*domain.Account, error) {
	if m.FindFn != nil {
		return m.FindFn(ctx, q)
	}
	return sortAndPage(m.matching(q), q, accountFields), nil
}

// WithTx implements store.AccountStore. The mock has no transactions.
func (m *MockAccountStore) WithTx(*sql.Tx) store.AccountStore {
	return m
}

func (m *MockAccountStore) matching(q listquery.Query) []*domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Account
	for _, account := range m.accounts {
		if matchesQuery(q, accountFields(&account)) {
			out = append(out, &account)
		}
	}
	return out
}

func accountFields(a *domain.Account) fieldFunc {
	return func(field string) (any, bool) {
		switch field {
		case "id":
			return a.ID, true
		case "username":
			return a.Username, true
		case "status":
			return a.Status, true
		case "created_at":
			return a.CreatedAt, true
		case "updated_at":
			return a.UpdatedAt, true
		}
		return nil, false
	}
}
