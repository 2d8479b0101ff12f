package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/taskr-api/internal/store"
)

// MockDB implements store.TxBeginner. Each BeginTx returns a real *sql.Tx
// backed by its own sqlmock connection that accepts a commit or a rollback,
// so RunInTransaction can be exercised with the in-memory stores.
type MockDB struct {
	BeginTxFn func(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)

	mu     sync.Mutex
	begun  int
	closer []*sql.DB
}

var _ store.TxBeginner = (*MockDB)(nil)

// NewMockDB creates a MockDB.
func NewMockDB() *MockDB {
	return &MockDB{}
}

// BeginTx implements store.TxBeginner.
func (m *MockDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	if m.BeginTxFn != nil {
		return m.BeginTxFn(ctx, opts)
	}

	db, mock, err := sqlmock.New()
	if err != nil {
		return nil, fmt.Errorf("sqlmock: %w", err)
	}
	mock.MatchExpectationsInOrder(false)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectRollback()

	m.mu.Lock()
	m.begun++
	m.closer = append(m.closer, db)
	m.mu.Unlock()

	return db.BeginTx(ctx, opts)
}

// Begun returns the number of transactions started.
func (m *MockDB) Begun() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.begun
}

// Close releases the sqlmock connections.
func (m *MockDB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, db := range m.closer {
		_ = db.Close()
	}
	m.closer = nil
	return nil
}
