package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService. The Fn hooks take precedence
// over the canned return values.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, time.Time, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	Token     string
	ExpiresAt time.Time
	Err       error

	Claims      *auth.Claims
	ValidateErr error

	mu     sync.Mutex
	issued []uuid.UUID
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements auth.JWTService and records userID.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	m.mu.Lock()
	m.issued = append(m.issued, userID)
	m.mu.Unlock()

	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return m.Token, m.ExpiresAt, m.Err
}

// ValidateToken implements auth.JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// Issued returns the user IDs tokens were generated for, in call order.
func (m *MockJWTService) Issued() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.issued...)
}
