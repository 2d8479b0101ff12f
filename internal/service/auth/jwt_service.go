package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and verifies bearer tokens.
type JWTService interface {
	// GenerateToken creates a signed token for userID that expires after the
	// configured lifetime. It returns the token and its expiry.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, time.Time, error)

	// ValidateToken verifies the signature and expiry of tokenString and
	// returns its claims. It fails with ErrExpiredToken once now >= expiry and
	// with ErrInvalidToken for every other problem.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of a token.
type Claims struct {
	// UserID is the identity the token was issued for.
	UserID    uuid.UUID
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
