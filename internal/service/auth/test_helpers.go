package auth

import (
	"time"

	"github.com/phrazzld/taskr-api/internal/config"
)

// TestSecret is a signing secret long enough for NewJWTService.
const TestSecret = "test-jwt-secret-that-is-32-chars-long"

// DefaultTestConfig returns an AuthConfig suitable for tests.
func DefaultTestConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            TestSecret,
		TokenLifetimeMinutes: 60,
		BCryptCost:           4,
	}
}

// NewTestJWTService creates a JWTService with an injected clock.
func NewTestJWTService(secret string, lifetime time.Duration, now func() time.Time) JWTService {
	return newHMACJWTService(secret, lifetime, now)
}
