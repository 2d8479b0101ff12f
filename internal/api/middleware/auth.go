package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/redact"
	"github.com/phrazzld/taskr-api/internal/service/auth"
)

// UnauthorizedMessage is the single response body for every rejected token.
const UnauthorizedMessage = "Unauthorized"

// AuthMiddleware is the authentication gate for protected routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates the bearer token in the Authorization header and
// adds the user ID to the request context. Missing, malformed, invalid and
// expired tokens all produce the same 401 response.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r.Header.Get("Authorization"))
		if err == nil {
			var claims *auth.Claims
			claims, err = m.jwtService.ValidateToken(r.Context(), token)
			if err == nil && claims != nil && claims.UserID != uuid.Nil {
				next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), claims.UserID)))
				return
			}
			if err == nil {
				err = auth.ErrInvalidToken
			}
		}

		log := logger.FromContext(r.Context())
		switch {
		case errors.Is(err, auth.ErrExpiredToken), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
			log.Debug("rejected bearer token", "reason", err.Error())
		default:
			log.Warn("unexpected token validation failure", "error", redact.Error(err))
		}

		w.Header().Set("WWW-Authenticate", `Bearer realm="taskr"`)
		shared.RespondWithError(w, r, http.StatusUnauthorized, UnauthorizedMessage)
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" {
		return "", auth.ErrInvalidToken
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, " ") {
		return "", auth.ErrInvalidToken
	}
	return token, nil
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}
