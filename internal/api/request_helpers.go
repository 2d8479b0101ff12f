package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/api/middleware"
	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/domain"
)

// getPathUUID returns the {id} path parameter as a UUID. The value checked
// by the validation gate is preferred; chi's raw parameter is the fallback.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if p, ok := middleware.ValidatedPayload[IDPath](r); ok && paramName == "id" {
		raw = p.ID
	}
	if raw == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", nil)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// requireUserID returns the authenticated user ID or writes a 401.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return uuid.Nil, false
	}
	return userID, true
}

// requirePathUUID returns the {id} path parameter or writes a 400.
func requirePathUUID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Debug("invalid path parameter", slog.String("value", chi.URLParam(r, "id")))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return id, true
}

// requirePayload returns the body validated by middleware.Validate[T]. A
// missing payload means the route was wired without the gate.
func requirePayload[T any](w http.ResponseWriter, r *http.Request, log *slog.Logger) (T, bool) {
	p, ok := middleware.ValidatedPayload[T](r)
	if !ok {
		log.Error("validated payload missing from request context")
		shared.RespondWithError(w, r, http.StatusInternalServerError, genericErrorMessage)
	}
	return p, ok
}
