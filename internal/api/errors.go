package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/listquery"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/store"
)

const genericErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, listquery.ErrMissingOwner):
		return http.StatusUnauthorized

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrStatusUnchanged),
		store.IsDuplicateError(err):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, listquery.ErrInvalidParam),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err. Server errors
// always get the generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, listquery.ErrMissingOwner):
		return "Unauthorized"

	case errors.Is(err, store.ErrAccountNotFound):
		return "User not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.Is(err, domain.ErrStatusUnchanged):
		return "User already has the requested status"
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"
	case store.IsDuplicateError(err):
		return "Resource already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	}

	if msg, ok := validationMessage(err); ok {
		return msg
	}

	if errors.Is(err, service.ErrListFailed) {
		return "Failed to retrieve list"
	}
	return genericErrorMessage
}

// validationMessage returns the message of a single validation error, or a
// summary when several were collected.
func validationMessage(err error) (string, bool) {
	var multi domain.ValidationErrors
	if errors.As(err, &multi) {
		if len(multi) == 1 {
			return multi[0].Error(), true
		}
		return "Validation failed", true
	}
	var single *domain.ValidationError
	if errors.As(err, &single) {
		return single.Error(), true
	}
	return "", false
}

// validationDetails lists every collected violation in err.
func validationDetails(err error) []string {
	var multi domain.ValidationErrors
	if errors.As(err, &multi) && len(multi) > 1 {
		return multi.Messages()
	}
	return nil
}

// HandleAPIError is the single responder for handler errors. fallback, when
// not empty, replaces the generic message of 5xx responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status >= http.StatusInternalServerError {
		message = genericErrorMessage
		if fallback != "" {
			message = fallback
		}
	}

	var opts []shared.ResponseOption
	if details := validationDetails(err); details != nil {
		opts = append(opts, shared.WithDetails(details))
	}
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
