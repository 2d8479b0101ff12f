package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/service"
)

// AccountHandler handles the /api/users endpoints.
type AccountHandler struct {
	accounts service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts service.AccountService, logger *slog.Logger) *AccountHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AccountHandler")
	}

	return &AccountHandler{
		accounts: accounts,
		logger:   logger.With(slog.String("component", "account_handler")),
	}
}

// Register handles POST /api/users.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	req, ok := requirePayload[RegisterRequest](w, r, log)
	if !ok {
		return
	}

	account, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, accountToResponse(account))
}

// List handles GET /api/users.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.accounts.ListAccounts(r.Context(), r.URL.Query())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve users")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, mapPage(page, accountToResponse))
}

// Get handles GET /api/users/{id}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := requirePathUUID(w, r, log)
	if !ok {
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(account))
}

// Update handles PUT /api/users/{id}.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := requirePathUUID(w, r, log)
	if !ok {
		return
	}
	req, ok := requirePayload[UpdateAccountRequest](w, r, log)
	if !ok {
		return
	}

	account, err := h.accounts.UpdateAccount(r.Context(), id, req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(account))
}

// ChangeStatus handles PATCH /api/users/{id}/status. Moving an account to
// the status it already has is a 409.
func (h *AccountHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := requirePathUUID(w, r, log)
	if !ok {
		return
	}
	req, ok := requirePayload[StatusRequest](w, r, log)
	if !ok {
		return
	}

	status, err := domain.ParseAccountStatus(req.Status)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	account, err := h.accounts.ChangeStatus(r.Context(), id, status)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to change user status")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, accountToResponse(account))
}

// Delete handles DELETE /api/users/{id}.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := requirePathUUID(w, r, log)
	if !ok {
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
