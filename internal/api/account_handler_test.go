package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/listquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountHandler_Register(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users", uuid.Nil,
		map[string]any{"username": "alice", "password": "correct-horse", "status": "INACTIVE"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeJSON[AccountResponse](t, rec)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "ACTIVE", created.Status, "status cannot be chosen at registration")
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.do(t, http.MethodPost, "/api/users", uuid.Nil, RegisterRequest{Username: "Alice", Password: "another-pass"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already exists", decodeJSON[shared.ErrorResponse](t, rec).Error)

	rec = env.do(t, http.MethodPost, "/api/users", uuid.Nil, RegisterRequest{Username: "al", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, decodeJSON[shared.ErrorResponse](t, rec).Details, 2)
}

func TestAccountHandler_Get(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	caller := putAccount(env, "caller", "correct-horse", domain.AccountStatusActive)
	other := putAccount(env, "other", "correct-horse", domain.AccountStatusInactive)

	rec := env.do(t, http.MethodGet, "/api/users/"+other.ID.String(), caller.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeJSON[AccountResponse](t, rec)
	assert.Equal(t, other.ID, got.ID)
	assert.Equal(t, "INACTIVE", got.Status)

	rec = env.do(t, http.MethodGet, "/api/users/"+uuid.NewString(), caller.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeJSON[shared.ErrorResponse](t, rec).Error)

	rec = env.do(t, http.MethodGet, "/api/users/42", caller.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"id must be a valid UUID"}, decodeJSON[shared.ErrorResponse](t, rec).Details)
}

func TestAccountHandler_StatusLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	caller := putAccount(env, "caller", "correct-horse", domain.AccountStatusActive)
	target := putAccount(env, "target", "correct-horse", domain.AccountStatusActive)
	path := "/api/users/" + target.ID.String() + "/status"

	steps := []struct {
		status     string
		wantStatus int
	}{
		{"ACTIVE", http.StatusConflict},
		{"INACTIVE", http.StatusOK},
		{"INACTIVE", http.StatusConflict},
		{"ACTIVE", http.StatusOK},
	}

	for i, step := range steps {
		rec := env.do(t, http.MethodPatch, path, caller.ID, StatusRequest{Status: step.status})
		require.Equal(t, step.wantStatus, rec.Code, "step %d: %s", i, rec.Body.String())
		if step.wantStatus == http.StatusOK {
			assert.Equal(t, step.status, decodeJSON[AccountResponse](t, rec).Status)
		} else {
			assert.Equal(t, "User already has the requested status", decodeJSON[shared.ErrorResponse](t, rec).Error)
		}
	}
}

func TestAccountHandler_StatusRejections(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	caller := putAccount(env, "caller", "correct-horse", domain.AccountStatusActive)

	tests := []struct {
		name       string
		id         string
		body       any
		wantStatus int
	}{
		{"missing status", caller.ID.String(), map[string]any{"reason": "vacation"}, http.StatusBadRequest},
		{"empty body", caller.ID.String(), "", http.StatusBadRequest},
		{"lowercase status", caller.ID.String(), StatusRequest{Status: "inactive"}, http.StatusBadRequest},
		{"unknown status", caller.ID.String(), StatusRequest{Status: "BANNED"}, http.StatusBadRequest},
		{"unknown account", uuid.NewString(), StatusRequest{Status: "ACTIVE"}, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPatch, "/api/users/"+tc.id+"/status", caller.ID, tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestAccountHandler_Update(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	caller := putAccount(env, "caller", "correct-horse", domain.AccountStatusActive)
	putAccount(env, "taken", "correct-horse", domain.AccountStatusActive)
	path := "/api/users/" + caller.ID.String()

	rec := env.do(t, http.MethodPut, path, caller.ID, map[string]string{"username": "renamed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "renamed", decodeJSON[AccountResponse](t, rec).Username)

	rec = env.do(t, http.MethodPut, path, caller.ID, map[string]string{"password": "new-password"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored, err := env.accounts.GetByID(t.Context(), caller.ID)
	require.NoError(t, err)
	assert.Equal(t, "mock-hash:new-password", stored.HashedPassword)

	rec = env.do(t, http.MethodPut, path, caller.ID, map[string]string{"username": "TAKEN"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPut, path, caller.ID, map[string]string{"nickname": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "username or password is required", decodeJSON[shared.ErrorResponse](t, rec).Error)

	rec = env.do(t, http.MethodPut, "/api/users/"+uuid.NewString(), caller.ID, map[string]string{"username": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountHandler_DeleteCascadesTasks(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	caller := putAccount(env, "caller", "correct-horse", domain.AccountStatusActive)

	rec := env.do(t, http.MethodPost, "/api/tasks", caller.ID, TaskRequest{Name: "buy milk"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 1, env.tasks.Len())

	rec = env.do(t, http.MethodDelete, "/api/users/"+caller.ID.String(), caller.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Zero(t, env.tasks.Len())

	rec = env.do(t, http.MethodDelete, "/api/users/"+caller.ID.String(), caller.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountHandler_List(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	caller := putAccount(env, "caller", "correct-horse", domain.AccountStatusActive)
	putAccount(env, "alpha", "correct-horse", domain.AccountStatusInactive)
	putAccount(env, "alphonse", "correct-horse", domain.AccountStatusActive)

	rec := env.do(t, http.MethodGet, "/api/users?status=ACTIVE&orderBy=username&orderDir=desc", caller.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decodeJSON[listquery.Page[AccountResponse]](t, rec)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "caller", page.Data[0].Username)
	assert.Equal(t, "alphonse", page.Data[1].Username)

	rec = env.do(t, http.MethodGet, "/api/users?search=ALPH&limit=1&page=2&orderBy=username&orderDir=asc", caller.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decodeJSON[listquery.Page[AccountResponse]](t, rec)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "alphonse", page.Data[0].Username)

	rec = env.do(t, http.MethodGet, "/api/users?status=BANNED", caller.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoutesRequireIdentity(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/tasks", uuid.Nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
