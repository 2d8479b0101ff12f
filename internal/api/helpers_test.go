package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/api/middleware"
	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/phrazzld/taskr-api/internal/mocks"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/stretchr/testify/require"
)

var testPagination = config.PaginationConfig{TaskDefaultLimit: 10, UserDefaultLimit: 10, MaxLimit: 100}

type testEnv struct {
	accounts *mocks.MockAccountStore
	tasks    *mocks.MockTaskStore
	db       *mocks.MockDB
	jwt      *mocks.MockJWTService
	router   http.Handler
}

// newTestEnv wires handlers over in-memory stores. Authentication is
// simulated with the X-Test-User header so handler tests stay independent
// of the token codec.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		accounts: mocks.NewMockAccountStore(),
		tasks:    mocks.NewMockTaskStore(),
		db:       mocks.NewMockDB(),
		jwt:      &mocks.MockJWTService{},
	}
	env.accounts.Tasks = env.tasks
	t.Cleanup(func() { _ = env.db.Close() })

	log := slog.New(slog.DiscardHandler)
	accountSvc := service.NewAccountService(env.accounts, env.db, &mocks.MockPasswordHasher{}, testPagination, log)
	taskSvc := service.NewTaskService(env.tasks, testPagination, log)

	authHandler := NewAuthHandler(accountSvc, env.jwt, log)
	accountHandler := NewAccountHandler(accountSvc, log)
	taskHandler := NewTaskHandler(taskSvc, log)

	body := func(h http.HandlerFunc, validators ...func(http.Handler) http.Handler) http.Handler {
		return chi.Chain(validators...).HandlerFunc(h)
	}
	path := middleware.Validate[IDPath](middleware.TargetPath)

	r := chi.NewRouter()
	r.Method(http.MethodPost, "/api/login", body(authHandler.Login, middleware.Validate[LoginRequest](middleware.TargetBody)))
	r.Method(http.MethodPost, "/api/users", body(accountHandler.Register, middleware.Validate[RegisterRequest](middleware.TargetBody)))
	r.Group(func(r chi.Router) {
		r.Use(fakeAuth)
		r.Get("/api/users", accountHandler.List)
		r.With(path).Get("/api/users/{id}", accountHandler.Get)
		r.With(path, middleware.Validate[UpdateAccountRequest](middleware.TargetBody)).Put("/api/users/{id}", accountHandler.Update)
		r.With(path).Delete("/api/users/{id}", accountHandler.Delete)
		r.With(path, middleware.Validate[StatusRequest](middleware.TargetBody)).Patch("/api/users/{id}/status", accountHandler.ChangeStatus)

		r.Get("/api/tasks", taskHandler.List)
		r.With(middleware.Validate[TaskRequest](middleware.TargetBody)).Post("/api/tasks", taskHandler.Create)
		r.With(path).Get("/api/tasks/{id}", taskHandler.Get)
		r.With(path, middleware.Validate[TaskRequest](middleware.TargetBody)).Put("/api/tasks/{id}", taskHandler.Update)
		r.With(path, middleware.Validate[DoneRequest](middleware.TargetBody)).Patch("/api/tasks/{id}/done", taskHandler.SetDone)
		r.With(path).Delete("/api/tasks/{id}", taskHandler.Delete)
	})
	env.router = r

	return env
}

const testUserHeader = "X-Test-User"

func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := uuid.Parse(r.Header.Get(testUserHeader)); err == nil {
			r = r.WithContext(shared.WithUserID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func (e *testEnv) do(t *testing.T, method, target string, user uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != uuid.Nil {
		req.Header.Set(testUserHeader, user.String())
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}
