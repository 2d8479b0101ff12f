package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskr-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskr-api/internal/api/middleware"
	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/platform/metrics"
)

// setupRouter registers every route with its gates.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.CORS(app.config.Server.CORSAllowedOrigin))
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.Metrics(app.metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(app.config.Server.RequestTimeoutSeconds) * time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	authHandler := api.NewAuthHandler(app.accountService, app.jwtService, app.logger)
	accountHandler := api.NewAccountHandler(app.accountService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	path := apiMiddleware.Validate[api.IDPath](apiMiddleware.TargetPath)

	r.Route("/api", func(r chi.Router) {
		r.With(app.loginLimiter.Middleware, apiMiddleware.Validate[api.LoginRequest](apiMiddleware.TargetBody)).
			Post("/login", authHandler.Login)
		r.With(apiMiddleware.Validate[api.RegisterRequest](apiMiddleware.TargetBody)).
			Post("/users", accountHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/users", accountHandler.List)
			r.With(path).Get("/users/{id}", accountHandler.Get)
			r.With(path, apiMiddleware.Validate[api.UpdateAccountRequest](apiMiddleware.TargetBody)).
				Put("/users/{id}", accountHandler.Update)
			r.With(path).Delete("/users/{id}", accountHandler.Delete)
			r.With(path, apiMiddleware.Validate[api.StatusRequest](apiMiddleware.TargetBody)).
				Patch("/users/{id}/status", accountHandler.ChangeStatus)

			r.Get("/tasks", taskHandler.List)
			r.With(apiMiddleware.Validate[api.TaskRequest](apiMiddleware.TargetBody)).
				Post("/tasks", taskHandler.Create)
			r.With(path).Get("/tasks/{id}", taskHandler.Get)
			r.With(path, apiMiddleware.Validate[api.TaskRequest](apiMiddleware.TargetBody)).
				Put("/tasks/{id}", taskHandler.Update)
			r.With(path, apiMiddleware.Validate[api.DoneRequest](apiMiddleware.TargetBody)).
				Patch("/tasks/{id}/done", taskHandler.SetDone)
			r.With(path).Delete("/tasks/{id}", taskHandler.Delete)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(app.registry))

	return r
}
