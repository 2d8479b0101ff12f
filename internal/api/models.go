package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/listquery"
)

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
}

// AuthResponse defines the successful login response.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
	// ExpiresAt is the RFC 3339 expiry of Token.
	ExpiresAt string `json:"expires_at"`
}

// RegisterRequest defines the payload for account registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateAccountRequest changes the username and/or password.
type UpdateAccountRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

// StatusRequest is the target of an account status change.
type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

// TaskRequest creates or renames a task.
type TaskRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// DoneRequest marks a task done or open. Done is a pointer so that an
// explicit false is distinguishable from a missing field.
type DoneRequest struct {
	Done *bool `json:"done" validate:"required"`
}

// IDPath is the path schema of every /{id} route.
type IDPath struct {
	ID string `path:"id" validate:"required,uuid"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func accountToResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Name:      t.Name,
		Done:      t.Done,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// mapPage converts the items of a page while keeping its counters.
func mapPage[T, R any](p listquery.Page[T], convert func(T) R) listquery.Page[R] {
	data := make([]R, 0, len(p.Data))
	for _, item := range p.Data {
		data = append(data, convert(item))
	}
	return listquery.Page[R]{
		Total: p.Total,
		Page:  p.Page,
		Pages: p.Pages,
		Data:  data,
	}
}
