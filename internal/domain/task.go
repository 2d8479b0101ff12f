package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTaskNameLength bounds the task name column.
const MaxTaskNameLength = 255

// Task is a single to-do item owned by exactly one account.
type Task struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTask creates an open task for owner.
func NewTask(ownerID uuid.UUID, name string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(name),
		Done:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks that the task has an owner and a usable name.
func (t *Task) Validate() error {
	var errs ValidationErrors

	if t.ID == uuid.Nil {
		errs = append(errs, NewValidationError("id", "cannot be empty", ErrInvalidID))
	}
	if t.OwnerID == uuid.Nil {
		errs = append(errs, NewValidationError("owner_id", "cannot be empty", ErrInvalidID))
	}
	if t.Name == "" {
		errs = append(errs, NewValidationError("name", "cannot be empty", nil))
	} else if utf8.RuneCountInString(t.Name) > MaxTaskNameLength {
		errs = append(errs, NewValidationError("name", "must be at most 255 characters", nil))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
