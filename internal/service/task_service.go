package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/listquery"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"github.com/phrazzld/taskr-api/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/phrazzld/taskr-api/internal/service")

// TaskService manages the tasks of a single owner. Every method takes the
// authenticated owner; tasks of other owners behave as if they did not exist.
type TaskService interface {
	ListTasks(ctx context.Context, ownerID uuid.UUID, params url.Values) (listquery.Page[*domain.Task], error)
	CreateTask(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Task, error)
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	RenameTask(ctx context.Context, ownerID, taskID uuid.UUID, name string) (*domain.Task, error)
	SetTaskDone(ctx context.Context, ownerID, taskID uuid.UUID, done bool) (*domain.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error
}

type taskServiceImpl struct {
	tasks    store.TaskStore
	resource listquery.Resource
	logger   *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(tasks store.TaskStore, pagination config.PaginationConfig, logger *slog.Logger) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		tasks:    tasks,
		resource: TaskResource(pagination),
		logger:   logger.With("component", "task_service"),
	}
}

func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// ListTasks implements TaskService.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	params url.Values,
) (listquery.Page[*domain.Task], error) {
	ctx, span := tracer.Start(ctx, "TaskService.ListTasks",
		trace.WithAttributes(attribute.String("owner_id", ownerID.String())))
	defer span.End()

	q, err := listquery.Build(params, ownerID, s.resource)
	if err != nil {
		span.RecordError(err)
		return listquery.Page[*domain.Task]{}, err
	}

	page, err := fetchPage[*domain.Task](ctx, s.tasks, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		s.log(ctx).Error("failed to list tasks", "error", err, "owner_id", ownerID)
		return listquery.Page[*domain.Task]{}, err
	}

	span.SetAttributes(attribute.Int("total", page.Total))
	return page, nil
}

// CreateTask implements TaskService.
func (s *taskServiceImpl) CreateTask(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.CreateTask")
	defer span.End()

	task, err := domain.NewTask(ownerID, name)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		span.RecordError(err)
		s.log(ctx).Error("failed to create task", "error", err, "owner_id", ownerID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.log(ctx).Info("task created", "task_id", task.ID, "owner_id", ownerID)
	return task, nil
}

// GetTask implements TaskService.
func (s *taskServiceImpl) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.GetTask")
	defer span.End()

	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		span.RecordError(err)
		s.logLookupFailure(ctx, "failed to get task", err, taskID)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// RenameTask implements TaskService.
func (s *taskServiceImpl) RenameTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	name string,
) (*domain.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.RenameTask")
	defer span.End()

	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		span.RecordError(err)
		s.logLookupFailure(ctx, "failed to get task for rename", err, taskID)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	renamed := *task
	renamed.Name = strings.TrimSpace(name)
	if err := renamed.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, &renamed); err != nil {
		span.RecordError(err)
		s.logLookupFailure(ctx, "failed to rename task", err, taskID)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &renamed, nil
}

// SetTaskDone implements TaskService.
func (s *taskServiceImpl) SetTaskDone(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	done bool,
) (*domain.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskService.SetTaskDone",
		trace.WithAttributes(attribute.Bool("done", done)))
	defer span.End()

	task, err := s.tasks.SetDone(ctx, ownerID, taskID, done)
	if err != nil {
		span.RecordError(err)
		s.logLookupFailure(ctx, "failed to set task done", err, taskID)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask implements TaskService.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "TaskService.DeleteTask")
	defer span.End()

	if err := s.tasks.Delete(ctx, ownerID, taskID); err != nil {
		span.RecordError(err)
		s.logLookupFailure(ctx, "failed to delete task", err, taskID)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.log(ctx).Info("task deleted", "task_id", taskID, "owner_id", ownerID)
	return nil
}

// logLookupFailure logs missing tasks at debug level and anything else as an error.
func (s *taskServiceImpl) logLookupFailure(ctx context.Context, msg string, err error, taskID uuid.UUID) {
	if errors.Is(err, store.ErrTaskNotFound) {
		s.log(ctx).Debug(msg, "error", err, "task_id", taskID)
		return
	}
	s.log(ctx).Error(msg, "error", err, "task_id", taskID)
}
