package service_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/listquery"
	"github.com/phrazzld/taskr-api/internal/mocks"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPagination = config.PaginationConfig{TaskDefaultLimit: 10, UserDefaultLimit: 10, MaxLimit: 100}

func newTaskService(t *testing.T) (service.TaskService, *mocks.MockTaskStore) {
	t.Helper()
	tasks := mocks.NewMockTaskStore()
	return service.NewTaskService(tasks, testPagination, nil), tasks
}

func TestTaskService_CreateAndSearchByOwner(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	created, err := svc.CreateTask(ctx, owner, "  buy milk  ")
	require.NoError(t, err)
	assert.Equal(t, "buy milk", created.Name)
	assert.False(t, created.Done)

	page, err := svc.ListTasks(ctx, owner, url.Values{"search": {"milk"}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, created.ID, page.Data[0].ID)

	page, err = svc.ListTasks(ctx, other, url.Values{"search": {"milk"}, "ownerId": {owner.String()}})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.Pages)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}

func TestTaskService_ListTasks_Paging(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	ctx := context.Background()
	owner := uuid.New()

	for i := 0; i < 25; i++ {
		_, err := svc.CreateTask(ctx, owner, "task")
		require.NoError(t, err)
	}

	page, err := svc.ListTasks(ctx, owner, url.Values{"page": {"0"}, "limit": {"abc"}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.Pages)

	page, err = svc.ListTasks(ctx, owner, url.Values{"page": {"3"}, "limit": {"10"}})
	require.NoError(t, err)
	assert.Len(t, page.Data, 5)
}

func TestTaskService_ListTasks_InvalidParams(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)

	_, err := svc.ListTasks(context.Background(), uuid.New(), url.Values{"orderBy": {"owner_id"}, "orderDir": {"ASC"}})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, listquery.ErrInvalidParam)
}

func TestTaskService_ListTasks_StoreFailure(t *testing.T) {
	t.Parallel()

	svc, tasks := newTaskService(t)
	dbErr := errors.New("connection refused")
	tasks.CountFn = func(ctx context.Context, q listquery.Query) (int, error) {
		return 0, dbErr
	}

	_, err := svc.ListTasks(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, service.ErrListFailed)
	assert.ErrorIs(t, err, dbErr)
}

func TestTaskService_OwnerScopedOperations(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskService(t)
	ctx := context.Background()
	owner, intruder := uuid.New(), uuid.New()

	task, err := svc.CreateTask(ctx, owner, "walk dog")
	require.NoError(t, err)

	_, err = svc.GetTask(ctx, intruder, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	_, err = svc.RenameTask(ctx, intruder, task.ID, "mine now")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	_, err = svc.SetTaskDone(ctx, intruder, task.ID, true)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.ErrorIs(t, svc.DeleteTask(ctx, intruder, task.ID), store.ErrTaskNotFound)

	renamed, err := svc.RenameTask(ctx, owner, task.ID, "walk the dog")
	require.NoError(t, err)
	assert.Equal(t, "walk the dog", renamed.Name)

	done, err := svc.SetTaskDone(ctx, owner, task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Done)

	require.NoError(t, svc.DeleteTask(ctx, owner, task.ID))
	_, err = svc.GetTask(ctx, owner, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_CreateTask_Invalid(t *testing.T) {
	t.Parallel()

	svc, tasks := newTaskService(t)

	_, err := svc.CreateTask(context.Background(), uuid.New(), "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, tasks.Len())
}
