package service_test

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskr-api/internal/domain"
	"github.com/phrazzld/taskr-api/internal/mocks"
	"github.com/phrazzld/taskr-api/internal/service"
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMetrics struct {
	mu            sync.Mutex
	logins        []string
	statusChanges []string
}

func (r *recordedMetrics) ObserveLogin(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins = append(r.logins, outcome)
}

func (r *recordedMetrics) ObserveStatusChange(target domain.AccountStatus, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusChanges = append(r.statusChanges, string(target)+":"+outcome)
}

type accountFixture struct {
	svc      service.AccountService
	accounts *mocks.MockAccountStore
	db       *mocks.MockDB
	metrics  *recordedMetrics
}

func newAccountFixture(t *testing.T) accountFixture {
	t.Helper()
	f := accountFixture{
		accounts: mocks.NewMockAccountStore(),
		db:       mocks.NewMockDB(),
		metrics:  &recordedMetrics{},
	}
	t.Cleanup(func() { _ = f.db.Close() })
	f.svc = service.NewAccountService(f.accounts, f.db, &mocks.MockPasswordHasher{}, testPagination, nil,
		service.WithMetrics(f.metrics))
	return f
}

func TestAccountService_Register(t *testing.T) {
	t.Parallel()

	f := newAccountFixture(t)
	ctx := context.Background()

	account, err := f.svc.Register(ctx, " alice ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, domain.AccountStatusActive, account.Status)
	assert.Empty(t, account.Password)
	assert.NotEqual(t, "password123", account.HashedPassword)

	_, err = f.svc.Register(ctx, "ALICE", "password123")
	assert.ErrorIs(t, err, store.ErrUsernameExists)

	_, err = f.svc.Register(ctx, "al", "short")
	assert.ErrorIs(t, err, domain.ErrValidation)
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestAccountService_Authenticate(t *testing.T) {
	t.Parallel()

	f := newAccountFixture(t)
	ctx := context.Background()

	account, err := f.svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)

	got, err := f.svc.Authenticate(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = f.svc.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.Authenticate(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.ChangeStatus(ctx, account.ID, domain.AccountStatusInactive)
	require.NoError(t, err)
	_, err = f.svc.Authenticate(ctx, "alice", "password123")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	assert.Equal(t, []string{"success", "rejected", "rejected", "rejected"}, f.metrics.logins)
}

func TestAccountService_ChangeStatus(t *testing.T) {
	t.Parallel()

	f := newAccountFixture(t)
	ctx := context.Background()

	account, err := f.svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)

	_, err = f.svc.ChangeStatus(ctx, account.ID, domain.AccountStatusActive)
	assert.ErrorIs(t, err, domain.ErrStatusUnchanged)

	updated, err := f.svc.ChangeStatus(ctx, account.ID, domain.AccountStatusInactive)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusInactive, updated.Status)

	_, err = f.svc.ChangeStatus(ctx, account.ID, domain.AccountStatusInactive)
	assert.ErrorIs(t, err, domain.ErrStatusUnchanged)

	_, err = f.svc.ChangeStatus(ctx, uuid.New(), domain.AccountStatusInactive)
	assert.ErrorIs(t, err, store.ErrAccountNotFound)

	_, err = f.svc.ChangeStatus(ctx, account.ID, "DISABLED")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, []string{
		"ACTIVE:conflict",
		"INACTIVE:success",
		"INACTIVE:conflict",
		"INACTIVE:not_found",
		"DISABLED:rejected",
	}, f.metrics.statusChanges)
}

func TestAccountService_ChangeStatus_ConcurrentSameTarget(t *testing.T) {
	t.Parallel()

	f := newAccountFixture(t)
	ctx := context.Background()
	account, err := f.svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.ChangeStatus(ctx, account.ID, domain.AccountStatusInactive)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, domain.ErrStatusUnchanged):
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestAccountService_UpdateAccount(t *testing.T) {
	t.Parallel()

	f := newAccountFixture(t)
	ctx := context.Background()

	alice, err := f.svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, "bob", "password123")
	require.NoError(t, err)

	_, err = f.svc.UpdateAccount(ctx, alice.ID, nil, nil)
	assert.ErrorIs(t, err, service.ErrNothingToUpdate)
	assert.ErrorIs(t, err, domain.ErrValidation)

	newName := "alice2"
	updated, err := f.svc.UpdateAccount(ctx, alice.ID, &newName, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)

	newPassword := "new-password-456"
	_, err = f.svc.UpdateAccount(ctx, alice.ID, nil, &newPassword)
	require.NoError(t, err)
	_, err = f.svc.Authenticate(ctx, "alice2", newPassword)
	assert.NoError(t, err)

	taken := "bob"
	_, err = f.svc.UpdateAccount(ctx, alice.ID, &taken, nil)
	assert.ErrorIs(t, err, store.ErrUsernameExists)

	_, err = f.svc.UpdateAccount(ctx, uuid.New(), &newName, nil)
	assert.ErrorIs(t, err, store.ErrAccountNotFound)

	assert.Equal(t, 4, f.db.Begun())
}

func TestAccountService_ListAccounts(t *testing.T) {
	t.Parallel()

	f := newAccountFixture(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := f.svc.Register(ctx, name, "password123")
		require.NoError(t, err)
	}
	bob, err := f.accounts.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	_, err = f.svc.ChangeStatus(ctx, bob.ID, domain.AccountStatusInactive)
	require.NoError(t, err)

	page, err := f.svc.ListAccounts(ctx, url.Values{"status": {"ACTIVE"}, "orderBy": {"username"}, "orderDir": {"desc"}})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "carol", page.Data[0].Username)
	assert.Equal(t, "alice", page.Data[1].Username)

	_, err = f.svc.ListAccounts(ctx, url.Values{"status": {"active"}})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestAccountService_DeleteAccount(t *testing.T) {
	t.Parallel()

	f := newAccountFixture(t)
	ctx := context.Background()
	tasks := mocks.NewMockTaskStore()
	f.accounts.Tasks = tasks
	taskSvc := service.NewTaskService(tasks, testPagination, nil)

	account, err := f.svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)
	_, err = taskSvc.CreateTask(ctx, account.ID, "buy milk")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteAccount(ctx, account.ID))
	assert.Equal(t, 0, tasks.Len())
	assert.ErrorIs(t, f.svc.DeleteAccount(ctx, account.ID), store.ErrAccountNotFound)
}
