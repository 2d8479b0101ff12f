package service

import (
	"context"
	"database/sql"
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
	"github.com/phrazzld/taskr-api/internal/service/auth"
	"github.com/phrazzld/taskr-api/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	auth.PasswordHasher
	auth.PasswordVerifier
}

// AccountService manages accounts and their lifecycle.
type AccountService interface {
	// Register creates an ACTIVE account. Returns store.ErrUsernameExists if
	// the username is taken.
	Register(ctx context.Context, username, password string) (*domain.Account, error)

	// Authenticate checks a username/password pair. Unknown usernames, wrong
	// passwords and inactive accounts all yield auth.ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (*domain.Account, error)

	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListAccounts(ctx context.Context, params url.Values) (listquery.Page[*domain.Account], error)

	// UpdateAccount changes the username and/or password. At least one must
	// be non-nil.
	UpdateAccount(ctx context.Context, id uuid.UUID, username, password *string) (*domain.Account, error)

	// ChangeStatus moves the account to the given status. A missing account
	// is reported before the status is compared; moving to the current
	// status yields domain.ErrStatusUnchanged.
	ChangeStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error)

	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type accountServiceImpl struct {
	accounts store.AccountStore
	db       store.TxBeginner
	hasher   PasswordHasher
	resource listquery.Resource
	metrics  Metrics
	logger   *slog.Logger
}

// AccountServiceOption customizes NewAccountService.
type AccountServiceOption func(*accountServiceImpl)

// WithMetrics reports logins and status changes to m.
func WithMetrics(m Metrics) AccountServiceOption {
	return func(s *accountServiceImpl) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewAccountService creates an AccountService. db is used to run multi-step
// updates in a transaction.
func NewAccountService(
	accounts store.AccountStore,
	db store.TxBeginner,
	hasher PasswordHasher,
	pagination config.PaginationConfig,
	logger *slog.Logger,
	opts ...AccountServiceOption,
) AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &accountServiceImpl{
		accounts: accounts,
		db:       db,
		hasher:   hasher,
		resource: AccountResource(pagination),
		metrics:  noopMetrics{},
		logger:   logger.With("component", "account_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *accountServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// Register implements AccountService.
func (s *accountServiceImpl) Register(ctx context.Context, username, password string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "AccountService.Register")
	defer span.End()

	account, err := domain.NewAccount(username, password)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		span.RecordError(err)
		s.log(ctx).Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to register account: %w", err)
	}
	account.HashedPassword = hash
	account.Password = ""

	if err := s.accounts.Create(ctx, account); err != nil {
		span.RecordError(err)
		if errors.Is(err, store.ErrUsernameExists) {
			s.log(ctx).Debug("username already registered", "username", account.Username)
		} else {
			s.log(ctx).Error("failed to save account", "error", err)
		}
		return nil, fmt.Errorf("failed to register account: %w", err)
	}

	s.log(ctx).Info("account registered", "account_id", account.ID)
	return account, nil
}

// Authenticate implements AccountService.
func (s *accountServiceImpl) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "AccountService.Authenticate")
	defer span.End()

	account, err := s.accounts.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			s.log(ctx).Debug("login for unknown username")
			s.metrics.ObserveLogin(OutcomeRejected)
			return nil, auth.ErrInvalidCredentials
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "account lookup failed")
		s.log(ctx).Error("failed to look up account for login", "error", err)
		s.metrics.ObserveLogin(OutcomeError)
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := s.hasher.Compare(account.HashedPassword, password); err != nil {
		s.log(ctx).Debug("login with wrong password", "account_id", account.ID)
		s.metrics.ObserveLogin(OutcomeRejected)
		return nil, auth.ErrInvalidCredentials
	}

	if !account.IsActive() {
		s.log(ctx).Info("login for inactive account rejected", "account_id", account.ID)
		s.metrics.ObserveLogin(OutcomeRejected)
		return nil, auth.ErrInvalidCredentials
	}

	s.metrics.ObserveLogin(OutcomeSuccess)
	return account, nil
}

// GetAccount implements AccountService.
func (s *accountServiceImpl) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "AccountService.GetAccount")
	defer span.End()

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		s.logLookupFailure(ctx, "failed to get account", err, id)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// ListAccounts implements AccountService.
func (s *accountServiceImpl) ListAccounts(
	ctx context.Context,
	params url.Values,
) (listquery.Page[*domain.Account], error) {
	ctx, span := tracer.Start(ctx, "AccountService.ListAccounts")
	defer span.End()

	q, err := listquery.Build(params, uuid.Nil, s.resource)
	if err != nil {
		span.RecordError(err)
		return listquery.Page[*domain.Account]{}, err
	}

	page, err := fetchPage[*domain.Account](ctx, s.accounts, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		s.log(ctx).Error("failed to list accounts", "error", err)
		return listquery.Page[*domain.Account]{}, err
	}

	span.SetAttributes(attribute.Int("total", page.Total))
	return page, nil
}

// UpdateAccount implements AccountService. The read and write run in one
// transaction so a concurrent update cannot be lost between them.
func (s *accountServiceImpl) UpdateAccount(
	ctx context.Context,
	id uuid.UUID,
	username, password *string,
) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "AccountService.UpdateAccount")
	defer span.End()

	if username == nil && password == nil {
		return nil, ErrNothingToUpdate
	}

	var updated *domain.Account
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.accounts.WithTx(tx)

		account, err := txStore.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get account for update: %w", err)
		}

		if username != nil {
			account.Username = strings.TrimSpace(*username)
		}
		if password != nil {
			account.Password = *password
		}
		if err := account.Validate(); err != nil {
			return err
		}
		if password != nil {
			hash, err := s.hasher.Hash(*password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			account.HashedPassword = hash
			account.Password = ""
		}

		if err := txStore.Update(ctx, account); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		updated = account
		return nil
	})
	if err != nil {
		span.RecordError(err)
		s.logLookupFailure(ctx, "failed to update account", err, id)
		return nil, err
	}

	s.log(ctx).Info("account updated", "account_id", id)
	return updated, nil
}

// ChangeStatus implements AccountService.
func (s *accountServiceImpl) ChangeStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.AccountStatus,
) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "AccountService.ChangeStatus",
		trace.WithAttributes(attribute.String("target_status", string(status))))
	defer span.End()

	if !status.Valid() {
		s.metrics.ObserveStatusChange(status, OutcomeRejected)
		return nil, domain.NewValidationError("status",
			"must be "+string(domain.AccountStatusActive)+" or "+string(domain.AccountStatusInactive),
			domain.ErrInvalidStatus)
	}

	account, err := s.accounts.UpdateStatus(ctx, id, status)
	switch {
	case err == nil:
		s.metrics.ObserveStatusChange(status, OutcomeSuccess)
		s.log(ctx).Info("account status changed", "account_id", id, "status", status)
		return account, nil
	case errors.Is(err, domain.ErrStatusUnchanged):
		s.metrics.ObserveStatusChange(status, OutcomeConflict)
		s.log(ctx).Debug("account already has status", "account_id", id, "status", status)
		return nil, err
	case errors.Is(err, store.ErrAccountNotFound):
		s.metrics.ObserveStatusChange(status, OutcomeNotFound)
		return nil, fmt.Errorf("failed to change account status: %w", err)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "status update failed")
		s.metrics.ObserveStatusChange(status, OutcomeError)
		s.log(ctx).Error("failed to change account status", "error", err, "account_id", id)
		return nil, fmt.Errorf("failed to change account status: %w", err)
	}
}

// DeleteAccount implements AccountService. The account's tasks are removed
// with it.
func (s *accountServiceImpl) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "AccountService.DeleteAccount")
	defer span.End()

	if err := s.accounts.Delete(ctx, id); err != nil {
		span.RecordError(err)
		s.logLookupFailure(ctx, "failed to delete account", err, id)
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.log(ctx).Info("account deleted", "account_id", id)
	return nil
}

func (s *accountServiceImpl) logLookupFailure(ctx context.Context, msg string, err error, id uuid.UUID) {
	if errors.Is(err, store.ErrAccountNotFound) || errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, store.ErrUsernameExists) {
		s.log(ctx).Debug(msg, "error", err, "account_id", id)
		return
	}
	s.log(ctx).Error(msg, "error", err, "account_id", id)
}
