package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

// Possible account status values.
const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

// Username and password bounds.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores anything longer
)

// AccountStatuses lists every valid status.
var AccountStatuses = []AccountStatus{AccountStatusActive, AccountStatusInactive}

// Valid reports whether s is a member of the status enumeration.
func (s AccountStatus) Valid() bool {
	return s == AccountStatusActive || s == AccountStatusInactive
}

// ParseAccountStatus converts caller input into an AccountStatus.
// The match is exact: "active" is not a valid status.
func ParseAccountStatus(raw string) (AccountStatus, error) {
	if raw == "" {
		return "", NewValidationError("status", "is required", ErrStatusRequired)
	}
	status := AccountStatus(raw)
	if !status.Valid() {
		return "", NewValidationError(
			"status",
			"must be "+string(AccountStatusActive)+" or "+string(AccountStatusInactive),
			ErrInvalidStatus,
		)
	}
	return status, nil
}

// CheckTransition validates moving an account from one status to another.
// Both ACTIVE->INACTIVE and INACTIVE->ACTIVE are allowed; moving to the
// current status yields ErrStatusUnchanged.
func CheckTransition(from, to AccountStatus) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	if from == to {
		return ErrStatusUnchanged
	}
	return nil
}

// Account is a registered user of the task tracker.
type Account struct {
	ID             uuid.UUID     `json:"id"`
	Username       string        `json:"username"`
	Password       string        `json:"-"` // plaintext, only set during registration or password change
	HashedPassword string        `json:"-"`
	Status         AccountStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewAccount creates an ACTIVE account with a fresh ID. The caller hashes the
// password before the account is stored.
func NewAccount(username, password string) (*Account, error) {
	now := time.Now().UTC()
	account := &Account{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(username),
		Password:  password,
		Status:    AccountStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks the account fields and reports every violation.
func (a *Account) Validate() error {
	var errs ValidationErrors

	if a.ID == uuid.Nil {
		errs = append(errs, NewValidationError("id", "cannot be empty", ErrInvalidID))
	}

	if n := utf8.RuneCountInString(a.Username); n < MinUsernameLength || n > MaxUsernameLength {
		errs = append(errs, NewValidationError("username", "must be between 3 and 50 characters", nil))
	}

	if a.Password != "" {
		if n := len(a.Password); n < MinPasswordLength || n > MaxPasswordLength {
			errs = append(errs, NewValidationError("password", "must be between 8 and 72 characters", nil))
		}
	} else if a.HashedPassword == "" {
		errs = append(errs, NewValidationError("password", "cannot be empty", nil))
	}

	if !a.Status.Valid() {
		errs = append(errs, NewValidationError("status", "is not a known status", ErrInvalidStatus))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsActive reports whether the account may authenticate.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// TransitionTo moves the account to target, applying CheckTransition.
func (a *Account) TransitionTo(target AccountStatus) error {
	if err := CheckTransition(a.Status, target); err != nil {
		return err
	}
	a.Status = target
	a.UpdatedAt = time.Now().UTC()
	return nil
}
