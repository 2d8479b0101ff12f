package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	account, err := NewAccount("  alice  ", "correct-horse")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, AccountStatusActive, account.Status)
	assert.False(t, account.CreatedAt.IsZero())
	assert.Equal(t, account.CreatedAt, account.UpdatedAt)
}

func TestNewAccountCollectsAllViolations(t *testing.T) {
	_, err := NewAccount("al", "short")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
	assert.Equal(t, "username", verrs[0].Field)
	assert.Equal(t, "password", verrs[1].Field)
}

func TestAccountValidateStoredAccount(t *testing.T) {
	account := Account{
		ID:             uuid.New(),
		Username:       "bob",
		HashedPassword: "$2a$10$hash",
		Status:         AccountStatusInactive,
	}
	assert.NoError(t, account.Validate())

	account.HashedPassword = ""
	assert.Error(t, account.Validate())

	account.HashedPassword = "$2a$10$hash"
	account.Username = strings.Repeat("x", MaxUsernameLength+1)
	assert.Error(t, account.Validate())
}

func TestParseAccountStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    AccountStatus
		wantErr error
	}{
		{"ACTIVE", AccountStatusActive, nil},
		{"INACTIVE", AccountStatusInactive, nil},
		{"", "", ErrStatusRequired},
		{"active", "", ErrInvalidStatus},
		{"DELETED", "", ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAccountStatus(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    AccountStatus
		to      AccountStatus
		wantErr error
	}{
		{"deactivate", AccountStatusActive, AccountStatusInactive, nil},
		{"activate", AccountStatusInactive, AccountStatusActive, nil},
		{"active to active", AccountStatusActive, AccountStatusActive, ErrStatusUnchanged},
		{"inactive to inactive", AccountStatusInactive, AccountStatusInactive, ErrStatusUnchanged},
		{"unknown target", AccountStatusActive, AccountStatus("BANNED"), ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTransition(tt.from, tt.to)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAccountTransitionTo(t *testing.T) {
	account, err := NewAccount("carol", "long-enough-password")
	require.NoError(t, err)
	before := account.UpdatedAt

	require.NoError(t, account.TransitionTo(AccountStatusInactive))
	assert.Equal(t, AccountStatusInactive, account.Status)
	assert.False(t, account.IsActive())
	assert.False(t, account.UpdatedAt.Before(before))

	err = account.TransitionTo(AccountStatusInactive)
	assert.ErrorIs(t, err, ErrStatusUnchanged)
	assert.Equal(t, AccountStatusInactive, account.Status)
}
