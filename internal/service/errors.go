package service

import (
	"errors"

	"github.com/phrazzld/taskr-api/internal/domain"
)

// ErrNothingToUpdate is returned by UpdateAccount when neither a username
// nor a password is supplied.
var ErrNothingToUpdate = domain.NewValidationError("", "username or password is required", nil)

// ErrListFailed wraps any failure while reading a page of results. The API
// layer reports it as an internal error.
var ErrListFailed = errors.New("failed to list resources")
