package auth

import "errors"

// Token and credential errors. The HTTP layer maps all of them to 401.
var (
	// ErrInvalidToken covers malformed tokens, foreign signatures, unexpected
	// algorithms and unusable claims.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken is returned once the exp claim has passed.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken is returned when no bearer token accompanies the request.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials is shared by unknown usernames, wrong passwords
	// and inactive accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
