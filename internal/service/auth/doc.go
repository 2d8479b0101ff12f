// Package auth implements the credential codec (signed, expiring bearer
// tokens) and password hashing used by the authentication endpoints and the
// authentication middleware.
package auth
