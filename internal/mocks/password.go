package mocks

import "errors"

// ErrPasswordMismatch is returned by MockPasswordHasher.Compare.
var ErrPasswordMismatch = errors.New("password mismatch")

const mockHashPrefix = "mock-hash:"

// MockPasswordHasher is a fast, reversible stand-in for bcrypt.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

// Hash implements auth.PasswordHasher
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return mockHashPrefix + password, nil
}

// Compare implements auth.PasswordVerifier
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword != mockHashPrefix+password {
		return ErrPasswordMismatch
	}
	return nil
}
