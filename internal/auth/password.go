package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword rejects hashing of zero-length input.
var ErrEmptyPassword = errors.New("password must not be empty")

// HashPassword hashes a plaintext password with the configured cost. bcrypt
// generates a fresh random salt per call, so equal plaintexts never share a digest.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value using the salt
// embedded in the digest. The comparison is constant time and the call returns
// only once it has fully resolved; callers branch on the returned error, never
// on a pending result. A mismatch yields bcrypt.ErrMismatchedHashAndPassword.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
