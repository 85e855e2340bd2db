// Package auth abstracts credential verification so the login path does
// not care how credentials are stored.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Verifier compares a stored credential against a supplied one
type Verifier interface {
	Matches(stored, supplied string) (bool, error)
}

// PlainVerifier compares credentials by equality. This is the upstream
// behavior: passwords are stored as supplied.
type PlainVerifier struct{}

// Matches implements Verifier
func (PlainVerifier) Matches(stored, supplied string) (bool, error) {
	return stored == supplied, nil
}

// BcryptVerifier expects the stored credential to be a bcrypt hash. Swap
// it in for PlainVerifier without touching the mutation service.
type BcryptVerifier struct{}

// Matches implements Verifier
func (BcryptVerifier) Matches(stored, supplied string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// HashPassword produces a bcrypt hash for storage alongside BcryptVerifier
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
