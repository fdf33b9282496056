package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned by ComparePassword when the supplied
// password does not match the stored hash.
var ErrPasswordMismatch = errors.New("password does not match")

// DefaultBcryptCost mirrors the cost factor the original deployment used.
const DefaultBcryptCost = 10

// HashPassword derives a one-way bcrypt hash of the given plaintext password.
// A cost of 0 (or anything below bcrypt.MinCost) falls back to DefaultBcryptCost.
func HashPassword(plaintext string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash failed: %w", err)
	}
	return string(hashed), nil
}

// ComparePassword checks a plaintext password against a stored bcrypt hash.
// It returns ErrPasswordMismatch on mismatch so callers can branch with
// errors.Is without inspecting bcrypt internals.
func ComparePassword(hashed, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("bcrypt compare failed: %w", err)
	}
	return nil
}
