// Package auth — password hashing.
//
// WHY BCRYPT?
// bcrypt is a password hashing function designed to be slow, and that
// slowness is the security feature: it makes brute-forcing a leaked hash
// expensive. It also generates a random salt per hash and embeds salt and
// cost inside the output string, so no separate salt column is needed.
//
// NEVER store passwords in plain text or behind fast hashes (MD5, SHA-256);
// those fall to GPU rigs in minutes. bcrypt at cost 12 takes ~250ms —
// negligible for a login, brutal for an attacker.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor (2^cost rounds). Cost 12 is the
// recommended minimum for new applications; tune it so hashing takes
// roughly 200–300ms on production hardware.
const defaultCost = 12

// ErrPasswordMismatch is returned by Verify when the plaintext does not
// match the stored hash. A mismatch is an expected outcome — it is an
// error value, never a panic.
var ErrPasswordMismatch = errors.New("auth: password mismatch")

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can be injected: tests use
// the minimum cost 4 and run in milliseconds instead of ~250ms per hash.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with a custom cost.
// Intended for tests — do NOT lower the cost in production.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash derives a bcrypt hash from the plaintext password.
//
// The output is self-contained ($2a$12$<salt><hash>) and goes straight
// into the password_hash column. Fails only on a library/resource error —
// or on input over 72 bytes, which bcrypt would otherwise silently
// truncate; we reject it so callers aren't surprised.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext password against a stored bcrypt hash.
// Returns nil on match and ErrPasswordMismatch otherwise — a wrong
// password is a normal outcome, not an exceptional one.
//
// bcrypt.CompareHashAndPassword compares in constant time internally, so
// response timing reveals nothing about how close the guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		// Malformed hash, unsupported version, etc. Still reported as a
		// mismatch to callers that only check with errors.Is, but the
		// underlying cause is preserved for logs.
		return fmt.Errorf("%w: %w", ErrPasswordMismatch, err)
	}
	return nil
}
