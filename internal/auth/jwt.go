// Package auth provides JWT issuing/verification, bcrypt password hashing,
// and the bearer-token middleware that gates protected routes.
//
// AUTHENTICATION FLOW:
//  1. POST /api/usuarios — register with nome/email/senha (senha is bcrypt-hashed)
//  2. POST /api/login — exchange email/senha for a signed JWT
//  3. Protected calls send "Authorization: Bearer <token>"
//  4. Middleware validates the token and puts the userID in the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server stores no session data.
// Everything needed (userID, expiry) is inside the signed token, and the
// HMAC signature guarantees nobody can alter it without the secret key.
// Verifying a token needs no database lookup, just the key.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token lifetime. After an hour the client must log in again.
const tokenTTL = time.Hour

// Sentinel errors for the two verification outcomes the HTTP gate has to
// tell apart. Both map to 403, but expiry is reported with its own message
// and is worth distinguishing in logs.
var (
	ErrTokenExpired = errors.New("auth: token expired")
	ErrTokenInvalid = errors.New("auth: token invalid")
)

// TokenService issues and verifies HS256-signed JWTs.
//
// It holds the process-wide signing key. The key is read from configuration
// exactly once at startup and lives only inside this value — it is never
// logged and never exposed through any accessor. Both signing and
// verification use the same key (HMAC is symmetric).
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. JWT_SECRET=$(openssl rand -hex 32). Short secrets are rejected
// outright — an HMAC key shorter than 16 bytes is trivially brute-forced.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. jwt.RegisteredClaims provides the standard
// fields; we use "sub" (Subject) for the user ID and "exp" for expiry.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a JWT for the given userID, valid for one hour.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and the right
// choice for a single-service deployment where issuer and verifier share
// one key. The output is deterministic for a fixed payload, key and clock;
// in practice IssuedAt changes every second, so tokens differ run to run.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, tokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Mostly for tests: a negative duration yields an already-expired token
// with a perfectly valid signature.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "blog-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string, returning the userID stored
// in the "sub" claim.
//
// The jwt library checks: signature, expiry, issuer, and — via
// WithValidMethods — that the algorithm really is HS256. Without that last
// check an attacker could attempt an algorithm-confusion attack (e.g. a
// token claiming alg "none").
//
// Error contract:
//   - ErrTokenExpired — signature fine, "exp" in the past
//   - ErrTokenInvalid — anything else: garbage input, bad signature,
//     wrong issuer, missing subject
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("blog-api"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("%w: bad claims", ErrTokenInvalid)
	}

	if c.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrTokenInvalid)
	}

	return c.Subject, nil
}
