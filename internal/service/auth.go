// Package service contains the business logic layer.
//
// THE THREE-LAYER SPLIT:
//
//	Handler (HTTP)       → parses requests, writes responses
//	Service (rules)      → validates, enforces policy, orchestrates
//	Repository (storage) → reads/writes the database
//
// Services accept primitives and return domain errors — no *http.Request,
// no status codes. The handler translates both directions. Services also
// depend on repository INTERFACES, not on the sqlite package, so tests
// substitute in-memory mocks.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amferraz/blog-api/internal/apperror"
	"github.com/amferraz/blog-api/internal/auth"
	"github.com/amferraz/blog-api/internal/model"
	"github.com/amferraz/blog-api/internal/repository"
	"github.com/amferraz/blog-api/internal/validate"
)

// AuthService owns the credential lifecycle: registration, password login,
// GitHub login, and profile lookup.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService wires an AuthService. Called from the composition root.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register validates a registration payload, hashes the password, and
// stores the new account.
//
// Error contract:
//   - apperror.ErrValidation — a payload rule failed (first rule only)
//   - apperror.ErrConflict   — the email is already registered (the store's
//     UNIQUE constraint is the enforcer; there is no check-then-insert race)
//
// A hashing failure is treated as fatal for the request and propagates as
// an unwrapped internal error — the client sees a generic 500.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if err := validate.Registration(name, email, password); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))

	return user, nil
}

// Login verifies email/password credentials and issues a bearer token.
//
// DELIBERATELY GENERIC FAILURE:
// Unknown email and wrong password both return the exact same
// apperror.Unauthorized message. Distinguishing them would let an attacker
// probe which emails have accounts (enumeration). The real cause still
// goes to the log, never to the client.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	badCredentials := apperror.Unauthorized("credenciais inválidas")

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Info("login failed: unknown email")
			return "", badCredentials
		}
		return "", fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed: wrong password", slog.String("userID", user.ID))
		return "", badCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return token, nil
}

// LoginOrRegisterGitHub completes a GitHub OAuth login: upserts the local
// account keyed on the GitHub user ID and issues the same bearer token a
// password login would.
//
// GitHub users may hide their email; since our email column is NOT NULL
// UNIQUE, hidden emails fall back to GitHub's noreply convention, which is
// unique per login name.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (string, error) {
	if ghUser == nil {
		return "", fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	name := ghUser.Name
	if name == "" {
		name = ghUser.Login
	}
	email := ghUser.Email
	if email == "" {
		email = ghUser.Login + "@users.noreply.github.com"
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		GitHubID: ghUser.ID,
	}
	if err := s.users.UpsertGitHub(ctx, user); err != nil {
		return "", fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in via GitHub", slog.String("userID", user.ID))

	return token, nil
}

// GetUserByID returns the profile for a verified token subject.
// Used by GET /api/me after the gate put the subject in the context.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}
