// Package repository declares the storage interfaces the services depend on.
//
// Services receive these interfaces, never the concrete sqlite.DB — tests
// substitute in-memory mocks, and swapping SQLite for another store means
// changing one line in the composition root.
package repository

import (
	"context"

	"github.com/amferraz/blog-api/internal/model"
)

// UserRepository is the credential store: it persists identity records and
// is the single enforcer of email uniqueness (via the store's own UNIQUE
// constraint, not application-level checks).
type UserRepository interface {
	// Create inserts a new user, filling in ID and timestamps.
	// Returns apperror.ErrConflict when the email is already registered.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail returns the user with exactly this email (case-sensitive,
	// per the storage collation). Returns apperror.ErrNotFound otherwise.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID returns the user with this internal ID.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// UpsertGitHub inserts or updates a user keyed on GitHubID, keeping
	// the existing internal ID on update. Used by the OAuth login path.
	UpsertGitHub(ctx context.Context, user *model.User) error
}

// PostRepository persists blog posts. Update and delete are deliberately
// absent — the API only creates and lists.
type PostRepository interface {
	// Create inserts a new post, filling in ID and CreatedAt. The store
	// rejects a UserID that references no existing user.
	Create(ctx context.Context, post *model.Post) error

	// List returns all posts newest first, each joined with its author's
	// display name.
	List(ctx context.Context) ([]model.PostWithAuthor, error)
}
