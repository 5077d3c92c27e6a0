package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/amferraz/blog-api/internal/apperror"
	"github.com/amferraz/blog-api/internal/model"
	"github.com/amferraz/blog-api/internal/repository"
)

// UserDB is the credential store: repository.UserRepository over the
// shared connection pool. Obtained via DB.Users().
type UserDB struct {
	conn *sql.DB
}

// Compile-time check that *UserDB implements repository.UserRepository.
// If a method goes missing, the build breaks here instead of at a distant
// call site.
var _ repository.UserRepository = (*UserDB)(nil)

// Create inserts a new user.
//
// The ID is an xid: 20 URL-safe characters, sortable by creation time —
// shorter and friendlier than a UUID. The caller's struct is filled in
// place (pointer receiver), so after Create the service has the ID and
// timestamps without a second query.
//
// We INSERT optimistically and let the UNIQUE constraint decide about
// duplicate emails — checking first would be a race between two concurrent
// registrations.
func (db *UserDB) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	var githubID any // NULL unless this is an OAuth-linked account
	if user.GitHubID != 0 {
		githubID = user.GitHubID
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, github_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		githubID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return apperror.Conflict("email já cadastrado")
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// GetByEmail returns the user with exactly this email. The comparison is
// case-sensitive — SQLite's default BINARY collation, preserved on purpose.
func (db *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, name, email, password_hash, COALESCE(github_id, 0), created_at, updated_at
		 FROM users WHERE email = ?`, email)
}

// GetByID returns the user with this internal ID.
func (db *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, name, email, password_hash, COALESCE(github_id, 0), created_at, updated_at
		 FROM users WHERE id = ?`, id)
}

func (db *UserDB) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.GitHubID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &u, nil
}

// UpsertGitHub inserts or updates a user keyed on github_id.
//
// First GitHub login → INSERT (with an empty password_hash, so password
// login can never succeed for this account). Subsequent logins → UPDATE
// name/email in case the user changed them on GitHub, keeping the existing
// internal ID so issued tokens and post ownership stay valid.
func (db *UserDB) UpsertGitHub(ctx context.Context, user *model.User) error {
	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE github_id = ?`, user.GitHubID,
	).Scan(&existingID)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user by github_id %d: %w", user.GitHubID, err)
	}

	if existingID != "" {
		user.ID = existingID
		user.UpdatedAt = time.Now()
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`,
			user.Name,
			user.Email,
			user.UpdatedAt,
			user.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	return db.Create(ctx, user)
}
