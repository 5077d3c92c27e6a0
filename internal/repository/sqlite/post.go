package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/amferraz/blog-api/internal/apperror"
	"github.com/amferraz/blog-api/internal/model"
	"github.com/amferraz/blog-api/internal/repository"
)

// PostDB implements repository.PostRepository over the shared connection
// pool. Obtained via DB.Posts().
type PostDB struct {
	conn *sql.DB
}

var _ repository.PostRepository = (*PostDB)(nil)

// Create inserts a new post, generating its ID and timestamp.
//
// The FOREIGN KEY on user_id (with PRAGMA foreign_keys=ON) guarantees the
// owning user exists. In practice the user ID comes from a verified token
// subject, so a violation means the account was deleted after the token
// was issued — reported as not-found rather than a bare 500.
func (db *PostDB) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, title, text, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.Title,
		post.Text,
		post.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return apperror.NotFound("user", post.UserID)
		}
		return fmt.Errorf("sqlite: inserting post: %w", err)
	}

	return nil
}

// List returns every post joined with its author's display name, newest
// first. The tie-break on id keeps the order stable for posts created in
// the same clock tick (xids are themselves time-ordered).
//
// The INNER JOIN can never drop a post: user_id is a NOT NULL foreign key,
// so every post has exactly one author row.
func (db *PostDB) List(ctx context.Context) ([]model.PostWithAuthor, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT p.id, u.name, p.title, p.text, p.created_at
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC, p.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	// Start with an empty (non-nil) slice so an empty table serializes as
	// [] instead of null.
	posts := []model.PostWithAuthor{}
	for rows.Next() {
		var p model.PostWithAuthor
		if err := rows.Scan(&p.ID, &p.Author, &p.Title, &p.Text, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}
