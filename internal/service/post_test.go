package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/amferraz/blog-api/internal/apperror"
	"github.com/amferraz/blog-api/internal/model"
)

// mockPostRepo is an in-memory repository.PostRepository. It also lets a
// test force a storage failure to check error propagation.
type mockPostRepo struct {
	posts     []model.Post
	authors   map[string]string // userID → display name
	createErr error
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{authors: make(map[string]string)}
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	if m.createErr != nil {
		return m.createErr
	}
	post.ID = fmt.Sprintf("post-%d", len(m.posts)+1)
	m.posts = append(m.posts, *post)
	return nil
}

func (m *mockPostRepo) List(_ context.Context) ([]model.PostWithAuthor, error) {
	// Newest first, mirroring the SQL ORDER BY.
	result := []model.PostWithAuthor{}
	for i := len(m.posts) - 1; i >= 0; i-- {
		p := m.posts[i]
		result = append(result, model.PostWithAuthor{
			ID:        p.ID,
			Author:    m.authors[p.UserID],
			Title:     p.Title,
			Text:      p.Text,
			CreatedAt: p.CreatedAt,
		})
	}
	return result, nil
}

func newTestPostService(repo *mockPostRepo) *PostService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewPostService(repo, logger)
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestPostCreate_Valid(t *testing.T) {
	repo := newMockPostRepo()
	svc := newTestPostService(repo)

	post, err := svc.Create(context.Background(), "user-1", "Primeiro post", "conteúdo")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if post.ID == "" {
		t.Error("Create() did not return a persisted post")
	}
	if post.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", post.UserID, "user-1")
	}
}

func TestPostCreate_Validation(t *testing.T) {
	repo := newMockPostRepo()
	svc := newTestPostService(repo)

	tests := []struct {
		name   string
		titulo string
		texto  string
	}{
		{"missing title", "", "texto"},
		{"missing text", "titulo", ""},
		{"whitespace title", "   ", "texto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-1", tt.titulo, tt.texto)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
		})
	}

	if len(repo.posts) != 0 {
		t.Errorf("repo has %d posts after failed validations, want 0", len(repo.posts))
	}
}

func TestPostCreate_EmptyUserID(t *testing.T) {
	svc := newTestPostService(newMockPostRepo())

	if _, err := svc.Create(context.Background(), "", "titulo", "texto"); err == nil {
		t.Fatal("Create() should reject an empty user ID")
	}
}

func TestPostCreate_StoreErrorPropagates(t *testing.T) {
	// Storage failures are unrecoverable for the request: no retry, the
	// wrapped error just propagates.
	repo := newMockPostRepo()
	repo.createErr = errors.New("disk full")
	svc := newTestPostService(repo)

	_, err := svc.Create(context.Background(), "user-1", "titulo", "texto")
	if err == nil {
		t.Fatal("Create() should propagate the store error")
	}
	if errors.Is(err, apperror.ErrValidation) {
		t.Error("store error misreported as a validation error")
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestPostList_PassesThroughJoinedAuthors(t *testing.T) {
	repo := newMockPostRepo()
	repo.authors["user-1"] = "Ana"
	svc := newTestPostService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", "post um", "a"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, "user-1", "post dois", "b"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	posts, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("List() returned %d posts, want 2", len(posts))
	}
	if posts[0].Title != "post dois" {
		t.Errorf("posts[0].Title = %q, want newest first", posts[0].Title)
	}
	if posts[0].Author != "Ana" {
		t.Errorf("posts[0].Author = %q, want %q", posts[0].Author, "Ana")
	}
}
