package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amferraz/blog-api/internal/model"
	"github.com/amferraz/blog-api/internal/repository"
	"github.com/amferraz/blog-api/internal/validate"
)

// PostService handles post creation and listing.
//
// Ownership is not a parameter the client controls: userID always comes
// from the verified token subject the gate put in the request context. A
// client cannot create a post in someone else's name by sending a
// different ID in the body — there is no such field.
type PostService struct {
	posts  repository.PostRepository
	logger *slog.Logger
}

func NewPostService(posts repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		logger: logger,
	}
}

// Create validates and stores a new post for the given user.
// Returns apperror.ErrValidation when a payload rule fails (first rule
// only, like every validator in this API).
func (s *PostService) Create(ctx context.Context, userID, title, text string) (*model.Post, error) {
	if userID == "" {
		return nil, fmt.Errorf("service/post: user ID must not be empty")
	}

	if err := validate.Post(title, text); err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID: userID,
		Title:  strings.TrimSpace(title),
		Text:   text,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("userID", userID),
	)

	return post, nil
}

// List returns all posts, newest first, with author names joined in.
// The listing is public — it behaves identically with or without a bearer
// token, which is why no userID parameter exists here.
func (s *PostService) List(ctx context.Context) ([]model.PostWithAuthor, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing posts: %w", err)
	}
	return posts, nil
}
