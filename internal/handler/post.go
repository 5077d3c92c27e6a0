package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/amferraz/blog-api/internal/auth"
	"github.com/amferraz/blog-api/internal/service"
)

// PostHandler serves post creation and the public listing.
type PostHandler struct {
	service *service.PostService
	logger  *slog.Logger
}

func NewPostHandler(svc *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		service: svc,
		logger:  logger,
	}
}

type createPostRequest struct {
	Title string `json:"titulo"`
	Text  string `json:"texto"`
}

// HandleCreate stores a new post for the authenticated user.
//
// HTTP: POST /api/postagens (behind RequireAuth)
// Body: {"titulo": "...", "texto": "..."}
//
// The owner is the token subject from the context — the body carries no
// user field, so a client cannot post as someone else.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "token de autenticação não informado",
		})
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("create post: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "corpo da requisição inválido",
		})
		return
	}

	if _, err := h.service.Create(r.Context(), userID, req.Title, req.Text); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: "postagem criada com sucesso"})
}

// HandleList returns every post, newest first, with the author's display
// name joined in.
//
// HTTP: GET /api/postagens — public, no token required, and the response
// is identical whether or not one is sent.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list posts failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}
