// Package handler is the HTTP layer: it parses requests, calls services,
// and formats responses. No business rules live here — a handler that
// starts validating fields or touching the database is a smell.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/amferraz/blog-api/internal/auth"
	"github.com/amferraz/blog-api/internal/service"
)

// AuthHandler serves registration, login and profile endpoints, plus the
// GitHub OAuth flow.
type AuthHandler struct {
	service *service.AuthService
	github  *auth.GitHubProvider // nil when GitHub login is not configured
	logger  *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, github *auth.GitHubProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		github:  github,
		logger:  logger,
	}
}

// registerRequest mirrors the wire contract: the payload keys are
// Portuguese ("nome", "senha"), the Go fields are not.
type registerRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/usuarios
// Body: {"nome": "...", "email": "...", "senha": "..."}
// 201 {"message": ...} on success; 400 with the FIRST failing field's
// message; 409 when the email is taken.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("register: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "corpo da requisição inválido",
		})
		return
	}

	if _, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: "usuário criado com sucesso"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// HandleLogin exchanges credentials for a bearer token.
//
// HTTP: POST /api/login
// Body: {"email": "...", "senha": "..."}
// 200 {"token": "<jwt>"} on success; 401 with one generic message for
// every credential failure — the service guarantees unknown-email and
// wrong-password are indistinguishable here.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("login: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "corpo da requisição inválido",
		})
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/me (behind RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't panic if mis-wired.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "token de autenticação não informado",
		})
		return
	}

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleGitHubLogin starts the OAuth flow: it stores a random state nonce
// in a short-lived cookie (the CSRF check for the callback) and redirects
// the browser to GitHub.
//
// HTTP: GET /auth/github/login
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes — enough to approve, short enough to limit risk
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow: verifies the state nonce,
// exchanges the code for a GitHub profile, upserts the local account and
// responds with the same token body a password login returns. The gate is
// header-based, so no cookie is set — the client takes the token from the
// JSON and sends it as "Authorization: Bearer".
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("github callback: state mismatch or missing")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "estado OAuth inválido",
		})
		return
	}

	// The state is single-use.
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "código OAuth ausente",
		})
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("github callback: exchange failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	token, err := h.service.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		h.logger.Error("github callback: login failed",
			slog.Int64("githubID", ghUser.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}
