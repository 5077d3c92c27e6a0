package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amferraz/blog-api/internal/auth"
)

const testSecret = "test-secret-at-least-16-chars!!"

// newTestServer builds a full server over an in-memory database. Requests
// are driven straight through the router — no port is bound.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	srv, err := New(Config{
		Port:      0,
		DBPath:    ":memory:",
		JWTSecret: testSecret,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	return srv
}

// do sends a JSON request through the router and returns the recorder.
func do(t *testing.T, srv *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

// register creates an account and fails the test if it doesn't succeed.
func register(t *testing.T, srv *Server, nome, email, senha string) {
	t.Helper()
	rr := do(t, srv, http.MethodPost, "/api/usuarios",
		`{"nome":"`+nome+`","email":"`+email+`","senha":"`+senha+`"}`, "")
	require.Equal(t, http.StatusCreated, rr.Code, "register body: %s", rr.Body.String())
}

// login returns a bearer token for existing credentials.
func login(t *testing.T, srv *Server, email, senha string) string {
	t.Helper()
	rr := do(t, srv, http.MethodPost, "/api/login",
		`{"email":"`+email+`","senha":"`+senha+`"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, "login body: %s", rr.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

// =========================================================================
// REGISTRATION
// =========================================================================

func TestRegister(t *testing.T) {
	srv := newTestServer(t)

	t.Run("valid payload", func(t *testing.T) {
		rr := do(t, srv, http.MethodPost, "/api/usuarios",
			`{"nome":"Ana","email":"ana@example.com","senha":"123456"}`, "")

		assert.Equal(t, http.StatusCreated, rr.Code)

		var res struct {
			Message string `json:"message"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.NotEmpty(t, res.Message)
	})

	t.Run("invalid email reported before short password is checked", func(t *testing.T) {
		// Both rules would fail; only the email one may be reported.
		rr := do(t, srv, http.MethodPost, "/api/usuarios",
			`{"nome":"Ana","email":"not-an-email","senha":"123"}`, "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "email")
		assert.NotContains(t, rr.Body.String(), "senha")
	})

	t.Run("invalid email with valid password", func(t *testing.T) {
		rr := do(t, srv, http.MethodPost, "/api/usuarios",
			`{"nome":"Ana","email":"not-an-email","senha":"123456"}`, "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "email")
	})

	t.Run("duplicate email", func(t *testing.T) {
		rr := do(t, srv, http.MethodPost, "/api/usuarios",
			`{"nome":"Outra Ana","email":"ana@example.com","senha":"abcdef"}`, "")

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("malformed JSON body", func(t *testing.T) {
		rr := do(t, srv, http.MethodPost, "/api/usuarios", `{"nome":`, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

// =========================================================================
// LOGIN
// =========================================================================

func TestLogin(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "Ana", "ana@example.com", "123456")

	t.Run("valid credentials return a token", func(t *testing.T) {
		token := login(t, srv, "ana@example.com", "123456")

		// The token must verify against the server's secret and carry a subject.
		tokens, err := auth.NewTokenService(testSecret)
		require.NoError(t, err)
		subject, err := tokens.Validate(token)
		assert.NoError(t, err)
		assert.NotEmpty(t, subject)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		wrongPw := do(t, srv, http.MethodPost, "/api/login",
			`{"email":"ana@example.com","senha":"errada1"}`, "")
		unknown := do(t, srv, http.MethodPost, "/api/login",
			`{"email":"ninguem@example.com","senha":"123456"}`, "")

		assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		// Same body for both, or clients could enumerate accounts.
		assert.Equal(t, wrongPw.Body.String(), unknown.Body.String())
	})
}

// =========================================================================
// POST CREATION (the gated route)
// =========================================================================

func TestCreatePost(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "Ana", "ana@example.com", "123456")
	token := login(t, srv, "ana@example.com", "123456")

	t.Run("no Authorization header", func(t *testing.T) {
		rr := do(t, srv, http.MethodPost, "/api/postagens",
			`{"titulo":"t","texto":"x"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("corrupted token", func(t *testing.T) {
		rr := do(t, srv, http.MethodPost, "/api/postagens",
			`{"titulo":"t","texto":"x"}`, "corrupted-token")
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("expired token with valid signature", func(t *testing.T) {
		tokens, err := auth.NewTokenService(testSecret)
		require.NoError(t, err)
		expired, err := tokens.GenerateWithDuration("some-user", -time.Minute)
		require.NoError(t, err)

		rr := do(t, srv, http.MethodPost, "/api/postagens",
			`{"titulo":"t","texto":"x"}`, expired)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("valid token creates the post", func(t *testing.T) {
		rr := do(t, srv, http.MethodPost, "/api/postagens",
			`{"titulo":"Primeiro post","texto":"conteúdo"}`, token)
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("valid token, invalid payload", func(t *testing.T) {
		rr := do(t, srv, http.MethodPost, "/api/postagens",
			`{"titulo":"","texto":"x"}`, token)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "titulo")
	})
}

// =========================================================================
// LISTING
// =========================================================================

func TestListPosts(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "Ana", "ana@example.com", "123456")
	token := login(t, srv, "ana@example.com", "123456")

	rr := do(t, srv, http.MethodPost, "/api/postagens",
		`{"titulo":"Primeiro","texto":"um"}`, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = do(t, srv, http.MethodPost, "/api/postagens",
		`{"titulo":"Segundo","texto":"dois"}`, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	type entry struct {
		ID        string    `json:"id"`
		Author    string    `json:"autor"`
		Title     string    `json:"titulo"`
		Text      string    `json:"texto"`
		CreatedAt time.Time `json:"data_criacao"`
	}

	decode := func(t *testing.T, rr *httptest.ResponseRecorder) []entry {
		t.Helper()
		var posts []entry
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&posts))
		return posts
	}

	t.Run("anonymous listing joins the author name", func(t *testing.T) {
		rr := do(t, srv, http.MethodGet, "/api/postagens", "", "")
		require.Equal(t, http.StatusOK, rr.Code)

		posts := decode(t, rr)
		require.Len(t, posts, 2)
		for _, p := range posts {
			assert.Equal(t, "Ana", p.Author)
			assert.NotEmpty(t, p.ID)
			assert.False(t, p.CreatedAt.IsZero())
		}
	})

	t.Run("listing is identical with a bearer token", func(t *testing.T) {
		anon := do(t, srv, http.MethodGet, "/api/postagens", "", "")
		authed := do(t, srv, http.MethodGet, "/api/postagens", "", token)

		assert.Equal(t, http.StatusOK, authed.Code)
		assert.Equal(t, anon.Body.String(), authed.Body.String())
	})

	t.Run("empty database lists as []", func(t *testing.T) {
		fresh := newTestServer(t)
		rr := do(t, fresh, http.MethodGet, "/api/postagens", "", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})
}

// =========================================================================
// PROFILE
// =========================================================================

func TestMe(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "Ana", "ana@example.com", "123456")
	token := login(t, srv, "ana@example.com", "123456")

	rr := do(t, srv, http.MethodGet, "/api/me", "", token)
	require.Equal(t, http.StatusOK, rr.Code)

	var profile map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&profile))
	assert.Equal(t, "Ana", profile["nome"])
	assert.Equal(t, "ana@example.com", profile["email"])
	// The hash must never appear in any response shape.
	assert.NotContains(t, rr.Body.String(), "$2")
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}
