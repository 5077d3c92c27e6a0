package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
// A package-private key type means only this package can read or write the
// userID value — no other package can collide with or shadow it.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth gates protected routes on a bearer token.
//
// Every request passes through a small state machine over the
// Authorization header:
//
//	no header / no token segment      → 401 Unauthorized, chain stops
//	malformed / bad signature / expired → 403 Forbidden, chain stops
//	valid and unexpired               → userID in context, chain continues
//
// The 401/403 split is deliberate: 401 means "you presented nothing",
// 403 means "you presented something and it failed verification". Clients
// use the difference to decide between prompting a login and discarding a
// stale token.
//
// MIDDLEWARE PATTERN:
// A middleware takes an http.Handler and returns a new one that wraps it.
// Terminating the request is just writing the response and returning
// without calling next; continuing is calling next with the (possibly
// enriched) request. Chi composes these into a chain.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			userID, err := tokens.Validate(raw)
			if err != nil {
				// Covers expired, tampered and garbage tokens alike.
				forbidden(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) if the request never passed RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Returns ("", false) when the header is absent, uses a different
// scheme, or has an empty token segment — all of which count as "no
// credentials presented" (401), not as a bad token (403).
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}

// The gate writes its refusals directly — it cannot import the handler
// package (the handlers import auth for UserIDFromContext), so the JSON
// shape of handler.ErrorResponse is reproduced literally here.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"token de autenticação não informado"}`))
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"error":"forbidden","message":"token inválido ou expirado"}`))
}
