// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier turns a bearer token into the verified user identifier.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// BearerAuth is a middleware that requires an "Authorization: Bearer <token>"
// header accepted by verifier.
//
// On success it stores the token's user identifier in the request context,
// so it can be used downstream as the owner of every record operation.
// Any other request is answered with 401 and never reaches next.
func BearerAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				unauthorized(w)
				return
			}
			user, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil || user == "" {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}

// WithUserID returns a copy of ctx carrying the user ID.
func WithUserID(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserIDFromContext extracts the user ID stored by BearerAuth from the
// request context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
