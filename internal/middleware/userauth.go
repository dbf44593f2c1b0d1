// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
)

// UserIDHeader is the header trusted upstream infrastructure sets to
// name the acting user.
const UserIDHeader = "X-User-ID"

type ctxKey string

const userKey ctxKey = "user"

// UserAuth is a middleware that enforces identity-header authentication.
//
// It checks whether the incoming HTTP request carries the X-User-ID
// header. Absence is an authentication failure, not a generic bad
// request: tool calls without an acting user are rejected outright.
//
// On success it stores the user ID in the request context, so it can be
// used downstream as the authenticated user ID.
func UserAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			http.Error(w, "authentication failed: 'X-User-ID' header is missing", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the user ID from the request context.
// Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
