package httputil

import (
	"context"
	"net/http"
)

type contextKey int

const userIDKey contextKey = iota

// WithUserID attaches the session owner to the request context. The auth
// middleware sets it from the token subject; without auth every request
// gets the same static owner.
func WithUserID(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
}

// GetUserID returns the owner attached by WithUserID, or "" when none was.
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
