// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"context"
	"net/http"

	"github.com/exhibitor-tools/lineup-portal/internal/auth"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookie is the name of the session cookie.
const SessionCookie = "lineup_session"

// SessionInfo is the session plus its token, as stored in the request
// context. The token is needed by handlers that update session state
// (country selection).
type SessionInfo struct {
	auth.Session
	Token string
}

// Sessions returns middleware that resolves the session cookie against the
// store and puts the session in the request context. It does NOT block
// unauthenticated requests; handlers decide what requires a login.
func Sessions(store *auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err == nil && cookie.Value != "" {
				if session, ok := store.Get(cookie.Value); ok {
					ctx := context.WithValue(r.Context(), sessionContextKey, SessionInfo{
						Session: session,
						Token:   cookie.Value,
					})
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFrom returns the session attached to the context, if any.
func SessionFrom(ctx context.Context) (SessionInfo, bool) {
	info, ok := ctx.Value(sessionContextKey).(SessionInfo)
	return info, ok
}

// SetSessionCookie writes the session cookie on a successful login.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
