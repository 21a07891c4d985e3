package httpx

import (
	"context"

	"github.com/target/trash-classifier/internal/domain/session"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the browser session
// as loaded at the start of the request. Sessions without an ID are ignored.
func SetSessionInContext(ctx context.Context, s session.Session) context.Context {
	if s.ID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, s)
}

// GetSessionFromContext returns the request's session and a boolean indicating presence.
func GetSessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(session.Session)
	return s, ok && s.ID != ""
}

// SessionID returns the session ID from ctx or "".
func SessionID(ctx context.Context) string {
	s, _ := GetSessionFromContext(ctx)
	return s.ID
}
