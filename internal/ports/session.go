package ports

// Package ports defines interfaces (hexagonal ports) for the classifier's collaborators.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	"github.com/target/trash-classifier/internal/domain/session"
)

// ErrSessionNotFound is reported by SessionStore.Get for unknown, evicted or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists and retrieves browser sessions.
type SessionStore interface {
	Save(ctx context.Context, sess session.Session) error
	Get(ctx context.Context, id string) (session.Session, error)
	Delete(ctx context.Context, id string) error
}
