// Package memory provides a process-local session store used when Redis is not configured.
package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/target/trash-classifier/internal/domain/session"
	"github.com/target/trash-classifier/internal/ports"
)

// DefaultCapacity bounds the number of live sessions kept in memory.
const DefaultCapacity = 10_000

// ErrNotFound is returned when a session is absent, evicted or expired.
var ErrNotFound = ports.ErrSessionNotFound

// SessionStore keeps sessions in a bounded LRU cache.
// When full, the least recently used session is evicted.
// Expired entries are dropped on read.
type SessionStore struct {
	cache *lru.Cache[string, session.Session]
	now   func() time.Time
}

// NewSessionStore creates an empty store holding at most capacity sessions.
// A non-positive capacity selects DefaultCapacity.
func NewSessionStore(capacity int) (*SessionStore, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, err := lru.New[string, session.Session](capacity)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &SessionStore{cache: cache, now: time.Now}, nil
}

// WithClock replaces the time source. Intended for tests.
func (m *SessionStore) WithClock(now func() time.Time) *SessionStore {
	m.now = now
	return m
}

func (m *SessionStore) Save(_ context.Context, sess session.Session) error {
	if err := sess.Validate(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if sess.Expired(m.now()) {
		return errors.New("session is expired")
	}
	m.cache.Add(sess.ID, cloneSession(sess))
	return nil
}

func (m *SessionStore) Get(_ context.Context, id string) (session.Session, error) {
	sess, ok := m.cache.Get(id)
	if !ok {
		return session.Session{}, ErrNotFound
	}
	if sess.Expired(m.now()) {
		m.cache.Remove(id)
		return session.Session{}, ErrNotFound
	}
	return cloneSession(sess), nil
}

func (m *SessionStore) Delete(_ context.Context, id string) error {
	m.cache.Remove(id)
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (m *SessionStore) Len() int { return m.cache.Len() }

// cloneSession detaches the entries slice so callers cannot alias stored state.
func cloneSession(s session.Session) session.Session {
	s.Entries = append(s.Entries[:0:0], s.Entries...)
	return s
}
