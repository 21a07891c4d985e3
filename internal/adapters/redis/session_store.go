package redis

// Package redis provides Redis-based adapters for the trash classifier.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/trash-classifier/internal/domain/session"
	"github.com/target/trash-classifier/internal/ports"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "trash-classifier:session:"

// SessionStore is a Redis-based session store.
// Keys expire with the session's ExpiresAt, so every Save slides the TTL.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, DefaultPrefix)
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *SessionStore) Save(ctx context.Context, sess session.Session) error {
	if err := sess.Validate(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (session.Session, error) {
	if id == "" {
		return session.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Session{}, ErrNotFound
		}
		return session.Session{}, fmt.Errorf("redis get: %w", err)
	}

	// A stored value that cannot be decoded, no longer validates or has outlived its TTL is discarded.
	var sess session.Session
	if json.Unmarshal(data, &sess) != nil || sess.Validate() != nil || sess.Expired(s.now()) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return session.Session{}, fmt.Errorf("cleanup stale session: %w", deleteErr)
		}
		return session.Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// ErrNotFound is returned when a session is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

// Is lets errors.Is match the port-level sentinel.
func (notFoundError) Is(target error) bool { return target == ports.ErrSessionNotFound }

var ErrNotFound error = notFoundError{}
