package config

import (
	"strings"
	"time"
)

// SessionStoreKind selects the session store backend.
type SessionStoreKind string

const (
	SessionStoreMemory SessionStoreKind = "memory"
	SessionStoreRedis  SessionStoreKind = "redis"
)

const defaultSessionTTL = 8 * time.Hour

// SessionConfig configures browser sessions.
type SessionConfig struct {
	// Store is "memory" (default) or "redis".
	Store SessionStoreKind `env:"STORE" envDefault:"memory"`
	// TTL is the idle lifetime of a session; every write slides it.
	TTL time.Duration `env:"TTL" envDefault:"8h"`
	// MemoryCapacity bounds the in-memory store.
	MemoryCapacity int `env:"MEMORY_CAPACITY" envDefault:"10000"`
	// CookieName is the session cookie.
	CookieName string `env:"COOKIE_NAME" envDefault:"trash_session"`
}

// Sanitize normalises the store kind and clamps durations.
func (s *SessionConfig) Sanitize() {
	switch SessionStoreKind(strings.ToLower(strings.TrimSpace(string(s.Store)))) {
	case SessionStoreRedis:
		s.Store = SessionStoreRedis
	default:
		s.Store = SessionStoreMemory
	}
	if s.TTL <= 0 {
		s.TTL = defaultSessionTTL
	}
	if s.MemoryCapacity <= 0 {
		s.MemoryCapacity = 10_000
	}
	if strings.TrimSpace(s.CookieName) == "" {
		s.CookieName = "trash_session"
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:""`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:""`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
	KeyPrefix          string   `env:"KEY_PREFIX"           envDefault:"trash-classifier:session:"`
}

// Configured reports whether enough is set to build a client for the selected mode.
func (r RedisConfig) Configured() bool {
	switch {
	case r.UseCluster:
		return len(nonEmpty(r.ClusterNodes)) > 0
	case r.UseSentinel:
		return len(nonEmpty(r.SentinelNodes)) > 0
	default:
		return strings.TrimSpace(r.URI) != ""
	}
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
