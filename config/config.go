package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - http.go: HTTP server configuration
//   - session.go: Session store and Redis configuration
//   - genai.go: Generative model configuration
type AppConfig struct {
	// IsDev controls development mode behavior (debug logging, template reloading).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Session store configuration
	Session SessionConfig `envPrefix:"SESSION_"`
	Redis   RedisConfig   `envPrefix:"REDIS_"`

	// Generative model configuration
	GenAI GenAIConfig

	// Metrics configuration
	Metrics MetricsConfig
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH"    envDefault:"/metrics"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Session.Sanitize()
	c.GenAI.Sanitize()

	c.Metrics.Path = strings.TrimSpace(c.Metrics.Path)
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		c.Metrics.Path = "/metrics"
	}

	c.detectDevMode()
}

// Validate rejects combinations that cannot work.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Session.Store == SessionStoreRedis && !c.Redis.Configured() {
		errs = append(errs, errors.New("SESSION_STORE=redis requires REDIS_URI, REDIS_SENTINEL_NODES or REDIS_CLUSTER_NODES"))
	}
	if c.Redis.UseSentinel && c.Redis.UseCluster {
		errs = append(errs, errors.New("REDIS_USE_SENTINEL and REDIS_USE_CLUSTER are mutually exclusive"))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, fmt.Errorf("HTTP_ADDR must not be empty"))
	}
	return errors.Join(errs...)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
