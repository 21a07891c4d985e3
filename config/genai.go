package config

import (
	"strings"
	"time"
)

// DefaultGenAITimeout bounds a model call when GENAI_TIMEOUT is unset or invalid.
const DefaultGenAITimeout = 60 * time.Second

// GenAIConfig configures the Gemini client.
type GenAIConfig struct {
	// APIKey authenticates against the Gemini API. When empty the app still
	// serves pages but every classification shows an error.
	APIKey string `env:"GEMINI_API_KEY"`
	// Model is the Gemini model name.
	Model string `env:"GENAI_MODEL" envDefault:"gemini-1.5-pro"`
	// Timeout bounds a single model call.
	Timeout time.Duration `env:"GENAI_TIMEOUT" envDefault:"60s"`
}

// Sanitize trims values and restores defaults for unusable ones.
func (g *GenAIConfig) Sanitize() {
	g.APIKey = strings.TrimSpace(g.APIKey)
	g.Model = strings.TrimSpace(g.Model)
	if g.Model == "" {
		g.Model = "gemini-1.5-pro"
	}
	if g.Timeout <= 0 {
		g.Timeout = DefaultGenAITimeout
	}
}
