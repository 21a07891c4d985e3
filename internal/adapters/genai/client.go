// Package genai adapts the Gemini API to ports.Generator.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	apperrors "github.com/target/trash-classifier/internal/errors"
	"github.com/target/trash-classifier/internal/ports"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-1.5-pro"
	// DefaultTimeout bounds one GenerateContent call.
	DefaultTimeout = 60 * time.Second
)

// ErrMissingAPIKey is the cause reported by a client built without an API key.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("model returned no text")

// contentGenerator is the slice of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Options configures a Client.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client implements ports.Generator against the Gemini API.
type Client struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

var _ ports.Generator = (*Client)(nil)

// New creates a Gemini client. An empty API key is not an error here: the client is
// returned and every Generate call fails with a generation error instead, so the rest
// of the application keeps working.
func New(ctx context.Context, opts Options) (*Client, error) {
	c := &Client{model: opts.Model, timeout: opts.Timeout}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if opts.APIKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.models = client.Models
	return c, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool { return c.models != nil }

// Generate sends parts as a single user turn and returns the response text.
func (c *Client) Generate(ctx context.Context, parts []ports.Part, cfg ports.GenerationConfig) (string, error) {
	if c.models == nil {
		return "", apperrors.Wrap(ErrMissingAPIKey, apperrors.ErrCodeGeneration,
			"The AI service is not configured.")
	}
	if len(parts) == 0 {
		return "", apperrors.Validation("Nothing to send to the AI service.")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.models.GenerateContent(ctx, c.model, []*genai.Content{toContent(parts)}, toConfig(cfg))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeGeneration, "The AI service could not answer. Please try again.")
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", apperrors.Wrap(ErrEmptyResponse, apperrors.ErrCodeGeneration,
			"The AI service returned an empty answer. Please try again.")
	}
	return text, nil
}

func toContent(parts []ports.Part) *genai.Content {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsImage() {
			out = append(out, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		out = append(out, genai.NewPartFromText(p.Text))
	}
	return genai.NewContentFromParts(out, genai.RoleUser)
}

func toConfig(cfg ports.GenerationConfig) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		MaxOutputTokens: cfg.MaxOutputTokens,
		Temperature:     genai.Ptr(cfg.Temperature),
	}
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}
