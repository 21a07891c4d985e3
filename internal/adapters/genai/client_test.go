package genai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	apperrors "github.com/target/trash-classifier/internal/errors"
	"github.com/target/trash-classifier/internal/ports"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	deadline bool

	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	_, f.deadline = ctx.Deadline()
	return f.resp, f.err
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: genai.RoleModel, Parts: parts}}},
	}
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())
	assert.False(t, c.Configured())
}

func TestGenerate_WithoutAPIKey(t *testing.T) {
	c, err := New(context.Background(), Options{})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), []ports.Part{ports.TextPart("hi")}, ports.GenerationConfig{})
	require.Error(t, err)
	assert.True(t, apperrors.IsGeneration(err))
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGenerate_ImageAndText(t *testing.T) {
	fake := &fakeModels{resp: textResponse(genai.NewPartFromText("Mostly "), genai.NewPartFromText("plastic."))}
	c := &Client{models: fake, model: "gemini-test", timeout: time.Minute}

	got, err := c.Generate(context.Background(),
		[]ports.Part{ports.TextPart("describe"), ports.ImagePart([]byte{0x89, 'P'}, "image/png")},
		ports.GenerationConfig{MaxOutputTokens: 1000, Temperature: 1.0})
	require.NoError(t, err)
	assert.Equal(t, "Mostly plastic.", got)

	assert.Equal(t, "gemini-test", fake.model)
	assert.True(t, fake.deadline)
	require.Len(t, fake.contents, 1)
	content := fake.contents[0]
	assert.Equal(t, genai.RoleUser, content.Role)
	require.Len(t, content.Parts, 2)
	assert.Equal(t, "describe", content.Parts[0].Text)
	require.NotNil(t, content.Parts[1].InlineData)
	assert.Equal(t, "image/png", content.Parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte{0x89, 'P'}, content.Parts[1].InlineData.Data)

	assert.Equal(t, int32(1000), fake.config.MaxOutputTokens)
	require.NotNil(t, fake.config.Temperature)
	assert.InDelta(t, 1.0, *fake.config.Temperature, 1e-6)
}

func TestGenerate_SkipsThoughtParts(t *testing.T) {
	thought := genai.NewPartFromText("thinking...")
	thought.Thought = true
	fake := &fakeModels{resp: textResponse(thought, genai.NewPartFromText("Answer"))}
	c := &Client{models: fake, model: DefaultModel, timeout: time.Minute}

	got, err := c.Generate(context.Background(), []ports.Part{ports.TextPart("q")}, ports.GenerationConfig{})
	require.NoError(t, err)
	assert.Equal(t, "Answer", got)
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeModels
	}{
		{name: "upstream error", fake: &fakeModels{err: errors.New("quota exceeded")}},
		{name: "no candidates", fake: &fakeModels{resp: &genai.GenerateContentResponse{}}},
		{name: "blank text", fake: &fakeModels{resp: textResponse(genai.NewPartFromText("  "))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{models: tt.fake, model: DefaultModel, timeout: time.Minute}
			_, err := c.Generate(context.Background(), []ports.Part{ports.TextPart("q")}, ports.GenerationConfig{})
			require.Error(t, err)
			assert.True(t, apperrors.IsGeneration(err))
		})
	}
}

func TestGenerate_NoParts(t *testing.T) {
	c := &Client{models: &fakeModels{}, model: DefaultModel, timeout: time.Minute}
	_, err := c.Generate(context.Background(), nil, ports.GenerationConfig{})
	assert.True(t, apperrors.IsValidation(err))
}
