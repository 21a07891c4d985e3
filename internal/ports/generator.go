package ports

import "context"

// Part is one piece of model input. Exactly one of Text or Data is set.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

// TextPart builds a text part.
func TextPart(text string) Part { return Part{Text: text} }

// ImagePart builds an inline image part.
func ImagePart(data []byte, mimeType string) Part { return Part{Data: data, MIMEType: mimeType} }

// IsImage reports whether the part carries inline bytes.
func (p Part) IsImage() bool { return len(p.Data) > 0 }

// GenerationConfig carries the sampling parameters for one call.
type GenerationConfig struct {
	MaxOutputTokens int32
	Temperature     float32
}

// Generator produces free text from a multimodal prompt.
type Generator interface {
	Generate(ctx context.Context, parts []Part, cfg GenerationConfig) (string, error)
}

// Image is a decoded upload ready to send to the model.
// Thumbnail is a small JPEG rendition for display.
type Image struct {
	Data      []byte
	MIMEType  string
	Width     int
	Height    int
	Thumbnail []byte
}

// ImageDecoder validates uploaded bytes as a supported image.
type ImageDecoder interface {
	Decode(data []byte) (Image, error)
}
