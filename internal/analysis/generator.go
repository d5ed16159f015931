package analysis

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for all analysis flows.
const DefaultModelName = "gemini-2.5-flash"

// Generator produces the provider's raw text response for a prompt. The
// Service treats a nil Generator as "no credential configured".
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a client bound to the given API key.
func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: DefaultModelName}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
