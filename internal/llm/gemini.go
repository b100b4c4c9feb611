package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type geminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates an LLMClient backed by the Gemini generateContent API.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: defaultHTTPClient(),
	}
	if ep := cfg.EffectiveEndpoint(); ep != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: ep + "/", APIVersion: "v1beta"}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return newClient(cfg, &geminiBackend{client: gc, model: cfg.Model}, observer), nil
}

func (g *geminiBackend) generate(ctx context.Context, p callParams) (string, string, error) {
	temp := float32(p.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(p.MaxTokens), //nolint:gosec // bounded by config validation
	}
	if p.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: p.System}},
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, p.Model, genai.Text(p.Prompt), config)
	if err != nil {
		return "", "", fmt.Errorf("gemini generateContent: %w", err)
	}
	if result == nil {
		return "", "", ErrEmptyResponse
	}
	return result.Text(), result.ModelVersion, nil
}

func (g *geminiBackend) ping(ctx context.Context) error {
	_, err := g.client.Models.Get(ctx, g.model, nil)
	return err
}
