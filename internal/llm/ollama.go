package llm

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ollama/ollama/api"
)

type ollamaBackend struct {
	client *api.Client
}

// NewOllamaClient creates an LLMClient that talks to a local Ollama instance.
func NewOllamaClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	base, err := url.Parse(cfg.EffectiveEndpoint())
	if err != nil {
		return nil, fmt.Errorf("parsing ollama endpoint: %w", err)
	}
	return newClient(cfg, &ollamaBackend{client: api.NewClient(base, defaultHTTPClient())}, observer), nil
}

func (o *ollamaBackend) generate(ctx context.Context, p callParams) (string, string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  p.Model,
		System: p.System,
		Prompt: p.Prompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature": p.Temperature,
			"num_predict": p.MaxTokens,
		},
	}

	var resp api.GenerateResponse
	err := o.client.Generate(ctx, req, func(r api.GenerateResponse) error {
		resp.Model = r.Model
		resp.Response += r.Response
		return nil
	})
	if err != nil {
		return "", "", fmt.Errorf("ollama generate: %w", err)
	}
	return resp.Response, resp.Model, nil
}

func (o *ollamaBackend) ping(ctx context.Context) error {
	return o.client.Heartbeat(ctx)
}
