package services

import (
	"context"

	"iscoolgpt/models"
)

// Prompt is a single tutoring exchange handed to a provider
type Prompt struct {
	System string
	User   string
}

// Provider generates one answer per prompt
type Provider interface {
	Name() models.LLMProvider
	Model() string
	Available(ctx context.Context) bool
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// SelectProvider picks the provider to serve requests with. An explicit
// preference falls back to the other real provider, then to dummy; auto
// prefers ChatGPT, then the local LLM.
func SelectProvider(ctx context.Context, preferred models.LLMProvider, chatgpt, local, dummy Provider) Provider {
	var order []Provider
	switch preferred {
	case models.ProviderDummy:
		return dummy
	case models.ProviderLocal:
		order = []Provider{local, chatgpt}
	default:
		order = []Provider{chatgpt, local}
	}

	for _, p := range order {
		if p != nil && p.Available(ctx) {
			return p
		}
	}
	return dummy
}
