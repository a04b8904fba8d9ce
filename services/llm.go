package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"iscoolgpt/models"
)

// LLMService handles communication with local LLM models (like Ollama)
type LLMService struct {
	baseURL string
	model   string
	http    *resty.Client
}

// OllamaRequest represents a request to the Ollama API
type OllamaRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	System  string                 `json:"system,omitempty"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// OllamaResponse represents a response from the Ollama API
type OllamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewLLMService creates a new LLM service instance
func NewLLMService(baseURL, model string) *LLMService {
	if baseURL == "" {
		baseURL = "http://localhost:11434" // Default Ollama URL
	}
	if model == "" {
		model = "tinyllama:latest"
	}

	baseURL = strings.TrimSuffix(baseURL, "/")
	return &LLMService{
		baseURL: baseURL,
		model:   model,
		http:    resty.New().SetBaseURL(baseURL).SetTimeout(120 * time.Second),
	}
}

func (l *LLMService) Name() models.LLMProvider { return models.ProviderLocal }

func (l *LLMService) Model() string { return l.model }

// Generate asks the local LLM for one non-streamed completion
func (l *LLMService) Generate(ctx context.Context, prompt Prompt) (string, error) {
	request := OllamaRequest{
		Model:  l.model,
		Prompt: buildLocalPrompt(prompt),
		System: prompt.System,
		Stream: false,
		Options: map[string]interface{}{
			"temperature":    0.7,
			"top_p":          0.9,
			"repeat_penalty": 1.1,
		},
	}

	var out OllamaResponse
	resp, err := l.http.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&out).
		Post("/api/generate")
	if err != nil {
		return "", errors.Wrap(err, "failed to make request to LLM")
	}
	if resp.IsError() {
		return "", fmt.Errorf("LLM API returned status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	if out.Error != "" {
		return "", fmt.Errorf("LLM returned error: %s", out.Error)
	}

	return cleanLLMResponse(out.Response), nil
}

// Available checks if the LLM service is reachable
func (l *LLMService) Available(ctx context.Context) bool {
	resp, err := l.http.R().SetContext(ctx).Get("/api/tags")
	if err != nil {
		return false
	}
	return resp.IsSuccess()
}

// AvailableModels returns the models installed in the local LLM
func (l *LLMService) AvailableModels(ctx context.Context) ([]string, error) {
	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	resp, err := l.http.R().SetContext(ctx).SetResult(&result).Get("/api/tags")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get models")
	}
	if resp.IsError() {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode())
	}

	names := make([]string, 0, len(result.Models))
	for _, model := range result.Models {
		names = append(names, model.Name)
	}
	return names, nil
}

// buildLocalPrompt frames the user turn for completion-style models
func buildLocalPrompt(prompt Prompt) string {
	var b strings.Builder
	b.WriteString("Student: ")
	b.WriteString(prompt.User)
	b.WriteString("\nIsCoolGPT: ")
	return b.String()
}

// cleanLLMResponse trims the role echo some small models produce
func cleanLLMResponse(response string) string {
	response = strings.TrimSpace(response)
	for _, prefix := range []string{"IsCoolGPT:", "Assistant:"} {
		response = strings.TrimSpace(strings.TrimPrefix(response, prefix))
	}
	if idx := strings.Index(response, "\nStudent:"); idx >= 0 {
		response = strings.TrimSpace(response[:idx])
	}
	return response
}

// BaseURL returns the Ollama server address
func (l *LLMService) BaseURL() string { return l.baseURL }
