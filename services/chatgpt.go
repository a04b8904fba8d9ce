package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"iscoolgpt/models"
)

// ChatGPTService handles communication with OpenAI's ChatGPT API
type ChatGPTService struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float32
	client      *openai.Client
}

// ChatGPTConfig carries the OpenAI settings from the environment
type ChatGPTConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// NewChatGPTService creates a new ChatGPT service instance
func NewChatGPTService(cfg ChatGPTConfig) *ChatGPTService {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &ChatGPTService{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		client:      openai.NewClientWithConfig(clientConfig),
	}
}

func (c *ChatGPTService) Name() models.LLMProvider { return models.ProviderChatGPT }

func (c *ChatGPTService) Model() string { return c.model }

// Available reports whether an API key is configured
func (c *ChatGPTService) Available(context.Context) bool {
	return c.apiKey != ""
}

// Generate generates a response using ChatGPT
func (c *ChatGPTService) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("OpenAI API key not set")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", errors.Wrap(err, "ChatGPT request failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response choices from ChatGPT")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
