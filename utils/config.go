package utils

import (
	"fmt"

	"iscoolgpt/models"
)

const DefaultAPIBaseURL = "http://localhost:8000"

// Config holds every setting of the three commands. Flags override it per command.
type Config struct {
	// API Settings
	APIHost     string
	APIPort     int
	Environment string
	LogLevel    string

	// LLM Settings
	Provider          models.LLMProvider
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAIMaxTokens   int
	OpenAITemperature float64
	OllamaURL         string
	OllamaModel       string

	// Retrieval
	Notes        models.NotesConfig
	EmbedModel   string
	Search       models.SearchConfig
	SearchEnable bool

	// Front ends
	APIBaseURL string
	Discord    models.DiscordConfig
}

// LoadConfig reads the configuration from the environment, after loading any .env file
func LoadConfig() (*Config, error) {
	if err := LoadEnvWithFallback(); err != nil {
		return nil, err
	}

	provider := models.LLMProvider(getEnv("LLM_PROVIDER", string(models.ProviderAuto)))
	switch provider {
	case models.ProviderAuto, models.ProviderChatGPT, models.ProviderLocal, models.ProviderDummy:
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER %q (want auto, chatgpt, local or dummy)", provider)
	}

	apiBaseURL := getEnv("ISCOOLGPT_API_URL", DefaultAPIBaseURL)
	searchKey := getEnv("BRAVE_SEARCH_API_KEY", "")

	cfg := &Config{
		APIHost:     getEnv("API_HOST", "0.0.0.0"),
		APIPort:     getEnvInt("API_PORT", 8000),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Provider:          provider,
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4"),
		OpenAIMaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 1000),
		OpenAITemperature: getEnvFloat("OPENAI_TEMPERATURE", 0.7),
		OllamaURL:         getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:       getEnv("OLLAMA_MODEL", "tinyllama:latest"),

		Notes: models.NotesConfig{
			DataPath:       getEnv("NOTES_PATH", ""),
			CollectionName: getEnv("NOTES_COLLECTION", "study-notes"),
			ChunkSize:      getEnvInt("NOTES_CHUNK_SIZE", 500),
			MaxResults:     getEnvInt("NOTES_MAX_RESULTS", 3),
		},
		EmbedModel: getEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),
		Search: models.SearchConfig{
			APIKey:     searchKey,
			BaseURL:    getEnv("BRAVE_SEARCH_URL", "https://api.search.brave.com/res/v1/web/search"),
			MaxResults: getEnvInt("BRAVE_SEARCH_MAX_RESULTS", 3),
		},
		SearchEnable: searchKey != "",

		APIBaseURL: apiBaseURL,
		Discord: models.DiscordConfig{
			Token:         getEnv("DISCORD_BOT_TOKEN", ""),
			CommandPrefix: getEnv("DISCORD_COMMAND_PREFIX", "!iscool "),
			APIBaseURL:    apiBaseURL,
		},
	}

	return cfg, nil
}

// ListenAddr returns the host:port the API server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
