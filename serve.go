package main

import (
	"context"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"iscoolgpt/client"
	"iscoolgpt/controllers"
	"iscoolgpt/models"
	"iscoolgpt/services"
	"iscoolgpt/utils"
)

func newServeCommand() *cobra.Command {
	var (
		host        string
		port        int
		provider    string
		notesPath   string
		withDiscord bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the IsCoolGPT HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := utils.LoadConfig()
			if err != nil {
				return err
			}
			// JSON logs outside development
			utils.SetupLogging(logLevel, cfg.IsDevelopment(), os.Stderr)

			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.APIHost = host
			}
			if flags.Changed("port") {
				cfg.APIPort = port
			}
			if flags.Changed("provider") {
				cfg.Provider = models.LLMProvider(provider)
			}
			if flags.Changed("notes") {
				cfg.Notes.DataPath = notesPath
			}

			return runServe(cmd.Context(), cfg, withDiscord)
		},
	}

	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "Address to bind")
	cmd.Flags().IntVar(&port, "port", 8000, "Port to listen on")
	cmd.Flags().StringVar(&provider, "provider", "auto", "LLM provider: auto, chatgpt, local or dummy")
	cmd.Flags().StringVar(&notesPath, "notes", "", "Directory of study notes to index (one subdirectory per subject)")
	cmd.Flags().BoolVar(&withDiscord, "discord", false, "Also run the Discord bot against this server")

	return cmd
}

func runServe(ctx context.Context, cfg *utils.Config, withDiscord bool) error {
	chatgpt := services.NewChatGPTService(services.ChatGPTConfig{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		MaxTokens:   cfg.OpenAIMaxTokens,
		Temperature: cfg.OpenAITemperature,
	})
	local := services.NewLLMService(cfg.OllamaURL, cfg.OllamaModel)

	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	provider := services.SelectProvider(probeCtx, cfg.Provider, chatgpt, local, services.DummyProvider{})
	cancel()
	if cfg.Provider != models.ProviderAuto && provider.Name() != cfg.Provider {
		log.Warn().Str("requested", string(cfg.Provider)).Str("using", string(provider.Name())).Msg("Requested LLM provider unavailable")
	}
	log.Info().Str("provider", string(provider.Name())).Str("model", provider.Model()).Msg("LLM provider selected")

	tutorOpts := []services.TutorOption{}
	controllerOpts := []controllers.Option{}

	if cfg.Notes.DataPath != "" {
		notes := services.NewNotesService(cfg.Notes,
			services.WithEmbeddingFunc(services.DefaultEmbeddingFunc(cfg.OpenAIAPIKey, local.BaseURL(), cfg.EmbedModel)))
		if _, err := notes.Index(ctx); err != nil {
			log.Warn().Err(err).Str("path", cfg.Notes.DataPath).Msg("Failed to index study notes, continuing without them")
		}
		tutorOpts = append(tutorOpts, services.WithNotes(notes))
		controllerOpts = append(controllerOpts, controllers.WithNotes(notes))
	}

	if cfg.SearchEnable {
		tutorOpts = append(tutorOpts, services.WithSearch(services.NewSearchService(cfg.Search)))
		log.Info().Msg("Web search enabled")
	}

	if withDiscord {
		discordCfg := cfg.Discord
		discordCfg.APIBaseURL = localAPIURL(cfg)
		discord, err := services.NewDiscordService(discordCfg, client.New())
		if err != nil {
			return errors.Wrap(err, "cannot run the Discord bot")
		}
		controllerOpts = append(controllerOpts, controllers.WithDiscord(discord))
	}

	tutor := services.NewTutor(provider, tutorOpts...)
	controller := controllers.NewController(tutor, services.NewSubjectCatalog(), controllerOpts...)
	return controllers.NewServer(cfg.ListenAddr(), controller).Run(ctx)
}

// localAPIURL is the address the embedded Discord bot reaches this server on
func localAPIURL(cfg *utils.Config) string {
	host := cfg.APIHost
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(cfg.APIPort))
}
