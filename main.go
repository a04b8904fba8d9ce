package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"iscoolgpt/utils"
)

var logLevel string

func main() {
	if err := utils.LoadEnvWithFallback(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("iscoolgpt failed")
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "iscoolgpt",
		Short: "IsCoolGPT study assistant: API server, terminal chat and Discord bot",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// chat sets up its own file logger so the screen stays clean
			if cmd.Name() != "chat" {
				utils.SetupLogging(logLevel, true, os.Stderr)
			}
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level (trace, debug, info, warn, error)")

	root.AddCommand(newServeCommand(), newChatCommand(), newDiscordCommand())
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
