package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"iscoolgpt/client"
	"iscoolgpt/services"
	"iscoolgpt/utils"
)

func newDiscordCommand() *cobra.Command {
	var (
		apiURL string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "discord",
		Short: "Run the IsCoolGPT Discord bot against an API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := utils.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("api-url") {
				cfg.Discord.APIBaseURL = apiURL
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Discord.CommandPrefix = prefix
			}

			bot, err := services.NewDiscordService(cfg.Discord, client.New())
			if err != nil {
				return err
			}
			if err := bot.Start(); err != nil {
				return err
			}
			defer func() {
				if err := bot.Stop(); err != nil {
					log.Error().Err(err).Msg("Error closing Discord connection")
				}
			}()

			<-cmd.Context().Done()
			status := bot.Status()
			log.Info().Str("uptime", status.Uptime).Int("sessions", status.Sessions).Msg("Discord bot stopping")
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", utils.DefaultAPIBaseURL, "Base URL of the IsCoolGPT API")
	cmd.Flags().StringVar(&prefix, "prefix", "!iscool ", "Command prefix")

	return cmd
}
