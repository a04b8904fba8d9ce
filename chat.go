package main

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"iscoolgpt/client"
	"iscoolgpt/session"
	"iscoolgpt/tui"
	"iscoolgpt/utils"
)

func newChatCommand() *cobra.Command {
	var (
		apiURL  string
		timeout time.Duration
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with IsCoolGPT from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return errors.Wrap(err, "failed to open log file")
				}
				defer f.Close()
				out = f
			}
			utils.SetupLogging(logLevel, false, out)

			if !cmd.Flags().Changed("api-url") {
				cfg, err := utils.LoadConfig()
				if err != nil {
					return err
				}
				apiURL = cfg.APIBaseURL
			}

			var opts []client.Option
			if timeout > 0 {
				opts = append(opts, client.WithTimeout(timeout))
			}

			view := tui.NewProgramView()
			sess := session.NewSession(client.New(opts...), view,
				session.WithBaseURL(apiURL),
				session.WithLogger(log.With().Str("component", "chat").Logger()),
			)
			return tui.Run(cmd.Context(), sess, view)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", utils.DefaultAPIBaseURL, "Base URL of the IsCoolGPT API")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (0 waits until the API answers)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file (logs are discarded otherwise)")

	return cmd
}
