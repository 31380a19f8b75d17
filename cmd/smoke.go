package main

import (
	"context"
	"time"

	"github.com/okian/wordboard/internal/smoketest"
	"github.com/okian/wordboard/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultSmokeTimeout = 10 * time.Minute

func newSmokeCmd() *cobra.Command {
	cfg := smoketest.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Exercise a running server end to end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultSmokeTimeout)
			defer cancel()
			_, err := smoketest.Run(ctx, cfg, logger.Get())
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "base URL of the service")
	f.IntVar(&cfg.Players, "players", cfg.Players, "number of score owners")
	f.IntVar(&cfg.ScoresPerPlayer, "scores", cfg.ScoresPerPlayer, "scores per owner")
	f.IntVar(&cfg.Words, "words", cfg.Words, "words per bulk pass")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent requests")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	f.BoolVar(&cfg.Verbose, "verbose", false, "log every step")
	return cmd
}
