package main

import (
	"os"

	"github.com/okian/wordboard/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logFormat string

	root := &cobra.Command{
		Use:          "wordboard",
		Short:        "Vocabulary and high score API",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return logger.Init(logger.WithEncoding(logFormat))
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log encoding: json or console")

	serve := newServeCmd()
	root.AddCommand(serve, newImportCmd(), newSmokeCmd())

	// Running the bare binary serves, like the serve subcommand.
	root.RunE = serve.RunE
	return root
}
