package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/clipstream/clipstream/internal/clipapi"
	"github.com/clipstream/clipstream/internal/config"
	"github.com/clipstream/clipstream/internal/logging"
)

type rootOptions struct {
	dryRun bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	tuiCmd := newTUICmd(opts)

	cmd := &cobra.Command{
		Use:   "clipstream",
		Short: "Send a live stream URL or a video file to a clipping server",
		Long: `clipstream sends a live stream URL or a local video file to a clipping
server and shows the clips and topics it finds.

Without a subcommand it starts the interactive terminal UI.

Environment:
` + config.Usage(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          tuiCmd.RunE,
	}

	cmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "answer every request locally with an empty result")

	cmd.AddCommand(tuiCmd)
	cmd.AddCommand(newClipCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig reads the environment and makes sure the data directory exists.
func loadConfig() (config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	return logging.NewLogger(cfg.LogLevel(), cfg.LogFormat(), w)
}

func newClient(cfg config.Config, opts *rootOptions, logger *slog.Logger) clipapi.Client {
	if opts.dryRun {
		logger.Info("dry run: requests are answered locally")
		return clipapi.NewStubClient(logger)
	}
	return clipapi.NewHTTPClient(cfg.ServerURL(), clipapi.Options{
		Timeout:          cfg.RequestTimeout(),
		MaxResponseBytes: cfg.MaxResponseBytes(),
	}, logger)
}
