package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipstream/clipstream/internal/config"
	"github.com/clipstream/clipstream/internal/controller"
	"github.com/clipstream/clipstream/internal/logging"
	"github.com/clipstream/clipstream/internal/playback"
	"github.com/clipstream/clipstream/internal/ui/tray"
	"github.com/clipstream/clipstream/internal/ui/tui"
)

var _ controller.Previewer = (*playback.Server)(nil)

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
}

func runTUI(parent context.Context, opts *rootOptions) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// the screen belongs to the UI, so logs go to a file
	logFile, err := logging.OpenLogFile(cfg.LogFile())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger := newLogger(cfg, logFile)
	logger.Info("starting clipstream", "version", config.Version, "server", logging.SanitizeURL(cfg.ServerURL()))

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var previewer controller.Previewer
	previews := playback.NewServer(cfg.PreviewPort(), logger)
	if err := previews.Listen(); err != nil {
		logger.Warn("preview server unavailable, previews show file paths", "error", err)
	} else {
		previewer = previews
		go func() {
			if err := previews.Serve(); err != nil {
				logger.Error("preview server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := previews.Shutdown(shutdownCtx); err != nil {
				logger.Error("failed to shutdown preview server", "error", err)
			}
		}()
	}

	surface := tui.NewSurface()
	ui := controller.MultiUI{surface}

	if cfg.TrayEnabled() {
		t := tray.New(tray.Config{Logger: logger, OnQuit: cancel})
		ui = append(ui, t)
		go t.Run()
		defer t.Quit()
	}

	ctrl := controller.New(controller.Config{
		UI:          ui,
		API:         newClient(cfg, opts, logger),
		Previewer:   previewer,
		ClipBaseURL: cfg.ServerURL(),
		Logger:      logger,
	})
	defer ctrl.Close()

	model := tui.NewModel(ctx, ctrl, surface, tui.Options{
		ServerURL: cfg.ServerURL(),
		Logger:    logger,
	})
	if err := tui.Run(ctx, model); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}
