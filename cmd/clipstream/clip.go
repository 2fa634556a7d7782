package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clipstream/clipstream/internal/clip"
	"github.com/clipstream/clipstream/internal/controller"
	"github.com/clipstream/clipstream/internal/ui/console"
)

type clipOptions struct {
	url  string
	file string
	html string
}

func newClipCmd(root *rootOptions) *cobra.Command {
	opts := &clipOptions{}

	cmd := &cobra.Command{
		Use:   "clip (--url URL | --file PATH)",
		Short: "Clip one stream URL or video file and print the result",
		Example: `  clipstream clip --url https://example.com/live.m3u8
  clipstream clip --file talk.mp4 --html report.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClip(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "live stream or video URL")
	cmd.Flags().StringVar(&opts.file, "file", "", "local video file to upload")
	cmd.Flags().StringVar(&opts.html, "html", "", "also write the result as an HTML page to this file or directory")
	cmd.MarkFlagsMutuallyExclusive("url", "file")
	cmd.MarkFlagsOneRequired("url", "file")
	return cmd
}

func runClip(cmd *cobra.Command, root *rootOptions, opts *clipOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
	ctrl := controller.New(controller.Config{
		UI:          out,
		API:         newClient(cfg, root, logger),
		ClipBaseURL: cfg.ServerURL(),
		Logger:      logger,
	})
	defer ctrl.Close()

	source := opts.url
	if opts.file != "" {
		f, err := clip.OpenFile(opts.file)
		if err != nil {
			return fmt.Errorf("failed to open video: %w", err)
		}
		ctrl.OnFileSelected(f)
		source = f.Name
	} else {
		ctrl.OnURLInputChanged(opts.url)
	}

	if _, err := ctrl.Submit(ctx); err != nil {
		if out.Alerted() {
			return &reportedError{err: err}
		}
		return err
	}

	if opts.html != "" {
		path, err := console.ReportPath(opts.html, source)
		if err != nil {
			return err
		}
		if err := console.SaveReport(path, "Clips for "+source, out.LastView()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	}
	return nil
}
