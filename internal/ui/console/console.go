// Package console renders the clip flow as plain terminal output for
// one-shot, non-interactive runs.
package console

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/clipstream/clipstream/internal/controller"
	"github.com/fatih/color"
)

var (
	busyStyle    = color.New(color.FgYellow)
	videoStyle   = color.New(color.FgCyan)
	headingStyle = color.New(color.Bold, color.Underline)
	labelStyle   = color.New(color.Bold)
	alertStyle   = color.New(color.FgRed, color.Bold)
	mutedStyle   = color.New(color.Faint)
)

// Console writes results to out and alerts to errOut.
type Console struct {
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger

	busySince time.Time
	last      controller.View
	alerted   bool
}

func New(out, errOut io.Writer, logger *slog.Logger) *Console {
	return &Console{out: out, errOut: errOut, logger: logger}
}

func (c *Console) ClearURL() {}

func (c *Console) SetPreview(p controller.Preview) {
	if !p.Visible() {
		return
	}
	mutedStyle.Fprintf(c.out, "Selected %s\n", p.Filename)
	if p.Ref != "" {
		mutedStyle.Fprintf(c.out, "  preview: %s\n", p.Ref)
	}
}

func (c *Console) SetBusy(busy bool) {
	if busy {
		c.busySince = time.Now()
		busyStyle.Fprintln(c.out, "Clipping... this can take a while for long videos.")
		return
	}
	if !c.busySince.IsZero() {
		mutedStyle.Fprintf(c.out, "Finished in %s\n", time.Since(c.busySince).Round(time.Second))
		c.busySince = time.Time{}
	}
}

func (c *Console) SetResults(v controller.View) {
	c.last = v
	for _, b := range v.Blocks {
		switch b.Kind {
		case controller.BlockVideo:
			videoStyle.Fprintf(c.out, "▶ %s\n", b.Src)
		case controller.BlockMessage:
			fmt.Fprintln(c.out, b.Text)
		case controller.BlockHeading:
			fmt.Fprintln(c.out)
			headingStyle.Fprintln(c.out, b.Text)
		case controller.BlockTopic:
			labelStyle.Fprint(c.out, b.Label)
			fmt.Fprintf(c.out, ": %s\n", b.Description)
		}
	}
}

func (c *Console) SetSubmitEnabled(enabled bool) {
	c.logger.Debug("submit control", "enabled", enabled)
}

func (c *Console) Alert(message string) {
	c.alerted = true
	alertStyle.Fprintln(c.errOut, message)
}

// LastView returns the most recently rendered results.
func (c *Console) LastView() controller.View {
	return c.last
}

// Alerted reports whether any alert was shown.
func (c *Console) Alerted() bool {
	return c.alerted
}
