// Package tray mirrors the clip flow in the system tray: whether a request is
// running, how many clips came back and whether the last one failed.
package tray

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/clipstream/clipstream/internal/controller"
)

//go:embed icon.png
var iconBytes []byte

const (
	statusIdle     = "Status: Idle"
	statusClipping = "Status: Clipping..."
	statusError    = "Status: Error"
)

// titled is the part of *systray.MenuItem the tray writes to.
type titled interface {
	SetTitle(title string)
}

// Tray implements controller.UI. Updates that arrive before the menu exists
// are kept and applied once it is ready.
type Tray struct {
	logger *slog.Logger
	onQuit func()

	mu         sync.Mutex
	status     string
	clips      string
	statusItem titled
	clipsItem  titled
}

type Config struct {
	Logger *slog.Logger
	OnQuit func()
}

func New(cfg Config) *Tray {
	return &Tray{
		logger: cfg.Logger,
		onQuit: cfg.OnQuit,
		status: statusIdle,
		clips:  clipsTitle(0),
	}
}

// Run blocks on the platform tray loop until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("clipstream")
	systray.SetTooltip("clipstream")

	statusItem := systray.AddMenuItem(statusIdle, "Current request status")
	statusItem.Disable()
	clipsItem := systray.AddMenuItem(clipsTitle(0), "Clips in the last result")
	clipsItem.Disable()

	systray.AddSeparator()
	quitItem := systray.AddMenuItem("Quit", "Quit clipstream")

	t.attach(statusItem, clipsItem)

	go func() {
		<-quitItem.ClickedCh
		t.logger.Info("quit requested from tray")
		if t.onQuit != nil {
			t.onQuit()
		}
		systray.Quit()
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) attach(statusItem, clipsItem titled) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statusItem = statusItem
	t.clipsItem = clipsItem
	statusItem.SetTitle(t.status)
	clipsItem.SetTitle(t.clips)
}

func (t *Tray) ClearURL() {}

func (t *Tray) SetPreview(controller.Preview) {}

func (t *Tray) SetSubmitEnabled(bool) {}

func (t *Tray) SetBusy(busy bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if busy {
		t.setStatus(statusClipping)
		return
	}
	// an alert raised during the request stays visible
	if t.status == statusClipping {
		t.setStatus(statusIdle)
	}
}

func (t *Tray) SetResults(v controller.View) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clips = clipsTitle(len(v.Clips()))
	if t.clipsItem != nil {
		t.clipsItem.SetTitle(t.clips)
	}
}

func (t *Tray) Alert(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setStatus(statusError)
}

// Status returns the current status line.
func (t *Tray) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Tray) setStatus(s string) {
	t.status = s
	if t.statusItem != nil {
		t.statusItem.SetTitle(s)
	}
}

func (t *Tray) Quit() {
	systray.Quit()
}

func clipsTitle(n int) string {
	return fmt.Sprintf("Clips: %d", n)
}
