package controller

import (
	"context"

	"github.com/clipstream/clipstream/internal/clip"
)

// UI is the surface the controller drives. Implementations only display what
// they are told; they hold no selection or submission state of their own.
type UI interface {
	// ClearURL empties the URL input field.
	ClearURL()
	// SetPreview shows the selected file, or hides the preview and filename
	// label when p is the zero Preview.
	SetPreview(p Preview)
	SetBusy(busy bool)
	// SetResults replaces everything in the results area.
	SetResults(v View)
	SetSubmitEnabled(enabled bool)
	// Alert shows a blocking, user-visible message.
	Alert(message string)
}

// Preview describes the local preview of a selected file.
type Preview struct {
	// Ref is a playable reference to the local file, empty if none could be made.
	Ref      string
	Filename string
}

func (p Preview) Visible() bool {
	return p.Filename != ""
}

// ClipAPI is the clipping server.
type ClipAPI interface {
	DownloadLink(ctx context.Context, url string) (clip.Result, error)
	Upload(ctx context.Context, file clip.File) (clip.Result, error)
}

// Previewer derives a local playable reference for a selected file.
type Previewer interface {
	Register(f clip.File) (string, error)
	Revoke(ref string)
}

// MultiUI fans every call out to each UI in order.
type MultiUI []UI

func (m MultiUI) ClearURL() {
	for _, u := range m {
		u.ClearURL()
	}
}

func (m MultiUI) SetPreview(p Preview) {
	for _, u := range m {
		u.SetPreview(p)
	}
}

func (m MultiUI) SetBusy(busy bool) {
	for _, u := range m {
		u.SetBusy(busy)
	}
}

func (m MultiUI) SetResults(v View) {
	for _, u := range m {
		u.SetResults(v)
	}
}

func (m MultiUI) SetSubmitEnabled(enabled bool) {
	for _, u := range m {
		u.SetSubmitEnabled(enabled)
	}
}

func (m MultiUI) Alert(message string) {
	for _, u := range m {
		u.Alert(message)
	}
}
