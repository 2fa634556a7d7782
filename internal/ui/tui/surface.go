package tui

import "github.com/clipstream/clipstream/internal/controller"

// Surface is the TUI side of controller.UI. It only records what should be on
// screen; Model reads it when drawing. Both live on the bubbletea loop.
type Surface struct {
	clearURL      bool
	clearFile     bool
	preview       controller.Preview
	busy          bool
	results       controller.View
	submitEnabled bool
	alert         string
}

func NewSurface() *Surface {
	return &Surface{}
}

func (s *Surface) ClearURL() {
	s.clearURL = true
}

// SetPreview with a hidden preview means the file was deselected, so the
// file field is cleared too.
func (s *Surface) SetPreview(p controller.Preview) {
	s.preview = p
	if !p.Visible() {
		s.clearFile = true
	}
}

func (s *Surface) SetBusy(busy bool) {
	s.busy = busy
}

func (s *Surface) SetResults(v controller.View) {
	s.results = v
}

func (s *Surface) SetSubmitEnabled(enabled bool) {
	s.submitEnabled = enabled
}

// Alert keeps only the newest message; the modal shows one at a time.
func (s *Surface) Alert(message string) {
	s.alert = message
}

func (s *Surface) takeClearURL() bool {
	v := s.clearURL
	s.clearURL = false
	return v
}

func (s *Surface) takeClearFile() bool {
	v := s.clearFile
	s.clearFile = false
	return v
}
