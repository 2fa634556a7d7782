package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clipstream/clipstream/internal/clip"
	"github.com/clipstream/clipstream/internal/clipapi"
	"github.com/clipstream/clipstream/internal/controller"
	"github.com/clipstream/clipstream/internal/logging"
)

type fakeAPI struct {
	result clip.Result
	err    error
	urls   []string
	files  []string
}

func (f *fakeAPI) DownloadLink(ctx context.Context, url string) (clip.Result, error) {
	f.urls = append(f.urls, url)
	return f.result, f.err
}

func (f *fakeAPI) Upload(ctx context.Context, file clip.File) (clip.Result, error) {
	f.files = append(f.files, file.Name)
	return f.result, f.err
}

func newTestModel(api *fakeAPI) (*Model, *Surface, *controller.Controller) {
	s := NewSurface()
	ctrl := controller.New(controller.Config{UI: s, API: api, Logger: logging.Discard()})
	m := NewModel(context.Background(), ctrl, s, Options{ServerURL: "http://127.0.0.1:5000", Logger: logging.Discard()})
	m.Init()
	return m, s, ctrl
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func press(m *Model, t tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: t})
	return cmd
}

// drain runs cmd and feeds every message it yields back into m, skipping
// the spinner ticks so the loop terminates.
func drain(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drain(m, c)
		}
	case doneMsg:
		m.Update(msg)
	}
}

func writeVideo(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(p, []byte("not really a video"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestModel_TypingURLEnablesSubmit(t *testing.T) {
	m, s, ctrl := newTestModel(&fakeAPI{})

	if s.submitEnabled {
		t.Fatal("submit enabled before any input")
	}
	typeText(m, "https://example.com/live")

	if !s.submitEnabled {
		t.Error("submit disabled after typing a URL")
	}
	if u, ok := ctrl.Selection().URL(); !ok || u != "https://example.com/live" {
		t.Errorf("selection = %v", ctrl.Selection())
	}
}

func TestModel_SubmitURL(t *testing.T) {
	api := &fakeAPI{result: clip.Result{
		Clips:  []string{"http://h/clips/a.mp4"},
		Topics: []clip.Topic{{Label: "sports", Description: "final whistle"}},
	}}
	m, s, ctrl := newTestModel(api)
	typeText(m, "https://example.com/live")

	cmd := press(m, tea.KeyCtrlS)
	if !s.busy || s.submitEnabled {
		t.Fatalf("after start busy=%v submitEnabled=%v", s.busy, s.submitEnabled)
	}
	if ctrl.State() != controller.InFlight {
		t.Fatalf("state = %v", ctrl.State())
	}
	drain(m, cmd)

	if len(api.urls) != 1 || api.urls[0] != "https://example.com/live" {
		t.Errorf("DownloadLink calls = %v", api.urls)
	}
	if s.busy || !s.submitEnabled {
		t.Errorf("after finish busy=%v submitEnabled=%v", s.busy, s.submitEnabled)
	}
	if got := s.results.Clips(); len(got) != 1 || got[0] != "http://h/clips/a.mp4" {
		t.Errorf("clips = %v", got)
	}
	view := m.View()
	if !strings.Contains(view, "http://h/clips/a.mp4") || !strings.Contains(view, "final whistle") {
		t.Errorf("view missing results:\n%s", view)
	}
}

func TestModel_SubmitWhileInFlightIgnored(t *testing.T) {
	api := &fakeAPI{}
	m, _, _ := newTestModel(api)
	typeText(m, "https://example.com/live")

	first := press(m, tea.KeyEnter)
	if second := press(m, tea.KeyCtrlS); second != nil {
		t.Error("second submit produced a command")
	}
	drain(m, first)

	if len(api.urls) != 1 {
		t.Errorf("DownloadLink calls = %d, want 1", len(api.urls))
	}
}

func TestModel_NoSelectionAlertIsModal(t *testing.T) {
	api := &fakeAPI{}
	m, s, _ := newTestModel(api)

	if cmd := press(m, tea.KeyCtrlS); cmd != nil {
		t.Error("empty submit produced a command")
	}
	if s.alert != controller.NoSelectionMessage {
		t.Fatalf("alert = %q", s.alert)
	}
	if !strings.Contains(m.View(), controller.NoSelectionMessage) {
		t.Error("alert not drawn")
	}

	typeText(m, "x")
	if !m.ctrl.Selection().IsEmpty() {
		t.Error("input reached the URL field while the alert was open")
	}

	press(m, tea.KeyEnter)
	if s.alert != "" {
		t.Errorf("alert still open: %q", s.alert)
	}
	if len(api.urls)+len(api.files) != 0 {
		t.Error("request sent without a selection")
	}
}

func TestModel_PickFileClearsURL(t *testing.T) {
	api := &fakeAPI{result: clip.EmptyResult()}
	m, s, ctrl := newTestModel(api)
	typeText(m, "https://example.com/live")

	path := writeVideo(t)
	press(m, tea.KeyTab)
	typeText(m, path)
	press(m, tea.KeyEnter)

	if ctrl.Selection().Kind() != clip.KindFile {
		t.Fatalf("selection = %v", ctrl.Selection())
	}
	if m.url.Value() != "" {
		t.Errorf("URL field = %q, want cleared", m.url.Value())
	}
	if s.preview.Filename != "talk.mp4" {
		t.Errorf("preview = %+v", s.preview)
	}

	drain(m, press(m, tea.KeyCtrlS))
	if len(api.files) != 1 || api.files[0] != "talk.mp4" {
		t.Errorf("Upload calls = %v", api.files)
	}
	if !strings.Contains(m.View(), controller.NoClipsMessage) {
		t.Error("no-clips message missing")
	}
}

func TestModel_TypingURLClearsFileField(t *testing.T) {
	m, s, ctrl := newTestModel(&fakeAPI{})

	press(m, tea.KeyTab)
	typeText(m, writeVideo(t))
	press(m, tea.KeyEnter)
	if ctrl.Selection().Kind() != clip.KindFile {
		t.Fatalf("selection = %v", ctrl.Selection())
	}

	press(m, tea.KeyTab)
	typeText(m, "h")
	press(m, tea.KeyBackspace)

	if !ctrl.Selection().IsEmpty() {
		t.Errorf("selection = %v, want empty", ctrl.Selection())
	}
	if s.preview.Visible() {
		t.Errorf("preview = %+v, want hidden", s.preview)
	}
	if m.path.Value() != "" {
		t.Errorf("file field = %q, want cleared", m.path.Value())
	}
	if s.submitEnabled {
		t.Error("submit enabled with nothing selected")
	}
}

func TestModel_PickMissingFileAlerts(t *testing.T) {
	m, s, ctrl := newTestModel(&fakeAPI{})

	press(m, tea.KeyTab)
	typeText(m, filepath.Join(t.TempDir(), "gone.mp4"))
	press(m, tea.KeyEnter)

	if s.alert == "" {
		t.Error("no alert for a missing file")
	}
	if !ctrl.Selection().IsEmpty() {
		t.Errorf("selection = %v", ctrl.Selection())
	}
}

func TestModel_FailureAlerts(t *testing.T) {
	api := &fakeAPI{err: &clipapi.ServerError{StatusCode: 502, Status: "Bad Gateway"}}
	m, s, _ := newTestModel(api)
	typeText(m, "https://example.com/live")

	drain(m, press(m, tea.KeyEnter))

	if s.alert != "Error: Server error: Bad Gateway" {
		t.Errorf("alert = %q", s.alert)
	}
	if s.busy || !s.submitEnabled {
		t.Errorf("busy=%v submitEnabled=%v", s.busy, s.submitEnabled)
	}
	if !s.results.Empty() {
		t.Errorf("results = %+v, want cleared", s.results)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _, _ := newTestModel(&fakeAPI{})

	cmd := press(m, tea.KeyEsc)
	if cmd == nil {
		t.Fatal("esc returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc did not quit")
	}
}

func TestSurface_ClearURLIsConsumedOnce(t *testing.T) {
	s := NewSurface()
	s.ClearURL()
	if !s.takeClearURL() {
		t.Error("first take = false")
	}
	if s.takeClearURL() {
		t.Error("second take = true")
	}
}

func TestSurface_HiddenPreviewClearsFile(t *testing.T) {
	s := NewSurface()
	s.SetPreview(controller.Preview{Filename: "talk.mp4"})
	if s.takeClearFile() {
		t.Error("visible preview requested a file clear")
	}
	s.SetPreview(controller.Preview{})
	if !s.takeClearFile() {
		t.Error("hidden preview did not request a file clear")
	}
}

var _ controller.UI = (*Surface)(nil)

func TestDoneMsgCarriesError(t *testing.T) {
	api := &fakeAPI{err: errors.New("boom")}
	m, _, ctrl := newTestModel(api)
	typeText(m, "https://example.com/live")

	req, err := ctrl.Begin()
	if err != nil {
		t.Fatal(err)
	}
	msg := m.send(req)()
	done, ok := msg.(doneMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if done.err == nil || done.req != req {
		t.Errorf("doneMsg = %+v", done)
	}
}
