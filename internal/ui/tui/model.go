// Package tui is the interactive terminal front end: a URL field, a file path
// field, a start control, a spinner while the server works and the results.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clipstream/clipstream/internal/clip"
	"github.com/clipstream/clipstream/internal/controller"
	"github.com/clipstream/clipstream/internal/logging"
)

const (
	focusURL = iota
	focusFile
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle    = lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("245"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	buttonStyle   = lipgloss.NewStyle().Padding(0, 2).Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230"))
	disabledStyle = lipgloss.NewStyle().Padding(0, 2).Background(lipgloss.Color("238")).Foreground(lipgloss.Color("245"))
	videoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	headingStyle  = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
	topicStyle    = lipgloss.NewStyle().Bold(true)
	alertStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)
)

// doneMsg carries the outcome of Send back onto the loop.
type doneMsg struct {
	req    *controller.Request
	result clip.Result
	err    error
}

type Model struct {
	ctx       context.Context
	ctrl      *controller.Controller
	surface   *Surface
	serverURL string
	logger    *slog.Logger

	url     textinput.Model
	path    textinput.Model
	focus   int
	spinner spinner.Model
	width   int
}

type Options struct {
	ServerURL string
	Logger    *slog.Logger
}

// NewModel builds the screen. surface must be the UI (or part of the UI) the
// controller was created with.
func NewModel(ctx context.Context, ctrl *controller.Controller, surface *Surface, opts Options) *Model {
	url := textinput.New()
	url.Placeholder = "https://… live stream or video URL"
	url.Prompt = ""
	url.CharLimit = 2048
	url.Focus()

	path := textinput.New()
	path.Placeholder = "/path/to/video.mp4 (enter to pick)"
	path.Prompt = ""
	path.CharLimit = 4096

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Model{
		ctx:       ctx,
		ctrl:      ctrl,
		surface:   surface,
		serverURL: opts.ServerURL,
		logger:    logging.WithComponent(logger, "tui"),
		url:       url,
		path:      path,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m *Model) Init() tea.Cmd {
	m.surface.SetSubmitEnabled(m.ctrl.SubmitEnabled())
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := max(20, msg.Width-labelStyle.GetWidth()-2)
		m.url.Width = w
		m.path.Width = w
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case doneMsg:
		m.ctrl.Finish(msg.req, msg.result, msg.err)
		m.sync()
		return m, nil

	case spinner.TickMsg:
		if !m.surface.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// the alert is modal: nothing else reacts until it is dismissed
	if m.surface.alert != "" {
		switch msg.String() {
		case "enter", "esc", " ":
			m.surface.alert = ""
		case "ctrl+c":
			return tea.Quit
		}
		return nil
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return tea.Quit
	case "tab", "shift+tab":
		m.toggleFocus()
		return nil
	case "ctrl+s":
		return m.submit()
	case "enter":
		if m.focus == focusFile {
			m.pickFile()
			return nil
		}
		return m.submit()
	}

	return m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == focusURL {
		before := m.url.Value()
		m.url, cmd = m.url.Update(msg)
		if m.url.Value() != before {
			m.ctrl.OnURLInputChanged(m.url.Value())
			m.sync()
		}
		return cmd
	}
	m.path, cmd = m.path.Update(msg)
	return cmd
}

func (m *Model) toggleFocus() {
	if m.focus == focusURL {
		m.focus = focusFile
		m.url.Blur()
		m.path.Focus()
		return
	}
	m.focus = focusURL
	m.path.Blur()
	m.url.Focus()
}

func (m *Model) pickFile() {
	p := strings.Trim(strings.TrimSpace(m.path.Value()), `'"`)
	if p == "" {
		return
	}
	f, err := clip.OpenFile(p)
	if err != nil {
		m.surface.Alert(fmt.Sprintf("Cannot use %s: %v", p, err))
		return
	}
	m.ctrl.OnFileSelected(f)
	m.sync()
}

func (m *Model) submit() tea.Cmd {
	req, err := m.ctrl.Begin()
	m.sync()
	if err != nil {
		if !errors.Is(err, controller.ErrInFlight) && !errors.Is(err, controller.ErrNoSelection) {
			m.logger.Error("submit failed", "error", err)
		}
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.send(req))
}

func (m *Model) send(req *controller.Request) tea.Cmd {
	ctx := m.ctx
	ctrl := m.ctrl
	return func() tea.Msg {
		result, err := ctrl.Send(ctx, req)
		return doneMsg{req: req, result: result, err: err}
	}
}

// sync applies controller requests that touch widgets the surface does not own.
func (m *Model) sync() {
	if m.surface.takeClearURL() {
		m.url.SetValue("")
	}
	if m.surface.takeClearFile() {
		m.path.SetValue("")
	}
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("clipstream"))
	if m.serverURL != "" {
		b.WriteString(mutedStyle.Render("  → " + m.serverURL))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Stream URL") + m.url.View() + "\n")
	b.WriteString(labelStyle.Render("Video file") + m.path.View() + "\n")

	if p := m.surface.preview; p.Visible() {
		line := "Selected: " + p.Filename
		if p.Ref != "" {
			line += "  preview: " + p.Ref
		}
		b.WriteString(labelStyle.Render("") + mutedStyle.Render(line) + "\n")
	}
	b.WriteString("\n")

	if m.surface.submitEnabled {
		b.WriteString(buttonStyle.Render("Start clipping"))
	} else {
		b.WriteString(disabledStyle.Render("Start clipping"))
	}
	if m.surface.busy {
		b.WriteString("  " + m.spinner.View() + " Clipping…")
	}
	b.WriteString("\n")

	if !m.surface.results.Empty() {
		b.WriteString("\n")
		b.WriteString(renderView(m.surface.results))
	}

	if m.surface.alert != "" {
		b.WriteString("\n" + alertStyle.Render(m.surface.alert+"\n\n"+mutedStyle.Render("enter to dismiss")) + "\n")
	}

	b.WriteString("\n" + mutedStyle.Render("tab switch field • enter pick file / start • ctrl+s start • esc quit"))
	return b.String()
}

func renderView(v controller.View) string {
	var b strings.Builder
	for _, blk := range v.Blocks {
		switch blk.Kind {
		case controller.BlockVideo:
			b.WriteString(videoStyle.Render("▶ "+blk.Src) + "\n")
		case controller.BlockMessage:
			b.WriteString(blk.Text + "\n")
		case controller.BlockHeading:
			b.WriteString(headingStyle.Render(blk.Text) + "\n")
		case controller.BlockTopic:
			b.WriteString(topicStyle.Render(blk.Label) + ": " + blk.Description + "\n")
		}
	}
	return b.String()
}

// Run drives m until the user quits or ctx ends.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
