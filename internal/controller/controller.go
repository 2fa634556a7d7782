// Package controller mediates between user input, the clipping server and the
// rendering of its answer.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clipstream/clipstream/internal/clip"
	"github.com/clipstream/clipstream/internal/logging"
)

// NoSelectionMessage is shown when submit is triggered with nothing chosen.
const NoSelectionMessage = "Please upload a video or enter a live stream URL."

var (
	// ErrNoSelection is returned by Begin and Submit when neither a URL nor a
	// file is selected. No request is sent.
	ErrNoSelection = errors.New("no URL or file selected")
	// ErrInFlight is returned by Begin while a previous request is unresolved.
	ErrInFlight = errors.New("a clip request is already in flight")
)

type State int

const (
	Idle State = iota
	InFlight
)

func (s State) String() string {
	if s == InFlight {
		return "in_flight"
	}
	return "idle"
}

// Request is one submission, created by Begin and resolved by Finish.
type Request struct {
	Selection clip.Selection
}

type Config struct {
	UI  UI
	API ClipAPI
	// Previewer is optional; without it previews carry the file path.
	Previewer Previewer
	// ClipBaseURL, when set, resolves server-relative clip references.
	ClipBaseURL string
	Logger      *slog.Logger
}

// Controller owns the input selection and submission state.
//
// It is not safe for concurrent use: call every method except Send from the
// goroutine running the UI event loop. Send touches no controller state and
// is meant to run off that loop.
type Controller struct {
	ui        UI
	api       ClipAPI
	previewer Previewer
	clipBase  string
	logger    *slog.Logger

	selection  clip.Selection
	state      State
	previewRef string
}

func New(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Controller{
		ui:        cfg.UI,
		api:       cfg.API,
		previewer: cfg.Previewer,
		clipBase:  cfg.ClipBaseURL,
		logger:    logging.WithComponent(logger, "controller"),
	}
}

func (c *Controller) Selection() clip.Selection {
	return c.selection
}

func (c *Controller) State() State {
	return c.state
}

// SubmitEnabled reports whether a submission may start now.
func (c *Controller) SubmitEnabled() bool {
	return c.state == Idle && !c.selection.IsEmpty()
}

// OnURLInputChanged handles every edit of the URL field. Non-blank text takes
// over the selection and drops any file. Blank text only clears a URL
// selection, so a chosen file survives whitespace typed into the field.
func (c *Controller) OnURLInputChanged(text string) {
	next := clip.URLSelection(text)

	if !next.IsEmpty() {
		c.hidePreview()
		c.setSelection(next)
		return
	}

	if c.selection.Kind() == clip.KindURL {
		c.setSelection(clip.Selection{})
		return
	}
	c.ui.SetSubmitEnabled(c.SubmitEnabled())
}

// OnFileSelected takes the first of files as the selection, shows its preview
// and clears the URL field. An empty pick changes nothing.
func (c *Controller) OnFileSelected(files ...clip.File) {
	if len(files) == 0 {
		return
	}
	f := files[0]

	c.revokePreview()
	ref := f.Path()
	if c.previewer != nil {
		r, err := c.previewer.Register(f)
		if err != nil {
			c.logger.Warn("preview unavailable", "filename", f.Name, "error", err)
			r = ""
		}
		ref = r
		c.previewRef = r
	}

	c.ui.SetPreview(Preview{Ref: ref, Filename: f.Name})
	c.ui.ClearURL()
	c.setSelection(clip.FileSelection(f))
}

// Begin starts a submission: it disables submit, shows the busy indicator and
// clears previous results, in that order, before any request exists.
func (c *Controller) Begin() (*Request, error) {
	if c.state == InFlight {
		return nil, ErrInFlight
	}

	if c.selection.IsEmpty() {
		c.ui.Alert(NoSelectionMessage)
		c.ui.SetBusy(false)
		c.ui.SetSubmitEnabled(true)
		return nil, ErrNoSelection
	}

	c.state = InFlight
	c.ui.SetSubmitEnabled(false)
	c.ui.SetBusy(true)
	c.ui.SetResults(View{})

	c.logger.Info("submission started", "mode", c.selection.Kind().String())
	return &Request{Selection: c.selection}, nil
}

// Send issues exactly one request for req.
func (c *Controller) Send(ctx context.Context, req *Request) (clip.Result, error) {
	switch req.Selection.Kind() {
	case clip.KindURL:
		u, _ := req.Selection.URL()
		return c.api.DownloadLink(ctx, u)
	case clip.KindFile:
		f, _ := req.Selection.File()
		return c.api.Upload(ctx, f)
	default:
		return clip.Result{}, ErrNoSelection
	}
}

// Finish resolves req: it renders the result or alerts the failure, then
// always hides the busy indicator and re-enables submit. It returns err.
func (c *Controller) Finish(req *Request, result clip.Result, err error) error {
	defer func() {
		c.state = Idle
		c.ui.SetBusy(false)
		c.ui.SetSubmitEnabled(true)
	}()

	if err != nil {
		c.logger.Error("submission failed", "mode", req.Selection.Kind().String(), "error", err)
		c.ui.Alert(AlertMessage(err))
		return err
	}

	view := c.Render(result)
	c.ui.SetResults(view)
	c.logger.Info("submission finished",
		"mode", req.Selection.Kind().String(),
		"clips", len(result.Clips),
		"topics", len(result.Topics),
	)
	return nil
}

// Submit runs Begin, Send and Finish on the calling goroutine.
func (c *Controller) Submit(ctx context.Context) (clip.Result, error) {
	req, err := c.Begin()
	if err != nil {
		return clip.Result{}, err
	}
	result, err := c.Send(ctx, req)
	if ferr := c.Finish(req, result, err); ferr != nil {
		return clip.Result{}, ferr
	}
	return result, nil
}

// Render clears the results area and shows r in it.
func (c *Controller) Render(r clip.Result) View {
	if c.clipBase != "" {
		r = r.ResolveClips(c.clipBase)
	}
	return Render(r)
}

// Close releases the current preview reference.
func (c *Controller) Close() {
	c.revokePreview()
}

// AlertMessage words err for the user.
func AlertMessage(err error) string {
	if errors.Is(err, ErrNoSelection) {
		return NoSelectionMessage
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

func (c *Controller) setSelection(s clip.Selection) {
	c.selection = s
	c.ui.SetSubmitEnabled(c.SubmitEnabled())
}

func (c *Controller) hidePreview() {
	c.revokePreview()
	c.ui.SetPreview(Preview{})
}

func (c *Controller) revokePreview() {
	if c.previewer != nil && c.previewRef != "" {
		c.previewer.Revoke(c.previewRef)
	}
	c.previewRef = ""
}
