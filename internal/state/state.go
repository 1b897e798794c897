package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/studiowebux/wayqa/internal/debounce"
	"github.com/studiowebux/wayqa/internal/executor"
	"github.com/studiowebux/wayqa/internal/keybinds"
	"github.com/studiowebux/wayqa/internal/logging"
	"github.com/studiowebux/wayqa/internal/textedit"
	"github.com/studiowebux/wayqa/internal/types"
)

// Options configures a State
type Options struct {
	Registry *keybinds.Registry // defaults to keybinds.NewDefaultRegistry()
	Executor *executor.Executor // required to execute requests
	Logger   *log.Logger
	Now      func() time.Time

	// Context bounds every execution started from this State
	Context context.Context

	Project string
	Method  types.Method
	URL     string
}

// State is the application's aggregate root. It is owned by the event loop:
// every method must be called from that single goroutine. The only value
// produced elsewhere is the executor Task outcome, which is received in
// Poll.
type State struct {
	mode        Mode
	method      types.Method
	url         textedit.Buffer
	response    *types.Response
	requestTab  RequestTab
	responseTab ResponseTab

	layoutGate *debounce.Gate
	methodGate *debounce.Gate

	running bool
	task    *executor.Task
	frame   int

	projectPaneVisible bool
	project            string
	status             string
	responseScroll     int
	scrollLimit        int // -1 until a view reports it

	registry *keybinds.Registry
	executor *executor.Executor
	logger   *log.Logger
	now      func() time.Time
	ctx      context.Context
}

// New creates a State in Normal mode
func New(opts Options) *State {
	s := &State{
		mode:        ModeNormal,
		method:      opts.Method,
		url:         textedit.New(opts.URL),
		layoutGate:  debounce.New(debounce.DefaultWindow),
		methodGate:  debounce.New(debounce.DefaultWindow),
		project:     opts.Project,
		scrollLimit: -1,
		registry:    opts.Registry,
		executor:    opts.Executor,
		logger:      opts.Logger,
		now:         opts.Now,
		ctx:         opts.Context,
	}

	if s.registry == nil {
		s.registry = keybinds.NewDefaultRegistry()
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}

	return s
}

// setMode is the only place the mode changes
func (s *State) setMode(m Mode) {
	if s.mode == m {
		return
	}
	s.logger.Debug("mode changed", "from", s.mode, "to", m)
	s.mode = m
}

func (s *State) Mode() Mode                   { return s.mode }
func (s *State) RequestTab() RequestTab       { return s.requestTab }
func (s *State) ResponseTab() ResponseTab     { return s.responseTab }
func (s *State) Method() types.Method         { return s.method }
func (s *State) URL() string                  { return s.url.String() }
func (s *State) Cursor() int                  { return s.url.Cursor() }
func (s *State) CursorColumn() int            { return s.url.Column() }
func (s *State) Response() *types.Response    { return s.response }
func (s *State) Running() bool                { return s.running }
func (s *State) Frame() int                   { return s.frame }
func (s *State) ProjectPaneVisible() bool     { return s.projectPaneVisible }
func (s *State) Project() string              { return s.project }
func (s *State) Status() string               { return s.status }
func (s *State) ResponseScroll() int          { return s.responseScroll }
func (s *State) Registry() *keybinds.Registry { return s.registry }

// URLParts splits the URL at the cursor
func (s *State) URLParts() (before, after string) {
	return s.url.Split()
}

// Request returns a snapshot of the request being composed
func (s *State) Request() types.Request {
	return types.Request{Method: s.method, URL: s.url.String()}
}

// SetStatus replaces the status line message
func (s *State) SetStatus(msg string) {
	s.status = msg
}

// InsertText inserts pasted text at the cursor. Only the URL editor
// accepts text; line breaks are dropped.
func (s *State) InsertText(text string) bool {
	if s.mode != ModeRequestURL {
		return false
	}
	text = strings.NewReplacer("\r", "", "\n", "").Replace(text)
	s.url.InsertString(text)
	return text != ""
}

// OnTick advances the busy indicator and installs the outcome of the
// in-flight request once it is available
func (s *State) OnTick() {
	if !s.running {
		return
	}
	s.frame++
	s.Poll()
}

// Poll checks the in-flight request without blocking. It reports whether
// an outcome was installed.
func (s *State) Poll() bool {
	if s.task == nil {
		return false
	}

	outcome, ok := s.task.Poll()
	if !ok {
		return false
	}

	s.response = outcome.Response
	s.running = false
	s.task = nil
	s.resetScroll()

	if outcome.Err != nil {
		s.status = "Request failed"
		s.logger.Warn("request failed", "url", outcome.Request.URL, "err", outcome.Err)
	} else {
		resp := outcome.Response
		s.status = fmt.Sprintf("%d %s in %s", resp.StatusCode, resp.StatusText, executor.FormatDuration(resp.Elapsed))
	}
	return true
}

// execute starts the request unless one is already in flight
func (s *State) execute() Effect {
	if s.running {
		s.logger.Debug("execute ignored, request already running")
		return EffectNone
	}
	if s.executor == nil {
		s.status = "No executor configured"
		return EffectNone
	}

	req := s.Request()
	s.running = true
	s.frame = 0
	s.status = fmt.Sprintf("Sending %s %s", req.Method, req.URL)
	s.task = executor.Start(s.ctx, s.executor, req)
	return EffectRequestStarted
}

func (s *State) toggleLayout() {
	if !s.layoutGate.TryFire(s.now()) {
		return
	}
	s.projectPaneVisible = !s.projectPaneVisible
}

func (s *State) cycleMethod() {
	if !s.methodGate.TryFire(s.now()) {
		return
	}
	s.method = s.method.Next()
}

// SetScrollLimit records the largest offset the response view can show
// and clamps the current offset to it. The view calls it whenever the
// rendered content or its height changes.
func (s *State) SetScrollLimit(limit int) {
	s.scrollLimit = max(limit, 0)
	s.responseScroll = min(s.responseScroll, s.scrollLimit)
}

func (s *State) resetScroll() {
	s.responseScroll = 0
	s.scrollLimit = -1
}

func (s *State) scroll(delta int) {
	if s.response == nil {
		return
	}
	last := s.scrollLimit
	if last < 0 {
		// no view has measured the content yet
		last = strings.Count(s.response.Body, "\n")
	}
	s.responseScroll = min(max(s.responseScroll+delta, 0), last)
}
