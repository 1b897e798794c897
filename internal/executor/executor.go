package executor

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/studiowebux/wayqa/internal/logging"
	"github.com/studiowebux/wayqa/internal/types"
)

// Sender performs one HTTP exchange. Implementations must be safe to call
// from a goroutine other than the one that created them.
type Sender interface {
	Send(ctx context.Context, method types.Method, url string) (*RawResponse, error)
}

// SenderFunc adapts a function to the Sender interface
type SenderFunc func(ctx context.Context, method types.Method, url string) (*RawResponse, error)

// Send calls f
func (f SenderFunc) Send(ctx context.Context, method types.Method, url string) (*RawResponse, error) {
	return f(ctx, method, url)
}

// RawResponse is what a Sender hands back before any decoding
type RawResponse struct {
	StatusCode int
	StatusText string
	// Headers lists one entry per value. Values of one name keep the order
	// received. Order across names is the Sender's: HTTPSender sorts by
	// name because net/http does not keep it.
	Headers       []types.Header
	Body          []byte
	ContentLength int64 // -1 when the server did not declare one
	Truncated     bool  // Body stops at the Sender's size cap
}

// Recorder persists completed executions
type Recorder interface {
	Record(req types.Request, resp *types.Response) error
}

// Executor turns a Request into a Response through a Sender
type Executor struct {
	sender   Sender
	recorder Recorder
	logger   *log.Logger
	now      func() time.Time
}

// Option configures an Executor
type Option func(*Executor)

// WithRecorder saves every completed execution, failures included
func WithRecorder(r Recorder) Option {
	return func(e *Executor) { e.recorder = r }
}

// WithLogger sets the logger used for request lifecycle events
func WithLogger(l *log.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithClock replaces time.Now for elapsed and timestamp measurement
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

// New creates an executor around sender
func New(sender Sender, opts ...Option) *Executor {
	e := &Executor{
		sender: sender,
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute sends req and captures the result. The returned Response is
// never nil: a failed execution yields a diagnostic Response and a
// non-nil *RequestError. Non-2xx statuses are not failures.
func (e *Executor) Execute(ctx context.Context, req types.Request) (*types.Response, error) {
	e.logger.Debug("request started", "method", req.Method, "url", req.URL)

	start := e.now()
	raw, err := e.sender.Send(ctx, req.Method, strings.TrimSpace(req.URL))
	end := e.now()
	elapsed := end.Sub(start)

	var resp *types.Response
	if err != nil {
		reqErr := &RequestError{Kind: KindNetwork, Err: err}
		resp = failureResponse(reqErr, elapsed, end)
		err = reqErr
	} else {
		resp, err = buildResponse(raw, elapsed, end)
	}

	if err != nil {
		e.logger.Warn("request failed", "method", req.Method, "url", req.URL, "elapsed", elapsed, "err", err)
	} else {
		e.logger.Info("request completed", "method", req.Method, "url", req.URL,
			"status", resp.StatusCode, "elapsed", elapsed, "size", resp.Size)
		if resp.Truncated {
			e.logger.Warn("response body truncated", "url", req.URL, "kept", len(raw.Body))
		}
	}

	if e.recorder != nil {
		if recErr := e.recorder.Record(req, resp); recErr != nil {
			e.logger.Error("failed to save history entry", "err", recErr)
		}
	}

	return resp, err
}

// buildResponse decodes a raw exchange into a Response
func buildResponse(raw *RawResponse, elapsed time.Duration, ts time.Time) (*types.Response, error) {
	headers := append([]types.Header(nil), raw.Headers...)
	contentType := headerValue(headers, "Content-Type")

	size := raw.ContentLength
	if size < 0 {
		size = int64(len(raw.Body))
	}

	resp := &types.Response{
		StatusCode: raw.StatusCode,
		StatusText: raw.StatusText,
		Elapsed:    elapsed,
		Size:       size,
		Timestamp:  ts,
		Headers:    headers,
		Cookies:    parseCookies(headers),
		Truncated:  raw.Truncated,
	}

	body, format, err := decodeBody(contentType, raw.Body)
	if err != nil {
		reqErr := &RequestError{Kind: KindDecode, Err: err}
		resp.Body = reqErr.Message()
		resp.BodyFormat = types.FormatError
		resp.Error = reqErr.Message()
		return resp, reqErr
	}

	resp.Body = body
	resp.BodyFormat = format
	return resp, nil
}

// failureResponse builds the diagnostic shown when no response arrived
func failureResponse(err *RequestError, elapsed time.Duration, ts time.Time) *types.Response {
	msg := err.Message()
	return &types.Response{
		Body:       msg,
		BodyFormat: types.FormatError,
		Elapsed:    elapsed,
		Timestamp:  ts,
		Error:      msg,
	}
}

func headerValue(headers []types.Header, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
