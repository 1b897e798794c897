package executor

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/studiowebux/wayqa/internal/types"
)

// stepClock returns a clock that advances by step on every call
func stepClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func stubSender(raw *RawResponse, err error) SenderFunc {
	return func(ctx context.Context, method types.Method, url string) (*RawResponse, error) {
		return raw, err
	}
}

type recorderFunc func(types.Request, *types.Response) error

func (f recorderFunc) Record(req types.Request, resp *types.Response) error { return f(req, resp) }

func TestExecute_Success(t *testing.T) {
	headers := []types.Header{{Name: "content-type", Value: "text/plain"}}
	exec := New(stubSender(&RawResponse{
		StatusCode:    200,
		StatusText:    "OK",
		Headers:       headers,
		Body:          []byte("ok"),
		ContentLength: -1,
	}, nil), WithClock(stepClock(5*time.Millisecond)))

	resp, err := exec.Execute(context.Background(), types.Request{Method: types.MethodGet, URL: "http://x"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if resp.StatusText != "OK" {
		t.Errorf("StatusText = %q, want OK", resp.StatusText)
	}
	if resp.Body != "ok" {
		t.Errorf("Body = %q, want ok", resp.Body)
	}
	if resp.Elapsed <= 0 {
		t.Errorf("Elapsed = %s, want > 0", resp.Elapsed)
	}
	if !reflect.DeepEqual(resp.Headers, headers) {
		t.Errorf("Headers = %v, want %v", resp.Headers, headers)
	}
	if resp.BodyFormat != types.FormatText {
		t.Errorf("BodyFormat = %s, want text", resp.BodyFormat)
	}
	if resp.Size != 2 {
		t.Errorf("Size = %d, want measured length 2", resp.Size)
	}
	if resp.Failed() {
		t.Errorf("response should not be a failure: %s", resp.Error)
	}
}

func TestExecute_PassesMethodAndTrimmedURL(t *testing.T) {
	var gotMethod types.Method
	var gotURL string
	exec := New(SenderFunc(func(ctx context.Context, method types.Method, url string) (*RawResponse, error) {
		gotMethod, gotURL = method, url
		return &RawResponse{StatusCode: 204, ContentLength: 0}, nil
	}))

	if _, err := exec.Execute(context.Background(), types.Request{Method: types.MethodDelete, URL: "  http://x/1 "}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if gotMethod != types.MethodDelete || gotURL != "http://x/1" {
		t.Errorf("sender got (%s, %q), want (DELETE, \"http://x/1\")", gotMethod, gotURL)
	}
}

func TestExecute_DeclaredLengthWins(t *testing.T) {
	exec := New(stubSender(&RawResponse{StatusCode: 200, ContentLength: 1234}, nil))

	resp, err := exec.Execute(context.Background(), types.Request{URL: "http://x"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Size != 1234 {
		t.Errorf("Size = %d, want declared 1234", resp.Size)
	}
}

func TestExecute_TruncatedBody(t *testing.T) {
	exec := New(stubSender(&RawResponse{
		StatusCode:    200,
		Headers:       []types.Header{{Name: "Content-Type", Value: "text/plain"}},
		Body:          []byte("partial"),
		ContentLength: -1,
		Truncated:     true,
	}, nil))

	resp, err := exec.Execute(context.Background(), types.Request{URL: "http://x"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !resp.Truncated || resp.Body != "partial" {
		t.Errorf("got Truncated=%v Body=%q, want the partial body marked truncated", resp.Truncated, resp.Body)
	}
}

func TestExecute_NonSuccessStatusIsNotFailure(t *testing.T) {
	exec := New(stubSender(&RawResponse{
		StatusCode:    404,
		StatusText:    "Not Found",
		Body:          []byte(`{"error":"missing"}`),
		Headers:       []types.Header{{Name: "Content-Type", Value: "application/json"}},
		ContentLength: -1,
	}, nil))

	resp, err := exec.Execute(context.Background(), types.Request{URL: "http://x"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Failed() || resp.StatusCode != 404 || resp.BodyFormat != types.FormatJSON {
		t.Errorf("got %+v, want a normal 404 JSON response", resp)
	}
}

func TestExecute_Cookies(t *testing.T) {
	exec := New(stubSender(&RawResponse{
		StatusCode: 200,
		Headers: []types.Header{
			{Name: "Set-Cookie", Value: "session=abc; Path=/; HttpOnly; Secure"},
			{Name: "Set-Cookie", Value: "theme=dark; Max-Age=60; Domain=example.com"},
			{Name: "Set-Cookie", Value: "=broken"},
		},
		ContentLength: -1,
	}, nil))

	resp, err := exec.Execute(context.Background(), types.Request{URL: "http://x"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(resp.Cookies) != 2 {
		t.Fatalf("got %d cookies, want 2: %+v", len(resp.Cookies), resp.Cookies)
	}

	first := resp.Cookies[0]
	if first.Name != "session" || first.Value != "abc" || first.Path != "/" || !first.HTTPOnly || !first.Secure {
		t.Errorf("first cookie = %+v", first)
	}

	second := resp.Cookies[1]
	if second.Name != "theme" || second.MaxAge != 60 || second.Domain != "example.com" {
		t.Errorf("second cookie = %+v", second)
	}
}

func TestExecute_NetworkFailure(t *testing.T) {
	exec := New(stubSender(nil, errors.New("dial tcp 127.0.0.1:1: connect: connection refused")),
		WithClock(stepClock(time.Millisecond)))

	resp, err := exec.Execute(context.Background(), types.Request{URL: "http://127.0.0.1:1"})

	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Kind != KindNetwork {
		t.Fatalf("error = %v, want a network RequestError", err)
	}
	if resp == nil {
		t.Fatal("a diagnostic response is required on failure")
	}
	if resp.BodyFormat != types.FormatError || !resp.Failed() {
		t.Errorf("response should be a diagnostic, got %+v", resp)
	}
	if resp.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", resp.StatusCode)
	}
	want := "Connection refused - check if server is running and port is correct"
	if resp.Body != want {
		t.Errorf("Body = %q, want %q", resp.Body, want)
	}
}

func TestExecute_DecodeFailure(t *testing.T) {
	exec := New(stubSender(&RawResponse{
		StatusCode:    200,
		StatusText:    "OK",
		Headers:       []types.Header{{Name: "Content-Type", Value: "image/png"}},
		Body:          []byte{0x89, 'P', 'N', 'G', 0, 0xff},
		ContentLength: 6,
	}, nil))

	resp, err := exec.Execute(context.Background(), types.Request{URL: "http://x/logo.png"})

	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Kind != KindDecode {
		t.Fatalf("error = %v, want a decode RequestError", err)
	}
	if !errors.Is(err, ErrNotText) {
		t.Errorf("error should wrap ErrNotText: %v", err)
	}
	if resp.StatusCode != 200 || resp.BodyFormat != types.FormatError || !resp.Failed() {
		t.Errorf("got %+v, want status kept and a diagnostic body", resp)
	}
}

func TestExecute_RecordsEveryOutcome(t *testing.T) {
	var recorded []int
	rec := recorderFunc(func(req types.Request, resp *types.Response) error {
		recorded = append(recorded, resp.StatusCode)
		return errors.New("disk full") // logged, never surfaced
	})

	ok := New(stubSender(&RawResponse{StatusCode: 201, ContentLength: -1}, nil), WithRecorder(rec))
	if _, err := ok.Execute(context.Background(), types.Request{URL: "http://x"}); err != nil {
		t.Fatalf("recorder errors must not fail the execution: %v", err)
	}

	failing := New(stubSender(nil, errors.New("no such host")), WithRecorder(rec))
	failing.Execute(context.Background(), types.Request{URL: "http://x"})

	if !reflect.DeepEqual(recorded, []int{201, 0}) {
		t.Errorf("recorded = %v, want [201 0]", recorded)
	}
}
