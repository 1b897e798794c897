package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/studiowebux/wayqa/internal/analytics"
	"github.com/studiowebux/wayqa/internal/executor"
	"github.com/studiowebux/wayqa/internal/keybinds"
	"github.com/studiowebux/wayqa/internal/types"
	"gopkg.in/yaml.v3"
)

func newTestExecutor(t *testing.T) *executor.Executor {
	t.Helper()
	sender, err := executor.NewHTTPSender(executor.HTTPOptions{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewHTTPSender() error = %v", err)
	}
	return executor.New(sender)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/items":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"items":[{"id":1},{"id":2}]}`))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("not here"))
		default:
			w.Write([]byte("hello"))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSend_Text(t *testing.T) {
	server := newTestServer(t)
	var out bytes.Buffer

	err := Send(context.Background(), newTestExecutor(t), SendOptions{
		Request:      types.Request{Method: types.MethodGet, URL: server.URL + "/hello"},
		OutputFormat: "text",
		ShowHeaders:  true,
	}, &out)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"200 OK\n", "Duration: ", "Headers:\n", "Content-Type: text/plain", "\nhello\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "\x1b[") {
		t.Error("output should not be colored when Color is false")
	}
}

func TestSend_Query(t *testing.T) {
	server := newTestServer(t)
	var out bytes.Buffer

	err := Send(context.Background(), newTestExecutor(t), SendOptions{
		Request:      types.Request{URL: server.URL + "/items"},
		OutputFormat: "body",
		Query:        "items[].id",
	}, &out)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if out.String() != "[\n  1,\n  2\n]" {
		t.Errorf("output = %q", out.String())
	}
}

func TestSend_InvalidQueryRejectedBeforeSending(t *testing.T) {
	calls := 0
	exec := executor.New(executor.SenderFunc(func(ctx context.Context, method types.Method, url string) (*executor.RawResponse, error) {
		calls++
		return &executor.RawResponse{StatusCode: 200, ContentLength: -1}, nil
	}))
	var out bytes.Buffer

	err := Send(context.Background(), exec, SendOptions{
		Request: types.Request{URL: "http://x"},
		Query:   "items[",
	}, &out)
	if err == nil || !strings.Contains(err.Error(), "invalid JMESPath query") {
		t.Fatalf("Send() error = %v, want an invalid query error", err)
	}
	if calls != 0 {
		t.Errorf("request was sent %d times with an invalid query", calls)
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want nothing", out.String())
	}
}

func TestSend_StructuredFormats(t *testing.T) {
	server := newTestServer(t)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var out bytes.Buffer
			err := Send(context.Background(), newTestExecutor(t), SendOptions{
				Request:      types.Request{URL: server.URL + "/items"},
				OutputFormat: format,
			}, &out)
			if err != nil {
				t.Fatalf("Send() error = %v", err)
			}

			var decoded struct {
				StatusCode int    `json:"statusCode" yaml:"statusCode"`
				BodyFormat string `json:"bodyFormat" yaml:"bodyFormat"`
			}
			if format == "json" {
				err = json.Unmarshal(out.Bytes(), &decoded)
			} else {
				err = yaml.Unmarshal(out.Bytes(), &decoded)
			}
			if err != nil {
				t.Fatalf("output is not valid %s: %v", format, err)
			}
			if decoded.StatusCode != 200 || decoded.BodyFormat != "json" {
				t.Errorf("decoded = %+v", decoded)
			}
		})
	}
}

func TestSend_ErrorStatus(t *testing.T) {
	server := newTestServer(t)
	var out bytes.Buffer

	err := Send(context.Background(), newTestExecutor(t), SendOptions{
		Request: types.Request{URL: server.URL + "/missing"},
	}, &out)
	if !errors.Is(err, ErrRequestFailed) {
		t.Errorf("Send() error = %v, want ErrRequestFailed", err)
	}
	if !strings.HasPrefix(out.String(), "404 Not Found") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSend_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	var out bytes.Buffer
	err := Send(context.Background(), newTestExecutor(t), SendOptions{
		Request: types.Request{URL: url},
	}, &out)
	if !errors.Is(err, ErrRequestFailed) {
		t.Errorf("Send() error = %v, want ErrRequestFailed", err)
	}
	if !strings.HasPrefix(out.String(), "Error: Connection refused") {
		t.Errorf("output = %q", out.String())
	}
}

func TestFormatOutput_UnknownFormat(t *testing.T) {
	_, err := formatOutput(&types.Response{}, "xml", false, false)
	if err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestFormatOutput_Color(t *testing.T) {
	got, err := formatOutput(&types.Response{StatusCode: 201, StatusText: "Created"}, "text", false, true)
	if err != nil {
		t.Fatalf("formatOutput() error = %v", err)
	}
	if !strings.HasPrefix(got, colorGreen+"201 Created"+colorReset) {
		t.Errorf("output = %q", got)
	}
}

func TestFormatOutput_Truncated(t *testing.T) {
	got, err := formatOutput(&types.Response{StatusCode: 200, StatusText: "OK", Body: "abc", Truncated: true}, "text", false, false)
	if err != nil {
		t.Fatalf("formatOutput() error = %v", err)
	}
	if !strings.Contains(got, "| body truncated\n") {
		t.Errorf("output = %q, want a truncation note", got)
	}
}

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{200, colorGreen},
		{204, colorGreen},
		{301, colorYellow},
		{404, colorRed},
		{503, colorRed},
		{0, colorYellow},
	}

	for _, tt := range tests {
		if got := statusColor(tt.status); got != tt.want {
			t.Errorf("statusColor(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestFormatHistory(t *testing.T) {
	entries := []types.HistoryEntry{
		{ID: 2, Timestamp: time.Now(), Method: "GET", URL: "http://x/a", StatusCode: 200, Elapsed: 12 * time.Millisecond, Size: 2048},
		{ID: 1, Timestamp: time.Now().Add(-time.Hour), Method: "POST", URL: "http://x/b", Error: "Request timeout"},
	}

	got, err := FormatHistory(entries, "text")
	if err != nil {
		t.Fatalf("FormatHistory() error = %v", err)
	}
	for _, want := range []string{"METHOD", "http://x/a", "12ms", "2.0 kB", "ERR", "1 hour ago"} {
		if !strings.Contains(got, want) {
			t.Errorf("history output missing %q:\n%s", want, got)
		}
	}

	empty, _ := FormatHistory(nil, "text")
	if empty != "No history yet\n" {
		t.Errorf("empty history = %q", empty)
	}

	data, err := FormatHistory(entries, "json")
	if err != nil {
		t.Fatalf("FormatHistory(json) error = %v", err)
	}
	var decoded []types.HistoryEntry
	if err := json.Unmarshal([]byte(data), &decoded); err != nil || len(decoded) != 2 {
		t.Errorf("json history did not decode: %v", err)
	}
}

func TestFormatStats(t *testing.T) {
	stats := []analytics.Stats{{
		Method:        "GET",
		URL:           "http://x/a",
		TotalCalls:    4,
		SuccessCount:  3,
		NetworkErrors: 1,
		AvgElapsed:    15 * time.Millisecond,
		MaxElapsed:    40 * time.Millisecond,
		StatusCodes:   map[int]int{200: 3, 0: 1},
		LastCalled:    time.Now().Add(-2 * time.Hour),
	}}

	got, err := FormatStats(stats, "text")
	if err != nil {
		t.Fatalf("FormatStats() error = %v", err)
	}
	for _, want := range []string{"CALLS", "http://x/a", "75%", "15ms", "40ms", "2 hours ago"} {
		if !strings.Contains(got, want) {
			t.Errorf("stats output missing %q:\n%s", want, got)
		}
	}

	if _, err := FormatStats(stats, "yaml"); err != nil {
		t.Errorf("FormatStats(yaml) error = %v", err)
	}
	if _, err := FormatStats(stats, "csv"); err == nil {
		t.Error("expected an error for an unknown format")
	}

	empty, _ := FormatStats(nil, "")
	if empty != "No history yet\n" {
		t.Errorf("empty stats = %q", empty)
	}
}

func TestFormatBindings(t *testing.T) {
	bindings := keybinds.NewDefaultRegistry().ListBindings(keybinds.ContextRequest)

	got, err := FormatBindings(bindings, "text")
	if err != nil {
		t.Fatalf("FormatBindings() error = %v", err)
	}
	for _, want := range []string{"CONTEXT", "request", "f5", "execute", "global", "ctrl+c"} {
		if !strings.Contains(got, want) {
			t.Errorf("bindings output missing %q:\n%s", want, got)
		}
	}

	data, err := FormatBindings(bindings, "json")
	if err != nil {
		t.Fatalf("FormatBindings(json) error = %v", err)
	}
	var decoded []keybinds.Binding
	if err := json.Unmarshal([]byte(data), &decoded); err != nil {
		t.Fatalf("json bindings did not decode: %v", err)
	}
	if len(decoded) != len(bindings) || decoded[0].Context != bindings[0].Context {
		t.Errorf("decoded %+v, want %+v", decoded, bindings)
	}

	if _, err := FormatBindings(bindings, "csv"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
