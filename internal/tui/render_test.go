package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/wayqa/internal/analytics"
	"github.com/studiowebux/wayqa/internal/executor"
	"github.com/studiowebux/wayqa/internal/keybinds"
	"github.com/studiowebux/wayqa/internal/state"
	"github.com/studiowebux/wayqa/internal/types"
)

func TestView_EmptyBeforeResize(t *testing.T) {
	m := New(state.New(state.Options{}), Options{})

	if got := m.View(); got != "" {
		t.Errorf("View() = %q, want empty before the first WindowSizeMsg", got)
	}
}

func TestView_Layout(t *testing.T) {
	m := CreateTestModel(t, okSender("{}"), Options{})

	view := m.View()
	for _, want := range []string{"WAYQA", "GET", "[1] Params", "[6] Response", "Normal", "q Quit application"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if strings.Contains(view, "Projects") {
		t.Error("project pane should start hidden")
	}

	press(m, "l")
	if !strings.Contains(m.View(), "Projects") {
		t.Error("l should show the project pane")
	}
}

func TestView_ProjectTitle(t *testing.T) {
	st := state.New(state.Options{Project: "billing"})
	m := New(st, Options{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	if !strings.Contains(m.View(), "WAYQA - billing") {
		t.Error("title should carry the project name")
	}
}

func TestView_URLCursor(t *testing.T) {
	m := CreateTestModel(t, okSender("{}"), Options{})
	press(m, "r", "u")
	typeText(m, "http://x")

	if !strings.Contains(m.View(), "http://x") {
		t.Error("URL should be shown while editing")
	}
	AssertModelField(t, "renderWithCursor end", renderWithCursor("ab", "", 80), "ab"+styleCursor.Render(" "))
	AssertModelField(t, "renderWithCursor mid", renderWithCursor("a", "bc", 80), "a"+styleCursor.Render("b")+"c")
}

func TestRenderWithCursor_LongURL(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("segment/", 30)

	tests := []struct {
		name       string
		before     string
		after      string
		wantCursor string
		wantIn     string
	}{
		{"cursor at end keeps the tail", long, "", " ", "segment/"},
		{"cursor at start keeps the head", "", long, "h", "ttps://example.com/"},
		{"cursor in the middle", long[:100], long[100:], string(long[100]), long[95:100]},
		{"wide runes", strings.Repeat("日本", 30), "語", "語", "日本"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderWithCursor(tt.before, tt.after, 40)
			if w := lipgloss.Width(got); w > 40 {
				t.Errorf("width = %d, want <= 40: %q", w, got)
			}
			if !strings.Contains(got, styleCursor.Render(tt.wantCursor)) {
				t.Errorf("cursor %q not visible in %q", tt.wantCursor, got)
			}
			if !strings.Contains(got, tt.wantIn) {
				t.Errorf("%q missing from %q", tt.wantIn, got)
			}
		})
	}
}

func TestView_LongURLStaysInBox(t *testing.T) {
	m := CreateTestModel(t, okSender("{}"), Options{})
	press(m, "r", "u")
	typeText(m, "https://example.com/"+strings.Repeat("a", 300))

	line := m.renderRequestLine()
	AssertModelField(t, "request box lines", strings.Count(line, "\n")+1, RequestBoxLines)
	AssertModelField(t, "request box width", lipgloss.Width(line), m.width)
}

func TestTruncateLeft(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"abcdef", 10, "abcdef"},
		{"abcdef", 4, "…def"},
		{"abcdef", 1, ""},
		{"日本語", 5, "…本語"},
	}

	for _, tt := range tests {
		if got := truncateLeft(tt.s, tt.width, "…"); got != tt.want {
			t.Errorf("truncateLeft(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestView_ParamsTab(t *testing.T) {
	m := CreateTestModel(t, okSender("{}"), Options{})
	press(m, "r", "u")
	typeText(m, "http://x/?page=2&sort=name")
	press(m, "tab", "1")

	view := m.View()
	for _, want := range []string{"KEY", "page", "2", "sort", "name"} {
		if !strings.Contains(view, want) {
			t.Errorf("params view missing %q", want)
		}
	}
}

func TestView_FooterFollowsRegistry(t *testing.T) {
	registry := keybinds.NewDefaultRegistry()
	registry.Unbind(keybinds.ContextRequest, keybinds.ActionExecute)
	registry.Register(keybinds.ContextRequest, "ctrl+r", keybinds.ActionExecute)

	st := state.New(state.Options{Registry: registry})
	m := New(st, Options{})
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 30})
	press(m, "r")

	footer := m.renderFooter()
	if !strings.Contains(footer, "ctrl+r Send request") {
		t.Errorf("footer = %q, want the rebound execute key", footer)
	}
	if strings.Contains(footer, "f5") {
		t.Errorf("footer = %q, should not mention the unbound key", footer)
	}
}

func TestResponseContent(t *testing.T) {
	m := CreateTestModel(t, okSender("{}"), Options{})
	resp := &types.Response{
		StatusCode: 200,
		StatusText: "OK",
		Headers:    []types.Header{{Name: "Content-Type", Value: "text/plain"}},
		Cookies:    []types.Cookie{{Name: "session", Value: "abc", Path: "/", HTTPOnly: true}},
		Body:       "hello",
		BodyFormat: types.FormatText,
	}

	tests := []struct {
		name string
		tab  state.ResponseTab
		want []string
	}{
		{"body", state.ResponseTabBody, []string{"hello"}},
		{"cookies", state.ResponseTabCookies, []string{"session", "abc", "HttpOnly"}},
		{"headers", state.ResponseTabHeaders, []string{"Content-Type:", "text/plain"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.responseContent(resp, tt.tab, 80)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("content = %q, missing %q", got, want)
				}
			}
		})
	}

	if got := m.responseContent(&types.Response{}, state.ResponseTabCookies, 80); !strings.Contains(got, "No cookies") {
		t.Errorf("empty cookies = %q", got)
	}
	if got := m.responseContent(nil, state.ResponseTabBody, 80); got != "" {
		t.Errorf("nil response = %q, want empty", got)
	}
}

func TestRenderResponseSummary(t *testing.T) {
	tests := []struct {
		name string
		resp types.Response
		want string
	}{
		{"success", types.Response{StatusCode: 200, StatusText: "OK", Size: 2048}, "200 OK"},
		{"client error", types.Response{StatusCode: 404, StatusText: "Not Found"}, "404 Not Found"},
		{"network failure", types.Response{BodyFormat: types.FormatError, Body: "Connection refused"}, "Request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderResponseSummary(&tt.resp); !strings.Contains(got, tt.want) {
				t.Errorf("summary = %q, want %q", got, tt.want)
			}
		})
	}

	if got := renderResponseSummary(&types.Response{StatusCode: 200, StatusText: "OK", Size: 2048}); !strings.Contains(got, "2.0 kB") {
		t.Errorf("summary = %q, want humanized size", got)
	}

	truncated := renderResponseSummary(&types.Response{StatusCode: 200, StatusText: "OK", Truncated: true})
	if !strings.Contains(truncated, "truncated") {
		t.Errorf("summary = %q, want a truncation note", truncated)
	}
	if strings.Contains(renderResponseSummary(&types.Response{StatusCode: 200, StatusText: "OK"}), "truncated") {
		t.Error("complete bodies should not be marked truncated")
	}
}

func TestView_FailedRequest(t *testing.T) {
	refused := executor.SenderFunc(func(ctx context.Context, method types.Method, url string) (*executor.RawResponse, error) {
		return nil, errors.New("dial tcp 127.0.0.1:1: connect: connection refused")
	})
	m := CreateTestModel(t, refused, Options{})

	press(m, "r", "f5")
	waitForResponse(t, m)
	press(m, "6")

	view := m.View()
	for _, want := range []string{"Request failed", "Connection refused"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

type fakeStats struct {
	stats       map[string]analytics.Stats
	lookups     int
	invalidated int
}

func (f *fakeStats) StatsFor(method, url string) (analytics.Stats, bool, error) {
	f.lookups++
	s, ok := f.stats[method+" "+url]
	return s, ok, nil
}

func (f *fakeStats) Invalidate() { f.invalidated++ }

func TestView_ResponseCallStats(t *testing.T) {
	stats := &fakeStats{stats: map[string]analytics.Stats{
		"GET http://x": {TotalCalls: 4, SuccessCount: 3, AvgElapsed: 12 * time.Millisecond},
	}}
	m := CreateTestModel(t, okSender("{}"), Options{Stats: stats})

	press(m, "r", "u")
	typeText(m, "http://x")
	press(m, "esc", "f5")
	waitForResponse(t, m)
	press(m, "6")

	view := m.View()
	if !strings.Contains(view, "4 calls, 75% ok, avg 12ms") {
		t.Errorf("View() should summarize earlier calls:\n%s", view)
	}
	AssertModelField(t, "invalidated once per response", stats.invalidated, 1)

	press(m, "esc", "f5")
	waitForResponse(t, m)
	AssertModelField(t, "invalidated after second response", stats.invalidated, 2)

	// a method without history adds nothing
	press(m, "m")
	if strings.Contains(m.View(), " calls, ") {
		t.Error("no stats expected for a method never sent")
	}
}
