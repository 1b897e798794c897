package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/wayqa/internal/config"
	"github.com/studiowebux/wayqa/internal/executor"
	"github.com/studiowebux/wayqa/internal/state"
	"github.com/studiowebux/wayqa/internal/types"
)

// okSender answers every request with 200 and body
func okSender(body string) executor.SenderFunc {
	return func(ctx context.Context, method types.Method, url string) (*executor.RawResponse, error) {
		return &executor.RawResponse{
			StatusCode:    200,
			StatusText:    "OK",
			Headers:       []types.Header{{Name: "Content-Type", Value: "application/json"}},
			Body:          []byte(body),
			ContentLength: -1,
		}, nil
	}
}

// CreateTestModel creates a sized Model whose requests go to sender
func CreateTestModel(t *testing.T, sender executor.Sender, opts Options) *Model {
	t.Helper()

	st := state.New(state.Options{Executor: executor.New(sender)})
	if opts.Settings == (config.Settings{}) {
		opts.Settings = config.DefaultSettings()
	}
	if opts.CopyText == nil {
		opts.CopyText = func(string) error { return nil }
	}
	if opts.PasteText == nil {
		opts.PasteText = func() (string, error) { return "", nil }
	}

	m := New(st, opts)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// key builds the KeyMsg Bubble Tea delivers for s
func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "f5":
		return tea.KeyMsg{Type: tea.KeyF5}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+v":
		return tea.KeyMsg{Type: tea.KeyCtrlV}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys one by one and returns the last command
func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

// typeText types text one rune at a time
func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(key(string(r)))
	}
}

// waitForResponse feeds ticks until the in-flight request lands
func waitForResponse(t *testing.T, m *Model) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for m.state.Running() {
		if time.Now().After(deadline) {
			t.Fatal("request did not complete in time")
		}
		m.Update(tickMsg(time.Now()))
		time.Sleep(time.Millisecond)
	}
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}
