package tui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/wayqa/internal/state"
)

// handleKeyPress hands the key to the state machine and runs the
// resulting effect
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if msg.Paste {
		m.state.InsertText(string(msg.Runes))
		return nil
	}

	// Runes read together arrive as one message. Each is still a key press
	// and is dispatched on its own, in order.
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 1 {
		var cmds []tea.Cmd
		for _, r := range msg.Runes {
			effect := m.state.Dispatch(string(r))
			if effect == state.EffectQuit {
				return m.runEffect(effect)
			}
			cmds = append(cmds, m.runEffect(effect))
		}
		return tea.Batch(cmds...)
	}

	return m.runEffect(m.state.Dispatch(msg.String()))
}

// runEffect turns a dispatch Effect into a command
func (m *Model) runEffect(effect state.Effect) tea.Cmd {
	switch effect {
	case state.EffectQuit:
		m.Cleanup()
		return tea.Quit
	case state.EffectRequestStarted:
		return m.tick()
	case state.EffectCopyResponse:
		return m.copyResponse()
	case state.EffectPaste:
		return m.paste()
	}

	return nil
}

func (m *Model) copyResponse() tea.Cmd {
	resp := m.state.Response()
	if resp == nil {
		return nil
	}
	body := resp.Body
	copyText := m.copyText

	return func() tea.Msg {
		err := copyText(body)
		return clipboardCopiedMsg{size: len([]rune(body)), err: err}
	}
}

func (m *Model) paste() tea.Cmd {
	pasteText := m.pasteText

	return func() tea.Msg {
		text, err := pasteText()
		return clipboardPastedMsg{text: text, err: err}
	}
}

func clipboardWrite(text string) error {
	return clipboard.WriteAll(text)
}

func clipboardRead() (string, error) {
	return clipboard.ReadAll()
}
