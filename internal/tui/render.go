package tui

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/studiowebux/wayqa/internal/executor"
	"github.com/studiowebux/wayqa/internal/keybinds"
	"github.com/studiowebux/wayqa/internal/state"
	"github.com/studiowebux/wayqa/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleCursor = lipgloss.NewStyle().Reverse(true)
)

// busyFrames animate the running indicator, one frame per tick
var busyFrames = spinner.Dot.Frames

// projectPaneWidth is the share of the width given to the project pane
func (m *Model) projectPaneWidth() int {
	if !m.state.ProjectPaneVisible() {
		return 0
	}
	return m.width * ProjectPanePercent / 100
}

// contentSize returns the inner size of the tab content box
func (m *Model) contentSize() (int, int) {
	w := m.width - m.projectPaneWidth() - BorderWidth
	h := m.height - ChromeHeight - BorderWidth
	return max(w, 1), max(h, 1)
}

// updateViewport resizes the response viewport. MUST match renderMain.
func (m *Model) updateViewport() {
	w, h := m.contentSize()
	m.responseView.Width = w - PaddingHorizontal
	m.responseView.Height = max(h-ResponseTabLines, 1)
}

// syncResponseView refreshes the viewport after the response, the
// response tab or the width changed, then applies the scroll offset
func (m *Model) syncResponseView() {
	resp := m.state.Response()
	tab := m.state.ResponseTab()

	if resp != m.shownResponse && m.stats != nil {
		// a new execution was recorded
		m.stats.Invalidate()
	}

	if resp != m.shownResponse || tab != m.shownTab || m.responseView.Width != m.shownWidth {
		m.responseView.SetContent(m.responseContent(resp, tab, m.responseView.Width))
		m.shownResponse = resp
		m.shownTab = tab
		m.shownWidth = m.responseView.Width
	}

	// Scrolling is bounded by what is rendered, which differs from the
	// raw body once JSON is indented or headers are shown
	if resp != nil {
		m.state.SetScrollLimit(m.responseView.TotalLineCount() - m.responseView.Height)
	}
	m.responseView.SetYOffset(m.state.ResponseScroll())
}

// renderMain renders the whole screen
func (m *Model) renderMain() string {
	if m.width == 0 {
		return ""
	}

	right := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderRequestLine(),
		m.renderRequestTabs(),
		m.renderTabContent(),
	)

	body := right
	if m.state.ProjectPaneVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderProjectPane(), right)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitle(),
		body,
		m.renderFooter(),
		m.renderStatusBar(),
	)
}

func (m *Model) renderTitle() string {
	title := "WAYQA"
	if p := m.state.Project(); p != "" {
		title += " - " + p
	}
	return styleTitle.Render(title)
}

func (m *Model) borderColor(active bool) lipgloss.TerminalColor {
	if active {
		return colorGreen
	}
	return colorGray
}

// renderProjectPane renders the left pane holding projects
func (m *Model) renderProjectPane() string {
	lines := []string{styleTitle.Render("Projects"), ""}
	if p := m.state.Project(); p != "" {
		lines = append(lines, styleSelected.Render(p))
	} else {
		lines = append(lines, styleSubtle.Render("No projects"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(m.state.Mode() == state.ModeProject)).
		Width(max(m.projectPaneWidth()-BorderWidth, 1)).
		Height(m.height - TitleLines - FooterLines - BorderWidth).
		Render(strings.Join(lines, "\n"))
}

// renderRequestLine renders the method and URL box
func (m *Model) renderRequestLine() string {
	width := m.width - m.projectPaneWidth() - BorderWidth
	method := styleTitle.Render(m.state.Method().String())

	urlWidth := max(width-MethodLabelWidth, 4)

	var u string
	if m.state.Mode() == state.ModeRequestURL {
		before, after := m.state.URLParts()
		u = renderWithCursor(before, after, urlWidth)
	} else if m.state.URL() == "" {
		u = styleSubtle.Render("Press u to enter a URL")
	} else {
		u = runewidth.Truncate(m.state.URL(), urlWidth, "...")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(m.state.Mode() == state.ModeRequestURL)).
		Width(max(width, 1)).
		Render(method + " " + u)
}

// renderWithCursor highlights the rune under the cursor. Text wider than
// width is cut around the cursor so it stays on screen.
func renderWithCursor(before, after string, width int) string {
	cursor := " "
	if r, size := utf8.DecodeRuneInString(after); size > 0 {
		cursor, after = string(r), after[size:]
	}
	cursorWidth := max(runewidth.StringWidth(cursor), 1)

	if runewidth.StringWidth(before)+cursorWidth+runewidth.StringWidth(after) > width {
		before = truncateLeft(before, width-cursorWidth, "…")
		rest := width - cursorWidth - runewidth.StringWidth(before)
		if rest > 0 {
			after = runewidth.Truncate(after, rest, "…")
		} else {
			after = ""
		}
	}

	return before + styleCursor.Render(cursor) + after
}

// truncateLeft keeps the end of s that fits in width columns, marking the
// cut with prefix
func truncateLeft(s string, width int, prefix string) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	limit := width - runewidth.StringWidth(prefix)
	if limit <= 0 {
		return ""
	}

	runes := []rune(s)
	i, w := len(runes), 0
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if w+rw > limit {
			break
		}
		w += rw
		i--
	}
	return prefix + string(runes[i:])
}

// renderRequestTabs renders the [1]..[6] tab bar
func (m *Model) renderRequestTabs() string {
	parts := make([]string, 0, len(state.RequestTabs))
	for _, t := range state.RequestTabs {
		label := fmt.Sprintf("[%d] %s", t.Index()+1, t.Title())
		if t == m.state.RequestTab() {
			label = styleSelected.Render(label)
		} else {
			label = styleSubtle.Render(label)
		}
		parts = append(parts, label)
	}
	return " " + strings.Join(parts, "  ")
}

// renderTabContent renders the selected request tab
func (m *Model) renderTabContent() string {
	w, h := m.contentSize()

	var content string
	switch m.state.RequestTab() {
	case state.RequestTabParams:
		content = m.renderParams()
	case state.RequestTabAuthorization:
		content = styleSubtle.Render("No authorization")
	case state.RequestTabHeaders:
		content = styleSubtle.Render("No request headers")
	case state.RequestTabBody:
		content = styleSubtle.Render("Requests are sent without a body")
	case state.RequestTabSettings:
		content = m.renderSettings()
	case state.RequestTabResponse:
		content = m.renderResponse()
	}

	active := m.state.Mode() == state.ModeRequestParamsTab || m.state.Mode() == state.ModeRequestResponseTab
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(active)).
		Width(w).
		Height(h).
		MaxHeight(h + BorderWidth).
		Padding(0, 1).
		Render(content)
}

// renderParams lists the query parameters of the URL being edited
func (m *Model) renderParams() string {
	u, err := url.Parse(strings.TrimSpace(m.state.URL()))
	if err != nil || u.RawQuery == "" {
		return styleSubtle.Render("No query parameters")
	}
	query := u.Query()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleSubtle).
		Headers("KEY", "VALUE")
	for _, key := range slices.Sorted(maps.Keys(query)) {
		for _, v := range query[key] {
			t.Row(key, v)
		}
	}
	return t.String()
}

func (m *Model) renderSettings() string {
	lines := []string{
		fmt.Sprintf("Timeout:          %s", m.settings.Request.Timeout),
		fmt.Sprintf("Follow redirects: %t", m.settings.Request.FollowRedirects),
		fmt.Sprintf("Verify TLS:       %t", !m.settings.Request.TLS.InsecureSkipVerify),
		fmt.Sprintf("History:          %t", m.settings.History.Enabled),
	}
	return strings.Join(lines, "\n")
}

// renderResponse renders the response sub-tabs, a summary line and the
// scrollable viewport
func (m *Model) renderResponse() string {
	parts := make([]string, 0, len(state.ResponseTabs))
	for _, t := range state.ResponseTabs {
		label := fmt.Sprintf("[%d] %s", t.Index()+7, t.Title())
		if t == m.state.ResponseTab() {
			label = styleSelected.Render(label)
		} else {
			label = styleSubtle.Render(label)
		}
		parts = append(parts, label)
	}
	tabs := strings.Join(parts, "  ")

	resp := m.state.Response()
	if resp == nil {
		hint := "No response yet - press " + m.state.Registry().GetBindingString(keybinds.ContextRequest, keybinds.ActionExecute) + " to send"
		return tabs + "\n" + styleSubtle.Render(hint)
	}

	return tabs + "\n" + renderResponseSummary(resp) + m.renderCallStats() + "\n" + m.responseView.View()
}

// renderCallStats summarizes earlier executions of the request on screen
func (m *Model) renderCallStats() string {
	if m.stats == nil {
		return ""
	}

	req := m.state.Request()
	s, ok, err := m.stats.StatsFor(req.Method.String(), req.URL)
	if err != nil {
		m.logger.Debug("stats unavailable", "err", err)
		return ""
	}
	if !ok {
		return ""
	}

	return styleSubtle.Render(fmt.Sprintf(" | %d calls, %.0f%% ok, avg %s",
		s.TotalCalls, s.SuccessRate()*100, executor.FormatDuration(s.AvgElapsed)))
}

// renderResponseSummary renders "200 OK | 12ms | 1.2 kB"
func renderResponseSummary(resp *types.Response) string {
	if resp.StatusCode == 0 {
		return styleError.Render("Request failed") + styleSubtle.Render(" | "+executor.FormatDuration(resp.Elapsed))
	}

	statusStyle := styleWarning
	switch {
	case resp.Failed(), executor.IsClientErrorStatus(resp.StatusCode), executor.IsServerErrorStatus(resp.StatusCode):
		statusStyle = styleError
	case executor.IsSuccessStatus(resp.StatusCode):
		statusStyle = styleSuccess
	}

	status := statusStyle.Render(fmt.Sprintf("%d %s", resp.StatusCode, resp.StatusText))
	meta := fmt.Sprintf(" | %s | %s", executor.FormatDuration(resp.Elapsed), humanize.Bytes(uint64(max(resp.Size, 0))))
	summary := status + styleSubtle.Render(meta)
	if resp.Truncated {
		summary += styleWarning.Render(" | truncated")
	}
	return summary
}

// responseContent builds the viewport text for a response tab
func (m *Model) responseContent(resp *types.Response, tab state.ResponseTab, width int) string {
	if resp == nil {
		return ""
	}

	switch tab {
	case state.ResponseTabCookies:
		if len(resp.Cookies) == 0 {
			return styleSubtle.Render("No cookies")
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(styleSubtle).
			Headers("NAME", "VALUE", "DOMAIN", "PATH", "FLAGS")
		for _, c := range resp.Cookies {
			t.Row(c.Name, c.Value, c.Domain, c.Path, cookieFlags(c))
		}
		return t.String()

	case state.ResponseTabHeaders:
		if len(resp.Headers) == 0 {
			return styleSubtle.Render("No headers")
		}
		lines := make([]string, 0, len(resp.Headers))
		for _, h := range resp.Headers {
			lines = append(lines, styleTitle.Render(h.Name+":")+" "+h.Value)
		}
		return lipgloss.NewStyle().Width(max(width, 1)).Render(strings.Join(lines, "\n"))
	}

	if resp.Failed() {
		return styleError.Width(max(width, 1)).Render(resp.Body)
	}
	if resp.Body == "" {
		return styleSubtle.Render("Empty body")
	}
	return highlight(resp.Body, resp.BodyFormat)
}

func cookieFlags(c types.Cookie) string {
	var flags []string
	if c.HTTPOnly {
		flags = append(flags, "HttpOnly")
	}
	if c.Secure {
		flags = append(flags, "Secure")
	}
	if c.MaxAge > 0 {
		flags = append(flags, fmt.Sprintf("Max-Age=%d", c.MaxAge))
	}
	return strings.Join(flags, " ")
}

// footerActions lists the hints shown per mode
var footerActions = map[state.Mode][]keybinds.Action{
	state.ModeNormal:             {keybinds.ActionOpenRequest, keybinds.ActionOpenProject, keybinds.ActionToggleLayout, keybinds.ActionQuit},
	state.ModeProject:            {keybinds.ActionNewProject, keybinds.ActionBack},
	state.ModeRequest:            {keybinds.ActionEditURL, keybinds.ActionCycleMethod, keybinds.ActionExecute, keybinds.ActionSelectResponse, keybinds.ActionBack},
	state.ModeRequestURL:         {keybinds.ActionTextPaste, keybinds.ActionBack},
	state.ModeRequestParamsTab:   {keybinds.ActionBack},
	state.ModeRequestResponseTab: {keybinds.ActionResponseBody, keybinds.ActionResponseCookies, keybinds.ActionResponseHeaders, keybinds.ActionScrollDown, keybinds.ActionCopyToClipboard, keybinds.ActionBack},
}

// renderFooter renders key hints read from the active bindings
func (m *Model) renderFooter() string {
	mode := m.state.Mode()
	registry := m.state.Registry()

	var hints []string
	for _, action := range footerActions[mode] {
		keys := registry.GetBindingString(mode.Context(), action)
		if keys == "unbound" {
			continue
		}
		hints = append(hints, keys+" "+keybinds.GetActionInfo(action).Description)
	}
	if mode == state.ModeRequest {
		hints = append(hints, "1-6 tabs")
	}

	return styleSubtle.Render(strings.Join(hints, " | "))
}

// renderStatusBar renders the mode on the left and messages on the right
func (m *Model) renderStatusBar() string {
	left := styleTitle.Render(m.state.Mode().String())

	right := ""
	if m.state.Running() {
		frame := busyFrames[m.state.Frame()%len(busyFrames)]
		right = styleWarning.Render(frame + "Running...")
	} else if msg := m.state.Status(); msg != "" {
		if resp := m.state.Response(); resp != nil && resp.Failed() && msg == "Request failed" {
			right = styleError.Render(msg)
		} else {
			right = msg
		}
	}

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}

	return left + strings.Repeat(" ", spacing) + right
}
