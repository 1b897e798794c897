package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/studiowebux/wayqa/internal/analytics"
	"github.com/studiowebux/wayqa/internal/executor"
	"github.com/studiowebux/wayqa/internal/filter"
	"github.com/studiowebux/wayqa/internal/keybinds"
	"github.com/studiowebux/wayqa/internal/types"
	"gopkg.in/yaml.v3"
)

// ErrRequestFailed is returned when the request could not be completed or
// the server answered with a 4xx/5xx status. The output has already been
// written; callers only need to set the exit code.
var ErrRequestFailed = errors.New("request failed")

// SendOptions contains options for sending a request in CLI mode
type SendOptions struct {
	Request      types.Request
	OutputFormat string // text, body, json, yaml
	Query        string // JMESPath applied to JSON bodies
	ShowHeaders  bool
	Color        bool
}

// Send executes one request and writes the formatted response to w
func Send(ctx context.Context, exec *executor.Executor, opts SendOptions, w io.Writer) error {
	if opts.Query != "" && !filter.IsValidJMESPath(opts.Query) {
		return fmt.Errorf("invalid JMESPath query %q", opts.Query)
	}

	outcome, err := executor.Start(ctx, exec, opts.Request).Wait(ctx)
	if err != nil {
		return fmt.Errorf("request interrupted: %w", err)
	}
	resp := outcome.Response

	if opts.Query != "" && !resp.Failed() {
		filtered, err := filter.Apply(resp.Body, opts.Query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: query error: %v\n", err)
		} else {
			copied := *resp
			copied.Body = filtered
			resp = &copied
		}
	}

	output, err := formatOutput(resp, opts.OutputFormat, opts.ShowHeaders, opts.Color)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if _, err := io.WriteString(w, output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if outcome.Err != nil || resp.StatusCode >= 400 {
		return ErrRequestFailed
	}
	return nil
}

// DetectFormat picks "text" for terminals and "body" when output is piped
func DetectFormat(f *os.File) string {
	stat, err := f.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) == 0 {
		return "body"
	}
	return "text"
}

// IsTerminal reports whether f is a character device
func IsTerminal(f *os.File) bool {
	return DetectFormat(f) == "text"
}

// formatOutput formats the response based on the output format
func formatOutput(resp *types.Response, format string, showHeaders, color bool) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(resp)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "body":
		if resp.Failed() {
			return resp.Error + "\n", nil
		}
		return resp.Body, nil

	case "text", "":
		var sb strings.Builder

		if resp.Failed() && resp.StatusCode == 0 {
			sb.WriteString(paint(colorRed, "Error: "+resp.Error, color))
			sb.WriteString("\n")
			return sb.String(), nil
		}

		status := strconv.Itoa(resp.StatusCode) + " " + resp.StatusText
		sb.WriteString(paint(statusColor(resp.StatusCode), status, color))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Duration: %s | Size: %s",
			executor.FormatDuration(resp.Elapsed),
			executor.FormatSize(resp.Size)))
		if resp.Truncated {
			sb.WriteString(paint(colorYellow, " | body truncated", color))
		}
		sb.WriteString("\n")

		if showHeaders && len(resp.Headers) > 0 {
			sb.WriteString("\nHeaders:\n")
			for _, h := range resp.Headers {
				sb.WriteString(fmt.Sprintf("  %s: %s\n", h.Name, h.Value))
			}
		}

		if resp.Failed() {
			sb.WriteString("\n")
			sb.WriteString(paint(colorRed, "Error: "+resp.Error, color))
			sb.WriteString("\n")
		} else if resp.Body != "" {
			sb.WriteString("\n")
			sb.WriteString(resp.Body)
			if !strings.HasSuffix(resp.Body, "\n") {
				sb.WriteString("\n")
			}
		}

		return sb.String(), nil
	}

	return "", fmt.Errorf("unknown output format %q (use text, body, json or yaml)", format)
}

// FormatHistory renders saved executions, newest first
func FormatHistory(entries []types.HistoryEntry, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text", "body", "":
		if len(entries) == 0 {
			return "No history yet\n", nil
		}

		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			status := strconv.Itoa(e.StatusCode)
			if e.Error != "" {
				status = "ERR"
			}
			rows = append(rows, []string{
				strconv.FormatInt(e.ID, 10),
				humanize.Time(e.Timestamp),
				e.Method,
				e.URL,
				status,
				executor.FormatDuration(e.Elapsed),
				executor.FormatSize(e.Size),
			})
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "WHEN", "METHOD", "URL", "STATUS", "TIME", "SIZE").
			Rows(rows...)
		return t.String() + "\n", nil
	}

	return "", fmt.Errorf("unknown output format %q (use text, json or yaml)", format)
}

// FormatStats renders per-URL statistics computed from history
func FormatStats(stats []analytics.Stats, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(stats)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text", "body", "":
		if len(stats) == 0 {
			return "No history yet\n", nil
		}

		rows := make([][]string, 0, len(stats))
		for _, s := range stats {
			rows = append(rows, []string{
				s.Method,
				s.URL,
				strconv.Itoa(s.TotalCalls),
				fmt.Sprintf("%.0f%%", s.SuccessRate()*100),
				strconv.Itoa(s.NetworkErrors),
				executor.FormatDuration(s.AvgElapsed),
				executor.FormatDuration(s.MaxElapsed),
				humanize.Time(s.LastCalled),
			})
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("METHOD", "URL", "CALLS", "OK", "NET ERR", "AVG", "MAX", "LAST").
			Rows(rows...)
		return t.String() + "\n", nil
	}

	return "", fmt.Errorf("unknown output format %q (use text, json or yaml)", format)
}

// FormatBindings renders keybindings as a table or as json/yaml
func FormatBindings(bindings []keybinds.Binding, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(bindings, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(bindings)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text", "body", "":
		rows := make([][]string, 0, len(bindings))
		for _, b := range bindings {
			rows = append(rows, []string{
				string(b.Context),
				b.Key,
				string(b.Action),
				keybinds.GetActionInfo(b.Action).Description,
			})
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("CONTEXT", "KEY", "ACTION", "DESCRIPTION").
			Rows(rows...)
		return t.String() + "\n", nil
	}

	return "", fmt.Errorf("unknown output format %q (use text, json or yaml)", format)
}

// ANSI color codes
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

func statusColor(status int) string {
	switch {
	case executor.IsSuccessStatus(status):
		return colorGreen
	case executor.IsClientErrorStatus(status), executor.IsServerErrorStatus(status):
		return colorRed
	}
	return colorYellow
}

func paint(color, s string, enabled bool) string {
	if !enabled {
		return s
	}
	return color + s + colorReset
}
