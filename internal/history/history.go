package history

import (
	"errors"

	"github.com/studiowebux/wayqa/internal/types"
)

// ErrDisabled is returned by Open when history is turned off in settings
var ErrDisabled = errors.New("history is disabled")

// ErrNotFound is returned when no entry has the requested ID
var ErrNotFound = errors.New("history entry not found")

// Open returns the history store at dbPath, or ErrDisabled
func Open(dbPath string, enabled bool, limit int) (*Manager, error) {
	if !enabled {
		return nil, ErrDisabled
	}
	return NewManager(dbPath, WithLimit(limit))
}

// NewEntry builds the entry saved for one execution
func NewEntry(req types.Request, resp *types.Response) types.HistoryEntry {
	entry := types.HistoryEntry{
		Method: req.Method.String(),
		URL:    req.URL,
	}
	if resp == nil {
		return entry
	}

	entry.Timestamp = resp.Timestamp
	entry.StatusCode = resp.StatusCode
	entry.StatusText = resp.StatusText
	entry.Headers = resp.Headers
	entry.Body = resp.Body
	entry.BodyFormat = resp.BodyFormat
	entry.Elapsed = resp.Elapsed
	entry.Size = resp.Size
	entry.Error = resp.Error
	return entry
}
