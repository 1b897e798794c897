package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/wayqa/internal/config"
	"github.com/studiowebux/wayqa/internal/migrations"
	"github.com/studiowebux/wayqa/internal/types"
)

const timestampFormat = "2006-01-02 15:04:05"

// Manager stores executed requests in SQLite. It satisfies
// executor.Recorder.
type Manager struct {
	db    *sql.DB
	limit int // entries kept; 0 keeps everything
	now   func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithLimit keeps only the n most recent entries
func WithLimit(n int) Option {
	return func(m *Manager) { m.limit = n }
}

func NewManager(dbPath string, opts ...Option) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	m := &Manager{db: db, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Record saves one execution, then trims the table to the configured limit
func (m *Manager) Record(req types.Request, resp *types.Response) error {
	entry := NewEntry(req, resp)
	if entry.Timestamp.IsZero() {
		entry.Timestamp = m.now()
	}
	if err := m.Save(entry); err != nil {
		return err
	}
	return m.prune()
}

func (m *Manager) Save(entry types.HistoryEntry) error {
	headersJSON, err := json.Marshal(entry.Headers)
	if err != nil {
		return fmt.Errorf("failed to marshal headers: %w", err)
	}

	query := `
		INSERT INTO history (
			timestamp, method, url, status_code, status_text, headers,
			body, body_format, elapsed_us, size, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = m.db.Exec(query,
		entry.Timestamp.UTC().Format(timestampFormat),
		entry.Method,
		entry.URL,
		entry.StatusCode,
		entry.StatusText,
		string(headersJSON),
		entry.Body,
		string(entry.BodyFormat),
		entry.Elapsed.Microseconds(),
		entry.Size,
		entry.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

// List returns the most recent entries first. limit <= 0 returns all.
func (m *Manager) List(limit int) ([]types.HistoryEntry, error) {
	query := `
		SELECT id, timestamp, method, url, status_code, status_text, headers,
		       body, body_format, elapsed_us, size, error
		FROM history
		ORDER BY timestamp DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

func (m *Manager) scanEntries(rows *sql.Rows) ([]types.HistoryEntry, error) {
	var entries []types.HistoryEntry

	for rows.Next() {
		var entry types.HistoryEntry
		var timestamp string
		var headersJSON string
		var bodyFormat string
		var elapsedUs int64
		var errorMsg sql.NullString

		err := rows.Scan(
			&entry.ID,
			&timestamp,
			&entry.Method,
			&entry.URL,
			&entry.StatusCode,
			&entry.StatusText,
			&headersJSON,
			&entry.Body,
			&bodyFormat,
			&elapsedUs,
			&entry.Size,
			&errorMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		if err := json.Unmarshal([]byte(headersJSON), &entry.Headers); err != nil {
			entry.Headers = nil
		}

		// Timestamps are stored in UTC. The driver may hand DATETIME
		// columns back as RFC3339 instead of the stored text.
		parsedTime, err := time.ParseInLocation(timestampFormat, timestamp, time.UTC)
		if err != nil {
			parsedTime, err = time.Parse(time.RFC3339, timestamp)
			if err != nil {
				parsedTime = time.Time{}
			}
		}

		entry.Timestamp = parsedTime.Local()
		entry.BodyFormat = types.BodyFormat(bodyFormat)
		entry.Elapsed = time.Duration(elapsedUs) * time.Microsecond
		entry.Error = errorMsg.String

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// prune deletes everything beyond the newest m.limit entries
func (m *Manager) prune() error {
	if m.limit <= 0 {
		return nil
	}

	_, err := m.db.Exec(`
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY timestamp DESC, id DESC LIMIT ?
		)
	`, m.limit)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM history")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Delete removes one entry by ID
func (m *Manager) Delete(id int64) error {
	result, err := m.db.Exec("DELETE FROM history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

func (m *Manager) Count() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
