package analytics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/wayqa/internal/config"
	"github.com/studiowebux/wayqa/internal/migrations"
)

// DefaultCacheTTL is how long computed stats are reused
const DefaultCacheTTL = 30 * time.Second

const timestampFormat = "2006-01-02 15:04:05"

// Stats aggregates the recorded executions of one method and URL
type Stats struct {
	Method        string        `json:"method" yaml:"method"`
	URL           string        `json:"url" yaml:"url"`
	TotalCalls    int           `json:"totalCalls" yaml:"total_calls"`
	SuccessCount  int           `json:"successCount" yaml:"success_count"`
	ErrorCount    int           `json:"errorCount" yaml:"error_count"`
	NetworkErrors int           `json:"networkErrors" yaml:"network_errors"` // no response received (status 0)
	AvgElapsed    time.Duration `json:"avgElapsed" yaml:"avg_elapsed"`
	MinElapsed    time.Duration `json:"minElapsed" yaml:"min_elapsed"`
	MaxElapsed    time.Duration `json:"maxElapsed" yaml:"max_elapsed"`
	TotalSize     int64         `json:"totalSize" yaml:"total_size"`
	StatusCodes   map[int]int   `json:"statusCodes" yaml:"status_codes"`
	LastCalled    time.Time     `json:"lastCalled" yaml:"last_called"`
}

// SuccessRate returns the share of 2xx responses, from 0 to 1
func (s Stats) SuccessRate() float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.SuccessCount) / float64(s.TotalCalls)
}

// Manager computes statistics over the history table
type Manager struct {
	db    *sql.DB
	cache *statsCache
}

// NewManager opens the history database at dbPath read for statistics
func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create analytics directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open analytics database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to analytics database: %w", err)
	}

	// Run database migrations
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db, cache: newStatsCache(DefaultCacheTTL)}, nil
}

// GetStatsPerURL returns one Stats per method and URL, most recently
// called first. Results are cached for DefaultCacheTTL.
func (m *Manager) GetStatsPerURL() ([]Stats, error) {
	if stats, ok := m.cache.get(); ok {
		return stats, nil
	}

	query := `
		SELECT
			method,
			url,
			COUNT(*) as total_calls,
			SUM(CASE WHEN status_code >= 200 AND status_code < 300 THEN 1 ELSE 0 END) as success_count,
			SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END) as error_count,
			SUM(CASE WHEN status_code = 0 THEN 1 ELSE 0 END) as network_errors,
			AVG(elapsed_us) as avg_elapsed,
			MIN(elapsed_us) as min_elapsed,
			MAX(elapsed_us) as max_elapsed,
			SUM(size) as total_size,
			MAX(timestamp) as last_called
		FROM history
		GROUP BY method, url
		ORDER BY last_called DESC
	`

	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats per url: %w", err)
	}
	defer rows.Close()

	var statsList []Stats
	for rows.Next() {
		var s Stats
		var avgUs float64
		var minUs, maxUs int64
		var lastCalled sql.NullString

		err := rows.Scan(
			&s.Method,
			&s.URL,
			&s.TotalCalls,
			&s.SuccessCount,
			&s.ErrorCount,
			&s.NetworkErrors,
			&avgUs,
			&minUs,
			&maxUs,
			&s.TotalSize,
			&lastCalled,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}

		s.AvgElapsed = time.Duration(avgUs * float64(time.Microsecond))
		s.MinElapsed = time.Duration(minUs) * time.Microsecond
		s.MaxElapsed = time.Duration(maxUs) * time.Microsecond
		s.LastCalled = parseTimestamp(lastCalled.String)

		statsList = append(statsList, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := m.fillStatusCodes(statsList); err != nil {
		return nil, err
	}

	m.cache.set(statsList)
	return statsList, nil
}

// StatsFor returns the stats of one method and URL. It reads through the
// same cache as GetStatsPerURL, so it is cheap to call on every render.
func (m *Manager) StatsFor(method, url string) (Stats, bool, error) {
	statsList, err := m.GetStatsPerURL()
	if err != nil {
		return Stats{}, false, err
	}
	for _, s := range statsList {
		if s.Method == method && s.URL == url {
			return s, true, nil
		}
	}
	return Stats{}, false, nil
}

// fillStatusCodes adds the status code distribution of each group
func (m *Manager) fillStatusCodes(statsList []Stats) error {
	index := make(map[[2]string]*Stats, len(statsList))
	for i := range statsList {
		statsList[i].StatusCodes = make(map[int]int)
		index[[2]string{statsList[i].Method, statsList[i].URL}] = &statsList[i]
	}

	rows, err := m.db.Query(`
		SELECT method, url, status_code, COUNT(*) as count
		FROM history
		GROUP BY method, url, status_code
	`)
	if err != nil {
		return fmt.Errorf("failed to get status codes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var method, url string
		var code, count int
		if err := rows.Scan(&method, &url, &code, &count); err != nil {
			return err
		}
		if s, ok := index[[2]string{method, url}]; ok {
			s.StatusCodes[code] = count
		}
	}

	return rows.Err()
}

// Invalidate drops cached stats so the next call reads the database
func (m *Manager) Invalidate() {
	m.cache.invalidate()
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// parseTimestamp reads a UTC timestamp as stored by the history table.
// Aggregates come back as text, direct DATETIME columns as RFC3339.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(timestampFormat, s, time.UTC)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}
		}
	}
	return t.Local()
}
