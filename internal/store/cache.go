// Package store provides a SQLite-backed cache of parsed usage events.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openclaw/clawmon/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS file_tracker (
	file_path  TEXT PRIMARY KEY,
	mtime_ns   INTEGER NOT NULL,
	size_bytes INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	file_path  TEXT NOT NULL,
	ts         TEXT NOT NULL,
	agent      TEXT NOT NULL,
	model      TEXT NOT NULL,
	cost       REAL NOT NULL,
	input      INTEGER NOT NULL,
	output     INTEGER NOT NULL,
	cache_read INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_file ON events(file_path);
`

// Cache is the on-disk event cache. Events are stored unfiltered so any
// window size can be served without reparsing unchanged files.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// TrackedFiles returns file_path -> FileInfo for every tracked log.
func (c *Cache) TrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveFileEvents replaces the cached events for one log file and updates
// its tracker entry. Logs are append-only but may be rotated, so the whole
// file is always re-cached.
func (c *Cache) SaveFileEvents(path string, mtimeNs, sizeBytes int64, events []model.UsageEvent) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM events WHERE file_path = ?", path); err != nil {
		return err
	}

	for _, ev := range events {
		_, err := tx.Exec(`INSERT INTO events
			(file_path, ts, agent, model, cost, input, output, cache_read)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			path, ev.Timestamp.UTC().Format(time.RFC3339Nano), ev.Agent, ev.Model,
			ev.Cost, ev.InputTokens, ev.OutputTokens, ev.CacheReadTokens,
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, path, mtimeNs, sizeBytes)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// EventsForFiles loads the cached events belonging to the given files.
func (c *Cache) EventsForFiles(paths map[string]struct{}) ([]model.UsageEvent, error) {
	rows, err := c.db.Query(`SELECT file_path, ts, agent, model, cost, input, output, cache_read FROM events`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []model.UsageEvent
	for rows.Next() {
		var path, tsStr string
		var ev model.UsageEvent
		err := rows.Scan(&path, &tsStr, &ev.Agent, &ev.Model,
			&ev.Cost, &ev.InputTokens, &ev.OutputTokens, &ev.CacheReadTokens)
		if err != nil {
			return nil, err
		}
		if _, ok := paths[path]; !ok {
			continue
		}
		ev.Timestamp, err = time.Parse(time.RFC3339Nano, tsStr)
		if err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// DeleteFile removes a file's events and tracker entry.
func (c *Cache) DeleteFile(path string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM events WHERE file_path = ?", path); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", path); err != nil {
		return err
	}
	return tx.Commit()
}

// EventCount returns the number of cached events.
func (c *Cache) EventCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count)
	return count, err
}
