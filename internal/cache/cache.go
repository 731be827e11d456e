// Package cache stores fetched pages in a sqlite database keyed by URL.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DefaultFile is the cache file name used when only a directory is given.
const DefaultFile = "reprint-cache.db"

const schema = `CREATE TABLE IF NOT EXISTS cache (
	url TEXT PRIMARY KEY,
	content BLOB NOT NULL,
	timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Cache is a URL to page-content store.
type Cache struct {
	db   *sql.DB
	path string
}

// Open opens or creates the cache database at path. A path naming an
// existing directory holds DefaultFile.
func Open(path string) (*Cache, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFile)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache table: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the stored content for url and when it was stored. ok is
// false when nothing is stored.
func (c *Cache) Get(ctx context.Context, url string) (content []byte, storedAt time.Time, ok bool, err error) {
	row := c.db.QueryRowContext(ctx, `SELECT content, timestamp FROM cache WHERE url = ?`, url)
	err = row.Scan(&content, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("reading cache: %w", err)
	}
	return content, storedAt, true, nil
}

// Put stores content for url, replacing any earlier entry.
func (c *Cache) Put(ctx context.Context, url string, content []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO cache (url, content, timestamp) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET content = excluded.content, timestamp = excluded.timestamp`,
		url, content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Delete removes the entry for url.
func (c *Cache) Delete(ctx context.Context, url string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM cache WHERE url = ?`, url); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Prune removes entries stored before cutoff and returns how many were removed.
func (c *Cache) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM cache WHERE timestamp < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}

// Len returns the number of stored entries.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache: %w", err)
	}
	return n, nil
}
