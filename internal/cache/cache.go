// Package cache implements the content-addressed compilation cache: a
// sqlite-backed table keyed by a hash of source text plus compiler version,
// storing the emitted IR text so unchanged sources skip analysis and
// lowering entirely on the next run.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	_ "modernc.org/sqlite"
)

// Cache wraps a sqlite-backed compiled-artifact store.
type Cache struct {
	db *sql.DB
}

// Entry is one cached compilation result.
type Entry struct {
	Key       string
	IR        string
	CreatedAt time.Time
}

// Open creates (if needed) and opens the cache database at path. Passing
// ":memory:" is valid and is what the test suite uses.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: migrate: %w", err)
	}
	return &Cache{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS compilations (
	key        TEXT PRIMARY KEY,
	ir         TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
`

// Key derives the content-addressed cache key from source text and the
// compiler version string, so a version bump invalidates every entry.
func Key(source, compilerVersion string) string {
	sum := sha256.Sum256([]byte(compilerVersion + "\x00" + source))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached entry for key, if present.
func (c *Cache) Lookup(key string) (Entry, bool, error) {
	row := c.db.QueryRow(`SELECT ir, created_at FROM compilations WHERE key = ?`, key)

	var ir string
	var createdAtUnix int64
	switch err := row.Scan(&ir, &createdAtUnix); err {
	case nil:
		return Entry{Key: key, IR: ir, CreatedAt: time.Unix(createdAtUnix, 0)}, true, nil
	case sql.ErrNoRows:
		return Entry{}, false, nil
	default:
		return Entry{}, false, fmt.Errorf("cache: lookup %s: %w", key, err)
	}
}

// Store inserts or replaces the cached IR for key, stamped with now.
func (c *Cache) Store(key, ir string, now time.Time) error {
	_, err := c.db.Exec(
		`INSERT INTO compilations(key, ir, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET ir = excluded.ir, created_at = excluded.created_at`,
		key, ir, now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("cache: store %s: %w", key, err)
	}
	return nil
}

// Age reports a human-readable age for an entry relative to now, used by
// the CLI to report how stale a cache hit is.
func Age(e Entry, now time.Time) string {
	return humanize.RelTime(e.CreatedAt, now, "ago", "from now")
}

// Close releases the underlying sqlite connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
