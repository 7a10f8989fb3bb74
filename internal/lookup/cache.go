package lookup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/domain"
)

// Cache is a sqlite-backed Service decorator. Resolutions survive across runs
// so re-converting history does not re-query the external service for every
// row. Only successful resolutions are stored; "not found" is never cached so
// a security listed later is picked up on the next run.
type Cache struct {
	db   *sql.DB
	next Service
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS securities (
	key      TEXT PRIMARY KEY,
	symbol   TEXT NOT NULL,
	currency TEXT NOT NULL,
	name     TEXT NOT NULL,
	source   TEXT NOT NULL
);`

// OpenCache opens (creating if needed) a resolution cache at path, delegating
// misses to next.
func OpenCache(path string, next Service) (*Cache, error) {
	if next == nil {
		return nil, fmt.Errorf("cache requires a backing lookup service")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup cache %s: %w", path, err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize lookup cache %s: %w", path, err)
	}

	return &Cache{db: db, next: next}, nil
}

// Close releases the underlying database handle
func (c *Cache) Close() error {
	return c.db.Close()
}

// Search implements Service with read-through caching.
func (c *Cache) Search(ctx context.Context, q Query) (*Security, error) {
	key := cacheKey(q)

	var sec Security
	var source string
	err := c.db.QueryRowContext(ctx,
		`SELECT symbol, currency, name, source FROM securities WHERE key = ?`, key).
		Scan(&sec.Symbol, &sec.Currency, &sec.Name, &source)
	switch {
	case err == nil:
		sec.Source = domain.DataSource(source)
		return &sec, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("lookup cache read failed: %w", err)
	}

	resolved, err := c.next.Search(ctx, q)
	if err != nil || resolved == nil {
		return resolved, err
	}

	if _, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO securities (key, symbol, currency, name, source) VALUES (?, ?, ?, ?, ?)`,
		key, resolved.Symbol, resolved.Currency, resolved.Name, string(resolved.Source)); err != nil {
		return nil, fmt.Errorf("lookup cache write failed: %w", err)
	}

	return resolved, nil
}

// cacheKey builds the cache key from the fields that influence resolution.
func cacheKey(q Query) string {
	return strings.Join([]string{q.Identifier, q.SymbolOverride, q.Currency}, "|")
}
