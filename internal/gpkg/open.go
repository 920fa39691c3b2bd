// Package gpkg writes output tables into a single-file GeoPackage container
// backed by the pure-Go SQLite engine.
//
// Default pragmas:
//
//	foreign_keys = ON
//	journal_mode = DELETE
//	busy_timeout = 10000
//	synchronous  = NORMAL
//
// DELETE journaling keeps the container a single file once the connection is
// closed.
package gpkg

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

type config struct {
	driver      string
	busyTimeout int
	synchronous string
	journalMode string
	queryOnly   bool
	mkdirAll    bool
}

var (
	synchronousModes = map[string]bool{"OFF": true, "NORMAL": true, "FULL": true, "EXTRA": true}
	journalModes     = map[string]bool{"DELETE": true, "TRUNCATE": true, "PERSIST": true, "MEMORY": true, "WAL": true, "OFF": true}
)

func defaults() config {
	return config{
		driver:      "sqlite",
		busyTimeout: 10_000,
		synchronous: "NORMAL",
		journalMode: "DELETE",
	}
}

// Option customises Open behaviour.
type Option func(*config)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithSynchronous sets PRAGMA synchronous: OFF, NORMAL, FULL or EXTRA.
// Default: "NORMAL".
func WithSynchronous(mode string) Option {
	return func(c *config) { c.synchronous = strings.ToUpper(mode) }
}

// WithJournalMode sets PRAGMA journal_mode: DELETE, TRUNCATE, PERSIST, MEMORY,
// WAL or OFF. Default: "DELETE".
func WithJournalMode(mode string) Option {
	return func(c *config) { c.journalMode = strings.ToUpper(mode) }
}

// WithQueryOnly sets PRAGMA query_only so the connection cannot modify the file.
func WithQueryOnly() Option { return func(c *config) { c.queryOnly = true } }

// WithMkdirAll creates parent directories of the container path before opening.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// Open opens the SQLite file at path with the package pragmas applied.
// The pool is limited to one connection so pragmas hold for every statement.
func Open(path string, opts ...Option) (*sql.DB, error) {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}
	if !synchronousModes[cfg.synchronous] {
		return nil, fmt.Errorf("gpkg: unknown synchronous mode %q", cfg.synchronous)
	}
	if !journalModes[cfg.journalMode] {
		return nil, fmt.Errorf("gpkg: unknown journal mode %q", cfg.journalMode)
	}

	if cfg.mkdirAll {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("gpkg: mkdir: %w", err)
		}
	}

	db, err := sql.Open(cfg.driver, path)
	if err != nil {
		return nil, fmt.Errorf("gpkg: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db, &cfg); err != nil {
		db.Close()
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("gpkg: ping: %w", err)
	}
	return db, nil
}

func applyPragmas(db *sql.DB, cfg *config) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
	}
	if cfg.queryOnly {
		pragmas = append(pragmas, "PRAGMA query_only = ON")
	} else {
		pragmas = append(pragmas,
			fmt.Sprintf("PRAGMA journal_mode = %s", cfg.journalMode),
			fmt.Sprintf("PRAGMA synchronous = %s", cfg.synchronous))
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("gpkg: %s: %w", p, err)
		}
	}
	return nil
}
