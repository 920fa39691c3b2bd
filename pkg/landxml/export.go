package landxml

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/beetlebugorg/landxml/internal/gpkg"
)

// Container types.
type (
	// ExportResult summarizes an Export call.
	ExportResult = gpkg.Result
	// TableInfo describes a table stored in a container.
	TableInfo = gpkg.TableInfo
	// Envelope is a 2D extent.
	Envelope = gpkg.Envelope
)

// Export errors.
var (
	ErrNoDestination = gpkg.ErrNoDestination
	ErrNoTables      = gpkg.ErrNoTables
)

// ErrWriteTable is returned when a valid table fails to persist.
type ErrWriteTable = gpkg.ErrWriteTable

// ExportOptions configures Export.
type ExportOptions struct {
	// Logger receives progress and skip messages. nil uses slog.Default().
	Logger *slog.Logger

	// Registrar receives every table right after it was written and
	// re-opened from the container.
	Registrar func(info *TableInfo) error

	// Synchronous is the SQLite synchronous mode (OFF, NORMAL, FULL, EXTRA).
	// Empty keeps NORMAL.
	Synchronous string

	// JournalMode is the SQLite journal mode. Empty keeps DELETE, which leaves
	// a single file behind.
	JournalMode string

	// BusyTimeout bounds waits on a locked container. Zero keeps 10s.
	BusyTimeout time.Duration
}

func (o ExportOptions) open() []gpkg.Option {
	var opts []gpkg.Option
	if o.Synchronous != "" {
		opts = append(opts, gpkg.WithSynchronous(o.Synchronous))
	}
	if o.JournalMode != "" {
		opts = append(opts, gpkg.WithJournalMode(o.JournalMode))
	}
	if o.BusyTimeout > 0 {
		opts = append(opts, gpkg.WithBusyTimeout(int(o.BusyTimeout/time.Millisecond)))
	}
	return opts
}

// Export writes tables into a GeoPackage at dest, or at dest__1, dest__2, ...
// when dest exists. Missing parent directories are created. Invalid tables
// are skipped with a warning. Cancelling ctx stops before the next table;
// tables already written stay valid.
func Export(ctx context.Context, tables []*Table, dest string, opts ExportOptions) (*ExportResult, error) {
	return gpkg.Write(ctx, dest, tables, gpkg.Options{
		Logger:    opts.Logger,
		Registrar: opts.Registrar,
		Open:      opts.open(),
	})
}

// SelectTables returns the named tables in the order given. An empty
// selection returns every table.
func SelectTables(tables []*Table, names []string) ([]*Table, error) {
	if len(names) == 0 {
		return tables, nil
	}
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}
	out := make([]*Table, 0, len(names))
	var unknown []string
	for _, name := range names {
		t, ok := byName[strings.TrimSpace(name)]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		out = append(out, t)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("landxml: unknown tables: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// ListTables describes every feature table in a container.
func ListTables(path string) ([]*TableInfo, error) {
	return gpkg.ListTables(path)
}
