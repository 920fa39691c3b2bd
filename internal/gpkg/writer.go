package gpkg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/beetlebugorg/landxml/internal/layers"
)

// Registrar is called with every table right after it was written and
// re-opened for inspection.
type Registrar func(info *TableInfo) error

// Options configures Write.
type Options struct {
	// Logger receives progress and skip messages. nil uses slog.Default().
	Logger *slog.Logger
	// Registrar, when set, receives each written table.
	Registrar Registrar
	// Open is passed to Open for the write connection. Parent directories of
	// the destination are always created.
	Open []Option
}

// Skipped records a table that was not written.
type Skipped struct {
	Name   string
	Reason string
}

// Result summarizes a Write call.
type Result struct {
	// Path is the collision-free container path actually used.
	Path    string
	Written []*TableInfo
	Skipped []Skipped
	// Canceled is set when the context ended before every table was written.
	Canceled bool
}

// Write stores tables in one container at a collision-free variant of dest.
//
// The destination is resolved once. The first table written creates the file
// and each following table is created (or replaced) inside it, in its own
// transaction. Structurally invalid tables are logged and skipped; a failure
// writing a valid table aborts the run with *ErrWriteTable. Cancellation is
// checked between tables only: tables already written stay valid, and the
// returned Result is populated alongside ctx.Err().
func Write(ctx context.Context, dest string, tables []*layers.Table, opts Options) (*Result, error) {
	if strings.TrimSpace(dest) == "" {
		return nil, ErrNoDestination
	}
	if len(tables) == 0 {
		return nil, ErrNoTables
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := &writer{
		path:   UniquePath(dest),
		opts:   opts,
		logger: logger,
	}
	defer w.close()

	res := &Result{Path: w.path}
	logger.Info("landxml destination", "path", w.path)

	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			res.Canceled = true
			logger.Warn("landxml export canceled", "written", len(res.Written), "remaining", len(tables)-len(res.Written)-len(res.Skipped))
			return res, err
		}

		name, err := checkTable(t)
		if err != nil {
			display := "<nil>"
			if t != nil {
				display = t.Name
			}
			logger.Warn("landxml table skipped", "layer", display, "error", err)
			res.Skipped = append(res.Skipped, Skipped{Name: display, Reason: err.Error()})
			continue
		}

		logger.Info("landxml write", "layer", t.Name, "table", name)
		if err := w.writeTable(ctx, name, t); err != nil {
			return res, &ErrWriteTable{Path: w.path, Table: name, Err: err}
		}

		info, err := Inspect(w.path, name)
		if err != nil {
			return res, &ErrWriteTable{Path: w.path, Table: name, Err: fmt.Errorf("reopen: %w", err)}
		}
		res.Written = append(res.Written, info)
		if opts.Registrar != nil {
			if err := opts.Registrar(info); err != nil {
				return res, fmt.Errorf("gpkg: register %s: %w", name, err)
			}
		}
	}
	return res, nil
}

// checkTable validates t and returns its sanitized table name.
func checkTable(t *layers.Table) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	for _, f := range t.Fields {
		if strings.EqualFold(f.Name, reservedPrimaryKey) || strings.EqualFold(f.Name, geometryColumn) {
			return "", &layers.ErrInvalidTable{Table: t.Name, Reason: fmt.Sprintf("field %q collides with a reserved column", f.Name)}
		}
	}
	return SanitizeTableName(t.Name), nil
}

// writer holds the container connection across tables.
type writer struct {
	path   string
	opts   Options
	logger *slog.Logger
	db     *sql.DB
}

// conn opens the container, creating it on first use.
func (w *writer) conn(ctx context.Context) (*sql.DB, error) {
	if w.db != nil {
		return w.db, nil
	}
	if err := os.Remove(w.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("replace container: %w", err)
	}
	db, err := Open(w.path, append([]Option{WithMkdirAll()}, w.opts.Open...)...)
	if err != nil {
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	w.db = db
	return db, nil
}

func (w *writer) close() {
	if w.db != nil {
		w.db.Close()
		w.db = nil
	}
}

// writeTable replaces table name with the contents of t in one transaction.
// The write itself is not interrupted by cancellation.
func (w *writer) writeTable(ctx context.Context, name string, t *layers.Table) error {
	ctx = context.WithoutCancel(ctx)
	db, err := w.conn(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := dropTable(ctx, tx, name); err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	if err := ensureSRS(ctx, tx, t.SRID); err != nil {
		return fmt.Errorf("srs: %w", err)
	}
	if err := createTable(ctx, tx, name, t); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	extent, err := insertFeatures(ctx, tx, name, t)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	if err := registerTable(ctx, tx, name, t, extent); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return tx.Commit()
}

func dropTable(ctx context.Context, tx *sql.Tx, name string) error {
	stmts := []struct {
		query string
		args  []any
	}{
		{"DELETE FROM gpkg_extensions WHERE table_name = ?", []any{name}},
		{"DELETE FROM gpkg_geometry_columns WHERE table_name = ?", []any{name}},
		{"DELETE FROM gpkg_contents WHERE table_name = ?", []any{name}},
		{"DROP TABLE IF EXISTS " + quoteIdent(rtreeName(name)), nil},
		{"DROP TABLE IF EXISTS " + quoteIdent(name), nil},
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s.query, s.args...); err != nil {
			return err
		}
	}
	return nil
}

func createTable(ctx context.Context, tx *sql.Tx, name string, t *layers.Table) error {
	cols := []string{
		quoteIdent(reservedPrimaryKey) + " INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL",
		quoteIdent(geometryColumn) + " BLOB",
	}
	for _, f := range t.Fields {
		cols = append(cols, quoteIdent(f.Name)+" "+f.Type.SQLType())
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(cols, ", "))); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, fmt.Sprintf(
		"CREATE VIRTUAL TABLE %s USING rtree(id, minx, maxx, miny, maxy)", quoteIdent(rtreeName(name))))
	return err
}

// insertFeatures writes every row and its spatial index entry and returns the
// table extent (nil when no feature has coordinates).
func insertFeatures(ctx context.Context, tx *sql.Tx, name string, t *layers.Table) (*Envelope, error) {
	cols := []string{quoteIdent(geometryColumn)}
	marks := []string{"?"}
	for _, f := range t.Fields {
		cols = append(cols, quoteIdent(f.Name))
		marks = append(marks, "?")
	}
	insert, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return nil, err
	}
	defer insert.Close()

	index, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (?, ?, ?, ?, ?)", quoteIdent(rtreeName(name))))
	if err != nil {
		return nil, err
	}
	defer index.Close()

	var extent *Envelope
	args := make([]any, 1+len(t.Fields))
	for i, f := range t.Features {
		blob, err := EncodeGeometry(f.Geometry, t.SRID)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		args[0] = blob
		copy(args[1:], f.Values)

		r, err := insert.ExecContext(ctx, args...)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		env, ok := envelopeOf(f.Geometry)
		if !ok {
			continue
		}
		fid, err := r.LastInsertId()
		if err != nil {
			return nil, err
		}
		if _, err := index.ExecContext(ctx, fid, env.MinX, env.MaxX, env.MinY, env.MaxY); err != nil {
			return nil, fmt.Errorf("feature %d index: %w", i, err)
		}
		if extent == nil {
			extent = &env
		} else {
			*extent = extent.Extend(env)
		}
	}
	return extent, nil
}

func registerTable(ctx context.Context, tx *sql.Tx, name string, t *layers.Table, extent *Envelope) error {
	var minX, minY, maxX, maxY any
	if extent != nil {
		minX, minY, maxX, maxY = extent.MinX, extent.MinY, extent.MaxX, extent.MaxY
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO gpkg_contents (table_name, data_type, identifier, description, min_x, min_y, max_x, max_y, srs_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		name, featuresDataType, name, t.Name, minX, minY, maxX, maxY, t.SRID); err != nil {
		return err
	}

	z := 0
	if t.HasZ {
		z = 1
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO gpkg_geometry_columns (table_name, column_name, geometry_type_name, srs_id, z, m)
		 VALUES (?, ?, ?, ?, ?, 0)`,
		name, geometryColumn, t.Kind.String(), t.SRID, z); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO gpkg_extensions (table_name, column_name, extension_name, definition, scope)
		 VALUES (?, ?, ?, ?, 'write-only')`,
		name, geometryColumn, rtreeExtension, rtreeDefinition)
	return err
}
