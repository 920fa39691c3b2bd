package gpkg

import (
	"database/sql"
	"fmt"

	"github.com/twpayne/go-geom"
)

// TableInfo describes a feature table stored in a container.
type TableInfo struct {
	Path string
	Name string
	// Description holds the display name the table was written from.
	Description string
	// GeometryType is the OGC base type, e.g. "POLYGON".
	GeometryType string
	HasZ         bool
	SRID         int
	Features     int
	// Extent is nil for tables without coordinates.
	Extent *Envelope
}

// Inspect re-opens the container read-only and describes one table.
func Inspect(path, table string) (*TableInfo, error) {
	db, err := Open(path, WithQueryOnly())
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return inspect(db, path, table)
}

func inspect(db *sql.DB, path, table string) (*TableInfo, error) {
	info := &TableInfo{Path: path, Name: table}
	var (
		z                      int
		minX, minY, maxX, maxY sql.NullFloat64
	)
	err := db.QueryRow(
		`SELECT c.description, g.geometry_type_name, g.z, g.srs_id, c.min_x, c.min_y, c.max_x, c.max_y
		   FROM gpkg_contents c
		   JOIN gpkg_geometry_columns g ON g.table_name = c.table_name
		  WHERE c.table_name = ?`, table).
		Scan(&info.Description, &info.GeometryType, &z, &info.SRID, &minX, &minY, &maxX, &maxY)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("gpkg: table %q not registered in %s", table, path)
	}
	if err != nil {
		return nil, fmt.Errorf("gpkg: inspect %s: %w", table, err)
	}
	info.HasZ = z == 1
	if minX.Valid && minY.Valid && maxX.Valid && maxY.Valid {
		info.Extent = &Envelope{MinX: minX.Float64, MinY: minY.Float64, MaxX: maxX.Float64, MaxY: maxY.Float64}
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM " + quoteIdent(table)).Scan(&info.Features); err != nil {
		return nil, fmt.Errorf("gpkg: count %s: %w", table, err)
	}
	return info, nil
}

// ListTables returns every feature table of the container in creation order.
func ListTables(path string) ([]*TableInfo, error) {
	db, err := Open(path, WithQueryOnly())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query("SELECT table_name FROM gpkg_contents WHERE data_type = ? ORDER BY rowid", featuresDataType)
	if err != nil {
		return nil, fmt.Errorf("gpkg: list tables: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*TableInfo, 0, len(names))
	for _, name := range names {
		info, err := inspect(db, path, name)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

// ReadGeometries decodes the geometry column of a table in fid order.
func ReadGeometries(path, table string) ([]geom.T, error) {
	db, err := Open(path, WithQueryOnly())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		quoteIdent(geometryColumn), quoteIdent(table), quoteIdent(reservedPrimaryKey)))
	if err != nil {
		return nil, fmt.Errorf("gpkg: read %s: %w", table, err)
	}
	defer rows.Close()

	var out []geom.T
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		g, _, err := DecodeGeometry(blob)
		if err != nil {
			return nil, fmt.Errorf("gpkg: read %s: %w", table, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
