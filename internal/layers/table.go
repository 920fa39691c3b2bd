// Package layers turns a decoded LandXML document into named geometry
// collections (output tables) ready to be handed to a sink.
package layers

import (
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// GeometryKind is the base geometry type of a table.
type GeometryKind int

const (
	// KindPoint stores one point per feature.
	KindPoint GeometryKind = iota + 1
	// KindPolygon stores one polygon per feature.
	KindPolygon
	// KindMultiLineString stores one multi-part polyline per feature.
	KindMultiLineString
)

// String returns the OGC type name, e.g. "MULTILINESTRING".
func (k GeometryKind) String() string {
	switch k {
	case KindPoint:
		return "POINT"
	case KindPolygon:
		return "POLYGON"
	case KindMultiLineString:
		return "MULTILINESTRING"
	default:
		return "GEOMETRY"
	}
}

// FieldType is the storage class of an attribute column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInteger
	FieldReal
)

// SQLType returns the SQLite column type for the field.
func (t FieldType) SQLType() string {
	switch t {
	case FieldInteger:
		return "INTEGER"
	case FieldReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// Field is an attribute column.
type Field struct {
	Name string
	Type FieldType
}

// Feature is one row: a geometry plus one value per table field.
// A nil value is stored as NULL.
type Feature struct {
	Geometry geom.T
	Values   []any
}

// Table is a named geometry collection with a fixed schema.
type Table struct {
	// Name is the display name; writers sanitize it into an identifier.
	Name string
	Kind GeometryKind
	// HasZ is the collection-wide 2D/3D decision.
	HasZ     bool
	SRID     int
	Fields   []Field
	Features []Feature
}

// TypeName returns the geometry type with a Z suffix for 3D collections,
// e.g. "PolygonZ".
func (t *Table) TypeName() string {
	var name string
	switch t.Kind {
	case KindPoint:
		name = "Point"
	case KindPolygon:
		name = "Polygon"
	case KindMultiLineString:
		name = "MultiLineString"
	default:
		name = "Geometry"
	}
	if t.HasZ {
		name += "Z"
	}
	return name
}

// Layout returns the go-geom layout every feature geometry must use.
func (t *Table) Layout() geom.Layout {
	if t.HasZ {
		return geom.XYZ
	}
	return geom.XY
}

// FieldIndex returns the position of the named field, or -1.
func (t *Table) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Value returns the value of a field for feature i.
func (t *Table) Value(i int, field string) (any, bool) {
	j := t.FieldIndex(field)
	if j < 0 || i < 0 || i >= len(t.Features) {
		return nil, false
	}
	return t.Features[i].Values[j], true
}

// WKT returns the well-known text of feature i.
func (t *Table) WKT(i int) (string, error) {
	if i < 0 || i >= len(t.Features) {
		return "", fmt.Errorf("feature %d out of range [0,%d)", i, len(t.Features))
	}
	return wkt.Marshal(t.Features[i].Geometry)
}

// Validate checks the table is structurally writable. Field names must be
// non-empty and unique regardless of case (SQLite column names are not case
// sensitive). Every feature must match the table's geometry kind and layout
// and carry one value per field.
func (t *Table) Validate() error {
	if t == nil {
		return &ErrInvalidTable{Reason: "nil table"}
	}
	if t.Name == "" {
		return &ErrInvalidTable{Reason: "empty table name"}
	}
	if t.Kind < KindPoint || t.Kind > KindMultiLineString {
		return &ErrInvalidTable{Table: t.Name, Reason: fmt.Sprintf("unknown geometry kind %d", t.Kind)}
	}

	seen := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if f.Name == "" {
			return &ErrInvalidTable{Table: t.Name, Reason: "empty field name"}
		}
		key := strings.ToLower(f.Name)
		if seen[key] {
			return &ErrInvalidTable{Table: t.Name, Reason: fmt.Sprintf("duplicate field %q", f.Name)}
		}
		seen[key] = true
	}

	layout := t.Layout()
	for i, f := range t.Features {
		if f.Geometry == nil {
			return &ErrInvalidTable{Table: t.Name, Reason: fmt.Sprintf("feature %d has no geometry", i)}
		}
		if !kindMatches(t.Kind, f.Geometry) {
			return &ErrInvalidTable{Table: t.Name, Reason: fmt.Sprintf("feature %d is %T, table is %s", i, f.Geometry, t.TypeName())}
		}
		if f.Geometry.Layout() != layout {
			return &ErrInvalidTable{Table: t.Name, Reason: fmt.Sprintf("feature %d layout %v, table is %v", i, f.Geometry.Layout(), layout)}
		}
		if len(f.Values) != len(t.Fields) {
			return &ErrInvalidTable{Table: t.Name, Reason: fmt.Sprintf("feature %d has %d values for %d fields", i, len(f.Values), len(t.Fields))}
		}
	}
	return nil
}

func kindMatches(k GeometryKind, g geom.T) bool {
	switch g.(type) {
	case *geom.Point:
		return k == KindPoint
	case *geom.Polygon:
		return k == KindPolygon
	case *geom.MultiLineString:
		return k == KindMultiLineString
	default:
		return false
	}
}
