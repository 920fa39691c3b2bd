package layers

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/beetlebugorg/landxml/internal/parser"
)

// Table names of the document-wide collections.
const (
	PointsTable = "LandXML_Points"
	LinesTable  = "LandXML_Lines"
)

// Suffixes appended to a surface name for its collections.
const (
	BoundarySuffix   = "_Boundary"
	PntsSuffix       = "_Pnts"
	FacesSuffix      = "_Faces"
	BreaklinesSuffix = "_Breaklines"
)

// emptyCodeName replaces an empty base code in a group table name.
const emptyCodeName = "(empty)"

// BuildOptions configures table construction.
type BuildOptions struct {
	// SRID is stamped on every table and geometry.
	SRID int
	// MissingZ substitutes absent elevations in 3D collections.
	MissingZ float64
	// Logger receives one debug line per table. nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultBuildOptions returns options writing NaN for missing elevations.
func DefaultBuildOptions(srid int) BuildOptions {
	return BuildOptions{SRID: srid, MissingZ: math.NaN()}
}

// GroupTableName returns the table name of a point code group.
func GroupTableName(code string) string {
	if code == "" {
		code = emptyCodeName
	}
	return "CgPoints_" + code
}

// Tables builds every output table of doc in emission order: code groups,
// the full point table, linear features, then per surface its boundary,
// vertices, faces and breaklines. Empty collections are not emitted.
func Tables(doc *parser.Document, opts BuildOptions) []*Table {
	ser := Serializer{MissingZ: opts.MissingZ, SRID: opts.SRID}
	var out []*Table
	add := func(t *Table) {
		if t != nil && len(t.Features) > 0 {
			out = append(out, t)
		}
	}

	for i := range doc.Groups {
		add(groupTable(&doc.Groups[i], ser))
	}
	add(pointsTable(doc.Points, ser))
	add(linesTable(doc.LinearFeatures, ser))
	for i := range doc.Surfaces {
		s := &doc.Surfaces[i]
		add(boundaryTable(s, ser))
		add(surfacePointsTable(s, ser))
		add(facesTable(s, ser))
		add(breaklinesTable(s, ser))
	}
	return out
}

// Build hands every table of doc to sink in emission order and stops at the
// first sink error.
func Build(doc *parser.Document, opts BuildOptions, sink Sink) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, t := range Tables(doc, opts) {
		logger.Debug("landxml table built", "table", t.Name, "type", t.TypeName(), "features", len(t.Features))
		if err := sink.AddTable(t); err != nil {
			return fmt.Errorf("sink %s: %w", t.Name, err)
		}
	}
	return nil
}

func groupTable(g *parser.CodeGroup, ser Serializer) *Table {
	hasZ := g.HasElevation()
	t := &Table{
		Name: GroupTableName(g.Code),
		Kind: KindPoint,
		HasZ: hasZ,
		SRID: ser.SRID,
		Fields: []Field{
			{Name: "id", Type: FieldText},
			{Name: "code_full", Type: FieldText},
			{Name: "code_suffix", Type: FieldText},
			{Name: "desc", Type: FieldText},
			{Name: "z", Type: FieldReal},
		},
	}
	labelFields := propertyFieldNames(g.Labels, t.Fields)
	for _, name := range labelFields {
		t.Fields = append(t.Fields, Field{Name: name, Type: FieldText})
	}

	for _, p := range g.Points {
		values := []any{p.ID, p.CodeFull, p.CodeSuffix, p.Desc, elevation(p.Vertex())}
		for _, label := range g.Labels {
			if v, ok := p.Properties[label]; ok {
				values = append(values, v)
			} else {
				values = append(values, nil)
			}
		}
		t.Features = append(t.Features, Feature{Geometry: ser.Point(p.Vertex(), hasZ), Values: values})
	}
	return t
}

// propertyFieldNames maps property labels to feat_<label> column names.
// Spaces, hyphens and slashes become underscores; names colliding with an
// existing column get a numeric suffix. Column names compare case-insensitively.
func propertyFieldNames(labels []string, existing []Field) []string {
	taken := make(map[string]bool, len(existing)+len(labels))
	for _, f := range existing {
		taken[strings.ToLower(f.Name)] = true
	}
	replacer := strings.NewReplacer(" ", "_", "-", "_", "/", "_")

	names := make([]string, 0, len(labels))
	for _, label := range labels {
		base := "feat_" + replacer.Replace(label)
		name := base
		for n := 2; taken[strings.ToLower(name)]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		taken[strings.ToLower(name)] = true
		names = append(names, name)
	}
	return names
}

func pointsTable(points []parser.Point, ser Serializer) *Table {
	hasZ := false
	for _, p := range points {
		if p.HasZ {
			hasZ = true
			break
		}
	}
	t := &Table{
		Name: PointsTable,
		Kind: KindPoint,
		HasZ: hasZ,
		SRID: ser.SRID,
		Fields: []Field{
			{Name: "id", Type: FieldText},
			{Name: "easting", Type: FieldReal},
			{Name: "northing", Type: FieldReal},
			{Name: "elevation", Type: FieldReal},
			{Name: "code", Type: FieldText},
		},
	}
	for _, p := range points {
		t.Features = append(t.Features, Feature{
			Geometry: ser.Point(p.Vertex(), hasZ),
			Values:   []any{p.ID, p.X, p.Y, elevation(p.Vertex()), p.CodeFull},
		})
	}
	return t
}

func linesTable(features []parser.LinearFeature, ser Serializer) *Table {
	hasZ := false
	for _, lf := range features {
		if parser.PartsHaveElevation(lf.Parts) {
			hasZ = true
			break
		}
	}
	t := &Table{
		Name: LinesTable,
		Kind: KindMultiLineString,
		HasZ: hasZ,
		SRID: ser.SRID,
		Fields: []Field{
			{Name: "obj_type", Type: FieldText},
			{Name: "obj_name", Type: FieldText},
			{Name: "obj_desc", Type: FieldText},
		},
	}
	for _, lf := range features {
		if len(lf.Parts) == 0 {
			continue
		}
		t.Features = append(t.Features, Feature{
			Geometry: ser.MultiLineString(lf.Parts, hasZ),
			Values:   []any{lf.Kind.String(), lf.Name, lf.Desc},
		})
	}
	return t
}

func boundaryTable(s *parser.Surface, ser Serializer) *Table {
	if s.BoundaryOuter == nil {
		return nil
	}
	t := &Table{
		Name:   s.Name + BoundarySuffix,
		Kind:   KindPolygon,
		SRID:   ser.SRID,
		Fields: []Field{{Name: "type", Type: FieldText}},
	}
	t.Features = append(t.Features, Feature{
		Geometry: ser.Polygon([]parser.Part{s.BoundaryOuter}, false),
		Values:   []any{"outer"},
	})
	for i, inner := range s.BoundaryInners {
		t.Features = append(t.Features, Feature{
			Geometry: ser.Polygon([]parser.Part{inner}, false),
			Values:   []any{"inner_" + strconv.Itoa(i+1)},
		})
	}
	return t
}

func surfacePointsTable(s *parser.Surface, ser Serializer) *Table {
	hasZ := false
	for _, id := range s.PointOrder {
		if s.Points[id].HasZ {
			hasZ = true
			break
		}
	}
	t := &Table{
		Name: s.Name + PntsSuffix,
		Kind: KindPoint,
		HasZ: hasZ,
		SRID: ser.SRID,
		Fields: []Field{
			{Name: "pid", Type: FieldText},
			{Name: "z", Type: FieldReal},
		},
	}
	for _, id := range s.PointOrder {
		v := s.Points[id]
		t.Features = append(t.Features, Feature{
			Geometry: ser.Point(v, hasZ),
			Values:   []any{id, elevation(v)},
		})
	}
	return t
}

func facesTable(s *parser.Surface, ser Serializer) *Table {
	t := &Table{
		Name:   s.Name + FacesSuffix,
		Kind:   KindPolygon,
		HasZ:   true,
		SRID:   ser.SRID,
		Fields: []Field{{Name: "id", Type: FieldInteger}},
	}
	for i, f := range s.Faces {
		t.Features = append(t.Features, Feature{
			Geometry: ser.Polygon([]parser.Part{f.Ring()}, true),
			Values:   []any{int64(i + 1)},
		})
	}
	return t
}

func breaklinesTable(s *parser.Surface, ser Serializer) *Table {
	hasZ := parser.PartsHaveElevation(s.Breaklines)
	t := &Table{
		Name:   s.Name + BreaklinesSuffix,
		Kind:   KindMultiLineString,
		HasZ:   hasZ,
		SRID:   ser.SRID,
		Fields: []Field{{Name: "name", Type: FieldText}},
	}
	for i, part := range s.Breaklines {
		t.Features = append(t.Features, Feature{
			Geometry: ser.MultiLineString([]parser.Part{part}, hasZ),
			Values:   []any{"BL_" + strconv.Itoa(i+1)},
		})
	}
	return t
}

// elevation returns the vertex elevation, or nil (NULL) when absent.
func elevation(v parser.Vertex) any {
	if !v.HasZ {
		return nil
	}
	return v.Z
}
