package layers

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/beetlebugorg/landxml/internal/parser"
	"github.com/twpayne/go-geom"
)

func parseSite(t *testing.T) *parser.Document {
	t.Helper()
	opts := parser.DefaultParseOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	doc, err := parser.NewParser().ParseWithOptions("../../testdata/site.xml", opts)
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}
	return doc
}

func buildSite(t *testing.T) *Collector {
	t.Helper()
	doc := parseSite(t)
	c := &Collector{}
	if err := Build(doc, DefaultBuildOptions(doc.EPSG), c); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

func TestBuildEmissionOrder(t *testing.T) {
	c := buildSite(t)
	want := []string{
		"CgPoints_GM", "CgPoints_TREE", "CgPoints_(empty)",
		"LandXML_Points", "LandXML_Lines",
		"DGM_Boundary", "DGM_Pnts", "DGM_Faces", "DGM_Breaklines",
		"Text_Pnts", "Text_Faces",
	}
	got := c.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Expected tables\n%v\ngot\n%v", want, got)
	}
	for _, tbl := range c.Tables {
		if err := tbl.Validate(); err != nil {
			t.Errorf("%s: %v", tbl.Name, err)
		}
		if tbl.SRID != 25833 {
			t.Errorf("%s: expected SRID 25833, got %d", tbl.Name, tbl.SRID)
		}
	}
}

func TestGroupTable(t *testing.T) {
	c := buildSite(t)

	gm, ok := c.Lookup("CgPoints_GM")
	if !ok {
		t.Fatal("missing CgPoints_GM")
	}
	if gm.TypeName() != "PointZ" {
		t.Errorf("Expected PointZ, got %s", gm.TypeName())
	}
	var fields []string
	for _, f := range gm.Fields {
		fields = append(fields, f.Name)
	}
	if strings.Join(fields, ",") != "id,code_full,code_suffix,desc,z,feat_crown_width,feat_species" {
		t.Errorf("Unexpected fields %v", fields)
	}
	if v, _ := gm.Value(0, "feat_species"); v != "oak" {
		t.Errorf("Expected joined property oak, got %v", v)
	}
	if v, _ := gm.Value(1, "feat_species"); v != nil {
		t.Errorf("Expected NULL for point without properties, got %v", v)
	}
	if v, _ := gm.Value(1, "code_full"); v != "GM 2" {
		t.Errorf("Expected full code GM 2, got %v", v)
	}

	tree, _ := c.Lookup("CgPoints_TREE")
	if tree.HasZ {
		t.Error("TREE group has no elevations and should be 2D")
	}
	if v, _ := tree.Value(0, "z"); v != nil {
		t.Errorf("Expected NULL z, got %v", v)
	}
}

func TestPointsTableMissingElevation(t *testing.T) {
	c := buildSite(t)
	pts, _ := c.Lookup(PointsTable)
	if !pts.HasZ || len(pts.Features) != 4 {
		t.Fatalf("Expected 4 PointZ features, got %d (%s)", len(pts.Features), pts.TypeName())
	}
	p := pts.Features[2].Geometry.(*geom.Point)
	if !math.IsNaN(p.Z()) {
		t.Errorf("Expected NaN substitute for missing elevation, got %v", p.Z())
	}
	if v, _ := pts.Value(2, "elevation"); v != nil {
		t.Errorf("Expected NULL elevation attribute, got %v", v)
	}
	if v, _ := pts.Value(0, "easting"); v != 100.0 {
		t.Errorf("Expected easting 100, got %v", v)
	}
}

func TestLinesAndSurfaceTables(t *testing.T) {
	c := buildSite(t)

	lines, _ := c.Lookup(LinesTable)
	if lines.TypeName() != "MultiLineStringZ" || len(lines.Features) != 5 {
		t.Errorf("Lines: %s with %d features", lines.TypeName(), len(lines.Features))
	}
	if v, _ := lines.Value(4, "obj_type"); v != "Alignment" {
		t.Errorf("Expected last feature Alignment, got %v", v)
	}
	mls := lines.Features[0].Geometry.(*geom.MultiLineString)
	if mls.NumLineStrings() != 3 {
		t.Errorf("PF1: expected 3 line strings, got %d", mls.NumLineStrings())
	}

	bnd, _ := c.Lookup("DGM_Boundary")
	if bnd.HasZ || len(bnd.Features) != 2 {
		t.Fatalf("Boundary: %s with %d features", bnd.TypeName(), len(bnd.Features))
	}
	if v, _ := bnd.Value(1, "type"); v != "inner_1" {
		t.Errorf("Expected inner_1, got %v", v)
	}

	faces, _ := c.Lookup("DGM_Faces")
	if faces.TypeName() != "PolygonZ" || len(faces.Features) != 1 {
		t.Fatalf("Faces: %s with %d features", faces.TypeName(), len(faces.Features))
	}
	if v, _ := faces.Value(0, "id"); v != int64(1) {
		t.Errorf("Expected face id 1, got %v", v)
	}
	text, err := faces.WKT(0)
	if err != nil {
		t.Fatalf("WKT: %v", err)
	}
	if !strings.HasPrefix(text, "POLYGON") || !strings.Contains(text, "Z") {
		t.Errorf("Expected 3D polygon WKT, got %s", text)
	}

	bl, _ := c.Lookup("DGM_Breaklines")
	if v, _ := bl.Value(0, "name"); v != "BL_1" {
		t.Errorf("Expected BL_1, got %v", v)
	}

	if _, ok := c.Lookup("Text_Boundary"); ok {
		t.Error("Surface without outer boundary must not emit a boundary table")
	}
}

func TestBuildStopsOnSinkError(t *testing.T) {
	doc := parseSite(t)
	boom := errors.New("boom")
	calls := 0
	sink := SinkFunc(func(*Table) error {
		calls++
		return boom
	})
	err := Build(doc, DefaultBuildOptions(doc.EPSG), sink)
	if !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped sink error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected build to stop after first error, got %d calls", calls)
	}
}

func TestPropertyFieldNames(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		existing []Field
		want     []string
	}{
		{
			name:     "separators collide",
			labels:   []string{"a b", "a-b", "x/y", "plain"},
			existing: []Field{{Name: "id"}, {Name: "feat_a_b"}},
			want:     []string{"feat_a_b_2", "feat_a_b_3", "feat_x_y", "feat_plain"},
		},
		{
			name:   "case only",
			labels: []string{"Color", "color", "COLOR"},
			want:   []string{"feat_Color", "feat_color_2", "feat_COLOR_3"},
		},
		{
			name:     "case against existing",
			labels:   []string{"ID"},
			existing: []Field{{Name: "feat_id"}},
			want:     []string{"feat_ID_2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := propertyFieldNames(tt.labels, tt.existing)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

const caseLabelsDocument = `<LandXML xmlns="http://www.landxml.org/schema/LandXML-1.2">
  <CgPoints>
    <Feature code="F1">
      <Property label="Color" value="red"/>
      <Property label="color" value="dark"/>
    </Feature>
    <CgPoint name="1" code="KS" featureRef="F1">10 20 1</CgPoint>
  </CgPoints>
</LandXML>`

func TestGroupTableWithCaseOnlyLabels(t *testing.T) {
	opts := parser.DefaultParseOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	doc, err := parser.NewParser().ParseReader(strings.NewReader(caseLabelsDocument), opts)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	var group *Table
	for _, tbl := range Tables(doc, DefaultBuildOptions(doc.EPSG)) {
		if tbl.Name == "CgPoints_KS" {
			group = tbl
		}
	}
	if group == nil {
		t.Fatal("Expected table CgPoints_KS")
	}
	if err := group.Validate(); err != nil {
		t.Fatalf("Expected valid group table, got %v", err)
	}
	if group.FieldIndex("feat_Color") < 0 || group.FieldIndex("feat_color_2") < 0 {
		t.Errorf("Expected feat_Color and feat_color_2, got %+v", group.Fields)
	}
	if got, _ := group.Value(0, "feat_Color"); got != "red" {
		t.Errorf("Expected feat_Color=red, got %v", got)
	}
	if got, _ := group.Value(0, "feat_color_2"); got != "dark" {
		t.Errorf("Expected feat_color_2=dark, got %v", got)
	}
}

func TestGroupTableName(t *testing.T) {
	if got := GroupTableName(""); got != "CgPoints_(empty)" {
		t.Errorf("Expected CgPoints_(empty), got %s", got)
	}
	if got := GroupTableName("KS"); got != "CgPoints_KS" {
		t.Errorf("Expected CgPoints_KS, got %s", got)
	}
}
