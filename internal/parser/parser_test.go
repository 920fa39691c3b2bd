package parser

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/twpayne/go-geom"
)

const testDocumentPath = "../../testdata/site.xml"

func quietOptions() ParseOptions {
	opts := DefaultParseOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func parseTestDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := NewParser().ParseWithOptions(testDocumentPath, quietOptions())
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", testDocumentPath, err)
	}
	return doc
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseMissingFile(t *testing.T) {
	_, err := NewParser().Parse(filepath.Join(t.TempDir(), "nope.xml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	var inputErr *ErrInputFile
	if !errors.As(err, &inputErr) {
		t.Fatalf("Expected *ErrInputFile, got %T", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestParseDirectoryIsRejected(t *testing.T) {
	_, err := NewParser().Parse(t.TempDir())
	var inputErr *ErrInputFile
	if !errors.As(err, &inputErr) {
		t.Fatalf("Expected *ErrInputFile for a directory, got %v", err)
	}
}

func TestParseMalformedXML(t *testing.T) {
	_, err := NewParser().ParseReader(strings.NewReader("<LandXML><CgPoints>"), quietOptions())
	var docErr *ErrInvalidDocument
	if !errors.As(err, &docErr) {
		t.Fatalf("Expected *ErrInvalidDocument, got %v", err)
	}
}

func TestDocumentCRS(t *testing.T) {
	doc := parseTestDocument(t)
	if doc.CRS.EPSG != 25833 {
		t.Errorf("Expected declared EPSG 25833, got %d", doc.CRS.EPSG)
	}
	if doc.CRS.Name != "ETRS89 / UTM 33N" {
		t.Errorf("Expected CRS name from document, got %q", doc.CRS.Name)
	}
	if doc.EPSG != 25833 {
		t.Errorf("Expected resolved EPSG 25833, got %d", doc.EPSG)
	}
	if doc.Source != testDocumentPath {
		t.Errorf("Expected source %q, got %q", testDocumentPath, doc.Source)
	}
}

func TestDocumentPoints(t *testing.T) {
	doc := parseTestDocument(t)

	if doc.PointCount() != 4 {
		t.Fatalf("Expected 4 points (unparsable one dropped), got %d", doc.PointCount())
	}

	p := doc.Points[0]
	if p.ID != "1" || p.X != 100 || p.Y != 200 || !p.HasZ || p.Z != 10 {
		t.Errorf("Point 1 = %+v, want id 1 at (100,200,10) after axis swap", p)
	}
	if p.CodeFull != "GM 1" || p.CodeBase != "GM" || p.CodeSuffix != "1" {
		t.Errorf("Point 1 codes = %q/%q/%q", p.CodeFull, p.CodeBase, p.CodeSuffix)
	}
	if p.Properties["species"] != "oak" || p.Properties["crown width"] != "4.5" {
		t.Errorf("Point 1 properties not joined: %v", p.Properties)
	}
	if len(doc.Points[1].Properties) != 0 || doc.Points[1].Properties == nil {
		t.Errorf("Point without featureRef should have empty, non-nil properties: %v", doc.Points[1].Properties)
	}
	if doc.Points[2].HasZ {
		t.Error("Point 3 has only two values and should have no elevation")
	}

	gm, ok := doc.Group("GM")
	if !ok {
		t.Fatal("Expected code group GM")
	}
	if len(gm.Points) != 2 {
		t.Errorf("Expected 2 members in GM, got %d", len(gm.Points))
	}
	if gm.Points[0].CodeFull != "GM 1" || gm.Points[1].CodeFull != "GM 2" {
		t.Errorf("Full codes not preserved: %q, %q", gm.Points[0].CodeFull, gm.Points[1].CodeFull)
	}
	if strings.Join(gm.Labels, ",") != "crown width,species" {
		t.Errorf("Expected sorted label union, got %v", gm.Labels)
	}
	if !gm.HasElevation() {
		t.Error("GM group should have elevation")
	}

	codes := make([]string, 0, len(doc.Groups))
	for _, g := range doc.Groups {
		codes = append(codes, g.Code)
	}
	if strings.Join(codes, "|") != "GM|TREE|" {
		t.Errorf("Expected groups in first-appearance order GM|TREE|, got %q", strings.Join(codes, "|"))
	}

	if v, ok := doc.Index.Lookup("3"); !ok || v.X != 150 || v.Y != 300 {
		t.Errorf("Index lookup of point 3 = %+v, %v", v, ok)
	}
	if _, ok := doc.Index.Lookup("bad"); ok {
		t.Error("Dropped point must not be indexed")
	}
}

func TestDocumentLinearFeatures(t *testing.T) {
	doc := parseTestDocument(t)

	var names []string
	for _, lf := range doc.LinearFeatures {
		names = append(names, lf.Kind.String()+":"+lf.Name)
	}
	want := "PlanFeature:PF1,PlanFeature:PF2,Breakline:BL,Breakline:edge,Alignment:AL1"
	if strings.Join(names, ",") != want {
		t.Fatalf("Linear features = %s, want %s", strings.Join(names, ","), want)
	}

	pf1 := doc.LinearFeatures[0]
	if len(pf1.Parts) != 3 {
		t.Fatalf("PF1: expected 3 segments (one unresolved dropped), got %d", len(pf1.Parts))
	}
	if pf1.Desc != "fence" {
		t.Errorf("PF1 desc = %q", pf1.Desc)
	}
	seg := pf1.Parts[0]
	if seg[0].X != 100 || seg[0].Y != 200 || seg[1].Y != 201 {
		t.Errorf("PF1 segment 1 not resolved from point ids: %+v", seg)
	}
	lit := pf1.Parts[1]
	if lit[0].X != 500 || lit[0].Y != 400 || lit[0].HasZ {
		t.Errorf("PF1 literal start = %+v, want (500,400) 2D", lit[0])
	}
	if !lit[1].HasZ || lit[1].Z != 7 {
		t.Errorf("PF1 literal end = %+v, want elevation 7", lit[1])
	}
	if ref := pf1.Parts[2][0]; ref.X != 150 || ref.Y != 300 {
		t.Errorf("pntRef start = %+v, want point 3", ref)
	}

	bl := doc.LinearFeatures[2]
	if len(bl.Parts) != 1 || len(bl.Parts[0]) != 2 {
		t.Fatalf("BL: expected one part of 2 vertices, got %v", bl.Parts)
	}
	if v := bl.Parts[0][1]; v.X != 0 || v.Y != 10 || v.Z != 2 {
		t.Errorf("BL vertex 2 = %+v, want (0,10,2)", v)
	}

	al := doc.LinearFeatures[4]
	if len(al.Parts) != 1 {
		t.Errorf("Alignment should ignore profile point lists, got %d parts", len(al.Parts))
	}
}

func TestDocumentSurfaces(t *testing.T) {
	doc := parseTestDocument(t)

	if len(doc.Surfaces) != 2 {
		t.Fatalf("Expected 2 surfaces (empty one omitted), got %d", len(doc.Surfaces))
	}

	dgm, ok := doc.Surface("DGM")
	if !ok {
		t.Fatal("Expected surface DGM")
	}
	if len(dgm.Points) != 4 || strings.Join(dgm.PointOrder, ",") != "1,2,3,4" {
		t.Errorf("DGM points = %v (order %v)", dgm.Points, dgm.PointOrder)
	}
	if len(dgm.Faces) != 1 {
		t.Fatalf("Expected 1 face (2 skipped), got %d", len(dgm.Faces))
	}
	ring := dgm.Faces[0].Ring()
	wantZ := []float64{0, 0, 5, 0}
	for i, v := range ring {
		if !approx(v.Z, wantZ[i]) {
			t.Errorf("Face ring vertex %d z = %v, want %v", i, v.Z, wantZ[i])
		}
	}

	if len(dgm.BoundaryOuter) != 5 {
		t.Errorf("Outer ring should be closed with 5 vertices, got %d", len(dgm.BoundaryOuter))
	}
	if len(dgm.BoundaryInners) != 1 || len(dgm.BoundaryInners[0]) != 5 {
		t.Errorf("Expected one already-closed inner ring, got %v", dgm.BoundaryInners)
	}
	if dgm.Mask == nil {
		t.Fatal("Expected boundary mask")
	}
	if area := maskArea(dgm.Mask); math.Abs(area-96) > 1e-6 {
		t.Errorf("Mask area = %v, want 96", area)
	}
	if len(dgm.Breaklines) != 1 {
		t.Errorf("Expected 1 surface breakline, got %d", len(dgm.Breaklines))
	}

	text, ok := doc.Surface("Text")
	if !ok {
		t.Fatal("Expected surface Text")
	}
	if len(text.Points) != 3 {
		t.Errorf("Text block fallback: expected 3 points, got %d", len(text.Points))
	}
	if v := text.Points["2"]; v.X != 10 || v.Y != 0 || v.Z != 2 {
		t.Errorf("Text point 2 = %+v, want swapped (10,0,2)", v)
	}
	if text.Mask != nil || text.BoundaryOuter != nil {
		t.Error("Surface without outer boundary must have no mask")
	}
	p := text.Faces[0].Plane
	if !approx(p.A, 0.1) || !approx(p.B, 0.2) || !approx(p.C, 1) {
		t.Errorf("Text face plane = %+v, want A=0.1 B=0.2 C=1", p)
	}
}

func TestParseSkipsSurfacesWhenDisabled(t *testing.T) {
	opts := quietOptions()
	opts.ImportSurfaces = false
	doc, err := NewParser().ParseWithOptions(testDocumentPath, opts)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Surfaces) != 0 {
		t.Errorf("Expected no surfaces, got %d", len(doc.Surfaces))
	}
}

func TestAxisSwapAppliesEverywhere(t *testing.T) {
	opts := quietOptions()
	opts.SwapXY = false
	doc, err := NewParser().ParseWithOptions(testDocumentPath, opts)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p := doc.Points[0]; p.X != 200 || p.Y != 100 {
		t.Errorf("Point without swap = (%v,%v), want (200,100)", p.X, p.Y)
	}
	if v := doc.LinearFeatures[0].Parts[1][0]; v.X != 400 || v.Y != 500 {
		t.Errorf("CoordGeom literal without swap = %+v", v)
	}
	dgm, _ := doc.Surface("DGM")
	if v := dgm.Points["2"]; v.X != 0 || v.Y != 10 {
		t.Errorf("Surface point without swap = %+v", v)
	}
}

func TestNamespacePrefixes(t *testing.T) {
	docs := map[string]string{
		"no namespace": `<LandXML><CgPoints><CgPoint name="a" code="K">1 2 3</CgPoint></CgPoints></LandXML>`,
		"prefixed": `<lx:LandXML xmlns:lx="http://www.landxml.org/schema/LandXML-1.1">
			<lx:CgPoints><lx:CgPoint name="a" code="K">1 2 3</lx:CgPoint></lx:CgPoints></lx:LandXML>`,
		"default 1.0": `<LandXML xmlns="http://www.landxml.org/schema/LandXML-1.0">
			<CgPoints><CgPoint name="a" code="K">1 2 3</CgPoint></CgPoints></LandXML>`,
	}
	for name, src := range docs {
		t.Run(name, func(t *testing.T) {
			doc, err := NewParser().ParseReader(strings.NewReader(src), quietOptions())
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if doc.PointCount() != 1 {
				t.Fatalf("Expected 1 point, got %d", doc.PointCount())
			}
			if p := doc.Points[0]; p.X != 2 || p.Y != 1 || p.Z != 3 {
				t.Errorf("Point = %+v", p)
			}
		})
	}
}

func TestLatin1Document(t *testing.T) {
	src := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<LandXML><CgPoints><CgPoint name=\"1\" code=\"M\xfcll\" desc=\"Stra\xdfe\">1 2</CgPoint></CgPoints></LandXML>"
	doc, err := NewParser().ParseReader(strings.NewReader(src), quietOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := doc.Points[0].CodeFull; got != "Müll" {
		t.Errorf("Expected transcoded code Müll, got %q", got)
	}
	if got := doc.Points[0].Desc; got != "Straße" {
		t.Errorf("Expected transcoded desc Straße, got %q", got)
	}
}

func maskArea(g geom.T) float64 {
	switch m := g.(type) {
	case *geom.Polygon:
		return m.Area()
	case *geom.MultiPolygon:
		return m.Area()
	default:
		return -1
	}
}
