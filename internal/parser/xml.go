package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// LandXML producers disagree on namespace URIs (1.0, 1.1, 1.2, none at all).
// etree path segments without a prefix match elements in any namespace, so every
// query below is written against local names only.
var (
	pathCoordinateSystem = etree.MustCompilePath(".//CoordinateSystem")
	pathCgFeature        = etree.MustCompilePath(".//CgPoints/Feature")
	pathProperty         = etree.MustCompilePath(".//Property")
	pathCgPoint          = etree.MustCompilePath(".//CgPoints/CgPoint")
	pathPntList3D        = etree.MustCompilePath(".//PntList3D")
	pathPntList2D        = etree.MustCompilePath(".//PntList2D")
	pathCoordGeomLine    = etree.MustCompilePath(".//CoordGeom/Line")
	pathStart            = etree.MustCompilePath("./Start")
	pathEnd              = etree.MustCompilePath("./End")
	pathPlanFeature      = etree.MustCompilePath(".//PlanFeatures/PlanFeature")
	pathBreakline        = etree.MustCompilePath(".//Breaklines/Breakline")
	pathAlignment        = etree.MustCompilePath(".//Alignments/Alignment")
	pathSurface          = etree.MustCompilePath(".//Surfaces/Surface")
	pathBoundaryOuter    = etree.MustCompilePath(".//SourceData/Boundaries/Boundary[@bndType='outer']")
	pathBoundaryInner    = etree.MustCompilePath(".//SourceData/Boundaries/Boundary[@bndType='inner']")
	pathPnts             = etree.MustCompilePath(".//Definition/Pnts")
	pathP                = etree.MustCompilePath("./P")
	pathFaces            = etree.MustCompilePath(".//Definition/Faces")
	pathF                = etree.MustCompilePath("./F")
	pathSurfaceBreakline = etree.MustCompilePath(".//SourceData/Breaklines/Breakline")
)

// readDocument parses an XML stream into an element tree.
// Non-UTF-8 encodings declared in the prolog are transcoded.
func readDocument(r io.Reader) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, &ErrInvalidDocument{Reason: fmt.Sprintf("xml: %v", err)}
	}
	root := doc.Root()
	if root == nil {
		return nil, &ErrInvalidDocument{Reason: "document has no root element"}
	}
	return root, nil
}

// loadDocument opens and parses the file at path.
func loadDocument(path string) (*etree.Element, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ErrInputFile{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &ErrInputFile{Path: path, Err: fmt.Errorf("is a directory")}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &ErrInputFile{Path: path, Err: err}
	}
	defer f.Close()

	root, err := readDocument(f)
	if err != nil {
		return nil, &ErrInputFile{Path: path, Err: err}
	}
	return root, nil
}

// findFirst returns the first element matching path below e, or nil.
func findFirst(e *etree.Element, path etree.Path) *etree.Element {
	if e == nil {
		return nil
	}
	return e.FindElementPath(path)
}

// findAll returns every element matching path below e in document order.
func findAll(e *etree.Element, path etree.Path) []*etree.Element {
	if e == nil {
		return nil
	}
	return e.FindElementsPath(path)
}

// attrValue returns the first non-empty value among the given attribute
// spellings, e.g. attrValue(e, "name", "id").
func attrValue(e *etree.Element, keys ...string) string {
	if e == nil {
		return ""
	}
	for _, k := range keys {
		if v := e.SelectAttrValue(k, ""); v != "" {
			return v
		}
	}
	return ""
}

// textOf returns the element's character data, or "" for a nil element.
func textOf(e *etree.Element) string {
	if e == nil {
		return ""
	}
	return e.Text()
}

// hasText reports whether the element carries non-blank character data.
func hasText(e *etree.Element) bool {
	return strings.TrimSpace(textOf(e)) != ""
}
