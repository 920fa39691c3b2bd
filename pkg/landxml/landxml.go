package landxml

import (
	"github.com/beetlebugorg/landxml/internal/parser"
)

// Decoded model types.
type (
	// Vertex is a decoded coordinate; HasZ is false for 2D input.
	Vertex = parser.Vertex
	// Part is one polyline or ring.
	Part = parser.Part
	// Point is a surveyed CgPoint with its split code and joined properties.
	Point = parser.Point
	// CodeGroup holds every point sharing a base code.
	CodeGroup = parser.CodeGroup
	// FeatureKind tags a LinearFeature's source element.
	FeatureKind = parser.FeatureKind
	// LinearFeature is a plan feature, breakline or alignment.
	LinearFeature = parser.LinearFeature
	// Surface is a reconstructed TIN.
	Surface = parser.Surface
	// Face is one reconstructed triangle.
	Face = parser.Face
	// Plane is z = A·x + B·y + C.
	Plane = parser.Plane
)

// Parse errors.
type (
	// ErrInputFile is returned when the input file is missing or unreadable.
	ErrInputFile = parser.ErrInputFile
	// ErrInvalidDocument is returned when the input is not well-formed XML.
	ErrInvalidDocument = parser.ErrInvalidDocument
)

// Linear feature kinds.
const (
	KindPlanFeature = parser.KindPlanFeature
	KindBreakline   = parser.KindBreakline
	KindAlignment   = parser.KindAlignment
)

// Parser parses LandXML files.
//
// Create a parser with NewParser and use Parse or ParseWithOptions to read files.
type Parser interface {
	// Parse reads a LandXML file with default options.
	//
	// Returns an error if the file is missing, unreadable or not well-formed XML.
	// Content problems (unparsable coordinates, dangling references) never fail
	// the parse: the affected records are skipped.
	Parse(filename string) (*Document, error)

	// ParseWithOptions reads a LandXML file with custom options.
	ParseWithOptions(filename string, opts ParseOptions) (*Document, error)
}

// NewParser creates a new LandXML parser with default settings.
//
// Example:
//
//	parser := landxml.NewParser()
//	doc, err := parser.Parse("survey.xml")
func NewParser() Parser {
	return &parserWrapper{
		internal: parser.NewParser(),
	}
}

// parserWrapper wraps the internal parser and converts types
type parserWrapper struct {
	internal parser.Parser
}

func (p *parserWrapper) Parse(filename string) (*Document, error) {
	return p.ParseWithOptions(filename, DefaultParseOptions())
}

func (p *parserWrapper) ParseWithOptions(filename string, opts ParseOptions) (*Document, error) {
	doc, err := p.internal.ParseWithOptions(filename, opts.internal())
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// Document is a decoded LandXML file.
//
// All fields are private; the model is read-only once parsed.
type Document struct {
	doc *parser.Document
}

// Source returns the path the document was read from.
func (d *Document) Source() string { return d.doc.Source }

// EPSG returns the resolved EPSG code applied to every output table.
func (d *Document) EPSG() int { return d.doc.EPSG }

// DeclaredEPSG returns the EPSG code declared in the file, 0 if none.
func (d *Document) DeclaredEPSG() int { return d.doc.CRS.EPSG }

// CRSName returns the coordinate system name declared in the file.
func (d *Document) CRSName() string { return d.doc.CRS.Name }

// CRSMessage returns a human-readable summary of the declared CRS.
func (d *Document) CRSMessage() string { return d.doc.CRS.Message }

// Points returns the full point table in document order.
func (d *Document) Points() []Point { return d.doc.Points }

// Groups returns the point code groups in order of first appearance.
func (d *Document) Groups() []CodeGroup { return d.doc.Groups }

// Group returns the code group for a base code.
func (d *Document) Group(code string) (*CodeGroup, bool) { return d.doc.Group(code) }

// LookupPoint resolves a point id to its coordinates.
func (d *Document) LookupPoint(id string) (Vertex, bool) { return d.doc.Index.Lookup(id) }

// LinearFeatures returns plan features, breaklines and alignments that
// produced at least one part.
func (d *Document) LinearFeatures() []LinearFeature { return d.doc.LinearFeatures }

// Surfaces returns the reconstructed surfaces. Empty when surface import
// was disabled.
func (d *Document) Surfaces() []Surface { return d.doc.Surfaces }

// Surface returns the surface with the given name.
func (d *Document) Surface(name string) (*Surface, bool) { return d.doc.Surface(name) }
