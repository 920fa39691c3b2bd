package parser

import (
	"io"
	"log/slog"

	"github.com/beevik/etree"
)

// Parser decodes LandXML files into a Document.
//
// LandXML is an XML interchange format for civil-survey data. Element lookup is
// namespace-agnostic, so documents from any producer and schema version decode
// the same way.
type Parser interface {
	// Parse reads a LandXML file with default options.
	// Returns an error if the file is missing, unreadable or not XML.
	Parse(filename string) (*Document, error)

	// ParseWithOptions reads a LandXML file with custom options.
	ParseWithOptions(filename string, opts ParseOptions) (*Document, error)

	// ParseReader decodes a LandXML stream with custom options.
	ParseReader(r io.Reader, opts ParseOptions) (*Document, error)
}

// ParseOptions configures decoding.
type ParseOptions struct {
	// FallbackEPSG is the last-resort CRS. Default: DefaultFallbackEPSG.
	FallbackEPSG int

	// ProjectEPSG is the host project's CRS, 0 when the host has none.
	ProjectEPSG int

	// SwapXY swaps the first two axes of every coordinate (N,E -> E,N).
	// Default: true
	SwapXY bool

	// CRS gates file/project preference and the interactive prompts.
	CRS CRSPolicy

	// ImportSurfaces enables TIN reconstruction. Default: true
	ImportSurfaces bool

	// Resolver answers CRS prompts. nil accepts the defaults.
	Resolver Resolver

	// Logger receives progress messages. nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultParseOptions returns parse options with defaults
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		FallbackEPSG:   DefaultFallbackEPSG,
		SwapXY:         true,
		CRS:            DefaultCRSPolicy(),
		ImportSurfaces: true,
	}
}

// defaultParser implements the Parser interface
type defaultParser struct {
}

// NewParser creates a new LandXML parser
func NewParser() Parser {
	return &defaultParser{}
}

// Parse reads a LandXML file with default options
func (p *defaultParser) Parse(filename string) (*Document, error) {
	return p.ParseWithOptions(filename, DefaultParseOptions())
}

// ParseWithOptions reads a LandXML file with custom options
func (p *defaultParser) ParseWithOptions(filename string, opts ParseOptions) (*Document, error) {
	root, err := loadDocument(filename)
	if err != nil {
		return nil, err
	}
	doc := buildDocument(root, opts)
	doc.Source = filename
	return doc, nil
}

// ParseReader decodes a LandXML stream with custom options
func (p *defaultParser) ParseReader(r io.Reader, opts ParseOptions) (*Document, error) {
	root, err := readDocument(r)
	if err != nil {
		return nil, err
	}
	return buildDocument(root, opts), nil
}

// buildDocument runs the decoding stages in dependency order: CRS, feature
// properties, points, linear features (which resolve point ids), surfaces.
func buildDocument(root *etree.Element, opts ParseOptions) *Document {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	crs := detectCRS(root)
	logger.Info("landxml coordinate system", "detail", crs.Message)

	epsg := ResolveCRS(crs.EPSG, opts.ProjectEPSG, opts.FallbackEPSG, opts.CRS, opts.Resolver)
	logger.Info("landxml using crs", "epsg", epsg)

	mapXY := AxisMapping(opts.SwapXY)
	points := buildPoints(root, parseFeatureProperties(root), mapXY)

	doc := &Document{
		CRS:            crs,
		EPSG:           epsg,
		Points:         points.points,
		Groups:         points.groups,
		Index:          points.index,
		LinearFeatures: extractLinearFeatures(root, mapXY, points.index),
	}

	if opts.ImportSurfaces {
		sb := &surfaceBuilder{mapXY: mapXY, logger: logger}
		doc.Surfaces = sb.buildSurfaces(root)
	}

	logger.Debug("landxml decoded",
		"points", len(doc.Points),
		"groups", len(doc.Groups),
		"linear_features", len(doc.LinearFeatures),
		"surfaces", len(doc.Surfaces))
	return doc
}
