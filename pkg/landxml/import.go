package landxml

import (
	"fmt"
	"log/slog"

	"github.com/beetlebugorg/landxml/internal/layers"
)

// Output table types.
type (
	// Table is a named geometry collection.
	Table = layers.Table
	// Field is a table attribute column.
	Field = layers.Field
	// Feature is one table row.
	Feature = layers.Feature
	// Sink receives tables produced by Import.
	Sink = layers.Sink
	// SinkFunc adapts a function to Sink.
	SinkFunc = layers.SinkFunc
	// Collector is a Sink that keeps tables in memory.
	Collector = layers.Collector
)

// Names of the document-wide tables.
const (
	PointsTable = layers.PointsTable
	LinesTable  = layers.LinesTable
)

// Tables builds the output tables of a document without a sink.
func (d *Document) Tables(missingElevation float64) []*Table {
	return layers.Tables(d.doc, layers.BuildOptions{SRID: d.EPSG(), MissingZ: missingElevation})
}

// Import parses path and hands every output table to sink in emission order.
// The document is returned so callers can sample surfaces afterwards.
func Import(path string, opts ImportOptions, sink Sink) (*Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts.Logger = logger

	doc, err := NewParser().ParseWithOptions(path, opts.ParseOptions)
	if err != nil {
		return nil, err
	}
	err = layers.Build(doc.doc, layers.BuildOptions{
		SRID:     doc.EPSG(),
		MissingZ: opts.MissingElevation,
		Logger:   logger,
	}, sink)
	if err != nil {
		return doc, fmt.Errorf("landxml import %s: %w", path, err)
	}
	logger.Info("landxml import finished", "file", path, "epsg", doc.EPSG(), "points", len(doc.Points()), "surfaces", len(doc.Surfaces()))
	return doc, nil
}
