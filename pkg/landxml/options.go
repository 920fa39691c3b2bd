package landxml

import (
	"log/slog"
	"math"

	"github.com/beetlebugorg/landxml/internal/parser"
)

// DefaultFallbackEPSG is the CRS used when nothing else supplies one.
const DefaultFallbackEPSG = parser.DefaultFallbackEPSG

// ParseOptions configures decoding.
type ParseOptions struct {
	// FallbackEPSG is the last-resort CRS. Default: DefaultFallbackEPSG.
	FallbackEPSG int

	// ProjectEPSG is the host project's CRS, 0 when there is none.
	ProjectEPSG int

	// SwapXY swaps the first two axes of every coordinate, turning the
	// Northing/Easting order common in LandXML into x=Easting, y=Northing.
	// Default is true.
	SwapXY bool

	// PreferFileCRS uses the CRS declared in the file when present.
	// Default is true.
	PreferFileCRS bool

	// PromptOnConflict asks the Resolver when the file and project CRS differ.
	// Default is true.
	PromptOnConflict bool

	// PromptOnMissing asks the Resolver for a code when neither the file nor
	// the project has one. Default is true.
	PromptOnMissing bool

	// ImportSurfaces enables TIN reconstruction. Default is true.
	ImportSurfaces bool

	// Resolver answers CRS prompts. nil applies the defaults.
	Resolver Resolver

	// Logger receives progress messages. nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultParseOptions returns default options.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		FallbackEPSG:     DefaultFallbackEPSG,
		SwapXY:           true,
		PreferFileCRS:    true,
		PromptOnConflict: true,
		PromptOnMissing:  true,
		ImportSurfaces:   true,
	}
}

func (o ParseOptions) internal() parser.ParseOptions {
	return parser.ParseOptions{
		FallbackEPSG: o.FallbackEPSG,
		ProjectEPSG:  o.ProjectEPSG,
		SwapXY:       o.SwapXY,
		CRS: parser.CRSPolicy{
			PreferFile:       o.PreferFileCRS,
			PromptOnConflict: o.PromptOnConflict,
			PromptOnMissing:  o.PromptOnMissing,
		},
		ImportSurfaces: o.ImportSurfaces,
		Resolver:       o.Resolver,
		Logger:         o.Logger,
	}
}

// ImportOptions configures Import.
type ImportOptions struct {
	ParseOptions

	// MissingElevation is written as the elevation of vertices that have none
	// when their collection is 3D. Default: NaN.
	MissingElevation float64
}

// DefaultImportOptions returns default options.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		ParseOptions:     DefaultParseOptions(),
		MissingElevation: math.NaN(),
	}
}
