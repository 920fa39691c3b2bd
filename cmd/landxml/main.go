// Command landxml imports a LandXML survey into named geometry tables and
// optionally writes them into a GeoPackage.
//
// Usage:
//
//	landxml -in survey.xml                          # list produced tables
//	landxml -in survey.xml -out site.gpkg           # export every table
//	landxml -in survey.xml -out site.gpkg -tables LandXML_Points,DGM_Faces
//	landxml -config run.yaml                        # run from a config file
//	landxml -in survey.xml -sample 512300.5,5403120 # TIN elevation at x,y
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/beetlebugorg/landxml/pkg/landxml"
)

type settings struct {
	configPath  string
	input       string
	output      string
	tables      string
	sample      string
	fallback    int
	projectEPSG int
	noSwapXY    bool
	noSurfaces  bool
	noPrompt    bool
}

func main() {
	var s settings
	flag.StringVar(&s.configPath, "config", "", "path to YAML run config")
	flag.StringVar(&s.input, "in", "", "LandXML input file")
	flag.StringVar(&s.output, "out", "", "GeoPackage destination (versioned when it exists)")
	flag.StringVar(&s.tables, "tables", "", "comma-separated tables to export (default all)")
	flag.StringVar(&s.sample, "sample", "", "x,y location to sample every surface at")
	flag.IntVar(&s.fallback, "epsg", 0, "fallback EPSG code (default 25832)")
	flag.IntVar(&s.projectEPSG, "project-epsg", 0, "project EPSG code, 0 for none")
	flag.BoolVar(&s.noSwapXY, "no-swap-xy", false, "keep the file's axis order")
	flag.BoolVar(&s.noSurfaces, "no-surfaces", false, "skip TIN surfaces")
	flag.BoolVar(&s.noPrompt, "no-prompt", false, "never ask CRS questions")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, s, os.Stdin, os.Stdout, os.Stderr); err != nil {
		logger.Error("landxml: fatal", "error", err)
		os.Exit(1)
	}
}

type tableSummary struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	SRID     int    `json:"srid"`
	Features int    `json:"features"`
}

type sampleResult struct {
	Surface   string   `json:"surface"`
	Elevation *float64 `json:"elevation"`
}

type report struct {
	Input   string                `json:"input"`
	EPSG    int                   `json:"epsg"`
	CRS     string                `json:"crs"`
	Tables  []tableSummary        `json:"tables"`
	Export  *landxml.ExportResult `json:"export,omitempty"`
	Samples []sampleResult        `json:"samples,omitempty"`
}

func run(ctx context.Context, logger *slog.Logger, s settings, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := resolveConfig(s)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var sx, sy float64
	if s.sample != "" {
		if sx, sy, err = parseXY(s.sample); err != nil {
			return err
		}
	}

	opts := cfg.ImportOptions()
	opts.Logger = logger
	if s.noPrompt {
		opts.PromptOnConflict = false
		opts.PromptOnMissing = false
	} else {
		opts.Resolver = landxml.NewPromptResolver(stdin, stderr)
	}

	var tables landxml.Collector
	doc, err := landxml.Import(cfg.Input, opts, &tables)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	out := report{Input: cfg.Input, EPSG: doc.EPSG(), CRS: doc.CRSMessage()}
	for _, t := range tables.Tables {
		out.Tables = append(out.Tables, tableSummary{Name: t.Name, Type: t.TypeName(), SRID: t.SRID, Features: len(t.Features)})
	}

	if cfg.Output != "" {
		selected, err := landxml.SelectTables(tables.Tables, cfg.Tables)
		if err != nil {
			return err
		}
		res, err := landxml.Export(ctx, selected, cfg.Output, landxml.ExportOptions{Logger: logger})
		switch {
		case err == nil:
		case res != nil && res.Canceled:
			logger.Warn("export canceled", "path", res.Path, "written", len(res.Written))
		default:
			return fmt.Errorf("export: %w", err)
		}
		out.Export = res
	}

	if s.sample != "" {
		surfaces := doc.Surfaces()
		for i := range surfaces {
			idx := landxml.NewSurfaceIndex(&surfaces[i], logger)
			r := sampleResult{Surface: surfaces[i].Name}
			if z, ok := idx.ElevationAt(sx, sy); ok {
				r.Elevation = &z
			}
			out.Samples = append(out.Samples, r)
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// resolveConfig loads the config file when given and lets flags override it.
func resolveConfig(s settings) (*landxml.Config, error) {
	cfg := &landxml.Config{FallbackEPSG: landxml.DefaultFallbackEPSG}
	if s.configPath != "" {
		loaded, err := landxml.LoadConfigFile(s.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if s.input != "" {
		cfg.Input = s.input
	}
	if s.output != "" {
		cfg.Output = s.output
	}
	if s.tables != "" {
		cfg.Tables = splitList(s.tables)
	}
	if s.fallback > 0 {
		cfg.FallbackEPSG = s.fallback
	}
	if s.projectEPSG != 0 {
		cfg.ProjectEPSG = s.projectEPSG
	}
	if s.noSwapXY {
		off := false
		cfg.SwapXY = &off
	}
	if s.noSurfaces {
		off := false
		cfg.ImportSurfaces = &off
	}

	if cfg.Input == "" {
		return nil, errors.New("usage: landxml -in <file.xml> | -config <run.yaml> [-out <file.gpkg>] [-tables a,b] [-sample x,y]")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseXY(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("sample %q: expected x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("sample %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("sample %q: %w", s, err)
	}
	return x, y, nil
}
