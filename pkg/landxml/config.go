package landxml

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a run configuration, usually loaded from YAML.
//
// Booleans that default to true are pointers so an explicit false can be
// told apart from an absent key.
type Config struct {
	Input            string   `yaml:"input"`
	FallbackEPSG     int      `yaml:"fallback_epsg"`
	ProjectEPSG      int      `yaml:"project_epsg"`
	SwapXY           *bool    `yaml:"swap_xy"`
	PreferFileCRS    *bool    `yaml:"prefer_file_crs"`
	PromptOnConflict *bool    `yaml:"prompt_on_conflict"`
	PromptOnMissing  *bool    `yaml:"prompt_on_missing"`
	ImportSurfaces   *bool    `yaml:"import_surfaces"`
	MissingElevation *float64 `yaml:"missing_elevation"`
	Output           string   `yaml:"output"`
	Tables           []string `yaml:"tables"`
}

func (c *Config) defaults() {
	if c.FallbackEPSG <= 0 {
		c.FallbackEPSG = DefaultFallbackEPSG
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("landxml config %s: %w", path, err)
	}
	cfg.defaults()
	return cfg, nil
}

// Validate checks the settings a run needs.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("landxml config: input is required")
	}
	info, err := os.Stat(c.Input)
	if err != nil {
		return fmt.Errorf("landxml config: input: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("landxml config: input %s is a directory", c.Input)
	}
	if c.ProjectEPSG < 0 {
		return fmt.Errorf("landxml config: project_epsg %d is negative", c.ProjectEPSG)
	}
	if len(c.Tables) > 0 && c.Output == "" {
		return errors.New("landxml config: tables selected without an output path")
	}
	return nil
}

// ImportOptions converts the configuration into import options.
func (c *Config) ImportOptions() ImportOptions {
	opts := DefaultImportOptions()
	opts.ParseOptions = c.ParseOptions()
	if c.MissingElevation != nil {
		opts.MissingElevation = *c.MissingElevation
	}
	return opts
}

// ParseOptions converts the configuration into parse options.
func (c *Config) ParseOptions() ParseOptions {
	opts := DefaultParseOptions()
	if c.FallbackEPSG > 0 {
		opts.FallbackEPSG = c.FallbackEPSG
	}
	opts.ProjectEPSG = c.ProjectEPSG
	opts.SwapXY = boolOr(c.SwapXY, opts.SwapXY)
	opts.PreferFileCRS = boolOr(c.PreferFileCRS, opts.PreferFileCRS)
	opts.PromptOnConflict = boolOr(c.PromptOnConflict, opts.PromptOnConflict)
	opts.PromptOnMissing = boolOr(c.PromptOnMissing, opts.PromptOnMissing)
	opts.ImportSurfaces = boolOr(c.ImportSurfaces, opts.ImportSurfaces)
	return opts
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
