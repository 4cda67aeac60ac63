// Package config loads and validates catalogue generation settings from
// YAML, layered under command-line flags and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/yScroww/Catalogue-Automation/internal/layout"
	"github.com/yScroww/Catalogue-Automation/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidValue    = errors.New("invalid config value")
)

// appName names the per-user config and cache subdirectories.
const appName = "catalogue"

// Config holds all settings for one catalogue run. Zero values mean "use
// the default"; LoadConfig starts from DefaultConfig so absent YAML keys
// keep their defaults.
type Config struct {
	Inputs  InputsConfig  `yaml:"inputs"`
	Output  OutputConfig  `yaml:"output"`
	Grid    GridConfig    `yaml:"grid"`
	Image   ImageConfig   `yaml:"image"`
	Reports ReportsConfig `yaml:"reports"`
}

// InputsConfig names the source files.
type InputsConfig struct {
	Products   string `yaml:"products"`   // product table (.xlsx or .csv), required
	ImageLinks string `yaml:"imageLinks"` // optional per-SKU image URL table
	Covers     string `yaml:"covers"`     // optional category cover image directory
	Intro      string `yaml:"intro"`      // optional markdown intro page
	Assets     string `yaml:"assets"`     // optional asset override directory
	Style      string `yaml:"style"`      // stylesheet name (empty = built-in default)
}

// OutputConfig defines where results land.
type OutputConfig struct {
	Dir  string `yaml:"dir"`  // output directory (default: current directory)
	File string `yaml:"file"` // PDF file name (default: catalogue.pdf)
}

// GridConfig defines the page grid. Lengths are inches.
type GridConfig struct {
	Columns    int     `yaml:"columns"`
	Rows       int     `yaml:"rows"`
	PageSize   string  `yaml:"pageSize"`    // "letter", "a4", "legal"
	Landscape  bool    `yaml:"landscape"`
	Margin     float64 `yaml:"margin"`
	TopBand    float64 `yaml:"topBand"`    // reserved header band
	BottomBand float64 `yaml:"bottomBand"` // reserved footer band
	HGap       float64 `yaml:"hGap"`
	VGap       float64 `yaml:"vGap"`
	GroupBy    string  `yaml:"groupBy"` // "category" or "family"
}

// ImageConfig defines image acquisition and normalization settings.
type ImageConfig struct {
	CanvasSize     int    `yaml:"canvasSize"`     // square canvas edge in pixels
	TimeoutSeconds int    `yaml:"timeoutSeconds"` // per-download timeout
	Workers        int    `yaml:"workers"`        // parallel fetches
	SkipDownload   bool   `yaml:"skipDownload"`   // cache and local files only
	CacheDir       string `yaml:"cacheDir"`       // default: XDG cache dir
}

// ReportsConfig defines audit report settings.
type ReportsConfig struct {
	Missing bool `yaml:"missing"` // also write the missing-image report
	Summary bool `yaml:"summary"` // also write the markdown run summary
}

// DefaultConfig returns the settings a bare run uses.
func DefaultConfig() *Config {
	lc := layout.DefaultConfig()
	return &Config{
		Output: OutputConfig{File: "catalogue.pdf"},
		Grid: GridConfig{
			Columns:    lc.Columns,
			Rows:       lc.Rows,
			PageSize:   lc.PageSize,
			Margin:     lc.Margin,
			TopBand:    lc.TopBand,
			BottomBand: lc.BottomBand,
			HGap:       lc.HGap,
			VGap:       lc.VGap,
			GroupBy:    lc.GroupMode,
		},
		Image: ImageConfig{
			CanvasSize:     600,
			TimeoutSeconds: 15,
			Workers:        4,
			CacheDir:       DefaultCacheDir(),
		},
		Reports: ReportsConfig{Missing: true},
	}
}

// DefaultCacheDir is the per-user image cache location.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, appName, "images")
}

// Layout converts the grid section into a validated layout configuration.
func (c *Config) Layout() (layout.Config, error) {
	orientation := layout.OrientationPortrait
	if c.Grid.Landscape {
		orientation = layout.OrientationLandscape
	}

	lc := layout.Config{
		Columns:     c.Grid.Columns,
		Rows:        c.Grid.Rows,
		PageSize:    c.Grid.PageSize,
		Orientation: orientation,
		Margin:      c.Grid.Margin,
		TopBand:     c.Grid.TopBand,
		BottomBand:  c.Grid.BottomBand,
		HGap:        c.Grid.HGap,
		VGap:        c.Grid.VGap,
		GroupMode:   strings.ToLower(c.Grid.GroupBy),
	}
	if err := lc.Validate(); err != nil {
		return layout.Config{}, err
	}
	return lc, nil
}

// Validate checks the non-grid sections. Grid values are validated by
// Layout, which the pipeline calls before any output is produced.
func (c *Config) Validate() error {
	if c.Image.CanvasSize <= 0 {
		return fmt.Errorf("%w: image.canvasSize must be positive, got %d", ErrInvalidValue, c.Image.CanvasSize)
	}
	if c.Image.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: image.timeoutSeconds must be positive, got %d", ErrInvalidValue, c.Image.TimeoutSeconds)
	}
	if c.Image.Workers < 1 {
		return fmt.Errorf("%w: image.workers must be at least 1, got %d", ErrInvalidValue, c.Image.Workers)
	}
	if c.Output.File == "" {
		return fmt.Errorf("%w: output.file cannot be empty", ErrInvalidValue)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name, layered
// over the defaults. If nameOrPath contains a path separator it is treated
// as a file path; otherwise it is searched in standard locations. Returns
// an error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name, trying .yaml then
// .yml, in the current directory then the XDG config directory.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	for _, ext := range extensions {
		userPath := filepath.Join(xdg.ConfigHome, appName, name+ext)
		if fileExists(userPath) {
			return userPath, nil
		}
		triedPaths = append(triedPaths, userPath)
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
