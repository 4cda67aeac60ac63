package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yScroww/Catalogue-Automation/internal/config"
)

// envConfig holds configuration from CATALOGUE_* environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // CATALOGUE_CONFIG: config file path
	Products   string // CATALOGUE_PRODUCTS: product table path
	ImageLinks string // CATALOGUE_IMAGE_LINKS: image URL table path
	Covers     string // CATALOGUE_COVERS: cover image directory
	CacheDir   string // CATALOGUE_CACHE_DIR: image cache directory
	OutputDir  string // CATALOGUE_OUTPUT_DIR: output directory
	PageSize   string // CATALOGUE_PAGE_SIZE: a4, letter, legal
	Workers    int    // CATALOGUE_WORKERS: parallel fetches
	Timeout    int    // CATALOGUE_TIMEOUT: per-download timeout in seconds
}

// knownEnvVars lists valid CATALOGUE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CATALOGUE_CONFIG":      true,
	"CATALOGUE_PRODUCTS":    true,
	"CATALOGUE_IMAGE_LINKS": true,
	"CATALOGUE_COVERS":      true,
	"CATALOGUE_CACHE_DIR":   true,
	"CATALOGUE_OUTPUT_DIR":  true,
	"CATALOGUE_PAGE_SIZE":   true,
	"CATALOGUE_WORKERS":     true,
	"CATALOGUE_TIMEOUT":     true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("CATALOGUE_CONFIG"),
		Products:   getenv("CATALOGUE_PRODUCTS"),
		ImageLinks: getenv("CATALOGUE_IMAGE_LINKS"),
		Covers:     getenv("CATALOGUE_COVERS"),
		CacheDir:   getenv("CATALOGUE_CACHE_DIR"),
		OutputDir:  getenv("CATALOGUE_OUTPUT_DIR"),
		PageSize:   getenv("CATALOGUE_PAGE_SIZE"),
	}

	if workers := getenv("CATALOGUE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	if timeout := getenv("CATALOGUE_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil && t > 0 {
			cfg.Timeout = t
		}
	}
	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized CATALOGUE_* variables.
// Helps catch typos like CATALOGUE_PRODUTS instead of CATALOGUE_PRODUCTS.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "CATALOGUE_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig fills config gaps from environment variables. A value set
// in the config file is kept; flags are applied later via mergeFlags, so
// the effective precedence is flags > config file > environment > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	defaults := config.DefaultConfig()

	if env.Products != "" && cfg.Inputs.Products == "" {
		cfg.Inputs.Products = env.Products
	}
	if env.ImageLinks != "" && cfg.Inputs.ImageLinks == "" {
		cfg.Inputs.ImageLinks = env.ImageLinks
	}
	if env.Covers != "" && cfg.Inputs.Covers == "" {
		cfg.Inputs.Covers = env.Covers
	}
	if env.CacheDir != "" && cfg.Image.CacheDir == defaults.Image.CacheDir {
		cfg.Image.CacheDir = env.CacheDir
	}
	if env.OutputDir != "" && cfg.Output.Dir == "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.PageSize != "" && cfg.Grid.PageSize == defaults.Grid.PageSize {
		cfg.Grid.PageSize = env.PageSize
	}
	if env.Workers > 0 && cfg.Image.Workers == defaults.Image.Workers {
		cfg.Image.Workers = env.Workers
	}
	if env.Timeout > 0 && cfg.Image.TimeoutSeconds == defaults.Image.TimeoutSeconds {
		cfg.Image.TimeoutSeconds = env.Timeout
	}
}
