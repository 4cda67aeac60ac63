package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yScroww/Catalogue-Automation/internal/layout"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogue.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
	if _, err := cfg.Layout(); err != nil {
		t.Errorf("Layout() on defaults = %v", err)
	}
	if cfg.Image.CacheDir == "" {
		t.Error("default cache dir is empty")
	}
	if cfg.Output.File != "catalogue.pdf" {
		t.Errorf("default output file = %q", cfg.Output.File)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("file values layer over defaults", func(t *testing.T) {
		path := writeConfig(t, `
inputs:
  products: data/products.xlsx
grid:
  columns: 4
  landscape: true
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		if cfg.Inputs.Products != "data/products.xlsx" {
			t.Errorf("products = %q", cfg.Inputs.Products)
		}
		if cfg.Grid.Columns != 4 {
			t.Errorf("columns = %d, want file value 4", cfg.Grid.Columns)
		}
		// Absent keys keep their defaults.
		if cfg.Grid.Rows != DefaultConfig().Grid.Rows {
			t.Errorf("rows = %d, want default preserved", cfg.Grid.Rows)
		}
		if cfg.Image.TimeoutSeconds != 15 {
			t.Errorf("timeout = %d, want default preserved", cfg.Image.TimeoutSeconds)
		}
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		path := writeConfig(t, "grdi:\n  columns: 4\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("LoadConfig() error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("invalid values fail validation", func(t *testing.T) {
		path := writeConfig(t, "image:\n  canvasSize: -10\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("LoadConfig() error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestLayout(t *testing.T) {
	t.Run("landscape flag maps to orientation", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Grid.Landscape = true

		lc, err := cfg.Layout()
		if err != nil {
			t.Fatalf("Layout() error = %v", err)
		}
		if lc.Orientation != layout.OrientationLandscape {
			t.Errorf("orientation = %q", lc.Orientation)
		}

		w, h := lc.PageDims()
		if w <= h {
			t.Errorf("landscape dims = %gx%g, want wider than tall", w, h)
		}
	})

	t.Run("invalid grid fails fast", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Grid.Columns = 0
		if _, err := cfg.Layout(); !errors.Is(err, layout.ErrInvalidColumns) {
			t.Errorf("Layout() error = %v, want ErrInvalidColumns", err)
		}
	})

	t.Run("group mode passes through", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Grid.GroupBy = "Family"
		lc, err := cfg.Layout()
		if err != nil {
			t.Fatalf("Layout() error = %v", err)
		}
		if lc.GroupMode != layout.GroupByFamily {
			t.Errorf("group mode = %q", lc.GroupMode)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative canvas", func(c *Config) { c.Image.CanvasSize = -1 }},
		{"zero timeout", func(c *Config) { c.Image.TimeoutSeconds = 0 }},
		{"zero workers", func(c *Config) { c.Image.Workers = 0 }},
		{"empty output file", func(c *Config) { c.Output.File = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidValue) {
				t.Errorf("Validate() = %v, want ErrInvalidValue", err)
			}
		})
	}
}
