package main

import (
	"testing"

	"github.com/yScroww/Catalogue-Automation/internal/config"
)

func TestParseFlags(t *testing.T) {
	t.Run("parses long and short forms", func(t *testing.T) {
		f, fs, err := parseFlags([]string{
			"-i", "products.xlsx",
			"--covers", "covers/",
			"-o", "out/catalogue.pdf",
			"--cols", "4",
			"--landscape",
			"-w", "8",
			"-v",
		})
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}
		if f.products != "products.xlsx" {
			t.Errorf("products = %q, want %q", f.products, "products.xlsx")
		}
		if f.covers != "covers/" {
			t.Errorf("covers = %q, want %q", f.covers, "covers/")
		}
		if f.out != "out/catalogue.pdf" {
			t.Errorf("out = %q, want %q", f.out, "out/catalogue.pdf")
		}
		if f.cols != 4 {
			t.Errorf("cols = %d, want 4", f.cols)
		}
		if !f.landscape {
			t.Error("landscape = false, want true")
		}
		if f.workers != 8 {
			t.Errorf("workers = %d, want 8", f.workers)
		}
		if !f.verbose {
			t.Error("verbose = false, want true")
		}
		if fs.Changed("rows") {
			t.Error("rows reported as changed but was never set")
		}
	})

	t.Run("unknown flag fails", func(t *testing.T) {
		if _, _, err := parseFlags([]string{"--no-such-flag"}); err == nil {
			t.Fatal("parseFlags() error = nil, want error")
		}
	})

	t.Run("missing-report defaults on", func(t *testing.T) {
		f, _, err := parseFlags(nil)
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}
		if !f.missingReport {
			t.Error("missingReport = false, want true by default")
		}
	})
}

func TestMergeFlags(t *testing.T) {
	t.Run("explicit flags override config", func(t *testing.T) {
		f, fs, err := parseFlags([]string{
			"--products", "flag.xlsx",
			"--cols", "2",
			"--missing-report=false",
		})
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}

		cfg := config.DefaultConfig()
		cfg.Inputs.Products = "config.xlsx"
		cfg.Reports.Missing = true

		mergeFlags(f, fs, cfg)

		if cfg.Inputs.Products != "flag.xlsx" {
			t.Errorf("Products = %q, want flag value", cfg.Inputs.Products)
		}
		if cfg.Grid.Columns != 2 {
			t.Errorf("Columns = %d, want 2", cfg.Grid.Columns)
		}
		if cfg.Reports.Missing {
			t.Error("Missing = true, want explicit false to win")
		}
	})

	t.Run("unset flags keep config values", func(t *testing.T) {
		f, fs, err := parseFlags(nil)
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}

		cfg := config.DefaultConfig()
		cfg.Inputs.Products = "config.xlsx"
		cfg.Image.Workers = 12

		mergeFlags(f, fs, cfg)

		if cfg.Inputs.Products != "config.xlsx" {
			t.Errorf("Products = %q, want config value kept", cfg.Inputs.Products)
		}
		if cfg.Image.Workers != 12 {
			t.Errorf("Workers = %d, want 12", cfg.Image.Workers)
		}
	})

	t.Run("out splits into dir and file", func(t *testing.T) {
		f, fs, err := parseFlags([]string{"--out", "build/pdfs/spring.pdf"})
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}

		cfg := config.DefaultConfig()
		mergeFlags(f, fs, cfg)

		if cfg.Output.Dir != "build/pdfs" {
			t.Errorf("Dir = %q, want %q", cfg.Output.Dir, "build/pdfs")
		}
		if cfg.Output.File != "spring.pdf" {
			t.Errorf("File = %q, want %q", cfg.Output.File, "spring.pdf")
		}
	})
}

func TestSplitOutPath(t *testing.T) {
	tests := []struct {
		name     string
		out      string
		wantDir  string
		wantFile string
	}{
		{"bare file", "catalogue.pdf", "", "catalogue.pdf"},
		{"relative dir", "out/catalogue.pdf", "out", "catalogue.pdf"},
		{"nested dir", "a/b/c.pdf", "a/b", "c.pdf"},
		{"windows separator", `out\c.pdf`, "out", "c.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, file := splitOutPath(tt.out)
			if dir != tt.wantDir || file != tt.wantFile {
				t.Errorf("splitOutPath(%q) = (%q, %q), want (%q, %q)",
					tt.out, dir, file, tt.wantDir, tt.wantFile)
			}
		})
	}
}
