package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	catalogue "github.com/yScroww/Catalogue-Automation"
	"github.com/yScroww/Catalogue-Automation/internal/config"
	"github.com/yScroww/Catalogue-Automation/internal/dateutil"
	"github.com/yScroww/Catalogue-Automation/internal/imagecache"
	"github.com/yScroww/Catalogue-Automation/internal/imageproc"
	intlog "github.com/yScroww/Catalogue-Automation/internal/log"
	"github.com/yScroww/Catalogue-Automation/internal/report"
	"github.com/yScroww/Catalogue-Automation/internal/sheet"
)

// Sentinel errors for CLI operations.
var (
	ErrNoProductsTable = errors.New("no product table specified (use --products, config, or CATALOGUE_PRODUCTS)")
	ErrReadIntro       = errors.New("failed to read intro file")
	ErrWriteOutput     = errors.New("failed to write output")
)

// run executes one catalogue generation end to end.
func run(flags *cliFlags, fs *flag.FlagSet, env *Environment) error {
	if flags.version {
		fmt.Fprintf(env.Stdout, "catalogue %s\n", Version)
		return nil
	}

	logger := intlog.New(env.Stderr, intlog.Level(flags.verbose, flags.quiet))
	warnUnknownEnvVars(env.Stderr)

	cfg, err := resolveConfig(flags, env)
	if err != nil {
		return err
	}
	mergeFlags(flags, fs, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}
	layoutCfg, err := cfg.Layout()
	if err != nil {
		return err
	}
	if cfg.Inputs.Products == "" {
		return ErrNoProductsTable
	}

	products, err := sheet.LoadProducts(cfg.Inputs.Products)
	if err != nil {
		return err
	}

	var links map[string]string
	if cfg.Inputs.ImageLinks != "" {
		if links, err = sheet.LoadImageLinks(cfg.Inputs.ImageLinks); err != nil {
			return err
		}
	}

	var intro string
	if cfg.Inputs.Intro != "" {
		raw, err := os.ReadFile(cfg.Inputs.Intro) // #nosec G304 -- path comes from the user's own flags
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadIntro, err)
		}
		intro = string(raw)
	}

	store, err := imagecache.NewDirStore(cfg.Image.CacheDir)
	if err != nil {
		return fmt.Errorf("%w: cache dir: %v", ErrWriteOutput, err)
	}

	normalizer := imageproc.Default()
	normalizer.CanvasSize = cfg.Image.CanvasSize

	svc := catalogue.New(
		catalogue.WithImageStore(store),
		catalogue.WithNormalizer(normalizer),
		catalogue.WithFetchWorkers(cfg.Image.Workers),
		catalogue.WithFetchTimeout(time.Duration(cfg.Image.TimeoutSeconds)*time.Second),
		catalogue.WithSkipDownload(cfg.Image.SkipDownload),
		catalogue.WithLogger(logger),
	)
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			logger.Warn("closing service", "error", cerr)
		}
	}()

	// Titles support "auto" date placeholders, e.g. "auto:[Catalogue ]MMMM YYYY".
	title, err := dateutil.Resolve(flags.title, env.Now())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := svc.Generate(ctx, catalogue.Input{
		Products:      products,
		ImageLinks:    links,
		Layout:        layoutCfg,
		CoversDir:     cfg.Inputs.Covers,
		IntroMarkdown: intro,
		Title:         title,
		AssetsDir:     cfg.Inputs.Assets,
		Style:         cfg.Inputs.Style,
		MaxProducts:   flags.maxProducts,
	})
	if err != nil {
		return err
	}
	res.Stats.Generated = env.Now()

	if err := writeOutputs(cfg, res); err != nil {
		return err
	}

	if !flags.quiet {
		fmt.Fprintf(env.Stdout, "catalogue: %d pages, %d of %d products placed\n",
			res.Stats.Pages, res.Stats.Placed, res.Stats.Candidates)
	}
	return nil
}

// resolveConfig builds the effective configuration: explicit --config, then
// CATALOGUE_CONFIG, then a "catalogue" config in the standard locations,
// then bare defaults. Environment values fill remaining gaps.
func resolveConfig(flags *cliFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)

	var cfg *config.Config
	var err error

	switch {
	case flags.config != "":
		cfg, err = config.LoadConfig(flags.config)
	case envCfg.ConfigPath != "":
		cfg, err = config.LoadConfig(envCfg.ConfigPath)
	default:
		cfg, err = config.LoadConfig("catalogue")
		if errors.Is(err, config.ErrConfigNotFound) {
			cfg, err = config.DefaultConfig(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// writeOutputs writes the PDF and the configured reports next to it.
func writeOutputs(cfg *config.Config, res *catalogue.Result) error {
	outDir := cfg.Output.Dir
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o750); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}

	pdfPath := filepath.Join(outDir, cfg.Output.File)
	if err := os.WriteFile(pdfPath, res.PDF, 0o644); err != nil { // #nosec G306 -- catalogue output is meant to be shared
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	stem := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath))

	if err := writeCSV(stem+"_report.csv", res.Decisions, report.WriteFull); err != nil {
		return err
	}

	if cfg.Reports.Missing {
		if missing := report.MissingImage(res.Decisions); len(missing) > 0 {
			if err := writeCSV(stem+"_missing.csv", missing, report.WriteMissing); err != nil {
				return err
			}
		}
	}

	if cfg.Reports.Summary {
		f, err := os.Create(stem + "_summary.md") // #nosec G304 -- derived from the user's own output path
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		defer f.Close()
		if err := report.WriteSummary(f, res.Stats, res.Decisions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}

	return nil
}

func writeCSV(path string, decisions []report.Decision, write func(io.Writer, []report.Decision) error) error {
	f, err := os.Create(path) // #nosec G304 -- derived from the user's own output path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	defer f.Close()
	if err := write(f, decisions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
