package main

import (
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/yScroww/Catalogue-Automation/internal/config"
)

// cliFlags holds every command-line option. Flag values override config
// file values only when explicitly set; mergeFlags checks fs.Changed.
type cliFlags struct {
	config     string
	products   string
	imageLinks string
	covers     string
	intro      string
	assetsDir  string
	style      string
	cacheDir   string
	out        string
	title      string

	cols      int
	rows      int
	groupBy   string
	pageSize  string
	landscape bool

	canvas       int
	workers      int
	timeout      int
	maxProducts  int
	skipDownload bool

	missingReport bool
	summary       bool

	verbose bool
	quiet   bool
	version bool
}

// parseFlags parses the command line. The FlagSet is returned alongside the
// values so callers can ask which flags were explicitly set.
func parseFlags(args []string) (*cliFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("catalogue", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.products, "products", "i", "", "product table (.xlsx or .csv)")
	fs.StringVar(&f.imageLinks, "image-links", "", "per-SKU image URL table")
	fs.StringVar(&f.covers, "covers", "", "category cover image directory")
	fs.StringVar(&f.intro, "intro", "", "markdown intro file")
	fs.StringVar(&f.assetsDir, "assets", "", "asset override directory")
	fs.StringVar(&f.style, "style", "", "stylesheet name")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "image cache directory")
	fs.StringVarP(&f.out, "out", "o", "", "output PDF path")
	fs.StringVar(&f.title, "title", "", "document title")

	fs.IntVar(&f.cols, "cols", 0, "grid columns per page")
	fs.IntVar(&f.rows, "rows", 0, "grid rows per page")
	fs.StringVar(&f.groupBy, "group-by", "", "page grouping: category, family")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: letter, a4, legal")
	fs.BoolVar(&f.landscape, "landscape", false, "landscape orientation")

	fs.IntVar(&f.canvas, "canvas", 0, "normalized image canvas size in pixels")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel image fetches")
	fs.IntVarP(&f.timeout, "timeout", "t", 0, "per-download timeout in seconds")
	fs.IntVar(&f.maxProducts, "max-products", 0, "truncate eligible set (0 = all)")
	fs.BoolVar(&f.skipDownload, "skip-download", false, "use cache and local files only")

	fs.BoolVar(&f.missingReport, "missing-report", true, "write the missing-image report")
	fs.BoolVar(&f.summary, "summary", false, "write a markdown run summary")

	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logging")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// mergeFlags layers explicitly-set flags over the loaded configuration.
// Precedence: flags > config file > environment > defaults.
func mergeFlags(f *cliFlags, fs *flag.FlagSet, cfg *config.Config) {
	set := fs.Changed

	if set("products") {
		cfg.Inputs.Products = f.products
	}
	if set("image-links") {
		cfg.Inputs.ImageLinks = f.imageLinks
	}
	if set("covers") {
		cfg.Inputs.Covers = f.covers
	}
	if set("intro") {
		cfg.Inputs.Intro = f.intro
	}
	if set("assets") {
		cfg.Inputs.Assets = f.assetsDir
	}
	if set("style") {
		cfg.Inputs.Style = f.style
	}
	if set("cache-dir") {
		cfg.Image.CacheDir = f.cacheDir
	}
	if set("out") {
		cfg.Output.Dir, cfg.Output.File = splitOutPath(f.out)
	}

	if set("cols") {
		cfg.Grid.Columns = f.cols
	}
	if set("rows") {
		cfg.Grid.Rows = f.rows
	}
	if set("group-by") {
		cfg.Grid.GroupBy = f.groupBy
	}
	if set("page-size") {
		cfg.Grid.PageSize = f.pageSize
	}
	if set("landscape") {
		cfg.Grid.Landscape = f.landscape
	}

	if set("canvas") {
		cfg.Image.CanvasSize = f.canvas
	}
	if set("workers") {
		cfg.Image.Workers = f.workers
	}
	if set("timeout") {
		cfg.Image.TimeoutSeconds = f.timeout
	}
	if set("skip-download") {
		cfg.Image.SkipDownload = f.skipDownload
	}

	if set("missing-report") {
		cfg.Reports.Missing = f.missingReport
	}
	if set("summary") {
		cfg.Reports.Summary = f.summary
	}
}

// splitOutPath splits an --out value into directory and file name. A value
// without a separator is a bare file name in the current directory.
func splitOutPath(out string) (dir, file string) {
	idx := strings.LastIndexAny(out, `/\`)
	if idx < 0 {
		return "", out
	}
	return out[:idx], out[idx+1:]
}
