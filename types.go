package catalogue

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yScroww/Catalogue-Automation/internal/imagecache"
	"github.com/yScroww/Catalogue-Automation/internal/layout"
	"github.com/yScroww/Catalogue-Automation/internal/report"
	"github.com/yScroww/Catalogue-Automation/internal/sheet"
)

// Input contains everything one catalogue run needs. Products is the
// pre-filter candidate universe; business filters are applied inside
// Generate so the reports can account for every row.
type Input struct {
	// Products is the loaded product table (required, non-empty).
	Products []sheet.Product

	// ImageLinks optionally maps SKUs to image URLs, used when a row
	// carries no image reference of its own.
	ImageLinks map[string]string

	// Layout is the validated grid configuration.
	Layout layout.Config

	// CoversDir optionally points at a directory of category cover images.
	CoversDir string

	// IntroMarkdown is an optional markdown introduction rendered as the
	// first pages of the document.
	IntroMarkdown string

	// Title is the document title; defaults to "Catalogue" when empty.
	Title string

	// AssetsDir optionally overrides the embedded stylesheet and templates.
	AssetsDir string

	// Style names the stylesheet to use; empty means the built-in default.
	Style string

	// MaxProducts truncates the eligible set when positive, for quick
	// trial runs against large tables.
	MaxProducts int
}

// Result is the outcome of one catalogue run.
type Result struct {
	// PDF holds the rendered document.
	PDF []byte

	// HTML is the intermediate document, kept for inspection and tests.
	HTML string

	// Pages is the computed layout, cover pages included.
	Pages []layout.Page

	// Resolutions holds the per-SKU image outcomes for the eligible set.
	Resolutions []imagecache.Resolution

	// Decisions is the full audit trail, one row per candidate SKU.
	Decisions []report.Decision

	// Stats are the run totals the summary report uses.
	Stats report.Stats
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout      time.Duration
	workers      int
	skipDownload bool
}

// defaultTimeout bounds PDF rendering when no timeout is specified.
const defaultTimeout = 60 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("catalogue: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithFetchWorkers bounds parallel image fetches.
func WithFetchWorkers(n int) Option {
	return func(s *Service) {
		s.cfg.workers = n
	}
}

// WithImageStore sets the image cache store. Defaults to an in-memory
// store, so callers wanting cross-run caching pass a DirStore.
func WithImageStore(store imagecache.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithHTTPClient sets the HTTP client used for image downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		s.httpClient = c
	}
}

// WithFetchTimeout bounds each individual image download.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.fetchTimeout = d
	}
}

// WithNormalizer replaces the image normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(s *Service) {
		s.normalizer = n
	}
}

// WithSkipDownload disables network access; only cached and local images
// resolve.
func WithSkipDownload(skip bool) Option {
	return func(s *Service) {
		s.cfg.skipDownload = skip
	}
}

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Normalizer turns raw image bytes into the canonical cached form.
// imageproc.Normalizer satisfies it.
type Normalizer interface {
	Normalize(raw []byte) ([]byte, error)
}
