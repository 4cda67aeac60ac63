package catalogue

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/yScroww/Catalogue-Automation/internal/assets"
	"github.com/yScroww/Catalogue-Automation/internal/imagecache"
	"github.com/yScroww/Catalogue-Automation/internal/layout"
	intlog "github.com/yScroww/Catalogue-Automation/internal/log"
	"github.com/yScroww/Catalogue-Automation/internal/report"
	"github.com/yScroww/Catalogue-Automation/internal/sheet"
)

// Service orchestrates the catalogue pipeline: select, fetch, lay out,
// render, report.
type Service struct {
	cfg          serviceConfig
	store        imagecache.Store
	httpClient   *http.Client
	fetchTimeout time.Duration
	normalizer   Normalizer
	logger       *slog.Logger
	intro        introConverter
	pdfConverter pdfConverter
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithImageStore).
func New(opts ...Option) *Service {
	s := &Service{
		cfg:    serviceConfig{timeout: defaultTimeout, workers: imagecache.DefaultWorkers},
		logger: intlog.Discard(),
		intro:  newGoldmarkConverter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = imagecache.NewMemStore()
	}
	// Create PDF converter if not injected (e.g., by tests)
	if s.pdfConverter == nil {
		s.pdfConverter = newRodConverter(s.cfg.timeout)
	}

	return s
}

// Generate runs the full pipeline and returns the rendered catalogue with
// its audit trail. Per-SKU image failures never abort the run; they surface
// as exclusions in the result's decisions.
func (s *Service) Generate(ctx context.Context, input Input) (*Result, error) {
	if len(input.Products) == 0 {
		return nil, ErrNoProducts
	}
	if err := input.Layout.Validate(); err != nil {
		return nil, err
	}

	eligible := sheet.FilterEligible(input.Products)
	if input.MaxProducts > 0 && len(eligible) > input.MaxProducts {
		eligible = eligible[:input.MaxProducts]
	}
	s.logger.Info("products selected",
		"candidates", len(input.Products), "eligible", len(eligible))

	resolutions, err := s.resolveImages(ctx, eligible, input.ImageLinks)
	if err != nil {
		return nil, err
	}

	items := make([]layout.Item, 0, len(eligible))
	for i, p := range eligible {
		if resolutions[i].Failed() {
			continue
		}
		items = append(items, layout.Item{
			SKU:       p.SKU,
			Name:      p.Name,
			Category:  p.Category,
			Family:    p.Family,
			ImagePath: resolutions[i].Path,
		})
	}

	pages := layout.Paginate(items, input.Layout, layout.NewDirCovers(input.CoversDir))

	placed := make(map[string]bool, len(items))
	for _, item := range items {
		placed[item.SKU] = true
	}

	decisions := report.Build(input.Products, resolutions, placed)

	html, err := s.renderHTML(ctx, input, pages)
	if err != nil {
		return nil, err
	}

	width, height := input.Layout.PageDims()
	pdf, err := s.pdfConverter.ToPDF(ctx, html, &pdfOptions{Width: width, Height: height})
	if err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}

	stats := report.Stats{
		Candidates: len(input.Products),
		Placed:     len(placed),
		Pages:      len(pages),
		Generated:  time.Now(),
	}
	for _, res := range resolutions {
		switch res.Status {
		case imagecache.StatusCached:
			stats.Cached++
		case imagecache.StatusFetched:
			stats.Fetched++
		}
	}
	s.logger.Info("catalogue generated",
		"pages", stats.Pages, "placed", stats.Placed,
		"cached", stats.Cached, "fetched", stats.Fetched)

	return &Result{
		PDF:         pdf,
		HTML:        html,
		Pages:       pages,
		Resolutions: resolutions,
		Decisions:   decisions,
		Stats:       stats,
	}, nil
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.pdfConverter != nil {
		return s.pdfConverter.Close()
	}
	return nil
}

// resolveImages fetches and normalizes every eligible product's image,
// returning one resolution per product in input order.
func (s *Service) resolveImages(ctx context.Context, eligible []sheet.Product, links map[string]string) ([]imagecache.Resolution, error) {
	fetcherOpts := []imagecache.FetcherOption{
		imagecache.WithSkipDownload(s.cfg.skipDownload),
		imagecache.WithLogger(s.logger),
	}
	if s.httpClient != nil {
		fetcherOpts = append(fetcherOpts, imagecache.WithHTTPClient(s.httpClient))
	}
	if s.fetchTimeout > 0 {
		fetcherOpts = append(fetcherOpts, imagecache.WithTimeout(s.fetchTimeout))
	}
	if s.normalizer != nil {
		fetcherOpts = append(fetcherOpts, imagecache.WithNormalizer(s.normalizer))
	}
	fetcher := imagecache.NewFetcher(s.store, fetcherOpts...)

	reqs := make([]imagecache.Request, len(eligible))
	for i, p := range eligible {
		reqs[i] = imagecache.Request{SKU: p.SKU, Ref: p.ImageRef(links)}
	}

	resolutions, err := fetcher.ResolveAll(ctx, reqs, s.cfg.workers)
	if err != nil {
		return nil, fmt.Errorf("resolving images: %w", err)
	}
	return resolutions, nil
}

// renderHTML assembles the catalogue document from the layout pages.
func (s *Service) renderHTML(ctx context.Context, input Input, pages []layout.Page) (string, error) {
	loader, err := assets.NewResolver(input.AssetsDir)
	if err != nil {
		return "", err
	}

	renderer, err := newDocumentRenderer(loader, input.Style)
	if err != nil {
		return "", err
	}

	var intro template.HTML
	if input.IntroMarkdown != "" {
		fragment, err := s.intro.ToHTML(ctx, input.IntroMarkdown)
		if err != nil {
			return "", err
		}
		intro = template.HTML(fragment)
	}

	return renderer.Render(input.Title, input.Layout, pages, intro)
}
