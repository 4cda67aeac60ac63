package imagecache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/yScroww/Catalogue-Automation/internal/fileutil"
	"github.com/yScroww/Catalogue-Automation/internal/imageproc"
	intlog "github.com/yScroww/Catalogue-Automation/internal/log"
)

// Status of one image resolution.
type Status int

const (
	// StatusCached means the store already held the SKU: no network, no
	// decode work.
	StatusCached Status = iota
	// StatusFetched means the image was acquired, normalized, and stored
	// during this call.
	StatusFetched
	// StatusFailed means the SKU is excluded; Reason says why.
	StatusFailed
)

// String implements fmt.Stringer for log output.
func (s Status) String() string {
	switch s {
	case StatusCached:
		return "cached"
	case StatusFetched:
		return "fetched"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reason classifies a failed resolution. The values double as the exclusion
// reasons in the missing-image report.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonNoSource    Reason = "no-image"
	ReasonFetchFailed Reason = "fetch-failed"
	ReasonDecode      Reason = "corrupt-image"
)

// Resolution is the outcome for one SKU. Failures are values, never
// aborts: one bad image must not take the run down.
type Resolution struct {
	SKU    string
	Path   string
	Status Status
	Reason Reason
	Err    error
}

// Failed reports whether the SKU is excluded from layout.
func (r Resolution) Failed() bool { return r.Status == StatusFailed }

// Request pairs a SKU with its image source reference, either a local file
// path or an http(s) URL.
type Request struct {
	SKU string
	Ref string
}

// normalizer matches imageproc.Normalizer and enables fakes in tests.
type normalizer interface {
	Normalize(raw []byte) ([]byte, error)
}

// maxImageBytes bounds a single download (pathological feeds aside, product
// shots are well under this).
const maxImageBytes = 20 << 20

// defaultFetchTimeout bounds one network fetch.
const defaultFetchTimeout = 15 * time.Second

// Fetcher resolves SKUs to normalized local images through a Store.
type Fetcher struct {
	store        Store
	client       *http.Client
	normalizer   normalizer
	timeout      time.Duration
	skipDownload bool
	logger       *slog.Logger

	locks sync.Map // sku -> *sync.Mutex
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the HTTP client used for remote references.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout bounds each network fetch.
// Panics if d <= 0 (programmer error, same contract as time.NewTicker).
func WithTimeout(d time.Duration) FetcherOption {
	if d <= 0 {
		panic("imagecache: WithTimeout duration must be positive")
	}
	return func(f *Fetcher) { f.timeout = d }
}

// WithNormalizer replaces the image normalizer.
func WithNormalizer(n normalizer) FetcherOption {
	return func(f *Fetcher) { f.normalizer = n }
}

// WithSkipDownload disables network access: only cache hits and local file
// references resolve.
func WithSkipDownload(skip bool) FetcherOption {
	return func(f *Fetcher) { f.skipDownload = skip }
}

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) { f.logger = logger }
}

// NewFetcher creates a Fetcher over the given store.
func NewFetcher(store Store, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		store:      store,
		client:     &http.Client{},
		normalizer: imageproc.Default(),
		timeout:    defaultFetchTimeout,
		logger:     intlog.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Resolve returns the local normalized image for one SKU, fetching and
// normalizing at most once per SKU for the lifetime of the cache
// directory. Concurrent calls for the same SKU serialize on a per-SKU
// lock, so two workers never write the same cache entry.
func (f *Fetcher) Resolve(ctx context.Context, sku, ref string) Resolution {
	mu := f.lockFor(sku)
	mu.Lock()
	defer mu.Unlock()

	if path, ok := f.store.Path(sku); ok {
		f.logger.Debug("image cache hit", "sku", sku)
		return Resolution{SKU: sku, Path: path, Status: StatusCached}
	}

	raw, failure := f.acquire(ctx, sku, ref)
	if failure != nil {
		return *failure
	}

	normalized, err := f.normalizer.Normalize(raw)
	if err != nil {
		f.logger.Warn("image normalization failed", "sku", sku, "error", err)
		return Resolution{SKU: sku, Status: StatusFailed, Reason: ReasonDecode, Err: err}
	}

	path, err := f.store.Put(sku, normalized)
	if err != nil {
		f.logger.Warn("image cache write failed", "sku", sku, "error", err)
		return Resolution{SKU: sku, Status: StatusFailed, Reason: ReasonFetchFailed, Err: err}
	}

	f.logger.Debug("image fetched and normalized", "sku", sku, "path", path)
	return Resolution{SKU: sku, Path: path, Status: StatusFetched}
}

// acquire reads the raw bytes from the source reference.
func (f *Fetcher) acquire(ctx context.Context, sku, ref string) ([]byte, *Resolution) {
	if ref == "" {
		return nil, &Resolution{SKU: sku, Status: StatusFailed, Reason: ReasonNoSource}
	}

	if !fileutil.IsURL(ref) {
		raw, err := os.ReadFile(ref) // #nosec G304 -- path comes from the user's own spreadsheet
		if err != nil {
			f.logger.Warn("local image unreadable", "sku", sku, "path", ref, "error", err)
			return nil, &Resolution{SKU: sku, Status: StatusFailed, Reason: ReasonFetchFailed, Err: err}
		}
		return raw, nil
	}

	if f.skipDownload {
		f.logger.Debug("download skipped", "sku", sku)
		return nil, &Resolution{SKU: sku, Status: StatusFailed, Reason: ReasonNoSource}
	}

	raw, err := f.download(ctx, ref)
	if err != nil {
		f.logger.Warn("image fetch failed", "sku", sku, "url", ref, "error", err)
		return nil, &Resolution{SKU: sku, Status: StatusFailed, Reason: ReasonFetchFailed, Err: err}
	}
	return raw, nil
}

// download performs one bounded HTTP GET.
func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if len(raw) > maxImageBytes {
		return nil, errors.New("image exceeds size limit")
	}
	if len(raw) == 0 {
		return nil, errors.New("empty response body")
	}
	return raw, nil
}

func (f *Fetcher) lockFor(sku string) *sync.Mutex {
	actual, _ := f.locks.LoadOrStore(sku, &sync.Mutex{})
	return actual.(*sync.Mutex)
}
