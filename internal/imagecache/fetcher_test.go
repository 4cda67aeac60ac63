package imagecache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// passNormalizer passes bytes through, failing on a marker payload. It
// stands in for the real normalizer so fetcher tests stay image-free.
type passNormalizer struct{}

var errFakeDecode = errors.New("fake decode failure")

func (passNormalizer) Normalize(raw []byte) ([]byte, error) {
	if string(raw) == "corrupt" {
		return nil, errFakeDecode
	}
	return raw, nil
}

// countingTransport counts HTTP requests so tests can assert the
// at-most-once fetch guarantee.
type countingTransport struct {
	calls atomic.Int64
	inner http.RoundTripper
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return c.inner.RoundTrip(req)
}

func newTestFetcher(t *testing.T, handler http.Handler) (*Fetcher, *MemStore, *countingTransport, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	transport := &countingTransport{inner: srv.Client().Transport}
	store := NewMemStore()
	fetcher := NewFetcher(store,
		WithHTTPClient(&http.Client{Transport: transport}),
		WithNormalizer(passNormalizer{}),
		WithTimeout(5*time.Second),
	)
	return fetcher, store, transport, srv
}

func imageHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})
}

func TestFetcherResolve(t *testing.T) {
	t.Run("fetches normalizes and stores on first call", func(t *testing.T) {
		fetcher, store, transport, srv := newTestFetcher(t, imageHandler("image-bytes"))

		res := fetcher.Resolve(context.Background(), "A100", srv.URL+"/a100.jpg")
		if res.Status != StatusFetched {
			t.Fatalf("status = %v (err %v), want fetched", res.Status, res.Err)
		}
		if data, ok := store.Get("A100"); !ok || string(data) != "image-bytes" {
			t.Errorf("stored = %q, %v", data, ok)
		}
		if n := transport.calls.Load(); n != 1 {
			t.Errorf("network calls = %d, want 1", n)
		}
	})

	t.Run("second resolve is a cache hit with no network", func(t *testing.T) {
		fetcher, _, transport, srv := newTestFetcher(t, imageHandler("image-bytes"))

		first := fetcher.Resolve(context.Background(), "A100", srv.URL+"/a100.jpg")
		second := fetcher.Resolve(context.Background(), "A100", srv.URL+"/a100.jpg")

		if second.Status != StatusCached {
			t.Errorf("second status = %v, want cached", second.Status)
		}
		if second.Path != first.Path {
			t.Errorf("cached path = %q, want %q", second.Path, first.Path)
		}
		if n := transport.calls.Load(); n != 1 {
			t.Errorf("network calls = %d, want 1 (cache hit must not refetch)", n)
		}
	})

	t.Run("non-2xx response is a fetch failure", func(t *testing.T) {
		fetcher, _, _, srv := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))

		res := fetcher.Resolve(context.Background(), "A100", srv.URL+"/a100.jpg")
		if res.Status != StatusFailed || res.Reason != ReasonFetchFailed {
			t.Errorf("resolution = %+v, want failed/fetch-failed", res)
		}
	})

	t.Run("undecodable bytes are a decode failure", func(t *testing.T) {
		fetcher, store, _, srv := newTestFetcher(t, imageHandler("corrupt"))

		res := fetcher.Resolve(context.Background(), "A100", srv.URL+"/a100.jpg")
		if res.Status != StatusFailed || res.Reason != ReasonDecode {
			t.Errorf("resolution = %+v, want failed/corrupt-image", res)
		}
		if !errors.Is(res.Err, errFakeDecode) {
			t.Errorf("err = %v, want decode error preserved", res.Err)
		}
		if _, ok := store.Get("A100"); ok {
			t.Error("failed image was stored")
		}
	})

	t.Run("empty reference has no source", func(t *testing.T) {
		fetcher, _, _, _ := newTestFetcher(t, imageHandler("x"))

		res := fetcher.Resolve(context.Background(), "A100", "")
		if res.Status != StatusFailed || res.Reason != ReasonNoSource {
			t.Errorf("resolution = %+v, want failed/no-image", res)
		}
	})

	t.Run("local path reference reads the file", func(t *testing.T) {
		fetcher, store, transport, _ := newTestFetcher(t, imageHandler("x"))

		path := filepath.Join(t.TempDir(), "local.jpg")
		if err := os.WriteFile(path, []byte("local-bytes"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		res := fetcher.Resolve(context.Background(), "A100", path)
		if res.Status != StatusFetched {
			t.Fatalf("status = %v (err %v), want fetched", res.Status, res.Err)
		}
		if data, _ := store.Get("A100"); string(data) != "local-bytes" {
			t.Errorf("stored = %q", data)
		}
		if n := transport.calls.Load(); n != 0 {
			t.Errorf("network calls = %d, want 0 for local ref", n)
		}
	})

	t.Run("missing local file is a fetch failure", func(t *testing.T) {
		fetcher, _, _, _ := newTestFetcher(t, imageHandler("x"))

		res := fetcher.Resolve(context.Background(), "A100", filepath.Join(t.TempDir(), "missing.jpg"))
		if res.Status != StatusFailed || res.Reason != ReasonFetchFailed {
			t.Errorf("resolution = %+v, want failed/fetch-failed", res)
		}
	})

	t.Run("skip download leaves remote refs unresolved", func(t *testing.T) {
		srv := httptest.NewServer(imageHandler("x"))
		t.Cleanup(srv.Close)

		transport := &countingTransport{inner: srv.Client().Transport}
		fetcher := NewFetcher(NewMemStore(),
			WithHTTPClient(&http.Client{Transport: transport}),
			WithNormalizer(passNormalizer{}),
			WithSkipDownload(true),
		)

		res := fetcher.Resolve(context.Background(), "A100", srv.URL+"/a100.jpg")
		if res.Status != StatusFailed || res.Reason != ReasonNoSource {
			t.Errorf("resolution = %+v, want failed/no-image", res)
		}
		if n := transport.calls.Load(); n != 0 {
			t.Errorf("network calls = %d, want 0 with skip-download", n)
		}
	})
}

func TestFetcherResolveAll(t *testing.T) {
	t.Run("results in request order with mixed outcomes", func(t *testing.T) {
		fetcher, _, _, srv := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/bad":
				http.Error(w, "boom", http.StatusInternalServerError)
			case "/corrupt":
				fmt.Fprint(w, "corrupt")
			default:
				fmt.Fprint(w, "ok-bytes")
			}
		}))

		reqs := []Request{
			{SKU: "S1", Ref: srv.URL + "/one"},
			{SKU: "S2", Ref: srv.URL + "/bad"},
			{SKU: "S3", Ref: srv.URL + "/corrupt"},
			{SKU: "S4", Ref: ""},
			{SKU: "S5", Ref: srv.URL + "/five"},
		}

		results, err := fetcher.ResolveAll(context.Background(), reqs, 3)
		if err != nil {
			t.Fatalf("ResolveAll() error = %v", err)
		}
		if len(results) != len(reqs) {
			t.Fatalf("results = %d, want %d", len(results), len(reqs))
		}

		wantStatus := []Status{StatusFetched, StatusFailed, StatusFailed, StatusFailed, StatusFetched}
		wantReason := []Reason{ReasonNone, ReasonFetchFailed, ReasonDecode, ReasonNoSource, ReasonNone}
		for i, res := range results {
			if res.SKU != reqs[i].SKU {
				t.Errorf("result %d sku = %q, want %q", i, res.SKU, reqs[i].SKU)
			}
			if res.Status != wantStatus[i] || res.Reason != wantReason[i] {
				t.Errorf("result %d = %v/%q, want %v/%q", i, res.Status, res.Reason, wantStatus[i], wantReason[i])
			}
		}
	})

	t.Run("cancelled context stops the batch", func(t *testing.T) {
		fetcher, _, _, srv := newTestFetcher(t, imageHandler("x"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.ResolveAll(ctx, []Request{{SKU: "S1", Ref: srv.URL}}, 2)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})

	t.Run("duplicate skus fetch once", func(t *testing.T) {
		fetcher, _, transport, srv := newTestFetcher(t, imageHandler("x"))

		reqs := []Request{
			{SKU: "DUP", Ref: srv.URL + "/a"},
			{SKU: "DUP", Ref: srv.URL + "/a"},
			{SKU: "DUP", Ref: srv.URL + "/a"},
		}
		results, err := fetcher.ResolveAll(context.Background(), reqs, 3)
		if err != nil {
			t.Fatalf("ResolveAll() error = %v", err)
		}
		if n := transport.calls.Load(); n != 1 {
			t.Errorf("network calls = %d, want 1 (per-SKU serialization)", n)
		}
		for i, res := range results {
			if res.Failed() {
				t.Errorf("result %d failed: %+v", i, res)
			}
		}
	})
}
