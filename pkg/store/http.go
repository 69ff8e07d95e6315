package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/visunn/pkg/cache"
	"github.com/matzehuels/visunn/pkg/errors"
	"github.com/matzehuels/visunn/pkg/observability"
	"github.com/matzehuels/visunn/pkg/topology"
)

// DefaultTimeout bounds a single HTTP request. The store itself never times
// out; this only protects the transport.
const DefaultTimeout = 10 * time.Second

// RequestIDHeader carries a fresh UUID on every snapshot request.
const RequestIDHeader = "X-Request-ID"

const cacheKeyType = "snapshot"

// HTTPFetcher loads snapshots from a backend over HTTP.
type HTTPFetcher struct {
	http    *http.Client
	base    string
	baseURL *url.URL
	prefix  string
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	headers map[string]string
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) { f.http = c }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) { f.http.Timeout = d }
}

// WithKeyer sets the cache key derivation.
func WithKeyer(k cache.Keyer) FetcherOption {
	return func(f *HTTPFetcher) { f.keyer = k }
}

// WithTTL sets how long fetched snapshots stay in the cache.
func WithTTL(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) { f.ttl = d }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) FetcherOption {
	return func(f *HTTPFetcher) { f.headers[key] = value }
}

// NewHTTPFetcher creates a fetcher for GET {baseURL}/{prefix}/{wire}.
// Pass a nil cache to disable caching.
func NewHTTPFetcher(baseURL, prefix string, c cache.Cache, opts ...FetcherOption) (*HTTPFetcher, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse server URL")
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "route prefix cannot be empty")
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	f := &HTTPFetcher{
		http:    &http.Client{Timeout: DefaultTimeout},
		base:    u.String(),
		baseURL: u,
		prefix:  prefix,
		cache:   c,
		keyer:   cache.NewDefaultKeyer(),
		ttl:     cache.DefaultTTL,
		headers: map[string]string{"Accept": "application/json"},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// URL returns the request URL for a wire tag.
func (f *HTTPFetcher) URL(wire string) string {
	return f.baseURL.JoinPath(f.prefix, wire).String()
}

// Fetch implements Fetcher. Transport failures and non-200 answers are
// FETCH_FAILED; a body that does not decode into a valid snapshot is
// MALFORMED_SNAPSHOT. Nothing is retried.
func (f *HTTPFetcher) Fetch(ctx context.Context, wire string) (*topology.Snapshot, error) {
	key := f.keyer.SnapshotKey(f.base, f.prefix, wire)
	if snap, ok := f.cached(ctx, key); ok {
		return snap, nil
	}

	body, err := f.get(ctx, f.URL(wire))
	if err != nil {
		return nil, err
	}
	snap, err := topology.Unmarshal(body)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, key, body, f.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(body))
	}
	return snap, nil
}

func (f *HTTPFetcher) cached(ctx context.Context, key string) (*topology.Snapshot, bool) {
	data, ok, err := f.cache.Get(ctx, key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	snap, err := topology.Unmarshal(data)
	if err != nil {
		_ = f.cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return snap, true
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "build request")
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := f.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "GET %s", rawURL)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "GET %s", rawURL)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "read %s", rawURL)
	}
	return body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("module not found")
	default:
		return fmt.Errorf("status %d", code)
	}
}
