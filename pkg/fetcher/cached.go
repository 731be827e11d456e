package fetcher

import (
	"context"
	"time"

	"github.com/jmylchreest/reprint/internal/logger"
)

// Store persists page bodies by URL.
type Store interface {
	Get(ctx context.Context, url string) (content []byte, storedAt time.Time, ok bool, err error)
	Put(ctx context.Context, url string, content []byte) error
}

// CachedFetcher answers from a Store before delegating to another fetcher,
// and stores every successful response.
type CachedFetcher struct {
	next   Fetcher
	store  Store
	maxAge time.Duration
	now    func() time.Time
}

// NewCached wraps next with store. Entries older than maxAge are refetched;
// a zero maxAge keeps entries forever.
func NewCached(next Fetcher, store Store, maxAge time.Duration) *CachedFetcher {
	return &CachedFetcher{next: next, store: store, maxAge: maxAge, now: time.Now}
}

// Fetch returns the stored page when fresh, otherwise fetches and stores it.
// Cache read and write failures are logged and do not fail the fetch.
func (f *CachedFetcher) Fetch(ctx context.Context, url string, opts Options) (Content, error) {
	body, storedAt, ok, err := f.store.Get(ctx, url)
	switch {
	case err != nil:
		logger.Warn("cache read failed", "url", url, "error", err)
	case ok && (f.maxAge == 0 || f.now().Sub(storedAt) <= f.maxAge):
		logger.Debug("cache hit", "url", url, "stored_at", storedAt)
		return Content{URL: url, HTML: body, FetchedAt: storedAt, Cached: true}, nil
	case ok:
		logger.Debug("cache entry expired", "url", url, "stored_at", storedAt)
	}

	content, err := f.next.Fetch(ctx, url, opts)
	if err != nil {
		return content, err
	}
	if err := f.store.Put(ctx, url, content.HTML); err != nil {
		logger.Warn("cache write failed", "url", url, "error", err)
	}
	return content, nil
}

// Close closes the wrapped fetcher.
func (f *CachedFetcher) Close() error {
	return f.next.Close()
}

// Type returns "cached(<wrapped type>)".
func (f *CachedFetcher) Type() string {
	return "cached(" + f.next.Type() + ")"
}
