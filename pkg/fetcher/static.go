package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/reprint/internal/logger"
)

// StaticConfig holds configuration for the static fetcher.
type StaticConfig struct {
	UserAgent string
	Timeout   time.Duration

	// Attempts is the number of tries per fetch.
	Attempts int
	// RetryDelay is the pause between tries.
	RetryDelay time.Duration
	// MinInterval is the least time between two requests from this fetcher.
	MinInterval time.Duration
	// MaxSize limits the response body in bytes. Zero keeps colly's default.
	MaxSize int
}

// DefaultStaticConfig returns the settings used against public archives.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		UserAgent:   defaultUserAgent,
		Timeout:     30 * time.Second,
		Attempts:    3,
		RetryDelay:  time.Second,
		MinInterval: 5 * time.Second,
	}
}

const defaultUserAgent = "reprint/1.0 (+https://github.com/jmylchreest/reprint)"

// StaticFetcher uses Colly for plain HTTP fetching.
// Requests from one fetcher are serialized and spaced by MinInterval.
type StaticFetcher struct {
	config StaticConfig

	mu   sync.Mutex
	last time.Time
}

// NewStatic creates a static fetcher. Unset UserAgent, Timeout and Attempts
// take their defaults; zero delays stay zero.
func NewStatic(cfg StaticConfig) *StaticFetcher {
	def := DefaultStaticConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	return &StaticFetcher{config: cfg}
}

// Fetch retrieves the page, retrying network failures, 429 and 5xx responses.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var (
		result Content
		err    error
	)
	for attempt := 1; attempt <= f.config.Attempts; attempt++ {
		if err := f.wait(ctx, attempt); err != nil {
			return result, err
		}

		result, err = f.fetchOnce(ctx, targetURL, opts)
		f.last = time.Now()
		if err == nil {
			return result, nil
		}
		if !retryable(result.StatusCode, err) {
			break
		}
		logger.Debug("static fetch retry", "url", targetURL, "attempt", attempt, "error", err)
	}
	return result, err
}

// wait sleeps for the request spacing, or the retry delay after a failure.
func (f *StaticFetcher) wait(ctx context.Context, attempt int) error {
	var d time.Duration
	if attempt > 1 {
		d = f.config.RetryDelay
	}
	if !f.last.IsZero() {
		d = max(d, f.config.MinInterval-time.Since(f.last))
	}
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func retryable(status int, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrEmptyResponse) {
		return false
	}
	return status == 0 || status == http.StatusTooManyRequests || status >= 500
}

func (f *StaticFetcher) fetchOnce(ctx context.Context, targetURL string, opts Options) (Content, error) {
	result := Content{URL: targetURL, FetchedAt: time.Now()}

	userAgent := coalesce(opts.UserAgent, f.config.UserAgent)
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
		colly.DetectCharset(),
	)
	if size := coalesceInt(opts.MaxSize, f.config.MaxSize); size > 0 {
		c.MaxBodySize = size
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	c.SetRequestTimeout(timeout)

	if len(opts.Headers) > 0 {
		c.OnRequest(func(r *colly.Request) {
			for k, v := range opts.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.HTML = r.Body
		logger.Debug("static fetch response received",
			"url", targetURL,
			"status", r.StatusCode,
			"size", humanize.Bytes(uint64(len(r.Body))))
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			result.StatusCode = r.StatusCode
			fetchErr = fmt.Errorf("%w: %d %s", ErrStatus, r.StatusCode, http.StatusText(r.StatusCode))
			return
		}
		fetchErr = fmt.Errorf("fetch error: %w", err)
	})

	if err := c.Visit(targetURL); err != nil && fetchErr == nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		return result, fmt.Errorf("failed to visit URL: %w", err)
	}
	if fetchErr != nil {
		return result, fetchErr
	}
	if len(result.HTML) == 0 {
		return result, fmt.Errorf("%w: %s", ErrEmptyResponse, targetURL)
	}
	return result, nil
}

// Close releases resources.
func (f *StaticFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return "static"
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func coalesceInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
