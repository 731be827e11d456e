// Package fetcher retrieves source pages.
// Implement the Fetcher interface to read pages from other places, such as
// an authenticated site or a local archive.
package fetcher

import (
	"context"
	"errors"
	"time"
)

// Fetcher abstracts page retrieval.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources.
	Close() error

	// Type returns a string identifying the fetcher (e.g. "static", "cached(static)").
	Type() string
}

// Options controls a single fetch. Zero values fall back to the fetcher's
// configuration.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string

	// MaxSize limits the response body in bytes.
	MaxSize int
}

// Content is a fetched page.
type Content struct {
	URL         string
	HTML        []byte
	StatusCode  int
	ContentType string
	FetchedAt   time.Time

	// Cached is set when the page came from a cache rather than the network.
	Cached bool
}

var (
	// ErrEmptyResponse indicates a page with no body.
	ErrEmptyResponse = errors.New("empty response")
	// ErrStatus indicates a non-success HTTP status.
	ErrStatus = errors.New("unexpected status")
)
