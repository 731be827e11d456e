package reprint

import (
	"time"

	"github.com/jmylchreest/reprint/internal/output"
	"github.com/jmylchreest/reprint/internal/version"
	"github.com/jmylchreest/reprint/pkg/anchor"
	"github.com/jmylchreest/reprint/pkg/fetcher"
	"github.com/jmylchreest/reprint/pkg/normalise"
)

// Config holds all Reprint configuration.
type Config struct {
	// Fetching
	Fetcher   fetcher.Fetcher
	UserAgent string
	Timeout   time.Duration
	MaxSize   int

	// Cache wraps the fetcher when set.
	Cache       fetcher.Store
	CacheMaxAge time.Duration

	// Conversion
	Alphabet anchor.Alphabet
	Steps    []normalise.Step
	Profile  string

	// DumpFormat serializes the runs and paragraphs destinations.
	DumpFormat DumpFormat

	// IDMLTemplate is the package the idml destination starts from.
	IDMLTemplate string
}

// DumpFormat is the serialization of the runs and paragraphs destinations.
type DumpFormat = output.Format

// Dump formats.
const (
	FormatJSON  DumpFormat = output.FormatJSON
	FormatJSONL DumpFormat = output.FormatJSONL
	FormatYAML  DumpFormat = output.FormatYAML
)

// ErrUnsupportedFormat indicates an unknown dump format name.
var ErrUnsupportedFormat = output.ErrUnsupportedFormat

// ParseDumpFormat parses a dump format name: json, jsonl (or ndjson), yaml
// (or yml).
func ParseDumpFormat(s string) (DumpFormat, error) {
	return output.ParseFormat(s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:  version.UserAgent(),
		Timeout:    30 * time.Second,
		Alphabet:   anchor.Default(),
		DumpFormat: FormatJSON,
	}
}

// Option configures Reprint.
type Option func(*Config)

// WithFetcher injects the page fetcher.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithCache answers fetches from store, refetching entries older than maxAge.
// A zero maxAge keeps entries forever.
func WithCache(store fetcher.Store, maxAge time.Duration) Option {
	return func(c *Config) {
		c.Cache = store
		c.CacheMaxAge = maxAge
	}
}

// WithAlphabet sets the anchor alphabet used from ingestion to rendering.
func WithAlphabet(a anchor.Alphabet) Option {
	return func(c *Config) {
		c.Alphabet = a
	}
}

// WithSteps replaces the normalisation steps.
func WithSteps(steps ...normalise.Step) Option {
	return func(c *Config) {
		c.Steps = append([]normalise.Step{}, steps...)
	}
}

// WithProfile forces a source profile instead of detecting it from the URL.
func WithProfile(name string) Option {
	return func(c *Config) {
		c.Profile = name
	}
}

// WithUserAgent sets the HTTP user agent.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxSize limits fetched pages to n bytes.
func WithMaxSize(n int) Option {
	return func(c *Config) {
		c.MaxSize = n
	}
}

// WithIDMLTemplate builds idml output from the template package at path.
func WithIDMLTemplate(path string) Option {
	return func(c *Config) {
		c.IDMLTemplate = path
	}
}

// WithDumpFormat sets the serialization of the runs and paragraphs destinations.
func WithDumpFormat(f DumpFormat) Option {
	return func(c *Config) {
		c.DumpFormat = f
	}
}
