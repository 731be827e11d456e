// Package reprint provides the public API for converting published HTML into
// destination formats.
//
// A conversion loads a page into a normalised document with its metadata,
// then renders it:
//
//	r, err := reprint.New()
//	res, err := r.Load(ctx, "https://www.marxists.org/archive/connolly/1908/06/harpb.htm")
//	renderer, err := r.Renderer("wordpress")
//	err = r.Render(ctx, res, renderer, os.Stdout)
package reprint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jmylchreest/reprint/internal/logger"
	"github.com/jmylchreest/reprint/pkg/fetcher"
	"github.com/jmylchreest/reprint/pkg/normalise"
	"github.com/jmylchreest/reprint/pkg/render"
	"github.com/jmylchreest/reprint/pkg/richtext"
	"github.com/jmylchreest/reprint/pkg/source"
)

// Result is a loaded, normalised document.
type Result struct {
	ID        string
	URL       string
	Profile   string
	FetchedAt time.Time
	Cached    bool

	Document *richtext.Document
	Metadata render.Metadata
	// Meta holds the page's description, keywords and author tags.
	Meta map[string]string

	CleanStats     *source.Stats
	NormaliseStats *normalise.Stats
}

// Reprint is the main entry point for conversions.
type Reprint struct {
	fetcher  fetcher.Fetcher
	pipeline *normalise.Pipeline
	profile  *source.Profile
	config   Config
}

// New creates a Reprint instance.
func New(opts ...Option) (*Reprint, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.Alphabet.Styles()) == 0 {
		return nil, fmt.Errorf("%w: empty anchor alphabet", richtext.ErrTransformConfiguration)
	}

	r := &Reprint{config: cfg}

	if cfg.Profile != "" {
		p, err := source.Lookup(cfg.Profile)
		if err != nil {
			return nil, err
		}
		r.profile = &p
	}

	if cfg.Steps != nil {
		r.pipeline = normalise.NewPipeline(cfg.Steps...)
	} else {
		r.pipeline = normalise.Default(cfg.Alphabet)
	}

	f := cfg.Fetcher
	if f == nil {
		static := fetcher.DefaultStaticConfig()
		static.UserAgent = cfg.UserAgent
		static.Timeout = cfg.Timeout
		static.MaxSize = cfg.MaxSize
		f = fetcher.NewStatic(static)
	}
	if cfg.Cache != nil {
		f = fetcher.NewCached(f, cfg.Cache, cfg.CacheMaxAge)
	}
	r.fetcher = f

	return r, nil
}

// Close releases the fetcher.
func (r *Reprint) Close() error {
	return r.fetcher.Close()
}

// Pipeline returns the normalisation pipeline.
func (r *Reprint) Pipeline() *normalise.Pipeline {
	return r.pipeline
}

// Load fetches url and converts the page. The profile is detected from the
// URL unless one was configured.
func (r *Reprint) Load(ctx context.Context, url string) (*Result, error) {
	id := logger.NewConversionID()
	log := logger.ForConversion(id)

	fetchStart := time.Now()
	content, err := r.fetcher.Fetch(ctx, url, fetcher.Options{
		UserAgent: r.config.UserAgent,
		Timeout:   r.config.Timeout,
		MaxSize:   r.config.MaxSize,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	log.Debug("page fetched",
		"url", url,
		"fetcher", r.fetcher.Type(),
		"cached", content.Cached,
		"duration", time.Since(fetchStart))

	profile := source.Detect(url)
	if r.profile != nil {
		profile = *r.profile
	}

	res, err := r.convert(ctx, id, bytes.NewReader(content.HTML), profile)
	if err != nil {
		return nil, err
	}
	res.URL = url
	res.FetchedAt = content.FetchedAt
	res.Cached = content.Cached
	return res, nil
}

// LoadHTML converts a page read from rd with the configured profile, or the
// generic one.
func (r *Reprint) LoadHTML(ctx context.Context, rd io.Reader) (*Result, error) {
	profile := source.Generic()
	if r.profile != nil {
		profile = *r.profile
	}
	return r.convert(ctx, logger.NewConversionID(), rd, profile)
}

func (r *Reprint) convert(ctx context.Context, id string, rd io.Reader, profile source.Profile) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.ForConversion(id)

	page, err := source.Parse(rd)
	if err != nil {
		return nil, err
	}
	res := &Result{
		ID:       id,
		Profile:  profile.Name,
		Metadata: profile.ReadMetadata(page),
		Meta:     source.Meta(page),
	}

	res.CleanStats = profile.Prepare(page)
	log.Debug("page cleaned", "profile", profile.Name, "removed", res.CleanStats.TotalRemoved())

	body, err := source.Body(page)
	if err != nil {
		return nil, err
	}
	doc, err := richtext.NewIngester(r.config.Alphabet, profile.Adaptors...).FromNode(body)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	ingested := doc.Len()

	res.NormaliseStats, err = r.pipeline.RunWithStats(doc)
	if err != nil {
		return nil, err
	}
	res.Document = doc

	log.Info("document loaded",
		"profile", profile.Name,
		"title", res.Metadata.Title,
		"ingested", ingested,
		"entries", doc.Len(),
		"normalise", res.NormaliseStats.TotalDuration)
	return res, nil
}

// Render writes res through renderer to w.
func (r *Reprint) Render(ctx context.Context, res *Result, renderer render.Renderer, w io.Writer) error {
	log := logger.ForConversion(res.ID)
	start := time.Now()

	if err := renderer.Render(ctx, w, res.Document, res.Metadata); err != nil {
		log.Error("render failed", "destination", renderer.Name(), "error", err)
		return fmt.Errorf("render %s: %w", renderer.Name(), err)
	}
	log.Info("document rendered", "destination", renderer.Name(), "duration", time.Since(start))
	return nil
}
