package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/reprint/internal/cache"
	"github.com/jmylchreest/reprint/internal/logger"
	"github.com/jmylchreest/reprint/internal/output"
	"github.com/jmylchreest/reprint/pkg/render"
	"github.com/jmylchreest/reprint/pkg/render/docs"
	"github.com/jmylchreest/reprint/pkg/render/wordpress"
	"github.com/jmylchreest/reprint/pkg/reprint"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an article for one or more destinations",
	Long: `Fetch or read an HTML article, convert it to a rich-text document,
normalise it and render it for each destination.

Destinations: docs, wordpress (html), text, runs, paragraphs, idml.
Aliases such as "google docs", "wp", "txt" and "indesign" are accepted.
The idml destination needs a title, publication and date, and builds on
the package named by idml.template when one is configured.

Without --out-dir every destination is written to stdout. With
--publish the docs and wordpress destinations are sent to their
services using the credentials in the config file.

Examples:
  reprint convert -u "https://www.marxists.org/archive/connolly/1908/06/harpb.htm"
  reprint convert -f page.html --site marxists --to runs --format yaml
  reprint convert -u "https://example.com/a.htm" --to docs --publish --title "A"
  reprint convert -f page.html --to idml -o out --publication "The Harp" --date "June 1908"`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()

	// Input
	flags.StringP("url", "u", "", "URL of the article")
	flags.StringP("file", "f", "", "read the article from an HTML file ('-' for stdin)")
	flags.String("site", "", "source profile: generic, marxists (default: detected from the URL)")

	// Metadata overrides
	flags.String("title", "", "document title (default: from the page)")
	flags.String("publication", "", "publication name (default: from the page)")
	flags.String("date", "", "publication date (default: from the page)")

	// Output
	flags.StringSliceP("to", "t", []string{render.DestinationText}, "destination(s) (can be repeated)")
	flags.StringP("out-dir", "o", "", "write each destination to a file in this directory (default: stdout)")
	flags.String("format", string(output.FormatJSON), "format for runs and paragraphs: json, jsonl, yaml")
	flags.Bool("publish", false, "publish docs and wordpress destinations instead of writing them")

	// Fetch
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.String("max-size", "10MB", "max page size (e.g., 500KB, 10MB, 0=unlimited)")
	flags.String("cache", "", "page cache database (default: cache.path from config)")
	flags.Bool("no-cache", false, "always fetch, bypassing the page cache")

	convertCmd.MarkFlagsMutuallyExclusive("url", "file")
	convertCmd.MarkFlagsOneRequired("url", "file")

	_ = viper.BindPFlag("cache.path", flags.Lookup("cache"))
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Debug("convert command starting")
	flags := cmd.Flags()

	opts, err := convertOptions(cmd)
	if err != nil {
		return err
	}

	var store *cache.Cache
	if noCache, _ := flags.GetBool("no-cache"); !noCache {
		store, err = cache.Open(viper.GetString("cache.path"))
		if err != nil {
			logger.Error("failed to open cache", "path", viper.GetString("cache.path"), "error", err)
			return err
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, reprint.WithCache(store, viper.GetDuration("cache.max_age")))
		logger.Debug("page cache enabled", "path", store.Path())
	}

	r, err := reprint.New(opts...)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return err
	}
	defer func() { _ = r.Close() }()

	// Resolve every destination before any work is done.
	names, _ := flags.GetStringSlice("to")
	renderers := make([]render.Renderer, 0, len(names))
	for _, name := range names {
		rd, err := r.Renderer(name)
		if err != nil {
			return err
		}
		renderers = append(renderers, rd)
	}

	url, _ := flags.GetString("url")
	file, _ := flags.GetString("file")
	res, err := load(ctx, r, url, file)
	if err != nil {
		logger.Error("failed to load article", "error", err)
		return err
	}
	res.Metadata = metadataFlags(cmd).Merge(res.Metadata)

	logInfo("Loaded %q (%s profile): %d entries", res.Metadata.Title, res.Profile, res.Document.Len())

	outDir, _ := flags.GetString("out-dir")
	publish, _ := flags.GetBool("publish")
	formatStr, _ := flags.GetString("format")
	format, _ := output.ParseFormat(formatStr)

	var failed int
	for _, rd := range renderers {
		if err := deliver(ctx, r, res, rd, deliveryOptions{outDir: outDir, publish: publish, format: format}); err != nil {
			logger.Error("destination failed", "destination", rd.Name(), "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d destinations failed", failed, len(renderers))
	}
	return nil
}

// convertOptions builds the reprint options from the command's flags.
func convertOptions(cmd *cobra.Command) ([]reprint.Option, error) {
	flags := cmd.Flags()

	timeout, _ := flags.GetDuration("timeout")
	opts := []reprint.Option{reprint.WithTimeout(timeout)}

	maxSize, err := parseSize(flags.Lookup("max-size").Value.String())
	if err != nil {
		logger.Error("invalid max-size", "error", err)
		return nil, err
	}
	opts = append(opts, reprint.WithMaxSize(maxSize))

	formatStr, _ := flags.GetString("format")
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}
	opts = append(opts, reprint.WithDumpFormat(format))

	if tmpl := viper.GetString("idml.template"); tmpl != "" {
		opts = append(opts, reprint.WithIDMLTemplate(tmpl))
	}

	if site, _ := flags.GetString("site"); site != "" {
		opts = append(opts, reprint.WithProfile(site))
	}
	return opts, nil
}

// parseSize parses a human readable byte size. Empty and "0" mean unlimited.
func parseSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("parse size %q: %w", s, err)
	}
	return int(n), nil
}

func metadataFlags(cmd *cobra.Command) render.Metadata {
	var m render.Metadata
	m.Title, _ = cmd.Flags().GetString("title")
	m.Publication, _ = cmd.Flags().GetString("publication")
	m.Date, _ = cmd.Flags().GetString("date")
	return m
}

func load(ctx context.Context, r *reprint.Reprint, url, file string) (*reprint.Result, error) {
	if url != "" {
		return r.Load(ctx, url)
	}

	var rd io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file) //#nosec G304 -- CLI tool reads the user-specified input file
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		rd = f
	}
	return r.LoadHTML(ctx, rd)
}

type deliveryOptions struct {
	outDir  string
	publish bool
	format  output.Format
}

// deliver publishes or writes one destination.
func deliver(ctx context.Context, r *reprint.Reprint, res *reprint.Result, rd render.Renderer, opts deliveryOptions) error {
	if opts.publish {
		switch p := rd.(type) {
		case *wordpress.Renderer:
			return publishWordPress(ctx, p, res)
		case *docs.Renderer:
			return publishDocs(ctx, p, res)
		}
		logger.Warn("destination has no publisher, writing it instead", "destination", rd.Name())
	}

	if opts.outDir == "" {
		return r.Render(ctx, res, rd, os.Stdout)
	}

	var buf bytes.Buffer
	if err := r.Render(ctx, res, rd, &buf); err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o750); err != nil {
		return err
	}
	path := filepath.Join(opts.outDir, outputName(res, rd.Name(), opts.format))
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return err
	}
	logInfo("Wrote %s (%s)", path, humanize.Bytes(uint64(buf.Len())))
	return nil
}

// outputName names the file for a destination after the document title,
// falling back to the conversion id.
func outputName(res *reprint.Result, dest string, format output.Format) string {
	base := wordpress.Slug(res.Metadata.Title)
	if base == "" {
		base = res.ID
	}

	switch dest {
	case render.DestinationDocs:
		return base + ".docs.json"
	case render.DestinationHTML:
		return base + ".html"
	case render.DestinationIDML:
		return base + ".idml"
	case render.DestinationRuns, render.DestinationParagraphs:
		return base + "." + dest + "." + string(format)
	default:
		return base + ".txt"
	}
}
