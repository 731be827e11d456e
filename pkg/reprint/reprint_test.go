package reprint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/reprint/internal/cache"
	"github.com/jmylchreest/reprint/pkg/anchor"
	"github.com/jmylchreest/reprint/pkg/fetcher"
	"github.com/jmylchreest/reprint/pkg/normalise"
	"github.com/jmylchreest/reprint/pkg/render"
	"github.com/jmylchreest/reprint/pkg/richtext"
	"github.com/jmylchreest/reprint/pkg/segment"
	"github.com/jmylchreest/reprint/pkg/source"
)

const page = `<!DOCTYPE html>
<html><head>
<title>On Reprinting</title>
<meta property="og:site_name" content="The Paper">
<meta name="date" content="2024-05-01">
<meta name="author" content="A. Writer">
<script>var x = 1;</script>
</head><body>
<nav><a href="/">Home</a></nav>
<article>
<h1>On Reprinting</h1>
<p>It’s a “test” – with <em>emphasis</em>.</p>
<blockquote><p>Line one<br>Line two</p></blockquote>
<p>   </p>
</article>
</body></html>`

func quickFetcher() fetcher.Fetcher {
	return fetcher.NewStatic(fetcher.StaticConfig{Attempts: 1, Timeout: 5 * time.Second})
}

func serve(t *testing.T, body string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestLoad(t *testing.T) {
	srv, _ := serve(t, page)
	r, err := New(WithFetcher(quickFetcher()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	res, err := r.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := render.Metadata{Title: "On Reprinting", Publication: "The Paper", Date: "2024-05-01"}
	if res.Metadata != want {
		t.Errorf("Metadata = %+v, want %+v", res.Metadata, want)
	}
	if res.Meta["author"] != "A. Writer" || res.Profile != "generic" || res.URL != srv.URL || res.ID == "" {
		t.Errorf("Result = %+v", res)
	}

	texts := make([]string, res.Document.Len())
	for i, rt := range res.Document.Texts {
		texts[i] = rt.Text
	}
	wantTexts := []string{
		"On Reprinting",
		"It's a 'test'—with \uE000emphasis\uE001.",
		"Line one",
		"Line two",
	}
	if strings.Join(texts, "|") != strings.Join(wantTexts, "|") {
		t.Errorf("texts = %q, want %q", texts, wantTexts)
	}
	if !res.Document.Texts[0].HasParagraphStyle(richtext.StyleHeading1) {
		t.Error("heading style lost")
	}
	for _, rt := range res.Document.Texts[2:] {
		if !rt.HasParagraphStyle(richtext.StyleBlockquote) {
			t.Errorf("%q should be a blockquote", rt.Text)
		}
	}

	if res.CleanStats.ElementsRemoved["nav"] != 1 {
		t.Errorf("CleanStats = %+v", res.CleanStats)
	}
	if s, ok := res.NormaliseStats.Step(normalise.StepRemoveEmpty); !ok || s.Delta() >= 0 {
		t.Errorf("remove-empty stats = %+v", s)
	}
}

func TestLoad_RenderText(t *testing.T) {
	srv, _ := serve(t, page)
	r, err := New(WithFetcher(quickFetcher()))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	res, err := r.Load(ctx, srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	renderer, err := r.Renderer("txt")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := r.Render(ctx, res, renderer, &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "On Reprinting\nIt's a 'test'—with emphasis.\nLine one\nLine two"
	if buf.String() != want {
		t.Errorf("Render() = %q, want %q", buf.String(), want)
	}
	if err := render.CheckText(buf.String()); err != nil {
		t.Error(err)
	}
}

func TestLoadHTML_SymbolBullets(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"bullet", "<p>\uF0B7 first point</p><p>ok</p>", "first point\nok"},
		{"anchor_lookalike", "<p>a\uE000b</p><p><i>c\uE001</i></p>", "ab\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(WithFetcher(quickFetcher()))
			if err != nil {
				t.Fatal(err)
			}
			ctx := context.Background()
			res, err := r.LoadHTML(ctx, strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("LoadHTML() error = %v", err)
			}
			renderer, err := r.Renderer("text")
			if err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			if err := r.Render(ctx, res, renderer, &buf); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Render() = %q, want %q", buf.String(), tt.want)
			}
			if res.CleanStats.ReservedRemoved == 0 {
				t.Error("CleanStats.ReservedRemoved = 0, want the scalars counted")
			}
		})
	}
}

func TestLoad_Cache(t *testing.T) {
	srv, calls := serve(t, page)
	store, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	r, err := New(WithFetcher(quickFetcher()), WithCache(store, 0))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	first, err := r.Load(ctx, srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Load(ctx, srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	if *calls != 1 || first.Cached || !second.Cached {
		t.Errorf("calls = %d, cached = %v/%v; want one network fetch", *calls, first.Cached, second.Cached)
	}
	if !first.Document.Equal(second.Document) {
		t.Error("cached conversion differs")
	}
	if first.ID == second.ID {
		t.Error("each conversion needs its own id")
	}
}

func TestLoad_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	r, err := New(WithFetcher(quickFetcher()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Load(context.Background(), srv.URL); !errors.Is(err, fetcher.ErrStatus) {
		t.Errorf("Load() error = %v, want ErrStatus", err)
	}
}

func TestLoadHTML(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		html    string
		want    int
		wantErr error
	}{
		{"generic", nil, `<p>a</p><p>b</p>`, 2, nil},
		{"unrecognized", nil, `<marquee>x</marquee>`, 0, richtext.ErrUnrecognizedTag},
		{"no_steps", []Option{WithSteps()}, `<p> a </p><p></p>`, 2, nil},
		{"marxists", []Option{WithProfile("marxists.org")}, `<p class="toplink">nav</p><p>body</p>`, 1, nil},
		{"swap_bold_needs_style", []Option{WithAlphabet(italicOnly(t)), WithSteps(normalise.SwapItalicsForBold(italicOnly(t)))}, `<p>x</p>`, 0, richtext.ErrTransformConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(append([]Option{WithFetcher(quickFetcher())}, tt.opts...)...)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			res, err := r.LoadHTML(context.Background(), strings.NewReader(tt.html))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadHTML() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadHTML() error = %v", err)
			}
			if res.Document.Len() != tt.want {
				t.Errorf("entries = %d, want %d: %s", res.Document.Len(), tt.want, res.Document)
			}
		})
	}
}

func italicOnly(t *testing.T) anchor.Alphabet {
	t.Helper()
	a, err := anchor.New(map[string]anchor.Pair{
		richtext.StyleItalic: {Open: '\uE000', Close: '\uE001'},
	})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(WithProfile("nowhere")); !errors.Is(err, source.ErrUnknownProfile) {
		t.Errorf("New() error = %v, want ErrUnknownProfile", err)
	}
	if _, err := New(WithAlphabet(anchor.Alphabet{})); !errors.Is(err, richtext.ErrTransformConfiguration) {
		t.Errorf("New() error = %v, want ErrTransformConfiguration", err)
	}
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"google docs", render.DestinationDocs},
		{"WP", render.DestinationHTML},
		{"cartlann", render.DestinationHTML},
		{"text file", render.DestinationText},
		{"runs", render.DestinationRuns},
		{"paragraphs", render.DestinationParagraphs},
		{"indesign", render.DestinationIDML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRenderer(tt.name, anchor.Default(), FormatJSON)
			if err != nil {
				t.Fatalf("NewRenderer() error = %v", err)
			}
			if r.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", r.Name(), tt.want)
			}
		})
	}

	if _, err := NewRenderer("fax", anchor.Default(), FormatJSON); !errors.Is(err, render.ErrUnknownDestination) {
		t.Errorf("NewRenderer(fax) error = %v, want ErrUnknownDestination", err)
	}
}

func TestRender_Errors(t *testing.T) {
	r, err := New(WithFetcher(quickFetcher()), WithDumpFormat(FormatJSONL))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	res := &Result{ID: "t", Document: richtext.NewDocument(richtext.New(nil, "bad\uE001", richtext.NewStyles()))}
	renderer, _ := r.Renderer("runs")
	var buf bytes.Buffer
	if err := r.Render(ctx, res, renderer, &buf); !errors.Is(err, segment.ErrUnbalancedAnchor) {
		t.Errorf("Render() error = %v, want ErrUnbalancedAnchor", err)
	}

	res.Document = richtext.NewDocument(richtext.New(nil, "fine", richtext.NewStyles()))
	docsRenderer, _ := r.Renderer("docs")
	if err := r.Render(ctx, res, docsRenderer, &buf); !errors.Is(err, richtext.ErrTransformConfiguration) {
		t.Errorf("docs Render() without title error = %v, want ErrTransformConfiguration", err)
	}

	buf.Reset()
	if err := r.Render(ctx, res, renderer, &buf); err != nil {
		t.Fatal(err)
	}
	var run segment.Run
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &run); err != nil || run.Text != "fine" {
		t.Errorf("JSONL run = %q, %v", buf.String(), err)
	}
}

func TestParseDumpFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    DumpFormat
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"NDJSON", FormatJSONL, false},
		{" yml ", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDumpFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ParseDumpFormat(%q) error = %v, want ErrUnsupportedFormat", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseDumpFormat(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestWithDumpFormat_YAML(t *testing.T) {
	r, err := New(WithFetcher(quickFetcher()), WithDumpFormat(FormatYAML))
	if err != nil {
		t.Fatal(err)
	}
	renderer, err := r.Renderer("runs")
	if err != nil {
		t.Fatal(err)
	}

	res := &Result{ID: "t", Document: richtext.NewDocument(richtext.New(nil, "fine", richtext.NewStyles()))}
	var buf bytes.Buffer
	if err := r.Render(context.Background(), res, renderer, &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "text: fine") {
		t.Errorf("YAML runs = %q, want a text: fine entry", buf.String())
	}
}
