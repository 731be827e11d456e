package source

import (
	"strings"
	"testing"

	"github.com/jmylchreest/reprint/pkg/anchor"
	"github.com/jmylchreest/reprint/pkg/render"
	"github.com/jmylchreest/reprint/pkg/richtext"
)

const marxistsPage = `<html><head><title>James Connolly: Harp Strings (1908)</title></head>
<body>
<p class="toplink"><a href="../index.htm">Connolly Archive</a></p>
<h3>James Connolly</h3>
<h1>Harp Strings</h1>
<p class="information">
<span class="info">First Published:</span> <em>The Harp</em>, June 1908.<br>
<span class="info">Transcription:</span> Someone.
</p>
<p class="fst">The first paragraph.</p>
<blockquote><p>A quoted <em>line</em>.</p></blockquote>
<p class="author">J.C.</p>
<hr class="end">
<p class="footer">Archive footer</p>
</body></html>`

func TestMarxists_Metadata(t *testing.T) {
	doc := parse(t, marxistsPage)

	got := Marxists().ReadMetadata(doc)
	want := render.Metadata{Title: "James Connolly: Harp Strings (1908)", Publication: "The Harp", Date: "June 1908"}
	if got != want {
		t.Errorf("ReadMetadata() = %+v, want %+v", got, want)
	}

	bare := parse(t, `<title>T</title><body></body>`)
	if got := Marxists().ReadMetadata(bare); got.Publication != "Marxists Internet Archive" {
		t.Errorf("fallback publication = %q", got.Publication)
	}
}

func TestMarxists_Document(t *testing.T) {
	p := Marxists()
	doc := parse(t, marxistsPage)
	p.Prepare(doc)

	if doc.Find(".toplink, .information, .footer, .fst").Length() != 0 {
		t.Error("archive navigation and layout classes should be removed")
	}

	body, err := Body(doc)
	if err != nil {
		t.Fatal(err)
	}
	got, err := richtext.NewIngester(anchor.Default(), p.Adaptors...).FromNode(body)
	if err != nil {
		t.Fatalf("FromNode() error = %v", err)
	}

	authors := got.Get(richtext.Filter{ParagraphStyles: []string{richtext.StyleAlignRight}})
	if len(authors) != 1 || strings.TrimSpace(authors[0].Text) != "J.C." {
		t.Errorf("right-aligned entries = %v", authors)
	}
	quotes := got.Get(richtext.Filter{ParagraphStyles: []string{richtext.StyleBlockquote}, TextStyles: []string{richtext.StyleItalic}})
	if len(quotes) != 1 {
		t.Errorf("italic quotes = %v", quotes)
	}
}

func TestSplitPublished(t *testing.T) {
	tests := []struct {
		in, pub, date string
	}{
		{"The Harp, June 1908", "The Harp", "June 1908"},
		{"Workers' Republic, Dublin, 1 May 1916", "Workers' Republic, Dublin", "1 May 1916"},
		{"The Harp", "The Harp", ""},
		{"1908", "", "1908"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			pub, date := splitPublished(tt.in)
			if pub != tt.pub || date != tt.date {
				t.Errorf("splitPublished(%q) = %q, %q; want %q, %q", tt.in, pub, date, tt.pub, tt.date)
			}
		})
	}
}
