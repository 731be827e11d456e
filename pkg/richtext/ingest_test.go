package richtext

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/jmylchreest/reprint/pkg/anchor"
)

func ingest(t *testing.T, root Node, adaptors ...Adaptor) *Document {
	t.Helper()
	doc, err := NewIngester(anchor.Default(), adaptors...).FromNode(root)
	if err != nil {
		t.Fatalf("FromNode() error = %v", err)
	}
	return doc
}

// parseBody parses markup and returns the converted <body> element.
func parseBody(t *testing.T, markup string) Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("html.Parse() error = %v", err)
	}
	var body *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(root)
	if body == nil {
		t.Fatal("no body element")
	}
	return FromHTML(body)
}

func TestFromNode_ParagraphWithEmphasis(t *testing.T) {
	root := El("body", El("p", Txt("Hello "), El("em", Txt("world"))))

	doc := ingest(t, root)

	if doc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", doc.Len())
	}
	rt := doc.Texts[0]
	if want := "Hello \uE000world\uE001"; rt.Text != want {
		t.Errorf("Text = %q, want %q", rt.Text, want)
	}
	if len(rt.ParagraphStyles) != 0 {
		t.Errorf("ParagraphStyles = %v, want empty", rt.ParagraphStyles)
	}
}

func TestFromNode_BlockquoteInheritance(t *testing.T) {
	root := El("body", El("blockquote", El("p", Txt("A")), El("p", Txt("B"))))

	doc := ingest(t, root)

	if doc.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", doc.Len())
	}
	for i, want := range []string{"A", "B"} {
		rt := doc.Texts[i]
		if rt.Text != want {
			t.Errorf("Texts[%d].Text = %q, want %q", i, rt.Text, want)
		}
		if !rt.ParagraphStyles.Equal(NewStyles(StyleBlockquote)) {
			t.Errorf("Texts[%d].ParagraphStyles = %v, want [blockquote]", i, rt.ParagraphStyles)
		}
	}

	// entries must not alias one another's style sets
	doc.Texts[0].ParagraphStyles.Add(StyleAlignRight)
	if doc.Texts[1].HasParagraphStyle(StyleAlignRight) {
		t.Error("paragraph style sets are shared between entries")
	}
}

func TestFromNode_NestedStylesAccumulate(t *testing.T) {
	root := El("body", El("div", El("blockquote", El("h2", Txt("Title")))))

	doc := ingest(t, root)

	if doc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", doc.Len())
	}
	want := NewStyles(StyleBlockquote, StyleHeading2)
	if got := doc.Texts[0].ParagraphStyles; !got.Equal(want) {
		t.Errorf("ParagraphStyles = %v, want %v", got, want)
	}
}

func TestFromNode_Headings(t *testing.T) {
	for i, tag := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		t.Run(tag, func(t *testing.T) {
			doc := ingest(t, El("body", El(tag, Txt("x"))))
			want := []string{StyleHeading1, StyleHeading2, StyleHeading3, StyleHeading4, StyleHeading5, StyleHeading6}[i]
			if !doc.Texts[0].HasParagraphStyle(want) {
				t.Errorf("ParagraphStyles = %v, want %s", doc.Texts[0].ParagraphStyles, want)
			}
		})
	}
}

func TestFromNode_InlineStyles(t *testing.T) {
	tests := []struct {
		name string
		p    *Element
		want string
	}{
		{"em", El("p", El("em", Txt("a"))), "\uE000a\uE001"},
		{"i", El("p", El("i", Txt("a"))), "\uE000a\uE001"},
		{"strong", El("p", El("strong", Txt("a"))), "\uE002a\uE003"},
		{"b", El("p", El("b", Txt("a"))), "\uE002a\uE003"},
		{"nested_flattened", El("p", El("strong", Txt("a "), El("em", Txt("b")))), "\uE002a b\uE003"},
		{"other_inline_literal", El("p", Txt("see "), El("a", Txt("link"))), "see link"},
		{"br_newline", El("p", Txt("a"), El("br"), Txt("b")), "a\nb"},
		{"standalone_inline", El("em", Txt("alone")), "\uE000alone\uE001"},
		{"standalone_bold", El("b", Txt("alone")), "\uE002alone\uE003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ingest(t, El("body", tt.p))
			if got := doc.Texts[0].Text; got != tt.want {
				t.Errorf("Text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromNode_TextLeafUnderContainer(t *testing.T) {
	doc := ingest(t, El("body", Txt("stray"), El("hr"), El("p", Txt("x"))))

	if doc.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", doc.Len())
	}
	if doc.Texts[0].Text != "stray" {
		t.Errorf("Texts[0].Text = %q, want %q", doc.Texts[0].Text, "stray")
	}
	if doc.Texts[1].Text != "" {
		t.Errorf("hr entry Text = %q, want empty", doc.Texts[1].Text)
	}
}

func TestFromNode_SourceReference(t *testing.T) {
	p := El("p", Txt("x"))
	doc := ingest(t, El("body", p))

	if doc.Texts[0].Source != Node(p) {
		t.Error("Source does not reference the originating element")
	}
}

func TestFromNode_UnrecognizedTag(t *testing.T) {
	tests := []struct {
		name string
		root Node
	}{
		{"top_level_span", El("body", El("span", Txt("x")))},
		{"table_in_div", El("body", El("div", El("table")))},
		{"root_section", El("section", Txt("x"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIngester(anchor.Default()).FromNode(tt.root)
			if !errors.Is(err, ErrUnrecognizedTag) {
				t.Errorf("FromNode() error = %v, want ErrUnrecognizedTag", err)
			}
		})
	}
}

func TestFromNode_MissingTextStyle(t *testing.T) {
	a, err := anchor.New(map[string]anchor.Pair{anchor.Italic: {Open: '\uE000', Close: '\uE001'}})
	if err != nil {
		t.Fatalf("anchor.New() error = %v", err)
	}

	_, err = NewIngester(a).FromNode(El("body", El("p", El("b", Txt("x")))))
	if !errors.Is(err, ErrTransformConfiguration) {
		t.Errorf("FromNode() error = %v, want ErrTransformConfiguration", err)
	}
}

func TestFromNode_Nil(t *testing.T) {
	doc := ingest(t, nil)
	if doc.Len() != 0 {
		t.Errorf("Len() = %d, want 0", doc.Len())
	}
}

func TestFromNode_Adaptors(t *testing.T) {
	author := &Element{Tag: "p", Attrs: map[string]string{"class": "author fst"}, Children: []Node{Txt("J. C.")}}
	root := El("body", El("p", Txt("body")), author)

	alignAuthor := func(rt *RichText) {
		if el, ok := rt.Source.(*Element); ok && el.HasClass("author") {
			rt.ParagraphStyles.Add(StyleAlignRight)
		}
	}

	doc := ingest(t, root, alignAuthor)

	if doc.Texts[0].HasParagraphStyle(StyleAlignRight) {
		t.Error("adaptor applied to the wrong entry")
	}
	if !doc.Texts[1].HasParagraphStyle(StyleAlignRight) {
		t.Error("adaptor did not add align-right")
	}
}

func TestFromNode_ParsedHTML(t *testing.T) {
	markup := `<html><head><title>T</title></head><body><!-- note --><h1>Heading</h1><blockquote><p>Quoted <strong>loud</strong></p></blockquote><p>End</p></body></html>`

	doc := ingest(t, parseBody(t, markup))

	want := []struct {
		text   string
		styles Styles
	}{
		{"Heading", NewStyles(StyleHeading1)},
		{"Quoted \uE002loud\uE003", NewStyles(StyleBlockquote)},
		{"End", NewStyles()},
	}

	if doc.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d (%s)", doc.Len(), len(want), doc)
	}
	for i, w := range want {
		if doc.Texts[i].Text != w.text {
			t.Errorf("Texts[%d].Text = %q, want %q", i, doc.Texts[i].Text, w.text)
		}
		if !doc.Texts[i].ParagraphStyles.Equal(w.styles) {
			t.Errorf("Texts[%d].ParagraphStyles = %v, want %v", i, doc.Texts[i].ParagraphStyles, w.styles)
		}
	}
}
