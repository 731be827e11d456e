// Package wordpress renders documents as block-editor HTML and builds the
// REST payload used to post them as drafts.
package wordpress

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/reprint/pkg/anchor"
	"github.com/jmylchreest/reprint/pkg/render"
	"github.com/jmylchreest/reprint/pkg/richtext"
	"github.com/jmylchreest/reprint/pkg/segment"
)

// QuoteClass is the class carried by quote blocks.
const QuoteClass = "wp-block-quote"

var headingTags = map[string]atom.Atom{
	richtext.StyleHeading1: atom.H1,
	richtext.StyleHeading2: atom.H2,
	richtext.StyleHeading3: atom.H3,
	richtext.StyleHeading4: atom.H4,
	richtext.StyleHeading5: atom.H5,
	richtext.StyleHeading6: atom.H6,
}

var alignments = []struct {
	style string
	attr  string
	class string
}{
	{richtext.StyleAlignRight, "right", "has-text-align-right"},
	{richtext.StyleAlignCentre, "center", "has-text-align-center"},
}

// Renderer writes block-editor HTML.
type Renderer struct {
	segmenter *segment.Segmenter
}

var _ render.Renderer = (*Renderer)(nil)

// New returns a renderer decoding with a.
func New(a anchor.Alphabet) *Renderer {
	return &Renderer{segmenter: segment.New(a)}
}

// Name returns the destination name.
func (r *Renderer) Name() string {
	return render.DestinationHTML
}

// Render writes the block markup for doc to w.
func (r *Renderer) Render(ctx context.Context, w io.Writer, doc *richtext.Document, _ render.Metadata) error {
	content, err := r.Content(ctx, doc)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, content)
	return err
}

// Content returns the block markup for doc.
func (r *Renderer) Content(ctx context.Context, doc *richtext.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	paras, err := r.segmenter.Paragraphs(doc)
	if err != nil {
		return "", err
	}
	if err := render.CheckParagraphs(paras); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for i := 0; i < len(paras); {
		if !paras[i].Styles.Has(richtext.StyleBlockquote) {
			if err := writeBlock(&buf, paras[i], paras[i].Styles); err != nil {
				return "", err
			}
			i++
			continue
		}

		// consecutive quoted paragraphs share one quote block
		j := i
		for j < len(paras) && paras[j].Styles.Has(richtext.StyleBlockquote) {
			j++
		}
		if err := writeQuote(&buf, paras[i:j]); err != nil {
			return "", err
		}
		i = j
	}

	return buf.String(), nil
}

func writeQuote(buf *bytes.Buffer, paras []segment.Paragraph) error {
	quote := element(atom.Blockquote, QuoteClass)
	var inner bytes.Buffer
	for _, p := range paras {
		styles := p.Styles.Clone()
		styles.Remove(richtext.StyleBlockquote)
		if err := writeBlock(&inner, p, styles); err != nil {
			return err
		}
	}

	// the inner blocks are already serialised; splice them in as raw markup
	open, end, err := splitElement(quote)
	if err != nil {
		return err
	}
	fmt.Fprintf(buf, "<!-- wp:quote -->\n%s\n%s%s\n<!-- /wp:quote -->\n\n", open, inner.String(), end)
	return nil
}

func writeBlock(buf *bytes.Buffer, p segment.Paragraph, styles richtext.Styles) error {
	tag, block, attrs := blockFor(styles)

	var classes []string
	for _, a := range alignments {
		if styles.Has(a.style) {
			classes = append(classes, a.class)
		}
	}

	el := element(tag, classes...)
	for _, run := range p.Runs {
		el.AppendChild(runNode(run))
	}

	var rendered bytes.Buffer
	if err := html.Render(&rendered, el); err != nil {
		return fmt.Errorf("render %s block: %w", block, err)
	}

	comment := block
	if len(attrs) > 0 {
		comment += " {" + strings.Join(attrs, ",") + "}"
	}
	fmt.Fprintf(buf, "<!-- wp:%s -->\n%s\n<!-- /wp:%s -->\n\n", comment, rendered.String(), block)
	return nil
}

// blockFor returns the tag, block name and block attributes for styles.
func blockFor(styles richtext.Styles) (atom.Atom, string, []string) {
	tag, block := atom.P, "paragraph"
	var attrs []string

	for _, s := range styles.Sorted() {
		if h, ok := headingTags[s]; ok {
			tag, block = h, "heading"
			attrs = append(attrs, fmt.Sprintf(`"level":%s`, strings.TrimPrefix(s, "heading")))
			break
		}
	}
	for _, a := range alignments {
		if styles.Has(a.style) {
			attrs = append(attrs, fmt.Sprintf(`"align":%q`, a.attr))
		}
	}
	return tag, block, attrs
}

// runNode wraps the run text in strong and em elements for its styles.
func runNode(run segment.Run) *html.Node {
	n := &html.Node{Type: html.TextNode, Data: run.Text}

	styles := run.TextStyles.Sorted()
	sort.Sort(sort.Reverse(sort.StringSlice(styles)))
	for _, s := range styles {
		var a atom.Atom
		switch s {
		case richtext.StyleItalic:
			a = atom.Em
		case richtext.StyleBold:
			a = atom.Strong
		default:
			continue
		}
		wrap := element(a)
		wrap.AppendChild(n)
		n = wrap
	}
	return n
}

func element(a atom.Atom, classes ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if len(classes) > 0 {
		n.Attr = []html.Attribute{{Key: "class", Val: strings.Join(classes, " ")}}
	}
	return n
}

// splitElement renders an empty element and returns its open and close tags.
func splitElement(n *html.Node) (string, string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", "", err
	}
	s := buf.String()
	i := strings.LastIndex(s, "</")
	if i < 0 {
		return s, "", nil
	}
	return s[:i], s[i:], nil
}
