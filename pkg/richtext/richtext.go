// Package richtext holds the anchor-annotated text model: the flat, ordered
// sequence of block entries produced from an HTML tree, in which inline
// styles are carried by anchor scalars embedded in each entry's text.
package richtext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/reprint/pkg/anchor"
)

var (
	// ErrUnrecognizedTag indicates an element outside the ingestion vocabulary.
	ErrUnrecognizedTag = errors.New("unrecognized tag")
	// ErrTransformConfiguration indicates a transform or renderer was handed
	// data lacking a style or field it depends on.
	ErrTransformConfiguration = errors.New("transform configuration error")
)

// RichText is one block-level entry.
type RichText struct {
	// Source is the node the entry was built from. Entries split from one
	// another share it.
	Source Node

	// Text may embed anchors; they balance per style within the entry.
	Text string

	ParagraphStyles Styles
}

// New returns an entry with its own copy of styles.
func New(src Node, text string, styles Styles) *RichText {
	return &RichText{
		Source:          src,
		Text:            text,
		ParagraphStyles: styles.Clone(),
	}
}

// String returns a short debugging description.
func (rt *RichText) String() string {
	text := rt.Text
	if r := []rune(text); len(r) >= 60 {
		text = string(r[:58]) + "..."
	}
	return fmt.Sprintf("Text: %q Paragraph Styles: %s", text, rt.ParagraphStyles)
}

// HasTextStyle reports whether the text opens style.
func (rt *RichText) HasTextStyle(a anchor.Alphabet, style string) bool {
	return a.HasStyle(rt.Text, style)
}

// HasParagraphStyle reports whether the entry carries style.
func (rt *RichText) HasParagraphStyle(style string) bool {
	return rt.ParagraphStyles.Has(style)
}

// HasText reports whether the anchor-free text contains substr.
func (rt *RichText) HasText(a anchor.Alphabet, substr string) bool {
	return strings.Contains(a.Strip(rt.Text), substr)
}

// Document is the ordered sequence of entries in reading order.
type Document struct {
	Texts []*RichText
}

// NewDocument returns a document over texts.
func NewDocument(texts ...*RichText) *Document {
	return &Document{Texts: texts}
}

// Len returns the number of entries.
func (d *Document) Len() int {
	return len(d.Texts)
}

// String joins the entry texts with spaces.
func (d *Document) String() string {
	parts := make([]string, len(d.Texts))
	for i, rt := range d.Texts {
		parts[i] = rt.Text
	}
	return strings.Join(parts, " ")
}

// Front returns the first entry, or nil.
func (d *Document) Front() *RichText {
	if len(d.Texts) == 0 {
		return nil
	}
	return d.Texts[0]
}

// Pop removes and returns the first entry, or nil.
func (d *Document) Pop() *RichText {
	if len(d.Texts) == 0 {
		return nil
	}
	rt := d.Texts[0]
	d.Texts[0] = nil
	d.Texts = d.Texts[1:]
	return rt
}

// Filter selects entries. Every populated criterion must match.
type Filter struct {
	ParagraphStyles []string
	TextStyles      []string
	Substring       string

	// Alphabet resolves TextStyles and Substring; the default alphabet is
	// used when it registers no styles.
	Alphabet anchor.Alphabet
}

// Get returns the entries matching f, in document order.
func (d *Document) Get(f Filter) []*RichText {
	a := f.Alphabet
	if len(a.Styles()) == 0 {
		a = anchor.Default()
	}

	var out []*RichText
	for _, rt := range d.Texts {
		if matches(rt, f, a) {
			out = append(out, rt)
		}
	}
	return out
}

func matches(rt *RichText, f Filter, a anchor.Alphabet) bool {
	for _, ps := range f.ParagraphStyles {
		if !rt.HasParagraphStyle(ps) {
			return false
		}
	}
	for _, ts := range f.TextStyles {
		if !rt.HasTextStyle(a, ts) {
			return false
		}
	}
	if f.Substring != "" && !rt.HasText(a, f.Substring) {
		return false
	}
	return true
}

// Equal reports whether both documents hold the same texts and paragraph
// styles in the same order. Sources are not compared.
func (d *Document) Equal(other *Document) bool {
	if d.Len() != other.Len() {
		return false
	}
	for i, rt := range d.Texts {
		o := other.Texts[i]
		if rt.Text != o.Text || !rt.ParagraphStyles.Equal(o.ParagraphStyles) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy; sources are shared.
func (d *Document) Clone() *Document {
	texts := make([]*RichText, len(d.Texts))
	for i, rt := range d.Texts {
		texts[i] = New(rt.Source, rt.Text, rt.ParagraphStyles)
	}
	return &Document{Texts: texts}
}
