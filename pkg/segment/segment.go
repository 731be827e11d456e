// Package segment decodes anchor-annotated entries into style-homogeneous runs.
//
// The scan tracks active text styles as a set: a close anchor removes its
// style regardless of what was opened after it, so overlapping spans decode
// as long as each style's opens and closes balance on their own. Scalars the
// alphabet does not register are text.
package segment

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jmylchreest/reprint/pkg/anchor"
	"github.com/jmylchreest/reprint/pkg/richtext"
)

// ErrUnbalancedAnchor indicates a close anchor whose style is not open.
var ErrUnbalancedAnchor = errors.New("unbalanced anchor")

// Run is a span of anchor-free text sharing one set of styles.
type Run struct {
	Text            string          `json:"text" yaml:"text"`
	TextStyles      richtext.Styles `json:"text_styles" yaml:"text_styles"`
	ParagraphStyles richtext.Styles `json:"paragraph_styles" yaml:"paragraph_styles"`
}

// HasTextStyle reports whether the run carries style.
func (r Run) HasTextStyle(style string) bool {
	return r.TextStyles.Has(style)
}

// Paragraph groups the runs decoded from one entry.
type Paragraph struct {
	Runs   []Run           `json:"runs" yaml:"runs"`
	Styles richtext.Styles `json:"styles" yaml:"styles"`
}

// Text returns the concatenated run text.
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Segmenter decodes documents anchored with one alphabet.
type Segmenter struct {
	alphabet anchor.Alphabet
}

// New returns a segmenter for a.
func New(a anchor.Alphabet) *Segmenter {
	return &Segmenter{alphabet: a}
}

// Runs decodes every entry and returns all runs in document order.
func (s *Segmenter) Runs(doc *richtext.Document) ([]Run, error) {
	var runs []Run
	for i, rt := range doc.Texts {
		rs, err := s.Entry(rt)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		runs = append(runs, rs...)
	}
	return runs, nil
}

// Paragraphs decodes every entry into its own paragraph, in document order.
// Entries without text yield a paragraph with no runs.
func (s *Segmenter) Paragraphs(doc *richtext.Document) ([]Paragraph, error) {
	paras := make([]Paragraph, 0, doc.Len())
	for i, rt := range doc.Texts {
		rs, err := s.Entry(rt)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		paras = append(paras, Paragraph{
			Runs:   rs,
			Styles: rt.ParagraphStyles.Clone(),
		})
	}
	return paras, nil
}

// Entry decodes a single entry.
func (s *Segmenter) Entry(rt *richtext.RichText) ([]Run, error) {
	var runs []Run
	active := richtext.NewStyles()
	rest := rt.Text

	emit := func(text string) {
		if text == "" {
			return
		}
		runs = append(runs, Run{
			Text:            text,
			TextStyles:      active.Clone(),
			ParagraphStyles: rt.ParagraphStyles.Clone(),
		})
	}

	for {
		i := s.alphabet.Index(rest)
		if i < 0 {
			break
		}
		emit(rest[:i])

		r, size := utf8.DecodeRuneInString(rest[i:])
		style, _ := s.alphabet.StyleOf(r)
		open, _ := s.alphabet.IsOpen(r)
		switch {
		case open:
			active.Add(style)
		case !active.Remove(style):
			return nil, fmt.Errorf("%w: %s closed without an open", ErrUnbalancedAnchor, style)
		}

		rest = rest[i+size:]
	}

	emit(rest)
	return runs, nil
}
