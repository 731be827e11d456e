package normalise

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jmylchreest/reprint/pkg/anchor"
	"github.com/jmylchreest/reprint/pkg/richtext"
)

// Step names, in default pipeline order.
const (
	StepStripWhitespace    = "strip_whitespace"
	StepRemoveEmpty        = "remove_empty"
	StepClean              = "clean"
	StepSwapItalicsForBold = "swap_italics_for_bold"
	StepInvertQuotations   = "invert_quotations"
	StepSplitOnNewlines    = "split_on_newlines"
)

// Default returns the standard pipeline for documents anchored with a.
func Default(a anchor.Alphabet) *Pipeline {
	return NewPipeline(
		StripWhitespace(a),
		RemoveEmpty(),
		Clean(),
		SwapItalicsForBold(a),
		InvertQuotations(),
		SplitOnNewlines(a),
	)
}

// StripWhitespace trims leading and trailing whitespace from every entry.
// Whitespace among the anchors at either end is trimmed too.
func StripWhitespace(a anchor.Alphabet) Step {
	return Func(StepStripWhitespace, func(doc *richtext.Document) error {
		for _, rt := range doc.Texts {
			rt.Text = trimSpace(a, rt.Text)
		}
		return nil
	})
}

// trimSpace is strings.TrimSpace looking through anchors: whitespace is
// removed from each end up to the first visible scalar and the anchors met
// on the way are kept in order.
func trimSpace(a anchor.Alphabet, s string) string {
	return trimRightSpace(a, trimLeftSpace(a, s))
}

func trimLeftSpace(a anchor.Alphabet, s string) string {
	var kept strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsSpace(r):
		case a.IsAnchor(r):
			kept.WriteRune(r)
		default:
			if i == kept.Len() {
				return s
			}
			return kept.String() + s[i:]
		}
	}
	return kept.String()
}

func trimRightSpace(a anchor.Alphabet, s string) string {
	end := len(s)
	var kept []rune
	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:end])
		if !unicode.IsSpace(r) && !a.IsAnchor(r) {
			break
		}
		if a.IsAnchor(r) {
			kept = append(kept, r)
		}
		end -= size
	}
	slices.Reverse(kept)
	if tail := string(kept); s[end:] != tail {
		return s[:end] + tail
	}
	return s
}

// RemoveEmpty deletes entries with no text.
func RemoveEmpty() Step {
	return Func(StepRemoveEmpty, func(doc *richtext.Document) error {
		kept := doc.Texts[:0]
		for _, rt := range doc.Texts {
			if rt.Text != "" {
				kept = append(kept, rt)
			}
		}
		clear(doc.Texts[len(kept):])
		doc.Texts = kept
		return nil
	})
}

// Substitution is one entry of the clean table. When Replace is set each
// match is replaced by its result and New is ignored.
type Substitution struct {
	Old     *regexp.Regexp
	New     string
	Replace func(match string) string
}

func literal(old, new string) Substitution {
	return Substitution{Old: regexp.MustCompile(regexp.QuoteMeta(old)), New: new}
}

// CleanTable is applied to every entry in order. Dash spacing is collapsed
// only after en-dashes have become em-dashes, and before non-breaking spaces
// become plain spaces so that both kinds of space are absorbed. The collapse
// looks through anchor scalars next to the dash and keeps them.
var CleanTable = []Substitution{
	literal("\r", ""),
	literal("“", `"`),
	literal("”", `"`),
	literal("’", "'"),
	literal("‘", "'"),
	literal("–", "—"),
	{Old: dashRun, Replace: dropSpaces},
	literal("\u00a0", " "),
}

var dashRun = regexp.MustCompile(fmt.Sprintf(`[ \t\x{a0}\x{%X}-\x{%X}]*—[ \t\x{a0}\x{%X}-\x{%X}]*`,
	anchor.RangeStart, anchor.RangeEnd, anchor.RangeStart, anchor.RangeEnd))

func dropSpaces(match string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\u00a0' {
			return -1
		}
		return r
	}, match)
}

// Clean applies CleanTable to every entry.
func Clean() Step {
	return CleanWith(CleanTable)
}

// CleanWith applies table to every entry, in order.
func CleanWith(table []Substitution) Step {
	return Func(StepClean, func(doc *richtext.Document) error {
		for _, rt := range doc.Texts {
			for _, s := range table {
				if s.Replace != nil {
					rt.Text = s.Old.ReplaceAllStringFunc(rt.Text, s.Replace)
					continue
				}
				rt.Text = s.Old.ReplaceAllLiteralString(rt.Text, s.New)
			}
		}
		return nil
	})
}

// SwapItalicsForBold rewrites bold anchors as italic anchors in every entry
// carrying bold. A bold span nested inside italic, or the reverse, merges
// into one italic span.
func SwapItalicsForBold(a anchor.Alphabet) Step {
	return Func(StepSwapItalicsForBold, func(doc *richtext.Document) error {
		bold, err := a.Pair(anchor.Bold)
		if err != nil {
			return fmt.Errorf("%w: %v", richtext.ErrTransformConfiguration, err)
		}
		italic, err := a.Pair(anchor.Italic)
		if err != nil {
			return fmt.Errorf("%w: %v", richtext.ErrTransformConfiguration, err)
		}

		for _, rt := range doc.Get(richtext.Filter{TextStyles: []string{anchor.Bold}, Alphabet: a}) {
			rt.Text = mergeInto(rt.Text, bold, italic)
		}
		return nil
	})
}

// mergeInto rewrites from's anchors as to's, dropping anchors that would
// reopen or close an already open span of to.
func mergeInto(text string, from, to anchor.Pair) string {
	var sb strings.Builder
	sb.Grow(len(text))
	depth := 0
	for _, r := range text {
		switch r {
		case from.Open, to.Open:
			depth++
			if depth == 1 {
				sb.WriteRune(to.Open)
			}
		case from.Close, to.Close:
			switch {
			case depth == 0:
				// unbalanced; left for the segmenter to report
				sb.WriteRune(to.Close)
			case depth == 1:
				depth--
				sb.WriteRune(to.Close)
			default:
				depth--
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// InvertQuotations replaces double quotes with single quotes in every entry
// containing one.
func InvertQuotations() Step {
	return Func(StepInvertQuotations, func(doc *richtext.Document) error {
		for _, rt := range doc.Get(richtext.Filter{Substring: `"`}) {
			rt.Text = strings.ReplaceAll(rt.Text, `"`, "'")
		}
		return nil
	})
}

// SplitOnNewlines replaces every entry containing a newline with one entry
// per line, in order. Each piece keeps the source and a copy of the paragraph
// styles. Pieces are trimmed and blank pieces dropped. A text style open
// across a newline is closed at the end of the line and reopened on the next.
func SplitOnNewlines(a anchor.Alphabet) Step {
	return Func(StepSplitOnNewlines, func(doc *richtext.Document) error {
		out := make([]*richtext.RichText, 0, len(doc.Texts))
		for _, rt := range doc.Texts {
			if !strings.Contains(rt.Text, "\n") {
				out = append(out, rt)
				continue
			}
			for _, line := range splitLines(a, rt.Text) {
				out = append(out, richtext.New(rt.Source, line, rt.ParagraphStyles))
			}
		}
		doc.Texts = out
		return nil
	})
}

func splitLines(a anchor.Alphabet, text string) []string {
	active := richtext.NewStyles()
	var lines []string

	for _, raw := range strings.Split(text, "\n") {
		opens := anchorsFor(a, active, true)
		for _, r := range raw {
			if !a.IsAnchor(r) {
				continue
			}
			style, _ := a.StyleOf(r)
			if open, _ := a.IsOpen(r); open {
				active.Add(style)
			} else {
				active.Remove(style)
			}
		}
		body := trimSpace(a, raw)
		if strings.TrimSpace(a.Strip(body)) == "" {
			continue
		}
		lines = append(lines, opens+body+anchorsFor(a, active, false))
	}

	return lines
}

// anchorsFor returns the open or close anchors of styles in sorted order.
func anchorsFor(a anchor.Alphabet, styles richtext.Styles, open bool) string {
	var sb strings.Builder
	for _, s := range styles.Sorted() {
		p, err := a.Pair(s)
		if err != nil {
			continue
		}
		if open {
			sb.WriteRune(p.Open)
		} else {
			sb.WriteRune(p.Close)
		}
	}
	return sb.String()
}
