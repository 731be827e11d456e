// Package anchor defines the reserved marker characters used to embed inline
// text styles directly inside a string.
//
// Each text style owns an open/close pair of scalars drawn from the Unicode
// private use area. Wrapping text in a pair marks the span as carrying that
// style; the scalars never appear in legitimate document content, so any
// occurrence in rendered output is a defect.
package anchor

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Reserved range for anchor scalars (the BMP private use area).
const (
	RangeStart rune = '\uE000'
	RangeEnd   rune = '\uF8FF'
)

// Built-in text styles.
const (
	Italic = "italic"
	Bold   = "bold"
)

var (
	// ErrUnknownAnchor indicates a scalar treated as an anchor is not registered.
	ErrUnknownAnchor = errors.New("unknown anchor")
	// ErrUnknownStyle indicates a text style has no registered anchor pair.
	ErrUnknownStyle = errors.New("unknown text style")
	// ErrInvalidPair indicates a pair is outside the reserved range or reuses a scalar.
	ErrInvalidPair = errors.New("invalid anchor pair")
)

// Pair is the open/close marker for one text style.
type Pair struct {
	Open  rune
	Close rune
}

type mark struct {
	style string
	open  bool
}

// Alphabet is an immutable registry of anchor pairs.
// The zero value has no styles registered.
type Alphabet struct {
	pairs map[string]Pair
	marks map[rune]mark
}

// Default returns the alphabet with the built-in italic and bold pairs.
func Default() Alphabet {
	a, err := New(map[string]Pair{
		Italic: {Open: '\uE000', Close: '\uE001'},
		Bold:   {Open: '\uE002', Close: '\uE003'},
	})
	if err != nil {
		panic(err)
	}
	return a
}

// New builds an alphabet from the given style pairs. Every scalar must lie in
// the reserved range and be used exactly once across all pairs.
func New(pairs map[string]Pair) (Alphabet, error) {
	a := Alphabet{
		pairs: make(map[string]Pair, len(pairs)),
		marks: make(map[rune]mark, len(pairs)*2),
	}

	for style, p := range pairs {
		if style == "" {
			return Alphabet{}, fmt.Errorf("%w: empty style name", ErrInvalidPair)
		}
		if p.Open == p.Close {
			return Alphabet{}, fmt.Errorf("%w: %s opens and closes with %U", ErrInvalidPair, style, p.Open)
		}
		for _, r := range []rune{p.Open, p.Close} {
			if r < RangeStart || r > RangeEnd {
				return Alphabet{}, fmt.Errorf("%w: %s uses %U outside %U-%U", ErrInvalidPair, style, r, RangeStart, RangeEnd)
			}
			if prev, ok := a.marks[r]; ok {
				return Alphabet{}, fmt.Errorf("%w: %U shared by %s and %s", ErrInvalidPair, r, prev.style, style)
			}
			a.marks[r] = mark{style: style, open: r == p.Open}
		}
		a.pairs[style] = p
	}

	return a, nil
}

// Styles returns the registered text styles in sorted order.
func (a Alphabet) Styles() []string {
	styles := make([]string, 0, len(a.pairs))
	for s := range a.pairs {
		styles = append(styles, s)
	}
	sort.Strings(styles)
	return styles
}

// Pair returns the anchor pair for style.
func (a Alphabet) Pair(style string) (Pair, error) {
	p, ok := a.pairs[style]
	if !ok {
		return Pair{}, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	return p, nil
}

// Wrap returns text enclosed in the anchors of style.
func (a Alphabet) Wrap(text, style string) (string, error) {
	p, err := a.Pair(style)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.Grow(len(text) + 2*utf8.RuneLen(p.Open))
	sb.WriteRune(p.Open)
	sb.WriteString(text)
	sb.WriteRune(p.Close)
	return sb.String(), nil
}

// IsAnchor reports whether r is a registered anchor scalar.
func (a Alphabet) IsAnchor(r rune) bool {
	_, ok := a.marks[r]
	return ok
}

// IsOpen reports whether r opens a style.
func (a Alphabet) IsOpen(r rune) (bool, error) {
	m, ok := a.marks[r]
	if !ok {
		return false, fmt.Errorf("%w: %U", ErrUnknownAnchor, r)
	}
	return m.open, nil
}

// IsClose reports whether r closes a style.
func (a Alphabet) IsClose(r rune) (bool, error) {
	m, ok := a.marks[r]
	if !ok {
		return false, fmt.Errorf("%w: %U", ErrUnknownAnchor, r)
	}
	return !m.open, nil
}

// StyleOf returns the style r belongs to.
func (a Alphabet) StyleOf(r rune) (string, error) {
	m, ok := a.marks[r]
	if !ok {
		return "", fmt.Errorf("%w: %U", ErrUnknownAnchor, r)
	}
	return m.style, nil
}

// Index returns the byte index of the left-most anchor in text, or -1.
func (a Alphabet) Index(text string) int {
	return strings.IndexFunc(text, a.IsAnchor)
}

// Contains reports whether text holds any registered anchor.
func (a Alphabet) Contains(text string) bool {
	return a.Index(text) >= 0
}

// Strip removes every registered anchor from text.
func (a Alphabet) Strip(text string) string {
	if !a.Contains(text) {
		return text
	}
	return strings.Map(func(r rune) rune {
		if a.IsAnchor(r) {
			return -1
		}
		return r
	}, text)
}

// HasStyle reports whether text opens style anywhere.
func (a Alphabet) HasStyle(text, style string) bool {
	p, ok := a.pairs[style]
	if !ok {
		return false
	}
	return strings.ContainsRune(text, p.Open)
}

// Translate returns text with every anchor of style from rewritten to the
// corresponding anchor of style to.
func (a Alphabet) Translate(text, from, to string) (string, error) {
	src, err := a.Pair(from)
	if err != nil {
		return "", err
	}
	dst, err := a.Pair(to)
	if err != nil {
		return "", err
	}
	return strings.NewReplacer(
		string(src.Open), string(dst.Open),
		string(src.Close), string(dst.Close),
	).Replace(text), nil
}
