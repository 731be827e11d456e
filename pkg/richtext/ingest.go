package richtext

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/reprint/pkg/anchor"
)

// containers group children and pass their paragraph style down.
var containers = map[string]bool{
	"body":       true,
	"div":        true,
	"blockquote": true,
}

// paragraphStyleTags maps block tags to their paragraph style. Tags mapped to
// "" are recognised but contribute nothing.
var paragraphStyleTags = map[string]string{
	"body":       "",
	"div":        "",
	"p":          "",
	"hr":         "",
	"em":         "",
	"i":          "",
	"strong":     "",
	"b":          "",
	"h1":         StyleHeading1,
	"h2":         StyleHeading2,
	"h3":         StyleHeading3,
	"h4":         StyleHeading4,
	"h5":         StyleHeading5,
	"h6":         StyleHeading6,
	"blockquote": StyleBlockquote,
}

// textStyleTags maps inline tags to their text style.
var textStyleTags = map[string]string{
	"em":     StyleItalic,
	"i":      StyleItalic,
	"strong": StyleBold,
	"b":      StyleBold,
}

// Adaptor adjusts an entry after ingestion, e.g. to add a paragraph style
// derived from the source element's classes.
type Adaptor func(*RichText)

// Ingester flattens an ingestion tree into a Document.
type Ingester struct {
	alphabet anchor.Alphabet
	adaptors []Adaptor
}

// NewIngester returns an ingester wrapping inline styles with a's anchors.
func NewIngester(a anchor.Alphabet, adaptors ...Adaptor) *Ingester {
	return &Ingester{alphabet: a, adaptors: adaptors}
}

// FromNode walks root depth-first and returns one entry per leaf block.
// Container elements (body, div, blockquote) only contribute inherited
// paragraph styles; every other element or text leaf they hold becomes an entry.
func (in *Ingester) FromNode(root Node) (*Document, error) {
	doc := &Document{}
	if root == nil {
		return doc, nil
	}

	if err := in.walk(root, NewStyles(), doc); err != nil {
		return nil, err
	}

	for _, rt := range doc.Texts {
		for _, adapt := range in.adaptors {
			adapt(rt)
		}
	}

	return doc, nil
}

func (in *Ingester) walk(n Node, inherited Styles, doc *Document) error {
	if el, ok := n.(*Element); ok && containers[el.Tag] {
		styles, err := paragraphStyles(el, inherited)
		if err != nil {
			return err
		}
		for _, child := range el.Children {
			if err := in.walk(child, styles, doc); err != nil {
				return err
			}
		}
		return nil
	}

	rt, err := in.entry(n, inherited)
	if err != nil {
		return err
	}
	doc.Texts = append(doc.Texts, rt)
	return nil
}

func (in *Ingester) entry(n Node, inherited Styles) (*RichText, error) {
	switch n := n.(type) {
	case *TextLeaf:
		return New(n, n.Value, inherited), nil
	case *Element:
		styles, err := paragraphStyles(n, inherited)
		if err != nil {
			return nil, err
		}
		text, err := in.styledText(n)
		if err != nil {
			return nil, err
		}
		// An inline tag standing alone at block level keeps its own style.
		if style, ok := textStyleTags[n.Tag]; ok {
			if text, err = in.alphabet.Wrap(text, style); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrTransformConfiguration, err)
			}
		}
		return &RichText{Source: n, Text: text, ParagraphStyles: styles}, nil
	default:
		return nil, fmt.Errorf("%w: node %T", ErrUnrecognizedTag, n)
	}
}

// styledText concatenates the element's children, wrapping inline-styled
// children in their anchors. Nested markup inside a styled child is flattened.
func (in *Ingester) styledText(el *Element) (string, error) {
	var sb strings.Builder
	for _, c := range el.Children {
		switch c := c.(type) {
		case *TextLeaf:
			sb.WriteString(c.Value)
		case *Element:
			if c.Tag == "br" {
				sb.WriteByte('\n')
				continue
			}
			style, ok := textStyleTags[c.Tag]
			if !ok {
				sb.WriteString(c.Text())
				continue
			}
			wrapped, err := in.alphabet.Wrap(c.Text(), style)
			if err != nil {
				return "", fmt.Errorf("%w: %v", ErrTransformConfiguration, err)
			}
			sb.WriteString(wrapped)
		}
	}
	return sb.String(), nil
}

// paragraphStyles returns inherited plus el's own paragraph style.
func paragraphStyles(el *Element, inherited Styles) (Styles, error) {
	style, ok := paragraphStyleTags[el.Tag]
	if !ok {
		return nil, fmt.Errorf("%w: <%s>", ErrUnrecognizedTag, el.Tag)
	}
	styles := inherited.Clone()
	if style != "" {
		styles.Add(style)
	}
	return styles, nil
}
