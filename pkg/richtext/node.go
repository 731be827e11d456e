package richtext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node is an ingestion tree node: either an *Element or a *TextLeaf.
type Node interface {
	// Text returns the concatenated text of the node and its descendants.
	Text() string

	node()
}

// Element is a tagged node with ordered children.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []Node
}

// TextLeaf is a literal run of text.
type TextLeaf struct {
	Value string
}

func (*Element) node()  {}
func (*TextLeaf) node() {}

// Text returns the concatenated text of all descendant leaves.
func (e *Element) Text() string {
	var sb strings.Builder
	e.writeText(&sb)
	return sb.String()
}

func (e *Element) writeText(sb *strings.Builder) {
	for _, c := range e.Children {
		switch n := c.(type) {
		case *Element:
			n.writeText(sb)
		case *TextLeaf:
			sb.WriteString(n.Value)
		}
	}
}

// Text returns the leaf value.
func (t *TextLeaf) Text() string {
	return t.Value
}

// Attr returns the named attribute.
func (e *Element) Attr(key string) (string, bool) {
	v, ok := e.Attrs[key]
	return v, ok
}

// HasClass reports whether the class attribute lists class.
func (e *Element) HasClass(class string) bool {
	for _, c := range strings.Fields(e.Attrs["class"]) {
		if c == class {
			return true
		}
	}
	return false
}

// El builds an element. Handy for tests and hand-built trees.
func El(tag string, children ...Node) *Element {
	return &Element{Tag: tag, Children: children}
}

// Txt builds a text leaf.
func Txt(value string) *TextLeaf {
	return &TextLeaf{Value: value}
}

// FromHTML converts a parsed HTML node into an ingestion tree.
// Comments, doctypes and raw document wrappers are dropped; a document node
// yields its first element child. It returns nil when nothing convertible remains.
func FromHTML(n *html.Node) Node {
	if n == nil {
		return nil
	}

	switch n.Type {
	case html.TextNode:
		return &TextLeaf{Value: n.Data}
	case html.ElementNode:
		el := &Element{Tag: strings.ToLower(n.Data)}
		if len(n.Attr) > 0 {
			el.Attrs = make(map[string]string, len(n.Attr))
			for _, a := range n.Attr {
				el.Attrs[a.Key] = a.Val
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := FromHTML(c); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				return FromHTML(c)
			}
		}
	}

	return nil
}

// FromSelection converts the first node of a goquery selection.
func FromSelection(s *goquery.Selection) Node {
	if s == nil || s.Length() == 0 {
		return nil
	}
	return FromHTML(s.Get(0))
}
