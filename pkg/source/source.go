// Package source turns fetched pages into ingestion trees and metadata.
//
// A page is parsed once, its metadata read, then cleaned in place by a
// Profile until only the ingestion vocabulary remains under <body>.
package source

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/reprint/pkg/render"
	"github.com/jmylchreest/reprint/pkg/richtext"
)

// ErrNoBody indicates a document without a <body> element.
var ErrNoBody = errors.New("document has no body")

// Parse reads an HTML page.
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Body returns the page body as an ingestion tree.
func Body(doc *goquery.Document) (richtext.Node, error) {
	body := richtext.FromSelection(doc.Find("body").First())
	if body == nil {
		return nil, ErrNoBody
	}
	return body, nil
}

var spaces = regexp.MustCompile(`\s+`)

func collapse(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// Title returns the text of the first <title>, whitespace collapsed.
func Title(doc *goquery.Document) string {
	return collapse(doc.Find("title").First().Text())
}

var metaNames = []string{"description", "keywords", "author"}

// Meta returns the description, keywords and author meta tags that are set.
func Meta(doc *goquery.Document) map[string]string {
	out := make(map[string]string)
	for _, name := range metaNames {
		if v := metaContent(doc, "name", name); v != "" {
			out[name] = v
		}
	}
	return out
}

func metaContent(doc *goquery.Document, attr, key string) string {
	v, _ := doc.Find(fmt.Sprintf("meta[%s=%q]", attr, key)).First().Attr("content")
	return collapse(v)
}

// ExtractMetadata reads the title, the og:site_name publication and the date
// from meta[name=date] or article:published_time.
func ExtractMetadata(doc *goquery.Document) render.Metadata {
	meta := render.Metadata{
		Title:       Title(doc),
		Publication: metaContent(doc, "property", "og:site_name"),
		Date:        metaContent(doc, "name", "date"),
	}
	if meta.Date == "" {
		meta.Date = metaContent(doc, "property", "article:published_time")
	}
	return meta
}
