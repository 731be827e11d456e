package source

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jmylchreest/reprint/pkg/render"
	"github.com/jmylchreest/reprint/pkg/richtext"
)

// Marxists handles pages from the Marxists Internet Archive.
func Marxists() Profile {
	return Profile{
		Name: "marxists",
		Clean: DefaultConfig().With(&Config{
			RemoveSelectors: []string{"p.toplink", "p.link", "p.updat", "p.information", "p.footer"},
			StripClasses:    []string{"fst"},
		}),
		Adaptors: []richtext.Adaptor{alignAuthor},
		Metadata: marxistsMetadata,
	}
}

// alignAuthor right-aligns the author byline.
func alignAuthor(rt *richtext.RichText) {
	el, ok := rt.Source.(*richtext.Element)
	if !ok || !el.HasClass("author") {
		return
	}
	rt.ParagraphStyles.Add(richtext.StyleAlignRight)
}

// marxistsMetadata prefers the "First Published" line of the information
// block over the page's meta tags.
func marxistsMetadata(doc *goquery.Document) render.Metadata {
	meta := ExtractMetadata(doc)
	info := infoFields(doc)

	if published, ok := info["first published"]; ok {
		pub, date := splitPublished(published)
		meta = render.Metadata{Title: meta.Title, Publication: pub, Date: date}.Merge(meta)
	}
	if meta.Publication == "" {
		meta.Publication = "Marxists Internet Archive"
	}
	return meta
}

// infoFields reads "Label: value" lines from the information block, keyed by
// the lowercased label.
func infoFields(doc *goquery.Document) map[string]string {
	out := make(map[string]string)
	doc.Find("p.information span.info").Each(func(_ int, s *goquery.Selection) {
		label := strings.ToLower(strings.TrimSuffix(collapse(s.Text()), ":"))

		var sb strings.Builder
		for n := s.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
			if n.Type == html.ElementNode && (n.Data == "br" || hasClass(n, "info")) {
				break
			}
			sb.WriteString(goquery.NewDocumentFromNode(n).Text())
		}
		if v := strings.TrimSuffix(collapse(sb.String()), "."); v != "" {
			out[label] = v
		}
	})
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(" "+a.Val+" ", " "+class+" ") {
			return true
		}
	}
	return false
}

// splitPublished splits "The Harp, June 1908" into a publication and a date.
// The last comma-separated part is the date when it holds a digit.
func splitPublished(v string) (publication, date string) {
	i := strings.LastIndex(v, ",")
	last := v[i+1:]
	if !strings.ContainsFunc(last, unicode.IsDigit) {
		return v, ""
	}
	if i < 0 {
		return "", strings.TrimSpace(last)
	}
	return strings.TrimSpace(v[:i]), strings.TrimSpace(last)
}
