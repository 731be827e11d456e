package source

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/reprint/pkg/anchor"
)

// containers mirror the tags ingestion descends into.
var containers = map[string]bool{"body": true, "div": true, "blockquote": true}

// Cleaner rewrites a parsed page in place.
type Cleaner struct {
	config *Config
}

// NewCleaner returns a cleaner for config. A nil config uses DefaultConfig.
func NewCleaner(config *Config) *Cleaner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Cleaner{config: config}
}

// Name returns the cleaner name for logging.
func (c *Cleaner) Name() string {
	return "vocabulary"
}

// Clean rewrites the body of doc and reports what changed.
// Order matters: removals first, then renames from the outside in.
func (c *Cleaner) Clean(doc *goquery.Document) *Stats {
	start := time.Now()
	stats := NewStats()
	body := doc.Find("body")

	for _, tag := range c.config.RemoveTags {
		body.Find(tag).Each(func(_ int, s *goquery.Selection) {
			stats.RecordRemoval(tag)
			s.Remove()
		})
	}
	for _, sel := range c.config.RemoveSelectors {
		matched := body.Find(sel)
		if n := matched.Length(); n > 0 {
			stats.RecordSelectorMatch(sel, n)
			matched.Remove()
		}
	}

	c.stripReserved(body, stats)
	c.renameContainers(body, stats)
	c.renameBlocks(body, stats)
	c.unwrapInline(body, stats)
	c.removeStrayBreaks(body, stats)
	c.cleanAttributes(body, stats)

	stats.Duration = time.Since(start)
	return stats
}

// stripReserved drops anchor-range scalars from page text, such as the
// symbol-font bullets of word processor exports, so that only ingestion
// writes anchors.
func (c *Cleaner) stripReserved(body *goquery.Selection, stats *Stats) {
	drop := func(r rune) rune {
		if r >= anchor.RangeStart && r <= anchor.RangeEnd {
			stats.ReservedRemoved++
			return -1
		}
		return r
	}
	for _, root := range body.Nodes {
		for n := range root.Descendants() {
			if n.Type == html.TextNode {
				n.Data = strings.Map(drop, n.Data)
			}
		}
	}
}

func (c *Cleaner) renameContainers(body *goquery.Selection, stats *Stats) {
	for _, tag := range c.config.ContainerTags {
		body.Find(tag).Each(func(_ int, s *goquery.Selection) {
			rename(s.Nodes[0], "div")
			stats.RecordRename(tag)
		})
	}
}

func (c *Cleaner) renameBlocks(body *goquery.Selection, stats *Stats) {
	blocks := set(c.config.BlockTags)
	body.Find("*").Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		if blocks[n.Data] && atBlockLevel(n) {
			stats.RecordRename(n.Data)
			rename(n, "p")
		}
	})
}

func (c *Cleaner) unwrapInline(body *goquery.Selection, stats *Stats) {
	inline := set(c.config.InlineTags)
	body.Find("*").Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		if !inline[n.Data] || atBlockLevel(n) {
			return
		}
		if s.Contents().Length() == 0 {
			s.Remove()
		} else {
			s.Contents().Unwrap()
		}
		stats.ElementsUnwrapped++
	})
}

// removeStrayBreaks drops <br> between blocks; inside an entry it is a line break.
func (c *Cleaner) removeStrayBreaks(body *goquery.Selection, stats *Stats) {
	body.Find("br").Each(func(_ int, s *goquery.Selection) {
		if atBlockLevel(s.Nodes[0]) {
			stats.RecordRemoval("br")
			s.Remove()
		}
	})
}

func (c *Cleaner) cleanAttributes(body *goquery.Selection, stats *Stats) {
	keep := set(c.config.KeepAttributes)
	strip := c.config.StripClasses

	body.Find("*").Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if keep[a.Key] {
				kept = append(kept, a)
				continue
			}
			stats.AttributesRemoved++
		}
		n.Attr = kept

		for _, class := range strip {
			if s.HasClass(class) {
				s.RemoveClass(class)
				stats.ClassesRemoved++
			}
		}
		if v, ok := s.Attr("class"); ok && strings.TrimSpace(v) == "" {
			s.RemoveAttr("class")
		}
	})
}

func atBlockLevel(n *html.Node) bool {
	return n.Parent != nil && n.Parent.Type == html.ElementNode && containers[n.Parent.Data]
}

func rename(n *html.Node, tag string) {
	n.Data = tag
	n.DataAtom = atom.Lookup([]byte(tag))
}

func set(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}
