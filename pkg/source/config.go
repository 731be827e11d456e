package source

// Config defines how a page is reduced to the ingestion vocabulary.
type Config struct {
	// RemoveTags are deleted with their contents.
	RemoveTags []string `json:"remove_tags" yaml:"remove_tags"`

	// RemoveSelectors are CSS selectors deleted with their contents.
	RemoveSelectors []string `json:"remove_selectors" yaml:"remove_selectors"`

	// ContainerTags are renamed to <div> so their children become entries.
	ContainerTags []string `json:"container_tags" yaml:"container_tags"`

	// BlockTags are renamed to <p> when they sit directly in a container.
	BlockTags []string `json:"block_tags" yaml:"block_tags"`

	// InlineTags are unwrapped, keeping their children, when they sit inside
	// an entry.
	InlineTags []string `json:"inline_tags" yaml:"inline_tags"`

	// StripClasses are class names removed from every element.
	StripClasses []string `json:"strip_classes" yaml:"strip_classes"`

	// KeepAttributes are the only attributes left on elements.
	KeepAttributes []string `json:"keep_attributes" yaml:"keep_attributes"`
}

// DefaultConfig returns the cleaning rules shared by every profile.
func DefaultConfig() *Config {
	return &Config{
		RemoveTags: []string{
			"script", "style", "noscript", "template",
			"iframe", "object", "embed", "svg", "canvas",
			"img", "picture", "video", "audio", "map",
			"form", "input", "button", "select", "textarea",
			"nav", "link", "meta",
		},
		RemoveSelectors: []string{
			"[hidden]",
			"[aria-hidden='true']",
		},
		ContainerTags: []string{
			"main", "article", "section", "header", "footer", "aside",
			"center", "figure", "ul", "ol", "dl",
			"table", "thead", "tbody", "tfoot", "tr",
		},
		BlockTags: []string{
			"a", "span", "font", "small", "big", "u", "cite", "code",
			"li", "dt", "dd", "td", "th", "caption", "figcaption",
			"pre", "address", "abbr", "q", "s", "mark", "time",
			"sup", "sub", "ins", "del",
		},
		InlineTags: []string{
			"a", "span", "font", "small", "big", "u", "cite", "code",
			"abbr", "q", "s", "mark", "time", "sup", "sub", "ins", "del",
		},
		KeepAttributes: []string{"class"},
	}
}

// With returns a copy of c extended by other's lists.
func (c *Config) With(other *Config) *Config {
	if other == nil {
		return c
	}
	join := func(a, b []string) []string {
		return append(append([]string(nil), a...), b...)
	}
	return &Config{
		RemoveTags:      join(c.RemoveTags, other.RemoveTags),
		RemoveSelectors: join(c.RemoveSelectors, other.RemoveSelectors),
		ContainerTags:   join(c.ContainerTags, other.ContainerTags),
		BlockTags:       join(c.BlockTags, other.BlockTags),
		InlineTags:      join(c.InlineTags, other.InlineTags),
		StripClasses:    join(c.StripClasses, other.StripClasses),
		KeepAttributes:  join(c.KeepAttributes, other.KeepAttributes),
	}
}
