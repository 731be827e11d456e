package source

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/reprint/pkg/render"
	"github.com/jmylchreest/reprint/pkg/richtext"
)

// ErrUnknownProfile indicates a site name with no profile.
var ErrUnknownProfile = errors.New("unknown source profile")

// Profile bundles the site-specific handling of a page: how it is cleaned,
// how its entries are adapted and where its metadata comes from.
type Profile struct {
	Name     string
	Clean    *Config
	Adaptors []richtext.Adaptor
	Metadata func(*goquery.Document) render.Metadata
}

// Prepare cleans doc in place with the profile's rules.
func (p Profile) Prepare(doc *goquery.Document) *Stats {
	return NewCleaner(p.Clean).Clean(doc)
}

// ReadMetadata returns the profile's metadata for doc. It must run before
// Prepare, which may remove the elements it reads.
func (p Profile) ReadMetadata(doc *goquery.Document) render.Metadata {
	if p.Metadata == nil {
		return ExtractMetadata(doc)
	}
	return p.Metadata(doc)
}

// Generic handles any page with the default cleaning rules.
func Generic() Profile {
	return Profile{
		Name:     "generic",
		Clean:    DefaultConfig(),
		Metadata: ExtractMetadata,
	}
}

var profiles = map[string]func() Profile{
	"":                 Generic,
	"generic":          Generic,
	"marxists":         Marxists,
	"marxists.org":     Marxists,
	"www.marxists.org": Marxists,
}

// Lookup resolves a profile name or alias, ignoring case.
func Lookup(name string) (Profile, error) {
	fn, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return fn(), nil
}

// Detect picks a profile from a page URL's host, falling back to Generic.
func Detect(rawURL string) Profile {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Generic()
	}
	host := strings.ToLower(u.Hostname())
	if host == "marxists.org" || strings.HasSuffix(host, ".marxists.org") {
		return Marxists()
	}
	return Generic()
}
