package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDestination indicates a destination name with no renderer.
var ErrUnknownDestination = errors.New("unknown destination")

// Destination names.
const (
	DestinationDocs       = "docs"
	DestinationHTML       = "html"
	DestinationText       = "text"
	DestinationRuns       = "runs"
	DestinationParagraphs = "paragraphs"
	DestinationIDML       = "idml"
)

var destinations = map[string]string{
	"docs":        DestinationDocs,
	"google":      DestinationDocs,
	"google docs": DestinationDocs,
	"google-docs": DestinationDocs,
	"google_docs": DestinationDocs,
	"googledocs":  DestinationDocs,

	"html":       DestinationHTML,
	"wordpress":  DestinationHTML,
	"word press": DestinationHTML,
	"word-press": DestinationHTML,
	"word_press": DestinationHTML,
	"wp":         DestinationHTML,
	"cartlann":   DestinationHTML,

	"text":      DestinationText,
	"txt":       DestinationText,
	"text file": DestinationText,
	"file":      DestinationText,

	"runs":       DestinationRuns,
	"paragraphs": DestinationParagraphs,

	"idml":      DestinationIDML,
	"indesign":  DestinationIDML,
	"in design": DestinationIDML,
	"in-design": DestinationIDML,
}

// Lookup resolves a destination name or alias, ignoring case and
// surrounding space.
func Lookup(name string) (string, error) {
	d, ok := destinations[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDestination, name)
	}
	return d, nil
}

// Destinations returns the canonical destination names.
func Destinations() []string {
	return []string{DestinationDocs, DestinationHTML, DestinationText, DestinationRuns, DestinationParagraphs, DestinationIDML}
}
