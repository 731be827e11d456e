// Package render defines the boundary between decoded documents and
// destination formats.
//
// Renderers consume a normalised document and its metadata. Before writing
// anything they must assert that no anchor scalar survived decoding; a
// leaked anchor aborts the render.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/reprint/pkg/anchor"
	"github.com/jmylchreest/reprint/pkg/richtext"
	"github.com/jmylchreest/reprint/pkg/segment"
)

// ErrLeakedAnchor indicates an anchor scalar reached renderer output.
var ErrLeakedAnchor = errors.New("leaked anchor")

// Renderer writes a document in a destination format.
type Renderer interface {
	// Render writes doc to w. Nothing is written when the document fails
	// validation or decoding.
	Render(ctx context.Context, w io.Writer, doc *richtext.Document, meta Metadata) error

	// Name returns the destination name for logging/debugging.
	Name() string
}

// CheckText fails when s holds any scalar from the anchor range.
func CheckText(s string) error {
	i := strings.IndexFunc(s, func(r rune) bool {
		return r >= anchor.RangeStart && r <= anchor.RangeEnd
	})
	if i < 0 {
		return nil
	}
	return fmt.Errorf("%w: %+q at byte %d", ErrLeakedAnchor, []rune(s[i:])[0], i)
}

// CheckRuns fails when any run's text holds an anchor.
func CheckRuns(runs []segment.Run) error {
	for i, r := range runs {
		if err := CheckText(r.Text); err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
	}
	return nil
}

// CheckParagraphs fails when any run in any paragraph holds an anchor.
func CheckParagraphs(paras []segment.Paragraph) error {
	for i, p := range paras {
		if err := CheckRuns(p.Runs); err != nil {
			return fmt.Errorf("paragraph %d: %w", i, err)
		}
	}
	return nil
}
