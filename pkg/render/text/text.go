// Package text renders documents as plain text, one entry per line.
package text

import (
	"context"
	"io"
	"strings"

	"github.com/jmylchreest/reprint/pkg/anchor"
	"github.com/jmylchreest/reprint/pkg/render"
	"github.com/jmylchreest/reprint/pkg/richtext"
	"github.com/jmylchreest/reprint/pkg/segment"
)

// Renderer writes anchor-free entry text joined by newlines.
type Renderer struct {
	segmenter *segment.Segmenter
}

var _ render.Renderer = (*Renderer)(nil)

// New returns a text renderer decoding with a.
func New(a anchor.Alphabet) *Renderer {
	return &Renderer{segmenter: segment.New(a)}
}

// Name returns the destination name.
func (r *Renderer) Name() string {
	return render.DestinationText
}

// Render writes doc to w. Metadata is not used.
func (r *Renderer) Render(ctx context.Context, w io.Writer, doc *richtext.Document, _ render.Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	paras, err := r.segmenter.Paragraphs(doc)
	if err != nil {
		return err
	}
	if err := render.CheckParagraphs(paras); err != nil {
		return err
	}

	lines := make([]string, len(paras))
	for i, p := range paras {
		lines[i] = p.Text()
	}

	_, err = io.WriteString(w, strings.Join(lines, "\n"))
	return err
}
