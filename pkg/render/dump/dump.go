// Package dump writes the decoded run or paragraph stream of a document as
// JSON, JSONL or YAML. It exposes exactly what the destination renderers
// consume.
package dump

import (
	"context"
	"io"

	"github.com/jmylchreest/reprint/internal/output"
	"github.com/jmylchreest/reprint/pkg/anchor"
	"github.com/jmylchreest/reprint/pkg/render"
	"github.com/jmylchreest/reprint/pkg/richtext"
	"github.com/jmylchreest/reprint/pkg/segment"
)

// Renderer dumps runs or paragraphs.
type Renderer struct {
	segmenter  *segment.Segmenter
	paragraphs bool
	format     output.Format
}

var _ render.Renderer = (*Renderer)(nil)

// Runs returns a renderer dumping the flat run stream.
func Runs(a anchor.Alphabet, format output.Format) *Renderer {
	return &Renderer{segmenter: segment.New(a), format: format}
}

// Paragraphs returns a renderer dumping runs grouped per entry.
func Paragraphs(a anchor.Alphabet, format output.Format) *Renderer {
	return &Renderer{segmenter: segment.New(a), paragraphs: true, format: format}
}

// Name returns the destination name.
func (r *Renderer) Name() string {
	if r.paragraphs {
		return render.DestinationParagraphs
	}
	return render.DestinationRuns
}

// Render decodes doc and writes the stream to w. Metadata is not used.
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

	ow, err := output.NewWriter(w, r.format)
	if err != nil {
		return err
	}
	if r.paragraphs {
		return output.WriteAll(ow, paras)
	}

	var runs []segment.Run
	for _, p := range paras {
		runs = append(runs, p.Runs...)
	}
	return output.WriteAll(ow, runs)
}
