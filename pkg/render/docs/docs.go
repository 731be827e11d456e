// Package docs builds Google Docs batchUpdate requests from a document and
// publishes them.
//
// All text is inserted by one request at the start of the body. Style
// requests follow, addressing ranges in UTF-16 code units from index 1.
package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	gdocs "google.golang.org/api/docs/v1"

	"github.com/jmylchreest/reprint/pkg/anchor"
	"github.com/jmylchreest/reprint/pkg/render"
	"github.com/jmylchreest/reprint/pkg/richtext"
	"github.com/jmylchreest/reprint/pkg/segment"
)

// bodyStart is the first writable index of a document body.
const bodyStart = 1

// Renderer writes the batchUpdate request list as JSON.
type Renderer struct {
	segmenter *segment.Segmenter
}

var _ render.Renderer = (*Renderer)(nil)

// New returns a renderer decoding with a.
func New(a anchor.Alphabet) *Renderer {
	return &Renderer{segmenter: segment.New(a)}
}

// Name returns the destination name.
func (r *Renderer) Name() string {
	return render.DestinationDocs
}

// Render writes the batch request for doc to w. The metadata title is required.
func (r *Renderer) Render(ctx context.Context, w io.Writer, doc *richtext.Document, meta render.Metadata) error {
	reqs, err := r.Requests(ctx, doc, meta)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(&gdocs.BatchUpdateDocumentRequest{Requests: reqs}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// Requests decodes doc and returns its batch requests.
func (r *Renderer) Requests(ctx context.Context, doc *richtext.Document, meta render.Metadata) ([]*gdocs.Request, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := meta.Require(render.FieldTitle); err != nil {
		return nil, err
	}

	paras, err := r.segmenter.Paragraphs(doc)
	if err != nil {
		return nil, err
	}
	if err := render.CheckParagraphs(paras); err != nil {
		return nil, err
	}

	return Build(lineRuns(paras))
}

// lineRuns flattens paragraphs into runs, terminating each paragraph's last
// run with a newline. Paragraphs without runs are skipped.
func lineRuns(paras []segment.Paragraph) []segment.Run {
	var runs []segment.Run
	for _, p := range paras {
		if len(p.Runs) == 0 {
			continue
		}
		runs = append(runs, p.Runs...)
		runs[len(runs)-1].Text += "\n"
	}
	return runs
}

// Build returns the batch requests for runs: the text insert, the
// document-wide setup styles, per-run text styles, then paragraph styles
// with adjacent equal ranges merged.
func Build(runs []segment.Run) ([]*gdocs.Request, error) {
	var (
		text       strings.Builder
		textStyles []*gdocs.Request
		paraStyles []*paragraphRange
	)

	offset := int64(bodyStart)
	for i, run := range runs {
		if run.Text == "" {
			return nil, fmt.Errorf("run %d: %w: empty run", i, richtext.ErrTransformConfiguration)
		}
		start, end := offset, offset+utf16Len(run.Text)

		if req := textStyleRequest(run.TextStyles, start, end); req != nil {
			textStyles = append(textStyles, req)
		}
		if style, fields := paragraphStyle(run.ParagraphStyles); fields != "" {
			paraStyles = append(paraStyles, &paragraphRange{start: start, end: end, style: style, fields: fields})
		}

		text.WriteString(run.Text)
		offset = end
	}

	if text.Len() == 0 {
		return nil, nil
	}

	reqs := []*gdocs.Request{{
		InsertText: &gdocs.InsertTextRequest{
			Location: &gdocs.Location{Index: bodyStart},
			Text:     text.String(),
		},
	}}
	reqs = append(reqs, setupStyles(offset)...)
	reqs = append(reqs, textStyles...)
	for _, p := range mergeAdjacent(paraStyles) {
		reqs = append(reqs, p.request())
	}
	return reqs, nil
}

func utf16Len(s string) int64 {
	return int64(len(utf16.Encode([]rune(s))))
}

func pt(v float64) *gdocs.Dimension {
	return &gdocs.Dimension{Magnitude: v, Unit: "PT"}
}

func setupStyles(end int64) []*gdocs.Request {
	rng := &gdocs.Range{StartIndex: bodyStart, EndIndex: end}
	return []*gdocs.Request{
		{
			UpdateParagraphStyle: &gdocs.UpdateParagraphStyleRequest{
				Range: rng,
				ParagraphStyle: &gdocs.ParagraphStyle{
					NamedStyleType: "NORMAL_TEXT",
					Alignment:      "JUSTIFIED",
					LineSpacing:    115,
					SpaceBelow:     pt(12),
				},
				Fields: "namedStyleType,alignment,lineSpacing,spaceBelow",
			},
		},
		{
			UpdateTextStyle: &gdocs.UpdateTextStyleRequest{
				Range:     rng,
				TextStyle: &gdocs.TextStyle{FontSize: pt(12)},
				Fields:    "fontSize",
			},
		},
	}
}

func textStyleRequest(styles richtext.Styles, start, end int64) *gdocs.Request {
	ts := &gdocs.TextStyle{}
	var fields []string
	if styles.Has(richtext.StyleItalic) {
		ts.Italic = true
		fields = append(fields, "italic")
	}
	if styles.Has(richtext.StyleBold) {
		ts.Bold = true
		fields = append(fields, "bold")
	}
	if len(fields) == 0 {
		return nil
	}
	return &gdocs.Request{
		UpdateTextStyle: &gdocs.UpdateTextStyleRequest{
			Range:     &gdocs.Range{StartIndex: start, EndIndex: end},
			TextStyle: ts,
			Fields:    strings.Join(fields, ","),
		},
	}
}

var headingStyles = []struct {
	style string
	named string
}{
	{richtext.StyleHeading1, "HEADING_1"},
	{richtext.StyleHeading2, "HEADING_2"},
	{richtext.StyleHeading3, "HEADING_3"},
	{richtext.StyleHeading4, "HEADING_4"},
	{richtext.StyleHeading5, "HEADING_5"},
	{richtext.StyleHeading6, "HEADING_6"},
}

// paragraphStyle maps paragraph styles to a Docs paragraph style and its
// field mask. The mask is empty when nothing applies.
func paragraphStyle(styles richtext.Styles) (*gdocs.ParagraphStyle, string) {
	ps := &gdocs.ParagraphStyle{}
	var fields []string

	for _, h := range headingStyles {
		if styles.Has(h.style) {
			ps.NamedStyleType = h.named
			fields = append(fields, "namedStyleType")
			break
		}
	}
	if styles.Has(richtext.StyleBlockquote) {
		ps.IndentStart = pt(36)
		ps.IndentFirstLine = pt(36)
		fields = append(fields, "indentStart", "indentFirstLine")
	}
	switch {
	case styles.Has(richtext.StyleAlignRight):
		ps.Alignment = "END"
		fields = append(fields, "alignment")
	case styles.Has(richtext.StyleAlignCentre):
		ps.Alignment = "CENTER"
		fields = append(fields, "alignment")
	}

	return ps, strings.Join(fields, ",")
}

type paragraphRange struct {
	start, end int64
	style      *gdocs.ParagraphStyle
	fields     string
}

func (p *paragraphRange) request() *gdocs.Request {
	return &gdocs.Request{
		UpdateParagraphStyle: &gdocs.UpdateParagraphStyleRequest{
			Range:          &gdocs.Range{StartIndex: p.start, EndIndex: p.end},
			ParagraphStyle: p.style,
			Fields:         p.fields,
		},
	}
}

func (p *paragraphRange) sameStyle(o *paragraphRange) bool {
	if p.fields != o.fields {
		return false
	}
	a, b := p.style, o.style
	return a.NamedStyleType == b.NamedStyleType &&
		a.Alignment == b.Alignment &&
		(a.IndentStart == nil) == (b.IndentStart == nil)
}

// mergeAdjacent joins consecutive ranges with equal styles that touch or are
// separated by a single index.
func mergeAdjacent(ranges []*paragraphRange) []*paragraphRange {
	if len(ranges) == 0 {
		return nil
	}
	out := []*paragraphRange{ranges[0]}
	for _, r := range ranges[1:] {
		last := out[len(out)-1]
		if last.sameStyle(r) && r.start <= last.end+1 {
			last.end = r.end
			continue
		}
		out = append(out, r)
	}
	return out
}
