package reprint

import (
	"github.com/jmylchreest/reprint/pkg/anchor"
	"github.com/jmylchreest/reprint/pkg/render"
	"github.com/jmylchreest/reprint/pkg/render/docs"
	"github.com/jmylchreest/reprint/pkg/render/dump"
	"github.com/jmylchreest/reprint/pkg/render/idml"
	"github.com/jmylchreest/reprint/pkg/render/text"
	"github.com/jmylchreest/reprint/pkg/render/wordpress"
)

// NewRenderer returns the renderer for a destination name or alias.
// format applies to the runs and paragraphs destinations. The idml
// destination uses the built-in package layout.
func NewRenderer(name string, a anchor.Alphabet, format DumpFormat) (render.Renderer, error) {
	return newRenderer(name, a, format, "")
}

func newRenderer(name string, a anchor.Alphabet, format DumpFormat, idmlTemplate string) (render.Renderer, error) {
	dest, err := render.Lookup(name)
	if err != nil {
		return nil, err
	}

	switch dest {
	case render.DestinationDocs:
		return docs.New(a), nil
	case render.DestinationHTML:
		return wordpress.New(a), nil
	case render.DestinationRuns:
		return dump.Runs(a, format), nil
	case render.DestinationParagraphs:
		return dump.Paragraphs(a, format), nil
	case render.DestinationIDML:
		return idml.New(a, idml.WithTemplate(idmlTemplate)), nil
	default:
		return text.New(a), nil
	}
}

// Renderer returns the renderer for a destination using the configured
// alphabet, dump format and IDML template.
func (r *Reprint) Renderer(name string) (render.Renderer, error) {
	return newRenderer(name, r.config.Alphabet, r.config.DumpFormat, r.config.IDMLTemplate)
}
