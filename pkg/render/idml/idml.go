// Package idml renders documents as InDesign Markup Language packages.
//
// The package holds a title story and a body story. The body opens with a
// byline naming the publication and date, followed by one paragraph per
// entry. Given a template package, every other part of the template is
// copied through and only the two stories are replaced.
package idml

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"

	"github.com/jmylchreest/reprint/pkg/anchor"
	"github.com/jmylchreest/reprint/pkg/render"
	"github.com/jmylchreest/reprint/pkg/richtext"
	"github.com/jmylchreest/reprint/pkg/segment"
)

// Package part names.
const (
	MimeType       = "application/vnd.adobe.indesign-idml-package"
	TitleStoryPath = "Stories/Story_title.xml"
	BodyStoryPath  = "Stories/Story_body.xml"
	designMapPath  = "designmap.xml"
	containerPath  = "META-INF/container.xml"
)

const designMap = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<?aid style="50" type="document" readerVersion="6.0" featureSet="257"?>
<Document xmlns:idPkg="` + packagingNS + `" DOMVersion="` + domVersion + `" Self="d">
	<idPkg:Story src="` + TitleStoryPath + `"/>
	<idPkg:Story src="` + BodyStoryPath + `"/>
</Document>
`

const container = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
	<rootfiles>
		<rootfile full-path="` + designMapPath + `" media-type="text/xml"/>
	</rootfiles>
</container>
`

// Renderer writes an IDML package.
type Renderer struct {
	segmenter *segment.Segmenter
	template  string
}

var _ render.Renderer = (*Renderer)(nil)

// Option configures a Renderer.
type Option func(*Renderer)

// WithTemplate builds packages from the IDML file at path. Empty keeps the
// built-in minimal package.
func WithTemplate(path string) Option {
	return func(r *Renderer) {
		r.template = path
	}
}

// New returns a renderer decoding with a.
func New(a anchor.Alphabet, opts ...Option) *Renderer {
	r := &Renderer{segmenter: segment.New(a)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the destination name.
func (r *Renderer) Name() string {
	return render.DestinationIDML
}

// Render writes the package for doc to w. Title, publication and date are
// required, and the date must parse with ParseDate.
func (r *Renderer) Render(ctx context.Context, w io.Writer, doc *richtext.Document, meta render.Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := meta.Require(render.FieldTitle, render.FieldPublication, render.FieldDate); err != nil {
		return err
	}
	date, err := ParseDate(meta.Date)
	if err != nil {
		return fmt.Errorf("%w: %w", richtext.ErrTransformConfiguration, err)
	}

	paras, err := r.segmenter.Paragraphs(doc)
	if err != nil {
		return err
	}
	if err := render.CheckParagraphs(paras); err != nil {
		return err
	}

	var tmpl *zip.Reader
	if r.template != "" {
		rc, err := zip.OpenReader(r.template)
		if err != nil {
			return fmt.Errorf("open idml template: %w", err)
		}
		defer func() { _ = rc.Close() }()
		tmpl = &rc.Reader
	}

	ids, err := storyIDs(tmpl)
	if err != nil {
		return err
	}
	stories := make(map[string][]byte, 2)
	if stories[TitleStoryPath], err = marshalStory(titleStory(ids[TitleStoryPath], meta.Title)); err != nil {
		return err
	}
	if stories[BodyStoryPath], err = marshalStory(bodyStory(ids[BodyStoryPath], meta.Publication, date, paras)); err != nil {
		return err
	}

	// Buffer so that nothing is written when packaging fails.
	var buf bytes.Buffer
	if tmpl != nil {
		err = fromTemplate(&buf, tmpl, stories)
	} else {
		err = minimal(&buf, stories)
	}
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// storyIDs returns the Self ids of the title and body stories. Without a
// template they are fixed; a template must carry both stories.
func storyIDs(tmpl *zip.Reader) (map[string]string, error) {
	ids := map[string]string{TitleStoryPath: "u_title", BodyStoryPath: "u_body"}
	if tmpl == nil {
		return ids, nil
	}

	for path := range ids {
		f, err := tmpl.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: idml template has no %s", richtext.ErrTransformConfiguration, path)
		}
		doc, err := xmlquery.Parse(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", path, err)
		}
		node := xmlquery.FindOne(doc, "//Story[@Self]")
		if node == nil {
			return nil, fmt.Errorf("%w: template %s has no Story", richtext.ErrTransformConfiguration, path)
		}
		ids[path] = node.SelectAttr("Self")
	}
	return ids, nil
}

// minimal writes a package holding only the two stories.
func minimal(w io.Writer, stories map[string][]byte) error {
	zw := zip.NewWriter(w)

	// mimetype must be first and stored
	mw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(mw, MimeType); err != nil {
		return err
	}

	parts := []struct {
		name string
		data []byte
	}{
		{containerPath, []byte(container)},
		{designMapPath, []byte(designMap)},
		{TitleStoryPath, stories[TitleStoryPath]},
		{BodyStoryPath, stories[BodyStoryPath]},
	}
	for _, p := range parts {
		pw, err := zw.Create(p.name)
		if err != nil {
			return err
		}
		if _, err := pw.Write(p.data); err != nil {
			return err
		}
	}
	return zw.Close()
}

// fromTemplate copies tmpl in order, replacing the stories.
func fromTemplate(w io.Writer, tmpl *zip.Reader, stories map[string][]byte) error {
	zw := zip.NewWriter(w)
	for _, f := range tmpl.File {
		data, ok := stories[f.Name]
		if !ok {
			if err := zw.Copy(f); err != nil {
				return fmt.Errorf("copy template %s: %w", f.Name, err)
			}
			continue
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified})
		if err != nil {
			return err
		}
		if _, err := fw.Write(data); err != nil {
			return err
		}
	}
	return zw.Close()
}
