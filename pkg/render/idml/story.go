package idml

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"github.com/jmylchreest/reprint/pkg/richtext"
	"github.com/jmylchreest/reprint/pkg/segment"
)

const (
	packagingNS = "http://ns.adobe.com/AdobeInDesign/idml/1.0/packaging"
	domVersion  = "8.0"

	noCharacterStyle = "CharacterStyle/$ID/[No character style]"
	bodyTextStyle    = "ParagraphStyle/Body Text"
	titleStyle       = "ParagraphStyle/Title"
	bylineTracking   = "25"
)

// paragraphStyles maps entry styles to InDesign paragraph styles. The first
// style the entry carries wins; entries with none are body text.
var paragraphStyles = []struct {
	style   string
	applied string
}{
	{richtext.StyleBlockquote, "ParagraphStyle/Block Quote"},
	{richtext.StyleAlignRight, "ParagraphStyle/Byline"},
	{richtext.StyleHeading1, "ParagraphStyle/Subtitle"},
	{richtext.StyleHeading2, "ParagraphStyle/Subtitle"},
	{richtext.StyleHeading3, "ParagraphStyle/Subtitle"},
	{richtext.StyleHeading4, "ParagraphStyle/Subtitle"},
	{richtext.StyleHeading5, "ParagraphStyle/Subtitle"},
	{richtext.StyleHeading6, "ParagraphStyle/Subtitle"},
}

type storyFile struct {
	XMLName    xml.Name `xml:"idPkg:Story"`
	Namespace  string   `xml:"xmlns:idPkg,attr"`
	DOMVersion string   `xml:"DOMVersion,attr"`
	Story      story    `xml:"Story"`
}

type story struct {
	Self       string           `xml:"Self,attr"`
	Paragraphs []paragraphRange `xml:"ParagraphStyleRange"`
}

type paragraphRange struct {
	AppliedParagraphStyle string           `xml:"AppliedParagraphStyle,attr"`
	FirstLineIndent       string           `xml:"FirstLineIndent,attr,omitempty"`
	Justification         string           `xml:"Justification,attr,omitempty"`
	Ranges                []characterRange `xml:"CharacterStyleRange"`
	Breaks                []struct{}       `xml:"Br"`
}

type characterRange struct {
	AppliedCharacterStyle string `xml:"AppliedCharacterStyle,attr"`
	FontStyle             string `xml:"FontStyle,attr,omitempty"`
	AppliedFont           string `xml:"AppliedFont,attr,omitempty"`
	Position              string `xml:"Position,attr,omitempty"`
	Tracking              string `xml:"Tracking,attr,omitempty"`
	Content               string `xml:"Content"`
}

// charRange returns a character range with its quotes curled.
func charRange(text string) characterRange {
	return characterRange{AppliedCharacterStyle: noCharacterStyle, Content: CurlQuotes(text)}
}

// textRange applies the run's text styles.
func textRange(run segment.Run) characterRange {
	cr := charRange(run.Text)
	if run.HasTextStyle(richtext.StyleItalic) {
		cr.FontStyle = "Italic"
	}
	if run.HasTextStyle(richtext.StyleBold) {
		cr.AppliedFont = "EB Garamond Bold"
	}
	return cr
}

func appliedStyle(styles richtext.Styles) string {
	for _, ps := range paragraphStyles {
		if styles.Has(ps.style) {
			return ps.applied
		}
	}
	return bodyTextStyle
}

// bodyParagraph holds one decoded entry followed by a break.
func bodyParagraph(p segment.Paragraph) paragraphRange {
	pr := paragraphRange{AppliedParagraphStyle: appliedStyle(p.Styles), Breaks: make([]struct{}, 1)}
	for _, run := range p.Runs {
		pr.Ranges = append(pr.Ranges, textRange(run))
	}
	return pr
}

// byline is the centred publication and date line, followed by a blank line.
func byline(publication string, d Date) paragraphRange {
	tracked := func(text string) characterRange {
		cr := charRange(text)
		cr.Tracking = bylineTracking
		return cr
	}
	italic := func(text string) characterRange {
		cr := tracked(text)
		cr.FontStyle = "Italic"
		return cr
	}

	ranges := []characterRange{italic(publication), tracked("—")}
	if d.Day > 0 {
		suffix := tracked(d.Suffix())
		suffix.Position = "Superscript"
		ranges = append(ranges, tracked(strconv.Itoa(d.Day)), suffix, tracked(" "))
	}
	ranges = append(ranges, italic(d.Month), tracked(", "+strconv.Itoa(d.Year)+"."))

	return paragraphRange{
		AppliedParagraphStyle: bodyTextStyle,
		FirstLineIndent:       "0",
		Justification:         "CenterJustified",
		Ranges:                ranges,
		Breaks:                make([]struct{}, 2),
	}
}

func titleStory(self, title string) story {
	return story{Self: self, Paragraphs: []paragraphRange{{
		AppliedParagraphStyle: titleStyle,
		Ranges:                []characterRange{{AppliedCharacterStyle: noCharacterStyle, Content: title}},
	}}}
}

func bodyStory(self, publication string, d Date, paras []segment.Paragraph) story {
	s := story{Self: self, Paragraphs: make([]paragraphRange, 0, len(paras)+1)}
	s.Paragraphs = append(s.Paragraphs, byline(publication, d))
	for _, p := range paras {
		s.Paragraphs = append(s.Paragraphs, bodyParagraph(p))
	}
	return s
}

// marshalStory encodes s as a standalone story file.
func marshalStory(s story) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "\t")
	if err := enc.Encode(storyFile{Namespace: packagingNS, DOMVersion: domVersion, Story: s}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
