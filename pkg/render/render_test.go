package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmylchreest/reprint/pkg/richtext"
	"github.com/jmylchreest/reprint/pkg/segment"
)

func TestCheckText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"plain", "plain text", false},
		{"empty", "", false},
		{"punctuation", "“quoted” — ok", false},
		{"italic_open", "a\uE000b", true},
		{"bold_close", "b\uE003", true},
		{"unregistered_in_range", "\uE123", true},
		{"range_end", "\uF8FF", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckText(tt.text)
			if tt.wantErr != (err != nil) {
				t.Fatalf("CheckText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrLeakedAnchor) {
				t.Errorf("CheckText() error = %v, want ErrLeakedAnchor", err)
			}
		})
	}
}

func TestCheckParagraphs(t *testing.T) {
	clean := []segment.Paragraph{{Runs: []segment.Run{{Text: "a"}, {Text: "b"}}}}
	if err := CheckParagraphs(clean); err != nil {
		t.Errorf("CheckParagraphs(clean) error = %v", err)
	}

	leaked := append(clean, segment.Paragraph{Runs: []segment.Run{{Text: "ok"}, {Text: "x\uE001"}}})
	err := CheckParagraphs(leaked)
	if !errors.Is(err, ErrLeakedAnchor) {
		t.Fatalf("CheckParagraphs(leaked) error = %v, want ErrLeakedAnchor", err)
	}
	if !strings.Contains(err.Error(), "paragraph 1") || !strings.Contains(err.Error(), "run 1") {
		t.Errorf("error %q should locate the leak", err)
	}
}

func TestMetadata_Require(t *testing.T) {
	full := Metadata{Title: "T", Publication: "P", Date: "2024-01-01"}

	tests := []struct {
		name    string
		meta    Metadata
		fields  []string
		wantErr string
	}{
		{"nothing_required", Metadata{}, nil, ""},
		{"all_present", full, []string{FieldTitle, FieldPublication, FieldDate}, ""},
		{"title_present", Metadata{Title: "T"}, []string{FieldTitle}, ""},
		{"title_missing", Metadata{Date: "d"}, []string{FieldTitle}, "missing metadata title"},
		{"several_missing", Metadata{Title: "T"}, []string{FieldDate, FieldTitle, FieldPublication}, "missing metadata date, publication"},
		{"unknown_field", full, []string{"author"}, `unknown metadata field "author"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.meta.Require(tt.fields...)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Require() error = %v", err)
				}
				return
			}
			if !errors.Is(err, richtext.ErrTransformConfiguration) {
				t.Fatalf("Require() error = %v, want ErrTransformConfiguration", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Require() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestMetadata_Merge(t *testing.T) {
	m := Metadata{Title: "Mine"}.Merge(Metadata{Title: "Theirs", Publication: "Pub"})

	if m.Title != "Mine" || m.Publication != "Pub" || m.Date != "" {
		t.Errorf("Merge() = %+v", m)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"google", DestinationDocs},
		{"Google Docs", DestinationDocs},
		{"google_docs", DestinationDocs},
		{"wp", DestinationHTML},
		{"Word-Press", DestinationHTML},
		{"cartlann", DestinationHTML},
		{" txt ", DestinationText},
		{"text file", DestinationText},
		{"runs", DestinationRuns},
		{"paragraphs", DestinationParagraphs},
		{"idml", DestinationIDML},
		{"InDesign", DestinationIDML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	if _, err := Lookup("docx"); !errors.Is(err, ErrUnknownDestination) {
		t.Errorf("Lookup(docx) error = %v, want ErrUnknownDestination", err)
	}

	for _, d := range Destinations() {
		if got, err := Lookup(d); err != nil || got != d {
			t.Errorf("Lookup(%q) = %q, %v; canonical names must resolve to themselves", d, got, err)
		}
	}
}
