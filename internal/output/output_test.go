package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type item struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{" JSON ", FormatJSON, false},
		{"jsonl", FormatJSONL, false},
		{"ndjson", FormatJSONL, false},
		{"yml", FormatYAML, false},
		{"YAML", FormatYAML, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestNewWriter_Unsupported(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, Format("csv")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("NewWriter() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestJSON_AlwaysArray(t *testing.T) {
	tests := []struct {
		name  string
		items []item
		want  int
	}{
		{"empty", nil, 0},
		{"single", []item{{"a", 1}}, 1},
		{"many", []item{{"a", 1}, {"b", 2}, {"c", 3}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, FormatJSON)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			if err := WriteAll(w, tt.items); err != nil {
				t.Fatalf("WriteAll() error = %v", err)
			}

			var got []item
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("output is not an array: %v\n%s", err, buf.String())
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestJSON_Formatting(t *testing.T) {
	var pretty, compact bytes.Buffer
	for buf, opts := range map[*bytes.Buffer][]WriterOption{
		&pretty:  {WithIndent(4)},
		&compact: {WithCompact(true)},
	} {
		w, err := NewWriter(buf, FormatJSON, opts...)
		if err != nil {
			t.Fatal(err)
		}
		if err := WriteAll(w, []item{{"<a>", 1}}); err != nil {
			t.Fatal(err)
		}
	}

	if !strings.Contains(pretty.String(), "\n        \"name\"") {
		t.Errorf("indented output = %q", pretty.String())
	}
	if got := compact.String(); got != "[{\"name\":\"<a>\",\"value\":1}]\n" {
		t.Errorf("compact output = %q", got)
	}
}

func TestJSONL(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatJSONL)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Write(item{"a", 1}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("JSONL should write each item immediately")
	}
	if err := WriteAll(w, []item{{"b", 2}}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	var got item
	if err := json.Unmarshal([]byte(lines[1]), &got); err != nil || got.Name != "b" {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestYAML(t *testing.T) {
	tests := []struct {
		name  string
		items []item
	}{
		{"empty", nil},
		{"single", []item{{"a", 1}}},
		{"many", []item{{"a", 1}, {"b", 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, FormatYAML)
			if err != nil {
				t.Fatal(err)
			}
			if err := WriteAll(w, tt.items); err != nil {
				t.Fatalf("WriteAll() error = %v", err)
			}

			var got []item
			if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("output is not a sequence: %v\n%s", err, buf.String())
			}
			if len(got) != len(tt.items) {
				t.Errorf("len = %d, want %d", len(got), len(tt.items))
			}
		})
	}
}
