// Package output serializes decoded runs and paragraphs for the dump
// destinations.
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnsupportedFormat indicates an unknown dump format name.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format is a dump serialization.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatJSONL, FormatYAML}
}

// ParseFormat resolves a format name. Matching ignores case; "yml" and
// "ndjson" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Writer serializes a sequence of items. JSON and YAML writers buffer items
// and emit a single list on Close; JSONL writes each item as it arrives.
type Writer interface {
	Write(item any) error
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	compact bool
	indent  int
}

// WithCompact disables indentation for JSON output.
func WithCompact(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.compact = enabled
	}
}

// WithIndent sets the indentation width in spaces.
func WithIndent(n int) WriterOption {
	return func(c *writerConfig) {
		if n > 0 {
			c.indent = n
		}
	}
}

// NewWriter creates a writer for format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{indent: 2}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		indent := strings.Repeat(" ", cfg.indent)
		if cfg.compact {
			indent = ""
		}
		return &jsonWriter{w: w, indent: indent}, nil
	case FormatJSONL:
		return newJSONLWriter(w), nil
	case FormatYAML:
		return &yamlWriter{w: w, indent: cfg.indent}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// WriteAll writes every item to w and closes it.
func WriteAll[T any](w Writer, items []T) error {
	for _, item := range items {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return w.Close()
}
