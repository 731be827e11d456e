package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

type yamlWriter struct {
	w      io.Writer
	indent int
	items  []any
}

func (w *yamlWriter) Write(item any) error {
	w.items = append(w.items, item)
	return nil
}

// Close writes the buffered items as one sequence.
func (w *yamlWriter) Close() error {
	items := w.items
	if items == nil {
		items = []any{}
	}
	w.items = nil

	enc := yaml.NewEncoder(w.w)
	enc.SetIndent(w.indent)
	if err := enc.Encode(items); err != nil {
		return err
	}
	return enc.Close()
}
