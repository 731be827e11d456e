package output

import (
	"bufio"
	"encoding/json"
	"io"
)

type jsonWriter struct {
	w      io.Writer
	indent string
	items  []any
}

func (w *jsonWriter) Write(item any) error {
	w.items = append(w.items, item)
	return nil
}

// Close writes the buffered items as one array, empty when nothing was written.
func (w *jsonWriter) Close() error {
	items := w.items
	if items == nil {
		items = []any{}
	}
	w.items = nil

	enc := json.NewEncoder(w.w)
	enc.SetEscapeHTML(false)
	if w.indent != "" {
		enc.SetIndent("", w.indent)
	}
	return enc.Encode(items)
}

type jsonlWriter struct {
	buf *bufio.Writer
	enc *json.Encoder
}

func newJSONLWriter(w io.Writer) *jsonlWriter {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &jsonlWriter{buf: buf, enc: enc}
}

func (w *jsonlWriter) Write(item any) error {
	if err := w.enc.Encode(item); err != nil {
		return err
	}
	return w.buf.Flush()
}

func (w *jsonlWriter) Close() error {
	return w.buf.Flush()
}
