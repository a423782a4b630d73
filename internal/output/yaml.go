package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Mapper is implemented by records that expose their JSON shape as a map.
type Mapper interface {
	ToMap() (map[string]any, error)
}

// YAMLWriter writes YAML output. Records are rendered with their JSON
// field names so both formats agree on keys and nulls.
type YAMLWriter struct {
	w     *bufio.Writer
	items []any
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write buffers a single record.
func (w *YAMLWriter) Write(data any) error {
	plain, err := toPlain(data)
	if err != nil {
		return fmt.Errorf("preparing YAML: %w", err)
	}
	w.items = append(w.items, plain)
	return nil
}

// Flush writes the buffered records as YAML and resets the buffer.
func (w *YAMLWriter) Flush() error {
	if len(w.items) == 0 {
		return w.w.Flush()
	}

	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)

	var err error
	if len(w.items) == 1 {
		err = encoder.Encode(w.items[0])
	} else {
		err = encoder.Encode(w.items)
	}
	if err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	w.items = w.items[:0]

	return w.w.Flush()
}

// Close flushes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}

// toPlain converts data into maps and slices keyed by JSON names.
func toPlain(data any) (any, error) {
	if m, ok := data.(Mapper); ok {
		return m.ToMap()
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var plain any
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, err
	}
	return plain, nil
}
