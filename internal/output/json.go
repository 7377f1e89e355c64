package output

import (
	"encoding/json"
	"io"
	"iter"

	"github.com/nmelo/tabcat/internal/table"
)

// JSONFormatter writes one JSON object per row (JSON lines).
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON-lines formatter.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Format streams rows as newline-delimited JSON objects. Integer cells
// become JSON numbers, string cells JSON strings; columns missing from a
// row are omitted from its object.
func (f *JSONFormatter) Format(columns []string, rows iter.Seq[table.Row]) error {
	enc := json.NewEncoder(f.writer)

	for row := range rows {
		obj := make(map[string]any, len(columns))
		for _, col := range columns {
			v, ok := row[col]
			if !ok {
				continue
			}
			if i, isInt := v.AsInt(); isInt {
				obj[col] = i
			} else if s, isStr := v.AsString(); isStr {
				obj[col] = s
			}
		}
		if err := enc.Encode(obj); err != nil {
			return err
		}
	}

	return nil
}
