// Package output renders projected rows for the user: JSON lines, CSV,
// or an aligned text table.
package output

import (
	"io"
	"iter"

	"github.com/nmelo/tabcat/internal/table"
)

// Formatter writes a sequence of projected rows. Columns fixes both the
// column set and its order in the output. Formatters consume the
// sequence directly so streaming formats never buffer the result set.
type Formatter interface {
	Format(columns []string, rows iter.Seq[table.Row]) error
}

// New returns the formatter registered under the given name: "json" or
// "jsonl", "csv", or "table".
func New(name string, w io.Writer) (Formatter, bool) {
	switch name {
	case "json", "jsonl":
		return NewJSONFormatter(w), true
	case "csv":
		return NewCSVFormatter(w), true
	case "table":
		return NewTableFormatter(w), true
	default:
		return nil, false
	}
}
