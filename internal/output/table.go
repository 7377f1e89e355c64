package output

import (
	"io"
	"iter"

	"github.com/olekukonko/tablewriter"

	"github.com/nmelo/tabcat/internal/table"
)

// TableFormatter renders rows as an aligned text table, the default for
// interactive sessions.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new text-table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Format renders all rows and then draws the table. Cells use the value
// display form (strings quoted), so a blank cell is unambiguously a
// missing column rather than an empty string. The table is buffered by
// the writer library; this formatter is not for unbounded result sets.
func (f *TableFormatter) Format(columns []string, rows iter.Seq[table.Row]) error {
	tw := tablewriter.NewWriter(f.writer)
	tw.SetHeader(columns)
	tw.SetAutoFormatHeaders(false)

	for row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := row[col]; ok {
				record[i] = v.String()
			}
		}
		tw.Append(record)
	}

	tw.Render()
	return nil
}
