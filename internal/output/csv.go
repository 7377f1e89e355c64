package output

import (
	"encoding/csv"
	"io"
	"iter"
	"strconv"

	"github.com/nmelo/tabcat/internal/table"
)

// CSVFormatter writes rows as CSV with a header record.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// Format streams rows as CSV. Cells carry the raw content: integers in
// decimal, strings unquoted (csv escaping aside); a column missing from
// a row becomes an empty cell.
func (f *CSVFormatter) Format(columns []string, rows iter.Seq[table.Row]) error {
	csvWriter := csv.NewWriter(f.writer)
	defer csvWriter.Flush()

	if err := csvWriter.Write(columns); err != nil {
		return err
	}

	for row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := row[col]; ok {
				record[i] = rawCell(v)
			}
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	return csvWriter.Error()
}

// rawCell renders a value without the display quoting used in table
// output.
func rawCell(v table.Value) string {
	if i, ok := v.AsInt(); ok {
		return strconv.FormatInt(i, 10)
	}
	s, _ := v.AsString()
	return s
}
