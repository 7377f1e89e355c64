package table

import "iter"

// Row is an on-demand view of one positional index across all columns.
// Keys are column names.
type Row map[string]Value

// Table is column-major storage: one value slice per column name. A table
// is built once by a data source and is immutable for the rest of the
// session.
type Table struct {
	name    string
	order   []string
	columns map[string][]Value
}

// New creates an empty table. The name is used for diagnostics only.
func New(name string) *Table {
	return &Table{
		name:    name,
		columns: make(map[string][]Value),
	}
}

// Name returns the diagnostic table name.
func (t *Table) Name() string {
	return t.name
}

// AddColumn registers an empty column if it does not exist yet. Column
// order follows first appearance.
func (t *Table) AddColumn(name string) {
	if _, ok := t.columns[name]; !ok {
		t.order = append(t.order, name)
		t.columns[name] = nil
	}
}

// Append adds a value to the named column, creating the column on first
// use.
func (t *Table) Append(column string, v Value) {
	t.AddColumn(column)
	t.columns[column] = append(t.columns[column], v)
}

// ColumnNames returns the column names in first-appearance order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Column returns the values stored for the named column, or nil if the
// column does not exist.
func (t *Table) Column(name string) []Value {
	return t.columns[name]
}

// NumRows derives the row count from the first column. Columns shorter
// than that simply omit their cell from later rows.
func (t *Table) NumRows() int {
	if len(t.order) == 0 {
		return 0
	}
	return len(t.columns[t.order[0]])
}

// Rows returns a lazy sequence of rows in positional index order. Each
// row is materialized only when the consumer advances; iterating the
// sequence again restarts from the first row.
func (t *Table) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		numRows := t.NumRows()
		for idx := 0; idx < numRows; idx++ {
			row := make(Row, len(t.order))
			for name, values := range t.columns {
				if idx < len(values) {
					row[name] = values[idx]
				}
			}
			if !yield(row) {
				return
			}
		}
	}
}
