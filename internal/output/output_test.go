package output

import (
	"bytes"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmelo/tabcat/internal/table"
)

func sampleRows() iter.Seq[table.Row] {
	tbl := table.New("sample")
	tbl.Append("col1", table.Int(1))
	tbl.Append("col2", table.Str("value1"))
	tbl.Append("col1", table.Int(2))
	tbl.Append("col2", table.Str("value2"))
	return tbl.Rows()
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf)

	err := f.Format([]string{"col1", "col2"}, sampleRows())
	require.NoError(t, err)

	assert.Equal(t, `{"col1":1,"col2":"value1"}
{"col1":2,"col2":"value2"}
`, buf.String())
}

func TestJSONFormatter_OmitsMissingColumns(t *testing.T) {
	tbl := table.New("ragged")
	tbl.Append("col1", table.Int(1))

	var buf bytes.Buffer
	f := NewJSONFormatter(&buf)
	err := f.Format([]string{"col1", "col2"}, tbl.Rows())
	require.NoError(t, err)

	assert.Equal(t, `{"col1":1}
`, buf.String())
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewCSVFormatter(&buf)

	err := f.Format([]string{"col2", "col1"}, sampleRows())
	require.NoError(t, err)

	assert.Equal(t, "col2,col1\nvalue1,1\nvalue2,2\n", buf.String())
}

func TestCSVFormatter_EmptyResult(t *testing.T) {
	tbl := table.New("empty")

	var buf bytes.Buffer
	f := NewCSVFormatter(&buf)
	err := f.Format([]string{"col1"}, tbl.Rows())
	require.NoError(t, err)

	// Header is still written for empty result sets.
	assert.Equal(t, "col1\n", buf.String())
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(&buf)

	err := f.Format([]string{"col1", "col2"}, sampleRows())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "col1")
	assert.Contains(t, out, "col2")
	assert.Contains(t, out, "1")
	assert.Contains(t, out, `"value1"`)
	assert.Contains(t, out, `"value2"`)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name string
		ok   bool
	}{
		{name: "json", ok: true},
		{name: "jsonl", ok: true},
		{name: "csv", ok: true},
		{name: "table", ok: true},
		{name: "xml", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := New(tt.name, &buf)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ok, f != nil)
		})
	}
}
