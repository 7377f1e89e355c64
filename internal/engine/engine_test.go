package engine

import (
	"errors"
	"iter"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmelo/tabcat/internal/query"
	"github.com/nmelo/tabcat/internal/table"
)

// scenarioTable is the 2-column, 2-row fixture used across engine tests:
// row0 = (col1=1, col2="value1"), row1 = (col1=2, col2="value2").
func scenarioTable() *table.Table {
	tbl := table.New("fixture")
	tbl.Append("col1", table.Int(1))
	tbl.Append("col2", table.Str("value1"))
	tbl.Append("col1", table.Int(2))
	tbl.Append("col2", table.Str("value2"))
	return tbl
}

func collect(rows iter.Seq[table.Row]) []table.Row {
	var out []table.Row
	for row := range rows {
		out = append(out, row)
	}
	return out
}

func TestApply_FilterAndProject(t *testing.T) {
	q, err := query.Parse(`PROJECT col1,col2 FILTER col2 = "value1"`)
	require.NoError(t, err)

	rows := collect(Apply(scenarioTable().Rows(), q))

	require.Len(t, rows, 1)
	assert.Equal(t, table.Row{"col1": table.Int(1), "col2": table.Str("value1")}, rows[0])
}

func TestApply_IntegerComparison(t *testing.T) {
	tbl := table.New("ints")
	for _, v := range []int64{3, 7, 5, 10} {
		tbl.Append("col1", table.Int(v))
	}

	q, err := query.Parse("PROJECT col1 FILTER col1 > 5")
	require.NoError(t, err)

	var got []int64
	for _, row := range collect(Apply(tbl.Rows(), q)) {
		v, ok := row["col1"].AsInt()
		require.True(t, ok)
		got = append(got, v)
	}

	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	assert.Equal(t, []int64{7, 10}, got)
}

func TestApply_EmptyProjection(t *testing.T) {
	q := &query.Query{
		Columns: nil,
		Filters: map[string]table.Predicate{
			"col1": {Op: table.Equal, Operand: table.Int(1)},
		},
	}

	rows := collect(Apply(scenarioTable().Rows(), q))
	assert.Empty(t, rows)
}

func TestApply_ProjectionExcludesUnlistedColumns(t *testing.T) {
	q, err := query.Parse(`PROJECT col1 FILTER col2 = "value1"`)
	require.NoError(t, err)

	rows := collect(Apply(scenarioTable().Rows(), q))

	require.Len(t, rows, 1)
	assert.Equal(t, table.Row{"col1": table.Int(1)}, rows[0])
}

func TestApply_KindMismatchExcludesRow(t *testing.T) {
	// col2 holds strings; an integer operand can never match, and the
	// comparison error stays inside the engine.
	q := &query.Query{
		Columns: []string{"col1", "col2"},
		Filters: map[string]table.Predicate{
			"col2": {Op: table.Equal, Operand: table.Int(1)},
		},
	}

	rows := collect(Apply(scenarioTable().Rows(), q))
	assert.Empty(t, rows)
}

func TestApply_NoFilterMatches(t *testing.T) {
	q, err := query.Parse(`PROJECT col1 FILTER col2 = "absent"`)
	require.NoError(t, err)

	rows := collect(Apply(scenarioTable().Rows(), q))
	assert.Empty(t, rows)
}

func TestApply_Lazy(t *testing.T) {
	pulled := 0
	counting := func(yield func(table.Row) bool) {
		for i := int64(0); i < 100; i++ {
			pulled++
			if !yield(table.Row{"col1": table.Int(i)}) {
				return
			}
		}
	}

	q, err := query.Parse("PROJECT col1 FILTER col1 < 1000")
	require.NoError(t, err)

	// Take only the first projected row; the source must not be drained.
	for range Apply(counting, q) {
		break
	}
	assert.Equal(t, 1, pulled)
}

func TestExecutor_Rows(t *testing.T) {
	exec := NewExecutor(nil)
	q, err := query.Parse(`PROJECT col1, col2 FILTER col2 = "value1"`)
	require.NoError(t, err)

	rows := collect(exec.Rows(scenarioTable(), q))

	require.Len(t, rows, 1)
	assert.Equal(t, table.Row{"col1": table.Int(1), "col2": table.Str("value1")}, rows[0])
}

func TestExecutor_RowsEarlyStop(t *testing.T) {
	exec := NewExecutor(nil)
	q, err := query.Parse("PROJECT col1 FILTER col1 < 100")
	require.NoError(t, err)

	// Abandoning the sequence mid-iteration must not panic or drain the
	// source.
	count := 0
	for range exec.Rows(scenarioTable(), q) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestExecutor_Execute(t *testing.T) {
	exec := NewExecutor(nil)
	q, err := query.Parse(`PROJECT col2 FILTER col1 > 1`)
	require.NoError(t, err)

	var got []table.Row
	err = exec.Execute(scenarioTable(), q, func(row table.Row) error {
		got = append(got, row)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, table.Row{"col2": table.Str("value2")}, got[0])
}

func TestExecutor_ExecuteSinkError(t *testing.T) {
	exec := NewExecutor(nil)
	q, err := query.Parse("PROJECT col1 FILTER col1 < 100")
	require.NoError(t, err)

	sinkErr := errors.New("consumer gave up")
	calls := 0
	err = exec.Execute(scenarioTable(), q, func(table.Row) error {
		calls++
		return sinkErr
	})
	assert.ErrorIs(t, err, sinkErr)
	assert.Equal(t, 1, calls)
}

func TestExecutor_ExecuteQueryParseFailure(t *testing.T) {
	exec := NewExecutor(nil)

	touched := false
	err := exec.ExecuteQuery(scenarioTable(), "PROJECT FILTER", func(table.Row) error {
		touched = true
		return nil
	})

	require.Error(t, err)
	var perr *query.ParseError
	assert.ErrorAs(t, err, &perr)
	assert.False(t, touched, "no row may be touched when parsing fails")
}

func TestExecutor_ExecuteQuery(t *testing.T) {
	exec := NewExecutor(nil)

	count := 0
	err := exec.ExecuteQuery(scenarioTable(), `PROJECT col1, col2 FILTER col2 = "value1"`, func(row table.Row) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
