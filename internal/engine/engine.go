// Package engine applies a parsed query to a lazy row sequence: it
// filters rows against the query's per-column predicates and projects the
// surviving rows down to the requested columns.
package engine

import (
	"iter"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nmelo/tabcat/internal/query"
	"github.com/nmelo/tabcat/internal/table"
)

// RowSource is the table abstraction the engine consumes: a diagnostic
// name, the column names, and a restartable lazy row sequence.
type RowSource interface {
	Name() string
	ColumnNames() []string
	Rows() iter.Seq[table.Row]
}

// Apply returns a lazy sequence of the rows that pass the query's
// filters, projected to the query's output columns. Rows are pulled from
// the source one at a time; nothing is buffered.
//
// An empty projection list short-circuits to an empty sequence no matter
// what the filters say.
//
// Inclusion is decided by the last filter-bearing column visited while
// walking the row's column map: columns without a predicate leave the
// verdict untouched, and because map iteration order is unspecified, a
// query with predicates on several columns is effectively gated by one
// arbitrary predicate. A predicate that fails to apply (operand kind
// mismatch) counts as a non-match; the error never aborts iteration.
func Apply(rows iter.Seq[table.Row], q *query.Query) iter.Seq[table.Row] {
	return func(yield func(table.Row) bool) {
		if len(q.Columns) == 0 {
			return
		}

		for row := range rows {
			projected := make(table.Row)
			shouldReturn := false

			for name, value := range row {
				if pred, ok := q.Filters[name]; ok {
					match, err := value.Matches(pred)
					shouldReturn = match && err == nil
				}

				if slices.Contains(q.Columns, name) {
					projected[name] = value
				}
			}

			if shouldReturn {
				if !yield(projected) {
					return
				}
			}
		}
	}
}

// Executor drives queries over a row source and hands each projected row
// to a caller-supplied consumer.
type Executor struct {
	logger *zap.Logger
}

// NewExecutor creates an executor. A nil logger disables logging.
func NewExecutor(logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{logger: logger}
}

// Rows runs a parsed query against the source and returns the lazy
// sequence of projected rows. Every consumer (CLI, REPL, HTTP) goes
// through here, so each query gets an ID and debug logging no matter how
// its rows are rendered.
func (e *Executor) Rows(src RowSource, q *query.Query) iter.Seq[table.Row] {
	queryID := uuid.NewString()
	e.logger.Debug("executing query",
		zap.String("query_id", queryID),
		zap.String("table", src.Name()),
		zap.Strings("columns", q.Columns),
		zap.Int("filters", len(q.Filters)),
	)

	rows := Apply(src.Rows(), q)
	return func(yield func(table.Row) bool) {
		emitted := 0
		for row := range rows {
			if !yield(row) {
				e.logger.Debug("query abandoned",
					zap.String("query_id", queryID),
					zap.Int("rows", emitted),
				)
				return
			}
			emitted++
		}
		e.logger.Debug("query finished",
			zap.String("query_id", queryID),
			zap.Int("rows", emitted),
		)
	}
}

// Execute runs a parsed query against the source and calls sink once per
// projected row. A sink error stops iteration and is returned as-is.
func (e *Executor) Execute(src RowSource, q *query.Query, sink func(table.Row) error) error {
	var sinkErr error
	for row := range e.Rows(src, q) {
		if err := sink(row); err != nil {
			sinkErr = err
			break
		}
	}
	return sinkErr
}

// ExecuteQuery parses query text and runs it. A parse failure
// short-circuits before any row is touched.
func (e *Executor) ExecuteQuery(src RowSource, text string, sink func(table.Row) error) error {
	q, err := query.Parse(text)
	if err != nil {
		return err
	}
	return e.Execute(src, q, sink)
}
