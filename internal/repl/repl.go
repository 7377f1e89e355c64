// Package repl is the interactive read-eval-print loop: one query per
// line against a single immutable table.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/nmelo/tabcat/internal/engine"
	"github.com/nmelo/tabcat/internal/output"
	"github.com/nmelo/tabcat/internal/query"
)

const historyFile = ".tabcat_history"

// REPL reads queries line by line, runs them against one table, and
// prints the projected rows. Parse and execution errors are reported and
// the session continues.
type REPL struct {
	src  engine.RowSource
	exec *engine.Executor
	out  io.Writer
	errw io.Writer
}

// New creates a REPL over the given row source, running queries through
// exec, writing results to out and errors to errw.
func New(src engine.RowSource, exec *engine.Executor, out, errw io.Writer) *REPL {
	return &REPL{src: src, exec: exec, out: out, errw: errw}
}

// Run starts the loop. It returns when the user sends EOF (Ctrl-D) or
// aborts with Ctrl-C.
func (r *REPL) Run() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(r.out, "Querying %s, columns: %s\n", r.src.Name(), strings.Join(r.src.ColumnNames(), ", "))
	fmt.Fprintf(r.out, "Query format: PROJECT <columns> FILTER <column> <op> <value>, ... (Ctrl-D to exit)\n")

	for {
		input, err := line.Prompt("tabcat> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if err := r.eval(input); err != nil {
			fmt.Fprintf(r.errw, "Error: %v\n", err)
		}
	}
}

// eval parses and runs one query, rendering matches as a text table.
func (r *REPL) eval(input string) error {
	q, err := query.Parse(input)
	if err != nil {
		return err
	}

	formatter := output.NewTableFormatter(r.out)
	return formatter.Format(q.Columns, r.exec.Rows(r.src, q))
}

// historyPath places the history file in the user's home directory,
// falling back to the working directory.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}
