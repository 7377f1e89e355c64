package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/nmelo/tabcat/internal/engine"
	"github.com/nmelo/tabcat/internal/output"
	"github.com/nmelo/tabcat/internal/query"
	"github.com/nmelo/tabcat/internal/repl"
	"github.com/nmelo/tabcat/internal/server"
	"github.com/nmelo/tabcat/internal/source"
)

var (
	queryFlag   = flag.String("q", "", "Query (e.g., \"PROJECT col1, col2 FILTER col3 > 5\")")
	formatFlag  = flag.String("f", "table", "Output format: jsonl, csv, table")
	tableFlag   = flag.String("table", "", "Table name to read (sqlite inputs only)")
	listenFlag  = flag.String("listen", "", "Serve queries over HTTP on this address instead of running locally")
	verboseFlag = flag.Bool("v", false, "Enable debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <data file>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "A tool to query tabular data files (CSV, Parquet, SQLite).\n\n")
		fmt.Fprintf(os.Stderr, "Without -q or -listen, starts an interactive query session.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s data.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -q \"PROJECT name, age FILTER age > 30\" data.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -f jsonl -q \"PROJECT id FILTER status = \\\"active\\\"\" data.csv.gz\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -table users -q \"PROJECT name FILTER id < 100\" app.db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -listen :8080 data.parquet\n", os.Args[0])
	}

	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: missing data file argument\n\n")
		flag.Usage()
		os.Exit(1)
	}
	filename := flag.Arg(0)

	logger := zap.NewNop()
	if *verboseFlag {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	tbl, err := source.Load(filename, *tableFlag)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error: file '%s' not found\n", filename)
			fmt.Fprintf(os.Stderr, "Please check the file path and try again.\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	// Serve mode
	if *listenFlag != "" {
		srv := server.New(tbl, logger)
		if err := srv.ListenAndServe(*listenFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	exec := engine.NewExecutor(logger)

	// Interactive mode
	if *queryFlag == "" {
		r := repl.New(tbl, exec, os.Stdout, os.Stderr)
		if err := r.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// One-shot query
	q, err := query.Parse(*queryFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing query: %v\n\n", err)
		fmt.Fprintf(os.Stderr, "Query format: PROJECT <columns> FILTER <column> <op> <value>, ...\n")
		fmt.Fprintf(os.Stderr, "Example: PROJECT name, age FILTER age > 30\n")
		os.Exit(1)
	}

	formatter, ok := output.New(*formatFlag, os.Stdout)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unsupported format '%s'\n", *formatFlag)
		fmt.Fprintf(os.Stderr, "Supported formats: jsonl, csv, table\n")
		os.Exit(1)
	}

	if err := formatter.Format(q.Columns, exec.Rows(tbl, q)); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
}
