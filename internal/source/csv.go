// Package source loads external tabular data into in-memory tables. Each
// loader builds the table once; the query session never mutates it.
//
// Supported inputs: CSV (plain, gzip- or zstd-compressed), Parquet, and
// SQLite database files.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/nmelo/tabcat/internal/table"
)

// Load picks a loader from the file extension. SQLite inputs need the
// name of the database table to read; the other formats ignore it.
func Load(path, sqliteTable string) (*table.Table, error) {
	switch {
	case strings.HasSuffix(path, ".csv"),
		strings.HasSuffix(path, ".csv.gz"),
		strings.HasSuffix(path, ".csv.zst"):
		return LoadCSV(path)
	case strings.HasSuffix(path, ".parquet"):
		return LoadParquet(path)
	case strings.HasSuffix(path, ".db"),
		strings.HasSuffix(path, ".sqlite"),
		strings.HasSuffix(path, ".sqlite3"):
		return LoadSQLite(path, sqliteTable)
	default:
		return nil, fmt.Errorf("unsupported data file %q (want .csv, .csv.gz, .csv.zst, .parquet, or a sqlite database)", path)
	}
}

// LoadCSV reads a CSV file into a column-major table. The first record
// is the header; every later cell is parsed integer-first (see
// table.ParseValue). Files ending in .gz or .zst are decompressed
// transparently.
func LoadCSV(path string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader, closeFn, err := decompressed(file, path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	csvReader := csv.NewReader(reader)

	headers, err := csvReader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv file %q is empty", path)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	tbl := table.New(path)
	// Register columns up front so header order survives even when the
	// file has no data rows.
	for _, header := range headers {
		tbl.AddColumn(header)
	}

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		for i, cell := range record {
			tbl.Append(headers[i], table.ParseValue(cell))
		}
	}

	return tbl, nil
}

// decompressed wraps the raw reader according to the path suffix.
func decompressed(file *os.File, path string) (io.Reader, func(), error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return dec, dec.Close, nil
	default:
		return file, func() {}, nil
	}
}
