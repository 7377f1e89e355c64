package source

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/segmentio/parquet-go"

	"github.com/nmelo/tabcat/internal/table"
)

// LoadParquet reads a parquet file into a column-major table. Integer
// physical types map to integer values; every other type is rendered to
// its string form, since the value model knows only those two kinds.
func LoadParquet(path string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	var columns []string
	for _, field := range pqFile.Schema().Fields() {
		columns = append(columns, field.Name())
	}

	tbl := table.New(path)
	for _, name := range columns {
		tbl.AddColumn(name)
	}

	reader := parquet.NewReader(pqFile)
	defer reader.Close()

	for {
		row := make(map[string]any)
		err := reader.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		// Walk the schema, not the row map, so cells land in a stable
		// column order.
		for _, name := range columns {
			if v, ok := row[name]; ok {
				tbl.Append(name, coerceValue(v))
			}
		}
	}

	return tbl, nil
}

// coerceValue narrows an arbitrary scanned value to the two-kind value
// model.
func coerceValue(v any) table.Value {
	switch val := v.(type) {
	case nil:
		return table.Str("")
	case int:
		return table.Int(int64(val))
	case int8:
		return table.Int(int64(val))
	case int16:
		return table.Int(int64(val))
	case int32:
		return table.Int(int64(val))
	case int64:
		return table.Int(val)
	case uint:
		return table.Int(int64(val))
	case uint8:
		return table.Int(int64(val))
	case uint16:
		return table.Int(int64(val))
	case uint32:
		return table.Int(int64(val))
	case uint64:
		return table.Int(int64(val))
	case string:
		return table.Str(val)
	case []byte:
		return table.Str(string(val))
	default:
		return table.Str(fmt.Sprint(val))
	}
}
