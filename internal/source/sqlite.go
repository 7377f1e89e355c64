package source

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/nmelo/tabcat/internal/table"
)

// LoadSQLite reads one database table from a SQLite file into a
// column-major in-memory table. The database is only ever read; it is not
// a persistence layer for the engine.
func LoadSQLite(path, tableName string) (*table.Table, error) {
	if tableName == "" {
		return nil, fmt.Errorf("sqlite input %q needs a table name", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf(`SELECT * FROM %s`, quoteIdent(tableName)))
	if err != nil {
		return nil, fmt.Errorf("failed to read table %q: %w", tableName, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read column names: %w", err)
	}

	tbl := table.New(fmt.Sprintf("%s (%s)", path, tableName))
	for _, name := range columns {
		tbl.AddColumn(name)
	}

	for rows.Next() {
		cells := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, name := range columns {
			tbl.Append(name, coerceValue(cells[i]))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return tbl, nil
}

// quoteIdent quotes a SQL identifier so table names cannot smuggle in
// extra statements.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
