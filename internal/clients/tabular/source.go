// Package tabular reads rows of named integer columns from CSV files or
// in-memory tables.
package tabular

import (
	"context"
)

// Table is a header row plus integer data rows
type Table struct {
	// Name identifies where the table came from (file path, fixture name)
	Name string

	// Columns in source order
	Columns []string

	// Rows each hold one value per column
	Rows [][]int
}

// Source yields a Table. Implementations may be read more than once.
type Source interface {
	// Name identifies the source in errors and logs
	Name() string

	// Read loads the table
	Read(ctx context.Context) (*Table, error)
}

// Static serves a fixed in-memory table
type Static struct {
	table *Table
}

// NewStatic creates a source over an in-memory table
func NewStatic(table *Table) *Static {
	return &Static{table: table}
}

// Name returns the table name
func (s *Static) Name() string {
	return s.table.Name
}

// Read returns a copy of the table so callers cannot mutate the fixture
func (s *Static) Read(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([][]int, len(s.table.Rows))
	for i, row := range s.table.Rows {
		rows[i] = append([]int(nil), row...)
	}

	return &Table{
		Name:    s.table.Name,
		Columns: append([]string(nil), s.table.Columns...),
		Rows:    rows,
	}, nil
}

var _ Source = (*Static)(nil)
