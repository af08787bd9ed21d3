package tabular

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-trainer/internal/errors"
)

// CSVFile reads a table from a CSV file with a header row
type CSVFile struct {
	path string
}

// NewCSVFile creates a source for the CSV file at path
func NewCSVFile(path string) *CSVFile {
	return &CSVFile{path: path}
}

// Name returns the file path
func (c *CSVFile) Name() string {
	return c.path
}

// Read opens and parses the file
func (c *CSVFile) Read(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Canceled("read canceled").WithMeta("source", c.path)
	}

	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("table source %s not found", c.path).WithMeta("source", c.path)
		}
		return nil, errors.Wrapf(err, "failed to open %s", c.path)
	}
	defer func() {
		_ = f.Close() // nolint:errcheck // read-only file
	}()

	return ParseCSV(c.path, f)
}

var _ Source = (*CSVFile)(nil)

// ParseCSV parses CSV text with a header row of column names followed by
// integer rows. Cells holding integral floats ("12.0") are accepted since
// spreadsheet exports often write them.
func ParseCSV(name string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "malformed csv in %s", name).
			WithMeta("source", name)
	}
	if len(records) == 0 {
		return nil, errors.InvalidArgumentf("csv %s has no header row", name).WithMeta("source", name)
	}

	columns := make([]string, len(records[0]))
	for i, col := range records[0] {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
	}

	rows := make([][]int, 0, len(records)-1)
	for r, record := range records[1:] {
		row := make([]int, len(record))
		for c, cell := range record {
			v, err := parseCell(cell)
			if err != nil {
				return nil, errors.InvalidArgumentf("%s row %d column %s: %q is not an integer", name, r+1, columns[c], cell).
					WithMeta("source", name).
					WithMeta("row", r+1).
					WithMeta("column", columns[c])
			}
			row[c] = v
		}
		rows = append(rows, row)
	}

	return &Table{
		Name:    name,
		Columns: columns,
		Rows:    rows,
	}, nil
}

func parseCell(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if v, err := strconv.Atoi(cell); err == nil {
		return v, nil
	}

	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}

// WriteCSV writes a table as CSV with a header row
func WriteCSV(w io.Writer, table *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, v := range row {
			record[i] = strconv.Itoa(v)
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "failed to write csv row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "failed to flush csv")
	}
	return nil
}
