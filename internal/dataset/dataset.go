// Package dataset holds an in-memory table: ordered, uniquely named columns of equal length.
package dataset

import (
	"errors"
	"fmt"

	"github.com/puffinc/hercules/internal/types"
)

var (
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrColumnLength is returned when columns have different lengths.
	ErrColumnLength = errors.New("column length mismatch")
	// ErrUnknownColumn is returned when a column name is not in the dataset.
	ErrUnknownColumn = errors.New("unknown column")
)

// Column is a named sequence of row values.
type Column struct {
	Name   string
	Values []types.Value
}

// Dataset is an immutable table. Row order is the load order.
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a Dataset from columns. It rejects duplicate names and ragged columns.
func New(columns []Column) (*Dataset, error) {
	if dups := DuplicateNames(columnNames(columns)); len(dups) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrDuplicateColumn, dups)
	}

	index := make(map[string]int, len(columns))
	rows := 0
	for i, col := range columns {
		index[col.Name] = i
		if i == 0 {
			rows = len(col.Values)
			continue
		}
		if len(col.Values) != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				ErrColumnLength, col.Name, len(col.Values), rows)
		}
	}

	return &Dataset{
		columns: columns,
		index:   index,
		rows:    rows,
	}, nil
}

// DuplicateNames returns every name that appears more than once, in first-seen order.
func DuplicateNames(names []string) []string {
	seen := make(map[string]int, len(names))
	var dups []string
	for _, n := range names {
		seen[n]++
		if seen[n] == 2 {
			dups = append(dups, n)
		}
	}
	return dups
}

func columnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// ColumnNames returns the column names in dataset order.
func (d *Dataset) ColumnNames() []string {
	return columnNames(d.columns)
}

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int {
	return len(d.columns)
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int {
	return d.rows
}

// Values returns the values of a column, or nil if the column does not exist.
// The returned slice must not be modified.
func (d *Dataset) Values(column string) []types.Value {
	i, ok := d.index[column]
	if !ok {
		return nil
	}
	return d.columns[i].Values
}

// Column returns the named column.
func (d *Dataset) Column(name string) (Column, error) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return d.columns[i], nil
}

// Columns returns all columns in order. The slice must not be modified.
func (d *Dataset) Columns() []Column {
	return d.columns
}

// HasMissing reports whether any row holds a missing value in the column.
func (d *Dataset) HasMissing(column string) bool {
	for _, v := range d.Values(column) {
		if v.IsMissing() {
			return true
		}
	}
	return false
}

// Row returns the values of row i (0-based) across all columns.
func (d *Dataset) Row(i int) []types.Value {
	row := make([]types.Value, len(d.columns))
	for c, col := range d.columns {
		row[c] = col.Values[i]
	}
	return row
}

// Head returns up to n rows from the top of the dataset.
func (d *Dataset) Head(n int) [][]types.Value {
	if n > d.rows {
		n = d.rows
	}
	if n < 0 {
		n = 0
	}
	rows := make([][]types.Value, n)
	for i := 0; i < n; i++ {
		rows[i] = d.Row(i)
	}
	return rows
}
