package dataset

import (
	"fmt"

	"github.com/puffinc/hercules/internal/types"
)

// Builder assembles a Dataset row by row, as loaders read records.
type Builder struct {
	names   []string
	columns [][]types.Value
}

// NewBuilder starts a dataset with the given header. Duplicate names are
// rejected up front so a load fails before reading any rows.
func NewBuilder(names []string) (*Builder, error) {
	if dups := DuplicateNames(names); len(dups) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrDuplicateColumn, dups)
	}
	return &Builder{
		names:   append([]string(nil), names...),
		columns: make([][]types.Value, len(names)),
	}, nil
}

// Append adds one row. The row must have one value per column.
func (b *Builder) Append(row []types.Value) error {
	if len(row) != len(b.names) {
		return fmt.Errorf("%w: row has %d values, expected %d", ErrColumnLength, len(row), len(b.names))
	}
	for i, v := range row {
		b.columns[i] = append(b.columns[i], v)
	}
	return nil
}

// Len returns the number of rows appended so far.
func (b *Builder) Len() int {
	if len(b.columns) == 0 {
		return 0
	}
	return len(b.columns[0])
}

// Build returns the Dataset. The builder must not be used afterwards.
func (b *Builder) Build() (*Dataset, error) {
	cols := make([]Column, len(b.names))
	for i, name := range b.names {
		cols[i] = Column{Name: name, Values: b.columns[i]}
	}
	return New(cols)
}
