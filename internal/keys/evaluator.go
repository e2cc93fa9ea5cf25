package keys

import (
	"context"
	"fmt"

	"github.com/puffinc/hercules/internal/types"
)

// cancelCheckInterval is how many rows are scanned between context checks.
const cancelCheckInterval = 4096

// Duplicate is a concrete example of a row whose projection is not unique.
type Duplicate struct {
	Row    int           // 1-based row number
	Values []types.Value // the row's value in every candidate column
}

// Evaluate checks whether the projection of ds onto c has pairwise distinct
// rows. It returns nil when it does. Otherwise it returns the first row, in
// row order, that shares its projected values with at least one other row.
//
// Each projected tuple is hashed once, so a scan is O(rows * key size).
// Rows with a missing component never collide.
func Evaluate(ctx context.Context, ds Dataset, c Candidate) (*Duplicate, error) {
	cols := make([][]types.Value, len(c.names))
	for i, name := range c.names {
		cols[i] = ds.Values(name)
	}

	rows := ds.NumRows()
	seen := make(map[string]int, rows)
	firstDup := -1
	buf := make([]byte, 0, 16*len(cols))

	for r := 0; r < rows; r++ {
		if r%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("uniqueness scan of %s interrupted: %w", c, err)
			}
		}

		buf = buf[:0]
		missing := false
		for _, col := range cols {
			v := col[r]
			if v.IsMissing() {
				missing = true
				break
			}
			buf = v.AppendKey(buf)
		}
		if missing {
			continue
		}

		if first, ok := seen[string(buf)]; ok {
			if firstDup < 0 || first < firstDup {
				firstDup = first
			}
			if firstDup == 0 {
				break
			}
			continue
		}
		seen[string(buf)] = r
	}

	if firstDup < 0 {
		return nil, nil
	}

	values := make([]types.Value, len(cols))
	for i, col := range cols {
		values[i] = col[firstDup]
	}
	return &Duplicate{Row: firstDup + 1, Values: values}, nil
}
