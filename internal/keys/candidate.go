// Package keys discovers business keys: the columns, or column combinations,
// whose values identify every row of a dataset.
//
// The search walks every column subset up to a maximum size, smallest first.
// A subset is rejected without looking at row data when one of its columns
// holds a missing value, or when a smaller confirmed key is contained in it.
// Surviving subsets are checked for duplicate projected rows.
package keys

import (
	"strconv"
	"strings"
)

// Candidate is a set of columns proposed as a key. Columns are kept in
// dataset order, so two candidates over the same set are identical.
type Candidate struct {
	positions []int
	names     []string
	mask      []uint64
}

func newCandidate(all []string, positions []int) Candidate {
	c := Candidate{
		positions: append([]int(nil), positions...),
		names:     make([]string, len(positions)),
		mask:      make([]uint64, (len(all)+63)/64),
	}
	for i, p := range positions {
		c.names[i] = all[p]
		c.mask[p/64] |= 1 << (uint(p) % 64)
	}
	return c
}

// Columns returns the column names of the candidate in dataset order.
func (c Candidate) Columns() []string {
	return append([]string(nil), c.names...)
}

// Size returns the number of columns.
func (c Candidate) Size() int {
	return len(c.positions)
}

// ID returns a canonical identity: the comma-joined column positions.
func (c Candidate) ID() string {
	var sb strings.Builder
	for i, p := range c.positions {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(p))
	}
	return sb.String()
}

// SubsetOf reports whether every column of c is also in o.
func (c Candidate) SubsetOf(o Candidate) bool {
	if len(c.mask) != len(o.mask) || c.Size() > o.Size() {
		return false
	}
	for i, w := range c.mask {
		if w&^o.mask[i] != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether both candidates name the same column set.
func (c Candidate) Equal(o Candidate) bool {
	return c.Size() == o.Size() && c.SubsetOf(o)
}

func (c Candidate) String() string {
	return formatList(c.names)
}

func formatList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}
