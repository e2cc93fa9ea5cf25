package profile

import (
	"math"

	"github.com/puffinc/hercules/internal/dataset"
)

// NullStats is the missing-value tally of one column.
type NullStats struct {
	Column  string  `json:"column" yaml:"column"`
	Length  int     `json:"length" yaml:"length"`
	Nulls   int     `json:"nulls" yaml:"nulls"`
	Percent float64 `json:"null_percent" yaml:"null_percent"`
}

// Nulls counts missing values. Percent is rounded to two decimals and is 0
// for an empty column.
func Nulls(col dataset.Column) NullStats {
	st := NullStats{Column: col.Name, Length: len(col.Values)}
	for _, v := range col.Values {
		if v.IsMissing() {
			st.Nulls++
		}
	}
	if st.Length > 0 {
		st.Percent = round2(float64(st.Nulls) / float64(st.Length) * 100)
	}
	return st
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
