package profile

import (
	"math"
	"sort"

	"github.com/puffinc/hercules/internal/dataset"
	"github.com/puffinc/hercules/internal/types"
)

// NumericSummary describes a numeric column. Std is nil with fewer than two
// values.
type NumericSummary struct {
	Count int      `json:"count" yaml:"count"`
	Mean  float64  `json:"mean" yaml:"mean"`
	Std   *float64 `json:"std" yaml:"std"`
	Min   float64  `json:"min" yaml:"min"`
	P25   float64  `json:"p25" yaml:"p25"`
	P50   float64  `json:"p50" yaml:"p50"`
	P75   float64  `json:"p75" yaml:"p75"`
	Max   float64  `json:"max" yaml:"max"`
}

// TextSummary describes any non-numeric column.
type TextSummary struct {
	Count  int         `json:"count" yaml:"count"`
	Unique int         `json:"unique" yaml:"unique"`
	Top    types.Value `json:"top" yaml:"top"`
	Freq   int         `json:"freq" yaml:"freq"`
}

// ColumnSummary holds exactly one of Numeric or Text.
type ColumnSummary struct {
	Column  string          `json:"column" yaml:"column"`
	Numeric *NumericSummary `json:"numeric,omitempty" yaml:"numeric,omitempty"`
	Text    *TextSummary    `json:"text,omitempty" yaml:"text,omitempty"`
}

// IsNumeric reports whether every present value is a number and at least
// one value is present.
func IsNumeric(col dataset.Column) bool {
	seen := false
	for _, v := range col.Values {
		switch v.Kind() {
		case types.KindMissing:
			continue
		case types.KindNumber:
			seen = true
		default:
			return false
		}
	}
	return seen
}

// Describe summarises a column: count, mean, sample standard deviation,
// min, quartiles and max for numeric columns; count, unique, most frequent
// value and its frequency for the rest.
func Describe(col dataset.Column) ColumnSummary {
	if IsNumeric(col) {
		return ColumnSummary{Column: col.Name, Numeric: describeNumeric(col.Values)}
	}
	return ColumnSummary{Column: col.Name, Text: describeText(col.Values)}
}

func describeNumeric(values []types.Value) *NumericSummary {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.AsNumber(); ok {
			nums = append(nums, f)
		}
	}
	sort.Float64s(nums)

	n := float64(len(nums))
	sum := 0.0
	for _, f := range nums {
		sum += f
	}
	mean := sum / n

	s := &NumericSummary{
		Count: len(nums),
		Mean:  mean,
		Min:   nums[0],
		P25:   quantile(nums, 0.25),
		P50:   quantile(nums, 0.50),
		P75:   quantile(nums, 0.75),
		Max:   nums[len(nums)-1],
	}
	if len(nums) > 1 {
		ss := 0.0
		for _, f := range nums {
			ss += (f - mean) * (f - mean)
		}
		std := math.Sqrt(ss / (n - 1))
		s.Std = &std
	}
	return s
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// describeText ignores missing values. Ties for the most frequent value go
// to the one seen first.
func describeText(values []types.Value) *TextSummary {
	counts := tally(values, true)

	s := &TextSummary{Unique: counts.Len()}
	for el := counts.Front(); el != nil; el = el.Next() {
		vc := el.Value
		s.Count += vc.count
		if vc.count > s.Freq {
			s.Top = vc.value
			s.Freq = vc.count
		}
	}
	return s
}
