package profile

import (
	"github.com/elliotchance/orderedmap/v2"

	"github.com/puffinc/hercules/internal/dataset"
	"github.com/puffinc/hercules/internal/types"
)

// ValueClass buckets a column by its number of distinct values.
type ValueClass string

const (
	ClassBinary     ValueClass = "binary"     // at most 2 distinct values
	ClassOrdinal    ValueClass = "ordinal"    // at most 10
	ClassContinuous ValueClass = "continuous" // more than 10
)

// ValueStats describes the distinct values of one column.
type ValueStats struct {
	Column   string        `json:"column" yaml:"column"`
	Distinct int           `json:"distinct" yaml:"distinct"`
	Class    ValueClass    `json:"class" yaml:"class"`
	Samples  []types.Value `json:"samples" yaml:"samples"`
}

// valueCount is one distinct value and how often it occurs.
type valueCount struct {
	value types.Value
	count int
}

// tally counts distinct values in first-seen order. All missing values fall
// into a single group unless skipMissing drops them.
func tally(values []types.Value, skipMissing bool) *orderedmap.OrderedMap[string, *valueCount] {
	counts := orderedmap.NewOrderedMap[string, *valueCount]()
	var buf []byte
	for _, v := range values {
		if skipMissing && v.IsMissing() {
			continue
		}
		buf = v.AppendKey(buf[:0])
		if vc, ok := counts.Get(string(buf)); ok {
			vc.count++
			continue
		}
		counts.Set(string(buf), &valueCount{value: v, count: 1})
	}
	return counts
}

// Values classifies a column by its distinct values, missing counted once,
// and keeps up to maxSamples of them in first-seen order.
func Values(col dataset.Column, maxSamples int) ValueStats {
	counts := tally(col.Values, false)

	st := ValueStats{Column: col.Name, Distinct: counts.Len()}
	switch {
	case st.Distinct <= 2:
		st.Class = ClassBinary
	case st.Distinct <= 10:
		st.Class = ClassOrdinal
	default:
		st.Class = ClassContinuous
	}

	for el := counts.Front(); el != nil && len(st.Samples) < maxSamples; el = el.Next() {
		st.Samples = append(st.Samples, el.Value.value)
	}
	return st
}
