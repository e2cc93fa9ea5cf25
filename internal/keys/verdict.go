package keys

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/puffinc/hercules/internal/types"
)

// ReasonKind classifies why a candidate is not a key.
type ReasonKind string

const (
	ReasonNone      ReasonKind = ""
	ReasonSubsumed  ReasonKind = "subsumed"
	ReasonDuplicate ReasonKind = "duplicate"
	ReasonNullable  ReasonKind = "nullable"
)

// Reason is the diagnostic attached to a verdict. Exactly one group of
// fields is set, according to Kind.
type Reason struct {
	Kind ReasonKind

	Subkey []string // ReasonSubsumed: the confirmed key contained in the candidate

	Row    int           // ReasonDuplicate: 1-based row number
	Values []types.Value // ReasonDuplicate: the row's candidate values

	Column string // ReasonNullable
}

// String renders the reason the way reports print it.
func (r Reason) String() string {
	switch r.Kind {
	case ReasonSubsumed:
		return fmt.Sprintf("subset %s is already a key", formatList(r.Subkey))
	case ReasonDuplicate:
		vals := make([]string, len(r.Values))
		for i, v := range r.Values {
			vals[i] = v.String()
		}
		return fmt.Sprintf("row %d duplicates columns with value %s", r.Row, formatList(vals))
	case ReasonNullable:
		return fmt.Sprintf("column %s is nullable", r.Column)
	default:
		return ""
	}
}

// Verdict is the outcome for one candidate.
type Verdict struct {
	Key    []string
	IsKey  bool
	Reason Reason
}

// String renders "[a, b]: key" or "[a, b]: <reason>".
func (v Verdict) String() string {
	if v.IsKey {
		return formatList(v.Key) + ": key"
	}
	return formatList(v.Key) + ": " + v.Reason.String()
}

// verdictDoc is the serialised form of a Verdict.
type verdictDoc struct {
	Key            []string      `json:"key" yaml:"key"`
	IsKey          bool          `json:"is_key" yaml:"is_key"`
	Reason         string        `json:"reason" yaml:"reason"`
	ReasonKind     ReasonKind    `json:"reason_kind,omitempty" yaml:"reason_kind,omitempty"`
	Subkey         []string      `json:"subkey,omitempty" yaml:"subkey,omitempty"`
	NullableColumn string        `json:"nullable_column,omitempty" yaml:"nullable_column,omitempty"`
	DuplicateRow   int           `json:"duplicate_row,omitempty" yaml:"duplicate_row,omitempty"`
	DuplicateValue []types.Value `json:"duplicate_values,omitempty" yaml:"duplicate_values,omitempty"`
}

func (v Verdict) doc() verdictDoc {
	return verdictDoc{
		Key:            v.Key,
		IsKey:          v.IsKey,
		Reason:         v.Reason.String(),
		ReasonKind:     v.Reason.Kind,
		Subkey:         v.Reason.Subkey,
		NullableColumn: v.Reason.Column,
		DuplicateRow:   v.Reason.Row,
		DuplicateValue: v.Reason.Values,
	}
}

// MarshalJSON implements json.Marshaler.
func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.doc())
}

// MarshalYAML implements yaml.Marshaler.
func (v Verdict) MarshalYAML() (interface{}, error) {
	return v.doc(), nil
}

// Keys filters verdicts down to confirmed keys.
func Keys(verdicts []Verdict) []Verdict {
	var out []Verdict
	for _, v := range verdicts {
		if v.IsKey {
			out = append(out, v)
		}
	}
	return out
}

func keyVerdict(c Candidate) Verdict {
	return Verdict{Key: c.Columns(), IsKey: true}
}

func nullableVerdict(c Candidate, column string) Verdict {
	return Verdict{
		Key:    c.Columns(),
		Reason: Reason{Kind: ReasonNullable, Column: column},
	}
}

func subsumedVerdict(c, subkey Candidate) Verdict {
	return Verdict{
		Key:    c.Columns(),
		Reason: Reason{Kind: ReasonSubsumed, Subkey: subkey.Columns()},
	}
}

func duplicateVerdict(c Candidate, dup *Duplicate) Verdict {
	return Verdict{
		Key:    c.Columns(),
		Reason: Reason{Kind: ReasonDuplicate, Row: dup.Row, Values: dup.Values},
	}
}

// joinKey is used in log fields.
func joinKey(cols []string) string {
	return strings.Join(cols, ",")
}
