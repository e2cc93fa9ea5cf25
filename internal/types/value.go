// Package types contains the row value model shared by loaders, profiling and key discovery.
package types

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindText
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "missing"
	}
}

// Value is a single cell of a dataset.
//
// Equality follows SQL null semantics: a missing value is never equal to
// anything, itself included. Values of different kinds are never equal, so
// the text "1" and the number 1 are distinct.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
}

// Missing returns the missing marker.
func Missing() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric value. NaN is stored as missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	if f == 0 {
		f = 0 // fold -0
	}
	return Value{kind: KindNumber, num: f}
}

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the missing marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// AsText returns the text payload.
func (v Value) AsText() (string, bool) { return v.text, v.kind == KindText }

// AsNumber returns the numeric payload.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Equal reports whether v and o hold the same non-missing value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	default:
		return false
	}
}

// String renders v for reports. Missing renders as NULL.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "NULL"
	}
}

// AppendKey appends an unambiguous encoding of v to buf: a kind tag, then a
// length-prefixed payload. Two non-missing values produce the same bytes iff
// they are Equal. Callers must not rely on the encoding of missing values.
func (v Value) AppendKey(buf []byte) []byte {
	buf = append(buf, byte(v.kind))
	switch v.kind {
	case KindText:
		buf = binary.AppendUvarint(buf, uint64(len(v.text)))
		buf = append(buf, v.text...)
	case KindNumber:
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(v.num))
	case KindBool:
		if v.b {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	return buf
}

// Interface returns the native Go value: nil, string, float64 or bool.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// MarshalJSON encodes v as its native JSON value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// MarshalYAML encodes v as its native YAML value.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}
