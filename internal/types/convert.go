package types

import (
	"strconv"
	"strings"
	"time"
)

// FromDriver converts a value scanned from database/sql into a Value.
// Supports the integer, float, bool, string, []byte and time.Time types
// drivers hand back. dbType is the column's DatabaseTypeName and decides
// how text-protocol []byte payloads are read.
func FromDriver(v interface{}, dbType string) Value {
	switch i := v.(type) {
	case nil:
		return Missing()
	case int64:
		return Number(float64(i))
	case int:
		return Number(float64(i))
	case int32:
		return Number(float64(i))
	case int16:
		return Number(float64(i))
	case int8:
		return Number(float64(i))
	case uint:
		return Number(float64(i))
	case uint64:
		return Number(float64(i))
	case uint32:
		return Number(float64(i))
	case uint16:
		return Number(float64(i))
	case uint8:
		return Number(float64(i))
	case float64:
		return Number(i)
	case float32:
		return Number(float64(i))
	case bool:
		return Bool(i)
	case string:
		return fromText(i, dbType)
	case []byte:
		return fromText(string(i), dbType)
	case time.Time:
		return Text(i.Format(time.RFC3339Nano))
	default:
		return Missing()
	}
}

func fromText(s, dbType string) Value {
	switch {
	case IsNumericType(dbType):
		if f, ok := ParseNumber(s); ok {
			return Number(f)
		}
	case IsBoolType(dbType):
		if b, ok := ParseBool(s); ok {
			return Bool(b)
		}
	}
	return Text(s)
}

var numericTypes = map[string]bool{
	"INT": true, "INTEGER": true, "TINYINT": true, "SMALLINT": true, "MEDIUMINT": true, "BIGINT": true,
	"UNSIGNED INT": true, "UNSIGNED TINYINT": true, "UNSIGNED SMALLINT": true, "UNSIGNED MEDIUMINT": true, "UNSIGNED BIGINT": true,
	"DECIMAL": true, "NUMERIC": true, "FLOAT": true, "DOUBLE": true, "REAL": true,
	"INT2": true, "INT4": true, "INT8": true, "FLOAT4": true, "FLOAT8": true,
	"MONEY": true, "SMALLMONEY": true,
}

// IsNumericType reports whether a driver column type name holds numbers.
func IsNumericType(dbType string) bool {
	return numericTypes[strings.ToUpper(dbType)]
}

// IsBoolType reports whether a driver column type name holds booleans.
func IsBoolType(dbType string) bool {
	switch strings.ToUpper(dbType) {
	case "BOOL", "BOOLEAN":
		return true
	}
	return false
}

// ParseNumber parses decimal text the way CSV type inference does: integers,
// decimals and exponents, with surrounding spaces ignored. Hex, underscores,
// infinities and NaN are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9') && !strings.ContainsRune("+-.eE", r) {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseBool accepts True/true/TRUE and False/false/FALSE.
func ParseBool(s string) (bool, bool) {
	switch strings.TrimSpace(s) {
	case "True", "true", "TRUE":
		return true, true
	case "False", "false", "FALSE":
		return false, true
	}
	return false, false
}
