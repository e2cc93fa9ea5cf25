// Package sqlutil builds the SQL text Hercules sends to relational sources.
package sqlutil

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect selects identifier quoting rules.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
	MSSQL    Dialect = "sqlserver"
)

// QuoteIdentifier quotes a single identifier for the dialect, doubling any
// embedded quote character.
// Example (mysql): "my`table" -> "`my``table`"
// Example (postgres): `my"table` -> `"my""table"`
// Example (sqlserver): "my]table" -> "[my]]table]"
func (d Dialect) QuoteIdentifier(name string) string {
	switch d {
	case MySQL:
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	case MSSQL:
		return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
	default:
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
}

// QuoteTable quotes a possibly schema-qualified table name such as
// "sales.orders". Each dot-separated part is quoted on its own.
func (d Dialect) QuoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

// validIdentifierRegex restricts configured table names to alphanumerics and
// underscores, with at most one schema qualifier.
var validIdentifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+(\.[a-zA-Z0-9_]+)?$`)

// IsValidIdentifier checks a table name coming from configuration.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}

// SelectAll builds the full-table scan used to load a table. A positive
// limit caps the number of rows read.
func (d Dialect) SelectAll(table string, limit int) (string, error) {
	if !IsValidIdentifier(table) {
		return "", &InvalidIdentifierError{Name: table}
	}
	switch {
	case limit <= 0:
		return "SELECT * FROM " + d.QuoteTable(table), nil
	case d == MSSQL:
		return fmt.Sprintf("SELECT TOP (%d) * FROM %s", limit, d.QuoteTable(table)), nil
	default:
		return fmt.Sprintf("SELECT * FROM %s LIMIT %d", d.QuoteTable(table), limit), nil
	}
}

// LimitQuery wraps an arbitrary SELECT so that at most limit rows come back.
// Non-positive limits return the query unchanged.
func (d Dialect) LimitQuery(query string, limit int) string {
	query = strings.TrimRight(strings.TrimSpace(query), ";")
	if limit <= 0 {
		return query
	}
	if d == MSSQL {
		return fmt.Sprintf("SELECT TOP (%d) * FROM (%s) AS hercules_src", limit, query)
	}
	return fmt.Sprintf("SELECT * FROM (%s) AS hercules_src LIMIT %d", query, limit)
}
