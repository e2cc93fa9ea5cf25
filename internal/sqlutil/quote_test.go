package sqlutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		input    string
		expected string
	}{
		{
			name:     "MySQL simple",
			dialect:  MySQL,
			input:    "users",
			expected: "`users`",
		},
		{
			name:     "MySQL escapes backtick",
			dialect:  MySQL,
			input:    "my`table",
			expected: "`my``table`",
		},
		{
			name:     "MySQL keeps double quote",
			dialect:  MySQL,
			input:    `my"table`,
			expected: "`my\"table`",
		},
		{
			name:     "Postgres simple",
			dialect:  Postgres,
			input:    "Orders",
			expected: `"Orders"`,
		},
		{
			name:     "Postgres escapes double quote",
			dialect:  Postgres,
			input:    `my"table`,
			expected: `"my""table"`,
		},
		{
			name:     "SQLite simple",
			dialect:  SQLite,
			input:    "order_items",
			expected: `"order_items"`,
		},
		{
			name:     "SQL Server escapes bracket",
			dialect:  MSSQL,
			input:    "my]table",
			expected: "[my]]table]",
		},
		{
			name:     "Empty string",
			dialect:  SQLite,
			input:    "",
			expected: `""`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.QuoteIdentifier(tt.input))
		})
	}
}

func TestQuoteTable(t *testing.T) {
	assert.Equal(t, "`sales`.`orders`", MySQL.QuoteTable("sales.orders"))
	assert.Equal(t, `"public"."orders"`, Postgres.QuoteTable("public.orders"))
	assert.Equal(t, `"orders"`, SQLite.QuoteTable("orders"))
	assert.Equal(t, "[dbo].[orders]", MSSQL.QuoteTable("dbo.orders"))
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"users", true},
		{"order_items", true},
		{"Table123", true},
		{"public.orders", true},
		{"a.b.c", false},
		{"", false},
		{"users; DROP TABLE users", false},
		{"my-table", false},
		{"my table", false},
		{"users`", false},
		{".orders", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidIdentifier(tt.input))
		})
	}
}

func TestSelectAll(t *testing.T) {
	q, err := MySQL.SelectAll("users", 0)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users`", q)

	q, err = Postgres.SelectAll("public.users", 100)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "public"."users" LIMIT 100`, q)

	q, err = MSSQL.SelectAll("dbo.users", 100)
	require.NoError(t, err)
	assert.Equal(t, "SELECT TOP (100) * FROM [dbo].[users]", q)
}

func TestSelectAll_InvalidTable(t *testing.T) {
	_, err := SQLite.SelectAll("users; DROP TABLE users", 0)
	require.Error(t, err)

	var invalid *InvalidIdentifierError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "users; DROP TABLE users", invalid.Name)
	assert.Contains(t, err.Error(), "invalid identifier")
}

func TestLimitQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		limit    int
		expected string
	}{
		{
			name:     "No limit",
			query:    "SELECT id FROM t",
			limit:    0,
			expected: "SELECT id FROM t",
		},
		{
			name:     "Trailing semicolon trimmed",
			query:    "SELECT id FROM t; ",
			limit:    0,
			expected: "SELECT id FROM t",
		},
		{
			name:     "Wrapped with limit",
			query:    "SELECT id FROM t WHERE x > 1;",
			limit:    5,
			expected: "SELECT * FROM (SELECT id FROM t WHERE x > 1) AS hercules_src LIMIT 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Postgres.LimitQuery(tt.query, tt.limit))
		})
	}

	assert.Equal(t, "SELECT TOP (5) * FROM (SELECT id FROM t) AS hercules_src",
		MSSQL.LimitQuery("SELECT id FROM t;", 5))
}
