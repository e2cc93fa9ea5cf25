package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/puffinc/hercules/internal/config"
	"github.com/puffinc/hercules/internal/dataset"
	"github.com/puffinc/hercules/internal/sqlutil"
	"github.com/puffinc/hercules/internal/types"
)

// ErrNoTable is returned when a SQL source names neither a table nor a query.
var ErrNoTable = errors.New("sql source needs a table or a query")

// Statement returns the SELECT that loads the configured table or query.
func Statement(dialect sqlutil.Dialect, cfg *config.SourceConfig) (string, error) {
	switch {
	case cfg.Query != "":
		return dialect.LimitQuery(cfg.Query, cfg.MaxRows), nil
	case cfg.Table != "":
		return dialect.SelectAll(cfg.Table, cfg.MaxRows)
	default:
		return "", ErrNoTable
	}
}

// ReadSQL runs the source statement and converts every row. Values are
// converted with types.FromDriver using each column's database type name.
func ReadSQL(ctx context.Context, db *sql.DB, dialect sqlutil.Dialect, cfg *config.SourceConfig) (*dataset.Dataset, error) {
	stmt, err := Statement(dialect, cfg)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to query source: %w", err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	names := make([]string, len(colTypes))
	dbTypes := make([]string, len(colTypes))
	for i, ct := range colTypes {
		names[i] = ct.Name()
		dbTypes[i] = ct.DatabaseTypeName()
	}

	b, err := dataset.NewBuilder(names)
	if err != nil {
		return nil, err
	}

	raw := make([]interface{}, len(names))
	ptrs := make([]interface{}, len(names))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", b.Len()+1, err)
		}
		row := make([]types.Value, len(raw))
		for i, v := range raw {
			row[i] = types.FromDriver(v, dbTypes[i])
		}
		if err := b.Append(row); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return b.Build()
}
