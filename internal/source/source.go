// Package source loads datasets from CSV files, local or in S3-compatible
// storage, and from SQL databases.
package source

import (
	"context"
	"fmt"

	"github.com/puffinc/hercules/internal/config"
	"github.com/puffinc/hercules/internal/database"
	"github.com/puffinc/hercules/internal/dataset"
	"github.com/puffinc/hercules/internal/logger"
)

// ParseError reports malformed CSV input at a 1-based line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("CSV parse error on line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Open loads the dataset described by cfg. SQL sources are connected through
// a database.Manager that is closed before Open returns.
func Open(ctx context.Context, cfg *config.SourceConfig, log *logger.Logger) (*dataset.Dataset, error) {
	if log == nil {
		log = logger.NewDefault()
	}
	log = log.WithSource(cfg.Name())

	switch {
	case cfg.Type == config.SourceCSV || cfg.Type == "":
		opts, err := CSVOptionsFrom(cfg)
		if err != nil {
			return nil, err
		}
		log.Debugw("Reading CSV", "path", cfg.Path, "encoding", cfg.Encoding,
			"compression", string(CompressionFor(cfg.Path)))
		var ds *dataset.Dataset
		if IsObjectURL(cfg.Path) {
			ds, err = LoadObjectCSV(ctx, cfg, opts)
		} else {
			ds, err = LoadCSV(ctx, cfg.Path, opts)
		}
		if err != nil {
			return nil, err
		}
		log.Infow("Dataset loaded", "rows", ds.NumRows(), "columns", ds.NumColumns())
		return ds, nil

	case cfg.IsSQL():
		mgr := database.NewManager(cfg, log)
		if err := mgr.Connect(ctx); err != nil {
			return nil, err
		}
		defer mgr.Close()

		ds, err := ReadSQL(ctx, mgr.Source, mgr.Dialect(), cfg)
		if err != nil {
			return nil, err
		}
		log.Infow("Dataset loaded", "rows", ds.NumRows(), "columns", ds.NumColumns())
		return ds, nil

	default:
		return nil, fmt.Errorf("unsupported source type %q", cfg.Type)
	}
}
