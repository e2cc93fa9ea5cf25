// Package profile computes per-column statistics for a dataset: null tallies,
// distinct-value classes, textual pattern checks and numeric or categorical
// summaries. It also supplies the nullable column set key discovery prunes
// with.
package profile

import (
	"context"
	"fmt"

	"github.com/puffinc/hercules/internal/dataset"
	"github.com/puffinc/hercules/internal/logger"
	"github.com/puffinc/hercules/internal/types"
)

// DefaultSampleRows is used when Options.SampleRows is not positive.
const DefaultSampleRows = 10

// Options tune profiling.
type Options struct {
	// SampleRows bounds the head rows and the distinct-value samples.
	SampleRows int
}

// Shape is the size of the dataset.
type Shape struct {
	Rows          int `json:"rows" yaml:"rows"`
	Columns       int `json:"columns" yaml:"columns"`
	DistinctNames int `json:"distinct_names" yaml:"distinct_names"`
}

// Profile is the full set of column statistics.
type Profile struct {
	Shape     Shape            `json:"shape" yaml:"shape"`
	Columns   []string         `json:"columns" yaml:"columns"`
	Head      [][]types.Value  `json:"head" yaml:"head"`
	Nulls     []NullStats      `json:"nulls" yaml:"nulls"`
	Summaries []ColumnSummary  `json:"summaries" yaml:"summaries"`
	Values    []ValueStats     `json:"values" yaml:"values"`
	Patterns  []PatternProfile `json:"patterns" yaml:"patterns"`
	Nullable  []string         `json:"nullable_columns" yaml:"nullable_columns"`
}

// Profiler runs the profiling pipeline.
type Profiler struct {
	opts   Options
	logger *logger.Logger
}

// NewProfiler creates a profiler. A nil logger falls back to the default logger.
func NewProfiler(opts Options, log *logger.Logger) *Profiler {
	if log == nil {
		log = logger.NewDefault()
	}
	if opts.SampleRows <= 0 {
		opts.SampleRows = DefaultSampleRows
	}
	return &Profiler{opts: opts, logger: log}
}

// Run profiles every column of ds, in column order: shape, head, nulls,
// summaries, values, patterns.
func (p *Profiler) Run(ctx context.Context, ds *dataset.Dataset) (*Profile, error) {
	names := ds.ColumnNames()
	prof := &Profile{
		Shape:    ShapeOf(names, ds.NumRows()),
		Columns:  names,
		Head:     ds.Head(p.opts.SampleRows),
		Nullable: NullableColumns(ds),
	}

	p.logger.Infow("Profiling dataset",
		"rows", prof.Shape.Rows,
		"columns", prof.Shape.Columns,
	)

	for _, col := range ds.Columns() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("profiling interrupted: %w", err)
		}
		log := p.logger.WithColumn(col.Name)

		prof.Nulls = append(prof.Nulls, Nulls(col))
		prof.Summaries = append(prof.Summaries, Describe(col))
		prof.Values = append(prof.Values, Values(col, p.opts.SampleRows))
		prof.Patterns = append(prof.Patterns, Patterns(col))

		log.Debugw("Column profiled",
			"nulls", prof.Nulls[len(prof.Nulls)-1].Nulls,
			"distinct", prof.Values[len(prof.Values)-1].Distinct,
		)
	}
	return prof, nil
}

// ShapeOf counts rows, columns and distinct column names.
func ShapeOf(names []string, rows int) Shape {
	distinct := make(map[string]struct{}, len(names))
	for _, n := range names {
		distinct[n] = struct{}{}
	}
	return Shape{Rows: rows, Columns: len(names), DistinctNames: len(distinct)}
}

// HasDuplicateNames reports whether two columns share a name.
func (s Shape) HasDuplicateNames() bool {
	return s.DistinctNames != s.Columns
}

// NullableColumns returns the columns holding at least one missing value, in
// column order.
func NullableColumns(ds *dataset.Dataset) []string {
	var out []string
	for _, name := range ds.ColumnNames() {
		if ds.HasMissing(name) {
			out = append(out, name)
		}
	}
	return out
}
