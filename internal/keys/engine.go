package keys

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/puffinc/hercules/internal/logger"
	"github.com/puffinc/hercules/internal/types"
)

// progressInterval spaces out the info-level progress lines of long runs.
const progressInterval = 10 * time.Second

var (
	// ErrDuplicateColumns is returned when the dataset has two columns with the same name.
	ErrDuplicateColumns = errors.New("dataset has duplicate column names")
	// ErrRaggedDataset is returned when columns do not all have NumRows values.
	ErrRaggedDataset = errors.New("dataset columns have different lengths")
)

// Dataset is the read-only view of a table the engine searches.
type Dataset interface {
	ColumnNames() []string
	NumRows() int
	Values(column string) []types.Value
	HasMissing(column string) bool
}

// Options tune a discovery run.
type Options struct {
	// MaxKeyLen bounds candidate size. Non-positive values produce no candidates.
	MaxKeyLen int
	// Workers > 1 evaluates candidates of the same size concurrently.
	Workers int
	// ChunkSize is how many same-size candidates are evaluated per parallel batch.
	ChunkSize int
}

// Stats summarises a run.
type Stats struct {
	Candidates     int           `json:"candidates" yaml:"candidates"`
	PrunedNullable int           `json:"pruned_nullable" yaml:"pruned_nullable"`
	PrunedSubsumed int           `json:"pruned_subsumed" yaml:"pruned_subsumed"`
	Evaluated      int           `json:"evaluated" yaml:"evaluated"`
	Keys           int           `json:"keys" yaml:"keys"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
}

// Result is the outcome of Discover.
type Result struct {
	Verdicts   []Verdict  `json:"verdicts" yaml:"verdicts"`
	Alternates [][]string `json:"alternate_keys" yaml:"alternate_keys"`
	Nullable   []string   `json:"nullable_columns" yaml:"nullable_columns"`
	Stats      Stats      `json:"stats" yaml:"stats"`
}

// Engine runs the key search.
type Engine struct {
	opts   Options
	logger *logger.Logger
}

// NewEngine creates an engine. A nil logger falls back to the default logger.
func NewEngine(opts Options, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewDefault()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.ChunkSize < 1 {
		opts.ChunkSize = 256
	}
	return &Engine{opts: opts, logger: log}
}

// Discover runs the search and collects every verdict in generation order.
// When ctx ends mid-run, the verdicts produced so far are returned together
// with the error.
func (e *Engine) Discover(ctx context.Context, ds Dataset) (*Result, error) {
	res := &Result{}
	st, err := e.run(ctx, ds, func(v Verdict) error {
		res.Verdicts = append(res.Verdicts, v)
		return nil
	})
	if st != nil {
		res.Stats = st.stats
		res.Nullable = st.nullable
		for _, c := range st.index.Alternates() {
			res.Alternates = append(res.Alternates, c.Columns())
		}
	}
	return res, err
}

// Run streams verdicts to emit in generation order. An error from emit stops
// the run and is returned.
func (e *Engine) Run(ctx context.Context, ds Dataset, emit func(Verdict) error) (Stats, error) {
	st, err := e.run(ctx, ds, emit)
	if st == nil {
		return Stats{}, err
	}
	return st.stats, err
}

// runState is what a run leaves behind for Discover.
type runState struct {
	index    *PruningIndex
	nullable []string
	stats    Stats

	total    int
	progress *rate.Limiter
}

func (e *Engine) run(ctx context.Context, ds Dataset, emit func(Verdict) error) (*runState, error) {
	start := time.Now()

	names := ds.ColumnNames()
	if err := checkDataset(ds, names); err != nil {
		return nil, err
	}

	st := &runState{index: NewPruningIndex(nil)}

	gen := NewGenerator(names, e.opts.MaxKeyLen)
	if gen.MaxLen() == 0 {
		e.logger.Debugw("Key discovery has no candidates",
			"columns", len(names),
			"max_key_len", e.opts.MaxKeyLen,
		)
		return st, nil
	}

	for _, name := range names {
		if ds.HasMissing(name) {
			st.nullable = append(st.nullable, name)
		}
	}
	st.index = NewPruningIndex(st.nullable)
	st.total = gen.Count()
	st.progress = rate.NewLimiter(rate.Every(progressInterval), 1)

	e.logger.Infow("Starting key discovery",
		"columns", len(names),
		"rows", ds.NumRows(),
		"max_key_len", gen.MaxLen(),
		"candidates", st.total,
		"nullable_columns", st.nullable,
		"workers", e.opts.Workers,
	)

	var err error
	if e.opts.Workers > 1 {
		err = e.runParallel(ctx, ds, gen, st, emit)
	} else {
		err = e.runSequential(ctx, ds, gen, st, emit)
	}
	st.stats.Duration = time.Since(start)

	if err != nil {
		e.logger.Warnw("Key discovery stopped early",
			"error", err,
			"candidates_done", st.stats.Candidates,
		)
		return st, err
	}

	e.logger.Infow("Key discovery complete",
		"candidates", st.stats.Candidates,
		"keys", st.stats.Keys,
		"pruned_nullable", st.stats.PrunedNullable,
		"pruned_subsumed", st.stats.PrunedSubsumed,
		"evaluated", st.stats.Evaluated,
		"duration", st.stats.Duration,
	)
	return st, nil
}

// checkDataset enforces the contract the search relies on.
func checkDataset(ds Dataset, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return fmt.Errorf("%w: %q", ErrDuplicateColumns, n)
		}
		seen[n] = true
	}

	rows := ds.NumRows()
	for _, n := range names {
		if got := len(ds.Values(n)); got != rows {
			return fmt.Errorf("%w: column %q has %d values, dataset has %d rows",
				ErrRaggedDataset, n, got, rows)
		}
	}
	return nil
}

// prune applies the cheap checks. It returns the verdict and true when the
// candidate is settled without a scan.
func (e *Engine) prune(st *runState, c Candidate) (Verdict, bool) {
	if col, ok := st.index.NullableColumn(c); ok {
		st.stats.PrunedNullable++
		return nullableVerdict(c, col), true
	}
	if sub, ok := st.index.Subsuming(c); ok {
		// Redundant supersets are not recorded: the subkey already prunes
		// everything they would.
		st.stats.PrunedSubsumed++
		return subsumedVerdict(c, sub), true
	}
	return Verdict{}, false
}

// settle turns an evaluation result into a verdict, recording new keys.
func (e *Engine) settle(st *runState, c Candidate, dup *Duplicate) Verdict {
	st.stats.Evaluated++
	if dup == nil {
		st.index.Record(c)
		st.stats.Keys++
		return keyVerdict(c)
	}
	return duplicateVerdict(c, dup)
}

func (e *Engine) emit(st *runState, v Verdict, emit func(Verdict) error) error {
	st.stats.Candidates++
	e.logger.Debugw("Candidate resolved",
		"candidate", joinKey(v.Key),
		"is_key", v.IsKey,
		"reason", string(v.Reason.Kind),
	)
	if st.progress != nil && st.progress.Allow() {
		e.logger.Infow("Key discovery progress",
			"candidates_done", st.stats.Candidates,
			"candidates_total", st.total,
			"keys", st.stats.Keys,
		)
	}
	return emit(v)
}

func (e *Engine) runSequential(ctx context.Context, ds Dataset, gen *Generator, st *runState, emit func(Verdict) error) error {
	size := 1
	for c, ok := gen.Next(); ok; c, ok = gen.Next() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("key discovery interrupted: %w", err)
		}
		if c.Size() != size {
			e.logSizeDone(size, st)
			size = c.Size()
		}

		v, pruned := e.prune(st, c)
		if !pruned {
			dup, err := Evaluate(ctx, ds, c)
			if err != nil {
				return fmt.Errorf("key discovery interrupted: %w", err)
			}
			v = e.settle(st, c, dup)
		}
		if err := e.emit(st, v, emit); err != nil {
			return err
		}
	}
	e.logSizeDone(size, st)
	return nil
}

// runParallel evaluates same-size candidates in chunks. Two different
// candidates of one size can never contain each other, so pruning a chunk
// against the keys recorded before it gives the sequential answer. Keys found
// in a chunk are recorded in generation order once the chunk completes, and
// a size change always flushes the pending chunk first.
func (e *Engine) runParallel(ctx context.Context, ds Dataset, gen *Generator, st *runState, emit func(Verdict) error) error {
	pending := make([]Candidate, 0, e.opts.ChunkSize)

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		verdicts := make([]Verdict, len(pending))
		pruned := make([]bool, len(pending))
		dups := make([]*Duplicate, len(pending))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.opts.Workers)
		for i, c := range pending {
			if v, ok := e.prune(st, c); ok {
				verdicts[i] = v
				pruned[i] = true
				continue
			}
			i, c := i, c
			g.Go(func() error {
				dup, err := Evaluate(gctx, ds, c)
				dups[i] = dup
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("key discovery interrupted: %w", err)
		}

		for i, c := range pending {
			if !pruned[i] {
				verdicts[i] = e.settle(st, c, dups[i])
			}
			if err := e.emit(st, verdicts[i], emit); err != nil {
				return err
			}
		}
		pending = pending[:0]
		return nil
	}

	size := 1
	for c, ok := gen.Next(); ok; c, ok = gen.Next() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("key discovery interrupted: %w", err)
		}
		if c.Size() != size {
			if err := flush(); err != nil {
				return err
			}
			e.logSizeDone(size, st)
			size = c.Size()
		}
		pending = append(pending, c)
		if len(pending) == e.opts.ChunkSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	e.logSizeDone(size, st)
	return nil
}

func (e *Engine) logSizeDone(size int, st *runState) {
	e.logger.Debugw("Candidate size class complete",
		"size", size,
		"candidates_done", st.stats.Candidates,
		"keys", st.stats.Keys,
	)
}
