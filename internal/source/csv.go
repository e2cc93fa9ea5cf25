package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/puffinc/hercules/internal/config"
	"github.com/puffinc/hercules/internal/dataset"
	"github.com/puffinc/hercules/internal/types"
)

// rowsPerCancelCheck is how many records are read between context checks.
const rowsPerCancelCheck = 4096

// CSVOptions controls how delimited text is turned into a dataset.
type CSVOptions struct {
	Delimiter  rune
	Encoding   string // WHATWG/IANA charset label; empty means utf-8
	HasHeader  bool
	NAValues   []string
	InferTypes bool
	MaxRows    int // 0 = unlimited
}

// CSVOptionsFrom maps source configuration onto CSV reader options.
func CSVOptionsFrom(cfg *config.SourceConfig) (CSVOptions, error) {
	delim := ','
	if cfg.Delimiter != "" {
		if cfg.Delimiter == `\t` {
			delim = '\t'
		} else {
			r, size := utf8.DecodeRuneInString(cfg.Delimiter)
			if size != len(cfg.Delimiter) {
				return CSVOptions{}, fmt.Errorf("delimiter must be a single character, got %q", cfg.Delimiter)
			}
			delim = r
		}
	}
	return CSVOptions{
		Delimiter:  delim,
		Encoding:   cfg.Encoding,
		HasHeader:  cfg.HasHeader,
		NAValues:   cfg.NAMarkers(),
		InferTypes: cfg.InferTypes,
		MaxRows:    cfg.MaxRows,
	}, nil
}

// LoadCSV reads the CSV file at path. Files ending in .gz, .zst or .lz4 are
// decompressed on the fly.
func LoadCSV(ctx context.Context, path string, opts CSVOptions) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	r, release, err := decompress(f, CompressionFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer release()

	ds, err := ReadCSV(ctx, r, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV decodes r with the configured charset and builds a dataset. A
// leading byte order mark is dropped whatever the charset. Cells equal to an
// NA marker become missing values. With type inference on, a column whose
// present cells all parse as numbers becomes numeric, one whose cells all
// parse as booleans becomes boolean, and anything else stays text.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) (*dataset.Dataset, error) {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())))
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return dataset.New(nil)
	}
	if err != nil {
		return nil, wrapCSVError(err)
	}

	var names []string
	var records [][]string
	if opts.HasHeader {
		names = headerNames(first)
	} else {
		names = positionalNames(len(first))
		records = append(records, first)
	}

	if dups := dataset.DuplicateNames(names); len(dups) > 0 {
		return nil, fmt.Errorf("%w: %s", dataset.ErrDuplicateColumn, strings.Join(dups, ", "))
	}

	for opts.MaxRows <= 0 || len(records) < opts.MaxRows {
		if len(records)%rowsPerCancelCheck == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("CSV read interrupted: %w", err)
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapCSVError(err)
		}
		records = append(records, rec)
	}

	na := make(map[string]bool, len(opts.NAValues))
	for _, v := range opts.NAValues {
		na[v] = true
	}

	columns := make([]dataset.Column, len(names))
	for c, name := range names {
		raw := make([]string, len(records))
		for i, rec := range records {
			raw[i] = rec[c]
		}
		columns[c] = dataset.Column{Name: name, Values: convertColumn(raw, na, opts.InferTypes)}
	}
	return dataset.New(columns)
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	return enc, nil
}

// headerNames fills in blank header cells the way spreadsheet exports are
// usually read back: "Unnamed: <position>".
func headerNames(header []string) []string {
	names := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		names[i] = h
	}
	return names
}

func positionalNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}

// convertColumn applies NA markers and, optionally, column type inference.
func convertColumn(raw []string, na map[string]bool, infer bool) []types.Value {
	out := make([]types.Value, len(raw))

	allNumber, allBool := infer, infer
	for _, s := range raw {
		if na[s] {
			continue
		}
		if allNumber {
			if _, ok := types.ParseNumber(s); !ok {
				allNumber = false
			}
		}
		if allBool {
			if _, ok := types.ParseBool(s); !ok {
				allBool = false
			}
		}
		if !allNumber && !allBool {
			break
		}
	}

	for i, s := range raw {
		switch {
		case na[s]:
			out[i] = types.Missing()
		case allNumber:
			f, _ := types.ParseNumber(s)
			out[i] = types.Number(f)
		case allBool:
			b, _ := types.ParseBool(s)
			out[i] = types.Bool(b)
		default:
			out[i] = types.Text(s)
		}
	}
	return out
}

func wrapCSVError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("failed to read CSV: %w", err)
}
