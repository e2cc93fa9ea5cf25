// Package report assembles profiling and key discovery results and renders
// them as text, JSON or YAML.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/puffinc/hercules/internal/keys"
	"github.com/puffinc/hercules/internal/profile"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for a format other than text, json or yaml.
var ErrUnknownFormat = errors.New("unknown report format")

// Report is everything one run produced. Profile is nil for a keys-only run.
type Report struct {
	RunID       string           `json:"run_id" yaml:"run_id"`
	Source      string           `json:"source" yaml:"source"`
	GeneratedAt time.Time        `json:"generated_at" yaml:"generated_at"`
	MaxKeyLen   int              `json:"max_key_len" yaml:"max_key_len"`
	Profile     *profile.Profile `json:"profile,omitempty" yaml:"profile,omitempty"`
	Keys        *keys.Result     `json:"keys,omitempty" yaml:"keys,omitempty"`
	// Incomplete is set when key discovery stopped before exhausting the
	// candidates, e.g. on timeout.
	Incomplete string `json:"incomplete,omitempty" yaml:"incomplete,omitempty"`
}

// Options control rendering.
type Options struct {
	Format   string
	Color    bool
	KeysOnly bool // drop rejected candidates from the verdict list
}

// Render writes r to w in the requested format.
func Render(w io.Writer, r *Report, opts Options) error {
	if opts.KeysOnly {
		r = r.keysOnly()
	}

	switch opts.Format {
	case FormatText, "":
		return newTextRenderer(w, opts.Color).render(r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

// Write renders r to output: "stdout", "" or a file path.
func Write(r *Report, opts Options, output string) error {
	if output == "" || output == "stdout" {
		return Render(os.Stdout, r, opts)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := Render(f, r, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// keysOnly returns a shallow copy whose verdicts are only confirmed keys.
func (r *Report) keysOnly() *Report {
	if r.Keys == nil {
		return r
	}
	cp := *r
	res := *r.Keys
	res.Verdicts = keys.Keys(res.Verdicts)
	cp.Keys = &res
	return &cp
}
