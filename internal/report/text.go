package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/puffinc/hercules/internal/keys"
	"github.com/puffinc/hercules/internal/profile"
	"github.com/puffinc/hercules/internal/types"
)

// maxCellWidth truncates long cell values in text tables.
const maxCellWidth = 40

var (
	headerStyle  = color.New(color.FgCyan, color.OpBold)
	sectionStyle = color.New(color.FgYellow, color.OpBold)
	keyStyle     = color.New(color.FgGreen)
	rejectStyle  = color.New(color.FgRed)
	warnStyle    = color.New(color.FgRed, color.OpBold)
)

// textRenderer writes the human-readable report. Errors from the writer are
// kept and returned once rendering ends.
type textRenderer struct {
	w     io.Writer
	color bool
	err   error
}

func newTextRenderer(w io.Writer, useColor bool) *textRenderer {
	return &textRenderer{w: w, color: useColor}
}

func (t *textRenderer) paint(style color.Style, s string) string {
	if !t.color {
		return s
	}
	return style.Sprint(s)
}

func (t *textRenderer) printf(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textRenderer) println(s string) {
	t.printf("%s\n", s)
}

// header prints a boxed title.
func (t *textRenderer) header(format string, args ...interface{}) {
	title := fmt.Sprintf(format, args...)
	line := strings.Repeat("=", runewidth.StringWidth(title)+4)
	t.println(t.paint(headerStyle, line))
	t.println(t.paint(headerStyle, "  "+title))
	t.println(t.paint(headerStyle, line))
}

// section prints a section title.
func (t *textRenderer) section(title string) {
	t.println("")
	t.println(t.paint(sectionStyle, "["+title+"]"))
	t.println(strings.Repeat("-", runewidth.StringWidth(title)+2))
}

func (t *textRenderer) render(r *Report) error {
	t.header("Hercules report: %s", r.Source)
	t.printf("  Run ID:    %s\n", r.RunID)
	if !r.GeneratedAt.IsZero() {
		t.printf("  Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	}

	if r.Profile != nil {
		t.renderProfile(r.Profile)
	}
	if r.Keys != nil {
		t.renderKeys(r.Keys, r.MaxKeyLen)
	}
	if r.Incomplete != "" {
		t.println("")
		t.println(t.paint(warnStyle, "WARNING - key discovery incomplete: "+r.Incomplete))
	}
	return t.err
}

func (t *textRenderer) renderProfile(p *profile.Profile) {
	t.section("Shape")
	t.printf("  %d columns ; %d rows (excluding header)\n", p.Shape.Columns, p.Shape.Rows)
	t.printf("  The dataset has %d columns, of which %d are distinct\n", p.Shape.Columns, p.Shape.DistinctNames)
	if p.Shape.HasDuplicateNames() {
		t.println(t.paint(warnStyle, "  WARNING - duplicated column name: key discovery is not possible"))
	}

	t.section(fmt.Sprintf("Head (%d rows)", len(p.Head)))
	head := newTable(p.Columns...)
	for _, row := range p.Head {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		head.add(cells...)
	}
	t.table(head)

	t.section("Missing values")
	nulls := newTable("column", "len", "nulls", "null_%")
	for _, n := range p.Nulls {
		nulls.add(n.Column, strconv.Itoa(n.Length), strconv.Itoa(n.Nulls), formatFloat(n.Percent))
	}
	t.table(nulls)

	numeric := newTable("column", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	text := newTable("column", "count", "unique", "top", "freq")
	for _, s := range p.Summaries {
		switch {
		case s.Numeric != nil:
			n := s.Numeric
			std := "NaN"
			if n.Std != nil {
				std = formatFloat(*n.Std)
			}
			numeric.add(s.Column, strconv.Itoa(n.Count), formatFloat(n.Mean), std,
				formatFloat(n.Min), formatFloat(n.P25), formatFloat(n.P50), formatFloat(n.P75), formatFloat(n.Max))
		case s.Text != nil:
			x := s.Text
			text.add(s.Column, strconv.Itoa(x.Count), strconv.Itoa(x.Unique), x.Top.String(), strconv.Itoa(x.Freq))
		}
	}
	t.section("Numeric columns")
	t.table(numeric)
	t.section("Non-numeric columns")
	t.table(text)

	t.section("Values")
	values := newTable("column", "distinct", "class", "samples")
	for _, v := range p.Values {
		values.add(v.Column, strconv.Itoa(v.Distinct), string(v.Class), formatSamples(v.Samples))
	}
	t.table(values)

	t.section("Patterns (non-missing values)")
	cols := []string{"column"}
	for _, pat := range profile.DefaultPatterns {
		cols = append(cols, pat.Name)
	}
	patterns := newTable(cols...)
	for _, pp := range p.Patterns {
		cells := []string{pp.Column}
		for _, res := range pp.Results {
			if res.Matches {
				cells = append(cells, "yes")
			} else {
				cells = append(cells, "no ("+res.Example+")")
			}
		}
		patterns.add(cells...)
	}
	t.table(patterns)
}

func (t *textRenderer) renderKeys(res *keys.Result, maxKeyLen int) {
	t.section(fmt.Sprintf("Business keys (max length %d)", maxKeyLen))

	tbl := newTable("key", "is_key", "reason")
	for _, v := range res.Verdicts {
		tbl.add(strings.Join(v.Key, ", "), strconv.FormatBool(v.IsKey), v.Reason.String())
	}
	t.tableWith(tbl, func(row int, line string) string {
		if res.Verdicts[row].IsKey {
			return t.paint(keyStyle, line)
		}
		return t.paint(rejectStyle, line)
	})

	t.println("")
	if len(res.Alternates) == 0 {
		t.println("  No key found.")
	} else {
		for _, k := range res.Alternates {
			t.println("  " + t.paint(keyStyle, "key: ["+strings.Join(k, ", ")+"]"))
		}
	}
	if len(res.Nullable) > 0 {
		t.printf("  Nullable columns: %s\n", strings.Join(res.Nullable, ", "))
	}
	s := res.Stats
	t.printf("  %d candidates: %d keys, %d duplicates, %d nullable, %d subsumed (%s)\n",
		s.Candidates, s.Keys, s.Evaluated-s.Keys, s.PrunedNullable, s.PrunedSubsumed,
		s.Duration.Round(time.Millisecond))
}

func (t *textRenderer) table(tbl *table) {
	t.tableWith(tbl, nil)
}

// tableWith prints tbl; style, when set, decorates each body line.
func (t *textRenderer) tableWith(tbl *table, style func(row int, line string) string) {
	if len(tbl.rows) == 0 {
		t.println("  (none)")
		return
	}
	widths := tbl.widths()
	t.println("  " + tbl.line(tbl.headers, widths))
	t.println("  " + tbl.rule(widths))
	for i, row := range tbl.rows {
		line := tbl.line(row, widths)
		if style != nil {
			line = style(i, line)
		}
		t.println("  " + line)
	}
}

// table is a left-aligned text grid measured in terminal cells.
type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers}
}

func (tb *table) add(cells ...string) {
	for i, c := range cells {
		c = strings.ReplaceAll(c, "\n", " ")
		cells[i] = runewidth.Truncate(c, maxCellWidth, "…")
	}
	tb.rows = append(tb.rows, cells)
}

func (tb *table) widths() []int {
	w := make([]int, len(tb.headers))
	for i, h := range tb.headers {
		w[i] = runewidth.StringWidth(h)
	}
	for _, row := range tb.rows {
		for i, c := range row {
			if i < len(w) {
				if cw := runewidth.StringWidth(c); cw > w[i] {
					w[i] = cw
				}
			}
		}
	}
	return w
}

func (tb *table) line(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i := range widths {
		c := ""
		if i < len(cells) {
			c = cells[i]
		}
		parts[i] = runewidth.FillRight(c, widths[i])
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

func (tb *table) rule(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	return strings.Join(parts, "  ")
}

// formatFloat prints at most four decimals.
func formatFloat(f float64) string {
	return strconv.FormatFloat(math.Round(f*1e4)/1e4, 'f', -1, 64)
}

func formatSamples(samples []types.Value) string {
	parts := make([]string, len(samples))
	for i, v := range samples {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
