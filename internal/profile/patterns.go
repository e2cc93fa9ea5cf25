package profile

import (
	"regexp"

	"github.com/puffinc/hercules/internal/dataset"
)

// Pattern is a named textual shape values are checked against.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

// DefaultPatterns are checked for every column, in report order.
var DefaultPatterns = []Pattern{
	{Name: "letters", re: regexp.MustCompile(`^[a-zA-Z]*$`)},
	{Name: "text", re: regexp.MustCompile(`^[A-Za-z0-9.,;:!?()"%\-]*$`)},
	{Name: "numeric", re: regexp.MustCompile(`^[0-9]*$`)},
	{Name: "decimal", re: regexp.MustCompile(`^\d*(\.\d+)?$`)},
	{Name: "alphanumeric", re: regexp.MustCompile(`^[A-Za-z0-9]*$`)},
}

// PatternResult is the outcome of one pattern over one column.
type PatternResult struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Matches bool   `json:"matches" yaml:"matches"`
	// Example is the last present value that did not match.
	Example string `json:"example,omitempty" yaml:"example,omitempty"`
}

// PatternProfile groups the pattern results of one column.
type PatternProfile struct {
	Column  string          `json:"column" yaml:"column"`
	Results []PatternResult `json:"results" yaml:"results"`
}

// Patterns checks the string form of every present value against
// DefaultPatterns. A column with no present values matches everything.
func Patterns(col dataset.Column) PatternProfile {
	prof := PatternProfile{Column: col.Name}
	for _, p := range DefaultPatterns {
		res := PatternResult{Pattern: p.Name, Matches: true}
		for _, v := range col.Values {
			if v.IsMissing() {
				continue
			}
			s := v.String()
			if !p.re.MatchString(s) {
				res.Matches = false
				res.Example = s
			}
		}
		prof.Results = append(prof.Results, res)
	}
	return prof
}
