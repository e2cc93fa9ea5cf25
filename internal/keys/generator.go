package keys

import "math"

// Generator streams candidates of size 1 through min(len(columns), maxKeyLen),
// size ascending, then in lexicographic order of column positions. Every
// subset of a candidate is therefore produced before the candidate itself.
// Memory use is independent of the number of candidates.
type Generator struct {
	columns []string
	maxLen  int
	idx     []int
	done    bool
}

// NewGenerator creates a generator. maxKeyLen is clamped to the column count;
// a non-positive maxKeyLen or an empty column list yields nothing.
func NewGenerator(columns []string, maxKeyLen int) *Generator {
	if maxKeyLen > len(columns) {
		maxKeyLen = len(columns)
	}
	g := &Generator{
		columns: columns,
		maxLen:  maxKeyLen,
	}
	if maxKeyLen <= 0 {
		g.done = true
	}
	return g
}

// MaxLen returns the effective (clamped) maximum candidate size.
func (g *Generator) MaxLen() int {
	if g.maxLen < 0 {
		return 0
	}
	return g.maxLen
}

// Next returns the next candidate, or false once the sequence is exhausted.
func (g *Generator) Next() (Candidate, bool) {
	if g.done {
		return Candidate{}, false
	}
	if g.idx == nil {
		g.idx = []int{0}
		return newCandidate(g.columns, g.idx), true
	}
	if !g.advance() {
		g.done = true
		return Candidate{}, false
	}
	return newCandidate(g.columns, g.idx), true
}

// advance moves idx to the next combination, growing the size when the
// current size class is exhausted.
func (g *Generator) advance() bool {
	n := len(g.columns)
	k := len(g.idx)
	for i := k - 1; i >= 0; i-- {
		if g.idx[i] < n-k+i {
			g.idx[i]++
			for j := i + 1; j < k; j++ {
				g.idx[j] = g.idx[j-1] + 1
			}
			return true
		}
	}
	if k >= g.maxLen {
		return false
	}
	g.idx = make([]int, k+1)
	for i := range g.idx {
		g.idx[i] = i
	}
	return true
}

// Count returns the total number of candidates the generator produces,
// saturating at math.MaxInt.
func (g *Generator) Count() int {
	total := 0
	for k := 1; k <= g.MaxLen(); k++ {
		c := binomial(len(g.columns), k)
		if c > math.MaxInt-total {
			return math.MaxInt
		}
		total += c
	}
	return total
}

// binomial returns C(n, k), saturating at math.MaxInt.
func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		// result * (n-k+i) / i stays integral at every step
		m := n - k + i
		if result > math.MaxInt/m {
			return math.MaxInt
		}
		result = result * m / i
	}
	return result
}
