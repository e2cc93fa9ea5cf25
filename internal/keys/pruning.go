package keys

import (
	"github.com/elliotchance/orderedmap/v2"
)

// PruningIndex rejects candidates without scanning rows. It knows the
// nullable columns of the dataset and the keys confirmed so far.
//
// The index is owned by one goroutine; the engine serialises every call.
type PruningIndex struct {
	nullable   map[string]bool
	alternates *orderedmap.OrderedMap[string, Candidate]
}

// NewPruningIndex creates an index over the given nullable columns.
func NewPruningIndex(nullable []string) *PruningIndex {
	set := make(map[string]bool, len(nullable))
	for _, c := range nullable {
		set[c] = true
	}
	return &PruningIndex{
		nullable:   set,
		alternates: orderedmap.NewOrderedMap[string, Candidate](),
	}
}

// NullableColumn returns the first column of c that holds a missing value.
func (p *PruningIndex) NullableColumn(c Candidate) (string, bool) {
	for _, name := range c.names {
		if p.nullable[name] {
			return name, true
		}
	}
	return "", false
}

// Subsuming returns the first recorded key, in insertion order, whose
// columns are all part of c.
func (p *PruningIndex) Subsuming(c Candidate) (Candidate, bool) {
	for el := p.alternates.Front(); el != nil; el = el.Next() {
		if el.Value.SubsetOf(c) {
			return el.Value, true
		}
	}
	return Candidate{}, false
}

// Record adds a confirmed key. Recording the same column set twice is a no-op.
func (p *PruningIndex) Record(c Candidate) {
	id := c.ID()
	if _, exists := p.alternates.Get(id); exists {
		return
	}
	p.alternates.Set(id, c)
}

// Len returns the number of recorded keys.
func (p *PruningIndex) Len() int {
	return p.alternates.Len()
}

// Alternates returns the recorded keys in insertion order.
func (p *PruningIndex) Alternates() []Candidate {
	out := make([]Candidate, 0, p.alternates.Len())
	for el := p.alternates.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}
