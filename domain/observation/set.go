// Package observation holds grouped measurements keyed by (group, category)
// with first-seen label ordering.
package observation

import (
	"fmt"
)

// Label identifies a group or a category.
type Label string

func (l Label) String() string { return string(l) }

// Index is an ordered label -> position mapping. Positions are assigned in
// first-seen order and never change.
type Index struct {
	labels []Label
	pos    map[Label]int
}

func newIndex() *Index {
	return &Index{pos: make(map[Label]int)}
}

// add registers l if unseen and returns its position.
func (x *Index) add(l Label) int {
	if i, ok := x.pos[l]; ok {
		return i
	}
	x.pos[l] = len(x.labels)
	x.labels = append(x.labels, l)
	return len(x.labels) - 1
}

// Position returns the index of l.
func (x *Index) Position(l Label) (int, bool) {
	i, ok := x.pos[l]
	return i, ok
}

// Labels returns a copy of the labels in order.
func (x *Index) Labels() []Label {
	out := make([]Label, len(x.labels))
	copy(out, x.labels)
	return out
}

func (x *Index) Len() int { return len(x.labels) }

type key struct {
	group    Label
	category Label
}

// Set maps (group, category) to an ordered list of measurements.
type Set struct {
	groups     *Index
	categories *Index
	perGroup   map[Label]*Index
	values     map[key][]float64
}

// Row is one long-format record: one measurement for one (group, category).
type Row struct {
	Group    Label   `json:"group"`
	Category Label   `json:"category"`
	Value    float64 `json:"value"`
}

// Series is the wide form of a (group, category) cell.
type Series struct {
	Group    Label     `json:"group"`
	Category Label     `json:"category"`
	Values   []float64 `json:"values"`
}

// NewSet creates an empty observation set.
func NewSet() *Set {
	return &Set{
		groups:     newIndex(),
		categories: newIndex(),
		perGroup:   make(map[Label]*Index),
		values:     make(map[key][]float64),
	}
}

// FromRows reshapes long-format rows into a Set, keeping first-seen order of
// groups and categories.
func FromRows(rows []Row) *Set {
	s := NewSet()
	for _, r := range rows {
		s.Add(r.Group, r.Category, r.Value)
	}
	return s
}

// FromSeries builds a Set from wide-form cells, in slice order.
func FromSeries(series []Series) *Set {
	s := NewSet()
	for _, sr := range series {
		s.Add(sr.Group, sr.Category, sr.Values...)
	}
	return s
}

// Add appends values to (group, category). Calling Add with no values still
// registers the labels, which lets callers express an empty cell.
func (s *Set) Add(group, category Label, values ...float64) {
	s.groups.add(group)
	s.categories.add(category)
	idx, ok := s.perGroup[group]
	if !ok {
		idx = newIndex()
		s.perGroup[group] = idx
	}
	idx.add(category)

	k := key{group, category}
	s.values[k] = append(s.values[k], values...)
}

// Groups returns group labels in first-seen order.
func (s *Set) Groups() []Label { return s.groups.Labels() }

// Categories returns all category labels in global first-seen order.
func (s *Set) Categories() []Label { return s.categories.Labels() }

// GroupIndex exposes the ordered group mapping.
func (s *Set) GroupIndex() *Index { return s.groups }

// CategoryIndex exposes the global ordered category mapping.
func (s *Set) CategoryIndex() *Index { return s.categories }

// GroupCategories returns the categories observed within group, in the order
// they were first seen for that group.
func (s *Set) GroupCategories(group Label) []Label {
	idx, ok := s.perGroup[group]
	if !ok {
		return nil
	}
	return idx.Labels()
}

// Values returns a copy of the measurements of (group, category).
func (s *Set) Values(group, category Label) []float64 {
	v := s.values[key{group, category}]
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// Has reports whether (group, category) was registered.
func (s *Set) Has(group, category Label) bool {
	_, ok := s.values[key{group, category}]
	return ok
}

// Len returns the total number of measurements.
func (s *Set) Len() int {
	n := 0
	for _, v := range s.values {
		n += len(v)
	}
	return n
}

// Series returns the wide form in group then per-group category order.
func (s *Set) Series() []Series {
	out := make([]Series, 0, len(s.values))
	for _, g := range s.groups.labels {
		for _, c := range s.perGroup[g].labels {
			out = append(out, Series{Group: g, Category: c, Values: s.Values(g, c)})
		}
	}
	return out
}

func (s *Set) String() string {
	return fmt.Sprintf("observation.Set{groups=%d categories=%d n=%d}", s.groups.Len(), s.categories.Len(), s.Len())
}
