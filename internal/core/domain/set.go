package domain

import "sort"

// stringer constrains set elements to comparable identity values with a
// textual form, which fixes the deterministic iteration order.
type stringer interface {
	comparable
	String() string
}

// Set is an unordered collection of identity values. Iteration through Sorted
// is deterministic: ascending lexicographic order of the element's textual
// form.
type Set[E stringer] map[E]struct{}

// NewSet creates a set holding the given elements.
func NewSet[E stringer](elems ...E) Set[E] {
	s := make(Set[E], len(elems))
	for _, e := range elems {
		s[e] = struct{}{}
	}
	return s
}

// Add inserts an element into the set.
func (s Set[E]) Add(e E) {
	s[e] = struct{}{}
}

// AddAll inserts every element of the other set.
func (s Set[E]) AddAll(other Set[E]) {
	for e := range other {
		s[e] = struct{}{}
	}
}

// Has reports whether the element is in the set.
func (s Set[E]) Has(e E) bool {
	_, ok := s[e]
	return ok
}

// Delete removes an element from the set.
func (s Set[E]) Delete(e E) {
	delete(s, e)
}

// Len returns the number of elements.
func (s Set[E]) Len() int {
	return len(s)
}

// Equal reports whether both sets hold exactly the same elements.
func (s Set[E]) Equal(other Set[E]) bool {
	if len(s) != len(other) {
		return false
	}
	for e := range s {
		if _, ok := other[e]; !ok {
			return false
		}
	}
	return true
}

// Diff returns the elements of s that are not in other.
func (s Set[E]) Diff(other Set[E]) Set[E] {
	out := make(Set[E])
	for e := range s {
		if _, ok := other[e]; !ok {
			out[e] = struct{}{}
		}
	}
	return out
}

// Clone returns a copy of the set.
func (s Set[E]) Clone() Set[E] {
	out := make(Set[E], len(s))
	for e := range s {
		out[e] = struct{}{}
	}
	return out
}

// Sorted returns the elements in ascending order of their textual form.
func (s Set[E]) Sorted() []E {
	out := make([]E, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Strings returns the sorted textual forms of the elements. Used for error
// metadata and log output.
func (s Set[E]) Strings() []string {
	elems := s.Sorted()
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.String()
	}
	return out
}
