package queryir

import "github.com/mhafizyusof/speedment/internal/ir"

// IsColumnBound reports whether p is a pure conjunction of column
// predicates: every leaf of its AND-tree is a Compare, Between, In or
// IsNull. Or, Opaque and nil are never column-bound.
func IsColumnBound(p Predicate) bool {
	switch pred := p.(type) {
	case Compare:
		return ValidCompareOps[pred.Op]
	case Between, In, IsNull:
		return true
	case And:
		for _, sub := range pred.Predicates {
			if !IsColumnBound(sub) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Leaves flattens nested And predicates into their leaves in declaration
// order. Non-And predicates are returned as a single leaf.
func Leaves(p Predicate) []Predicate {
	and, ok := p.(And)
	if !ok {
		return []Predicate{p}
	}
	var out []Predicate
	for _, sub := range and.Predicates {
		out = append(out, Leaves(sub)...)
	}
	return out
}

// Column returns the column a leaf predicate is bound to.
func Column(p Predicate) (ir.ColumnRef, bool) {
	switch pred := p.(type) {
	case Compare:
		return pred.Column, true
	case Between:
		return pred.Column, true
	case In:
		return pred.Column, true
	case IsNull:
		return pred.Column, true
	default:
		return ir.ColumnRef{}, false
	}
}

// IsFieldComparator reports whether c is a single-column comparator and
// returns it.
func IsFieldComparator(c Comparator) (FieldComparator, bool) {
	fc, ok := c.(FieldComparator)
	return fc, ok
}

// Reverse returns the comparator with its direction flipped.
func (c FieldComparator) Reverse() FieldComparator {
	return FieldComparator{Column: c.Column, Reversed: !c.Reversed}
}
