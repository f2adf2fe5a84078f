package engine

import (
	"fmt"
	"slices"

	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/queryir"
)

// Evaluate applies p to rows in-process and returns the result. rows is
// not modified.
//
// Evaluation follows SQLite semantics so that pushed and in-process steps
// agree: a comparison involving NULL never matches, NULL sorts first in
// ascending order, and sorts are stable so a later Sorted takes
// precedence over an earlier one.
func Evaluate(p *queryir.Pipeline, rows []ir.IRObject) ([]ir.IRObject, error) {
	out := slices.Clone(rows)
	if out == nil {
		out = []ir.IRObject{}
	}
	if p == nil {
		return out, nil
	}

	for i, op := range p.Operations() {
		var err error
		out, err = apply(op, out)
		if err != nil {
			return nil, fmt.Errorf("step %d %s: %w", i, queryir.Describe(op), err)
		}
	}
	return out, nil
}

func apply(op queryir.Operation, rows []ir.IRObject) ([]ir.IRObject, error) {
	switch o := op.(type) {
	case *queryir.Filter:
		kept := rows[:0:0]
		for _, row := range rows {
			ok, err := Matches(o.Predicate, row)
			if err != nil {
				return nil, err
			}
			if ok {
				kept = append(kept, row)
			}
		}
		return kept, nil

	case *queryir.Sorted:
		cmp, err := RowComparator(o.Comparator)
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(rows, cmp)
		return rows, nil

	case *queryir.Skip:
		if o.N >= int64(len(rows)) {
			return rows[:0], nil
		}
		return rows[o.N:], nil

	case *queryir.Limit:
		if o.N < int64(len(rows)) {
			return rows[:o.N], nil
		}
		return rows, nil

	case *queryir.Map:
		if o.Fn == nil {
			return nil, fmt.Errorf("map %q has no function", o.Label)
		}
		mapped := make([]ir.IRObject, len(rows))
		for i, row := range rows {
			mapped[i] = o.Fn(row.Clone())
		}
		return mapped, nil

	case *queryir.Distinct:
		seen := make(map[string]bool, len(rows))
		kept := rows[:0:0]
		for _, row := range rows {
			key, err := ir.MarshalCanonical(row)
			if err != nil {
				return nil, fmt.Errorf("distinct key: %w", err)
			}
			if seen[string(key)] {
				continue
			}
			seen[string(key)] = true
			kept = append(kept, row)
		}
		return kept, nil

	default:
		return nil, fmt.Errorf("unsupported operation %T", op)
	}
}

// Matches evaluates a predicate against one row using the same NULL
// semantics as Evaluate.
func Matches(p queryir.Predicate, row ir.IRObject) (bool, error) {
	switch pred := p.(type) {
	case queryir.Compare:
		c, ok := compareNonNull(row[pred.Column.Column], pred.Value)
		if !ok {
			return false, nil
		}
		switch pred.Op {
		case queryir.OpEq:
			return c == 0, nil
		case queryir.OpNe:
			return c != 0, nil
		case queryir.OpLt:
			return c < 0, nil
		case queryir.OpLe:
			return c <= 0, nil
		case queryir.OpGt:
			return c > 0, nil
		case queryir.OpGe:
			return c >= 0, nil
		default:
			return false, fmt.Errorf("unsupported comparison operator %q", pred.Op)
		}

	case queryir.Between:
		v := row[pred.Column.Column]
		lo, ok := compareNonNull(v, pred.Low)
		if !ok || lo < 0 {
			return false, nil
		}
		hi, ok := compareNonNull(v, pred.High)
		return ok && hi <= 0, nil

	case queryir.In:
		v := row[pred.Column.Column]
		for _, candidate := range pred.Values {
			if ir.Equal(v, candidate) {
				return true, nil
			}
		}
		return false, nil

	case queryir.IsNull:
		return ir.IsNull(row[pred.Column.Column]) != pred.Negated, nil

	case queryir.And:
		for _, sub := range pred.Predicates {
			ok, err := Matches(sub, row)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil

	case queryir.Or:
		for _, sub := range pred.Predicates {
			ok, err := Matches(sub, row)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil

	case queryir.Opaque:
		if pred.Fn == nil {
			return false, fmt.Errorf("predicate %q has no function", pred.Label)
		}
		return pred.Fn(row), nil

	default:
		return false, fmt.Errorf("unsupported predicate %T", p)
	}
}

// compareNonNull compares a and b, reporting false when either is NULL or
// they are not comparable.
func compareNonNull(a, b ir.IRValue) (int, bool) {
	if ir.IsNull(a) || ir.IsNull(b) {
		return 0, false
	}
	return ir.Compare(a, b)
}

// RowComparator turns a comparator into a row ordering.
func RowComparator(c queryir.Comparator) (func(a, b ir.IRObject) int, error) {
	switch cmp := c.(type) {
	case queryir.FieldComparator:
		col, reversed := cmp.Column.Column, cmp.Reversed
		return func(a, b ir.IRObject) int {
			r, _ := ir.Compare(a[col], b[col])
			if reversed {
				return -r
			}
			return r
		}, nil

	case queryir.Composite:
		funcs := make([]func(a, b ir.IRObject) int, len(cmp.Comparators))
		for i, sub := range cmp.Comparators {
			f, err := RowComparator(sub)
			if err != nil {
				return nil, err
			}
			funcs[i] = f
		}
		return func(a, b ir.IRObject) int {
			for _, f := range funcs {
				if r := f(a, b); r != 0 {
					return r
				}
			}
			return 0
		}, nil

	case queryir.OpaqueComparator:
		if cmp.Fn == nil {
			return nil, fmt.Errorf("comparator %q has no function", cmp.Label)
		}
		return cmp.Fn, nil

	default:
		return nil, fmt.Errorf("unsupported comparator %T", c)
	}
}
