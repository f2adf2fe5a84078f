package harness

import (
	"fmt"
	"strings"

	"github.com/mhafizyusof/speedment/internal/engine"
	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/queryir"
)

// BuildPipeline converts scenario steps into a pipeline over entity.
// Literals are checked against the declared column types.
func BuildPipeline(entity *ir.EntitySpec, steps []Step) (*queryir.Pipeline, error) {
	p := queryir.NewPipeline()
	for i, step := range steps {
		op, err := buildOperation(entity, step)
		if err != nil {
			return nil, fmt.Errorf("pipeline[%d]: %w", i, err)
		}
		p.Append(op)
	}
	return p, nil
}

func buildOperation(entity *ir.EntitySpec, step Step) (queryir.Operation, error) {
	switch {
	case step.Filter != nil:
		pred, err := buildPredicate(entity, *step.Filter)
		if err != nil {
			return nil, err
		}
		return queryir.NewFilter(pred), nil

	case step.Sorted != nil:
		cmp, err := buildComparator(entity, *step.Sorted)
		if err != nil {
			return nil, err
		}
		return queryir.NewSorted(cmp), nil

	case step.Skip != nil:
		return queryir.NewSkip(*step.Skip)

	case step.Limit != nil:
		return queryir.NewLimit(*step.Limit)

	case step.Map != nil:
		return projection(entity, step.Map)

	case step.Distinct:
		return &queryir.Distinct{}, nil

	default:
		return nil, fmt.Errorf("step has no operation")
	}
}

func buildPredicate(entity *ir.EntitySpec, spec PredicateSpec) (queryir.Predicate, error) {
	pred, err := buildTransparentPredicate(entity, spec)
	if err != nil || !spec.Opaque {
		return pred, err
	}

	// same predicate, hidden behind a function
	return queryir.Opaque{
		Label: queryir.DescribePredicate(pred),
		Fn: func(row ir.IRObject) bool {
			ok, err := engine.Matches(pred, row)
			return err == nil && ok
		},
	}, nil
}

func buildTransparentPredicate(entity *ir.EntitySpec, spec PredicateSpec) (queryir.Predicate, error) {
	switch {
	case spec.And != nil:
		subs, err := buildPredicates(entity, spec.And)
		if err != nil {
			return nil, fmt.Errorf("and: %w", err)
		}
		return queryir.And{Predicates: subs}, nil

	case spec.Or != nil:
		subs, err := buildPredicates(entity, spec.Or)
		if err != nil {
			return nil, fmt.Errorf("or: %w", err)
		}
		return queryir.Or{Predicates: subs}, nil
	}

	col, err := entity.Ref(spec.Column)
	if err != nil {
		return nil, err
	}

	switch op := strings.ToLower(spec.Op); op {
	case "between":
		low, err := columnValue(entity, spec.Column, spec.Low)
		if err != nil {
			return nil, err
		}
		high, err := columnValue(entity, spec.Column, spec.High)
		if err != nil {
			return nil, err
		}
		return queryir.Between{Column: col, Low: low, High: high}, nil

	case "in":
		values := make([]ir.IRValue, len(spec.Values))
		for i, raw := range spec.Values {
			if values[i], err = columnValue(entity, spec.Column, raw); err != nil {
				return nil, err
			}
		}
		return queryir.In{Column: col, Values: values}, nil

	case "is_null":
		return queryir.IsNull{Column: col}, nil

	case "is_not_null":
		return queryir.IsNull{Column: col, Negated: true}, nil

	default:
		cop := queryir.CompareOp(spec.Op)
		if cop == "!=" {
			cop = queryir.OpNe
		}
		if !queryir.ValidCompareOps[cop] {
			return nil, fmt.Errorf("unknown operator %q", spec.Op)
		}
		v, err := columnValue(entity, spec.Column, spec.Value)
		if err != nil {
			return nil, err
		}
		return queryir.Compare{Column: col, Op: cop, Value: v}, nil
	}
}

func buildPredicates(entity *ir.EntitySpec, specs []PredicateSpec) ([]queryir.Predicate, error) {
	out := make([]queryir.Predicate, len(specs))
	for i, spec := range specs {
		pred, err := buildPredicate(entity, spec)
		if err != nil {
			return nil, err
		}
		out[i] = pred
	}
	return out, nil
}

func buildComparator(entity *ir.EntitySpec, spec SortSpec) (queryir.Comparator, error) {
	cmp, err := buildTransparentComparator(entity, spec)
	if err != nil || !spec.Opaque {
		return cmp, err
	}

	fn, err := engine.RowComparator(cmp)
	if err != nil {
		return nil, err
	}
	return queryir.OpaqueComparator{Label: queryir.DescribeComparator(cmp), Fn: fn}, nil
}

func buildTransparentComparator(entity *ir.EntitySpec, spec SortSpec) (queryir.Comparator, error) {
	if spec.By != nil {
		subs := make([]queryir.Comparator, len(spec.By))
		for i, sub := range spec.By {
			cmp, err := buildComparator(entity, sub)
			if err != nil {
				return nil, fmt.Errorf("by[%d]: %w", i, err)
			}
			subs[i] = cmp
		}
		return queryir.Composite{Comparators: subs}, nil
	}

	col, err := entity.Ref(spec.Column)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(spec.Order) {
	case "", "asc":
		return queryir.Asc(col), nil
	case "desc":
		return queryir.Desc(col), nil
	default:
		return nil, fmt.Errorf("unknown sort order %q", spec.Order)
	}
}

// projection keeps only the named columns of each row.
func projection(entity *ir.EntitySpec, columns []string) (*queryir.Map, error) {
	for _, c := range columns {
		if _, err := entity.Ref(c); err != nil {
			return nil, err
		}
	}
	cols := append([]string(nil), columns...)
	return &queryir.Map{
		Label: "project(" + strings.Join(cols, ", ") + ")",
		Fn: func(row ir.IRObject) ir.IRObject {
			out := make(ir.IRObject, len(cols))
			for _, c := range cols {
				out[c] = row[c]
			}
			return out
		},
	}, nil
}

// BuildRows converts seed rows to IR objects. Columns left out of a row
// are NULL, which only nullable columns accept.
func BuildRows(entity *ir.EntitySpec, rows []map[string]any) ([]ir.IRObject, error) {
	out := make([]ir.IRObject, len(rows))
	for i, raw := range rows {
		for key := range raw {
			if _, ok := entity.Column(key); !ok {
				return nil, fmt.Errorf("rows[%d]: entity %s has no column %q", i, entity.Name, key)
			}
		}

		row := make(ir.IRObject, len(entity.Columns))
		for _, col := range entity.Columns {
			v, err := columnValue(entity, col.Name, raw[col.Name])
			if err != nil {
				return nil, fmt.Errorf("rows[%d]: %w", i, err)
			}
			if ir.IsNull(v) && !col.Nullable {
				return nil, fmt.Errorf("rows[%d]: column %s is not nullable", i, col.Name)
			}
			row[col.Name] = v
		}
		out[i] = row
	}
	return out, nil
}

// columnValue converts a decoded YAML literal to the column's IR type.
// nil is NULL for any column.
func columnValue(entity *ir.EntitySpec, column string, raw any) (ir.IRValue, error) {
	spec, ok := entity.Column(column)
	if !ok {
		return nil, fmt.Errorf("entity %s has no column %q", entity.Name, column)
	}

	v, err := ir.FromGo(raw)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", column, err)
	}

	match := true
	switch v.(type) {
	case ir.IRNull:
	case ir.IRInt:
		match = spec.Type == ir.ColumnInt
	case ir.IRString:
		match = spec.Type == ir.ColumnString
	case ir.IRBool:
		match = spec.Type == ir.ColumnBool
	default:
		match = false
	}
	if !match {
		return nil, fmt.Errorf("column %s is %s, got %v", column, spec.Type, raw)
	}
	return v, nil
}
