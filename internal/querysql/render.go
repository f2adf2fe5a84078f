package querysql

import (
	"fmt"
	"strings"

	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/queryir"
)

// ColumnNamer maps a column reference to its backend-qualified SQL name.
type ColumnNamer func(ir.ColumnRef) string

// ValueMapper converts a predicate literal into the driver value bound for
// the given column.
type ValueMapper func(ir.ColumnRef, ir.IRValue) (any, error)

// RenderResult is a WHERE-clause fragment plus its bound values in
// placeholder order.
type RenderResult struct {
	SQL    string
	Values []any
}

// RenderWhere renders the conjunction of preds as one WHERE fragment
// (without the WHERE keyword).
//
// Every predicate must be column-bound (see queryir.IsColumnBound);
// anything else is a caller contract violation and returns an error.
// Values are never interpolated - every literal becomes a placeholder.
// Placeholders are numbered from 1, so the fragment must be the first
// parameter consumer of the statement.
func RenderWhere(d Dialect, namer ColumnNamer, mapper ValueMapper, preds []queryir.Predicate) (RenderResult, error) {
	if d == nil {
		return RenderResult{}, fmt.Errorf("render where: nil dialect")
	}
	if namer == nil {
		return RenderResult{}, fmt.Errorf("render where: nil column namer")
	}
	if mapper == nil {
		mapper = DefaultValueMapper
	}

	r := &whereRenderer{dialect: d, namer: namer, mapper: mapper}

	var parts []string
	for i, p := range preds {
		if !queryir.IsColumnBound(p) {
			return RenderResult{}, fmt.Errorf("render where: predicate %d is not column-bound: %s", i, queryir.DescribePredicate(p))
		}
		for _, leaf := range queryir.Leaves(p) {
			sql, err := r.renderLeaf(leaf)
			if err != nil {
				return RenderResult{}, fmt.Errorf("render where: predicate %d: %w", i, err)
			}
			parts = append(parts, sql)
		}
	}

	if len(parts) == 0 {
		return RenderResult{SQL: "1 = 1", Values: r.values}, nil // Vacuous truth
	}
	return RenderResult{SQL: strings.Join(parts, " AND "), Values: r.values}, nil
}

type whereRenderer struct {
	dialect Dialect
	namer   ColumnNamer
	mapper  ValueMapper
	values  []any
}

// bind maps v, records it and returns its placeholder.
func (r *whereRenderer) bind(col ir.ColumnRef, v ir.IRValue) (string, error) {
	param, err := r.mapper(col, v)
	if err != nil {
		return "", fmt.Errorf("convert value for %s: %w", col, err)
	}
	r.values = append(r.values, param)
	return r.dialect.Placeholder(len(r.values)), nil
}

func (r *whereRenderer) renderLeaf(p queryir.Predicate) (string, error) {
	switch pred := p.(type) {
	case queryir.Compare:
		ph, err := r.bind(pred.Column, pred.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", r.namer(pred.Column), pred.Op, ph), nil

	case queryir.Between:
		low, err := r.bind(pred.Column, pred.Low)
		if err != nil {
			return "", err
		}
		high, err := r.bind(pred.Column, pred.High)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", r.namer(pred.Column), low, high), nil

	case queryir.In:
		if len(pred.Values) == 0 {
			return "1 = 0", nil // IN () matches nothing
		}
		phs := make([]string, len(pred.Values))
		for i, v := range pred.Values {
			ph, err := r.bind(pred.Column, v)
			if err != nil {
				return "", err
			}
			phs[i] = ph
		}
		return fmt.Sprintf("%s IN (%s)", r.namer(pred.Column), strings.Join(phs, ", ")), nil

	case queryir.IsNull:
		if pred.Negated {
			return r.namer(pred.Column) + " IS NOT NULL", nil
		}
		return r.namer(pred.Column) + " IS NULL", nil

	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// DefaultValueMapper binds IR values as their plain Go equivalents.
func DefaultValueMapper(_ ir.ColumnRef, v ir.IRValue) (any, error) {
	return ir.ToGo(v)
}

// CatalogValueMapper checks each literal against the declared column type
// before binding it. NULL is accepted for any column.
func CatalogValueMapper(c ir.Catalog) ValueMapper {
	return func(col ir.ColumnRef, v ir.IRValue) (any, error) {
		spec, ok := c.ColumnSpecFor(col)
		if !ok {
			return nil, fmt.Errorf("unknown column %s", col)
		}
		if ir.IsNull(v) {
			return nil, nil
		}
		switch spec.Type {
		case ir.ColumnInt:
			if _, ok := v.(ir.IRInt); !ok {
				return nil, fmt.Errorf("column %s is int, got %T", col, v)
			}
		case ir.ColumnString:
			if _, ok := v.(ir.IRString); !ok {
				return nil, fmt.Errorf("column %s is string, got %T", col, v)
			}
		case ir.ColumnBool:
			if _, ok := v.(ir.IRBool); !ok {
				return nil, fmt.Errorf("column %s is bool, got %T", col, v)
			}
		}
		return ir.ToGo(v)
	}
}

// CatalogColumnNamer names columns by their database name, quoted for d.
// Columns missing from the catalog are quoted by logical name.
func CatalogColumnNamer(d Dialect, c ir.Catalog) ColumnNamer {
	return func(col ir.ColumnRef) string {
		if spec, ok := c.ColumnSpecFor(col); ok {
			return d.QuoteIdentifier(spec.DatabaseName())
		}
		return d.QuoteIdentifier(col.Column)
	}
}
