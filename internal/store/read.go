package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mhafizyusof/speedment/internal/ir"
)

// QueryEntity runs a statement selecting from e's table and returns the
// rows as IR objects keyed by logical column name.
//
// Returns an empty slice (not nil) if no rows match.
func (s *Store) QueryEntity(ctx context.Context, e *ir.EntitySpec, query string, args ...any) ([]ir.IRObject, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", e.Name, err)
	}
	defer rows.Close()

	out, err := scanEntityRows(rows, e)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", e.Name, err)
	}
	return out, nil
}

// scanEntityRows reads every row, mapping result columns back to entity
// columns by logical name first, then by database name.
func scanEntityRows(rows *sql.Rows, e *ir.EntitySpec) ([]ir.IRObject, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	specs := make([]ir.ColumnSpec, len(names))
	for i, name := range names {
		spec, ok := resolveColumn(e, name)
		if !ok {
			return nil, fmt.Errorf("result column %q is not a column of %s", name, e.Name)
		}
		specs[i] = spec
	}

	out := []ir.IRObject{}
	raw := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		obj := make(ir.IRObject, len(specs))
		for i, spec := range specs {
			v, err := columnValue(spec, raw[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", spec.Name, err)
			}
			obj[spec.Name] = v
		}
		out = append(out, obj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func resolveColumn(e *ir.EntitySpec, name string) (ir.ColumnSpec, bool) {
	if spec, ok := e.Column(name); ok {
		return spec, true
	}
	for _, c := range e.Columns {
		if c.DatabaseName() == name {
			return c, true
		}
	}
	return ir.ColumnSpec{}, false
}

// columnValue converts a scanned driver value using the declared type.
func columnValue(spec ir.ColumnSpec, raw any) (ir.IRValue, error) {
	if raw == nil {
		return ir.IRNull{}, nil
	}
	switch spec.Type {
	case ir.ColumnBool:
		switch v := raw.(type) {
		case int64:
			return ir.IRBool(v != 0), nil
		case bool:
			return ir.IRBool(v), nil
		}
		return nil, fmt.Errorf("expected bool, got %T", raw)
	case ir.ColumnInt:
		if v, ok := raw.(int64); ok {
			return ir.IRInt(v), nil
		}
		return nil, fmt.Errorf("expected int, got %T", raw)
	case ir.ColumnString:
		switch v := raw.(type) {
		case string:
			return ir.IRString(v), nil
		case []byte:
			return ir.IRString(string(v)), nil
		}
		return nil, fmt.Errorf("expected string, got %T", raw)
	default:
		return ir.FromGo(raw)
	}
}

// CountRows counts the rows query returns by wrapping it in
// SELECT COUNT(*).
func (s *Store) CountRows(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ("+query+")", args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}
