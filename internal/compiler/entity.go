package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/mhafizyusof/speedment/internal/ir"
)

// CompileEntity parses a CUE value into an EntitySpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the entity struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`entity: User: { table: "users", columns: { ... } }`)
//	spec, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.User")))
//
// A column is either a bare type or a struct with options:
//
//	columns: {
//		id:        {type: int, primary: true}
//		name:      string
//		age:       int | null
//		createdAt: {type: int, db_name: "created_at"}
//	}
//
// Columns keep their CUE declaration order, which becomes SELECT order.
func CompileEntity(v cue.Value) (*ir.EntitySpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.EntitySpec{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	tableVal := v.LookupPath(cue.ParsePath("table"))
	if !tableVal.Exists() {
		return nil, &CompileError{
			Field:   "table",
			Message: "table is required",
			Pos:     v.Pos(),
		}
	}
	table, err := tableVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	spec.Table = table

	spec.Columns, err = parseColumns(v)
	if err != nil {
		return nil, err
	}
	if len(spec.Columns) == 0 {
		return nil, &CompileError{
			Field:   "columns",
			Message: "at least one column is required",
			Pos:     v.Pos(),
		}
	}

	return spec, nil
}

// CompileEntities compiles every entity under the top-level "entity"
// field of v. A missing field yields no entities.
func CompileEntities(v cue.Value) ([]ir.EntitySpec, error) {
	entitiesVal := v.LookupPath(cue.ParsePath("entity"))
	if !entitiesVal.Exists() {
		return nil, nil
	}

	iter, err := entitiesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []ir.EntitySpec
	for iter.Next() {
		spec, err := CompileEntity(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", iter.Label(), err)
		}
		specs = append(specs, *spec)
	}
	return specs, nil
}

// parseColumns extracts column definitions in declaration order.
func parseColumns(v cue.Value) ([]ir.ColumnSpec, error) {
	var columns []ir.ColumnSpec

	columnsVal := v.LookupPath(cue.ParsePath("columns"))
	if !columnsVal.Exists() {
		return columns, nil
	}

	iter, err := columnsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		col, err := parseColumn(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	return columns, nil
}

// parseColumn parses one column in either its short form (a type) or its
// struct form.
func parseColumn(name string, v cue.Value) (ir.ColumnSpec, error) {
	col := ir.ColumnSpec{Name: name}

	if v.IncompleteKind() != cue.StructKind {
		typ, nullable, err := extractColumnType(name, v)
		if err != nil {
			return col, err
		}
		col.Type, col.Nullable = typ, nullable
		return col, nil
	}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return col, &CompileError{
			Field:   fmt.Sprintf("columns.%s.type", name),
			Message: "column type is required",
			Pos:     v.Pos(),
		}
	}
	typ, nullable, err := extractColumnType(name, typeVal)
	if err != nil {
		return col, err
	}
	col.Type, col.Nullable = typ, nullable

	if dbVal := v.LookupPath(cue.ParsePath("db_name")); dbVal.Exists() {
		if col.DBName, err = dbVal.String(); err != nil {
			return col, formatCUEError(err)
		}
	}
	if nullVal := v.LookupPath(cue.ParsePath("nullable")); nullVal.Exists() {
		explicit, err := nullVal.Bool()
		if err != nil {
			return col, formatCUEError(err)
		}
		col.Nullable = col.Nullable || explicit
	}
	if pkVal := v.LookupPath(cue.ParsePath("primary")); pkVal.Exists() {
		if col.Primary, err = pkVal.Bool(); err != nil {
			return col, formatCUEError(err)
		}
	}

	return col, nil
}

// extractColumnType converts a CUE type to a column type. A disjunction
// with null (int | null) marks the column nullable.
// Floats are forbidden: SQL and in-process comparisons must agree exactly.
func extractColumnType(column string, v cue.Value) (ir.ColumnType, bool, error) {
	kind := v.IncompleteKind()
	nullable := kind != cue.NullKind && kind&cue.NullKind != 0
	kind &^= cue.NullKind

	switch kind {
	case cue.StringKind:
		return ir.ColumnString, nullable, nil
	case cue.IntKind:
		return ir.ColumnInt, nullable, nil
	case cue.BoolKind:
		return ir.ColumnBool, nullable, nil
	case cue.FloatKind, cue.NumberKind:
		return "", false, &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("column %s: float types are forbidden, use int instead", column),
			Pos:     v.Pos(),
		}
	default:
		return "", false, &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("column %s: unsupported type kind: %v", column, v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// first error with a position wins
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
