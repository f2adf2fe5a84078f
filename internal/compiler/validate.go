package compiler

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/mhafizyusof/speedment/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// EntitySpec errors (E101-E109)
	ErrInvalidEntityName  = "E101" // entity name must be an exported identifier
	ErrEntityNoTable      = "E102" // table is required
	ErrEntityNoColumns    = "E103" // at least one column required
	ErrInvalidFieldType   = "E104" // invalid column type
	ErrDuplicateName      = "E105" // duplicate column or database name
	ErrFloatTypeForbidden = "E106" // float types not allowed
	ErrInvalidColumnName  = "E107" // column name is not an identifier
	ErrNullablePrimaryKey = "E108" // primary key column declared nullable

	// Catalog errors (E110-E119)
	ErrDuplicateTable = "E110" // two entities map to one table
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates compiled IR against schema rules.
// Returns all errors found (does not fail-fast).
// Supports EntitySpec and Catalog.
func Validate(v any) []ValidationError {
	switch spec := v.(type) {
	case *ir.EntitySpec:
		return validateEntitySpec(spec)
	case ir.EntitySpec:
		return validateEntitySpec(&spec)
	case ir.Catalog:
		return validateCatalog(spec)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

var (
	// entityNamePattern matches exported Go-style names: User, OrderLine.
	entityNamePattern = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)

	identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// validateEntitySpec validates an entity specification.
func validateEntitySpec(spec *ir.EntitySpec) []ValidationError {
	var errs []ValidationError

	if !entityNamePattern.MatchString(spec.Name) {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("invalid entity name %q, expected an uppercase identifier", spec.Name),
			Code:    ErrInvalidEntityName,
		})
	}

	if strings.TrimSpace(spec.Table) == "" {
		errs = append(errs, ValidationError{
			Field:   "table",
			Message: "table is required and must be non-empty",
			Code:    ErrEntityNoTable,
		})
	}

	if len(spec.Columns) == 0 {
		errs = append(errs, ValidationError{
			Field:   "columns",
			Message: "at least one column is required",
			Code:    ErrEntityNoColumns,
		})
	}

	names := make(map[string]bool)
	dbNames := make(map[string]bool)

	for i, col := range spec.Columns {
		path := fmt.Sprintf("columns[%d]", i)

		if !identifierPattern.MatchString(col.Name) {
			errs = append(errs, ValidationError{
				Field:   path + ".name",
				Message: fmt.Sprintf("invalid column name %q", col.Name),
				Code:    ErrInvalidColumnName,
			})
		}

		if names[col.Name] {
			errs = append(errs, ValidationError{
				Field:   path + ".name",
				Message: fmt.Sprintf("duplicate column name: %q", col.Name),
				Code:    ErrDuplicateName,
			})
		}
		names[col.Name] = true

		// case-insensitive: most databases fold unquoted names
		db := strings.ToLower(col.DatabaseName())
		if dbNames[db] {
			errs = append(errs, ValidationError{
				Field:   path + ".db_name",
				Message: fmt.Sprintf("duplicate database column name: %q", col.DatabaseName()),
				Code:    ErrDuplicateName,
			})
		}
		dbNames[db] = true

		errs = append(errs, validateColumnType(col.Type, path+".type", col.Name)...)

		if col.Primary && col.Nullable {
			errs = append(errs, ValidationError{
				Field:   path + ".nullable",
				Message: fmt.Sprintf("primary key column %q cannot be nullable", col.Name),
				Code:    ErrNullablePrimaryKey,
			})
		}
	}

	return errs
}

// validateColumnType validates a column type, returning errors for invalid types and floats.
func validateColumnType(t ir.ColumnType, fieldPath, column string) []ValidationError {
	if isFloatType(string(t)) {
		return []ValidationError{{
			Field:   fieldPath,
			Message: fmt.Sprintf("float type forbidden for column %q, use int instead", column),
			Code:    ErrFloatTypeForbidden,
		}}
	}
	if !ir.ValidColumnTypes[t] {
		return []ValidationError{{
			Field:   fieldPath,
			Message: fmt.Sprintf("invalid type %q for column %q", t, column),
			Code:    ErrInvalidFieldType,
		}}
	}
	return nil
}

// validateCatalog validates every entity, prefixing fields with the
// entity name, then checks entities against each other. Entities are
// visited in name order so output is deterministic.
func validateCatalog(c ir.Catalog) []ValidationError {
	var errs []ValidationError

	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	slices.Sort(names)

	tables := make(map[string]string)
	for _, name := range names {
		spec := c[name]
		for _, e := range validateEntitySpec(spec) {
			e.Field = name + "." + e.Field
			errs = append(errs, e)
		}

		table := strings.ToLower(spec.Table)
		if owner, ok := tables[table]; ok && table != "" {
			errs = append(errs, ValidationError{
				Field:   name + ".table",
				Message: fmt.Sprintf("table %q already used by entity %s", spec.Table, owner),
				Code:    ErrDuplicateTable,
			})
			continue
		}
		tables[table] = name
	}

	return errs
}

// isFloatType checks if a type string represents a float type.
func isFloatType(t string) bool {
	floatTypes := map[string]bool{
		"float":   true,
		"float32": true,
		"float64": true,
		"number":  true,
		"double":  true,
	}
	return floatTypes[t]
}
