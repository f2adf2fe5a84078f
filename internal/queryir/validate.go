package queryir

import "fmt"

// ValidationResult contains a pushdown analysis of a pipeline.
//
// It looks at each operation in isolation. An operation that passes here
// may still be evaluated in-process when it appears after an operation
// that halts pushdown; the optimizer's stage order decides that.
type ValidationResult struct {
	// IsPushable is true when every operation is SQL-translatable on its own.
	IsPushable bool

	// Warnings lists operations that can only run in-process, and why.
	// Empty when IsPushable is true.
	Warnings []string
}

// Validate reports which operations of a pipeline can never be pushed
// down to SQL.
//
// Validate is a pure function with no side effects.
func Validate(p *Pipeline) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	if p == nil {
		v.addWarning("nil pipeline")
	} else {
		for i, op := range p.ops {
			v.validateOperation(i, op)
		}
	}

	return ValidationResult{
		IsPushable: len(v.warnings) == 0,
		Warnings:   v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateOperation(i int, op Operation) {
	switch o := op.(type) {
	case *Filter:
		if reason := v.predicateReason(o.Predicate); reason != "" {
			v.addWarning("step %d %s: %s", i, Describe(op), reason)
		}
	case *Sorted:
		switch o.Comparator.(type) {
		case FieldComparator:
		case Composite:
			v.addWarning("step %d %s: composite comparator - use successive sorted() steps instead", i, Describe(op))
		case OpaqueComparator:
			v.addWarning("step %d %s: opaque comparator is not bound to a column", i, Describe(op))
		default:
			v.addWarning("step %d %s: unknown comparator type %T", i, Describe(op), o.Comparator)
		}
	case *Skip, *Limit:
		// Always translatable; dialect support is checked by the optimizer
	case *Map, *Distinct:
		v.addWarning("step %d %s: evaluated in-process only", i, Describe(op))
	default:
		v.addWarning("step %d: unknown operation type %T", i, op)
	}
}

// predicateReason returns why p is not column-bound, or "" if it is.
func (v *validator) predicateReason(p Predicate) string {
	switch pred := p.(type) {
	case nil:
		return "nil predicate"
	case Compare:
		if !ValidCompareOps[pred.Op] {
			return fmt.Sprintf("unsupported comparison operator %q", pred.Op)
		}
		return ""
	case Between, In, IsNull:
		return ""
	case And:
		for _, sub := range pred.Predicates {
			if reason := v.predicateReason(sub); reason != "" {
				return reason
			}
		}
		return ""
	case Or:
		return "OR combinator spans rows beyond a column conjunction"
	case Opaque:
		return fmt.Sprintf("opaque predicate %q is not bound to a column", pred.Label)
	default:
		return fmt.Sprintf("unknown predicate type %T", p)
	}
}
