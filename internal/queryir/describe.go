package queryir

import (
	"fmt"
	"strings"

	"github.com/mhafizyusof/speedment/internal/ir"
)

// Describe renders an operation the way a client would have written it,
// e.g. "filter(User.age > 30)" or "limit(10)". Used in plans, logs and
// golden files.
func Describe(op Operation) string {
	switch o := op.(type) {
	case *Filter:
		return "filter(" + DescribePredicate(o.Predicate) + ")"
	case *Sorted:
		return "sorted(" + DescribeComparator(o.Comparator) + ")"
	case *Skip:
		return fmt.Sprintf("skip(%d)", o.N)
	case *Limit:
		return fmt.Sprintf("limit(%d)", o.N)
	case *Map:
		return "map(" + o.Label + ")"
	case *Distinct:
		return "distinct()"
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", op)
	}
}

// DescribePredicate renders a predicate.
func DescribePredicate(p Predicate) string {
	switch pred := p.(type) {
	case Compare:
		return fmt.Sprintf("%s %s %s", pred.Column, pred.Op, describeValue(pred.Value))
	case Between:
		return fmt.Sprintf("%s between %s and %s", pred.Column, describeValue(pred.Low), describeValue(pred.High))
	case In:
		vals := make([]string, len(pred.Values))
		for i, v := range pred.Values {
			vals[i] = describeValue(v)
		}
		return fmt.Sprintf("%s in [%s]", pred.Column, strings.Join(vals, ", "))
	case IsNull:
		if pred.Negated {
			return pred.Column.String() + " is not null"
		}
		return pred.Column.String() + " is null"
	case And:
		return joinPredicates(pred.Predicates, " and ")
	case Or:
		return joinPredicates(pred.Predicates, " or ")
	case Opaque:
		return "λ " + pred.Label
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", p)
	}
}

func joinPredicates(preds []Predicate, sep string) string {
	if len(preds) == 0 {
		return "true"
	}
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = DescribePredicate(p)
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// DescribeComparator renders a comparator.
func DescribeComparator(c Comparator) string {
	switch cmp := c.(type) {
	case FieldComparator:
		if cmp.Reversed {
			return cmp.Column.String() + " desc"
		}
		return cmp.Column.String() + " asc"
	case Composite:
		parts := make([]string, len(cmp.Comparators))
		for i, sub := range cmp.Comparators {
			parts[i] = DescribeComparator(sub)
		}
		return strings.Join(parts, " then ")
	case OpaqueComparator:
		return "λ " + cmp.Label
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", c)
	}
}

func describeValue(v ir.IRValue) string {
	b, err := ir.MarshalIRValue(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
