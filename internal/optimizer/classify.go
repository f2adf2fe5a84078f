package optimizer

import (
	"fmt"

	"github.com/mhafizyusof/speedment/internal/queryir"
)

// Kind is the pushdown classification of one operation.
type Kind int

const (
	// KindOther marks an operation that can never be pushed down.
	KindOther Kind = iota
	KindFilter
	KindSort
	KindSkip
	KindLimit
)

func (k Kind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindFilter:
		return "filter"
	case KindSort:
		return "sort"
	case KindSkip:
		return "skip"
	case KindLimit:
		return "limit"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Classify decides which pushdown stage op can belong to.
//
// A Filter qualifies only when its predicate is a pure conjunction of
// column predicates. A Sorted qualifies only when its comparator is a
// single column with a direction. Skip and Limit always qualify.
// Everything else, including nil, is KindOther.
func Classify(op queryir.Operation) Kind {
	switch o := op.(type) {
	case *queryir.Filter:
		if o != nil && queryir.IsColumnBound(o.Predicate) {
			return KindFilter
		}
	case *queryir.Sorted:
		if o == nil {
			return KindOther
		}
		if _, ok := queryir.IsFieldComparator(o.Comparator); ok {
			return KindSort
		}
	case *queryir.Skip:
		if o != nil && o.N >= 0 {
			return KindSkip
		}
	case *queryir.Limit:
		if o != nil && o.N >= 0 {
			return KindLimit
		}
	}
	return KindOther
}
