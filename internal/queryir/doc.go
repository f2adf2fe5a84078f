// Package queryir provides the declared-pipeline intermediate representation:
// the lazily evaluated sequence of operations a client builds against an
// entity collection before any query runs.
//
// ARCHITECTURE:
//
// A Pipeline sits between the stream builder and the SQL pushdown optimizer:
//
//	[Stream builder] → [Pipeline] → [optimizer] → SQL + residual Pipeline
//	                                            → in-process evaluation
//
// OPERATIONS:
//
// Operation is a sealed interface over:
//   - *Filter(predicate)
//   - *Sorted(comparator)
//   - *Skip(n), *Limit(n)
//   - *Map, *Distinct - always evaluated in-process
//
// Operations are pointers. Identity matters: the optimizer removes exactly
// the operation instances it pushed down, never an equal-looking copy.
//
// PREDICATES AND COMPARATORS:
//
// Predicate and Comparator are sealed interfaces as well. A predicate is
// "column-bound" when every leaf of its AND-tree compares one column
// against literals (Compare, Between, In, IsNull). Or and Opaque predicates
// are never column-bound. A comparator is column-bound only when it is a
// single FieldComparator; composites and opaque comparators are not.
//
// Only column-bound operations can be translated to SQL. Everything else
// stays in the pipeline and runs in-process.
//
// SEALED INTERFACES:
//
// Only types in this package implement Operation, Predicate or Comparator.
// This enables exhaustive type switches in the optimizer, the SQL renderer
// and the in-process evaluator.
//
//	switch op := op.(type) {
//	case *Filter:
//	case *Sorted:
//	case *Skip:
//	case *Limit:
//	default:
//	    // in-process only
//	}
package queryir
