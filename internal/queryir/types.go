package queryir

import (
	"fmt"

	"github.com/mhafizyusof/speedment/internal/ir"
)

// Operation is one declared step of a Pipeline.
//
// This is a sealed interface - only pointer types in this package
// implement it, so identity comparison is always meaningful.
type Operation interface {
	operationNode() // Marker method - seals interface to this package
}

// Predicate is a filter condition.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Comparator is a sort key.
//
// This is a sealed interface - only types in this package implement it.
type Comparator interface {
	comparatorNode() // Marker method - seals interface to this package
}

// Filter keeps rows matching Predicate.
type Filter struct {
	Predicate Predicate
}

func (*Filter) operationNode() {}

// Sorted orders rows by Comparator. Successive Sorted operations are
// stable: a later Sorted takes precedence over an earlier one.
type Sorted struct {
	Comparator Comparator
}

func (*Sorted) operationNode() {}

// Skip drops the first N rows.
type Skip struct {
	N int64
}

func (*Skip) operationNode() {}

// Limit keeps at most N rows.
type Limit struct {
	N int64
}

func (*Limit) operationNode() {}

// Map transforms each row with an arbitrary function.
// Map is never pushed down.
type Map struct {
	Label string
	Fn    func(ir.IRObject) ir.IRObject
}

func (*Map) operationNode() {}

// Distinct removes duplicate rows, keeping the first occurrence.
// Distinct is never pushed down.
type Distinct struct{}

func (*Distinct) operationNode() {}

// NewFilter creates a Filter operation.
func NewFilter(p Predicate) *Filter {
	return &Filter{Predicate: p}
}

// NewSorted creates a Sorted operation.
func NewSorted(c Comparator) *Sorted {
	return &Sorted{Comparator: c}
}

// NewSkip creates a Skip operation. Negative counts are rejected.
func NewSkip(n int64) (*Skip, error) {
	if n < 0 {
		return nil, fmt.Errorf("skip count must be non-negative, got %d", n)
	}
	return &Skip{N: n}, nil
}

// NewLimit creates a Limit operation. Negative counts are rejected.
func NewLimit(n int64) (*Limit, error) {
	if n < 0 {
		return nil, fmt.Errorf("limit count must be non-negative, got %d", n)
	}
	return &Limit{N: n}, nil
}

// CompareOp is a binary comparison operator.
type CompareOp string

const (
	OpEq CompareOp = "="
	OpNe CompareOp = "<>"
	OpLt CompareOp = "<"
	OpLe CompareOp = "<="
	OpGt CompareOp = ">"
	OpGe CompareOp = ">="
)

// ValidCompareOps defines allowed comparison operators.
var ValidCompareOps = map[CompareOp]bool{
	OpEq: true, OpNe: true, OpLt: true, OpLe: true, OpGt: true, OpGe: true,
}

// Compare represents <column> <op> <value>.
type Compare struct {
	Column ir.ColumnRef
	Op     CompareOp
	Value  ir.IRValue
}

func (Compare) predicateNode() {}

// Between represents <column> BETWEEN <low> AND <high> (both inclusive).
type Between struct {
	Column ir.ColumnRef
	Low    ir.IRValue
	High   ir.IRValue
}

func (Between) predicateNode() {}

// In represents <column> IN (<values>). An empty Values list matches nothing.
type In struct {
	Column ir.ColumnRef
	Values []ir.IRValue
}

func (In) predicateNode() {}

// IsNull represents <column> IS NULL, or IS NOT NULL when Negated.
type IsNull struct {
	Column  ir.ColumnRef
	Negated bool
}

func (IsNull) predicateNode() {}

// And is a conjunction. Empty Predicates means "always true".
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or is a disjunction. Or is a cross-column combinator and is never
// column-bound, even when every branch is.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Opaque wraps an arbitrary row predicate. It can only run in-process.
type Opaque struct {
	Label string
	Fn    func(ir.IRObject) bool
}

func (Opaque) predicateNode() {}

// FieldComparator orders by one column.
type FieldComparator struct {
	Column   ir.ColumnRef
	Reversed bool // true = DESC
}

func (FieldComparator) comparatorNode() {}

// Composite orders by its comparators in turn (first is primary).
// Composite comparators are never column-bound.
type Composite struct {
	Comparators []Comparator
}

func (Composite) comparatorNode() {}

// OpaqueComparator wraps an arbitrary row ordering function returning
// <0, 0 or >0. It can only run in-process.
type OpaqueComparator struct {
	Label string
	Fn    func(a, b ir.IRObject) int
}

func (OpaqueComparator) comparatorNode() {}

// Eq returns column = value.
func Eq(col ir.ColumnRef, v ir.IRValue) Compare { return Compare{Column: col, Op: OpEq, Value: v} }

// Ne returns column <> value.
func Ne(col ir.ColumnRef, v ir.IRValue) Compare { return Compare{Column: col, Op: OpNe, Value: v} }

// Lt returns column < value.
func Lt(col ir.ColumnRef, v ir.IRValue) Compare { return Compare{Column: col, Op: OpLt, Value: v} }

// Le returns column <= value.
func Le(col ir.ColumnRef, v ir.IRValue) Compare { return Compare{Column: col, Op: OpLe, Value: v} }

// Gt returns column > value.
func Gt(col ir.ColumnRef, v ir.IRValue) Compare { return Compare{Column: col, Op: OpGt, Value: v} }

// Ge returns column >= value.
func Ge(col ir.ColumnRef, v ir.IRValue) Compare { return Compare{Column: col, Op: OpGe, Value: v} }

// Asc orders by column ascending.
func Asc(col ir.ColumnRef) FieldComparator { return FieldComparator{Column: col} }

// Desc orders by column descending.
func Desc(col ir.ColumnRef) FieldComparator { return FieldComparator{Column: col, Reversed: true} }
