package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/queryir"
	"github.com/mhafizyusof/speedment/internal/querysql"
)

var (
	colA = ir.ColumnRef{Entity: "T", Column: "A"}
	colB = ir.ColumnRef{Entity: "T", Column: "B"}
	colC = ir.ColumnRef{Entity: "T", Column: "C"}
)

func plainNamer(c ir.ColumnRef) string { return c.Column }

// supportDialect overrides the capability a dialect declares.
type supportDialect struct {
	querysql.Dialect
	support querysql.SkipLimitSupport
}

func (d supportDialect) SkipLimitSupport() querysql.SkipLimitSupport { return d.support }

func testInfo(d querysql.Dialect) Info {
	return Info{Dialect: d, SelectClause: "SELECT * FROM t", ColumnNamer: plainNamer}
}

func fieldFilter(col ir.ColumnRef, n int64) *queryir.Filter {
	return queryir.NewFilter(queryir.Gt(col, ir.IRInt(n)))
}

func opaqueFilter(label string) *queryir.Filter {
	return queryir.NewFilter(queryir.Opaque{Label: label, Fn: func(ir.IRObject) bool { return true }})
}

func asc(col ir.ColumnRef) *queryir.Sorted  { return queryir.NewSorted(queryir.Asc(col)) }
func desc(col ir.ColumnRef) *queryir.Sorted { return queryir.NewSorted(queryir.Desc(col)) }

func mustSkip(t *testing.T, n int64) *queryir.Skip {
	t.Helper()
	s, err := queryir.NewSkip(n)
	require.NoError(t, err)
	return s
}

func mustLimit(t *testing.T, n int64) *queryir.Limit {
	t.Helper()
	l, err := queryir.NewLimit(n)
	require.NoError(t, err)
	return l
}

func mapOp(label string) *queryir.Map {
	return &queryir.Map{Label: label, Fn: func(o ir.IRObject) ir.IRObject { return o }}
}

// isSubsequence reports whether sub appears in full in order, by identity.
func isSubsequence(sub, full []queryir.Operation) bool {
	j := 0
	for _, op := range full {
		if j < len(sub) && sub[j] == op {
			j++
		}
	}
	return j == len(sub)
}

func irInt(n int64) ir.IRValue { return ir.IRInt(n) }

func testCatalogForInfo() ir.Catalog {
	return ir.NewCatalog(ir.EntitySpec{
		Name:  "User",
		Table: "users",
		Columns: []ir.ColumnSpec{
			{Name: "id", Type: ir.ColumnInt, Primary: true},
			{Name: "createdAt", DBName: "created_at", Type: ir.ColumnInt},
		},
	})
}
