package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhafizyusof/speedment/internal/queryir"
	"github.com/mhafizyusof/speedment/internal/querysql"
)

func TestComponentGet(t *testing.T) {
	tests := []struct {
		name    string
		ops     []queryir.Operation
		support querysql.SkipLimitSupport
		want    string
		benefit int
	}{
		{"filter sort limit", []queryir.Operation{fieldFilter(colA, 1), asc(colA), &queryir.Limit{N: 3}}, querysql.Full, "filter_sorted_skip", 3},
		{"filters only tie goes to first registered", []queryir.Operation{fieldFilter(colA, 1), fieldFilter(colB, 1)}, querysql.Full, "initial_filter", 2},
		{"nothing pushable", []queryir.Operation{mapOp("m"), fieldFilter(colA, 1)}, querysql.Full, "fallback", 0},
		{"empty", nil, querysql.Full, "fallback", 0},
		{"only after sort without sort", []queryir.Operation{fieldFilter(colA, 1), &queryir.Limit{N: 3}}, querysql.OnlyAfterSort, "initial_filter", 1},
		{"only after sort with sort", []queryir.Operation{asc(colA), &queryir.Limit{N: 3}}, querysql.OnlyAfterSort, "filter_sorted_skip", 2},
	}

	c := DefaultComponent()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Get(queryir.NewPipeline(tt.ops...), tt.support)
			assert.Equal(t, tt.want, got.Optimizer.Name())
			assert.Equal(t, tt.benefit, got.Metrics.PipelineReductions())
		})
	}
}

func TestComponentCandidates(t *testing.T) {
	p := queryir.NewPipeline(fieldFilter(colA, 1), asc(colA))
	cands := DefaultComponent().Candidates(p, querysql.Full)

	require.Len(t, cands, 2)
	assert.Equal(t, "initial_filter", cands[0].Optimizer.Name())
	assert.Equal(t, 1, cands[0].Metrics.PipelineReductions())
	assert.Equal(t, "filter_sorted_skip", cands[1].Optimizer.Name())
	assert.Equal(t, 2, cands[1].Metrics.PipelineReductions())
}

func TestComponentInstall(t *testing.T) {
	c := NewComponent()
	p := queryir.NewPipeline(fieldFilter(colA, 1))
	assert.Equal(t, "fallback", c.Get(p, querysql.Full).Optimizer.Name())

	c.Install(NewInitialFilter())
	assert.Equal(t, "initial_filter", c.Get(p, querysql.Full).Optimizer.Name())
}

func TestFallbackOptimizer(t *testing.T) {
	ops := []queryir.Operation{fieldFilter(colA, 1), asc(colA)}
	p := queryir.NewPipeline(ops...)

	out, err := FallbackOptimizer{}.Optimize(p, testInfo(querysql.NewSQLiteDialect()))
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t", out.SQL)
	assert.Equal(t, ops, out.Residual.Operations())
	assert.Empty(t, out.Pushed)
}

func TestNewInfoFromCatalog(t *testing.T) {
	c := testCatalogForInfo()
	info, err := NewInfo(querysql.NewPostgresDialect(), c, "User")
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id", "created_at" AS "createdAt" FROM "users"`, info.SelectClause)

	p := queryir.NewPipeline(queryir.NewFilter(queryir.Gt(c["User"].MustRef("createdAt"), irInt(5))), queryir.NewSorted(queryir.Desc(c["User"].MustRef("id"))))
	out, err := NewFilterSortedSkip().Optimize(p, info)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id", "created_at" AS "createdAt" FROM "users" WHERE "created_at" > $1 ORDER BY "id" DESC`, out.SQL)

	_, err = NewInfo(querysql.NewPostgresDialect(), c, "Ghost")
	require.Error(t, err)
	_, err = NewInfo(nil, c, "User")
	assert.Equal(t, ErrCodeNilDialect, ContractErrorCodeOf(err))
}
