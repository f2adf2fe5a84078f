package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhafizyusof/speedment/internal/queryir"
	"github.com/mhafizyusof/speedment/internal/querysql"
)

func TestInitialFilterPushesLeadingFilters(t *testing.T) {
	f1 := fieldFilter(colA, 1)
	f2 := fieldFilter(colB, 2)
	s := asc(colA)
	f3 := fieldFilter(colC, 3)
	p := queryir.NewPipeline(f1, f2, s, f3)

	o := NewInitialFilter()
	assert.Equal(t, Metrics{FilterCount: 2}, o.Metrics(p, querysql.Full))

	out, err := o.Optimize(p, testInfo(querysql.NewSQLiteDialect()))
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM t WHERE A > ? AND B > ?", out.SQL)
	assert.Equal(t, []any{int64(1), int64(2)}, out.Values)
	assert.Equal(t, []queryir.Operation{s, f3}, out.Residual.Operations())
}

func TestInitialFilterNothingToPush(t *testing.T) {
	p := queryir.NewPipeline(asc(colA), fieldFilter(colA, 1))

	o := NewInitialFilter()
	assert.Equal(t, 0, o.Metrics(p, querysql.Full).PipelineReductions())

	out, err := o.Optimize(p, testInfo(querysql.NewSQLiteDialect()))
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t", out.SQL)
	assert.Equal(t, 2, out.Residual.Len())
}

func TestInitialFilterReusedInstance(t *testing.T) {
	f := fieldFilter(colA, 1)
	m := mapOp("m")
	p := queryir.NewPipeline(f, m, f)

	out, err := NewInitialFilter().Optimize(p, testInfo(querysql.NewSQLiteDialect()))
	require.NoError(t, err)
	assert.Equal(t, []queryir.Operation{m, f}, out.Residual.Operations())
}

func TestInitialFilterNilPipeline(t *testing.T) {
	_, err := NewInitialFilter().Optimize(nil, testInfo(querysql.NewSQLiteDialect()))
	assert.Equal(t, ErrCodeNilPipeline, ContractErrorCodeOf(err))
	assert.Equal(t, Metrics{}, NewInitialFilter().Metrics(nil, querysql.Full))
}
