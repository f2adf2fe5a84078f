package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhafizyusof/speedment/internal/engine"
	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/queryir"
	"github.com/mhafizyusof/speedment/internal/testutil"
)

func describe(t *testing.T, steps ...Step) []string {
	t.Helper()
	p, err := BuildPipeline(userEntity(), steps)
	require.NoError(t, err)

	out := make([]string, p.Len())
	for i, op := range p.Operations() {
		out[i] = queryir.Describe(op)
	}
	return out
}

func TestBuildPipeline_Predicates(t *testing.T) {
	tests := []struct {
		name string
		spec PredicateSpec
		want string
	}{
		{"compare", PredicateSpec{Column: "age", Op: ">", Value: 30}, "filter(User.age > 30)"},
		{"not equal alias", PredicateSpec{Column: "name", Op: "!=", Value: "ada"}, `filter(User.name <> "ada")`},
		{"between", PredicateSpec{Column: "age", Op: "between", Low: 30, High: 40}, "filter(User.age between 30 and 40)"},
		{"in", PredicateSpec{Column: "name", Op: "IN", Values: []any{"ada", "ken"}}, `filter(User.name in ["ada", "ken"])`},
		{"is null", PredicateSpec{Column: "age", Op: "is_null"}, "filter(User.age is null)"},
		{"is not null", PredicateSpec{Column: "age", Op: "is_not_null"}, "filter(User.age is not null)"},
		{"null literal", PredicateSpec{Column: "age", Op: "=", Value: nil}, "filter(User.age = null)"},
		{
			"and",
			PredicateSpec{And: []PredicateSpec{
				{Column: "active", Op: "=", Value: true},
				{Column: "age", Op: "<", Value: 40},
			}},
			"filter((User.active = true and User.age < 40))",
		},
		{"opaque", PredicateSpec{Column: "age", Op: ">=", Value: 33, Opaque: true}, "filter(λ User.age >= 33)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describe(t, Step{Filter: &tt.spec})
			assert.Equal(t, []string{tt.want}, got)
		})
	}
}

func TestBuildPipeline_Operations(t *testing.T) {
	got := describe(t,
		Step{Sorted: &SortSpec{Column: "createdAt", Order: "DESC"}},
		Step{Sorted: &SortSpec{By: []SortSpec{{Column: "age"}, {Column: "name", Order: "desc"}}}},
		Step{Sorted: &SortSpec{Column: "id", Opaque: true}},
		Step{Skip: i64(1)},
		Step{Limit: i64(0)},
		Step{Map: []string{"id", "name"}},
		Step{Distinct: true},
	)

	assert.Equal(t, []string{
		"sorted(User.createdAt desc)",
		"sorted(User.age asc then User.name desc)",
		"sorted(λ User.id asc)",
		"skip(1)",
		"limit(0)",
		"map(project(id, name))",
		"distinct()",
	}, got)
}

func TestBuildPipeline_OpaqueStepsKeepSemantics(t *testing.T) {
	p, err := BuildPipeline(userEntity(), []Step{
		{Filter: &PredicateSpec{Or: []PredicateSpec{
			{Column: "age", Op: "is_null"},
			{Column: "name", Op: "=", Value: "ada"},
		}, Opaque: true}},
		{Sorted: &SortSpec{Column: "name", Order: "desc", Opaque: true}},
	})
	require.NoError(t, err)

	kinds := queryir.Validate(p)
	assert.False(t, kinds.IsPushable)

	rows, err := engine.Evaluate(p, testutil.UserRows())
	require.NoError(t, err)
	assert.Equal(t,
		[]ir.IRValue{ir.IRString("linus"), ir.IRString("dennis"), ir.IRString("ada")},
		testutil.Column(rows, "name"))
}

func TestBuildPipeline_Projection(t *testing.T) {
	p, err := BuildPipeline(userEntity(), []Step{{Map: []string{"name"}}})
	require.NoError(t, err)

	m, ok := p.At(0).(*queryir.Map)
	require.True(t, ok)
	out := m.Fn(testutil.UserRows()[0])
	assert.Equal(t, ir.IRObject{"name": ir.IRString("ada")}, out)
}

func TestBuildPipeline_Errors(t *testing.T) {
	tests := []struct {
		name    string
		step    Step
		wantErr string
	}{
		{"unknown column", Step{Filter: &PredicateSpec{Column: "email", Op: "=", Value: "x"}}, "email"},
		{"unknown operator", Step{Filter: &PredicateSpec{Column: "age", Op: "~", Value: 1}}, `unknown operator "~"`},
		{"type mismatch", Step{Filter: &PredicateSpec{Column: "age", Op: "=", Value: "old"}}, "column age is int"},
		{"in type mismatch", Step{Filter: &PredicateSpec{Column: "name", Op: "in", Values: []any{"ada", 3}}}, "column name is string"},
		{"float literal", Step{Filter: &PredicateSpec{Column: "age", Op: ">", Value: 30.5}}, "floats are forbidden"},
		{"nested and", Step{Filter: &PredicateSpec{And: []PredicateSpec{{Column: "nope", Op: "=", Value: 1}}}}, "and:"},
		{"sort order", Step{Sorted: &SortSpec{Column: "age", Order: "up"}}, `unknown sort order "up"`},
		{"composite member", Step{Sorted: &SortSpec{By: []SortSpec{{Column: "age"}, {Column: "nope"}}}}, "by[1]"},
		{"map column", Step{Map: []string{"id", "nope"}}, "nope"},
		{"negative limit", Step{Limit: i64(-1)}, "limit"},
		{"empty step", Step{}, "step has no operation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPipeline(userEntity(), []Step{{Skip: i64(0)}, tt.step})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "pipeline[1]")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildRows(t *testing.T) {
	rows, err := BuildRows(userEntity(), []map[string]any{
		{"id": 1, "name": "ada", "active": true, "createdAt": 990},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, ir.IRObject{
		"id":        ir.IRInt(1),
		"name":      ir.IRString("ada"),
		"age":       ir.IRNull{},
		"active":    ir.IRBool(true),
		"createdAt": ir.IRInt(990),
	}, rows[0])
}

func TestBuildRows_Errors(t *testing.T) {
	tests := []struct {
		name    string
		row     map[string]any
		wantErr string
	}{
		{"unknown column", map[string]any{"id": 1, "email": "x"}, `entity User has no column "email"`},
		{"missing non-nullable", map[string]any{"id": 1, "name": "ada", "createdAt": 1}, "column active is not nullable"},
		{"wrong type", map[string]any{"id": 1, "name": "ada", "active": "yes", "createdAt": 1}, "column active is bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRows(userEntity(), []map[string]any{tt.row})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "rows[0]")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
