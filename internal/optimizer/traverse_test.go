package optimizer

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhafizyusof/speedment/internal/queryir"
)

func TestTraverseEmptyPipeline(t *testing.T) {
	tr := Traverse(queryir.NewPipeline(), Consumers{})
	assert.False(t, tr.Halted())
	assert.Equal(t, 0, tr.Consumed)
	assert.Equal(t, StageCounts{}, Count(queryir.NewPipeline()))
	assert.Equal(t, StageCounts{}, Count(nil))
}

func TestTraverseStageOrder(t *testing.T) {
	tests := []struct {
		name   string
		ops    func(t *testing.T) []queryir.Operation
		counts StageCounts
		haltAt int
	}{
		{
			name: "full filter first",
			ops: func(t *testing.T) []queryir.Operation {
				return []queryir.Operation{fieldFilter(colA, 1), fieldFilter(colB, 2), asc(colA), mustSkip(t, 1), mustLimit(t, 2)}
			},
			counts: StageCounts{Filter: 2, Sort: 1, Skip: 1, Limit: 1},
			haltAt: -1,
		},
		{
			name: "sort before filter",
			ops: func(t *testing.T) []queryir.Operation {
				return []queryir.Operation{asc(colA), desc(colB), fieldFilter(colA, 1), mustLimit(t, 2)}
			},
			counts: StageCounts{Filter: 1, Sort: 2, Limit: 1},
			haltAt: -1,
		},
		{
			name: "filter after sort on filter first path",
			ops: func(t *testing.T) []queryir.Operation {
				return []queryir.Operation{fieldFilter(colA, 1), asc(colA), fieldFilter(colB, 2)}
			},
			counts: StageCounts{Filter: 1, Sort: 1},
			haltAt: 2,
		},
		{
			name: "sort after filter on sort first path",
			ops: func(t *testing.T) []queryir.Operation {
				return []queryir.Operation{asc(colA), fieldFilter(colA, 1), desc(colB)}
			},
			counts: StageCounts{Filter: 1, Sort: 1},
			haltAt: 2,
		},
		{
			name: "stages may be skipped",
			ops: func(t *testing.T) []queryir.Operation {
				return []queryir.Operation{fieldFilter(colA, 1), mustLimit(t, 3), mustLimit(t, 4)}
			},
			counts: StageCounts{Filter: 1, Limit: 2},
			haltAt: -1,
		},
		{
			name: "skip after limit halts",
			ops: func(t *testing.T) []queryir.Operation {
				return []queryir.Operation{mustLimit(t, 3), mustSkip(t, 1), mustLimit(t, 2)}
			},
			counts: StageCounts{Limit: 1},
			haltAt: 1,
		},
		{
			name: "filter after skip halts",
			ops: func(t *testing.T) []queryir.Operation {
				return []queryir.Operation{mustSkip(t, 1), fieldFilter(colA, 1)}
			},
			counts: StageCounts{Skip: 1},
			haltAt: 1,
		},
		{
			name: "in-process operation halts",
			ops: func(t *testing.T) []queryir.Operation {
				return []queryir.Operation{fieldFilter(colA, 1), mapOp("m"), asc(colA)}
			},
			counts: StageCounts{Filter: 1},
			haltAt: 1,
		},
		{
			name: "unpushable first operation",
			ops: func(t *testing.T) []queryir.Operation {
				return []queryir.Operation{opaqueFilter("x"), fieldFilter(colA, 1)}
			},
			counts: StageCounts{},
			haltAt: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := queryir.NewPipeline(tt.ops(t)...)
			m := Collect(p)

			assert.Equal(t, tt.counts, m.Counts())
			assert.Equal(t, tt.counts, Count(p))
			assert.Equal(t, tt.haltAt, m.Traversal.HaltAt)
			assert.Equal(t, tt.counts.Total(), m.Traversal.Consumed)
			assert.Len(t, m.Order, tt.counts.Total())
		})
	}
}

func TestTraverseHaltsOnOpaqueFilter(t *testing.T) {
	f1 := fieldFilter(colA, 1)
	f2 := opaqueFilter("custom")
	s := asc(colB)
	p := queryir.NewPipeline(f1, f2, s)

	m := Collect(p)

	require.Len(t, m.Filters, 1)
	assert.Same(t, f1, m.Filters[0])
	assert.Empty(t, m.Sorts)
	assert.Equal(t, 1, m.Traversal.HaltAt)
}

func TestTraverseDoesNotMutate(t *testing.T) {
	ops := []queryir.Operation{fieldFilter(colA, 1), opaqueFilter("x"), asc(colB)}
	p := queryir.NewPipeline(ops...)

	Collect(p)
	Count(p)

	assert.Equal(t, ops, p.Operations())
}

func TestTraverseNilConsumers(t *testing.T) {
	p := queryir.NewPipeline(fieldFilter(colA, 1), asc(colA), &queryir.Skip{N: 1}, &queryir.Limit{N: 1})
	tr := Traverse(p, Consumers{})
	assert.Equal(t, 4, tr.Consumed)
	assert.Equal(t, 3, tr.Stage)
}

// randomPipeline builds a pipeline from a mix of pushable and unpushable
// operations.
func randomPipeline(r *rand.Rand) *queryir.Pipeline {
	n := r.IntN(8)
	p := queryir.NewPipeline()
	for range n {
		switch r.IntN(9) {
		case 0, 1:
			p.Append(fieldFilter(colA, r.Int64N(100)))
		case 2:
			p.Append(opaqueFilter("λ"))
		case 3:
			p.Append(asc(colB))
		case 4:
			p.Append(desc(colC))
		case 5:
			p.Append(&queryir.Skip{N: r.Int64N(5)})
		case 6:
			p.Append(&queryir.Limit{N: r.Int64N(20)})
		case 7:
			p.Append(mapOp("m"))
		default:
			p.Append(&queryir.Distinct{})
		}
	}
	return p
}

func TestTraverseProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))

	for i := range 500 {
		p := randomPipeline(r)
		ops := p.Operations()
		m := Collect(p)
		tr := m.Traversal

		// Consumption is a contiguous prefix ending at the halt point.
		if tr.Halted() {
			require.Equal(t, tr.HaltAt, tr.Consumed, "case %d", i)
		} else {
			require.Equal(t, len(ops), tr.Consumed, "case %d", i)
		}
		if tr.Consumed == 0 {
			require.Empty(t, m.Order, "case %d", i)
		} else {
			require.Equal(t, ops[:tr.Consumed], m.Order, "case %d", i)
		}

		// Stage indexes never decrease.
		stages := tr.Path.Stages()
		last := 0
		for _, op := range m.Order {
			k := Classify(op)
			idx := -1
			for s := last; s < len(stages); s++ {
				if stages[s] == k {
					idx = s
					break
				}
			}
			require.GreaterOrEqual(t, idx, last, "case %d: %s went backwards", i, queryir.Describe(op))
			last = idx
		}

		// Scoring is pure.
		for _, support := range allSupports {
			require.Equal(t, Score(p, support), Score(p, support), "case %d", i)
		}
		require.Equal(t, ops, p.Operations(), "case %d", i)
	}
}
