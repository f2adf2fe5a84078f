package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mhafizyusof/speedment/internal/queryir"
)

func TestSelectPath(t *testing.T) {
	tests := []struct {
		name string
		ops  []queryir.Operation
		want Path
	}{
		{"empty", nil, SortFirst},
		{"filter first", []queryir.Operation{fieldFilter(colA, 1), asc(colB)}, FilterFirst},
		{"sort first", []queryir.Operation{asc(colB), fieldFilter(colA, 1)}, SortFirst},
		{"opaque filter first", []queryir.Operation{opaqueFilter("x"), asc(colB)}, SortFirst},
		{"skip first", []queryir.Operation{&queryir.Skip{N: 1}}, SortFirst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectPath(queryir.NewPipeline(tt.ops...)))
		})
	}

	assert.Equal(t, SortFirst, SelectPath(nil))
}

func TestPathStages(t *testing.T) {
	assert.Equal(t, [4]Kind{KindFilter, KindSort, KindSkip, KindLimit}, FilterFirst.Stages())
	assert.Equal(t, [4]Kind{KindSort, KindFilter, KindSkip, KindLimit}, SortFirst.Stages())
	assert.Equal(t, "filter_first", FilterFirst.String())
	assert.Equal(t, "sort_first", SortFirst.String())
}
