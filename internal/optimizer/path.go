package optimizer

import "github.com/mhafizyusof/speedment/internal/queryir"

// Path is one of the two fixed stage orderings.
type Path int

const (
	// FilterFirst orders stages filter, sort, skip, limit.
	FilterFirst Path = iota
	// SortFirst orders stages sort, filter, skip, limit.
	SortFirst
)

// stageCount is the number of stages on every path.
const stageCount = 4

var pathStages = [...][stageCount]Kind{
	FilterFirst: {KindFilter, KindSort, KindSkip, KindLimit},
	SortFirst:   {KindSort, KindFilter, KindSkip, KindLimit},
}

// Stages returns the kind bound to each stage, in stage order.
func (p Path) Stages() [stageCount]Kind {
	return pathStages[p]
}

func (p Path) String() string {
	if p == FilterFirst {
		return "filter_first"
	}
	return "sort_first"
}

// SelectPath inspects only the first operation: a pushable filter selects
// FilterFirst, anything else (including an empty pipeline) SortFirst.
func SelectPath(p *queryir.Pipeline) Path {
	if p == nil {
		return SortFirst
	}
	if first, ok := p.First(); ok && Classify(first) == KindFilter {
		return FilterFirst
	}
	return SortFirst
}
