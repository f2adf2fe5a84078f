package optimizer

import (
	"github.com/mhafizyusof/speedment/internal/queryir"
	"github.com/mhafizyusof/speedment/internal/querysql"
)

// InitialFilter pushes down only the run of pushable filters at the head
// of a pipeline. It is what remains when skip/limit cannot be pushed, for
// example on an OnlyAfterSort backend with no sort.
type InitialFilter struct{}

// NewInitialFilter creates the initial filter optimizer.
func NewInitialFilter() *InitialFilter {
	return &InitialFilter{}
}

func (*InitialFilter) Name() string { return "initial_filter" }

func (*InitialFilter) Metrics(p *queryir.Pipeline, _ querysql.SkipLimitSupport) Metrics {
	return Metrics{FilterCount: len(leadingFilters(p))}
}

func (*InitialFilter) Optimize(p *queryir.Pipeline, info Info) (*RewriteOutcome, error) {
	if p == nil {
		return nil, newContractError(ErrCodeNilPipeline, "optimize called with a nil pipeline")
	}
	if err := info.validate(); err != nil {
		return nil, err
	}

	filters := leadingFilters(p)
	out := &RewriteOutcome{SQL: info.SelectClause}
	if len(filters) > 0 {
		where, err := renderFilters(filters, info)
		if err != nil {
			return nil, err
		}
		out.SQL += " WHERE " + where.SQL
		out.Values = where.Values
		for i, f := range filters {
			out.Pushed = append(out.Pushed, f)
			out.pushedAt = append(out.pushedAt, i)
		}
	}
	return removePushed(p, out), nil
}

func leadingFilters(p *queryir.Pipeline) []*queryir.Filter {
	if p == nil {
		return nil
	}
	var filters []*queryir.Filter
	for i := 0; i < p.Len(); i++ {
		op := p.At(i)
		if Classify(op) != KindFilter {
			break
		}
		filters = append(filters, op.(*queryir.Filter))
	}
	return filters
}
