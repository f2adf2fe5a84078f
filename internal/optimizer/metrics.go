package optimizer

import (
	"github.com/mhafizyusof/speedment/internal/queryir"
	"github.com/mhafizyusof/speedment/internal/querysql"
)

// Metrics is an optimizer's estimate of how much work it would move into
// the database. Only the counts an optimizer can actually push are set.
type Metrics struct {
	FilterCount int `json:"filter_count"`
	SortCount   int `json:"sort_count"`
	SkipCount   int `json:"skip_count"`
	LimitCount  int `json:"limit_count"`
}

// EmptyMetrics is the benefit of pushing nothing.
func EmptyMetrics() Metrics {
	return Metrics{}
}

// PipelineReductions is the benefit used to rank optimizers: the number
// of operations removed from the pipeline.
func (m Metrics) PipelineReductions() int {
	return m.FilterCount + m.SortCount + m.SkipCount + m.LimitCount
}

// metricsFor gates raw stage counts by the backend's skip/limit support.
// An undeclared support level scores nothing.
func metricsFor(c StageCounts, support querysql.SkipLimitSupport) Metrics {
	switch support {
	case querysql.OnlyAfterSort:
		if c.Sort == 0 {
			return EmptyMetrics()
		}
	case querysql.Unsupported:
		return Metrics{FilterCount: c.Filter, SortCount: c.Sort}
	case querysql.Full:
	default:
		return EmptyMetrics()
	}
	return Metrics{FilterCount: c.Filter, SortCount: c.Sort, SkipCount: c.Skip, LimitCount: c.Limit}
}

// Score returns the filter/sort/skip/limit pushdown benefit of p for a
// backend with the given support. It never mutates p.
func Score(p *queryir.Pipeline, support querysql.SkipLimitSupport) int {
	return metricsFor(Count(p), support).PipelineReductions()
}
