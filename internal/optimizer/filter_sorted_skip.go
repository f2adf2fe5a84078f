package optimizer

import (
	"math"
	"strings"

	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/queryir"
	"github.com/mhafizyusof/speedment/internal/querysql"
)

// FilterSortedSkip pushes down a leading run of filters and sorts (in
// either order at the head), followed by skips and then limits.
type FilterSortedSkip struct{}

// NewFilterSortedSkip creates the filter/sorted/skip optimizer.
func NewFilterSortedSkip() *FilterSortedSkip {
	return &FilterSortedSkip{}
}

func (*FilterSortedSkip) Name() string { return "filter_sorted_skip" }

// Metrics scores p for a backend with the given support.
//
// With OnlyAfterSort and no pushable sort the benefit is zero, leaving the
// pipeline to a filter-only optimizer. With Unsupported only filters and
// sorts count.
func (*FilterSortedSkip) Metrics(p *queryir.Pipeline, support querysql.SkipLimitSupport) Metrics {
	return metricsFor(Count(p), support)
}

// Optimize rewrites p in place and returns the SQL for the pushed part.
// On error p is left untouched.
func (*FilterSortedSkip) Optimize(p *queryir.Pipeline, info Info) (*RewriteOutcome, error) {
	if p == nil {
		return nil, newContractError(ErrCodeNilPipeline, "optimize called with a nil pipeline")
	}
	out, err := Assemble(Collect(p), info)
	if err != nil {
		return nil, err
	}
	return removePushed(p, out), nil
}

// Assemble renders matched operations into one statement. It does not
// touch any pipeline; the returned outcome has a nil Residual and lists in
// Pushed the operations a rewrite must remove.
//
// Filters become one WHERE clause. Sorts become ORDER BY in reverse
// declaration order, because a later sort takes precedence, with each
// column emitted once in its most significant position. Unless the dialect
// is Unsupported, skips are summed, the smallest limit wins and the
// dialect appends its skip/limit syntax. An OnlyAfterSort dialect with no
// matched sort pushes nothing at all.
func Assemble(m Matched, info Info) (*RewriteOutcome, error) {
	if err := info.validate(); err != nil {
		return nil, err
	}

	support := info.Dialect.SkipLimitSupport()
	if support == querysql.OnlyAfterSort && len(m.Sorts) == 0 {
		return &RewriteOutcome{SQL: info.SelectClause}, nil
	}

	var sb strings.Builder
	sb.WriteString(info.SelectClause)
	var values []any

	if len(m.Filters) > 0 {
		where, err := renderFilters(m.Filters, info)
		if err != nil {
			return nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where.SQL)
		values = append(values, where.Values...)
	}

	if len(m.Sorts) > 0 {
		orderBy, err := renderOrderBy(m.Sorts, info.ColumnNamer)
		if err != nil {
			return nil, err
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderBy)
	}

	sql := sb.String()
	pushSkipLimit := support != querysql.Unsupported
	if pushSkipLimit && (len(m.Skips) > 0 || len(m.Limits) > 0) {
		sql, values = info.Dialect.ApplySkipLimit(sql, values, sumSkips(m.Skips), minLimit(m.Limits))
	}

	out := &RewriteOutcome{SQL: sql, Values: values}
	for i, op := range m.Order {
		switch op.(type) {
		case *queryir.Skip, *queryir.Limit:
			if !pushSkipLimit {
				continue
			}
		}
		out.Pushed = append(out.Pushed, op)
		out.pushedAt = append(out.pushedAt, i)
	}
	return out, nil
}

// renderFilters conjoins every filter predicate into one WHERE fragment.
func renderFilters(filters []*queryir.Filter, info Info) (querysql.RenderResult, error) {
	preds := make([]queryir.Predicate, len(filters))
	for i, f := range filters {
		preds[i] = f.Predicate
	}

	rr, err := querysql.RenderWhere(info.Dialect, info.ColumnNamer, info.ValueMapper, preds)
	if err != nil {
		return querysql.RenderResult{}, &ContractError{Code: ErrCodeRenderFailed, Message: "render where clause", Err: err}
	}
	if strings.TrimSpace(rr.SQL) == "" {
		return querysql.RenderResult{}, newContractError(ErrCodeMalformedFragment, "predicate renderer returned an empty fragment")
	}
	return rr, nil
}

// renderOrderBy walks sorts last to first and skips columns already
// emitted; some backends reject a column listed twice.
func renderOrderBy(sorts []*queryir.Sorted, namer querysql.ColumnNamer) (string, error) {
	seen := make(map[ir.ColumnRef]bool, len(sorts))
	keys := make([]string, 0, len(sorts))
	for i := len(sorts) - 1; i >= 0; i-- {
		fc, ok := queryir.IsFieldComparator(sorts[i].Comparator)
		if !ok {
			return "", newContractError(ErrCodeUnpushable, "sort %s is not bound to a column", queryir.Describe(sorts[i]))
		}
		if seen[fc.Column] {
			continue
		}
		seen[fc.Column] = true

		dir := "ASC"
		if fc.Reversed {
			dir = "DESC"
		}
		keys = append(keys, namer(fc.Column)+" "+dir)
	}
	return strings.Join(keys, ", "), nil
}

// sumSkips adds skip counts, saturating at math.MaxInt64.
func sumSkips(skips []*queryir.Skip) int64 {
	var total int64
	for _, s := range skips {
		if s.N > math.MaxInt64-total {
			return math.MaxInt64
		}
		total += s.N
	}
	return total
}

// minLimit returns the tightest limit, or NoLimit when there is none.
func minLimit(limits []*queryir.Limit) int64 {
	limit := NoLimit
	for _, l := range limits {
		limit = min(limit, l.N)
	}
	return limit
}

// removePushed drops the pushed positions from p and records p as the
// residual. Removal is positional: an instance reused after the halt point
// stays in the residual.
func removePushed(p *queryir.Pipeline, out *RewriteOutcome) *RewriteOutcome {
	p.RemoveAt(out.pushedAt...)
	out.Residual = p
	return out
}
