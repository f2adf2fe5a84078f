package optimizer

import (
	"fmt"
	"strings"

	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/queryir"
	"github.com/mhafizyusof/speedment/internal/querysql"
)

// NoLimit is the limit handed to the dialect when no limit was pushed.
const NoLimit = querysql.NoLimit

// Info carries the per-query collaborators an optimizer renders with.
type Info struct {
	// Dialect supplies the capability descriptor, placeholders and the
	// skip/limit clause applicator.
	Dialect querysql.Dialect

	// SelectClause is the SQL preceding WHERE, e.g. `SELECT * FROM "users"`.
	SelectClause string

	ColumnNamer querysql.ColumnNamer

	// ValueMapper converts predicate literals to driver values.
	// Nil means querysql.DefaultValueMapper.
	ValueMapper querysql.ValueMapper
}

// NewInfo builds an Info for one entity of a catalog: the select clause
// lists the entity's columns and names and values are resolved through
// the catalog.
func NewInfo(d querysql.Dialect, c ir.Catalog, entity string) (Info, error) {
	if d == nil {
		return Info{}, newContractError(ErrCodeNilDialect, "no dialect for entity %s", entity)
	}
	e, ok := c.Entity(entity)
	if !ok {
		return Info{}, fmt.Errorf("unknown entity %q", entity)
	}
	sel, err := querysql.SelectClause(d, e)
	if err != nil {
		return Info{}, fmt.Errorf("build select clause: %w", err)
	}
	return Info{
		Dialect:      d,
		SelectClause: sel,
		ColumnNamer:  querysql.CatalogColumnNamer(d, c),
		ValueMapper:  querysql.CatalogValueMapper(c),
	}, nil
}

func (i Info) validate() error {
	if i.Dialect == nil {
		return newContractError(ErrCodeNilDialect, "optimizer info has no dialect")
	}
	if s := i.Dialect.SkipLimitSupport(); !s.Valid() {
		return newContractError(ErrCodeUnknownSupport, "dialect %s declares unknown skip/limit support %s", i.Dialect.Name(), s)
	}
	if i.ColumnNamer == nil {
		return newContractError(ErrCodeNilColumnNamer, "optimizer info has no column namer")
	}
	if strings.TrimSpace(i.SelectClause) == "" {
		return newContractError(ErrCodeEmptySelect, "optimizer info has an empty select clause")
	}
	return nil
}

// RewriteOutcome is the result of one optimize call.
type RewriteOutcome struct {
	// SQL is the finished statement.
	SQL string

	// Values are the bound parameters in placeholder order: filter values
	// first, then any skip/limit parameters the dialect binds.
	Values []any

	// Pushed lists the operations translated to SQL, in pipeline order.
	Pushed []queryir.Operation

	// Residual is the caller's pipeline with Pushed removed.
	Residual *queryir.Pipeline

	// pushedAt holds the pipeline index of each Pushed operation.
	pushedAt []int
}
