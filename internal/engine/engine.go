package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/optimizer"
	"github.com/mhafizyusof/speedment/internal/queryir"
	"github.com/mhafizyusof/speedment/internal/querysql"
	"github.com/mhafizyusof/speedment/internal/store"
)

// QueryIDGenerator generates unique query IDs for log correlation.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type QueryIDGenerator interface {
	Generate() string
}

// Engine plans and executes entity streams.
//
// Thread-safety model:
//   - Explain, Execute, CountRows: safe from any goroutine; every call
//     works on its own clone of the pipeline
//   - Stream: a Stream builder belongs to one goroutine
//
// INVARIANTS:
//   - The caller's pipeline is never mutated; optimizers rewrite a clone
//   - Residual evaluation sees exactly the rows the SQL returned
type Engine struct {
	store     *store.Store // nil for explain-only engines
	catalog   ir.Catalog
	dialect   querysql.Dialect
	component *optimizer.Component
	idGen     QueryIDGenerator
	quota     *RowQuota
	logger    *slog.Logger
	queryLog  bool
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithDialect sets the dialect SQL is rendered for.
//
// Default: SQLite. Other dialects can be explained but not executed.
func WithDialect(d querysql.Dialect) EngineOption {
	return func(e *Engine) {
		e.dialect = d
	}
}

// WithComponent replaces the optimizer registry.
func WithComponent(c *optimizer.Component) EngineOption {
	return func(e *Engine) {
		e.component = c
	}
}

// WithQueryIDGenerator sets the query ID source.
func WithQueryIDGenerator(g QueryIDGenerator) EngineOption {
	return func(e *Engine) {
		e.idGen = g
	}
}

// WithMaxRows sets the per-query row quota.
//
// Default: 100000 rows (DefaultMaxRows). Zero disables the quota.
func WithMaxRows(n int) EngineOption {
	return func(e *Engine) {
		e.quota = NewRowQuota(n)
	}
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithQueryLog enables or disables writing executed queries to the store's
// query log. Default: enabled.
func WithQueryLog(enabled bool) EngineOption {
	return func(e *Engine) {
		e.queryLog = enabled
	}
}

// New creates an Engine over a store and an entity catalog.
//
// s may be nil for an engine that only explains queries.
func New(s *store.Store, catalog ir.Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		store:     s,
		catalog:   catalog,
		dialect:   querysql.NewSQLiteDialect(),
		component: optimizer.DefaultComponent(),
		idGen:     UUIDv7Generator{},
		quota:     NewRowQuota(DefaultMaxRows),
		logger:    slog.Default(),
		queryLog:  true,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Dialect returns the dialect SQL is rendered for.
func (e *Engine) Dialect() querysql.Dialect {
	return e.dialect
}

// Catalog returns the engine's entity catalog.
func (e *Engine) Catalog() ir.Catalog {
	return e.catalog
}

// Explain selects an optimizer for p and renders its SQL without running
// anything. p itself is left untouched.
func (e *Engine) Explain(entity string, p *queryir.Pipeline) (*Plan, error) {
	if _, ok := e.catalog.Entity(entity); !ok {
		return nil, NewUnknownEntityError(entity)
	}
	if p == nil {
		p = queryir.NewPipeline()
	}

	info, err := optimizer.NewInfo(e.dialect, e.catalog, entity)
	if err != nil {
		return nil, fmt.Errorf("explain %s: %w", entity, err)
	}

	work := p.Clone()
	support := e.dialect.SkipLimitSupport()
	candidates := e.component.Candidates(work, support)
	chosen := e.component.Get(work, support)
	validation := queryir.Validate(work)
	path := optimizer.SelectPath(work)

	out, err := chosen.Optimizer.Optimize(work, info)
	if err != nil {
		return nil, fmt.Errorf("explain %s: optimizer %s: %w", entity, chosen.Optimizer.Name(), err)
	}

	plan := &Plan{
		QueryID:   e.idGen.Generate(),
		Entity:    entity,
		Dialect:   e.dialect.Name(),
		Support:   support,
		Path:      path,
		Optimizer: chosen.Optimizer.Name(),
		Metrics:   chosen.Metrics,
		SQL:       out.SQL,
		Params:    out.Values,
		Pushed:    out.Pushed,
		Residual:  out.Residual,
		Warnings:  validation.Warnings,
	}
	for _, c := range candidates {
		plan.Candidates = append(plan.Candidates, CandidateScore{
			Optimizer: c.Optimizer.Name(),
			Metrics:   c.Metrics,
			Benefit:   c.Metrics.PipelineReductions(),
		})
	}

	e.logger.Debug("query planned",
		"query_id", plan.QueryID,
		"entity", entity,
		"dialect", plan.Dialect,
		"optimizer", plan.Optimizer,
		"benefit", plan.Metrics.PipelineReductions(),
		"sql", plan.SQL,
		"residual", plan.Residual.Len(),
	)
	return plan, nil
}

// Result is an executed query: its plan and the rows it produced.
type Result struct {
	Plan *Plan
	Rows []ir.IRObject

	// Fetched is the number of rows the SQL returned before residual
	// evaluation.
	Fetched int
}

// Execute plans p, runs the SQL against the store and evaluates the
// residual pipeline in-process.
func (e *Engine) Execute(ctx context.Context, entity string, p *queryir.Pipeline) (*Result, error) {
	plan, err := e.Explain(entity, p)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, plan)
}

// run executes a plan produced by Explain.
func (e *Engine) run(ctx context.Context, plan *Plan) (*Result, error) {
	if err := e.checkExecutable(plan); err != nil {
		return nil, err
	}

	entity := plan.Entity
	ent, _ := e.catalog.Entity(entity)
	fetched, err := e.store.QueryEntity(ctx, ent, plan.SQL, plan.Params...)
	if err != nil {
		e.logger.Error("query failed", "query_id", plan.QueryID, "entity", entity, "sql", plan.SQL, "error", err)
		return nil, fmt.Errorf("execute query %s: %w", plan.QueryID, err)
	}
	if err := e.quota.Check(plan.QueryID, len(fetched)); err != nil {
		e.logger.Error("row quota exceeded", "query_id", plan.QueryID, "entity", entity, "rows", len(fetched), "max_rows", e.quota.MaxRows())
		return nil, err
	}

	rows, err := Evaluate(plan.Residual, fetched)
	if err != nil {
		return nil, &RuntimeError{
			Code:    ErrCodeEvaluation,
			Message: err.Error(),
			QueryID: plan.QueryID,
			Entity:  entity,
		}
	}

	if err := e.recordQuery(ctx, plan, len(rows)); err != nil {
		return nil, err
	}

	e.logger.Debug("query executed",
		"query_id", plan.QueryID,
		"entity", entity,
		"fetched", len(fetched),
		"rows", len(rows),
	)
	return &Result{Plan: plan, Rows: rows, Fetched: len(fetched)}, nil
}

// CountRows counts the rows p produces. When the whole pipeline was pushed
// down the count runs in the database; otherwise the rows are fetched and
// the residual evaluated first.
func (e *Engine) CountRows(ctx context.Context, entity string, p *queryir.Pipeline) (int64, *Plan, error) {
	plan, err := e.Explain(entity, p)
	if err != nil {
		return 0, nil, err
	}
	if err := e.checkExecutable(plan); err != nil {
		return 0, nil, err
	}

	if !plan.Residual.IsEmpty() {
		res, err := e.run(ctx, plan)
		if err != nil {
			return 0, nil, err
		}
		return int64(len(res.Rows)), res.Plan, nil
	}

	n, err := e.store.CountRows(ctx, plan.SQL, plan.Params...)
	if err != nil {
		return 0, nil, fmt.Errorf("count query %s: %w", plan.QueryID, err)
	}
	if err := e.recordQuery(ctx, plan, 1); err != nil {
		return 0, nil, err
	}
	return n, plan, nil
}

func (e *Engine) checkExecutable(plan *Plan) error {
	if e.store == nil {
		return &RuntimeError{
			Code:    ErrCodeNotExecutable,
			Message: "engine has no store",
			QueryID: plan.QueryID,
			Entity:  plan.Entity,
		}
	}
	if e.dialect.Name() != "sqlite" {
		return NewNotExecutableError(plan.QueryID, plan.Entity, e.dialect.Name())
	}
	return nil
}

func (e *Engine) recordQuery(ctx context.Context, plan *Plan, rows int) error {
	if !e.queryLog {
		return nil
	}
	_, err := e.store.WriteQueryLog(ctx, store.QueryLogEntry{
		ID:        plan.QueryID,
		Entity:    plan.Entity,
		Dialect:   plan.Dialect,
		Optimizer: plan.Optimizer,
		SQL:       plan.SQL,
		Params:    plan.Params,
		Pushed:    len(plan.Pushed),
		Residual:  plan.Residual.Len(),
		Rows:      rows,
	})
	if err != nil {
		return fmt.Errorf("record query %s: %w", plan.QueryID, err)
	}
	return nil
}
