package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mhafizyusof/speedment/internal/compiler"
	"github.com/mhafizyusof/speedment/internal/engine"
	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/queryir"
	"github.com/mhafizyusof/speedment/internal/querysql"
	"github.com/mhafizyusof/speedment/internal/store"
	"github.com/mhafizyusof/speedment/internal/testutil"
)

// Harness runs one scenario against a fresh in-memory database.
type Harness struct {
	store   *store.Store // nil for plan-only dialects
	engine  *engine.Engine
	entity  *ir.EntitySpec
	dialect querysql.Dialect
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Compile the CUE entity schemas in scenario.Specs
//  2. Build the pipeline and seed rows against the scenario entity
//  3. For sqlite, create the table in a fresh in-memory database, seed
//     it and execute the stream; other dialects are only planned
//  4. Evaluate assertions against the plan and rows
//
// The query ID is fixed (scenario.QueryID) so plans are reproducible.
func Run(scenario *Scenario) (*Result, error) {
	catalog, err := compiler.LoadCatalog(scenario.Specs)
	if err != nil {
		return nil, fmt.Errorf("failed to load specs: %w", err)
	}

	entity, ok := catalog.Entity(scenario.Entity)
	if !ok {
		return nil, fmt.Errorf("entity %q not found in %s", scenario.Entity, scenario.Specs)
	}

	dialectName := scenario.Dialect
	if dialectName == "" {
		dialectName = "sqlite"
	}
	dialect, err := querysql.DialectByName(dialectName)
	if err != nil {
		return nil, err
	}

	pipeline, err := BuildPipeline(entity, scenario.Pipeline)
	if err != nil {
		return nil, err
	}
	rows, err := BuildRows(entity, scenario.Rows)
	if err != nil {
		return nil, err
	}

	h := &Harness{
		entity:  entity,
		dialect: dialect,
		logger:  testutil.SilentLogger(),
	}

	ctx := context.Background()
	if dialect.Name() == "sqlite" {
		st, err := store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()

		if err := h.seed(ctx, st, rows); err != nil {
			return nil, err
		}
		h.store = st
	}

	h.engine = engine.New(h.store, catalog,
		engine.WithDialect(dialect),
		engine.WithQueryIDGenerator(testutil.NewFixedIDGenerator(scenario.QueryID)),
		engine.WithLogger(h.logger),
	)

	result, err := h.execute(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// seed creates the entity table and inserts the scenario rows.
func (h *Harness) seed(ctx context.Context, st *store.Store, rows []ir.IRObject) error {
	if err := st.CreateTable(ctx, h.entity); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	if err := st.InsertRows(ctx, h.entity, rows); err != nil {
		return fmt.Errorf("failed to seed rows: %w", err)
	}
	return nil
}

// execute runs the stream when a store is available, otherwise plans it.
func (h *Harness) execute(ctx context.Context, p *queryir.Pipeline) (*Result, error) {
	result := NewResult()

	if h.store == nil {
		plan, err := h.engine.Explain(h.entity.Name, p)
		if err != nil {
			return nil, fmt.Errorf("failed to plan stream: %w", err)
		}
		result.Plan = plan
		return result, nil
	}

	res, err := h.engine.Execute(ctx, h.entity.Name, p)
	if err != nil {
		return nil, fmt.Errorf("failed to execute stream: %w", err)
	}
	result.Plan = res.Plan
	result.Executed = true
	result.Rows = res.Rows
	result.Fetched = res.Fetched
	return result, nil
}
