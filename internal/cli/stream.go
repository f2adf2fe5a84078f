package cli

import (
	"fmt"
	"log/slog"

	"github.com/mhafizyusof/speedment/internal/engine"
	"github.com/mhafizyusof/speedment/internal/harness"
	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/queryir"
	"github.com/mhafizyusof/speedment/internal/querysql"
	"github.com/mhafizyusof/speedment/internal/store"
)

// streamSetup is a scenario resolved against its schemas: what plan,
// score, validate and run operate on.
type streamSetup struct {
	Scenario *harness.Scenario
	Catalog  ir.Catalog
	Entity   *ir.EntitySpec
	Dialect  querysql.Dialect
	Pipeline *queryir.Pipeline
	Rows     []ir.IRObject
}

// loadStream loads a scenario file and resolves it. Global flags override
// the scenario's specs directory and dialect.
func loadStream(opts *RootOptions, path string) (*streamSetup, error) {
	scenario, err := loadScenario(path, opts.Specs)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeLoadFailed, err)
	}

	catalog, err := LoadCatalog(scenario.Specs)
	if err != nil {
		return nil, err
	}

	entity, ok := catalog.Entity(scenario.Entity)
	if !ok {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("%s: entity %q not found in %s", ErrCodeUnknownEntity, scenario.Entity, scenario.Specs))
	}

	dialect, err := resolveDialect(opts, scenario.Dialect)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeDialect, err)
	}

	pipeline, err := harness.BuildPipeline(entity, scenario.Pipeline)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodePipeline, err)
	}
	rows, err := harness.BuildRows(entity, scenario.Rows)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodePipeline, err)
	}

	return &streamSetup{
		Scenario: scenario,
		Catalog:  catalog,
		Entity:   entity,
		Dialect:  dialect,
		Pipeline: pipeline,
		Rows:     rows,
	}, nil
}

// loadScenario loads a scenario file, with specsDir (when set) replacing
// the schema directory the scenario names.
func loadScenario(path, specsDir string) (*harness.Scenario, error) {
	return harness.LoadScenarioWithSpecs(path, specsDir)
}

// resolveDialect picks the dialect: --dsn, then --dialect, then the
// scenario's own, then SQLite.
func resolveDialect(opts *RootOptions, scenarioDialect string) (querysql.Dialect, error) {
	switch {
	case opts.DSN != "":
		return querysql.DialectForURL(opts.DSN)
	case opts.Dialect != "":
		return querysql.DialectByName(opts.Dialect)
	case scenarioDialect != "":
		return querysql.DialectByName(scenarioDialect)
	default:
		return querysql.NewSQLiteDialect(), nil
	}
}

// newEngine builds an engine for s. st may be nil when only planning.
func (s *streamSetup) newEngine(st *store.Store, logger *slog.Logger, opts ...engine.EngineOption) *engine.Engine {
	base := []engine.EngineOption{
		engine.WithDialect(s.Dialect),
		engine.WithLogger(logger),
	}
	if s.Scenario.QueryID != "" {
		base = append(base, engine.WithQueryIDGenerator(engine.NewFixedGenerator(s.Scenario.QueryID)))
	}
	return engine.New(st, s.Catalog, append(base, opts...)...)
}
