package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/mhafizyusof/speedment/internal/ir"
)

// Snapshot renders a scenario result as canonical JSON: the plan the
// optimizer chose and, for executed scenarios, the rows produced.
// Output is byte-identical across runs for the same scenario.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	plan := result.Plan

	candidates := make([]any, len(plan.Candidates))
	for i, c := range plan.Candidates {
		candidates[i] = map[string]any{
			"optimizer": c.Optimizer,
			"benefit":   c.Benefit,
		}
	}

	snapshot := map[string]any{
		"scenario_name": scenarioName,
		"query_id":      plan.QueryID,
		"entity":        plan.Entity,
		"dialect":       plan.Dialect,
		"support":       plan.Support.String(),
		"path":          plan.Path.String(),
		"optimizer":     plan.Optimizer,
		"benefit":       plan.Metrics.PipelineReductions(),
		"candidates":    candidates,
		"sql":           plan.SQL,
		"params":        append([]any{}, plan.Params...),
		"pushed":        toAnySlice(plan.PushedSteps()),
		"residual":      toAnySlice(plan.ResidualSteps()),
		"warnings":      toAnySlice(plan.Warnings),
	}

	if result.Executed {
		rows := make([]any, len(result.Rows))
		for i, row := range result.Rows {
			rows[i] = row
		}
		snapshot["rows"] = rows
		snapshot["fetched"] = result.Fetched
	}

	return ir.MarshalCanonical(snapshot)
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's snapshot against a golden
// file without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, snapshot)

	return nil
}
