package harness

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/mhafizyusof/speedment/internal/engine"
	"github.com/mhafizyusof/speedment/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes the plan so failures can be debugged from the message alone.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Plan     *engine.Plan // Plan for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Plan != nil {
		fmt.Fprintf(&buf, "\nPlan (%s):\n", e.Plan.Optimizer)
		fmt.Fprintf(&buf, "  SQL: %s\n", e.Plan.SQL)
		for _, step := range e.Plan.ResidualSteps() {
			fmt.Fprintf(&buf, "  residual: %s\n", step)
		}
	}

	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertOptimizer:
			err = assertEqual(result, assertion.Type, assertion.Value, result.Plan.Optimizer)
		case AssertSQL:
			err = assertEqual(result, assertion.Type, assertion.Value, result.Plan.SQL)
		case AssertParams:
			err = assertParams(result, assertion)
		case AssertPushed:
			err = assertSteps(result, assertion.Type, assertion.Steps, result.Plan.PushedSteps())
		case AssertResidual:
			err = assertSteps(result, assertion.Type, assertion.Steps, result.Plan.ResidualSteps())
		case AssertBenefit:
			err = assertEqual(result, assertion.Type, assertion.Count, result.Plan.Metrics.PipelineReductions())
		case AssertRowCount:
			err = assertExecuted(result, assertion.Type)
			if err == nil {
				err = assertEqual(result, assertion.Type, assertion.Count, len(result.Rows))
			}
		case AssertRows:
			err = assertRows(result, assertion)
		case AssertWarningContains:
			err = assertWarning(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func assertEqual[T comparable](result *Result, kind string, expected, actual T) error {
	if expected == actual {
		return nil
	}
	return &AssertionError{
		Type:     kind,
		Expected: fmt.Sprintf("%v", expected),
		Actual:   fmt.Sprintf("%v", actual),
		Plan:     result.Plan,
	}
}

func assertExecuted(result *Result, kind string) error {
	if result.Executed {
		return nil
	}
	return &AssertionError{
		Type:     kind,
		Expected: "executed stream",
		Actual:   fmt.Sprintf("dialect %s is plan-only", result.Plan.Dialect),
		Plan:     result.Plan,
	}
}

// assertParams compares bound parameters by IR value, so a YAML 30 (int)
// matches a driver int64(30).
func assertParams(result *Result, assertion Assertion) error {
	fail := &AssertionError{
		Type:     assertion.Type,
		Expected: fmt.Sprintf("%v", assertion.Values),
		Actual:   fmt.Sprintf("%v", result.Plan.Params),
		Plan:     result.Plan,
	}

	if len(assertion.Values) != len(result.Plan.Params) {
		return fail
	}
	for i := range assertion.Values {
		if !valuesEqual(result.Plan.Params[i], assertion.Values[i]) {
			return fail
		}
	}
	return nil
}

func assertSteps(result *Result, kind string, expected, actual []string) error {
	if slices.Equal(expected, actual) {
		return nil
	}
	return &AssertionError{
		Type:     kind,
		Expected: fmt.Sprintf("%q", expected),
		Actual:   fmt.Sprintf("%q", actual),
		Plan:     result.Plan,
	}
}

// assertRows checks result rows in order. Each expected row is a subset
// match: columns it leaves out are not checked.
func assertRows(result *Result, assertion Assertion) error {
	if err := assertExecuted(result, assertion.Type); err != nil {
		return err
	}

	if len(assertion.Expect) != len(result.Rows) {
		return &AssertionError{
			Type:     assertion.Type,
			Expected: fmt.Sprintf("%d rows", len(assertion.Expect)),
			Actual:   fmt.Sprintf("%d rows: %v", len(result.Rows), result.Rows),
			Plan:     result.Plan,
		}
	}

	for i, expected := range assertion.Expect {
		row := result.Rows[i]
		for key, want := range expected {
			got, ok := row[key]
			if !ok {
				got = ir.IRNull{}
			}
			if !valuesEqual(got, want) {
				return &AssertionError{
					Type:     assertion.Type,
					Expected: fmt.Sprintf("row %d %s = %v", i, key, want),
					Actual:   fmt.Sprintf("%v", got),
					Plan:     result.Plan,
				}
			}
		}
	}
	return nil
}

func assertWarning(result *Result, assertion Assertion) error {
	for _, w := range result.Plan.Warnings {
		if strings.Contains(w, assertion.Value) {
			return nil
		}
	}
	return &AssertionError{
		Type:     assertion.Type,
		Expected: fmt.Sprintf("a warning containing %q", assertion.Value),
		Actual:   fmt.Sprintf("%q", result.Plan.Warnings),
		Plan:     result.Plan,
	}
}

// valuesEqual compares two values after converting both to IR, so driver
// and YAML representations of the same value are equal.
func valuesEqual(actual, expected any) bool {
	a, err := ir.FromGo(actual)
	if err != nil {
		return false
	}
	e, err := ir.FromGo(expected)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(a, e)
}
