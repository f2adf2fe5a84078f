package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a pushdown conformance scenario: an entity, seed rows,
// a stream pipeline, and assertions on the plan and the rows it produces.
type Scenario struct {
	// Name uniquely identifies this scenario. Also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs is the directory of CUE entity schemas.
	// Relative paths are resolved against the scenario file location.
	Specs string `yaml:"specs"`

	// Entity is the entity the stream queries.
	Entity string `yaml:"entity"`

	// Dialect selects SQL rendering (sqlite, mysql, postgres, sqlserver,
	// oracle, ansi). Only sqlite scenarios execute; the others are planned.
	// Default: sqlite.
	Dialect string `yaml:"dialect,omitempty"`

	// Rows seeds the entity table before the stream runs.
	Rows []map[string]any `yaml:"rows,omitempty"`

	// Pipeline lists the stream steps in declaration order.
	Pipeline []Step `yaml:"pipeline"`

	// Assertions validate the plan and the result rows.
	Assertions []Assertion `yaml:"assertions"`

	// QueryID is an optional fixed query ID for deterministic tests.
	// If empty, defaults to "test-query-default".
	QueryID string `yaml:"query_id,omitempty"`
}

// Step is one stream operation. Exactly one field must be set.
type Step struct {
	Filter   *PredicateSpec `yaml:"filter,omitempty"`
	Sorted   *SortSpec      `yaml:"sorted,omitempty"`
	Skip     *int64         `yaml:"skip,omitempty"`
	Limit    *int64         `yaml:"limit,omitempty"`
	Map      []string       `yaml:"map,omitempty"` // projection onto these columns
	Distinct bool           `yaml:"distinct,omitempty"`
}

// PredicateSpec describes a filter predicate.
//
//	{column: age, op: ">", value: 30}
//	{column: age, op: between, low: 30, high: 40}
//	{column: name, op: in, values: [ada, ken]}
//	{column: age, op: is_null}
//	{and: [...]} / {or: [...]}
//
// Opaque wraps the predicate in a function the optimizer cannot see into,
// so it always runs in-process.
type PredicateSpec struct {
	Column string          `yaml:"column,omitempty"`
	Op     string          `yaml:"op,omitempty"`
	Value  any             `yaml:"value,omitempty"`
	Values []any           `yaml:"values,omitempty"`
	Low    any             `yaml:"low,omitempty"`
	High   any             `yaml:"high,omitempty"`
	And    []PredicateSpec `yaml:"and,omitempty"`
	Or     []PredicateSpec `yaml:"or,omitempty"`
	Opaque bool            `yaml:"opaque,omitempty"`
}

// SortSpec describes a comparator: one column, or a composite via By.
//
//	{column: createdAt, order: desc}
//	{by: [{column: age, order: desc}, {column: name}]}
type SortSpec struct {
	Column string     `yaml:"column,omitempty"`
	Order  string     `yaml:"order,omitempty"` // asc (default) or desc
	By     []SortSpec `yaml:"by,omitempty"`
	Opaque bool       `yaml:"opaque,omitempty"`
}

// Assertion validates the plan or the result.
type Assertion struct {
	// Type specifies the assertion type:
	// - "optimizer": chosen optimizer name equals Value
	// - "sql": rendered SQL equals Value
	// - "params": bound parameters equal Values
	// - "pushed": pushed step descriptions equal Steps
	// - "residual": residual step descriptions equal Steps
	// - "benefit": chosen optimizer's benefit equals Count
	// - "row_count": number of result rows equals Count
	// - "rows": result rows match Expect in order (subset match per row)
	// - "warning_contains": some validation warning contains Value
	Type string `yaml:"type"`

	Value  string           `yaml:"value,omitempty"`
	Values []any            `yaml:"values,omitempty"`
	Steps  []string         `yaml:"steps,omitempty"`
	Count  int              `yaml:"count,omitempty"`
	Expect []map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertOptimizer       = "optimizer"
	AssertSQL             = "sql"
	AssertParams          = "params"
	AssertPushed          = "pushed"
	AssertResidual        = "residual"
	AssertBenefit         = "benefit"
	AssertRowCount        = "row_count"
	AssertRows            = "rows"
	AssertWarningContains = "warning_contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative specs directory is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving a relative specs directory against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Specs != "" && !filepath.IsAbs(scenario.Specs) && basePath != "" {
		scenario.Specs = filepath.Join(basePath, scenario.Specs)
	}

	return checkScenario(scenario)
}

// LoadScenarioWithSpecs reads a scenario file and replaces its specs
// directory with specsDir. An empty specsDir behaves like LoadScenario.
func LoadScenarioWithSpecs(path, specsDir string) (*Scenario, error) {
	if specsDir == "" {
		return LoadScenario(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	scenario.Specs = specsDir

	return checkScenario(scenario)
}

func checkScenario(scenario *Scenario) (*Scenario, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if info, err := os.Stat(scenario.Specs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("invalid scenario: specs directory not found: %s", scenario.Specs)
	}

	return scenario, nil
}

// ParseScenario decodes scenario YAML without touching the filesystem.
// Spec paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	// strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Specs == "" {
		return fmt.Errorf("specs directory is required")
	}

	if s.Entity == "" {
		return fmt.Errorf("entity is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Pipeline {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks that exactly one operation is set.
func validateStep(index int, s Step) error {
	set := 0
	if s.Filter != nil {
		set++
	}
	if s.Sorted != nil {
		set++
	}
	if s.Skip != nil {
		set++
	}
	if s.Limit != nil {
		set++
	}
	if s.Map != nil {
		set++
	}
	if s.Distinct {
		set++
	}

	switch {
	case set == 0:
		return fmt.Errorf("pipeline[%d]: step has no operation", index)
	case set > 1:
		return fmt.Errorf("pipeline[%d]: step has %d operations, expected one", index, set)
	case s.Skip != nil && *s.Skip < 0:
		return fmt.Errorf("pipeline[%d]: skip must be non-negative", index)
	case s.Limit != nil && *s.Limit < 0:
		return fmt.Errorf("pipeline[%d]: limit must be non-negative", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOptimizer, AssertSQL, AssertWarningContains:
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertParams:
		if a.Values == nil {
			return fmt.Errorf("assertions[%d]: values is required for params (use [] for none)", index)
		}
	case AssertPushed, AssertResidual:
		if a.Steps == nil {
			return fmt.Errorf("assertions[%d]: steps is required for %s (use [] for none)", index, a.Type)
		}
	case AssertBenefit, AssertRowCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertRows:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for rows", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
