package testutil

// FixedIDGenerator generates the same query ID every time.
//
// This enables deterministic test execution and golden snapshot comparison.
// The same scenario with the same FixedIDGenerator produces byte-identical
// plans and query logs.
//
// Unlike engine.FixedGenerator which returns IDs in sequence, this generator
// always returns the same ID, so a scenario may run any number of queries.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a new fixed query ID generator.
//
// The ID is typically set in the scenario YAML:
//
//	query_id: "test-query-00000000-0000-0000-0000-000000000001"
//
// If id is empty, Generate() returns "test-query-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-query-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed query ID.
//
// Implements engine.QueryIDGenerator interface.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
