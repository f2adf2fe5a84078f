// Package harness runs pushdown conformance scenarios.
//
// A scenario names a directory of CUE entity schemas, an entity, seed
// rows and a stream pipeline, then asserts on the plan the optimizer
// chose and on the rows the stream produced. Scenarios double as golden
// tests: the plan and rows are snapshotted as canonical JSON.
//
// # Scenario Format
//
//	name: full_pushdown
//	description: "Every step becomes SQL"
//	specs: ../specs
//	entity: User
//	dialect: sqlite
//	query_id: test-query-full-pushdown
//	rows:
//	  - {id: 1, name: ada, age: 36, active: true, createdAt: 990}
//	pipeline:
//	  - filter: {column: age, op: ">", value: 30}
//	  - sorted: {column: createdAt, order: desc}
//	  - skip: 1
//	  - limit: 2
//	assertions:
//	  - type: optimizer
//	    value: filter_sorted_skip
//	  - type: residual
//	    steps: []
//	  - type: rows
//	    expect:
//	      - {id: 2}
//
// Filters and sorts marked opaque: true keep their meaning but hide it
// from the optimizer, so they always run in-process.
//
// # Assertion Types
//
//   - optimizer, sql: exact string match on the plan
//   - params: bound SQL parameters, in order
//   - pushed, residual: step descriptions, in order
//   - benefit: number of steps the chosen optimizer removes
//   - row_count, rows: the executed result (sqlite only)
//   - warning_contains: a validation warning mentions the text
//
// # Deterministic Testing
//
// Every scenario runs with a fixed query ID (scenario.query_id) against a
// fresh in-memory SQLite database, so snapshots are reproducible.
package harness
