// Package optimizer implements SQL pushdown for declared stream pipelines.
//
// Given a queryir.Pipeline and a target dialect, an optimizer decides how
// much of the pipeline prefix can run inside the database, renders that
// part as one SQL statement and removes it from the pipeline. Whatever is
// left (the residual pipeline) runs in-process over the returned rows.
//
// ARCHITECTURE:
//
//	Classify ─→ SelectPath ─→ Traverse ─┬─→ Count   ─→ Metrics (scoring)
//	                                    └─→ Collect ─→ Assemble ─→ RemoveAt
//
// Traverse is the forward-only four stage automaton. Scoring and rewriting
// both run it, so the halt point is always the same for both passes.
//
// STAGE ORDER:
//
// The first operation picks one of two fixed paths:
//   - FilterFirst: filter, sort, skip, limit
//   - SortFirst:   sort, filter, skip, limit
//
// An operation may repeat within its own stage or jump forward to a later
// stage. It may never go back. The first operation that fits no stage from
// the current one onward halts the walk, and it stays in the pipeline
// together with everything after it.
//
// SELECTION:
//
// Several optimizers may apply to the same pipeline. Component asks each
// for its Metrics and keeps the one with the highest benefit, falling back
// to FallbackOptimizer (push nothing) when no optimizer scores above zero.
//
// The package performs no I/O and holds no locks around pipelines. A
// pipeline must be owned by a single caller for the duration of Optimize.
package optimizer
