// Package engine executes declared entity streams.
//
// A Stream is built lazily from filter/sorted/skip/limit/map/distinct
// steps. Nothing runs until a terminal (Collect, Count, Explain) is
// called. At that point the engine:
//
//  1. Clones the stream's pipeline, so a Stream can be reused
//  2. Asks the optimizer component for the best optimizer for the
//     pipeline and the engine's dialect
//  3. Lets that optimizer render SQL and strip the pushed operations
//  4. Runs the SQL against the store (SQLite only)
//  5. Evaluates the residual pipeline in-process over the returned rows
//  6. Appends an entry to the store's query log
//
// Explain stops after step 3 and works for every dialect. Execution needs
// the SQLite dialect because the store is SQLite.
//
// CRITICAL PATTERNS:
//
// Pushdown Equivalence
// In-process evaluation follows SQL semantics (NULL never matches a
// comparison, NULL sorts first ascending, successive sorts are stable),
// so a query returns the same rows however much of it was pushed down.
//
// Row Quota
// Rows fetched before in-process evaluation are capped (WithMaxRows). A
// query whose pushdown halted early fails loudly instead of pulling an
// unbounded table into memory.
//
// Query IDs
// Every terminal call gets a UUIDv7 query ID, logged and stored with the
// query. Tests inject a FixedGenerator for deterministic output.
package engine
