package engine

import (
	"errors"
	"fmt"
)

// DefaultMaxRows is the default cap on rows fetched for one query before
// in-process evaluation.
const DefaultMaxRows = 100_000

// RowQuota enforces a maximum number of fetched rows per query.
//
// A fully pushed-down query only fetches what it returns. A query whose
// pushdown halted early (an opaque filter before a limit, say) may pull a
// whole table into memory; the quota turns that into an error.
//
// A limit of zero or less disables the quota.
type RowQuota struct {
	maxRows int
}

// NewRowQuota creates a quota with the given limit.
func NewRowQuota(maxRows int) *RowQuota {
	return &RowQuota{maxRows: maxRows}
}

// Check validates a fetched row count against the limit.
func (q *RowQuota) Check(queryID string, rows int) error {
	if q.maxRows <= 0 || rows <= q.maxRows {
		return nil
	}
	return &RowsExceededError{QueryID: queryID, Rows: rows, Limit: q.maxRows}
}

// MaxRows returns the limit.
// Used for logging and diagnostics.
func (q *RowQuota) MaxRows() int {
	return q.maxRows
}

// RowsExceededError is returned when a query fetches more rows than the
// quota allows.
type RowsExceededError struct {
	QueryID string // The query that exceeded the quota
	Rows    int    // Rows fetched
	Limit   int    // Maximum allowed rows
}

// Error implements the error interface.
func (e *RowsExceededError) Error() string {
	return fmt.Sprintf("query %s exceeded row quota: %d rows > %d limit",
		e.QueryID, e.Rows, e.Limit)
}

// IsRowsExceededError returns true if the error is a RowsExceededError.
// Uses errors.As to handle wrapped errors.
func IsRowsExceededError(err error) bool {
	var re *RowsExceededError
	return errors.As(err, &re)
}
