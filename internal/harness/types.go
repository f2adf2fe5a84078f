package harness

import (
	"github.com/mhafizyusof/speedment/internal/engine"
	"github.com/mhafizyusof/speedment/internal/ir"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass indicates overall success: true if every assertion held.
	Pass bool `json:"pass"`

	// Plan is the query plan the engine chose.
	Plan *engine.Plan `json:"-"`

	// Executed is false when the dialect can only be planned; Rows is
	// then empty and row assertions fail.
	Executed bool `json:"executed"`

	// Rows are the stream's result rows.
	Rows []ir.IRObject `json:"rows"`

	// Fetched is the number of rows the SQL returned before residual
	// evaluation.
	Fetched int `json:"fetched"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Rows:   []ir.IRObject{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
