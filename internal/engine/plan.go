package engine

import (
	"github.com/mhafizyusof/speedment/internal/optimizer"
	"github.com/mhafizyusof/speedment/internal/queryir"
	"github.com/mhafizyusof/speedment/internal/querysql"
)

// Plan describes how a stream will run: which optimizer won, the SQL it
// rendered, and what is left for in-process evaluation.
type Plan struct {
	QueryID   string
	Entity    string
	Dialect   string
	Support   querysql.SkipLimitSupport
	Path      optimizer.Path
	Optimizer string
	Metrics   optimizer.Metrics

	// Candidates lists every registered optimizer's score, in
	// registration order.
	Candidates []CandidateScore

	SQL    string
	Params []any

	Pushed   []queryir.Operation
	Residual *queryir.Pipeline

	// Warnings explain why steps could not be pushed down.
	Warnings []string
}

// CandidateScore is one optimizer's benefit for the planned pipeline.
type CandidateScore struct {
	Optimizer string            `json:"optimizer"`
	Metrics   optimizer.Metrics `json:"metrics"`
	Benefit   int               `json:"benefit"`
}

// PushedSteps describes the pushed operations in pipeline order.
func (p *Plan) PushedSteps() []string {
	return describeAll(p.Pushed)
}

// ResidualSteps describes the operations left for in-process evaluation.
func (p *Plan) ResidualSteps() []string {
	if p.Residual == nil {
		return []string{}
	}
	return describeAll(p.Residual.Operations())
}

// FullyPushed reports whether nothing is left for in-process evaluation.
func (p *Plan) FullyPushed() bool {
	return p.Residual == nil || p.Residual.IsEmpty()
}

func describeAll(ops []queryir.Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = queryir.Describe(op)
	}
	return out
}
