package optimizer

import (
	"sync"

	"github.com/mhafizyusof/speedment/internal/queryir"
	"github.com/mhafizyusof/speedment/internal/querysql"
)

// SQLStreamOptimizer turns a pipeline prefix into SQL.
type SQLStreamOptimizer interface {
	// Name identifies the optimizer in plans and logs.
	Name() string

	// Metrics estimates the benefit of optimizing p. It must not mutate p.
	Metrics(p *queryir.Pipeline, support querysql.SkipLimitSupport) Metrics

	// Optimize removes the pushed operations from p and returns the SQL.
	Optimize(p *queryir.Pipeline, info Info) (*RewriteOutcome, error)
}

// FallbackOptimizer pushes nothing: it returns the bare select clause and
// leaves the pipeline as it is.
type FallbackOptimizer struct{}

func (FallbackOptimizer) Name() string { return "fallback" }

func (FallbackOptimizer) Metrics(*queryir.Pipeline, querysql.SkipLimitSupport) Metrics {
	return EmptyMetrics()
}

func (FallbackOptimizer) Optimize(p *queryir.Pipeline, info Info) (*RewriteOutcome, error) {
	if p == nil {
		return nil, newContractError(ErrCodeNilPipeline, "optimize called with a nil pipeline")
	}
	if err := info.validate(); err != nil {
		return nil, err
	}
	return &RewriteOutcome{SQL: info.SelectClause, Residual: p}, nil
}

// Candidate is one optimizer with its metrics for a given pipeline.
type Candidate struct {
	Optimizer SQLStreamOptimizer
	Metrics   Metrics
}

// Component is the registry optimizers are selected from.
//
// Component is safe for concurrent use.
type Component struct {
	mu         sync.RWMutex
	optimizers []SQLStreamOptimizer
	fallback   SQLStreamOptimizer
}

// NewComponent creates a registry holding optimizers in order.
func NewComponent(optimizers ...SQLStreamOptimizer) *Component {
	c := &Component{fallback: FallbackOptimizer{}}
	c.optimizers = append(c.optimizers, optimizers...)
	return c
}

// DefaultComponent registers the initial filter and filter/sorted/skip
// optimizers.
func DefaultComponent() *Component {
	return NewComponent(NewInitialFilter(), NewFilterSortedSkip())
}

// Install appends an optimizer to the registry.
func (c *Component) Install(o SQLStreamOptimizer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.optimizers = append(c.optimizers, o)
}

// Candidates scores every registered optimizer against p, in registration
// order. The fallback is not included.
func (c *Component) Candidates(p *queryir.Pipeline, support querysql.SkipLimitSupport) []Candidate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Candidate, len(c.optimizers))
	for i, o := range c.optimizers {
		out[i] = Candidate{Optimizer: o, Metrics: o.Metrics(p, support)}
	}
	return out
}

// Get returns the optimizer with the highest benefit for p. Ties go to
// the optimizer registered first. When nothing scores above zero the
// fallback is returned.
func (c *Component) Get(p *queryir.Pipeline, support querysql.SkipLimitSupport) Candidate {
	best := Candidate{Optimizer: c.fallback, Metrics: EmptyMetrics()}
	for _, cand := range c.Candidates(p, support) {
		if cand.Metrics.PipelineReductions() > best.Metrics.PipelineReductions() {
			best = cand
		}
	}
	return best
}
