package engine

import (
	"context"
	"strconv"

	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/queryir"
)

// Stream is a lazily evaluated query over one entity.
//
// Intermediate steps only record operations; terminals plan and run the
// query. A Stream may run several terminals and every run sees the full
// declared pipeline. It is not safe for concurrent use while steps are
// still being added.
//
// A bad step (a negative skip, say) is remembered and returned by the
// next terminal.
type Stream struct {
	engine   *Engine
	entity   string
	pipeline *queryir.Pipeline
	err      error
}

// Stream starts a stream over entity.
func (e *Engine) Stream(entity string) *Stream {
	return &Stream{engine: e, entity: entity, pipeline: queryir.NewPipeline()}
}

// Filter keeps rows matching p.
func (s *Stream) Filter(p queryir.Predicate) *Stream {
	s.pipeline.Append(queryir.NewFilter(p))
	return s
}

// Sorted orders rows by c. A later Sorted takes precedence over an
// earlier one.
func (s *Stream) Sorted(c queryir.Comparator) *Stream {
	s.pipeline.Append(queryir.NewSorted(c))
	return s
}

// Skip drops the first n rows.
func (s *Stream) Skip(n int64) *Stream {
	op, err := queryir.NewSkip(n)
	if err != nil {
		return s.fail(err)
	}
	s.pipeline.Append(op)
	return s
}

// Limit keeps at most n rows.
func (s *Stream) Limit(n int64) *Stream {
	op, err := queryir.NewLimit(n)
	if err != nil {
		return s.fail(err)
	}
	s.pipeline.Append(op)
	return s
}

// Map transforms each row in-process.
func (s *Stream) Map(label string, fn func(ir.IRObject) ir.IRObject) *Stream {
	s.pipeline.Append(&queryir.Map{Label: label, Fn: fn})
	return s
}

// Distinct removes duplicate rows in-process.
func (s *Stream) Distinct() *Stream {
	s.pipeline.Append(&queryir.Distinct{})
	return s
}

// Pipeline returns a copy of the declared pipeline.
func (s *Stream) Pipeline() *queryir.Pipeline {
	return s.pipeline.Clone()
}

// Err returns the first step error, if any.
func (s *Stream) Err() error {
	return s.err
}

func (s *Stream) fail(err error) *Stream {
	if s.err == nil {
		s.err = &RuntimeError{
			Code:    ErrCodeInvalidStep,
			Message: err.Error(),
			Entity:  s.entity,
			Details: map[string]string{"step": strconv.Itoa(s.pipeline.Len())},
		}
	}
	return s
}

// Explain plans the stream without running it.
func (s *Stream) Explain() (*Plan, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.engine.Explain(s.entity, s.pipeline)
}

// Run executes the stream and returns its plan and rows.
func (s *Stream) Run(ctx context.Context) (*Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.engine.Execute(ctx, s.entity, s.pipeline)
}

// Collect executes the stream and returns its rows.
func (s *Stream) Collect(ctx context.Context) ([]ir.IRObject, error) {
	res, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// Count executes the stream and returns the number of rows it produces.
func (s *Stream) Count(ctx context.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, _, err := s.engine.CountRows(ctx, s.entity, s.pipeline)
	return n, err
}
