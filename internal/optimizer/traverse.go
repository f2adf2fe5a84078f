package optimizer

import "github.com/mhafizyusof/speedment/internal/queryir"

// Consumers receives the operations Traverse matches, one callback per
// kind. Nil callbacks are skipped.
type Consumers struct {
	Filter func(*queryir.Filter)
	Sort   func(*queryir.Sorted)
	Skip   func(*queryir.Skip)
	Limit  func(*queryir.Limit)
}

func (c Consumers) consume(k Kind, op queryir.Operation) {
	switch k {
	case KindFilter:
		if c.Filter != nil {
			c.Filter(op.(*queryir.Filter))
		}
	case KindSort:
		if c.Sort != nil {
			c.Sort(op.(*queryir.Sorted))
		}
	case KindSkip:
		if c.Skip != nil {
			c.Skip(op.(*queryir.Skip))
		}
	case KindLimit:
		if c.Limit != nil {
			c.Limit(op.(*queryir.Limit))
		}
	}
}

// Traversal describes where a walk ended.
type Traversal struct {
	Path Path

	// Stage is the index (0-3) of the last stage reached.
	Stage int

	// Consumed is the number of operations matched before the walk ended.
	Consumed int

	// HaltAt is the index of the operation that halted the walk, or -1
	// when the pipeline was exhausted.
	HaltAt int
}

// Halted reports whether an operation stopped the walk early.
func (t Traversal) Halted() bool {
	return t.HaltAt >= 0
}

// Traverse walks p once, front to back, and hands every matched operation
// to c.
//
// The walk starts in stage 0 of the selected path. For each operation it
// finds the first stage, from the current one onward, whose kind matches
// the operation's classification. A match moves the walk to that stage and
// consumes the operation. No match halts the walk: that operation and all
// after it are left alone, whatever their kind.
//
// Traverse never mutates p. A nil pipeline is treated as empty.
func Traverse(p *queryir.Pipeline, c Consumers) Traversal {
	t := Traversal{Path: SelectPath(p), HaltAt: -1}
	if p == nil {
		return t
	}

	stages := t.Path.Stages()
	for i := 0; i < p.Len(); i++ {
		op := p.At(i)
		next, ok := advance(stages, t.Stage, Classify(op))
		if !ok {
			t.HaltAt = i
			break
		}
		t.Stage = next
		t.Consumed++
		c.consume(stages[next], op)
	}
	return t
}

// advance returns the first stage at or after from that accepts kind k.
func advance(stages [stageCount]Kind, from int, k Kind) (int, bool) {
	if k == KindOther {
		return from, false
	}
	for s := from; s < len(stages); s++ {
		if stages[s] == k {
			return s, true
		}
	}
	return from, false
}

// StageCounts is the number of operations matched per kind.
type StageCounts struct {
	Filter int `json:"filter"`
	Sort   int `json:"sort"`
	Skip   int `json:"skip"`
	Limit  int `json:"limit"`
}

// Total is the number of matched operations of any kind.
func (c StageCounts) Total() int {
	return c.Filter + c.Sort + c.Skip + c.Limit
}

// Count runs Traverse in counting mode.
func Count(p *queryir.Pipeline) StageCounts {
	var c StageCounts
	Traverse(p, Consumers{
		Filter: func(*queryir.Filter) { c.Filter++ },
		Sort:   func(*queryir.Sorted) { c.Sort++ },
		Skip:   func(*queryir.Skip) { c.Skip++ },
		Limit:  func(*queryir.Limit) { c.Limit++ },
	})
	return c
}

// Matched holds the operation instances a traversal consumed, grouped by
// kind in declaration order.
type Matched struct {
	Filters []*queryir.Filter
	Sorts   []*queryir.Sorted
	Skips   []*queryir.Skip
	Limits  []*queryir.Limit

	// Order lists every matched operation in pipeline order. A traversal
	// only consumes a prefix, so Order[i] sits at index i of the pipeline.
	Order []queryir.Operation

	Traversal Traversal
}

// Counts returns the per-kind sizes of m.
func (m Matched) Counts() StageCounts {
	return StageCounts{Filter: len(m.Filters), Sort: len(m.Sorts), Skip: len(m.Skips), Limit: len(m.Limits)}
}

// Collect runs Traverse in collecting mode.
func Collect(p *queryir.Pipeline) Matched {
	var m Matched
	m.Traversal = Traverse(p, Consumers{
		Filter: func(f *queryir.Filter) { m.Filters = append(m.Filters, f); m.Order = append(m.Order, f) },
		Sort:   func(s *queryir.Sorted) { m.Sorts = append(m.Sorts, s); m.Order = append(m.Order, s) },
		Skip:   func(s *queryir.Skip) { m.Skips = append(m.Skips, s); m.Order = append(m.Order, s) },
		Limit:  func(l *queryir.Limit) { m.Limits = append(m.Limits, l); m.Order = append(m.Order, l) },
	})
	return m
}
