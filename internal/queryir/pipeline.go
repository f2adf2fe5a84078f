package queryir

// Pipeline is an ordered, mutable sequence of operations.
//
// Order is significant. The only mutation the optimizer performs is
// RemoveAt, which drops the positions it pushed down and keeps the rest in
// their original relative order. The same instance may appear more than
// once.
//
// Pipeline is not safe for concurrent use. A pipeline is owned by one caller
// for the duration of an optimize call.
type Pipeline struct {
	ops []Operation
}

// NewPipeline creates a pipeline holding ops in order.
func NewPipeline(ops ...Operation) *Pipeline {
	p := &Pipeline{ops: make([]Operation, 0, len(ops))}
	p.ops = append(p.ops, ops...)
	return p
}

// Append adds op to the end of the pipeline and returns the pipeline.
func (p *Pipeline) Append(op Operation) *Pipeline {
	p.ops = append(p.ops, op)
	return p
}

// Len returns the number of operations.
func (p *Pipeline) Len() int {
	return len(p.ops)
}

// IsEmpty reports whether the pipeline has no operations.
func (p *Pipeline) IsEmpty() bool {
	return len(p.ops) == 0
}

// First returns the first operation, or false for an empty pipeline.
func (p *Pipeline) First() (Operation, bool) {
	if len(p.ops) == 0 {
		return nil, false
	}
	return p.ops[0], true
}

// At returns the operation at index i.
func (p *Pipeline) At(i int) Operation {
	return p.ops[i]
}

// Operations returns a copy of the operation slice.
func (p *Pipeline) Operations() []Operation {
	out := make([]Operation, len(p.ops))
	copy(out, p.ops)
	return out
}

// Clone returns a new pipeline sharing the same operation instances.
func (p *Pipeline) Clone() *Pipeline {
	return NewPipeline(p.ops...)
}

// Contains reports whether op (by identity) is in the pipeline.
func (p *Pipeline) Contains(op Operation) bool {
	for _, o := range p.ops {
		if o == op {
			return true
		}
	}
	return false
}

// RemoveAt removes the operations at the given indices and returns how many
// were removed. Out-of-range and repeated indices are ignored. Remaining
// operations keep their order. Another occurrence of a removed instance is
// left in place.
func (p *Pipeline) RemoveAt(indices ...int) int {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(p.ops) {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return 0
	}
	kept := p.ops[:0]
	for i, op := range p.ops {
		if !drop[i] {
			kept = append(kept, op)
		}
	}
	for i := len(kept); i < len(p.ops); i++ {
		p.ops[i] = nil
	}
	p.ops = kept
	return len(drop)
}
