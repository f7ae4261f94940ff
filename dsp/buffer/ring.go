package buffer

// Ring keeps the fewest most recent blocks that together cover a sample
// budget.
// Pushed data is copied in, and evicted blocks go back to a Pool for later
// pushes. A Ring is not safe for concurrent use.
type Ring struct {
	slots      []*Buffer
	pool       *Pool
	maxSamples int
	total      int
}

// NewRing returns a Ring covering at least maxSamples samples once that much
// has been pushed. The oldest block is dropped only when the rest still
// cover the budget, so retention can exceed it by up to one block. A
// non-positive budget retains nothing.
func NewRing(maxSamples int) *Ring {
	return &Ring{maxSamples: maxSamples, pool: NewPool()}
}

// Push copies samples in as the newest block and evicts old blocks that are
// no longer needed to cover the budget.
func (r *Ring) Push(samples []float64) {
	if r.maxSamples <= 0 {
		return
	}

	b := r.pool.GetCopy(samples)
	r.slots = append(r.slots, b)
	r.total += b.Len()

	for len(r.slots) > 1 && r.total-r.slots[0].Len() >= r.maxSamples {
		old := r.slots[0]
		r.slots[0] = nil
		r.slots = r.slots[1:]
		r.total -= old.Len()
		r.pool.Put(old)
	}
}

// Snapshot returns copies of the retained blocks, oldest first.
func (r *Ring) Snapshot() [][]float64 {
	out := make([][]float64, len(r.slots))
	for i, b := range r.slots {
		out[i] = b.Copy().Samples()
	}
	return out
}

// Len returns the number of retained blocks.
func (r *Ring) Len() int { return len(r.slots) }

// Samples returns the total number of retained samples.
func (r *Ring) Samples() int { return r.total }

// Reset drops every retained block.
func (r *Ring) Reset() {
	for _, b := range r.slots {
		r.pool.Put(b)
	}
	clear(r.slots)
	r.slots = r.slots[:0]
	r.total = 0
}
