package buffer

import "sync"

// Pool recycles Buffers between calls so per-buffer scratch space and
// history blocks do not allocate in the steady state. It is safe for
// concurrent use.
type Pool struct {
	pool sync.Pool
}

// NewPool returns an empty Pool.
func NewPool() *Pool {
	p := &Pool{}
	p.pool.New = func() any { return New(0) }
	return p
}

// Get returns a zeroed Buffer of length n. Hand it back with Put.
func (p *Pool) Get(n int) *Buffer {
	b := p.pool.Get().(*Buffer)
	b.Resize(n)
	b.Zero()
	return b
}

// GetCopy returns a Buffer holding a copy of src, skipping the zeroing pass
// Get performs.
func (p *Pool) GetCopy(src []float64) *Buffer {
	b := p.pool.Get().(*Buffer)
	b.samples = append(b.samples[:0], src...)
	return b
}

// Put releases b. Nil is ignored; b must not be used afterwards.
func (p *Pool) Put(b *Buffer) {
	if b != nil {
		p.pool.Put(b)
	}
}
