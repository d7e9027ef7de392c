package dynamo

import "sync"

// BufferPool recycles float64 scratch slices of one length, such as the
// per-worker acceleration buffers of a parallel force evaluation.
type BufferPool struct {
	pool sync.Pool
	size int
}

func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float64, size)
			},
		},
	}
}

func (p *BufferPool) Size() int { return p.size }

// Get returns a zeroed buffer of Size elements.
func (p *BufferPool) Get() []float64 {
	return p.pool.Get().([]float64)
}

// Put zeroes b and returns it to the pool. Buffers of the wrong length are
// dropped.
func (p *BufferPool) Put(b []float64) {
	if len(b) != p.size {
		return
	}
	for i := range b {
		b[i] = 0
	}
	p.pool.Put(b)
}
