package pool

import "sync/atomic"

// Fixed is a pool holding at most capacity values. Values are created lazily by newFn;
// once capacity values exist, Get blocks until one is Put back.
type Fixed[T any] struct {
	available chan T
	tokens    chan struct{} // one token per value that may still be created
	newFn     func() T

	inUse atomic.Int64
	peak  atomic.Int64
}

// NewFixed creates a pool of the given capacity. A zero capacity pool blocks every Get.
func NewFixed[T any](capacity uint, newFn func() T) *Fixed[T] {
	tokens := make(chan struct{}, capacity)
	for i := uint(0); i < capacity; i++ {
		tokens <- struct{}{}
	}
	return &Fixed[T]{
		available: make(chan T, capacity),
		tokens:    tokens,
		newFn:     newFn,
	}
}

func (p *Fixed[T]) Get() T {
	var el T
	select {
	case el = <-p.available:
	default:
		select {
		case el = <-p.available:
		case <-p.tokens:
			el = p.newFn()
		}
	}
	p.track()
	return el
}

func (p *Fixed[T]) Put(el T) {
	p.inUse.Add(-1)
	p.available <- el
}

// InUse returns the number of values currently checked out.
func (p *Fixed[T]) InUse() int { return int(p.inUse.Load()) }

// Peak returns the highest InUse value observed.
func (p *Fixed[T]) Peak() int { return int(p.peak.Load()) }

func (p *Fixed[T]) track() {
	cur := p.inUse.Add(1)
	for {
		old := p.peak.Load()
		if cur <= old || p.peak.CompareAndSwap(old, cur) {
			return
		}
	}
}
