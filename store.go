package taskbatch

import "fmt"

// resultStore is the write-once, index-addressed slot array of a run.
//
// It is sized once when the run starts and never resized. Each slot is written exactly
// once, by the scheduler goroutine, in completion order; freeze then exposes the slots
// in submission order. Compared with streaming reordering there is no cursor to
// advance: the run only finishes once every slot is filled, so ordering is positional.
//
// A second write to the same slot, or a write outside the allocated range, means the
// scheduler dequeued an index twice or invented one. That is a bug, not an input
// error, so write panics.
type resultStore[R any] struct {
	slots   []TaskResult[R]
	written []bool
	filled  int
}

func newResultStore[R any](size int) *resultStore[R] {
	return &resultStore[R]{
		slots:   make([]TaskResult[R], size),
		written: make([]bool, size),
	}
}

func (s *resultStore[R]) write(r TaskResult[R]) {
	if r.Index < 0 || r.Index >= len(s.slots) {
		panic(fmt.Sprintf("%s: result index %d out of range [0,%d)", Namespace, r.Index, len(s.slots)))
	}
	if s.written[r.Index] {
		panic(fmt.Sprintf("%s: result slot %d written twice", Namespace, r.Index))
	}
	s.slots[r.Index] = r
	s.written[r.Index] = true
	s.filled++
}

func (s *resultStore[R]) size() int { return len(s.slots) }

func (s *resultStore[R]) full() bool { return s.filled == len(s.slots) }

// freeze returns the slots as an immutable sequence. The store must not be written
// afterwards.
func (s *resultStore[R]) freeze() Results[R] {
	out := make([]TaskResult[R], len(s.slots))
	copy(out, s.slots)
	return Results[R]{items: out}
}
