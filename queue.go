package taskbatch

import "github.com/eapache/queue"

// workItem is one submitted task tagged with its submission index.
type workItem[R any] struct {
	index int
	fn    Task[R]
}

// workQueue is the FIFO of pending work items. It is backed by a ring buffer so
// that dequeuing from the front does not shift the remaining items.
type workQueue[R any] struct {
	q *queue.Queue
}

func newWorkQueue[R any]() *workQueue[R] {
	return &workQueue[R]{q: queue.New()}
}

func (wq *workQueue[R]) push(it workItem[R]) { wq.q.Add(it) }

// pop removes and returns the front item; ok is false when the queue is empty.
func (wq *workQueue[R]) pop() (it workItem[R], ok bool) {
	if wq.q.Length() == 0 {
		return it, false
	}
	return wq.q.Remove().(workItem[R]), true
}

func (wq *workQueue[R]) clear() { wq.q = queue.New() }
