package taskbatch

import (
	"context"

	"github.com/google/uuid"
)

// Run is the single-flight handle of one execution of a Batch. Every Process call
// made while the run is retained returns the same *Run.
type Run[R any] struct {
	id   string
	done chan struct{}

	// written once before done is closed
	results Results[R]
	err     error
}

func newRun[R any]() *Run[R] {
	return &Run[R]{id: uuid.New().String(), done: make(chan struct{})}
}

// failedRun returns an already settled run carrying err.
func failedRun[R any](err error) *Run[R] {
	r := newRun[R]()
	r.settle(Results[R]{}, err)
	return r
}

func (r *Run[R]) settle(results Results[R], err error) {
	r.results, r.err = results, err
	close(r.done)
}

// ID returns the run identifier, also carried by every event of the run.
func (r *Run[R]) ID() string { return r.id }

// Done is closed once the run has settled.
func (r *Run[R]) Done() <-chan struct{} { return r.done }

// Wait blocks until the run settles or ctx is done. Cancelling ctx only abandons the
// wait; the run itself keeps going.
func (r *Run[R]) Wait(ctx context.Context) (Results[R], error) {
	select {
	case <-ctx.Done():
		return Results[R]{}, ctx.Err()
	case <-r.done:
		return r.results, r.err
	}
}

// Result returns the settled outcome without blocking; ok is false while the run is pending.
func (r *Run[R]) Result() (results Results[R], err error, ok bool) {
	select {
	case <-r.done:
		return r.results, r.err, true
	default:
		return Results[R]{}, nil, false
	}
}
