package taskbatch

import "context"

// RunStream executes tasks on a fresh Batch and delivers each TaskResult on the
// returned channel as soon as its task completes, in completion order. The channel
// is buffered for every task and closed after the last result, so a slow reader never
// stalls the run. The returned Run settles with the ordered results as usual.
//
// A non-nil error is returned only for setup failures (invalid concurrency or options,
// nil task, ErrEmptyBatch), checked in that order.
//
//nolint:gocritic // ignore unnamed results.
func RunStream[R any](ctx context.Context, concurrency int, tasks []Task[R], opts ...Option) (<-chan TaskResult[R], *Run[R], error) {
	b, err := newBatchWithTasks[R](concurrency, tasks, opts...)
	if err != nil {
		return nil, nil, err
	}
	if b.Size() == 0 {
		return nil, nil, ErrEmptyBatch
	}

	out := make(chan TaskResult[R], len(tasks))
	if _, err = b.Subscribe(EventProgress, func(ev Event[R]) {
		out <- ev.LastCompletedTaskResult
	}); err != nil {
		return nil, nil, err
	}
	if _, err = b.Subscribe(EventComplete, func(Event[R]) { close(out) }); err != nil {
		return nil, nil, err
	}

	return out, b.Process(ctx), nil
}
