package taskbatch

import "context"

// RunAll executes tasks on a fresh Batch configured by opts and waits for the run.
//
// Semantics:
// - Results are returned in submission order: results.At(i) belongs to tasks[i].
// - Task failures stay inside the results (see Results.Err); the returned error is
//   reserved for setup failures, ErrEmptyBatch and ctx ending the wait.
// - A nil task yields ErrTaskNotInvocable before anything runs.
func RunAll[R any](ctx context.Context, concurrency int, tasks []Task[R], opts ...Option) (Results[R], error) {
	b, err := newBatchWithTasks[R](concurrency, tasks, opts...)
	if err != nil {
		return Results[R]{}, err
	}
	return b.Process(ctx).Wait(ctx)
}

// newBatchWithTasks constructs a Batch and adds every task in order.
func newBatchWithTasks[R any](concurrency int, tasks []Task[R], opts ...Option) (*Batch[R], error) {
	b, err := New[R](concurrency, opts...)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if err = b.Add(t); err != nil {
			return nil, err
		}
	}
	return b, nil
}
