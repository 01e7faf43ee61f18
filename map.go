package taskbatch

import "context"

// Map applies fn to every item with at most concurrency calls in flight and returns
// the outputs in input order. Failed items are left out of the output and their
// errors are joined into the returned error; use RunAll to keep per-index outcomes.
func Map[T, R any](
	ctx context.Context,
	concurrency int,
	items []T,
	fn func(context.Context, T) (R, error),
	opts ...Option,
) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	tasks := make([]Task[R], 0, len(items))
	for i := range items {
		item := items[i]
		tasks = append(tasks, TaskFunc[R](func(c context.Context) (R, error) { return fn(c, item) }))
	}
	res, err := RunAll[R](ctx, concurrency, tasks, opts...)
	if err != nil {
		return nil, err
	}
	return res.Values(), res.Err()
}
