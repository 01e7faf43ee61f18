package taskbatch

import "context"

// ForEach applies fn to every item with at most concurrency calls in flight and
// returns the joined errors of the failed calls, or nil.
func ForEach[T any](ctx context.Context, concurrency int, items []T, fn func(context.Context, T) error, opts ...Option) error {
	if len(items) == 0 {
		return nil
	}
	tasks := make([]Task[struct{}], 0, len(items))
	for i := range items {
		item := items[i]
		tasks = append(tasks, TaskError[struct{}](func(c context.Context) error { return fn(c, item) }))
	}
	res, err := RunAll[struct{}](ctx, concurrency, tasks, opts...)
	if err != nil {
		return err
	}
	return res.Err()
}
