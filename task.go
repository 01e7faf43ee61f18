package taskbatch

import (
	"context"
	"fmt"
)

// Task is the canonical unit of work accepted by a Batch.
// It takes a context and returns a value of type R or an error.
// Use TaskFunc / TaskValue / TaskError helpers to adapt common function signatures.
//
// Example:
//
//	t := TaskFunc(func(ctx context.Context) (int, error) { return 42, nil })
//	_ = t
type Task[R any] func(context.Context) (R, error)

// TaskFunc adapts func(ctx) (R, error) to Task[R].
func TaskFunc[R any](fn func(context.Context) (R, error)) Task[R] { return Task[R](fn) }

// TaskValue adapts func(ctx) R to Task[R].
func TaskValue[R any](fn func(context.Context) R) Task[R] {
	return func(ctx context.Context) (R, error) { return fn(ctx), nil }
}

// TaskError adapts func(ctx) error to Task[R].
// The returned Task yields the zero value of R alongside the error.
func TaskError[R any](fn func(context.Context) error) Task[R] {
	return func(ctx context.Context) (R, error) { var zero R; return zero, fn(ctx) }
}

// newTask converts the function shapes accepted at the dynamic boundary into Task[R].
// Nil functions and unsupported types yield ErrTaskNotInvocable.
func newTask[R any](fn any) (Task[R], error) {
	switch typed := fn.(type) {
	case Task[R]:
		if typed != nil {
			return typed, nil
		}
	case func(context.Context) (R, error):
		if typed != nil {
			return TaskFunc[R](typed), nil
		}
	case func(context.Context) R:
		if typed != nil {
			return TaskValue[R](typed), nil
		}
	case func(context.Context) error:
		if typed != nil {
			return TaskError[R](typed), nil
		}
	case func() (R, error):
		if typed != nil {
			return func(context.Context) (R, error) { return typed() }, nil
		}
	case func() R:
		if typed != nil {
			return func(context.Context) (R, error) { return typed(), nil }, nil
		}
	}
	return nil, ErrTaskNotInvocable
}

// callTask invokes fn and converts a panic into an ErrTaskPanicked failure.
// No deadline is imposed: a task that never returns stalls its run.
func callTask[R any](ctx context.Context, fn Task[R]) (result R, err error) {
	defer func() {
		if ePanic := recover(); ePanic != nil {
			var zero R
			result, err = zero, fmt.Errorf("%w: %v", ErrTaskPanicked, ePanic)
		}
	}()
	return fn(ctx)
}
