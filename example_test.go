package taskbatch_test

import (
	"context"
	"fmt"
	"time"

	"github.com/ygrebnov/taskbatch"
)

// ExampleBatch shows the add / process / wait cycle. Tasks finish in a different
// order than they were added, but results come back in submission order.
func ExampleBatch() {
	b, err := taskbatch.New[string](3)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	delays := []time.Duration{100, 50, 25, 75, 10}
	for i, d := range delays {
		label := fmt.Sprintf("task-%d", i)
		delay := d * time.Millisecond
		_ = b.Add(taskbatch.TaskValue[string](func(context.Context) string {
			time.Sleep(delay)
			return label
		}))
	}

	results, err := b.Process(context.Background()).Wait(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, r := range results.All() {
		fmt.Println(r.Index, r.Status, r.Response)
	}

	// Output:
	// 0 success task-0
	// 1 success task-1
	// 2 success task-2
	// 3 success task-3
	// 4 success task-4
}

// ExampleBatch_Subscribe prints progress as tasks complete. With concurrency 1 tasks
// complete one after another, so the percentages are deterministic.
func ExampleBatch_Subscribe() {
	b, _ := taskbatch.New[int](1)
	for i := 0; i < 3; i++ {
		_ = b.Add(taskbatch.TaskValue[int](func(context.Context) int { return i }))
	}

	_, _ = b.Subscribe(taskbatch.EventStart, func(ev taskbatch.Event[int]) {
		fmt.Println("start:", ev.TotalTasks, "tasks")
	})
	_, _ = b.Subscribe(taskbatch.EventProgress, func(ev taskbatch.Event[int]) {
		fmt.Printf("progress: %d/%d (%.2f%%)\n", ev.CompletedTasks, ev.TotalTasks, ev.Progress)
	})
	_, _ = b.Subscribe(taskbatch.EventComplete, func(ev taskbatch.Event[int]) {
		fmt.Println("complete:", ev.TaskResults.Values())
	})

	_, _ = b.Process(context.Background()).Wait(context.Background())

	// Output:
	// start: 3 tasks
	// progress: 1/3 (33.33%)
	// progress: 2/3 (66.67%)
	// progress: 3/3 (100.00%)
	// complete: [0 1 2]
}

// ExampleBatch_Reset reuses one batch for two independent cycles.
func ExampleBatch_Reset() {
	b, _ := taskbatch.New[string](2)

	_ = b.Add(taskbatch.TaskValue[string](func(context.Context) string { return "first" }))
	first, _ := b.Process(context.Background()).Wait(context.Background())

	// A settled batch rejects new tasks until it is reset.
	fmt.Println(b.Add(taskbatch.TaskValue[string](func(context.Context) string { return "late" })))

	_ = b.Reset()
	_ = b.Add(taskbatch.TaskValue[string](func(context.Context) string { return "second" }))
	second, _ := b.Process(context.Background()).Wait(context.Background())

	fmt.Println(first.Values(), second.Values(), b.Progress())

	// Output:
	// taskbatch: state error: cannot add to a completed batch, call Reset first
	// [first] [second] 100
}

// ExampleRunAll runs a fixed list of tasks and inspects the failures.
func ExampleRunAll() {
	tasks := []taskbatch.Task[int]{
		taskbatch.TaskValue[int](func(context.Context) int { return 1 }),
		taskbatch.TaskError[int](func(context.Context) error { return fmt.Errorf("upstream unavailable") }),
		taskbatch.TaskValue[int](func(context.Context) int { return 3 }),
	}

	res, err := taskbatch.RunAll(context.Background(), 2, tasks)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("values:", res.Values())
	fmt.Printf("failed: %d, %+v\n", res.Failed(), res.At(1).Err)

	// Output:
	// values: [1 3]
	// failed: 1, task(index=1): upstream unavailable
}

// ExampleNew shows the validation of the concurrency limit.
func ExampleNew() {
	_, err := taskbatch.New[int](0)
	fmt.Println(err != nil)

	// Output: true
}
