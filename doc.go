// Package taskbatch runs a batch of tasks with bounded concurrency and returns their
// results in submission order, regardless of completion order.
//
// Lifecycle
//   - New(concurrency, opts...) creates an idle Batch. Concurrency must be > 0.
//   - Add (or AddFunc) queues tasks while the batch is idle. Each task gets the next
//     submission index.
//   - Process starts a run and returns its *Run handle. Repeated calls return the same
//     handle, whether the run is still in progress or already settled.
//   - Run.Wait returns the Results: Results.At(i).Index == i.
//   - Reset returns the batch to idle once no run is in progress. A settled batch
//     rejects Add with ErrAddAfterCompletion until Reset is called.
//
// Admission
// A run starts min(concurrency, queued) tasks, then starts exactly one queued task
// each time a task completes. A slow task never holds back the rest of the queue.
//
// Failures
// A task that returns an error or panics produces a TaskResult with StatusError at
// its index; the run still completes. Add and Reset report misuse with errors
// matching ErrValidation or ErrState. Processing an empty batch yields a run that
// fails with ErrEmptyBatch.
//
// Events
// Subscribe registers handlers for EventStart (once, before any task runs),
// EventProgress (once per completed task, in completion order) and EventComplete
// (once, before Run.Wait returns).
//
// Limitations
// There is no timeout: a task that never returns stalls its run.
//
// Defaults
//   - Logger: zap.NewNop()
//   - Tracer: global OpenTelemetry tracer provider
//   - Metrics: metrics.NoopProvider
//   - Clock: time.Now
package taskbatch
