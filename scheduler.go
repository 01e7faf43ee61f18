package taskbatch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// scheduler drives one run of a Batch with sliding-window admission.
//
// It admits min(concurrency, queued) items up front and afterwards exactly one queued
// item per completion, so the number of unsettled tasks stays at
// min(concurrency, remaining work) until the queue drains. Task goroutines only
// execute and report; every completion is funnelled through the completions channel
// to the scheduler goroutine, which alone writes the result store, advances the
// counters and emits events. Progress events therefore follow completion order and
// never interleave.
type scheduler[R any] struct {
	b           *Batch[R]
	run         *Run[R]
	store       *resultStore[R]
	total       int
	admitted    int
	completions chan TaskResult[R]
	logger      *zap.Logger
}

func newScheduler[R any](b *Batch[R], run *Run[R], store *resultStore[R]) *scheduler[R] {
	size := int(b.config.EventBuffer)
	if size == 0 {
		size = b.config.Concurrency
	}
	return &scheduler[R]{
		b:           b,
		run:         run,
		store:       store,
		total:       store.size(),
		completions: make(chan TaskResult[R], size),
		logger:      b.config.Logger.With(zap.String("run_id", run.ID())),
	}
}

// loop executes the run to completion and settles the run handle.
func (s *scheduler[R]) loop(ctx context.Context) {
	ctx, span := s.b.config.Tracer.Start(ctx, "taskbatch.process",
		trace.WithAttributes(
			attribute.String("run.id", s.run.ID()),
			attribute.Int("run.total_tasks", s.total),
			attribute.Int("run.concurrency", s.b.config.Concurrency),
		))
	defer span.End()

	start := time.Now()
	s.logger.Debug("run started",
		zap.Int("total_tasks", s.total),
		zap.Int("concurrency", s.b.config.Concurrency))

	s.emit(Event[R]{Kind: EventStart, TotalTasks: s.total})

	for i := 0; i < s.b.config.Concurrency; i++ {
		if !s.admit(ctx) {
			break
		}
	}

	for done := false; !done; {
		r := <-s.completions
		var completed int
		completed, done = s.b.record(s.store, r)
		s.emit(Event[R]{
			Kind:                    EventProgress,
			TotalTasks:              s.total,
			CompletedTasks:          completed,
			PendingTasks:            s.total - completed,
			Progress:                percent(completed, s.total),
			LastCompletedTaskResult: r,
		})
		s.admit(ctx)
	}

	results := s.b.freeze(s.store)
	s.b.inst.runs.Add(1)

	failed := results.Failed()
	span.SetAttributes(attribute.Int("run.failed_tasks", failed))
	if failed > 0 {
		span.SetStatus(codes.Error, "one or more tasks failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	s.logger.Debug("run completed",
		zap.Int("total_tasks", s.total),
		zap.Int("failed_tasks", failed),
		zap.Duration("duration", time.Since(start)))

	s.emit(Event[R]{
		Kind:           EventComplete,
		TotalTasks:     s.total,
		CompletedTasks: s.total,
		Progress:       100,
		TaskResults:    results,
	})
	s.run.settle(results, nil)
}

// admit dequeues the next item and starts it. It returns false when the run has no
// more items to start. The admitted bound keeps a finishing run from taking items
// queued after a handler reset the batch.
func (s *scheduler[R]) admit(ctx context.Context) bool {
	if s.admitted == s.total {
		return false
	}
	it, ok := s.b.dequeue()
	if !ok {
		return false
	}
	s.admitted++
	s.b.inst.inflight.Add(1)
	go func() {
		ex := s.b.executors.Get()
		r := ex.execute(ctx, it)
		s.b.executors.Put(ex)
		s.b.inst.inflight.Add(-1)
		s.completions <- r
	}()
	return true
}

func (s *scheduler[R]) emit(ev Event[R]) {
	ev.RunID = s.run.ID()
	ev.Timestamp = formatTimestamp(s.b.config.Clock())
	s.b.events.emit(ev)
}
