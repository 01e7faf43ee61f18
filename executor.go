package taskbatch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ygrebnov/taskbatch/metrics"
)

const (
	metricTasksSucceeded = "taskbatch_tasks_succeeded_total"
	metricTasksFailed    = "taskbatch_tasks_failed_total"
	metricTasksInflight  = "taskbatch_tasks_inflight"
	metricTaskDuration   = "taskbatch_task_duration_seconds"
	metricRuns           = "taskbatch_runs_total"
)

// instruments groups the metrics a Batch records.
type instruments struct {
	succeeded metrics.Counter
	failed    metrics.Counter
	inflight  metrics.UpDownCounter
	duration  metrics.Histogram
	runs      metrics.Counter
}

func newInstruments(p metrics.Provider) instruments {
	return instruments{
		succeeded: p.Counter(metricTasksSucceeded, metrics.WithDescription("tasks that produced a value")),
		failed:    p.Counter(metricTasksFailed, metrics.WithDescription("tasks that failed or panicked")),
		inflight:  p.UpDownCounter(metricTasksInflight, metrics.WithDescription("tasks admitted and not yet settled")),
		duration: p.Histogram(metricTaskDuration,
			metrics.WithDescription("task execution time"), metrics.WithUnit("s")),
		runs: p.Counter(metricRuns, metrics.WithDescription("completed runs")),
	}
}

// executor runs a single work item to completion and turns its outcome into a
// TaskResult. A failing or panicking task never propagates past execute.
type executor[R any] struct {
	logger *zap.Logger
	tracer trace.Tracer
	inst   instruments
}

func newExecutor[R any](logger *zap.Logger, tracer trace.Tracer, inst instruments) *executor[R] {
	return &executor[R]{logger: logger, tracer: tracer, inst: inst}
}

func (e *executor[R]) execute(ctx context.Context, it workItem[R]) TaskResult[R] {
	ctx, span := e.tracer.Start(ctx, "taskbatch.task",
		trace.WithAttributes(attribute.Int("task.index", it.index)))
	defer span.End()

	start := time.Now()
	v, err := callTask(ctx, it.fn)
	elapsed := time.Since(start)
	e.inst.duration.Record(elapsed.Seconds())

	if err != nil {
		e.inst.failed.Add(1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.Debug("task failed",
			zap.Int("index", it.index),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return errorResult[R](it.index, err)
	}

	e.inst.succeeded.Add(1)
	span.SetStatus(codes.Ok, "")
	return successResult(it.index, v)
}
