package taskbatch

import (
	"context"
	"sync"

	"github.com/ygrebnov/taskbatch/pool"
)

// State is the lifecycle state of a Batch.
type State int

const (
	// StateIdle: no run handle; tasks may be added.
	StateIdle State = iota
	// StateProcessing: a run is in progress; Add and Reset are rejected.
	StateProcessing
	// StateCompleted: the run has settled and its handle is retained until Reset.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Batch collects tasks and runs them with bounded concurrency, reporting results in
// submission order. Methods are safe for concurrent use.
type Batch[R any] struct {
	// noCopy prevents accidental copying of the controller.
	//go:nocopy
	nc noCopy

	config    *config
	inst      instruments
	events    *emitter[R]
	executors *pool.Fixed[*executor[R]]

	mu        sync.Mutex
	queue     *workQueue[R]
	total     int
	completed int
	store     *resultStore[R]
	run       *Run[R]
}

// noCopy is a vet-recognized marker to discourage copying types with this field embedded.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates a Batch that keeps at most concurrency tasks unsettled at a time.
// A concurrency of zero or less yields ErrInvalidConcurrency.
func New[R any](concurrency int, opts ...Option) (*Batch[R], error) {
	cfg := defaultConfig()
	cfg.Concurrency = concurrency
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	inst := newInstruments(cfg.Metrics)
	b := &Batch[R]{
		config: &cfg,
		inst:   inst,
		events: newEmitter[R](cfg.Logger),
		queue:  newWorkQueue[R](),
	}
	b.executors = pool.NewFixed(uint(cfg.Concurrency), func() *executor[R] {
		return newExecutor[R](cfg.Logger, cfg.Tracer, inst)
	})
	return b, nil
}

// Add appends a task to the queue and assigns it the next submission index.
//
// It returns ErrTaskNotInvocable for a nil task, ErrAddDuringProcessing while a run is
// in progress and ErrAddAfterCompletion once a run has settled (call Reset first).
func (b *Batch[R]) Add(t Task[R]) error {
	if t == nil {
		return ErrTaskNotInvocable
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.stateLocked() {
	case StateProcessing:
		return ErrAddDuringProcessing
	case StateCompleted:
		return ErrAddAfterCompletion
	}

	b.queue.push(workItem[R]{index: b.total, fn: t})
	b.total++
	return nil
}

// AddFunc is Add for callers holding an untyped function. Accepted shapes are
// Task[R], func(context.Context) (R, error), func(context.Context) R,
// func(context.Context) error, func() (R, error) and func() R; anything else,
// including a nil function, yields ErrTaskNotInvocable.
func (b *Batch[R]) AddFunc(fn any) error {
	t, err := newTask[R](fn)
	if err != nil {
		return err
	}
	return b.Add(t)
}

// Process starts executing the queued tasks and returns the run handle.
//
// While a run is retained, in progress or settled, Process returns that same handle
// and does not execute anything again. With no tasks added it returns an already
// settled run failing with ErrEmptyBatch, which is not retained.
//
// ctx is passed to every task and parents the run's span. The batch does not enforce
// cancellation: once started, a run completes when every task has returned.
func (b *Batch[R]) Process(ctx context.Context) *Run[R] {
	b.mu.Lock()
	if b.run != nil {
		run := b.run
		b.mu.Unlock()
		return run
	}
	if b.total == 0 {
		b.mu.Unlock()
		return failedRun[R](ErrEmptyBatch)
	}

	run := newRun[R]()
	b.run = run
	b.completed = 0
	b.store = newResultStore[R](b.total)
	s := newScheduler(b, run, b.store)
	b.mu.Unlock()

	go s.loop(ctx)
	return run
}

// Reset clears queued tasks, counters, results and the retained run handle, returning
// the batch to idle. It returns ErrResetDuringProcessing while a run is in progress.
func (b *Batch[R]) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stateLocked() == StateProcessing {
		return ErrResetDuringProcessing
	}
	b.queue.clear()
	b.total = 0
	b.completed = 0
	b.store = nil
	b.run = nil
	return nil
}

// Subscribe registers fn for events of the given kind and returns a function that
// removes the registration. Handlers registered before Process observe every event of
// the run, and the complete event is delivered before Run.Wait returns.
func (b *Batch[R]) Subscribe(kind EventKind, fn Handler[R]) (unsubscribe func(), err error) {
	return b.events.subscribe(kind, fn)
}

// IsProcessing reports whether a run is in progress. It is false once the run has
// settled, even though the handle is still retained.
func (b *Batch[R]) IsProcessing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked() == StateProcessing
}

// State returns the current lifecycle state.
func (b *Batch[R]) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// Progress returns the completed share of the current run in percent (0 to 100, two
// decimals).
func (b *Batch[R]) Progress() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return percent(b.completed, b.total)
}

// Size returns the number of tasks added since creation or the last Reset.
func (b *Batch[R]) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// Concurrency returns the configured concurrency limit.
func (b *Batch[R]) Concurrency() int { return b.config.Concurrency }

func (b *Batch[R]) stateLocked() State {
	switch {
	case b.run == nil:
		return StateIdle
	case b.completed < b.total:
		return StateProcessing
	default:
		return StateCompleted
	}
}

// dequeue pops the next work item for the scheduler.
func (b *Batch[R]) dequeue() (workItem[R], bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queue.pop()
}

// record writes a completed result into the run's store and returns the run's
// completed count and whether every slot is now filled. The store is passed explicitly because a handler may Reset the
// batch once the last task has completed, detaching b.store from the finishing run.
func (b *Batch[R]) record(store *resultStore[R], r TaskResult[R]) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	store.write(r)
	if b.store == store {
		b.completed++
	}
	return store.filled, store.full()
}

func (b *Batch[R]) freeze(store *resultStore[R]) Results[R] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return store.freeze()
}
