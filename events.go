package taskbatch

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventKind identifies one of the lifecycle notifications of a run.
type EventKind int

const (
	// EventStart fires once per run, before any task executes.
	EventStart EventKind = iota + 1
	// EventProgress fires once per completed task, in completion order.
	EventProgress
	// EventComplete fires once per run, after results are frozen and before the run settles.
	EventComplete
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventProgress:
		return "progress"
	case EventComplete:
		return "complete"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

func (k EventKind) valid() bool { return k >= EventStart && k <= EventComplete }

// TimestampLayout is the ISO-8601 layout of Event.Timestamp (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Event is the detail passed to handlers. Which fields are meaningful depends on Kind:
//   - EventStart: TotalTasks
//   - EventProgress: TotalTasks, CompletedTasks, PendingTasks, Progress, LastCompletedTaskResult
//   - EventComplete: TaskResults (TotalTasks and CompletedTasks are also set)
type Event[R any] struct {
	Kind      EventKind
	RunID     string
	Timestamp string

	TotalTasks     int
	CompletedTasks int
	PendingTasks   int
	// Progress is the completed share in percent, 0 to 100 with two decimals.
	Progress float64

	LastCompletedTaskResult TaskResult[R]
	TaskResults             Results[R]
}

// Handler receives lifecycle events. Handlers run synchronously on the run's
// scheduler goroutine, so a slow handler delays admission of further tasks.
type Handler[R any] func(Event[R])

// percent returns round(completed/total*10000)/100, or 0 for an empty batch.
func percent(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*10000) / 100
}

func formatTimestamp(t time.Time) string { return t.UTC().Format(TimestampLayout) }

type subscription[R any] struct {
	id uint64
	fn Handler[R]
}

// emitter is the typed observer registry behind Batch.Subscribe.
type emitter[R any] struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[EventKind][]subscription[R]
	logger   *zap.Logger
}

func newEmitter[R any](logger *zap.Logger) *emitter[R] {
	return &emitter[R]{handlers: make(map[EventKind][]subscription[R]), logger: logger}
}

func (e *emitter[R]) subscribe(kind EventKind, fn Handler[R]) (func(), error) {
	if !kind.valid() {
		return nil, ErrUnknownEventKind
	}
	if fn == nil {
		return nil, ErrNilHandler
	}

	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.handlers[kind] = append(e.handlers[kind], subscription[R]{id: id, fn: fn})
	e.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { e.unsubscribe(kind, id) }) }, nil
}

func (e *emitter[R]) unsubscribe(kind EventKind, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	subs := e.handlers[kind]
	for i, s := range subs {
		if s.id == id {
			// copy so that an in-progress emit keeps iterating its own snapshot
			next := make([]subscription[R], 0, len(subs)-1)
			next = append(next, subs[:i]...)
			e.handlers[kind] = append(next, subs[i+1:]...)
			return
		}
	}
}

// emit delivers ev to the handlers registered for its kind, in registration order.
func (e *emitter[R]) emit(ev Event[R]) {
	e.mu.RLock()
	subs := e.handlers[ev.Kind]
	e.mu.RUnlock()

	for _, s := range subs {
		e.call(s.fn, ev)
	}
}

func (e *emitter[R]) call(fn Handler[R], ev Event[R]) {
	defer func() {
		if p := recover(); p != nil {
			e.logger.Warn("event handler panicked",
				zap.String("run_id", ev.RunID),
				zap.Stringer("event", ev.Kind),
				zap.Any("panic", p))
		}
	}()
	fn(ev)
}
