package taskbatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		completed, total int
		want             float64
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{1, 6, 16.67},
		{1, 7, 14.29},
		{3, 3, 100},
		{5, 8, 62.5},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, percent(tt.completed, tt.total), "%d/%d", tt.completed, tt.total)
	}
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	ts := time.Date(2024, 3, 9, 13, 4, 5, 123456789, loc)
	require.Equal(t, "2024-03-09T10:04:05.123Z", formatTimestamp(ts))
}

func TestEventKind_String(t *testing.T) {
	require.Equal(t, "start", EventStart.String())
	require.Equal(t, "progress", EventProgress.String())
	require.Equal(t, "complete", EventComplete.String())
	require.Equal(t, "EventKind(9)", EventKind(9).String())
}

func TestEmitter_SubscribeValidation(t *testing.T) {
	e := newEmitter[int](zap.NewNop())

	_, err := e.subscribe(EventKind(0), func(Event[int]) {})
	require.ErrorIs(t, err, ErrUnknownEventKind)
	require.ErrorIs(t, err, ErrValidation)

	_, err = e.subscribe(EventStart, nil)
	require.ErrorIs(t, err, ErrNilHandler)
}

func TestEmitter_DeliversInRegistrationOrder(t *testing.T) {
	e := newEmitter[int](zap.NewNop())
	var got []string

	_, err := e.subscribe(EventStart, func(Event[int]) { got = append(got, "a") })
	require.NoError(t, err)
	_, err = e.subscribe(EventStart, func(Event[int]) { got = append(got, "b") })
	require.NoError(t, err)
	_, err = e.subscribe(EventProgress, func(Event[int]) { got = append(got, "progress") })
	require.NoError(t, err)

	e.emit(Event[int]{Kind: EventStart})
	require.Equal(t, []string{"a", "b"}, got)
}

func TestEmitter_Unsubscribe(t *testing.T) {
	e := newEmitter[int](zap.NewNop())
	calls := 0
	unsubscribe, err := e.subscribe(EventComplete, func(Event[int]) { calls++ })
	require.NoError(t, err)

	e.emit(Event[int]{Kind: EventComplete})
	unsubscribe()
	unsubscribe() // idempotent
	e.emit(Event[int]{Kind: EventComplete})

	require.Equal(t, 1, calls)
}

func TestEmitter_HandlerPanicIsRecoveredAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := newEmitter[int](zap.New(core))

	after := false
	_, err := e.subscribe(EventStart, func(Event[int]) { panic("listener bug") })
	require.NoError(t, err)
	_, err = e.subscribe(EventStart, func(Event[int]) { after = true })
	require.NoError(t, err)

	require.NotPanics(t, func() { e.emit(Event[int]{Kind: EventStart, RunID: "r1"}) })
	require.True(t, after, "handlers after a panicking one must still run")

	entries := logs.FilterMessage("event handler panicked").All()
	require.Len(t, entries, 1)
	require.Equal(t, "r1", entries[0].ContextMap()["run_id"])
	require.Equal(t, "start", entries[0].ContextMap()["event"])
}
