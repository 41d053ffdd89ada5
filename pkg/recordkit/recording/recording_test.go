package recording_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/randalmurphal/recordkit/pkg/recordkit/clock"
	"github.com/randalmurphal/recordkit/pkg/recordkit/event"
	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

// callLog is the private context of traceListener.
type callLog struct {
	calls []string
}

// traceListener records the hooks it sees, both globally and in its
// per-recording context.
type traceListener struct {
	calls    []string
	contexts int
	instants []recording.InstantRecording
	seen     []*callLog
}

func (l *traceListener) IsApplicable(recording.Recording) bool { return true }

func (l *traceListener) CreateContext() any {
	l.contexts++
	l.calls = append(l.calls, "createContext")
	return &callLog{}
}

func (l *traceListener) hook(name string, r recording.IntervalRecording) {
	l.calls = append(l.calls, name)
	if c, ok := recording.ContextOf[*callLog](r); ok {
		c.calls = append(c.calls, name)
		l.seen = append(l.seen, c)
	}
}

func (l *traceListener) OnCreate(r recording.IntervalRecording)  { l.hook("create", r) }
func (l *traceListener) OnStart(r recording.IntervalRecording)   { l.hook("start", r) }
func (l *traceListener) OnStop(r recording.IntervalRecording)    { l.hook("stop", r) }
func (l *traceListener) OnError(r recording.IntervalRecording)   { l.hook("error", r) }
func (l *traceListener) OnRestore(r recording.IntervalRecording) { l.hook("restore", r) }

func (l *traceListener) RecordInstant(r recording.InstantRecording) {
	l.calls = append(l.calls, "instant")
	l.instants = append(l.instants, r)
}

func newMockClock() *clock.Mock {
	return clock.NewMock(time.Unix(1_700_000_000, 0))
}

func TestNewInterval(t *testing.T) {
	t.Run("context is created once before OnCreate", func(t *testing.T) {
		l := &traceListener{}
		r := recording.NewInterval(context.Background(), event.NewInterval("db.query"), l, newMockClock(), nil)

		assert.Equal(t, []string{"createContext", "create"}, l.calls)
		assert.Equal(t, 1, l.contexts)
		assert.Equal(t, recording.StateCreated, r.State())

		c, ok := recording.ContextOf[*callLog](r)
		require.True(t, ok)
		assert.Equal(t, []string{"create"}, c.calls)
	})

	t.Run("high cardinality name defaults to event name", func(t *testing.T) {
		r := recording.NewInterval(context.Background(), event.NewInterval("http.server"), nil, nil, nil)
		assert.Equal(t, "http.server", r.HighCardinalityName())

		r.SetHighCardinalityName("GET /users/42")
		assert.Equal(t, "GET /users/42", r.HighCardinalityName())
		assert.Equal(t, "http.server", r.Event().LowCardinalityName())
	})

	t.Run("nil arguments get defaults", func(t *testing.T) {
		//nolint:staticcheck // exercising the nil context default
		r := recording.NewInterval(nil, event.NewInterval("x"), nil, nil, nil)
		assert.NotNil(t, r.Context())
		assert.NotPanics(t, func() {
			r.Start()
			r.Stop()
		})
	})

	t.Run("keeps the caller context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ctxKey{}, "v")
		r := recording.NewInterval(ctx, event.NewInterval("x"), nil, nil, nil)
		assert.Equal(t, "v", r.Context().Value(ctxKey{}))
	})
}

func TestIntervalLifecycle(t *testing.T) {
	t.Run("full lifecycle fires hooks in order", func(t *testing.T) {
		l := &traceListener{}
		clk := newMockClock()
		onStop := 0
		r := recording.NewInterval(context.Background(), event.NewInterval("job"), l, clk, func() { onStop++ })

		r.Start()
		clk.Add(250 * time.Millisecond)
		r.RecordError(errors.New("boom"))
		r.Stop()

		assert.Equal(t, []string{"createContext", "create", "start", "error", "stop"}, l.calls)
		assert.Equal(t, recording.StateStopped, r.State())
		assert.Equal(t, 250*time.Millisecond, r.Duration())
		assert.Equal(t, 1, onStop)
	})

	t.Run("start samples both clocks", func(t *testing.T) {
		clk := newMockClock()
		clk.Add(time.Second)
		r := recording.NewInterval(context.Background(), event.NewInterval("job"), nil, clk, nil)
		r.Start()

		assert.Equal(t, clk.WallTime(), r.StartWallTime())
		assert.Equal(t, clk.MonotonicTime(), r.StartNanos())
	})

	t.Run("second start is ignored", func(t *testing.T) {
		l := &traceListener{}
		r := recording.NewInterval(context.Background(), event.NewInterval("job"), l, newMockClock(), nil)
		r.StartAt(100, 10)
		r.StartAt(200, 20)

		assert.Equal(t, int64(100), r.StartWallTime())
		assert.Equal(t, int64(10), r.StartNanos())
		assert.Equal(t, []string{"createContext", "create", "start"}, l.calls)
	})

	t.Run("second stop is ignored", func(t *testing.T) {
		l := &traceListener{}
		onStop := 0
		r := recording.NewInterval(context.Background(), event.NewInterval("job"), l, newMockClock(), func() { onStop++ })
		r.StartAt(0, 10)
		r.StopAt(30)
		r.StopAt(90)
		r.Stop()

		assert.Equal(t, 20*time.Nanosecond, r.Duration())
		assert.Equal(t, int64(30), r.StopNanos())
		assert.Equal(t, 1, onStop)
		assert.Equal(t, []string{"createContext", "create", "start", "stop"}, l.calls)
	})

	t.Run("start after stop is ignored", func(t *testing.T) {
		l := &traceListener{}
		r := recording.NewInterval(context.Background(), event.NewInterval("job"), l, newMockClock(), nil)
		r.StopAt(5)
		r.StartAt(1, 1)

		assert.Equal(t, recording.StateStopped, r.State())
		assert.Equal(t, []string{"createContext", "create", "stop"}, l.calls)
	})

	t.Run("duration is zero before stop", func(t *testing.T) {
		r := recording.NewInterval(context.Background(), event.NewInterval("job"), nil, newMockClock(), nil)
		r.StartAt(0, 1000)
		assert.Zero(t, r.Duration())
	})
}

func TestIntervalDuration(t *testing.T) {
	tests := []struct {
		name        string
		start, stop int64
		want        time.Duration
	}{
		{"zero", 0, 0, 0},
		{"one nanosecond", 7, 8, time.Nanosecond},
		{"large", 1, 1 + int64(time.Hour), time.Hour},
		{"stop before start is not clamped", 100, 40, -60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := recording.NewInterval(context.Background(), event.NewInterval("job"), nil, newMockClock(), nil)
			r.StartAt(0, tt.start)
			r.StopAt(tt.stop)
			assert.Equal(t, tt.want, r.Duration())
		})
	}
}

func TestIntervalRecordError(t *testing.T) {
	t.Run("first error wins", func(t *testing.T) {
		l := &traceListener{}
		e1, e2 := errors.New("first"), errors.New("second")
		r := recording.NewInterval(context.Background(), event.NewInterval("job"), l, newMockClock(), nil)

		r.RecordError(e1)
		r.RecordError(e2)

		assert.Same(t, e1, r.Err())
		assert.Equal(t, []string{"createContext", "create", "error"}, l.calls)
	})

	t.Run("nil error is ignored", func(t *testing.T) {
		l := &traceListener{}
		r := recording.NewInterval(context.Background(), event.NewInterval("job"), l, newMockClock(), nil)
		r.RecordError(nil)

		assert.NoError(t, r.Err())
		assert.NotContains(t, l.calls, "error")
	})

	t.Run("error after stop is ignored", func(t *testing.T) {
		l := &traceListener{}
		r := recording.NewInterval(context.Background(), event.NewInterval("job"), l, newMockClock(), nil)
		r.Start()
		r.Stop()
		r.RecordError(errors.New("late"))

		assert.NoError(t, r.Err())
		assert.NotContains(t, l.calls, "error")
	})

	t.Run("error before start is kept", func(t *testing.T) {
		r := recording.NewInterval(context.Background(), event.NewInterval("job"), nil, newMockClock(), nil)
		err := errors.New("early")
		r.RecordError(err)
		assert.Same(t, err, r.Err())
	})
}

func TestIntervalRestore(t *testing.T) {
	t.Run("fires in every state without touching timing", func(t *testing.T) {
		l := &traceListener{}
		r := recording.NewInterval(context.Background(), event.NewInterval("job"), l, newMockClock(), nil)

		r.Restore(context.Background())
		r.StartAt(10, 100)
		r.Restore(context.Background())
		r.StopAt(150)
		r.Restore(context.Background())

		assert.Equal(t, []string{"createContext", "create", "restore", "start", "restore", "stop", "restore"}, l.calls)
		assert.Equal(t, int64(10), r.StartWallTime())
		assert.Equal(t, 50*time.Nanosecond, r.Duration())
		assert.Equal(t, recording.StateStopped, r.State())
	})

	t.Run("adopts the new context", func(t *testing.T) {
		r := recording.NewInterval(context.Background(), event.NewInterval("job"), nil, newMockClock(), nil)
		ctx := context.WithValue(context.Background(), ctxKey{}, "other")
		r.Restore(ctx)
		assert.Equal(t, "other", r.Context().Value(ctxKey{}))
	})

	t.Run("nil context keeps the current one", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ctxKey{}, "mine")
		r := recording.NewInterval(ctx, event.NewInterval("job"), nil, newMockClock(), nil)
		//nolint:staticcheck // nil context is tolerated
		r.Restore(nil)
		assert.Equal(t, "mine", r.Context().Value(ctxKey{}))
	})

	t.Run("hands over to another goroutine", func(t *testing.T) {
		l := &traceListener{}
		clk := newMockClock()
		r := recording.NewInterval(context.Background(), event.NewInterval("job"), l, clk, nil)
		r.Start()

		done := make(chan struct{})
		go func() {
			defer close(done)
			r.Restore(context.Background())
			clk.Add(time.Millisecond)
			r.Stop()
		}()
		<-done

		assert.Equal(t, []string{"createContext", "create", "start", "restore", "stop"}, l.calls)
		assert.Equal(t, time.Millisecond, r.Duration())
	})
}

func TestIntervalTags(t *testing.T) {
	r := recording.NewInterval(context.Background(), event.NewInterval("job"), nil, newMockClock(), nil)
	r.Tag(tag.Of("view", "all")).
		Tag(tag.Of("view", "mine")).
		Tag(tag.Of("view", "all")).
		Tag(tag.HighOf("user", "42"))

	assert.Equal(t, []tag.Tag{tag.Of("view", "all"), tag.Of("view", "mine"), tag.HighOf("user", "42")}, r.Tags())
}

func TestIntervalRecordInstant(t *testing.T) {
	l := &traceListener{}
	clk := newMockClock()
	ctx := context.WithValue(context.Background(), ctxKey{}, "parent")
	r := recording.NewInterval(ctx, event.NewInterval("job"), l, clk, nil)

	r.RecordInstant(event.NewInstant("cache.miss"))

	require.Len(t, l.instants, 1)
	assert.Equal(t, "cache.miss", l.instants[0].Event().LowCardinalityName())
	assert.Equal(t, clk.WallTime(), l.instants[0].WallTime())
	assert.Equal(t, "parent", l.instants[0].Context().Value(ctxKey{}))
}

func TestInstant(t *testing.T) {
	t.Run("record fires once", func(t *testing.T) {
		l := &traceListener{}
		clk := newMockClock()
		r := recording.NewInstant(context.Background(), event.NewInstant("login"), l, clk)
		assert.Empty(t, l.calls)

		r.Record()
		first := r.WallTime()
		clk.Add(time.Second)
		r.Record()
		r.RecordAt(5)

		assert.Equal(t, []string{"instant"}, l.calls)
		assert.Equal(t, clk.WallTime()-int64(time.Second), first)
		assert.Equal(t, first, r.WallTime())
	})

	t.Run("record at explicit time", func(t *testing.T) {
		r := recording.NewInstant(context.Background(), event.NewInstant("login"), nil, newMockClock())
		r.RecordAt(12345)
		assert.Equal(t, int64(12345), r.WallTime())
	})

	t.Run("tags and names", func(t *testing.T) {
		r := recording.NewInstant(context.Background(), event.NewInstant("login"), nil, nil)
		r.SetHighCardinalityName("login alice").Tag(tag.Of("method", "sso")).Tag(tag.Of("method", "sso"))

		assert.Equal(t, "login alice", r.HighCardinalityName())
		assert.Equal(t, []tag.Tag{tag.Of("method", "sso")}, r.Tags())
		assert.Equal(t, "login", r.InstantEvent().LowCardinalityName())
	})
}

func TestNoopRecordings(t *testing.T) {
	t.Run("interval", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ctxKey{}, "v")
		r := recording.NewNoopInterval(ctx, event.NewInterval("job"))

		r.Tag(tag.Of("a", "b")).SetHighCardinalityName("x").Start().RecordError(errors.New("boom"))
		r.Restore(context.Background())
		r.Stop()

		assert.Nil(t, r.Tags())
		assert.NoError(t, r.Err())
		assert.Zero(t, r.Duration())
		assert.Equal(t, "job", r.HighCardinalityName())
		assert.Equal(t, "v", r.Context().Value(ctxKey{}))
		assert.Nil(t, r.ListenerContext())
	})

	t.Run("instant", func(t *testing.T) {
		r := recording.NewNoopInstant(context.Background(), event.NewInstant("login"))
		r.Tag(tag.Of("a", "b")).Record()

		assert.Nil(t, r.Tags())
		assert.Zero(t, r.WallTime())
		assert.Equal(t, "login", r.HighCardinalityName())
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "created", recording.StateCreated.String())
	assert.Equal(t, "started", recording.StateStarted.String())
	assert.Equal(t, "stopped", recording.StateStopped.String())
	assert.Equal(t, "unknown", recording.State(9).String())
}

func TestContextOf(t *testing.T) {
	r := recording.NewInterval(context.Background(), event.NewInterval("job"), &traceListener{}, nil, nil)

	_, ok := recording.ContextOf[string](r)
	assert.False(t, ok)

	noCtx := recording.NewInterval(context.Background(), event.NewInterval("job"), recording.NoopListener{}, nil, nil)
	_, ok = recording.ContextOf[*callLog](noCtx)
	assert.False(t, ok)
}
