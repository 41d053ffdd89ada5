package recording

import (
	"context"
	"fmt"
	"time"

	"github.com/randalmurphal/recordkit/pkg/recordkit/clock"
	"github.com/randalmurphal/recordkit/pkg/recordkit/event"
	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
)

// interval is the standard IntervalRecording.
//
// Fields follow a single-writer contract: one call chain drives a recording
// at a time, handing it over explicitly with Restore.
type interval struct {
	ev       event.IntervalEvent
	listener Listener
	lctx     any
	clk      clock.Clock
	onStop   func()

	ctx       context.Context
	highName  string
	tags      tag.Set
	state     State
	started   int64
	stopped   int64
	startWall int64
	err       error
}

// Compile-time interface check.
var _ IntervalRecording = (*interval)(nil)

// NewInterval creates an interval recording for e.
//
// The listener's context is created first and OnCreate fires before
// NewInterval returns. onStop, if not nil, runs once after OnStop. A nil ctx
// is replaced with context.Background, a nil listener with NoopListener and a
// nil clock with clock.System.
func NewInterval(ctx context.Context, e event.IntervalEvent, l Listener, clk clock.Clock, onStop func()) IntervalRecording {
	if ctx == nil {
		ctx = context.Background()
	}
	if l == nil {
		l = NoopListener{}
	}
	if clk == nil {
		clk = clock.System
	}
	r := &interval{
		ev:       e,
		listener: l,
		clk:      clk,
		onStop:   onStop,
		ctx:      ctx,
		highName: e.LowCardinalityName(),
	}
	r.lctx = l.CreateContext()
	l.OnCreate(r)
	return r
}

func (r *interval) Event() event.Event                 { return r.ev }
func (r *interval) IntervalEvent() event.IntervalEvent { return r.ev }
func (r *interval) HighCardinalityName() string        { return r.highName }
func (r *interval) Tags() []tag.Tag                    { return r.tags.All() }
func (r *interval) Context() context.Context           { return r.ctx }
func (r *interval) ListenerContext() any               { return r.lctx }
func (r *interval) Err() error                         { return r.err }
func (r *interval) State() State                       { return r.state }
func (r *interval) StartNanos() int64                  { return r.started }
func (r *interval) StopNanos() int64                   { return r.stopped }
func (r *interval) StartWallTime() int64               { return r.startWall }

func (r *interval) SetHighCardinalityName(name string) IntervalRecording {
	r.highName = name
	return r
}

func (r *interval) Tag(t tag.Tag) IntervalRecording {
	r.tags.Add(t)
	return r
}

func (r *interval) SetContext(ctx context.Context) {
	if ctx != nil {
		r.ctx = ctx
	}
}

func (r *interval) Start() IntervalRecording {
	if r.state != StateCreated {
		return r
	}
	return r.StartAt(r.clk.WallTime(), r.clk.MonotonicTime())
}

func (r *interval) StartAt(wallTime, monotonicTime int64) IntervalRecording {
	if r.state != StateCreated {
		return r
	}
	r.startWall = wallTime
	r.started = monotonicTime
	r.state = StateStarted
	r.listener.OnStart(r)
	return r
}

func (r *interval) Stop() {
	if r.state == StateStopped {
		return
	}
	r.StopAt(r.clk.MonotonicTime())
}

func (r *interval) StopAt(monotonicTime int64) {
	if r.state == StateStopped {
		return
	}
	r.stopped = monotonicTime
	r.state = StateStopped
	r.listener.OnStop(r)
	if r.onStop != nil {
		r.onStop()
	}
}

// Duration is not clamped: a stop reading before the start reading yields a
// negative duration.
func (r *interval) Duration() time.Duration {
	if r.state != StateStopped {
		return 0
	}
	return time.Duration(r.stopped - r.started)
}

func (r *interval) RecordError(err error) IntervalRecording {
	if err == nil || r.err != nil || r.state == StateStopped {
		return r
	}
	r.err = err
	r.listener.OnError(r)
	return r
}

func (r *interval) Restore(ctx context.Context) IntervalRecording {
	r.SetContext(ctx)
	r.listener.OnRestore(r)
	return r
}

func (r *interval) RecordInstant(e event.InstantEvent) {
	NewInstant(r.ctx, e, r.listener, r.clk).Record()
}

func (r *interval) String() string {
	return fmt.Sprintf("{event=%s, highCardinalityName=%s, duration=%dms, tags=%v, error=%v}",
		r.ev.LowCardinalityName(), r.highName, r.Duration().Milliseconds(), r.tags.All(), r.err)
}
