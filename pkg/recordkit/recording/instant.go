package recording

import (
	"context"
	"fmt"

	"github.com/randalmurphal/recordkit/pkg/recordkit/clock"
	"github.com/randalmurphal/recordkit/pkg/recordkit/event"
	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
)

type instant struct {
	ev       event.InstantEvent
	listener Listener
	clk      clock.Clock

	ctx      context.Context
	highName string
	tags     tag.Set
	wallTime int64
	recorded bool
}

// Compile-time interface check.
var _ InstantRecording = (*instant)(nil)

// NewInstant creates an instant recording for e. Nothing is fired until
// Record is called. Nil arguments are defaulted as in NewInterval.
func NewInstant(ctx context.Context, e event.InstantEvent, l Listener, clk clock.Clock) InstantRecording {
	if ctx == nil {
		ctx = context.Background()
	}
	if l == nil {
		l = NoopListener{}
	}
	if clk == nil {
		clk = clock.System
	}
	return &instant{
		ev:       e,
		listener: l,
		clk:      clk,
		ctx:      ctx,
		highName: e.LowCardinalityName(),
	}
}

func (r *instant) Event() event.Event               { return r.ev }
func (r *instant) InstantEvent() event.InstantEvent { return r.ev }
func (r *instant) HighCardinalityName() string      { return r.highName }
func (r *instant) Tags() []tag.Tag                  { return r.tags.All() }
func (r *instant) Context() context.Context         { return r.ctx }
func (r *instant) WallTime() int64                  { return r.wallTime }

func (r *instant) SetHighCardinalityName(name string) InstantRecording {
	r.highName = name
	return r
}

func (r *instant) Tag(t tag.Tag) InstantRecording {
	r.tags.Add(t)
	return r
}

func (r *instant) Record() {
	if r.recorded {
		return
	}
	r.RecordAt(r.clk.WallTime())
}

func (r *instant) RecordAt(wallTime int64) {
	if r.recorded {
		return
	}
	r.recorded = true
	r.wallTime = wallTime
	r.listener.RecordInstant(r)
}

func (r *instant) String() string {
	return fmt.Sprintf("{event=%s, highCardinalityName=%s, wallTime=%d, tags=%v}",
		r.ev.LowCardinalityName(), r.highName, r.wallTime, r.tags.All())
}
