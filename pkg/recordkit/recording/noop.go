package recording

import (
	"context"
	"time"

	"github.com/randalmurphal/recordkit/pkg/recordkit/event"
	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
)

// NoopInterval is the interval recording handed out by a disabled recorder.
// It remembers its event and context so callers can keep using them, but it
// records nothing and notifies no listener.
type NoopInterval struct {
	ev  event.IntervalEvent
	ctx context.Context
}

// Compile-time interface check.
var _ IntervalRecording = (*NoopInterval)(nil)

// NewNoopInterval returns a no-op recording for e.
func NewNoopInterval(ctx context.Context, e event.IntervalEvent) *NoopInterval {
	if ctx == nil {
		ctx = context.Background()
	}
	return &NoopInterval{ev: e, ctx: ctx}
}

func (r *NoopInterval) Event() event.Event                 { return r.ev }
func (r *NoopInterval) IntervalEvent() event.IntervalEvent { return r.ev }
func (r *NoopInterval) Context() context.Context           { return r.ctx }
func (r *NoopInterval) Tags() []tag.Tag                    { return nil }
func (r *NoopInterval) ListenerContext() any               { return nil }
func (r *NoopInterval) Err() error                         { return nil }
func (r *NoopInterval) State() State                       { return StateCreated }
func (r *NoopInterval) Duration() time.Duration            { return 0 }
func (r *NoopInterval) StartNanos() int64                  { return 0 }
func (r *NoopInterval) StopNanos() int64                   { return 0 }
func (r *NoopInterval) StartWallTime() int64               { return 0 }
func (r *NoopInterval) Stop()                              {}
func (r *NoopInterval) StopAt(int64)                       {}
func (r *NoopInterval) SetContext(context.Context)         {}
func (r *NoopInterval) RecordInstant(event.InstantEvent)   {}

func (r *NoopInterval) HighCardinalityName() string {
	if r.ev == nil {
		return ""
	}
	return r.ev.LowCardinalityName()
}

func (r *NoopInterval) SetHighCardinalityName(string) IntervalRecording { return r }
func (r *NoopInterval) Tag(tag.Tag) IntervalRecording                   { return r }
func (r *NoopInterval) Start() IntervalRecording                        { return r }
func (r *NoopInterval) StartAt(int64, int64) IntervalRecording          { return r }
func (r *NoopInterval) RecordError(error) IntervalRecording             { return r }
func (r *NoopInterval) Restore(context.Context) IntervalRecording       { return r }

// NoopInstant is the instant recording handed out by a disabled recorder.
type NoopInstant struct {
	ev  event.InstantEvent
	ctx context.Context
}

// Compile-time interface check.
var _ InstantRecording = (*NoopInstant)(nil)

// NewNoopInstant returns a no-op recording for e.
func NewNoopInstant(ctx context.Context, e event.InstantEvent) *NoopInstant {
	if ctx == nil {
		ctx = context.Background()
	}
	return &NoopInstant{ev: e, ctx: ctx}
}

func (r *NoopInstant) Event() event.Event               { return r.ev }
func (r *NoopInstant) InstantEvent() event.InstantEvent { return r.ev }
func (r *NoopInstant) Context() context.Context         { return r.ctx }
func (r *NoopInstant) Tags() []tag.Tag                  { return nil }
func (r *NoopInstant) WallTime() int64                  { return 0 }
func (r *NoopInstant) Record()                          {}
func (r *NoopInstant) RecordAt(int64)                   {}

func (r *NoopInstant) HighCardinalityName() string {
	if r.ev == nil {
		return ""
	}
	return r.ev.LowCardinalityName()
}

func (r *NoopInstant) SetHighCardinalityName(string) InstantRecording { return r }
func (r *NoopInstant) Tag(tag.Tag) InstantRecording                   { return r }
