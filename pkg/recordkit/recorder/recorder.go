// Package recorder is the entry point producers use to record events.
//
// A Recorder creates recordings, owns the enabled switch and tracks the
// "current recording" of a call chain. Go has no goroutine-local storage, so
// the per-call-chain slot lives in a scope attached to a context.Context:
//
//	ctx = rec.NewScope(ctx)
//	outer := rec.RecordingFor(ctx, event.NewInterval("request")).Start()
//	inner := rec.RecordingFor(ctx, event.NewInterval("db.query")).Start()
//	inner.Stop()                 // current recording is outer again
//	outer.Stop()                 // no current recording
//
// Without a scope recordings work normally but nothing is tracked as current.
package recorder

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/randalmurphal/recordkit/pkg/recordkit/clock"
	"github.com/randalmurphal/recordkit/pkg/recordkit/composite"
	"github.com/randalmurphal/recordkit/pkg/recordkit/event"
	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
)

// Recorder creates recordings and tracks the current one per scope.
// It is safe for concurrent use.
type Recorder struct {
	listener    recording.Listener
	clock       clock.Clock
	customizers []Customizer
	logger      *slog.Logger
	enabled     atomic.Bool
}

// New creates a Recorder.
//
// Listeners are gathered into one all-matching composite, so applicability is
// always honored. A single *composite.Composite is used as is.
func New(opts ...Option) *Recorder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var l recording.Listener
	if len(cfg.listeners) == 1 {
		if c, ok := cfg.listeners[0].(*composite.Composite); ok {
			l = c
		}
	}
	if l == nil {
		l = composite.NewAllMatching(cfg.listeners...)
	}

	r := &Recorder{
		listener:    l,
		clock:       cfg.clock,
		customizers: cfg.customizers,
		logger:      cfg.logger,
	}
	r.enabled.Store(cfg.enabled)
	return r
}

// Listener returns the root listener recordings are created with.
func (r *Recorder) Listener() recording.Listener {
	return r.listener
}

// Clock returns the clock recordings sample from.
func (r *Recorder) Clock() clock.Clock {
	return r.clock
}

// RecordingFor creates an interval recording for e and makes it the current
// recording of ctx's scope. OnCreate has fired when it returns. Stopping it
// pops the scope of the context it holds at that point, see Restore.
//
// A disabled recorder returns a no-op recording. The check happens here only:
// recordings created while enabled keep notifying listeners after a disable.
func (r *Recorder) RecordingFor(ctx context.Context, e event.IntervalEvent) recording.IntervalRecording {
	if ctx == nil {
		ctx = context.Background()
	}
	if !r.Enabled() {
		return recording.NewNoopInterval(ctx, e)
	}

	created := scopeFrom(ctx, r)
	var rec recording.IntervalRecording
	rec = recording.NewInterval(ctx, e, r.listener, r.clock, func() {
		r.release(rec, created)
	})
	r.SetCurrentRecording(ctx, rec)
	return rec
}

// release runs when rec stops. It pops the scope of the call chain stopping
// rec, found through rec's current context, which Restore may have replaced.
// The scope rec was created in stands in when that context has none. If rec
// stopped in another scope, the creation scope forgets it as well.
func (r *Recorder) release(rec recording.IntervalRecording, created *scope) {
	s := scopeFrom(rec.Context(), r)
	if s == nil {
		s = created
	}
	if s == nil {
		return
	}
	s.pop()
	if created != nil && created != s {
		created.remove(rec)
	}
}

// InstantFor creates an instant recording for e, ready for a single Record.
// A disabled recorder returns a no-op recording.
func (r *Recorder) InstantFor(ctx context.Context, e event.InstantEvent) recording.InstantRecording {
	if ctx == nil {
		ctx = context.Background()
	}
	if !r.Enabled() {
		return recording.NewNoopInstant(ctx, e)
	}
	return recording.NewInstant(ctx, e, r.listener, r.clock)
}

// Enabled reports whether new recordings are live.
func (r *Recorder) Enabled() bool {
	return r.enabled.Load()
}

// SetEnabled flips the enabled switch. The change is visible to every
// goroutine creating recordings from then on.
func (r *Recorder) SetEnabled(enabled bool) {
	if r.enabled.Swap(enabled) != enabled {
		r.logger.Info("recorder switched",
			slog.Bool("enabled", enabled),
		)
	}
}

// CurrentRecording returns the current recording of ctx's scope, or nil if
// there is none, ctx has no scope or the recorder is disabled. Disabling hides
// recordings still in flight: they keep notifying listeners but are not
// reported as current until the recorder is enabled again.
func (r *Recorder) CurrentRecording(ctx context.Context) recording.IntervalRecording {
	if !r.Enabled() {
		return nil
	}
	s := scopeFrom(ctx, r)
	if s == nil {
		return nil
	}
	return s.get()
}

// SetCurrentRecording makes rec the current recording of ctx's scope. The
// previous one is pushed and comes back when rec stops. Setting the
// recording that is already current does nothing. Ignored when the recorder
// is disabled, ctx has no scope or rec is nil.
func (r *Recorder) SetCurrentRecording(ctx context.Context, rec recording.IntervalRecording) {
	if rec == nil || !r.Enabled() {
		return
	}
	s := scopeFrom(ctx, r)
	if s == nil {
		return
	}
	s.push(rec)
}

// Customizers returns the customizers Sample applies before stopping.
func (r *Recorder) Customizers() []Customizer {
	out := make([]Customizer, len(r.customizers))
	copy(out, r.customizers)
	return out
}
