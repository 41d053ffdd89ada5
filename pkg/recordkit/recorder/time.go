package recorder

import (
	"context"

	"github.com/randalmurphal/recordkit/pkg/recordkit/event"
)

// Time records fn as an interval of e. The recording is started before fn
// runs and stopped when it returns, also if fn panics. A non-nil error from
// fn is recorded and returned unchanged.
//
// fn receives the recording's context, which listeners may have enriched,
// e.g. with the span opened for the recording.
//
// Example:
//
//	err := recorder.Time(ctx, rec, event.NewInterval("db.query"), func(ctx context.Context) error {
//	    return db.QueryRowContext(ctx, q).Scan(&n)
//	})
func Time(ctx context.Context, r *Recorder, e event.IntervalEvent, fn func(ctx context.Context) error) error {
	s := StartSample(ctx, r, e)
	defer s.Stop()

	if err := fn(s.Context()); err != nil {
		s.RecordError(err)
		return err
	}
	return nil
}

// Wrap returns fn timed as an interval of the event returned by newEvent.
// newEvent is called once per invocation so every run gets its own event.
func Wrap(r *Recorder, newEvent func() event.IntervalEvent, fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return Time(ctx, r, newEvent(), fn)
	}
}
