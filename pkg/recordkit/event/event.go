// Package event describes "what happened": the named, low cardinality
// descriptors that recordings are created for.
//
// An event comes in two kinds. An IntervalEvent produces an interval
// recording that has a start, a stop and therefore a duration. An
// InstantEvent produces an instant recording that happened at a single point
// in time. Both kinds share the Event shape; the kind only tells a listener
// statically whether a duration will ever be available.
//
// Custom events embed Interval or Instant:
//
//	type HTTPServerEvent struct {
//	    event.Interval
//	    Request *http.Request
//	}
//
//	evt := &HTTPServerEvent{Interval: event.Interval{Name: "http.server.requests"}, Request: req}
//	rec := recorder.RecordingFor(ctx, evt)
package event

// Event is the common descriptor of interval and instant events.
type Event interface {
	// LowCardinalityName is the grouping name of the event, e.g. a metric name.
	// It must not be empty and must take few distinct values.
	LowCardinalityName() string

	// Description explains the event, e.g. as a metric description.
	Description() string
}

// Mutable is implemented by events whose name and description may be
// changed after creation. Events that do not implement it are treated as
// immutable and setters are silently skipped.
type Mutable interface {
	SetLowCardinalityName(name string)
	SetDescription(description string)
}

// IntervalEvent is an event that has a duration.
// Implement it by embedding Interval.
type IntervalEvent interface {
	Event
	intervalEvent()
}

// InstantEvent is an event that happens at a point in time.
// Implement it by embedding Instant.
type InstantEvent interface {
	Event
	instantEvent()
}

// LongTask is implemented by events that long-task trackers should follow
// while they are in flight.
type LongTask interface {
	IntervalEvent
	LongTask() bool
}

// Interval is the basic IntervalEvent.
type Interval struct {
	Name string
	Desc string
}

// Compile-time interface checks.
var (
	_ IntervalEvent = (*Interval)(nil)
	_ Mutable       = (*Interval)(nil)
)

// NewInterval returns an interval event with the given name.
func NewInterval(name string) *Interval {
	return &Interval{Name: name}
}

// LowCardinalityName implements Event.
func (e *Interval) LowCardinalityName() string { return e.Name }

// Description implements Event.
func (e *Interval) Description() string { return e.Desc }

// SetLowCardinalityName implements Mutable.
func (e *Interval) SetLowCardinalityName(name string) { e.Name = name }

// SetDescription implements Mutable.
func (e *Interval) SetDescription(description string) { e.Desc = description }

func (e *Interval) intervalEvent() {}

// Instant is the basic InstantEvent.
type Instant struct {
	Name string
	Desc string
}

// Compile-time interface checks.
var (
	_ InstantEvent = (*Instant)(nil)
	_ Mutable      = (*Instant)(nil)
)

// NewInstant returns an instant event with the given name.
func NewInstant(name string) *Instant {
	return &Instant{Name: name}
}

// LowCardinalityName implements Event.
func (e *Instant) LowCardinalityName() string { return e.Name }

// Description implements Event.
func (e *Instant) Description() string { return e.Desc }

// SetLowCardinalityName implements Mutable.
func (e *Instant) SetLowCardinalityName(name string) { e.Name = name }

// SetDescription implements Mutable.
func (e *Instant) SetDescription(description string) { e.Desc = description }

func (e *Instant) instantEvent() {}

// LongRunning is an interval event that long-task trackers follow.
type LongRunning struct {
	Interval
}

// Compile-time interface check.
var _ LongTask = (*LongRunning)(nil)

// NewLongRunning returns a long running interval event with the given name.
func NewLongRunning(name string) *LongRunning {
	return &LongRunning{Interval: Interval{Name: name}}
}

// LongTask implements LongTask.
func (e *LongRunning) LongTask() bool { return true }
