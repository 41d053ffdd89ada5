// Package recording defines the live records of event occurrences and the
// listener contract that observes them.
//
// A Recording is created for an Event by a Recorder. Interval recordings move
// through CREATED → STARTED → STOPPED and notify their listener at each
// transition; instant recordings notify their listener once when recorded.
// All notifications run synchronously on the calling goroutine.
//
// No operation in this package returns an error or panics on misuse.
// Out-of-order calls degrade gracefully: a second Start is ignored, only the
// first recorded error is kept, and nothing but Restore fires after Stop.
// Panics raised by listeners are not recovered and propagate to the caller.
package recording

import (
	"context"
	"time"

	"github.com/randalmurphal/recordkit/pkg/recordkit/event"
	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
)

// State is the lifecycle state of an interval recording.
type State int

const (
	// StateCreated is the state right after construction.
	StateCreated State = iota
	// StateStarted is the state after Start.
	StateStarted
	// StateStopped is the terminal state after Stop.
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarted:
		return "started"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Recording is the part shared by interval and instant recordings.
type Recording interface {
	// Event returns the event this recording belongs to.
	Event() event.Event

	// HighCardinalityName returns the per-occurrence name. It defaults to the
	// event's low cardinality name.
	HighCardinalityName() string

	// Tags returns the recorded tags in insertion order.
	Tags() []tag.Tag

	// Context returns the Go context of the call chain that owns the recording.
	// Listeners may have replaced it, e.g. with one carrying an active span.
	Context() context.Context
}

// IntervalRecording is a recording with a duration.
type IntervalRecording interface {
	Recording

	// IntervalEvent returns the event as an IntervalEvent.
	IntervalEvent() event.IntervalEvent

	// SetHighCardinalityName overrides the per-occurrence name.
	SetHighCardinalityName(name string) IntervalRecording

	// Tag adds a tag. Identical tags are stored once.
	Tag(t tag.Tag) IntervalRecording

	// Start samples the clock and fires OnStart.
	Start() IntervalRecording

	// StartAt starts the recording with explicit timestamps in nanoseconds.
	StartAt(wallTime, monotonicTime int64) IntervalRecording

	// Stop samples the monotonic clock, computes the duration and fires OnStop.
	Stop()

	// StopAt stops the recording with an explicit monotonic timestamp.
	StopAt(monotonicTime int64)

	// RecordError stores err if no error was stored yet and fires OnError.
	RecordError(err error) IntervalRecording

	// Err returns the first recorded error, or nil.
	Err() error

	// Restore hands the recording to the call chain whose context is ctx and
	// fires OnRestore so listeners can re-acquire chain-bound resources.
	// Timing, tags and state are left untouched.
	Restore(ctx context.Context) IntervalRecording

	// SetContext replaces the recording's Go context. It is meant for
	// listeners that publish ambient state for the rest of the call chain.
	SetContext(ctx context.Context)

	// ListenerContext returns the private context of the listener being
	// notified. Use ContextOf for a typed lookup.
	ListenerContext() any

	// Duration is stop minus start. It is zero until the recording stops.
	Duration() time.Duration

	// StartNanos returns the monotonic start reading.
	StartNanos() int64

	// StopNanos returns the monotonic stop reading.
	StopNanos() int64

	// StartWallTime returns the wall-clock start time in nanoseconds since the epoch.
	StartWallTime() int64

	// State returns the lifecycle state.
	State() State

	// RecordInstant records an instant event through the same listener and clock.
	RecordInstant(e event.InstantEvent)
}

// InstantRecording is a recording of an event that happened at a point in time.
type InstantRecording interface {
	Recording

	// InstantEvent returns the event as an InstantEvent.
	InstantEvent() event.InstantEvent

	// SetHighCardinalityName overrides the per-occurrence name.
	SetHighCardinalityName(name string) InstantRecording

	// Tag adds a tag. Identical tags are stored once.
	Tag(t tag.Tag) InstantRecording

	// Record samples the wall clock and fires RecordInstant.
	// Only the first Record or RecordAt call has an effect.
	Record()

	// RecordAt records the event at an explicit wall time in nanoseconds.
	RecordAt(wallTime int64)

	// WallTime returns the time the event was recorded, or zero before that.
	WallTime() int64
}
