package metrics

import (
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/randalmurphal/recordkit/pkg/recordkit/event"
	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
)

// Suffixes of the instruments a LongTaskListener creates per event name.
const (
	ActiveSuffix   = ".active"
	DurationSuffix = ".long_task.duration"
)

// LongTaskListener follows long running interval recordings. It keeps an
// up/down counter of the recordings in flight and records their duration
// once they stop.
//
// By default it applies to events implementing event.LongTask. Names given
// with WithLongTaskNames are followed too, and WithApplicability replaces
// both rules.
type LongTaskListener struct {
	recording.NoopListener

	meter      metric.Meter
	logger     *slog.Logger
	applicable func(recording.Recording) bool
	names      map[string]struct{}

	active    *instruments[metric.Int64UpDownCounter]
	durations *instruments[metric.Float64Histogram]
}

// Compile-time interface check.
var _ recording.Listener = (*LongTaskListener)(nil)

// taskContext is the per-recording state of a LongTaskListener.
type taskContext struct {
	// attrs are the attributes the task was counted as active with; the
	// decrement must use the same set.
	attrs   []attribute.KeyValue
	counted metric.Int64UpDownCounter
}

// NewLongTaskListener creates a long task listener.
func NewLongTaskListener(opts ...Option) *LongTaskListener {
	o := newOptions(opts)
	names := make(map[string]struct{}, len(o.longTaskNames))
	for _, n := range o.longTaskNames {
		names[n] = struct{}{}
	}
	return &LongTaskListener{
		meter:      o.meter,
		logger:     o.logger,
		applicable: o.applicable,
		names:      names,
		active:     newInstruments[metric.Int64UpDownCounter](),
		durations:  newInstruments[metric.Float64Histogram](),
	}
}

// IsApplicable implements recording.Listener.
func (l *LongTaskListener) IsApplicable(r recording.Recording) bool {
	if l.applicable != nil {
		return l.applicable(r)
	}
	e := r.Event()
	if lt, ok := e.(event.LongTask); ok && lt.LongTask() {
		return true
	}
	if _, ok := e.(event.IntervalEvent); !ok {
		return false
	}
	_, ok := l.names[e.LowCardinalityName()]
	return ok
}

// CreateContext implements recording.Listener.
func (l *LongTaskListener) CreateContext() any {
	return &taskContext{}
}

// OnStart counts the recording as active.
func (l *LongTaskListener) OnStart(r recording.IntervalRecording) {
	tc, ok := recording.ContextOf[*taskContext](r)
	if !ok {
		return
	}

	name := r.IntervalEvent().LowCardinalityName() + ActiveSuffix
	c, err := l.active.getOrCreate(name, func() (metric.Int64UpDownCounter, error) {
		return l.meter.Int64UpDownCounter(name,
			metric.WithDescription("Number of in-flight "+r.IntervalEvent().LowCardinalityName()+" tasks"),
			metric.WithUnit("{task}"),
		)
	})
	if err != nil {
		warnInstrument(r.Context(), l.logger, name, err)
		return
	}

	tc.attrs = lowAttributes(r.Tags())
	tc.counted = c
	c.Add(r.Context(), 1, metric.WithAttributes(tc.attrs...))
}

// OnStop removes the recording from the active tasks and records its
// duration. Recordings that were never counted as active are skipped.
func (l *LongTaskListener) OnStop(r recording.IntervalRecording) {
	tc, ok := recording.ContextOf[*taskContext](r)
	if !ok || tc.counted == nil {
		return
	}
	tc.counted.Add(r.Context(), -1, metric.WithAttributes(tc.attrs...))
	tc.counted = nil

	e := r.IntervalEvent()
	name := e.LowCardinalityName() + DurationSuffix
	h, err := l.durations.getOrCreate(name, func() (metric.Float64Histogram, error) {
		return l.meter.Float64Histogram(name,
			metric.WithDescription(e.Description()),
			metric.WithUnit("ms"),
		)
	})
	if err != nil {
		warnInstrument(r.Context(), l.logger, name, err)
		return
	}

	h.Record(r.Context(), milliseconds(r.Duration()), metric.WithAttributes(outcomeAttributes(r.Tags(), r.Err())...))
}
