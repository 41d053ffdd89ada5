// Package metrics turns recordings into OpenTelemetry metrics.
//
// TimerListener records one histogram sample per stopped interval recording
// and counts instant recordings. LongTaskListener follows long running
// recordings while they are in flight. Both name their instruments after the
// event's low cardinality name and only use LOW cardinality tags as
// attributes, so the number of time series stays bounded.
//
// Durations carry the outcome in the ErrorKey attribute. It takes the place of
// a LOW tag with the same key, and LOW tags repeating a key keep their last
// value only.
//
// The listeners use the global OTel meter provider unless one is given.
// Configure the provider before calling the constructors:
//
//	otel.SetMeterProvider(yourProvider)
package metrics

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
)

// TimerListener records the duration of interval recordings in a
// Float64Histogram and counts instant recordings in an Int64Counter.
type TimerListener struct {
	recording.NoopListener

	meter      metric.Meter
	logger     *slog.Logger
	applicable func(recording.Recording) bool

	histograms *instruments[metric.Float64Histogram]
	counters   *instruments[metric.Int64Counter]
}

// Compile-time interface check.
var _ recording.Listener = (*TimerListener)(nil)

// NewTimerListener creates a timer listener.
func NewTimerListener(opts ...Option) *TimerListener {
	o := newOptions(opts)
	return &TimerListener{
		meter:      o.meter,
		logger:     o.logger,
		applicable: o.applicable,
		histograms: newInstruments[metric.Float64Histogram](),
		counters:   newInstruments[metric.Int64Counter](),
	}
}

// IsApplicable implements recording.Listener.
func (l *TimerListener) IsApplicable(r recording.Recording) bool {
	if l.applicable == nil {
		return true
	}
	return l.applicable(r)
}

// OnStop records the duration in milliseconds, with the LOW tags and the
// error type as attributes. See outcomeAttributes for key collisions.
func (l *TimerListener) OnStop(r recording.IntervalRecording) {
	e := r.IntervalEvent()
	name := e.LowCardinalityName()

	h, err := l.histograms.getOrCreate(name, func() (metric.Float64Histogram, error) {
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

// RecordInstant increments the counter of the event.
func (l *TimerListener) RecordInstant(r recording.InstantRecording) {
	e := r.InstantEvent()
	name := e.LowCardinalityName()

	c, err := l.counters.getOrCreate(name, func() (metric.Int64Counter, error) {
		return l.meter.Int64Counter(name, metric.WithDescription(e.Description()))
	})
	if err != nil {
		warnInstrument(r.Context(), l.logger, name, err)
		return
	}
	c.Add(r.Context(), 1, metric.WithAttributes(lowAttributes(r.Tags())...))
}

// Instruments returns how many instruments were created so far.
func (l *TimerListener) Instruments() int {
	return l.histograms.len() + l.counters.len()
}
