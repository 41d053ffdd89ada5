// Package otellog emits recordings as OpenTelemetry log records.
//
// One record is emitted per stopped interval recording and per instant
// recording. The body is the event's low cardinality name; the high
// cardinality name, the duration and the tags travel as attributes.
// Records are emitted with the recording's context, so the SDK correlates
// them with the active span.
//
// The listener uses the global OTel logger provider unless one is given:
//
//	global.SetLoggerProvider(yourProvider)
package otellog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"

	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
)

// DefaultLoggerName is the instrumentation name used with the global provider.
const DefaultLoggerName = "recordkit"

// Values of the "kind" attribute.
const (
	KindInterval = "interval"
	KindInstant  = "instant"
)

// Listener emits a log record for every finished recording.
type Listener struct {
	recording.NoopListener

	logger     log.Logger
	name       string
	applicable func(recording.Recording) bool
}

// Compile-time interface check.
var _ recording.Listener = (*Listener)(nil)

// Option configures a Listener.
type Option func(*Listener)

// WithLoggerProvider takes the logger named name from lp.
func WithLoggerProvider(lp log.LoggerProvider, name string) Option {
	return func(l *Listener) {
		if lp != nil {
			l.logger = lp.Logger(name)
		}
	}
}

// WithLoggerName sets the instrumentation name used with the global
// provider. Default: DefaultLoggerName
func WithLoggerName(name string) Option {
	return func(l *Listener) {
		if name != "" {
			l.name = name
		}
	}
}

// WithApplicability restricts the listener to recordings fn accepts.
func WithApplicability(fn func(recording.Recording) bool) Option {
	return func(l *Listener) {
		l.applicable = fn
	}
}

// New creates an OTel log listener.
func New(opts ...Option) *Listener {
	l := &Listener{name: DefaultLoggerName}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsApplicable implements recording.Listener.
func (l *Listener) IsApplicable(r recording.Recording) bool {
	if l.applicable == nil {
		return true
	}
	return l.applicable(r)
}

// OnStop emits the finished recording at Error severity when an error was
// recorded and at Info otherwise.
func (l *Listener) OnStop(r recording.IntervalRecording) {
	sev, text := log.SeverityInfo, "INFO"
	attrs := []log.KeyValue{
		log.String("kind", KindInterval),
		log.String("high_cardinality_name", r.HighCardinalityName()),
		log.Float64("duration_ms", float64(r.Duration())/float64(time.Millisecond)),
	}
	if err := r.Err(); err != nil {
		sev, text = log.SeverityError, "ERROR"
		attrs = append(attrs, log.String("error", err.Error()))
	}
	if kv, ok := tagsKV(r.Tags()); ok {
		attrs = append(attrs, kv)
	}

	stopped := time.Unix(0, r.StartWallTime()+int64(r.Duration()))
	l.emit(r.Context(), r.Event().LowCardinalityName(), sev, text, stopped, attrs)
}

// RecordInstant emits the instant recording at Info severity.
func (l *Listener) RecordInstant(r recording.InstantRecording) {
	attrs := []log.KeyValue{
		log.String("kind", KindInstant),
		log.String("high_cardinality_name", r.HighCardinalityName()),
	}
	if kv, ok := tagsKV(r.Tags()); ok {
		attrs = append(attrs, kv)
	}
	l.emit(r.Context(), r.Event().LowCardinalityName(), log.SeverityInfo, "INFO", time.Unix(0, r.WallTime()), attrs)
}

func (l *Listener) emit(ctx context.Context, body string, sev log.Severity, text string, ts time.Time, attrs []log.KeyValue) {
	logger := l.logger
	if logger == nil {
		logger = global.GetLoggerProvider().Logger(l.name)
	}

	var rec log.Record
	rec.SetTimestamp(ts)
	rec.SetBody(log.StringValue(body))
	rec.SetSeverity(sev)
	rec.SetSeverityText(text)
	rec.AddAttributes(attrs...)
	logger.Emit(ctx, rec)
}

// tagsKV maps all tags under the "tags" key.
func tagsKV(tags []tag.Tag) (log.KeyValue, bool) {
	if len(tags) == 0 {
		return log.KeyValue{}, false
	}
	kvs := make([]log.KeyValue, len(tags))
	for i, t := range tags {
		kvs[i] = log.String(t.Key, t.Value)
	}
	return log.Map("tags", kvs...), true
}
