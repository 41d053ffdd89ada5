// Package tracing bridges interval recordings to OpenTelemetry spans.
//
// Every started interval recording becomes a span named after its high
// cardinality name. The span's parent is the span active in the recording's
// context when the recording was created, and its start and end timestamps
// are derived from the recording's own timing, so span and recorded duration
// always agree.
//
// While the recording runs its context carries the span, which is how code
// receiving the recording's context sees it as the active span:
//
//	r := rec.RecordingFor(ctx, event.NewInterval("checkout")).Start()
//	callDownstream(r.Context()) // child spans hang below "checkout"
//	r.Stop()
//
// The listener uses the global OTel tracer provider unless one is given.
// Configure the provider before calling New:
//
//	otel.SetTracerProvider(yourProvider)
package tracing

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
)

// DefaultTracerName is the instrumentation name used with the global provider.
const DefaultTracerName = "recordkit"

// Listener turns interval recordings into spans and instant recordings into
// span events.
type Listener struct {
	tracer     trace.Tracer
	kind       trace.SpanKind
	applicable func(recording.Recording) bool
}

// Compile-time interface check.
var _ recording.Listener = (*Listener)(nil)

// Option configures a Listener.
type Option func(*Listener)

// WithTracer sets the tracer spans are started with.
func WithTracer(t trace.Tracer) Option {
	return func(l *Listener) {
		if t != nil {
			l.tracer = t
		}
	}
}

// WithTracerProvider takes the tracer named name from tp.
func WithTracerProvider(tp trace.TracerProvider, name string) Option {
	return func(l *Listener) {
		if tp != nil {
			l.tracer = tp.Tracer(name)
		}
	}
}

// WithTracerName takes the tracer named name from the global provider.
func WithTracerName(name string) Option {
	return func(l *Listener) {
		if name != "" {
			l.tracer = otel.Tracer(name)
		}
	}
}

// WithSpanKind sets the kind of the spans. Default: trace.SpanKindInternal
func WithSpanKind(kind trace.SpanKind) Option {
	return func(l *Listener) {
		l.kind = kind
	}
}

// WithApplicability restricts the listener to recordings fn accepts.
func WithApplicability(fn func(recording.Recording) bool) Option {
	return func(l *Listener) {
		l.applicable = fn
	}
}

// New creates a tracing listener.
func New(opts ...Option) *Listener {
	l := &Listener{
		tracer: otel.Tracer(DefaultTracerName),
		kind:   trace.SpanKindInternal,
	}
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

// CreateContext implements recording.Listener.
func (l *Listener) CreateContext() any {
	return &SpanContext{}
}

// OnCreate remembers the span active in the recording's context as the
// parent of the span started later. No span is started yet.
func (l *Listener) OnCreate(r recording.IntervalRecording) {
	sc := spanContextOf(r)
	if sc == nil {
		return
	}
	if parent := trace.SpanFromContext(r.Context()); parent.SpanContext().IsValid() {
		sc.parent = parent
	}
}

// OnStart starts the span at the recording's start time and opens a scope
// for it. An error recorded before start is attached right away.
func (l *Listener) OnStart(r recording.IntervalRecording) {
	sc := spanContextOf(r)
	if sc == nil {
		return
	}

	ctx := r.Context()
	opts := []trace.SpanStartOption{
		trace.WithTimestamp(time.Unix(0, r.StartWallTime())),
		trace.WithSpanKind(l.kind),
	}
	if sc.parent != nil {
		ctx = trace.ContextWithSpan(ctx, sc.parent)
	} else {
		opts = append(opts, trace.WithNewRoot())
	}

	_, span := l.tracer.Start(ctx, r.HighCardinalityName(), opts...)
	sc.span = span
	sc.openScope(r)

	if err := r.Err(); err != nil {
		recordError(span, err)
	}
}

// OnStop tags and renames the span, closes the scope and then ends the span
// at start plus the recorded duration.
func (l *Listener) OnStop(r recording.IntervalRecording) {
	sc := spanContextOf(r)
	if sc == nil || sc.span == nil {
		return
	}

	span := sc.span
	span.SetName(r.HighCardinalityName())
	if attrs := attributes(r.Tags()); len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if r.Err() == nil {
		span.SetStatus(codes.Ok, "")
	}

	sc.closeScope(r)
	span.End(trace.WithTimestamp(time.Unix(0, r.StartWallTime()+int64(r.Duration()))))
}

// OnError records the error on the span. Errors recorded before start are
// picked up by OnStart.
func (l *Listener) OnError(r recording.IntervalRecording) {
	sc := spanContextOf(r)
	if sc == nil || sc.span == nil {
		return
	}
	recordError(sc.span, r.Err())
}

// OnRestore opens a new scope for the existing span in the recording's
// current context. Stopped recordings and recordings without a span are
// left alone.
func (l *Listener) OnRestore(r recording.IntervalRecording) {
	sc := spanContextOf(r)
	if sc == nil || sc.span == nil || r.State() == recording.StateStopped {
		return
	}
	sc.openScope(r)
}

// RecordInstant adds an event to the span active in the recording's context.
func (l *Listener) RecordInstant(r recording.InstantRecording) {
	span := trace.SpanFromContext(r.Context())
	if !span.IsRecording() {
		return
	}
	span.AddEvent(r.HighCardinalityName(),
		trace.WithTimestamp(time.Unix(0, r.WallTime())),
		trace.WithAttributes(attributes(r.Tags())...),
	)
}

func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func attributes(tags []tag.Tag) []attribute.KeyValue {
	if len(tags) == 0 {
		return nil
	}
	attrs := make([]attribute.KeyValue, len(tags))
	for i, t := range tags {
		attrs[i] = attribute.String(t.Key, t.Value)
	}
	return attrs
}
