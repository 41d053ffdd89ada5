package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
)

// SpanContext is the listener's private state for one recording.
type SpanContext struct {
	parent trace.Span
	span   trace.Span

	// covered is the span that was active underneath the open scope.
	covered trace.Span

	// prev is the recording context to put back when the scope closes, nil
	// when no scope is open.
	prev context.Context
}

// Span returns the span started for the recording, or nil before start.
func (sc *SpanContext) Span() trace.Span {
	return sc.span
}

// Parent returns the span that was active when the recording was created,
// or nil.
func (sc *SpanContext) Parent() trace.Span {
	return sc.parent
}

// openScope makes the span the active span of the recording's context. A
// context that already carries the span is kept as is; closing then falls
// back to that same context with the covered span active again.
func (sc *SpanContext) openScope(r recording.IntervalRecording) {
	ctx := r.Context()
	if sc.covered != nil && sameSpan(trace.SpanFromContext(ctx), sc.span) {
		sc.prev = trace.ContextWithSpan(ctx, sc.covered)
		return
	}
	sc.covered = trace.SpanFromContext(ctx)
	sc.prev = ctx
	r.SetContext(trace.ContextWithSpan(ctx, sc.span))
}

// closeScope releases the span from the recording's context. The saved
// context is put back only while the span is still the active one. A covered
// span that ended in the meantime is not left active either.
func (sc *SpanContext) closeScope(r recording.IntervalRecording) {
	if sc.prev == nil {
		return
	}
	ctx := r.Context()
	if sameSpan(trace.SpanFromContext(ctx), sc.span) {
		ctx = sc.prev
	}
	sc.prev = nil
	if sc.dangling(trace.SpanFromContext(ctx)) {
		ctx = trace.ContextWithSpan(ctx, sc.fallback())
	}
	r.SetContext(ctx)
}

// dangling reports whether active is the covered span and has ended, as
// happens when another tracing listener closed its scope first.
func (sc *SpanContext) dangling(active trace.Span) bool {
	if active.IsRecording() || !sameSpan(active, sc.covered) {
		return false
	}
	return !sameSpan(active, sc.parent)
}

// fallback is the span to make active instead of an ended covered span.
func (sc *SpanContext) fallback() trace.Span {
	if sc.parent != nil {
		return sc.parent
	}
	return trace.SpanFromContext(context.Background())
}

// sameSpan compares spans by their span context. Span values themselves are
// not always comparable.
func sameSpan(a, b trace.Span) bool {
	if a == nil || b == nil {
		return false
	}
	sc := a.SpanContext()
	return sc.IsValid() && sc.Equal(b.SpanContext())
}

func spanContextOf(r recording.IntervalRecording) *SpanContext {
	sc, _ := recording.ContextOf[*SpanContext](r)
	return sc
}
