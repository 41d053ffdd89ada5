// Package logging writes recordings to a structured slog logger.
//
// Lifecycle transitions are logged at Debug, finished recordings and instant
// recordings at Info and errors at Warn:
//
//	rec := recorder.New(recorder.WithListener(logging.New(logging.WithLogger(logger))))
//
// Records are logged with the recording's context, so handlers that read
// trace information from the context see the active span.
package logging

import (
	"context"
	"log/slog"

	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
)

// Log messages, one per hook.
const (
	MsgCreated  = "recording created"
	MsgStarted  = "recording started"
	MsgStopped  = "recording stopped"
	MsgFailed   = "recording failed"
	MsgRestored = "recording restored"
	MsgInstant  = "instant recorded"
)

// Listener logs every hook it receives.
type Listener struct {
	logger     *slog.Logger
	applicable func(recording.Recording) bool
	stopLevel  slog.Level
}

// Compile-time interface check.
var _ recording.Listener = (*Listener)(nil)

// Option configures a Listener.
type Option func(*Listener)

// WithLogger sets the logger. Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(l *Listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithApplicability restricts the listener to recordings fn accepts.
func WithApplicability(fn func(recording.Recording) bool) Option {
	return func(l *Listener) {
		l.applicable = fn
	}
}

// WithStopLevel sets the level of stopped and instant recordings.
// Default: slog.LevelInfo
func WithStopLevel(level slog.Level) Option {
	return func(l *Listener) {
		l.stopLevel = level
	}
}

// New creates a logging listener.
func New(opts ...Option) *Listener {
	l := &Listener{
		logger:    slog.Default(),
		stopLevel: slog.LevelInfo,
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
func (l *Listener) CreateContext() any { return nil }

// OnCreate implements recording.Listener.
func (l *Listener) OnCreate(r recording.IntervalRecording) {
	l.log(r.Context(), slog.LevelDebug, MsgCreated, r)
}

// OnStart implements recording.Listener.
func (l *Listener) OnStart(r recording.IntervalRecording) {
	l.log(r.Context(), slog.LevelDebug, MsgStarted, r)
}

// OnStop logs the duration and the tags of the recording.
func (l *Listener) OnStop(r recording.IntervalRecording) {
	attrs := []slog.Attr{
		slog.Float64("duration_ms", float64(r.Duration())/1e6),
	}
	if err := r.Err(); err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	if a, ok := tagsAttr(r.Tags()); ok {
		attrs = append(attrs, a)
	}
	l.log(r.Context(), l.stopLevel, MsgStopped, r, attrs...)
}

// OnError implements recording.Listener.
func (l *Listener) OnError(r recording.IntervalRecording) {
	l.log(r.Context(), slog.LevelWarn, MsgFailed, r, slog.String("error", r.Err().Error()))
}

// OnRestore implements recording.Listener.
func (l *Listener) OnRestore(r recording.IntervalRecording) {
	l.log(r.Context(), slog.LevelDebug, MsgRestored, r, slog.String("state", r.State().String()))
}

// RecordInstant implements recording.Listener.
func (l *Listener) RecordInstant(r recording.InstantRecording) {
	var attrs []slog.Attr
	if a, ok := tagsAttr(r.Tags()); ok {
		attrs = append(attrs, a)
	}
	l.log(r.Context(), l.stopLevel, MsgInstant, r, attrs...)
}

func (l *Listener) log(ctx context.Context, level slog.Level, msg string, r recording.Recording, attrs ...slog.Attr) {
	if !l.logger.Enabled(ctx, level) {
		return
	}
	all := make([]slog.Attr, 0, len(attrs)+2)
	all = append(all,
		slog.String("event", r.Event().LowCardinalityName()),
		slog.String("high_cardinality_name", r.HighCardinalityName()),
	)
	all = append(all, attrs...)
	l.logger.LogAttrs(ctx, level, msg, all...)
}

// tagsAttr groups all tags, LOW and HIGH, under "tags".
func tagsAttr(tags []tag.Tag) (slog.Attr, bool) {
	if len(tags) == 0 {
		return slog.Attr{}, false
	}
	args := make([]any, len(tags))
	for i, t := range tags {
		args[i] = slog.String(t.Key, t.Value)
	}
	return slog.Group("tags", args...), true
}
