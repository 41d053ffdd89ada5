package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
)

// Listener appends finished recordings to a Store. Store failures are
// logged and otherwise ignored; the instrumented code never sees them.
type Listener struct {
	recording.NoopListener

	store      Store
	logger     *slog.Logger
	applicable func(recording.Recording) bool
}

// Compile-time interface check.
var _ recording.Listener = (*Listener)(nil)

// Option configures a Listener.
type Option func(*Listener)

// WithLogger sets the logger append failures are reported to.
// Default: slog.Default()
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

// New creates a journal listener writing to store.
func New(store Store, opts ...Option) *Listener {
	l := &Listener{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Store returns the store entries are appended to.
func (l *Listener) Store() Store {
	return l.store
}

// IsApplicable implements recording.Listener.
func (l *Listener) IsApplicable(r recording.Recording) bool {
	if l.applicable == nil {
		return true
	}
	return l.applicable(r)
}

// OnStop appends the stopped interval recording.
func (l *Listener) OnStop(r recording.IntervalRecording) {
	e := Entry{
		ID:          uuid.NewString(),
		Kind:        KindInterval,
		Event:       r.Event().LowCardinalityName(),
		Name:        r.HighCardinalityName(),
		Description: r.Event().Description(),
		Time:        time.Unix(0, r.StartWallTime()).UTC(),
		Duration:    r.Duration(),
		Tags:        r.Tags(),
	}
	if err := r.Err(); err != nil {
		e.Error = err.Error()
	}
	l.append(r.Context(), e)
}

// RecordInstant appends the instant recording.
func (l *Listener) RecordInstant(r recording.InstantRecording) {
	l.append(r.Context(), Entry{
		ID:          uuid.NewString(),
		Kind:        KindInstant,
		Event:       r.Event().LowCardinalityName(),
		Name:        r.HighCardinalityName(),
		Description: r.Event().Description(),
		Time:        time.Unix(0, r.WallTime()).UTC(),
		Tags:        r.Tags(),
	})
}

func (l *Listener) append(ctx context.Context, e Entry) {
	if l.store == nil {
		return
	}
	if err := l.store.Append(e); err != nil {
		l.logger.WarnContext(ctx, "journal append failed",
			slog.String("event", e.Event),
			slog.String("entry_id", e.ID),
			slog.String("error", err.Error()))
	}
}
