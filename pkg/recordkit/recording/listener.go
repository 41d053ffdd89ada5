package recording

// Listener observes recordings.
//
// For every interval recording the listener's CreateContext is called exactly
// once during construction, before OnCreate, and the returned value is what
// ListenerContext yields for the rest of the recording's life. Hooks are
// called synchronously on the goroutine driving the recording. A hook must
// not panic: the panic propagates into the instrumented code.
type Listener interface {
	// IsApplicable reports whether the listener wants to observe r.
	// Composite listeners consult it before any hook or context is touched.
	IsApplicable(r Recording) bool

	// CreateContext returns a fresh private context for one recording.
	CreateContext() any

	// OnCreate is called after the recording is constructed and before the
	// caller can see it.
	OnCreate(r IntervalRecording)

	// OnStart is called after the recording started.
	OnStart(r IntervalRecording)

	// OnStop is called after the recording stopped and its duration is known.
	OnStop(r IntervalRecording)

	// OnError is called once, for the first recorded error.
	OnError(r IntervalRecording)

	// OnRestore is called when the recording moves to another call chain.
	OnRestore(r IntervalRecording)

	// RecordInstant is called once when an instant recording is recorded.
	RecordInstant(r InstantRecording)
}

// NoopListener implements every Listener method as a no-op and is applicable
// to every recording. Embed it to implement only the hooks you need.
type NoopListener struct{}

// Compile-time interface check.
var _ Listener = NoopListener{}

// IsApplicable returns true.
func (NoopListener) IsApplicable(Recording) bool { return true }

// CreateContext returns nil.
func (NoopListener) CreateContext() any { return nil }

// OnCreate does nothing.
func (NoopListener) OnCreate(IntervalRecording) {}

// OnStart does nothing.
func (NoopListener) OnStart(IntervalRecording) {}

// OnStop does nothing.
func (NoopListener) OnStop(IntervalRecording) {}

// OnError does nothing.
func (NoopListener) OnError(IntervalRecording) {}

// OnRestore does nothing.
func (NoopListener) OnRestore(IntervalRecording) {}

// RecordInstant does nothing.
func (NoopListener) RecordInstant(InstantRecording) {}

// ContextOf returns the listener context of r as a T.
// The second result is false if the context is absent or of another type.
func ContextOf[T any](r IntervalRecording) (T, bool) {
	v, ok := r.ListenerContext().(T)
	return v, ok
}
