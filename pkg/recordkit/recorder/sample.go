package recorder

import (
	"context"
	"io"
	"strings"

	"github.com/randalmurphal/recordkit/pkg/recordkit/event"
	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
)

// DefaultSampleName is the event name of samples created without an event.
const DefaultSampleName = "sample"

// Sample wraps an interval recording and applies the recorder's customizers
// before it stops.
//
// Methods promoted from the embedded recording that return a recording return
// the underlying one; stop through the Sample so the customizers run.
type Sample struct {
	recording.IntervalRecording

	recorder    *Recorder
	description string
	lowName     string
}

// Compile-time interface checks.
var (
	_ recording.IntervalRecording = (*Sample)(nil)
	_ io.Closer                   = (*Sample)(nil)
)

// NewSample creates a sample for e with r. A nil e gets an event named
// DefaultSampleName.
func NewSample(ctx context.Context, r *Recorder, e event.IntervalEvent) *Sample {
	if e == nil {
		e = event.NewInterval(DefaultSampleName)
	}
	return &Sample{
		IntervalRecording: r.RecordingFor(ctx, e),
		recorder:          r,
	}
}

// NewNamedSample creates a sample for a new interval event called name.
func NewNamedSample(ctx context.Context, r *Recorder, name string) *Sample {
	return NewSample(ctx, r, event.NewInterval(name))
}

// StartSample creates and starts a sample.
func StartSample(ctx context.Context, r *Recorder, e event.IntervalEvent) *Sample {
	s := NewSample(ctx, r, e)
	s.IntervalRecording.Start()
	return s
}

// Recording returns the wrapped recording.
func (s *Sample) Recording() recording.IntervalRecording {
	return s.IntervalRecording
}

// SetDescription sets the description applied to the event before stop.
// Blank values are ignored then.
func (s *Sample) SetDescription(description string) *Sample {
	s.description = description
	return s
}

// SetLowCardinalityName sets the event name applied before stop.
// Blank values are ignored then.
func (s *Sample) SetLowCardinalityName(name string) *Sample {
	s.lowName = name
	return s
}

// Stop customizes and stops the recording.
func (s *Sample) Stop() {
	s.customize()
	s.IntervalRecording.Stop()
}

// StopAt customizes and stops the recording at an explicit monotonic time.
func (s *Sample) StopAt(monotonicTime int64) {
	s.customize()
	s.IntervalRecording.StopAt(monotonicTime)
}

// Close stops the sample. It always returns nil so a Sample can be used
// where an io.Closer is expected.
func (s *Sample) Close() error {
	s.Stop()
	return nil
}

// customize renames and describes the event if requested, then runs the
// recorder's customizers. The event is only changed if it is event.Mutable.
func (s *Sample) customize() {
	if s.IntervalRecording.State() == recording.StateStopped {
		return
	}
	if m, ok := s.IntervalRecording.Event().(event.Mutable); ok {
		if strings.TrimSpace(s.description) != "" {
			m.SetDescription(s.description)
		}
		if strings.TrimSpace(s.lowName) != "" {
			m.SetLowCardinalityName(s.lowName)
		}
	}
	for _, c := range s.recorder.customizers {
		c.Customize(s.IntervalRecording)
	}
}
