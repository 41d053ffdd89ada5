package recorder

import "github.com/randalmurphal/recordkit/pkg/recordkit/recording"

// Customizer adjusts a recording right before a Sample stops it, e.g. to add
// tags every recording of an application should carry.
type Customizer interface {
	Customize(r recording.IntervalRecording)
}

// CustomizerFunc adapts a function to Customizer.
type CustomizerFunc func(r recording.IntervalRecording)

// Customize calls f(r).
func (f CustomizerFunc) Customize(r recording.IntervalRecording) {
	f(r)
}
