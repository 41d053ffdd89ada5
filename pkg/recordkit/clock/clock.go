// Package clock provides the time sources used by recordings.
//
// Recordings keep two independent readings: a wall-clock time (nanoseconds
// since the Unix epoch) used to place the recording on a timeline, and a
// monotonic reading (nanoseconds from an arbitrary origin) used only to
// compute durations.
package clock

import (
	"sync"
	"time"
)

// Clock supplies wall and monotonic time in nanoseconds.
type Clock interface {
	// WallTime returns the current wall-clock time in nanoseconds since the epoch.
	WallTime() int64

	// MonotonicTime returns a monotonic reading in nanoseconds.
	// Only differences between two readings are meaningful.
	MonotonicTime() int64
}

// System is the process clock. Monotonic readings are measured from the
// moment the package was initialized.
var System Clock = systemClock{origin: time.Now()}

type systemClock struct {
	origin time.Time
}

func (c systemClock) WallTime() int64 {
	return time.Now().UnixNano()
}

func (c systemClock) MonotonicTime() int64 {
	return int64(time.Since(c.origin))
}

// Mock is a manually driven clock for tests.
// Wall and monotonic readings advance together when Add is called.
type Mock struct {
	mu        sync.Mutex
	wall      int64
	monotonic int64
}

// Compile-time interface check.
var _ Clock = (*Mock)(nil)

// NewMock returns a mock clock whose wall time starts at start.
func NewMock(start time.Time) *Mock {
	return &Mock{wall: start.UnixNano()}
}

// WallTime implements Clock.
func (m *Mock) WallTime() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wall
}

// MonotonicTime implements Clock.
func (m *Mock) MonotonicTime() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.monotonic
}

// Add advances both readings by d.
func (m *Mock) Add(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wall += int64(d)
	m.monotonic += int64(d)
}

// Set moves the wall time to t without touching the monotonic reading,
// which is how a wall-clock adjustment looks to a running process.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wall = t.UnixNano()
}
