package recorder

import (
	"context"
	"sync"

	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
)

// scopeKey keys a scope by the recorder that owns it, so independent
// recorders never share a current-recording slot.
type scopeKey struct {
	r *Recorder
}

// scope is the current-recording slot of one call chain plus the LIFO stack
// of recordings it displaced.
type scope struct {
	mu      sync.Mutex
	current recording.IntervalRecording
	stack   []recording.IntervalRecording
}

// NewScope returns a copy of ctx carrying a fresh, empty current-recording
// scope for r. Recordings created with the returned context, or any context
// derived from it, share that scope.
//
// Start a new scope per call chain, e.g. per request or per goroutine.
func (r *Recorder) NewScope(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, scopeKey{r: r}, &scope{})
}

// Depth returns how many recordings ctx's scope has displaced, i.e. how many
// are waiting to become current again.
func (r *Recorder) Depth(ctx context.Context) int {
	s := scopeFrom(ctx, r)
	if s == nil {
		return 0
	}
	return s.depth()
}

// HasScope reports whether ctx carries a scope for r.
func (r *Recorder) HasScope(ctx context.Context) bool {
	return scopeFrom(ctx, r) != nil
}

func scopeFrom(ctx context.Context, r *Recorder) *scope {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(scopeKey{r: r}).(*scope)
	return s
}

func (s *scope) get() recording.IntervalRecording {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *scope) push(rec recording.IntervalRecording) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == rec {
		return
	}
	if s.current != nil {
		s.stack = append(s.stack, s.current)
	}
	s.current = rec
}

// pop clears the slot and restores the most recently displaced recording.
// An empty stack leaves the slot empty.
func (s *scope) pop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.popLocked()
}

func (s *scope) popLocked() {
	s.current = nil
	if n := len(s.stack); n > 0 {
		s.current = s.stack[n-1]
		s.stack[n-1] = nil
		s.stack = s.stack[:n-1]
	}
}

// remove drops rec from the scope. When rec is current this is a pop,
// otherwise rec is taken out of the stack so it never becomes current again.
func (s *scope) remove(rec recording.IntervalRecording) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == rec {
		s.popLocked()
		return
	}
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i] == rec {
			s.stack = append(s.stack[:i], s.stack[i+1:]...)
			return
		}
	}
}

// depth returns the number of displaced recordings.
func (s *scope) depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stack)
}
