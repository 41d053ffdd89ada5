// Package composite fans recording notifications out to several listeners.
//
// A Composite is itself a recording.Listener. Its private context is a
// CompositeContext holding one slot per leaf listener, and every leaf is
// notified through a view of the recording whose ListenerContext resolves to
// that leaf's own slot. Leaves never need to know they run inside a
// composite.
//
// Nested composites are flattened when the outer composite is constructed:
// only leaf listeners get slots and the outer policy applies to all of them.
package composite

import (
	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
)

// Policy selects which applicable leaves are notified.
type Policy int

const (
	// AllMatching notifies every applicable leaf in registration order.
	AllMatching Policy = iota
	// FirstMatching notifies only the first applicable leaf.
	FirstMatching
)

// String returns the policy name as used in configuration.
func (p Policy) String() string {
	switch p {
	case AllMatching:
		return "all"
	case FirstMatching:
		return "first"
	default:
		return "unknown"
	}
}

// Flattener is implemented by listeners that stand for a list of leaves.
// Composite constructors splice the leaves in place of such a listener.
type Flattener interface {
	Listeners() []recording.Listener
}

// Composite is a recording.Listener that dispatches to a flat list of leaves.
type Composite struct {
	policy Policy
	leaves []recording.Listener
}

// Compile-time interface checks.
var (
	_ recording.Listener = (*Composite)(nil)
	_ Flattener          = (*Composite)(nil)
)

// NewAllMatching returns a composite that notifies every applicable leaf.
func NewAllMatching(listeners ...recording.Listener) *Composite {
	return New(AllMatching, listeners...)
}

// NewFirstMatching returns a composite that notifies the first applicable leaf.
func NewFirstMatching(listeners ...recording.Listener) *Composite {
	return New(FirstMatching, listeners...)
}

// New returns a composite with the given policy. Nil listeners are skipped.
func New(policy Policy, listeners ...recording.Listener) *Composite {
	return &Composite{policy: policy, leaves: flatten(listeners)}
}

func flatten(listeners []recording.Listener) []recording.Listener {
	out := make([]recording.Listener, 0, len(listeners))
	for _, l := range listeners {
		if l == nil {
			continue
		}
		if f, ok := l.(Flattener); ok {
			out = append(out, f.Listeners()...)
			continue
		}
		out = append(out, l)
	}
	return out
}

// Policy returns the dispatch policy.
func (c *Composite) Policy() Policy { return c.policy }

// Listeners returns a copy of the flattened leaf list.
func (c *Composite) Listeners() []recording.Listener {
	out := make([]recording.Listener, len(c.leaves))
	copy(out, c.leaves)
	return out
}

// IsApplicable reports whether any leaf is applicable to r.
func (c *Composite) IsApplicable(r recording.Recording) bool {
	for _, l := range c.leaves {
		if l.IsApplicable(r) {
			return true
		}
	}
	return false
}

// CreateContext runs every leaf's context factory and returns the resulting
// *CompositeContext.
func (c *Composite) CreateContext() any {
	return newCompositeContext(c)
}

func (c *Composite) OnCreate(r recording.IntervalRecording) {
	c.dispatch(r, recording.Listener.OnCreate)
}

func (c *Composite) OnStart(r recording.IntervalRecording) {
	c.dispatch(r, recording.Listener.OnStart)
}

func (c *Composite) OnStop(r recording.IntervalRecording) {
	c.dispatch(r, recording.Listener.OnStop)
}

func (c *Composite) OnError(r recording.IntervalRecording) {
	c.dispatch(r, recording.Listener.OnError)
}

func (c *Composite) OnRestore(r recording.IntervalRecording) {
	c.dispatch(r, recording.Listener.OnRestore)
}

// RecordInstant passes r to the applicable leaves. Instant recordings carry
// no listener context, so leaves receive r itself.
func (c *Composite) RecordInstant(r recording.InstantRecording) {
	for _, l := range c.leaves {
		if !l.IsApplicable(r) {
			continue
		}
		l.RecordInstant(r)
		if c.policy == FirstMatching {
			return
		}
	}
}

// dispatch calls hook on the applicable leaves, each with its own view of r.
// If r does not carry a context created by this composite, leaves receive r
// unchanged.
func (c *Composite) dispatch(r recording.IntervalRecording, hook func(recording.Listener, recording.IntervalRecording)) {
	cc, _ := r.ListenerContext().(*CompositeContext)
	if cc != nil && cc.owner != c {
		cc = nil
	}
	for i, l := range c.leaves {
		if !l.IsApplicable(r) {
			continue
		}
		if cc != nil {
			hook(l, cc.view(i, r))
		} else {
			hook(l, r)
		}
		if c.policy == FirstMatching {
			return
		}
	}
}
