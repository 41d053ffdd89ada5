package composite

import (
	"reflect"

	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
)

// slot pairs a leaf listener with the context it created for one recording.
type slot struct {
	listener recording.Listener
	ctx      any
	view     *view
}

// CompositeContext is the per-recording registry of leaf contexts.
//
// It is built once, when the recording is constructed, and holds exactly one
// slot per flattened leaf. Lookups go by listener identity: two instances of
// the same listener type get independent slots.
type CompositeContext struct {
	owner *Composite
	slots []slot
}

func newCompositeContext(c *Composite) *CompositeContext {
	cc := &CompositeContext{owner: c, slots: make([]slot, len(c.leaves))}
	for i, l := range c.leaves {
		cc.slots[i] = slot{listener: l, ctx: l.CreateContext()}
	}
	return cc
}

// ByListener returns the context created by l, or nil if l has no slot.
// Listeners whose dynamic type is not comparable cannot be looked up.
func (cc *CompositeContext) ByListener(l recording.Listener) any {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return nil
	}
	for _, s := range cc.slots {
		if s.listener == l {
			return s.ctx
		}
	}
	return nil
}

// Len returns the number of slots.
func (cc *CompositeContext) Len() int {
	return len(cc.slots)
}

// Listeners returns the leaf listeners that own a slot, in slot order.
func (cc *CompositeContext) Listeners() []recording.Listener {
	out := make([]recording.Listener, len(cc.slots))
	for i, s := range cc.slots {
		out[i] = s.listener
	}
	return out
}

// view returns the view of r bound to slot i. A CompositeContext belongs to
// a single recording, so the view is built on first use and then reused.
func (cc *CompositeContext) view(i int, r recording.IntervalRecording) recording.IntervalRecording {
	s := &cc.slots[i]
	if s.view == nil {
		s.view = &view{IntervalRecording: r, cc: cc, slot: i}
	}
	return s.view
}
