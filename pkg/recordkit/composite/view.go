package composite

import (
	"context"

	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
)

// view is the recording as seen by one leaf listener. Everything is delegated
// to the underlying recording except ListenerContext, which resolves to the
// leaf's slot, and the chaining methods, which keep returning the view.
type view struct {
	recording.IntervalRecording
	cc   *CompositeContext
	slot int
}

// Compile-time interface check.
var _ recording.IntervalRecording = (*view)(nil)

func (v *view) ListenerContext() any {
	return v.cc.slots[v.slot].ctx
}

func (v *view) SetHighCardinalityName(name string) recording.IntervalRecording {
	v.IntervalRecording.SetHighCardinalityName(name)
	return v
}

func (v *view) Tag(t tag.Tag) recording.IntervalRecording {
	v.IntervalRecording.Tag(t)
	return v
}

func (v *view) Start() recording.IntervalRecording {
	v.IntervalRecording.Start()
	return v
}

func (v *view) StartAt(wallTime, monotonicTime int64) recording.IntervalRecording {
	v.IntervalRecording.StartAt(wallTime, monotonicTime)
	return v
}

func (v *view) RecordError(err error) recording.IntervalRecording {
	v.IntervalRecording.RecordError(err)
	return v
}

func (v *view) Restore(ctx context.Context) recording.IntervalRecording {
	v.IntervalRecording.Restore(ctx)
	return v
}
