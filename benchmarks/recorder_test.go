package benchmarks

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/randalmurphal/recordkit/pkg/recordkit/composite"
	"github.com/randalmurphal/recordkit/pkg/recordkit/event"
	"github.com/randalmurphal/recordkit/pkg/recordkit/listener/logging"
	"github.com/randalmurphal/recordkit/pkg/recordkit/recorder"
	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
)

type nopListener struct {
	recording.NoopListener
}

func listeners(n int) []recording.Listener {
	ls := make([]recording.Listener, n)
	for i := range ls {
		ls[i] = &nopListener{}
	}
	return ls
}

func benchmarkStartStop(b *testing.B, rec *recorder.Recorder) {
	ctx := rec.NewScope(context.Background())
	e := event.NewInterval("bench")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec.RecordingFor(ctx, e).Start().Stop()
	}
}

// BenchmarkRecording_NoListeners measures the lifecycle with nothing attached.
func BenchmarkRecording_NoListeners(b *testing.B) {
	benchmarkStartStop(b, recorder.New())
}

// BenchmarkRecording_AllMatching_1 measures the lifecycle with one listener.
func BenchmarkRecording_AllMatching_1(b *testing.B) {
	benchmarkStartStop(b, recorder.New(recorder.WithListeners(listeners(1)...)))
}

// BenchmarkRecording_AllMatching_10 measures the lifecycle with ten listeners.
func BenchmarkRecording_AllMatching_10(b *testing.B) {
	benchmarkStartStop(b, recorder.New(recorder.WithListeners(listeners(10)...)))
}

// BenchmarkRecording_FirstMatching_10 measures dispatch that stops at the
// first applicable listener.
func BenchmarkRecording_FirstMatching_10(b *testing.B) {
	c := composite.NewFirstMatching(listeners(10)...)
	benchmarkStartStop(b, recorder.New(recorder.WithListener(c)))
}

// BenchmarkRecording_Disabled measures the cost of a disabled recorder.
func BenchmarkRecording_Disabled(b *testing.B) {
	benchmarkStartStop(b, recorder.New(
		recorder.WithListeners(listeners(10)...),
		recorder.WithEnabled(false),
	))
}

// BenchmarkRecording_Tagged measures tagging a recording before start.
func BenchmarkRecording_Tagged(b *testing.B) {
	rec := recorder.New(recorder.WithListeners(listeners(1)...))
	ctx := context.Background()
	e := event.NewInterval("bench")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec.RecordingFor(ctx, e).
			Tag(tag.Of("route", "/orders")).
			Tag(tag.Of("method", "GET")).
			Tag(tag.HighOf("request.id", "r-1")).
			Start().
			Stop()
	}
}

// BenchmarkRecording_Nested_10 measures ten nested recordings in one scope.
func BenchmarkRecording_Nested_10(b *testing.B) {
	rec := recorder.New(recorder.WithListeners(listeners(1)...))
	ctx := rec.NewScope(context.Background())
	e := event.NewInterval("bench")
	open := make([]recording.IntervalRecording, 10)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := range open {
			open[j] = rec.RecordingFor(ctx, e).Start()
		}
		for j := len(open) - 1; j >= 0; j-- {
			open[j].Stop()
		}
	}
}

// BenchmarkCurrentRecording measures looking up the current recording.
func BenchmarkCurrentRecording(b *testing.B) {
	rec := recorder.New()
	ctx := rec.NewScope(context.Background())
	r := rec.RecordingFor(ctx, event.NewInterval("bench")).Start()
	defer r.Stop()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rec.CurrentRecording(ctx)
	}
}

// BenchmarkTime measures the Time helper.
func BenchmarkTime(b *testing.B) {
	rec := recorder.New(recorder.WithListeners(listeners(1)...))
	ctx := context.Background()
	e := event.NewInterval("bench")
	fn := func(context.Context) error { return nil }
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = recorder.Time(ctx, rec, e, fn)
	}
}

// BenchmarkInstant measures recording an instant.
func BenchmarkInstant(b *testing.B) {
	rec := recorder.New(recorder.WithListeners(listeners(1)...))
	ctx := context.Background()
	e := event.NewInstant("bench")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec.InstantFor(ctx, e).Record()
	}
}

// BenchmarkLoggingListener measures the logging listener writing JSON.
func BenchmarkLoggingListener(b *testing.B) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	benchmarkStartStop(b, recorder.New(recorder.WithListener(logging.New(logging.WithLogger(logger)))))
}
