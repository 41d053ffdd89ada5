package otellog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/randalmurphal/recordkit/pkg/recordkit/clock"
	"github.com/randalmurphal/recordkit/pkg/recordkit/event"
	"github.com/randalmurphal/recordkit/pkg/recordkit/listener/otellog"
	"github.com/randalmurphal/recordkit/pkg/recordkit/listener/tracing"
	"github.com/randalmurphal/recordkit/pkg/recordkit/recorder"
	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// memoryProcessor keeps every emitted record.
type memoryProcessor struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (p *memoryProcessor) OnEmit(_ context.Context, r *sdklog.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, r.Clone())
	return nil
}

func (p *memoryProcessor) Enabled(context.Context, sdklog.EnabledParameters) bool { return true }

func (p *memoryProcessor) Shutdown(context.Context) error   { return nil }
func (p *memoryProcessor) ForceFlush(context.Context) error { return nil }

func (p *memoryProcessor) Records() []sdklog.Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sdklog.Record(nil), p.records...)
}

// setupLogTest creates a logger provider backed by an in-memory processor.
func setupLogTest(t *testing.T) (*memoryProcessor, *sdklog.LoggerProvider) {
	p := &memoryProcessor{}
	lp := sdklog.NewLoggerProvider(sdklog.WithProcessor(p))
	t.Cleanup(func() {
		if err := lp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down logger provider: %v", err)
		}
	})
	return p, lp
}

func attributes(r sdklog.Record) map[string]log.Value {
	out := make(map[string]log.Value)
	r.WalkAttributes(func(kv log.KeyValue) bool {
		out[kv.Key] = kv.Value
		return true
	})
	return out
}

func tagMap(v log.Value) map[string]string {
	out := make(map[string]string)
	for _, kv := range v.AsMap() {
		out[kv.Key] = kv.Value.AsString()
	}
	return out
}

func TestStoppedRecording(t *testing.T) {
	p, lp := setupLogTest(t)
	clk := clock.NewMock(epoch)
	rec := recorder.New(
		recorder.WithListener(otellog.New(otellog.WithLoggerProvider(lp, "test"))),
		recorder.WithClock(clk),
	)

	r := rec.RecordingFor(context.Background(), event.NewInterval("checkout")).
		SetHighCardinalityName("checkout order-7").
		Tag(tag.Of("region", "eu")).
		Tag(tag.HighOf("order.id", "7")).
		Start()
	clk.Add(40 * time.Millisecond)
	require.Empty(t, p.Records(), "nothing is emitted before stop")
	r.Stop()

	records := p.Records()
	require.Len(t, records, 1)
	got := records[0]
	assert.Equal(t, "checkout", got.Body().AsString())
	assert.Equal(t, log.SeverityInfo, got.Severity())
	assert.Equal(t, "INFO", got.SeverityText())
	assert.Equal(t, epoch.Add(40*time.Millisecond), got.Timestamp().UTC())

	attrs := attributes(got)
	assert.Equal(t, otellog.KindInterval, attrs["kind"].AsString())
	assert.Equal(t, "checkout order-7", attrs["high_cardinality_name"].AsString())
	assert.InDelta(t, 40.0, attrs["duration_ms"].AsFloat64(), 0.0001)
	assert.Equal(t, map[string]string{"region": "eu", "order.id": "7"}, tagMap(attrs["tags"]))
	assert.NotContains(t, attrs, "error")
}

func TestErrorSeverity(t *testing.T) {
	p, lp := setupLogTest(t)
	rec := recorder.New(recorder.WithListener(otellog.New(otellog.WithLoggerProvider(lp, "test"))))

	rec.RecordingFor(context.Background(), event.NewInterval("db.query")).
		Start().
		RecordError(errors.New("deadlock")).
		Stop()

	records := p.Records()
	require.Len(t, records, 1)
	assert.Equal(t, log.SeverityError, records[0].Severity())
	assert.Equal(t, "ERROR", records[0].SeverityText())
	assert.Equal(t, "deadlock", attributes(records[0])["error"].AsString())
}

func TestInstantRecording(t *testing.T) {
	p, lp := setupLogTest(t)
	clk := clock.NewMock(epoch)
	rec := recorder.New(
		recorder.WithListener(otellog.New(otellog.WithLoggerProvider(lp, "test"))),
		recorder.WithClock(clk),
	)

	clk.Add(time.Second)
	rec.InstantFor(context.Background(), event.NewInstant("cache.miss")).Record()

	records := p.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "cache.miss", records[0].Body().AsString())
	assert.Equal(t, epoch.Add(time.Second), records[0].Timestamp().UTC())
	attrs := attributes(records[0])
	assert.Equal(t, otellog.KindInstant, attrs["kind"].AsString())
	assert.NotContains(t, attrs, "tags")
}

func TestInstantCorrelatesWithSpan(t *testing.T) {
	p, lp := setupLogTest(t)
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	rec := recorder.New(recorder.WithListeners(
		tracing.New(tracing.WithTracerProvider(tp, "test")),
		otellog.New(otellog.WithLoggerProvider(lp, "test")),
	))

	r := rec.RecordingFor(context.Background(), event.NewInterval("request")).Start()
	r.RecordInstant(event.NewInstant("retry"))
	r.Stop()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	records := p.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "retry", records[0].Body().AsString())
	assert.Equal(t, spans[0].SpanContext.TraceID(), records[0].TraceID())
	assert.Equal(t, spans[0].SpanContext.SpanID(), records[0].SpanID())
}

func TestGlobalProvider(t *testing.T) {
	p, lp := setupLogTest(t)
	original := global.GetLoggerProvider()
	global.SetLoggerProvider(lp)
	t.Cleanup(func() { global.SetLoggerProvider(original) })

	rec := recorder.New(recorder.WithListener(otellog.New(otellog.WithLoggerName("checkout"))))
	rec.InstantFor(context.Background(), event.NewInstant("tick")).Record()

	records := p.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "checkout", records[0].InstrumentationScope().Name)
}

func TestApplicability(t *testing.T) {
	p, lp := setupLogTest(t)
	rec := recorder.New(recorder.WithListener(otellog.New(
		otellog.WithLoggerProvider(lp, "test"),
		otellog.WithApplicability(func(r recording.Recording) bool {
			_, isInstant := r.(recording.InstantRecording)
			return !isInstant
		}),
	)))

	rec.InstantFor(context.Background(), event.NewInstant("skipped")).Record()
	rec.RecordingFor(context.Background(), event.NewInterval("kept")).Start().Stop()

	records := p.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].Body().AsString())
}
