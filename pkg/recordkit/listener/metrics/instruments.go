package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
)

// instruments caches one instrument per name. Creation failures are not
// cached, so a later recording retries.
type instruments[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

func newInstruments[V any]() *instruments[V] {
	return &instruments[V]{entries: make(map[string]V)}
}

// getOrCreate returns the instrument for name, calling factory at most once
// per name until it succeeds.
func (c *instruments[V]) getOrCreate(name string, factory func() (V, error)) (V, error) {
	c.mu.RLock()
	v, ok := c.entries[name]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries[name]; ok {
		return v, nil
	}

	v, err := factory()
	if err != nil {
		return v, err
	}
	c.entries[name] = v
	return v, nil
}

func (c *instruments[V]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

const (
	// ErrorKey is the attribute carrying the outcome of a stopped recording.
	ErrorKey = "error"

	// ErrorNone is the ErrorKey value of recordings without an error.
	ErrorNone = "none"
)

// errorType names the dynamic type of err, or ErrorNone.
func errorType(err error) string {
	if err == nil {
		return ErrorNone
	}
	return fmt.Sprintf("%T", err)
}

// lowAttributes converts the LOW cardinality tags to attributes.
func lowAttributes(tags []tag.Tag) []attribute.KeyValue {
	low := tag.LowOnly(tags)
	attrs := make([]attribute.KeyValue, 0, len(low)+1)
	for _, t := range low {
		attrs = append(attrs, attribute.String(t.Key, t.Value))
	}
	return attrs
}

// outcomeAttributes converts the LOW cardinality tags and appends ErrorKey.
// A LOW tag keyed ErrorKey is dropped in favor of the outcome. LOW tags that
// share a key collapse to the last one, as attribute sets keep one value per
// key.
func outcomeAttributes(tags []tag.Tag, err error) []attribute.KeyValue {
	low := tag.LowOnly(tags)
	attrs := make([]attribute.KeyValue, 0, len(low)+1)
	for _, t := range low {
		if t.Key == ErrorKey {
			continue
		}
		attrs = append(attrs, attribute.String(t.Key, t.Value))
	}
	return append(attrs, attribute.String(ErrorKey, errorType(err)))
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func warnInstrument(ctx context.Context, logger *slog.Logger, name string, err error) {
	logger.WarnContext(ctx, "metric instrument unavailable, skipping",
		slog.String("instrument", name),
		slog.String("error", err.Error()))
}
