package metrics

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
)

// DefaultMeterName is the instrumentation name used with the global provider.
const DefaultMeterName = "recordkit"

type options struct {
	meter         metric.Meter
	logger        *slog.Logger
	applicable    func(recording.Recording) bool
	longTaskNames []string
}

func defaultOptions() options {
	return options{
		meter:  otel.Meter(DefaultMeterName),
		logger: slog.Default(),
	}
}

// Option configures a TimerListener or a LongTaskListener.
type Option func(*options)

// WithMeter sets the meter instruments are created with.
func WithMeter(m metric.Meter) Option {
	return func(o *options) {
		if m != nil {
			o.meter = m
		}
	}
}

// WithMeterProvider takes the meter named name from mp.
func WithMeterProvider(mp metric.MeterProvider, name string) Option {
	return func(o *options) {
		if mp != nil {
			o.meter = mp.Meter(name)
		}
	}
}

// WithMeterName takes the meter named name from the global provider.
func WithMeterName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.meter = otel.Meter(name)
		}
	}
}

// WithLogger sets the logger instrument failures are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithApplicability restricts the listener to recordings fn accepts.
func WithApplicability(fn func(recording.Recording) bool) Option {
	return func(o *options) {
		o.applicable = fn
	}
}

// WithLongTaskNames makes a LongTaskListener follow events with these low
// cardinality names in addition to events implementing event.LongTask.
// Ignored by TimerListener.
func WithLongTaskNames(names ...string) Option {
	return func(o *options) {
		o.longTaskNames = append(o.longTaskNames, names...)
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
