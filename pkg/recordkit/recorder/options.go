package recorder

import (
	"log/slog"

	"github.com/randalmurphal/recordkit/pkg/recordkit/clock"
	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
)

// config holds the settings a Recorder is built from.
type config struct {
	listeners   []recording.Listener
	clock       clock.Clock
	customizers []Customizer
	logger      *slog.Logger
	enabled     bool
}

// defaultConfig returns the default recorder configuration.
func defaultConfig() config {
	return config{
		clock:   clock.System,
		logger:  slog.Default(),
		enabled: true,
	}
}

// Option configures a Recorder.
type Option func(*config)

// WithListener registers a listener. May be given several times; all
// listeners end up in one all-matching composite, in registration order.
//
// Pass a *composite.Composite to choose another policy:
//
//	rec := recorder.New(recorder.WithListener(composite.NewFirstMatching(a, b)))
func WithListener(l recording.Listener) Option {
	return func(c *config) {
		if l != nil {
			c.listeners = append(c.listeners, l)
		}
	}
}

// WithListeners registers several listeners at once.
func WithListeners(ls ...recording.Listener) Option {
	return func(c *config) {
		for _, l := range ls {
			if l != nil {
				c.listeners = append(c.listeners, l)
			}
		}
	}
}

// WithClock sets the clock recordings sample their timestamps from.
// Default: clock.System
func WithClock(clk clock.Clock) Option {
	return func(c *config) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithCustomizers registers customizers applied by Sample before it stops.
func WithCustomizers(cs ...Customizer) Option {
	return func(c *config) {
		c.customizers = append(c.customizers, cs...)
	}
}

// WithLogger sets the logger. Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEnabled sets the initial state of the enabled switch. Default: true
func WithEnabled(enabled bool) Option {
	return func(c *config) {
		c.enabled = enabled
	}
}
