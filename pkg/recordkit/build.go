package recordkit

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/recordkit/pkg/recordkit/clock"
	"github.com/randalmurphal/recordkit/pkg/recordkit/composite"
	"github.com/randalmurphal/recordkit/pkg/recordkit/config"
	"github.com/randalmurphal/recordkit/pkg/recordkit/listener/journal"
	"github.com/randalmurphal/recordkit/pkg/recordkit/listener/logging"
	"github.com/randalmurphal/recordkit/pkg/recordkit/listener/metrics"
	"github.com/randalmurphal/recordkit/pkg/recordkit/listener/otellog"
	"github.com/randalmurphal/recordkit/pkg/recordkit/listener/tracing"
	"github.com/randalmurphal/recordkit/pkg/recordkit/recorder"
	"github.com/randalmurphal/recordkit/pkg/recordkit/recording"
)

// buildConfig holds the dependencies Build injects into listeners.
type buildConfig struct {
	logger         *slog.Logger
	clock          clock.Clock
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	loggerProvider log.LoggerProvider
	journalStore   journal.Store
	extra          []recording.Listener
	customizers    []recorder.Customizer
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithLogger sets the logger of the recorder and the logging listener.
// Default: a logger built from Settings.Logging writing to stderr.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(c *buildConfig) {
		c.logger = logger
	}
}

// WithClock sets the recorder's clock. Default: clock.System
func WithClock(clk clock.Clock) BuildOption {
	return func(c *buildConfig) {
		c.clock = clk
	}
}

// WithTracerProvider sets the provider of the tracing listener.
// Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) BuildOption {
	return func(c *buildConfig) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider sets the provider of the metrics listeners.
// Default: the global provider.
func WithMeterProvider(mp metric.MeterProvider) BuildOption {
	return func(c *buildConfig) {
		c.meterProvider = mp
	}
}

// WithLoggerProvider sets the provider of the OTel log listener.
// Default: the global provider.
func WithLoggerProvider(lp log.LoggerProvider) BuildOption {
	return func(c *buildConfig) {
		c.loggerProvider = lp
	}
}

// WithJournalStore makes the journal listener write to store instead of the
// store named by Settings.Journal.Path. The Kit does not close it.
func WithJournalStore(store journal.Store) BuildOption {
	return func(c *buildConfig) {
		c.journalStore = store
	}
}

// WithExtraListeners appends listeners after the configured ones.
func WithExtraListeners(ls ...recording.Listener) BuildOption {
	return func(c *buildConfig) {
		c.extra = append(c.extra, ls...)
	}
}

// WithCustomizers registers recorder customizers.
func WithCustomizers(cs ...recorder.Customizer) BuildOption {
	return func(c *buildConfig) {
		c.customizers = append(c.customizers, cs...)
	}
}

// Kit is a recorder assembled from settings, plus the resources it owns.
type Kit struct {
	Recorder *recorder.Recorder
	Logger   *slog.Logger

	// Journal is the store of the journal listener, nil without one.
	Journal journal.Store

	mu        sync.Mutex
	settings  config.Settings
	ownsStore bool
	closed    bool
}

// Build validates s and assembles a recorder from it.
//
// Listeners are created in the order of s.Listeners and dispatched to under
// s.Policy. The Kit must be closed to release the journal store.
func Build(s config.Settings, opts ...BuildOption) (*Kit, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	cfg := buildConfig{clock: clock.System}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = NewLogger(os.Stderr, s.Logging)
	}

	kit := &Kit{Logger: cfg.logger, settings: s}

	listeners := make([]recording.Listener, 0, len(s.Listeners)+len(cfg.extra))
	for _, name := range s.Listeners {
		l, err := kit.newListener(name, s, &cfg)
		if err != nil {
			_ = kit.Close()
			return nil, fmt.Errorf("build %s listener: %w", name, err)
		}
		listeners = append(listeners, l)
	}
	listeners = append(listeners, cfg.extra...)

	policy := composite.AllMatching
	if s.Policy == config.PolicyFirst {
		policy = composite.FirstMatching
	}

	kit.Recorder = recorder.New(
		recorder.WithListener(composite.New(policy, listeners...)),
		recorder.WithClock(cfg.clock),
		recorder.WithLogger(cfg.logger),
		recorder.WithEnabled(s.Enabled),
		recorder.WithCustomizers(cfg.customizers...),
	)

	cfg.logger.Debug("recorder assembled",
		slog.String("policy", policy.String()),
		slog.Any("listeners", s.Listeners),
		slog.Bool("enabled", s.Enabled),
	)
	return kit, nil
}

func (k *Kit) newListener(name string, s config.Settings, cfg *buildConfig) (recording.Listener, error) {
	switch name {
	case config.ListenerTracing:
		opts := []tracing.Option{}
		if cfg.tracerProvider != nil {
			opts = append(opts, tracing.WithTracerProvider(cfg.tracerProvider, s.Tracing.TracerName))
		} else {
			opts = append(opts, tracing.WithTracerName(s.Tracing.TracerName))
		}
		return tracing.New(opts...), nil

	case config.ListenerMetrics:
		return metrics.NewTimerListener(metricsOptions(s, cfg)...), nil

	case config.ListenerLongTask:
		return metrics.NewLongTaskListener(metricsOptions(s, cfg)...), nil

	case config.ListenerLogging:
		return logging.New(logging.WithLogger(cfg.logger)), nil

	case config.ListenerOTelLog:
		opts := []otellog.Option{otellog.WithLoggerName(s.OTelLog.LoggerName)}
		if cfg.loggerProvider != nil {
			opts = append(opts, otellog.WithLoggerProvider(cfg.loggerProvider, s.OTelLog.LoggerName))
		}
		return otellog.New(opts...), nil

	case config.ListenerJournal:
		store, err := k.openJournal(s.Journal, cfg)
		if err != nil {
			return nil, err
		}
		return journal.New(store, journal.WithLogger(cfg.logger)), nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownListener, name)
	}
}

func metricsOptions(s config.Settings, cfg *buildConfig) []metrics.Option {
	opts := []metrics.Option{
		metrics.WithLogger(cfg.logger),
		metrics.WithLongTaskNames(s.Metrics.LongTaskEvents...),
	}
	if cfg.meterProvider != nil {
		opts = append(opts, metrics.WithMeterProvider(cfg.meterProvider, s.Metrics.MeterName))
	} else {
		opts = append(opts, metrics.WithMeterName(s.Metrics.MeterName))
	}
	return opts
}

func (k *Kit) openJournal(s config.JournalSettings, cfg *buildConfig) (journal.Store, error) {
	if k.Journal != nil {
		return k.Journal, nil
	}
	switch {
	case cfg.journalStore != nil:
		k.Journal = cfg.journalStore
	case s.Path == config.MemoryJournal:
		k.Journal, k.ownsStore = journal.NewMemoryStore(), true
	default:
		store, err := journal.NewSQLiteStore(s.Path)
		if err != nil {
			return nil, err
		}
		k.Journal, k.ownsStore = store, true
	}
	return k.Journal, nil
}

// Settings returns the settings the Kit currently runs with.
func (k *Kit) Settings() config.Settings {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.settings
}

// Apply takes over what can change at runtime from s: the enabled switch.
// Other differences are logged and need a new Build.
func (k *Kit) Apply(s config.Settings) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !slices.Equal(s.Listeners, k.settings.Listeners) || s.Policy != k.settings.Policy {
		k.Logger.Warn("listener changes need a restart, keeping current listeners",
			slog.Any("listeners", s.Listeners),
			slog.String("policy", s.Policy),
		)
	}
	k.Recorder.SetEnabled(s.Enabled)
	k.settings.Enabled = s.Enabled
}

// Close releases the journal store when the Kit opened it.
// Calling Close more than once is safe.
func (k *Kit) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil
	}
	k.closed = true

	var errs []error
	if k.ownsStore && k.Journal != nil {
		if err := k.Journal.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}
	return errors.Join(errs...)
}
