package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Listener names accepted in Settings.Listeners.
const (
	ListenerTracing  = "tracing"
	ListenerMetrics  = "metrics"
	ListenerLongTask = "longtask"
	ListenerLogging  = "logging"
	ListenerOTelLog  = "otellog"
	ListenerJournal  = "journal"
)

// Composite policies accepted in Settings.Policy.
const (
	PolicyAll   = "all"
	PolicyFirst = "first"
)

// MemoryJournal selects the in-memory journal store.
const MemoryJournal = ":memory:"

// Sentinel errors returned by Validate.
var (
	// ErrUnknownListener is returned for a listener name that is not known.
	ErrUnknownListener = errors.New("unknown listener")

	// ErrInvalidPolicy is returned for a policy other than "all" or "first".
	ErrInvalidPolicy = errors.New("invalid composite policy")

	// ErrInvalidLevel is returned for a log level slog cannot parse.
	ErrInvalidLevel = errors.New("invalid log level")

	// ErrInvalidFormat is returned for a log format other than "text" or "json".
	ErrInvalidFormat = errors.New("invalid log format")

	// ErrJournalPathRequired is returned when the journal listener is
	// enabled without a path.
	ErrJournalPathRequired = errors.New("journal listener requires journal.path")
)

// KnownListeners lists every listener name Build understands.
var KnownListeners = []string{
	ListenerTracing,
	ListenerMetrics,
	ListenerLongTask,
	ListenerLogging,
	ListenerOTelLog,
	ListenerJournal,
}

// Settings describe how a recorder and its listeners are assembled.
type Settings struct {
	// Enabled is the initial state of the recorder switch.
	Enabled bool

	// Policy is the composite policy, PolicyAll or PolicyFirst.
	Policy string

	// Listeners names the listeners to install, in dispatch order.
	Listeners []string

	Tracing TracingSettings
	Metrics MetricsSettings
	Logging LoggingSettings
	OTelLog OTelLogSettings
	Journal JournalSettings
	Watch   WatchSettings
}

// TracingSettings configure the tracing listener.
type TracingSettings struct {
	TracerName string
}

// MetricsSettings configure the timer and long task listeners.
type MetricsSettings struct {
	MeterName string
	// LongTaskEvents names events tracked as long tasks in addition to those
	// implementing event.LongTask.
	LongTaskEvents []string
}

// LoggingSettings configure the slog listener and the process logger.
type LoggingSettings struct {
	Level  string
	Format string
}

// OTelLogSettings configure the OTel log listener.
type OTelLogSettings struct {
	LoggerName string
}

// JournalSettings configure the journal listener. Path is a sqlite file or
// MemoryJournal.
type JournalSettings struct {
	Path string
}

// WatchSettings configure hot reload.
type WatchSettings struct {
	// Debounce coalesces bursts of file events.
	Debounce time.Duration
}

// Default returns the settings used for absent keys.
func Default() Settings {
	return Settings{
		Enabled:   true,
		Policy:    PolicyAll,
		Listeners: []string{ListenerLogging},
		Tracing:   TracingSettings{TracerName: "recordkit"},
		Metrics:   MetricsSettings{MeterName: "recordkit"},
		Logging:   LoggingSettings{Level: "info", Format: "text"},
		OTelLog:   OTelLogSettings{LoggerName: "recordkit"},
		Watch:     WatchSettings{Debounce: 100 * time.Millisecond},
	}
}

// FromValues builds Settings from a decoded document on top of Default.
func FromValues(v Values) Settings {
	s := Default()
	s.Enabled = v.Bool("enabled", s.Enabled)
	s.Policy = strings.ToLower(v.String("policy", s.Policy))
	s.Listeners = v.StringSlice("listeners", s.Listeners)

	tracing := v.Sub("tracing")
	s.Tracing.TracerName = tracing.String("tracer_name", s.Tracing.TracerName)

	metrics := v.Sub("metrics")
	s.Metrics.MeterName = metrics.String("meter_name", s.Metrics.MeterName)
	s.Metrics.LongTaskEvents = metrics.StringSlice("long_task_events", s.Metrics.LongTaskEvents)

	logging := v.Sub("logging")
	s.Logging.Level = logging.String("level", s.Logging.Level)
	s.Logging.Format = strings.ToLower(logging.String("format", s.Logging.Format))

	otellog := v.Sub("otellog")
	s.OTelLog.LoggerName = otellog.String("logger_name", s.OTelLog.LoggerName)

	journal := v.Sub("journal")
	s.Journal.Path = journal.String("path", s.Journal.Path)

	watch := v.Sub("watch")
	s.Watch.Debounce = watch.Duration("debounce", s.Watch.Debounce)
	return s
}

// Validate checks the settings and returns every problem found, joined.
func (s Settings) Validate() error {
	var errs []error
	if s.Policy != PolicyAll && s.Policy != PolicyFirst {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPolicy, s.Policy))
	}
	for _, name := range s.Listeners {
		if !slices.Contains(KnownListeners, name) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownListener, name))
		}
	}
	if s.HasListener(ListenerJournal) && s.Journal.Path == "" {
		errs = append(errs, ErrJournalPathRequired)
	}
	if _, err := s.Logging.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if s.Logging.Format != "text" && s.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidFormat, s.Logging.Format))
	}
	return errors.Join(errs...)
}

// HasListener reports whether name is among the configured listeners.
func (s Settings) HasListener(name string) bool {
	return slices.Contains(s.Listeners, name)
}

// SlogLevel parses Level.
func (l LoggingSettings) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, l.Level)
	}
	return level, nil
}
