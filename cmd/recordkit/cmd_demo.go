package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/recordkit/pkg/recordkit"
	"github.com/randalmurphal/recordkit/pkg/recordkit/config"
	"github.com/randalmurphal/recordkit/pkg/recordkit/event"
	"github.com/randalmurphal/recordkit/pkg/recordkit/recorder"
	"github.com/randalmurphal/recordkit/pkg/recordkit/tag"
)

type demoOptions struct {
	configPath string
	watch      bool
	iterations int
	interval   time.Duration
}

func newDemoCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts demoOptions
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a nested synthetic workload through a configured recorder",
		Long: `Run a nested synthetic workload through a recorder assembled from a
config file and print every change of the current recording.

With --watch the config file is followed and the enabled switch is flipped
whenever the file changes, so recording can be turned off and on while the
demo runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if doDemo(ctx, opts, stdout, stderr) != 0 {
				return errExit
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "settings file (.yaml, .json or .toml)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "hot-reload the enabled switch from --config")
	cmd.Flags().IntVarP(&opts.iterations, "iterations", "n", 3, "number of requests (0 = until interrupted)")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "pause between requests")
	return cmd
}

// doDemo runs the demo workload. Returns the exit code.
func doDemo(ctx context.Context, opts demoOptions, stdout, stderr io.Writer) int {
	if opts.watch && opts.configPath == "" {
		fmt.Fprintln(stderr, "recordkit demo: --watch needs --config") //nolint:errcheck // best-effort stderr
		return 1
	}

	settings := config.Default()
	if opts.configPath != "" {
		s, err := config.FromFile(opts.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "recordkit demo: %v\n", err) //nolint:errcheck // best-effort stderr
			return 1
		}
		settings = s
	}

	logger := recordkit.NewLogger(stderr, settings.Logging)
	kit, err := recordkit.Build(settings, recordkit.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(stderr, "recordkit demo: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}
	defer func() {
		if err := kit.Close(); err != nil {
			logger.Warn("close failed", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.watch {
		go func() {
			err := config.Watch(ctx, opts.configPath, settings.Watch.Debounce, kit.Apply, logger)
			if err != nil {
				logger.Error("config watch stopped", slog.String("error", err.Error()))
			}
		}()
	}

	w := &demoWorkload{rec: kit.Recorder, out: stdout}
	for i := 1; opts.iterations == 0 || i <= opts.iterations; i++ {
		if err := w.request(ctx, i); err != nil {
			logger.Info("request failed", slog.Int("request", i), slog.String("error", err.Error()))
		}
		if opts.interval > 0 {
			select {
			case <-ctx.Done():
				return 0
			case <-time.After(opts.interval):
			}
		} else if ctx.Err() != nil {
			return 0
		}
	}
	return 0
}

var errRender = errors.New("template missing")

// demoWorkload produces a request with nested steps and prints how the
// current recording moves.
type demoWorkload struct {
	rec *recorder.Recorder
	out io.Writer
}

func (w *demoWorkload) request(ctx context.Context, i int) error {
	ctx = w.rec.NewScope(ctx)

	req := w.rec.RecordingFor(ctx, event.NewInterval("demo.request")).
		SetHighCardinalityName(fmt.Sprintf("demo.request #%d", i)).
		Tag(tag.Of("route", "/orders")).
		Tag(tag.HighOf("request.id", fmt.Sprintf("req-%d", i))).
		Start()
	w.report(ctx, "start", req.HighCardinalityName())

	var failed error
	for _, step := range []string{"demo.auth", "demo.db.query", "demo.render"} {
		err := recorder.Time(req.Context(), w.rec, event.NewInterval(step), func(ctx context.Context) error {
			w.report(ctx, "start", step)
			switch step {
			case "demo.db.query":
				w.rec.InstantFor(ctx, event.NewInstant("demo.cache.miss")).
					Tag(tag.Of("cache", "orders")).
					Record()
			case "demo.render":
				if i%3 == 0 {
					return errRender
				}
			}
			return nil
		})
		w.report(ctx, "stop", step)
		if err != nil {
			failed = err
			req.RecordError(err)
			break
		}
	}

	batch := w.rec.RecordingFor(ctx, event.NewLongRunning("demo.batch.flush")).Start()
	w.report(ctx, "start", batch.HighCardinalityName())
	batch.Stop()
	w.report(ctx, "stop", batch.HighCardinalityName())

	req.Stop()
	w.report(ctx, "stop", req.HighCardinalityName())
	return failed
}

// report prints an action and the current recording of ctx's scope.
func (w *demoWorkload) report(ctx context.Context, action, name string) {
	current := "-"
	if cur := w.rec.CurrentRecording(ctx); cur != nil {
		current = cur.HighCardinalityName()
	}
	if !w.rec.Enabled() {
		current = "(disabled)"
	}
	fmt.Fprintf(w.out, "%-5s %-20s current=%s depth=%d\n", action, name, current, w.rec.Depth(ctx)) //nolint:errcheck // best-effort stdout
}
