package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it is written or replaced and calls fn with
// the new settings. Files that fail to load are logged and skipped, so fn
// only ever sees valid settings. Bursts of events within debounce collapse
// into one reload; zero uses the default.
//
// The parent directory is watched rather than the file itself so that
// editors which save by renaming keep triggering reloads.
//
// Watch blocks until ctx is done and then returns nil. A nil logger
// disables logging.
func Watch(ctx context.Context, path string, debounce time.Duration, fn func(Settings), logger *slog.Logger) error {
	if debounce <= 0 {
		debounce = Default().Watch.Debounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case <-timer.C:
			s, err := FromFile(target)
			if err != nil {
				logReloadError(logger, target, err)
				continue
			}
			if logger != nil {
				logger.Info("config reloaded",
					slog.String("path", target),
					slog.Bool("enabled", s.Enabled),
				)
			}
			fn(s)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logReloadError(logger, target, err)
		}
	}
}

func logReloadError(logger *slog.Logger, path string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("config reload failed",
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}
