package recordkit

import (
	"io"
	"log/slog"

	"github.com/randalmurphal/recordkit/pkg/recordkit/config"
)

// NewLogger creates the process logger described by s, writing to w.
// Invalid levels fall back to info and unknown formats to text.
func NewLogger(w io.Writer, s config.LoggingSettings) *slog.Logger {
	level, _ := s.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if s.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
