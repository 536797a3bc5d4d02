package logger

import (
	"log/slog"
	"os"
)

// New builds the slog logger used for one run. The caller passes it down to
// each component; there is no package-level logger state.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
