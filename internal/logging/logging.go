// Package logging sets up the process logger. The applet owns the
// terminal, so logs go to a file in the cputemp home directory.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"

	"github.com/gr3q/cputemp/internal/config"
)

// New builds a logger writing to w. Dev builds get tint's readable
// format; release builds get JSON.
func New(w io.Writer, level slog.Level, version string) *slog.Logger {
	if version == "dev" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    true, // log file, not a terminal
		})
		return slog.New(h)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("version", version)
}

// OpenFile opens (appending) the log file under the cputemp home dir.
func OpenFile() (*os.File, error) {
	dir := config.Home()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "cputemp.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// Discard returns a logger that drops everything. Used by one-shot
// commands where log output would pollute stdout.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
