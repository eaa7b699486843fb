// Package log configures the process-wide zerolog logger.
//
// The TUI owns the terminal, so interactive runs log JSON lines to
// console.log inside the config directory. One-shot commands log
// human-readable lines to stderr instead.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

const logFile = "console.log"

func level(verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// SetupFile routes the global logger to console.log inside dir,
// appending JSON lines. Creates dir if it does not exist. The caller
// closes the returned file on shutdown.
func SetupFile(dir string, verbose bool) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(dir, logFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zerolog.New(f).Level(level(verbose)).With().Timestamp().Logger()
	return f, nil
}

// SetupStderr routes the global logger to stderr with human-readable
// formatting, for non-interactive commands.
func SetupStderr(verbose bool) {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	zlog.Logger = zerolog.New(w).Level(level(verbose)).With().Timestamp().Logger()
}
