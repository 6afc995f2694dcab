// Package logger configures the process-wide structured logger.
//
// One zerolog logger, initialised once from config, writing to the console
// and optionally to a size-rotated log file.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// Settings holds the subset of config the logger needs. Kept as a local
// struct so this package does not depend on internal/config.
type Settings struct {
	Level       string // "debug", "info", "warn", "error"
	File        string // empty disables file output
	MaxBytes    int
	BackupCount int
	ToStdout    bool
}

// Init configures the global logger. Returns a cleanup function that
// closes the file sink; safe to call even when no file sink was opened.
func Init(s Settings) (cleanup func(), err error) {
	var writers []io.Writer
	var closer io.Closer

	if s.ToStdout {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if s.File != "" {
		rw, ferr := NewRotatingFileWriter(s.File, s.MaxBytes, s.BackupCount)
		if ferr != nil {
			// Console logging still works; report and continue.
			err = ferr
		} else {
			writers = append(writers, rw)
			closer = rw
		}
	}

	if len(writers) == 0 {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	log = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(parseLevel(s.Level))

	cleanup = func() {
		if closer != nil {
			closer.Close()
		}
	}
	return cleanup, err
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// With returns a logger tagged with a component name, e.g. "sched", "camera".
func With(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
func Fatal() *zerolog.Event { return log.Fatal() }
