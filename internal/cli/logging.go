package cli

import (
	"io"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
)

// EnvLogLevel names the environment variable that sets the log level
// (debug, info, warn, error).
const EnvLogLevel = "WPRELEASE_LOG_LEVEL"

const defaultLogLevel = charmlog.WarnLevel

// newLogger builds the process logger on top of a charmbracelet/log
// handler and installs it as the slog default. --verbose wins over the
// environment.
func newLogger(w io.Writer, verbose bool, getenv func(string) string) *slog.Logger {
	level := defaultLogLevel
	if v := getenv(EnvLogLevel); v != "" {
		if parsed, err := charmlog.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	if verbose {
		level = charmlog.DebugLevel
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Prefix: "wprelease",
		Level:  level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
