// Package prettylog backs log/slog with a charmbracelet/log handler.
package prettylog

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// SetupPrettyLogger installs a charm handler as the slog default and returns
// it so the caller can adjust the level. debug also turns on caller reports.
func SetupPrettyLogger(writerForLogger io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	logHandler := log.NewWithOptions(
		writerForLogger,
		log.Options{
			Level:           level,
			ReportTimestamp: true,
			ReportCaller:    debug,
			Prefix:          "libtools",
		},
	)
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	return logHandler
}
