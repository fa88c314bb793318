package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures console logging for commands
func SetupLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// SetupLeveledLogger configures logging with a named level ("debug",
// "info", "warn", "error"), falling back to info on unknown names.
func SetupLeveledLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if parsed, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}
	return logger
}
