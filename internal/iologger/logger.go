// Package iologger initializes the global slog logger, including the
// log file when configured.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paleolimbot/strativerse/pkg/config"
	"github.com/paleolimbot/strativerse/pkg/logger"
)

// Init initializes the global slog logger with the given
// configuration. Creates a log file in logDir if the destination is
// "file". If appendLog is true, appends to an existing log file,
// otherwise starts a fresh one.
func Init(logDir string, cfg *config.LoggingConfig, appendLog bool) error {
	var writer io.Writer

	switch cfg.Destination {
	case "stdout":
		writer = os.Stdout
	case "file":
		logPath := filepath.Join(logDir, "strativerse.log")
		var file *os.File
		var err error

		if appendLog {
			file, err = os.OpenFile(
				logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		} else {
			file, err = os.Create(logPath)
		}
		if err != nil {
			return CreateLogFileError(logPath, err)
		}
		writer = file
	default:
		writer = os.Stderr
	}

	slog.SetDefault(logger.New(cfg, writer))
	return nil
}
