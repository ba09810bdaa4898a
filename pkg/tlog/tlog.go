// Package tlog sets up logging for the thermald commands. Commands log to
// stderr by default; once the data root is known the log also goes to
// log/thermald.log under it so there is a record of pulls, pushes and
// deletes across runs.
package tlog

import (
	"io"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

const logLevelEnv = "THERMAL_LOG_LEVEL"

type teeWriter struct {
	writers []io.Writer
	file    io.Closer
}

func (w *teeWriter) Write(p []byte) (int, error) {
	for _, writer := range w.writers {
		if _, err := writer.Write(p); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (w *teeWriter) Close() error {
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}

// Setup points the global logger at stderr plus log/thermald.log under the
// data root. The log level comes from THERMAL_LOG_LEVEL when set, otherwise
// info. A data root that cannot hold a log file is not fatal; logging falls
// back to stderr alone.
func Setup(dataRoot string) error {
	writer := io.WriteCloser(os.Stderr)

	logDir := filepath.Join(dataRoot, "log")
	if err := os.MkdirAll(logDir, 0777); err == nil {
		logPath := filepath.Join(logDir, "thermald.log")
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
		if err == nil {
			writer = &teeWriter{writers: []io.Writer{os.Stderr, f}, file: f}
		}
	}

	log.SetHandler(NewHandler(writer))

	if levelStr := os.Getenv(logLevelEnv); levelStr != "" {
		level, err := log.ParseLevel(levelStr)
		if err != nil {
			return errors.Wrapf(err, "invalid %s %q", logLevelEnv, levelStr)
		}
		log.SetLevel(level)
	}

	return nil
}
