package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Rorical/ecli/internal/settings"
	log "github.com/sirupsen/logrus"
)

// Setup points the standard logrus logger at the configured file. The
// terminal belongs to the TUI, so when the file cannot be opened output is
// discarded and the error returned for the caller to report.
// The returned closer is never nil.
func Setup(cfg settings.LogSettings) (io.Closer, error) {
	log.SetFormatter(&log.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.File == "" {
		log.SetOutput(io.Discard)
		return nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
		log.SetOutput(io.Discard)
		return nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		log.SetOutput(io.Discard)
		return nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
