// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the session logger. Every record carries the
// session ID as a field and is written both to the console and to a
// per-session log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"

	"github.com/pdiddy/scholar-fetch/pkg/types"
)

// SessionField is the field name that carries the session ID.
const SessionField = "session"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// LogFile returns the path of the log file for a session.
func LogFile(dir, sessionID string) string {
	return filepath.Join(dir, "search_"+sessionID+".log")
}

// New creates a dedicated logger for one session. Console output goes to
// console (stderr when nil). When cfg.Dir is set, the same records are
// appended to LogFile(cfg.Dir, sessionID); the returned Closer closes it.
func New(sessionID string, cfg types.LoggingConfig, console io.Writer) (*log.Entry, io.Closer, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing log level: %w", err)
		}
		level = parsed
	}
	if console == nil {
		console = os.Stderr
	}

	logger := log.New()
	logger.SetOutput(console)
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})

	var closer io.Closer = nopCloser{}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory %s: %w", cfg.Dir, err)
		}
		path := LogFile(cfg.Dir, sessionID)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
		}
		logger.AddHook(&writer.Hook{Writer: f, LogLevels: enabledLevels(level)})
		closer = f
	}

	return logger.WithField(SessionField, sessionID), closer, nil
}

// enabledLevels lists level and every more severe level.
func enabledLevels(level log.Level) []log.Level {
	var levels []log.Level
	for _, l := range log.AllLevels {
		if l <= level {
			levels = append(levels, l)
		}
	}
	return levels
}
