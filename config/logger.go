// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return slog.LevelInfo, fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", level)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the slog logger described by l. The returned closer
// releases a log file, if one was opened.
func (l LogConfig) NewLogger() (*slog.Logger, io.Closer, error) {
	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)

	switch l.Output {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		file, err := os.OpenFile(l.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", l.Output, err)
		}
		out, closer = file, file
	}

	logger, err := l.newLogger(out)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}

	return logger, closer, nil
}

func (l LogConfig) newLogger(out io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	}

	return slog.New(slog.NewTextHandler(out, opts)), nil
}
