package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcopiovanello/yt-media-dl/app/config"
)

// ParseLevel maps the configured level name onto a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelWarn, fmt.Errorf("logging: %w", err)
	}
	return l, nil
}

// Setup builds the process logger and makes it the default one. The returned
// closer releases the log file when file logging is enabled.
func Setup(console io.Writer, conf config.LoggingConfig) (io.Closer, error) {
	level, err := ParseLevel(conf.Level)
	if err != nil {
		return nil, err
	}

	logWriters := []io.Writer{console}
	var closer io.Closer = nopCloser{}

	// file based logging
	if conf.EnableFileLogging {
		if err := os.MkdirAll(filepath.Dir(conf.LogPath), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(conf.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		logWriters = append(logWriters, f)
		closer = f
	}

	logger := slog.New(slog.NewTextHandler(io.MultiWriter(logWriters...), &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(logger)
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
