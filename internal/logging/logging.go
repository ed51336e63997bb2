// Package logging builds the slog logger of the command line tool.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/networkteam/flightsearch/config"
	"github.com/networkteam/flightsearch/journal"
)

// Logger bundles the logger with the journal it feeds and the log file.
type Logger struct {
	*slog.Logger
	Journal *journal.Journal

	file *lumberjack.Logger
}

// New creates a logger writing text to console, JSON to the rotating log
// file of cfg (if set) and every record to a journal sized by cfg.
func New(cfg config.ReportingConfig, console io.Writer) (*Logger, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	j := journal.New(cfg.JournalLines)
	handlers := []slog.Handler{
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}),
		// The journal sees debug records regardless of the console level
		journal.NewHandler(j, slog.LevelDebug),
	}

	var file *lumberjack.Logger
	if cfg.LogFile != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
		}
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return &Logger{
		Logger:  slog.New(slogmulti.Fanout(handlers...)),
		Journal: j,
		file:    file,
	}, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel parses debug, info, warn or error. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
