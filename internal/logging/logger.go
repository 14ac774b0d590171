package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ppiankov/tweetlens/internal/model"
)

// ToLogLevel maps a config level name to a slog level; unknown names map to info
func ToLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger from config. A configured log file always gets JSON
// records and is rotated by size.
func New(cfg model.LogConfig) *slog.Logger {
	level := ToLogLevel(cfg.Level)

	if cfg.File != "" {
		return slog.New(slog.NewJSONHandler(newRotatingWriter(cfg.File), &slog.HandlerOptions{
			AddSource: true,
			Level:     level,
		}))
	}

	return slog.New(newHandler(cfg.Handler, level, os.Stderr))
}

func newHandler(kind string, level slog.Level, w io.Writer) slog.Handler {
	switch kind {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}
}

func newRotatingWriter(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    20, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
