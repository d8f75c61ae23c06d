package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/polkiloo/loyaltyengine/internal/config"
)

const (
	logMaxSizeMB  = 100
	logMaxBackups = 7
	logMaxAgeDays = 30
)

// New creates a JSON slog.Logger writing to stdout or to a rotated log file.
func New(cfg *config.Config) *slog.Logger {
	handler := slog.NewJSONHandler(output(cfg), &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler)
}

func output(cfg *config.Config) io.Writer {
	if cfg == nil || cfg.LogFile == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}
}
