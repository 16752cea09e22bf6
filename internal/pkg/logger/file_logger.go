package logger

import (
	"io"
	"log/slog"

	"github.com/MGTheTrain/managed-openssl/internal/pkg/config"
	"github.com/natefinch/lumberjack"
)

// NewFileLogger creates a logger writing JSON records to a rotated log file. The rotation
// limits come from settings, which must already be validated.
func NewFileLogger(settings *config.LoggerSettings) Logger {
	return newFileLogger(&lumberjack.Logger{
		Filename:   settings.FilePath,
		MaxSize:    settings.MaxSize,
		MaxBackups: settings.MaxBackups,
		MaxAge:     settings.MaxAge,
		Compress:   true,
	}, settings.LogLevel)
}

func newFileLogger(w io.Writer, level string) *slogLogger {
	return newSlogLogger(slog.NewJSONHandler(w, handlerOptions(level)))
}
