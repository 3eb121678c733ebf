package utilities

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.DiscardHandler))
}

// InitLogger installs a text logger on stderr at the given level
// ("debug", "info", "warn", "error"; anything else means info).
func InitLogger(level string) {
	InitLoggerTo(os.Stderr, level)
}

// InitLoggerTo is InitLogger with an explicit destination.
func InitLoggerTo(w io.Writer, level string) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	l := slog.New(handler)
	logger.Store(l)
	slog.SetDefault(l)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger returns the process logger for packages that want structured attributes.
func Logger() *slog.Logger {
	return logger.Load()
}

// LogRequest records one served HTTP request.
func LogRequest(method, path, remoteAddr string, status int, duration time.Duration) {
	Logger().Info("request",
		"method", method,
		"path", path,
		"remote", remoteAddr,
		"status", status,
		"duration", duration,
	)
}

// LogError records err together with what was being attempted.
func LogError(err error, msg string, args ...any) {
	Logger().Error(msg, append([]any{"error", err}, args...)...)
}

func LogWarn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func LogDebug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

func LogInfo(msg string, args ...any) {
	Logger().Info(msg, args...)
}
