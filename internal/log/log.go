// Package log provides structured logging for go-sway.
// It wraps zap with sensible defaults for production use.
package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the optional log file.
const (
	MaxFileSizeMB = 20
	MaxBackups    = 3
	MaxAgeDays    = 14
)

var (
	mu     sync.Mutex
	logger *zap.Logger
)

// Init initializes the global logger with the specified level.
// Valid levels: "debug", "info", "warn", "error".
// When file is non-empty, JSON records are also written to a rotated file.
// Only the first call has an effect until ResetForTest.
func Init(level, file string) {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		return
	}
	logger = build(level, file, os.Stdout)
	zap.ReplaceGlobals(logger)
}

func build(level, file string, out zapcore.WriteSyncer) *zap.Logger {
	lvl := ParseLevel(level)

	// Use JSON in production, console in development
	var enc zapcore.Encoder
	if os.Getenv("GO_ENV") == "production" {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	core := zapcore.NewCore(enc, out, lvl)

	if file != "" {
		rotated := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    MaxFileSizeMB,
			MaxBackups: MaxBackups,
			MaxAge:     MaxAgeDays,
		})
		core = zapcore.NewTee(core,
			zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), rotated, lvl))
	}
	return zap.New(core)
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// L returns the global logger instance.
func L() *zap.Logger {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l == nil {
		Init("info", "")
		return L()
	}
	return l
}

// ResetForTest drops the global logger so the next Init takes effect.
// It optionally installs l as the global logger.
func ResetForTest(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Debug logs at debug level.
func Debug(msg string, keysAndValues ...any) {
	L().Sugar().Debugw(msg, keysAndValues...)
}

// Info logs at info level.
func Info(msg string, keysAndValues ...any) {
	L().Sugar().Infow(msg, keysAndValues...)
}

// Warn logs at warn level.
func Warn(msg string, keysAndValues ...any) {
	L().Sugar().Warnw(msg, keysAndValues...)
}

// Error logs at error level.
func Error(msg string, keysAndValues ...any) {
	L().Sugar().Errorw(msg, keysAndValues...)
}

// With returns a logger with the given key/value pairs attached.
func With(keysAndValues ...any) *zap.Logger {
	return L().Sugar().With(keysAndValues...).Desugar()
}

// Named returns a child logger for a component.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync flushes buffered records.
func Sync() {
	_ = L().Sync()
}
