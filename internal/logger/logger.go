// Package logger wraps zap with the small initialisation surface used by the
// storefront binaries.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger holds the process-wide zap logger. Log is a no-op logger until Init
// succeeds, so it is always safe to use.
type Logger struct {
	Log *zap.Logger
}

// New returns a Logger backed by a no-op zap logger.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init replaces Log with a JSON production logger writing to stderr at the
// given level ("debug", "info", "warn", "error").
func (l *Logger) Init(level string) error {
	return l.InitWithOutput(level, "stderr")
}

// InitWithOutput is Init with an explicit output path. The client writes its
// log to a file so the interactive shell stays readable.
func (l *Logger) InitWithOutput(level string, path string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if path != "" {
		cfg.OutputPaths = []string{path}
	}

	zl, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = zl
	return nil
}
