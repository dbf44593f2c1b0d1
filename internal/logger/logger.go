// Package logger wraps zap with a small initialization helper shared by
// the server binary and tests.
package logger

import (
	"go.uber.org/zap"
)

// Logger holds the application's structured logger.
type Logger struct {
	// Log is the underlying zap logger. It is a no-op until Init is called.
	Log *zap.Logger
}

// New returns a Logger with a no-op zap instance.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init replaces the no-op logger with a production zap logger at the
// given level ("Debug", "Info", "Warn", "Error").
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	z, err := cfg.Build()
	if err != nil {
		return err
	}
	l.Log = z
	return nil
}
