package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes structured diagnostics with zap
type Logger struct {
	logger *zap.SugaredLogger
}

// New creates a console logger on stderr. Only warnings and errors are
// printed unless verbose is set.
func New(verbose bool) *Logger {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.DisableStacktrace = true
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return NewNop()
	}
	return &Logger{logger: logger.Sugar()}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{logger: zap.NewNop().Sugar()}
}

// With returns a child logger that adds the given key-value pairs
func (l *Logger) With(args ...interface{}) *Logger {
	if l == nil {
		return NewNop()
	}
	return &Logger{logger: l.logger.With(args...)}
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	if l != nil {
		l.logger.Infow(msg, args...)
	}
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	if l != nil {
		l.logger.Errorw(msg, args...)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l != nil {
		l.logger.Debugw(msg, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	if l != nil {
		l.logger.Warnw(msg, args...)
	}
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.logger.Sync()
}
