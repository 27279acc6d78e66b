package tsodbc

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelOff
)

// ParseLogLevel converts a configuration value into LogLevel, default is WARN
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "", "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "off", "none":
		return LogLevelOff, nil
	}
	return LogLevelWarn, fmt.Errorf("unknown log level: %s", s)
}

func (lv LogLevel) String() string {
	switch lv {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	}
	return "off"
}

func (lv LogLevel) zapLevel() zapcore.Level {
	switch lv {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	}
	return zapcore.FatalLevel + 1
}

// Logger is the logging context of one connection. It is created when the
// connection is established and closed when it is released; components get
// it passed explicitly. A nil *Logger discards everything.
type Logger struct {
	sugar  *zap.SugaredLogger
	level  zap.AtomicLevel
	toFile bool
}

// NewLogger builds a Logger writing to path (stderr when empty) at level lv.
func NewLogger(lv LogLevel, path string) (*Logger, error) {
	level := zap.NewAtomicLevelAt(lv.zapLevel())
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil
	if path != "" {
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}
	z, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		return nil, fmt.Errorf("cannot build logger: %w", err)
	}
	return &Logger{sugar: z.Sugar().Named("tsodbc"), level: level, toFile: path != ""}, nil
}

// NewLoggerFrom wraps an existing zap logger, e.g. zap.NewNop() in tests.
func NewLoggerFrom(z *zap.Logger, lv LogLevel) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{sugar: z.Sugar(), level: zap.NewAtomicLevelAt(lv.zapLevel())}
}

// SetLogLevel overrides the level of this logger
func (l *Logger) SetLogLevel(lv LogLevel) {
	if l == nil {
		return
	}
	l.level.SetLevel(lv.zapLevel())
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sugar: l.sugar.With(keysAndValues...), level: l.level, toFile: l.toFile}
}

func (l *Logger) LogDebugf(format string, v ...interface{}) {
	if l != nil && l.level.Enabled(zapcore.DebugLevel) {
		l.sugar.Debugf(format, v...)
	}
}

func (l *Logger) LogInfof(format string, v ...interface{}) {
	if l != nil && l.level.Enabled(zapcore.InfoLevel) {
		l.sugar.Infof(format, v...)
	}
}

func (l *Logger) LogWarnf(format string, v ...interface{}) {
	if l != nil && l.level.Enabled(zapcore.WarnLevel) {
		l.sugar.Warnf(format, v...)
	}
}

func (l *Logger) LogErrorf(format string, v ...interface{}) {
	if l != nil && l.level.Enabled(zapcore.ErrorLevel) {
		l.sugar.Errorf(format, v...)
	}
}

// Logf logs at the given level.
func (l *Logger) Logf(lv LogLevel, format string, v ...interface{}) {
	switch lv {
	case LogLevelDebug:
		l.LogDebugf(format, v...)
	case LogLevelInfo:
		l.LogInfof(format, v...)
	case LogLevelWarn:
		l.LogWarnf(format, v...)
	case LogLevelError:
		l.LogErrorf(format, v...)
	}
}

// Close flushes buffered entries of a log file. Console output is unbuffered
// and cannot be synced on every platform, so it is left alone.
func (l *Logger) Close() error {
	if l == nil || !l.toFile {
		return nil
	}
	return l.sugar.Sync()
}
