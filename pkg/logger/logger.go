package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the severity level of log messages
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// zapLevel maps a Level onto zap's scale. Trace sits one step below debug.
func (l Level) zapLevel() zapcore.Level {
	switch l {
	case TraceLevel:
		return zapcore.DebugLevel - 1
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel converts a --log-level value into a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("invalid log level %q (valid: trace, debug, info, warn, error)", s)
	}
}

// Config holds the logger configuration
type Config struct {
	Level     Level
	UseColor  bool
	JSON      bool
	Component string
	NoOp      bool
}

// Logger represents the logger instance
type Logger struct {
	config Config
	zl     *zap.Logger
}

var (
	mu            sync.RWMutex
	defaultLogger *Logger
)

// Initialize sets up the default logger writing to stderr
func Initialize(config Config) error {
	return InitializeWithWriter(config, os.Stderr)
}

// InitializeWithWriter sets up the default logger writing to w
func InitializeWithWriter(config Config, w io.Writer) error {
	l := New(config, w)
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	return nil
}

// New builds a logger writing to w.
func New(config Config, w io.Writer) *Logger {
	core := zapcore.NewCore(newEncoder(config), zapcore.AddSync(w), config.Level.zapLevel())
	zl := zap.New(core)
	if config.Component != "" {
		zl = zl.Named(config.Component)
	}
	if config.NoOp {
		zl = zl.With(zap.Bool("no_op", true))
	}
	return &Logger{config: config, zl: zl}
}

func newEncoder(config Config) zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "component",
		MessageKey:     "message",
		CallerKey:      "caller",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
		EncodeLevel:    levelEncoder(config.UseColor && !config.JSON, !config.JSON),
	}
	if config.JSON {
		ec.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		return zapcore.NewJSONEncoder(ec)
	}
	ec.ConsoleSeparator = " "
	return zapcore.NewConsoleEncoder(ec)
}

var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel - 1: "\033[37m",
	zapcore.DebugLevel:     "\033[36m",
	zapcore.InfoLevel:      "\033[32m",
	zapcore.WarnLevel:      "\033[33m",
	zapcore.ErrorLevel:     "\033[31m",
}

func levelEncoder(color, brackets bool) zapcore.LevelEncoder {
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		name := "TRACE"
		if l >= zapcore.DebugLevel {
			name = l.CapitalString()
		}
		if c, ok := levelColors[l]; ok && color {
			name = c + name + "\033[0m"
		}
		if brackets {
			name = "[" + name + "]"
		}
		enc.AppendString(name)
	}
}

// Log writes a log message
func (l *Logger) Log(level Level, message string, fields ...Field) {
	zl := l.zl
	if level <= DebugLevel {
		zl = zl.WithOptions(zap.AddCaller(), zap.AddCallerSkip(2))
	}
	if ce := zl.Check(level.zapLevel(), message); ce != nil {
		ce.Write(toZap(fields)...)
	}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

// Field represents a structured field in a log entry
type Field struct {
	Key   string
	Value interface{}
}

func toZap(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Strings creates a string slice field
func Strings(key string, value []string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Convenience functions for default logger
func Trace(message string, fields ...Field) {
	if l := current(); l != nil {
		l.Log(TraceLevel, message, fields...)
	}
}

func Debug(message string, fields ...Field) {
	if l := current(); l != nil {
		l.Log(DebugLevel, message, fields...)
	}
}

func Info(message string, fields ...Field) {
	if l := current(); l != nil {
		l.Log(InfoLevel, message, fields...)
	} else {
		// Fallback to stderr if logger not initialized
		fmt.Fprintf(os.Stderr, "[INFO] tklport: %s\n", message)
	}
}

func Warn(message string, fields ...Field) {
	if l := current(); l != nil {
		l.Log(WarnLevel, message, fields...)
	}
}

func Error(message string, fields ...Field) {
	if l := current(); l != nil {
		l.Log(ErrorLevel, message, fields...)
	}
}

// SetOutput redirects the default logger to w, keeping its configuration
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger != nil {
		defaultLogger = New(defaultLogger.config, w)
	}
}

// Sync flushes the default logger.
func Sync() {
	if l := current(); l != nil {
		_ = l.Sync()
	}
}
