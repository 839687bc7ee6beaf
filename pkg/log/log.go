package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	defaultLogger *Logger
	mu            sync.RWMutex
)

func init() {
	defaultLogger = New(os.Stdout, LogLevelDebug)
}

type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// traceLevel sits below zap's debug level.
const traceLevel = zapcore.DebugLevel - 1

func (level LogLevel) String() string {
	switch level {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	case LogLevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}

func (level LogLevel) zapLevel() zapcore.Level {
	switch level {
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelDebug:
		return zapcore.DebugLevel
	default:
		return traceLevel
	}
}

// ParseLogLevel parses a log level string into a LogLevel.
// Valid log levels are: error, warn, info, debug, trace.
func ParseLogLevel(level string) (LogLevel, error) {
	switch level {
	case "error":
		return LogLevelError, nil
	case "warn":
		return LogLevelWarn, nil
	case "info":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	case "trace":
		return LogLevelTrace, nil
	default:
		return LogLevelError, fmt.Errorf("unknown log level: %s", level)
	}
}

func encodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if level == traceLevel {
		enc.AppendString("trace")
		return
	}
	zapcore.LowercaseLevelEncoder(level, enc)
}

// Logger writes one JSON object per entry with level, ts and msg keys.
type Logger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

func New(out io.Writer, level LogLevel) *Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    encodeLevel,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	atomicLevel := zap.NewAtomicLevelAt(level.zapLevel())
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(out), atomicLevel)
	return &Logger{
		logger: zap.New(core),
		level:  atomicLevel,
	}
}

// SetDefaultLogger replaces the logger used by the package level functions.
func SetDefaultLogger(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

func getDefaultLogger() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

func SetLevel(level LogLevel) {
	l := getDefaultLogger()
	l.SetLevel(level)
	l.Info("Log level set to %s", level)
}

func (l *Logger) SetLevel(level LogLevel) {
	l.level.SetLevel(level.zapLevel())
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

func (l *Logger) logf(level zapcore.Level, format string, args ...interface{}) {
	if !l.level.Enabled(level) {
		return
	}
	if ce := l.logger.Check(level, fmt.Sprintf(format, args...)); ce != nil {
		ce.Write()
	}
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(zapcore.ErrorLevel, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.logf(zapcore.WarnLevel, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(zapcore.InfoLevel, format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(zapcore.DebugLevel, format, args...)
}

func (l *Logger) Trace(format string, args ...interface{}) {
	l.logf(traceLevel, format, args...)
}

func Info(format string, args ...interface{}) {
	getDefaultLogger().Info(format, args...)
}

func Error(format string, args ...interface{}) {
	getDefaultLogger().Error(format, args...)
}

func Warn(format string, args ...interface{}) {
	getDefaultLogger().Warn(format, args...)
}

func Debug(format string, args ...interface{}) {
	getDefaultLogger().Debug(format, args...)
}

func Trace(format string, args ...interface{}) {
	getDefaultLogger().Trace(format, args...)
}
