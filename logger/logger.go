package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// Logger is the logging surface passed through costpipe's stages.
type Logger interface {
	Trace(...interface{})
	Debug(...interface{})
	Info(...interface{})
	Warn(...interface{})
	Error(...interface{})
	Panic(...interface{})
	Fatal(...interface{})
}

// LoggerImpl writes through a logrus entry tagged with the service name.
type LoggerImpl struct {
	Logger         *log.Entry
	Service        string
	LogLevelStr    string
	PrintStackDump bool
}

// NewLogger returns a text logger on stderr at the given level.
// An unknown level is fatal.
func NewLogger(serviceName string, level string, stackDumpOnPanic bool) *LoggerImpl {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error setting up logging:", err)
		os.Exit(1)
	}
	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)
	return &LoggerImpl{
		Logger:         log.WithField("service", serviceName),
		Service:        serviceName,
		LogLevelStr:    level,
		PrintStackDump: stackDumpOnPanic,
	}
}

// NewLambdaLogger is NewLogger with JSON output for CloudWatch.
func NewLambdaLogger(serviceName string, level string, stackDumpOnPanic bool) *LoggerImpl {
	l := NewLogger(serviceName, level, stackDumpOnPanic)
	l.SetJSONFormatter()
	return l
}

// WithField returns a copy of the logger that adds key=value to every entry.
func (l *LoggerImpl) WithField(key string, value interface{}) *LoggerImpl {
	c := *l
	c.Logger = l.Logger.WithField(key, value)
	return &c
}

func (l *LoggerImpl) verbose() bool {
	return l.LogLevelStr == "debug" || l.LogLevelStr == "trace"
}

func (l *LoggerImpl) withStack() *log.Entry {
	return l.Logger.WithField("stackTrace", string(debug.Stack()))
}

func (l *LoggerImpl) Trace(message ...interface{}) { l.Logger.Trace(message...) }
func (l *LoggerImpl) Debug(message ...interface{}) { l.Logger.Debug(message...) }
func (l *LoggerImpl) Info(message ...interface{})  { l.Logger.Info(message...) }
func (l *LoggerImpl) Warn(message ...interface{})  { l.Logger.Warn(message...) }

// Error adds a stack trace at trace level or when stack dumps were requested.
func (l *LoggerImpl) Error(message ...interface{}) {
	if l.PrintStackDump || l.LogLevelStr == "trace" {
		l.withStack().Error(message...)
		return
	}
	l.Logger.Error(message...)
}

// Panic only panics when stack dumps were requested; otherwise it logs and exits like Fatal.
func (l *LoggerImpl) Panic(message ...interface{}) {
	switch {
	case !l.PrintStackDump:
		l.Logger.Fatal(message...)
	case l.verbose():
		l.withStack().Panic(message...)
	default:
		l.Logger.Panic(message...)
	}
}

// Fatal logs and exits with status 1, with a stack trace at debug or trace level.
func (l *LoggerImpl) Fatal(message ...interface{}) {
	if l.verbose() {
		l.withStack().Fatal(message...)
		return
	}
	l.Logger.Fatal(message...)
}

// SetOutput redirects all loggers.
func (l *LoggerImpl) SetOutput(writer io.Writer) {
	log.SetOutput(writer)
}

// SetJSONFormatter switches all loggers to JSON lines.
func (l *LoggerImpl) SetJSONFormatter() {
	log.SetFormatter(&log.JSONFormatter{})
}
