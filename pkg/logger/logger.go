package logger

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelDebug
	LevelTrace
)

type Logger struct {
	*log.Logger
	level     LogLevel
	isVerbose bool
	rotator   *lumberjack.Logger
}

type Option func(*Logger)

func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.Logger = log.New(w, l.Logger.Prefix(), l.Logger.Flags())
	}
}

func WithPrefix(prefix string) Option {
	return func(l *Logger) {
		l.Logger = log.New(l.Logger.Writer(), prefix, l.Logger.Flags())
	}
}

func WithFlags(flags int) Option {
	return func(l *Logger) {
		l.Logger = log.New(l.Logger.Writer(), l.Logger.Prefix(), flags)
	}
}

// WithFile tees every line into a size-rotated log file. An empty path is ignored.
func WithFile(path string, maxSizeMB, maxBackups int) Option {
	return func(l *Logger) {
		if path == "" {
			return
		}
		l.rotator = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
		}
		w := io.MultiWriter(l.Logger.Writer(), l.rotator)
		l.Logger = log.New(w, l.Logger.Prefix(), l.Logger.Flags())
	}
}

func New(options ...Option) *Logger {
	l := &Logger{
		Logger:    log.New(os.Stdout, "", log.LstdFlags),
		level:     LevelInfo,
		isVerbose: false,
	}

	for _, opt := range options {
		opt(l)
	}

	return l
}

// Discard returns a logger that drops everything, handy for library callers that pass nil.
func Discard() *Logger {
	return New(WithOutput(io.Discard))
}

func (l *Logger) SetVerbose(verbose bool) {
	l.isVerbose = verbose
}

func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
	if level >= LevelDebug {
		l.isVerbose = true
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.printf(LevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.Logger.Printf("WARN: "+format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.isVerbose {
		l.printf(LevelDebug, format, args...)
	}
}

func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LevelTrace {
		l.printf(LevelTrace, format, args...)
	}
}

func (l *Logger) printf(level LogLevel, format string, args ...interface{}) {
	var prefix string
	switch level {
	case LevelInfo:
		prefix = "INFO: "
	case LevelDebug:
		prefix = "DEBUG: "
	case LevelTrace:
		prefix = "TRACE: "
	}
	l.Logger.Printf(prefix+format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.Close()
	l.Logger.Fatalf("FATAL: "+format, args...)
}

// Close releases the rotated log file, if any.
func (l *Logger) Close() error {
	if l.rotator == nil {
		return nil
	}
	return l.rotator.Close()
}
