package log

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level zapcore.Level

const (
	DebugLevel Level = iota - 1
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs are more important than Info, but don't need individual
	// human review.
	WarnLevel
	// ErrorLevel logs are high-priority. If an application is running smoothly,
	// it shouldn't generate any error-level logs.
	ErrorLevel
)

func ToLevel(level string) Level {
	return map[string]Level{
		"debug": DebugLevel,
		"info":  InfoLevel,
		"warn":  WarnLevel,
		"error": ErrorLevel,
	}[level]
}

var (
	once sync.Once
	Log  Logger
)

type Logger interface {
	io.Closer

	Info(args ...interface{})
	Error(args ...interface{})
	Warn(args ...interface{})
	Debug(args ...interface{})

	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Debugf(template string, args ...interface{})
}

// NewGLog builds the process-wide Logger on first call and returns the
// same instance on every subsequent call, regardless of the level
// argument those later calls pass — there is exactly one zap core per
// process, matching the engine's one-Logger-per-process convention
// even though an *Engine itself takes its logger as a constructor
// argument rather than reading this global.
func NewGLog(level Level) Logger {
	once.Do(func() {
		encoderConfig := zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}

		config := zap.Config{
			Level:            zap.NewAtomicLevelAt(zapcore.Level(level)),
			Development:      false,
			Encoding:         "console",
			EncoderConfig:    encoderConfig,
			OutputPaths:      []string{"stdout"},
			ErrorOutputPaths: []string{"stderr"},
		}

		built, err := config.Build()
		if err != nil {
			panic(fmt.Errorf("log: build logger: %v", err))
		}
		Log = &_log{
			built.Sugar(),
		}
		Log.Info("log initialized", zap.Time("runTime", time.Now()))
	})
	return Log
}

type _log struct {
	*zap.SugaredLogger
}

func (l *_log) Close() error {
	return nil
}
