// Package log builds the structured logger used across extload.
//
// Library packages accept a logr.Logger; this package provides the zap-backed
// implementation the CLI installs.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level configures the verbosity of the logging.
type Level zapcore.Level

const (
	// DebugLevel logs are typically voluminous, and are usually disabled in production.
	DebugLevel = Level(zapcore.DebugLevel)
	// InfoLevel is the default logging priority.
	InfoLevel = Level(zapcore.InfoLevel)
	// WarnLevel logs are more important than Info, but don't need individual human review.
	WarnLevel = Level(zapcore.WarnLevel)
	// ErrorLevel logs are high-priority.
	ErrorLevel = Level(zapcore.ErrorLevel)
)

// ToLevel converts a string to a log level.
func ToLevel(level string) (Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return InfoLevel, fmt.Errorf("unknown log level: %s", level)
	}
	return Level(l), nil
}

// Mode defines the log output mode.
type Mode int8

const (
	// ModeProd emits JSON lines.
	ModeProd Mode = iota
	// ModeDev emits human-readable console output.
	ModeDev
)

// ToMode converts a string to a log mode.
// Use either 'production' or 'development'.
func ToMode(mode string) (Mode, error) {
	switch strings.ToLower(mode) {
	case "production", "prod", "":
		return ModeProd, nil
	case "development", "dev":
		return ModeDev, nil
	default:
		return ModeProd, fmt.Errorf("unknown log mode: %s", mode)
	}
}

// Opts allows to manipulate Options.
type Opts func(*Options)

// Options contains all possible settings.
type Options struct {
	// LogLevel configures the verbosity of the logging.
	LogLevel Level
	// LogMode defines the log output mode.
	LogMode Mode
	// DestWriter controls the destination of the log output. Defaults to
	// os.Stderr.
	DestWriter io.Writer
}

// WriteTo configures the logger to write to the given io.Writer.
func WriteTo(out io.Writer) Opts {
	return func(o *Options) {
		o.DestWriter = out
	}
}

// SetLevel sets Options.LogLevel.
func SetLevel(level Level) Opts {
	return func(o *Options) {
		o.LogLevel = level
	}
}

// SetMode sets Options.LogMode.
func SetMode(mode Mode) Opts {
	return func(o *Options) {
		o.LogMode = mode
	}
}

// NewLogger creates a zap-backed logr.Logger. logr verbosity V(n) maps to
// zap level -n, so V(1) messages show up at DebugLevel.
func NewLogger(opts ...Opts) logr.Logger {
	o := &Options{LogLevel: InfoLevel}
	for _, opt := range opts {
		opt(o)
	}
	if o.DestWriter == nil {
		o.DestWriter = os.Stderr
	}

	var encoder zapcore.Encoder
	if o.LogMode == ModeDev {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(o.DestWriter), zapcore.Level(o.LogLevel))
	return zapr.NewLogger(zap.New(core))
}
