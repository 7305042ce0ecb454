// Package logging builds the zap logger used by the command-line tools.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type settings struct {
	level  zapcore.Level
	out    io.Writer
	json   bool
	fields []zap.Field
}

// Option configures New.
type Option func(*settings)

// WithLevel sets the minimum level by name. Unknown names mean info.
func WithLevel(name string) Option {
	return func(s *settings) { s.level = ParseLevel(name) }
}

// WithOutput replaces stderr.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.out = w
		}
	}
}

// WithJSON switches from console to JSON encoding.
func WithJSON(on bool) Option {
	return func(s *settings) { s.json = on }
}

// WithFields attaches fields to every entry.
func WithFields(fields ...zap.Field) Option {
	return func(s *settings) { s.fields = append(s.fields, fields...) }
}

// ParseLevel maps debug, info, warn and error to zap levels.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New returns a logger writing console-encoded entries to stderr.
func New(opts ...Option) *zap.Logger {
	s := settings{level: zapcore.InfoLevel, out: os.Stderr}
	for _, opt := range opts {
		opt(&s)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if s.json {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(s.out), zap.NewAtomicLevelAt(s.level))
	return zap.New(core).With(s.fields...)
}
