// Package logger provides structured logging for Hercules using zap.
//
// Reports are written to stdout, so log output defaults to stderr.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/puffinc/hercules/internal/config"
)

// Logger embeds a zap.SugaredLogger and adds Hercules context helpers.
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

// New builds a Logger from the logging section of the configuration. A file
// output that cannot be opened is an error.
func New(cfg *config.LoggingConfig) (*Logger, error) {
	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(newEncoder(cfg.Format), sink, parseLevel(cfg.Level))
	return fromCore(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// NewDefault returns an info-level console logger on stderr.
func NewDefault() *Logger {
	l, err := New(&config.LoggingConfig{Level: "info", Format: "text", Output: "stderr"})
	if err != nil {
		return NewNop()
	}
	return l
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return fromCore(zapcore.NewNopCore())
}

// FromCore wraps an existing zap core. Tests use it with zaptest/observer.
func FromCore(core zapcore.Core) *Logger {
	return fromCore(core)
}

func fromCore(core zapcore.Core, opts ...zap.Option) *Logger {
	base := zap.New(core, opts...)
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

// parseLevel maps a configured level name; anything unknown logs at info.
func parseLevel(name string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || name == "" {
		return zapcore.InfoLevel
	}
	return lvl
}

func newEncoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.StringDurationEncoder

	if format == "json" {
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

// openSink resolves "stderr", "stdout" or a file path. File output is
// mirrored to stderr.
func openSink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	}
	f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", output, err)
	}
	return zapcore.NewMultiWriteSyncer(zapcore.AddSync(f), zapcore.Lock(os.Stderr)), nil
}

func (l *Logger) with(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...), base: l.base}
}

// WithRun tags entries with the run id.
func (l *Logger) WithRun(runID string) *Logger {
	return l.with("run_id", runID)
}

// WithSource tags entries with the dataset source.
func (l *Logger) WithSource(source string) *Logger {
	return l.with("source", source)
}

func (l *Logger) WithColumn(column string) *Logger {
	return l.with("column", column)
}

// WithCandidate tags entries with a comma-joined candidate key.
func (l *Logger) WithCandidate(columns []string) *Logger {
	return l.with("candidate", strings.Join(columns, ","))
}

// WithFields adds arbitrary key/value context.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return l.with(args...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
