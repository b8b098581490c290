package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog behind a fixed field vocabulary, with an optional
// collector that batches repeated errors for the job queue.
type Logger struct {
	zl        zerolog.Logger
	collector *LogCollector
}

// Config selects level, encoding and destination.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr, or a file path
	TimeFormat string // timestamp layout, RFC3339Nano when empty
}

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	w, err := destination(cfg.Output)
	if err != nil {
		return nil, err
	}

	tf := cfg.TimeFormat
	if tf == "" {
		tf = time.RFC3339Nano
	}
	zerolog.TimeFieldFormat = tf

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: tf}
	}

	zl := zerolog.New(w).With().Timestamp().Logger().Level(level)
	return &Logger{zl: zl}, nil
}

func destination(output string) (io.Writer, error) {
	switch output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func (l *Logger) Debug(msg string, fields ...Field) { l.emit(l.zl.Debug(), msg, fields) }

func (l *Logger) Info(msg string, fields ...Field) { l.emit(l.zl.Info(), msg, fields) }

func (l *Logger) Warn(msg string, fields ...Field) { l.emit(l.zl.Warn(), msg, fields) }

// Error also feeds the collector, which deduplicates repeats before they
// reach the queue.
func (l *Logger) Error(msg string, fields ...Field) {
	l.emit(l.zl.Error(), msg, fields)
	if l.collector != nil {
		l.collector.AddLog("error", msg, fieldMap(fields), callSite(1))
	}
}

func (l *Logger) emit(e *zerolog.Event, msg string, fields []Field) {
	e.Str("caller", callSite(2))
	for _, f := range fields {
		f.add(e)
	}
	e.Msg(msg)
}

// callSite returns the module-relative file:line skip frames above the
// calling function.
func callSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	if i := strings.Index(file, "StockCast"); i >= 0 {
		file = file[i+len("StockCast"):]
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// AddCollector starts batching repeated errors for the configured publisher,
// replacing any previous collector.
func (l *Logger) AddCollector(config *CollectionConfig) {
	if l.collector != nil {
		l.collector.Close()
	}
	l.collector = NewLogCollector(config)
}

// Close flushes and stops the collector, if one is attached.
func (l *Logger) Close() {
	if l.collector != nil {
		l.collector.Close()
		l.collector = nil
	}
}

// Field is one typed key/value pair. The closed set keeps call sites uniform
// and lets the collector snapshot values without reflection.
type Field struct {
	key  string
	kind fieldKind
	str  string
	i64  int64
	f64  float64
	dur  time.Duration
	err  error
}

type fieldKind uint8

const (
	stringKind fieldKind = iota
	int64Kind
	float64Kind
	durationKind
	errorKind
)

func (f Field) add(e *zerolog.Event) {
	switch f.kind {
	case stringKind:
		e.Str(f.key, f.str)
	case int64Kind:
		e.Int64(f.key, f.i64)
	case float64Kind:
		e.Float64(f.key, f.f64)
	case durationKind:
		e.Dur(f.key, f.dur)
	case errorKind:
		e.AnErr(f.key, f.err)
	}
}

// snapshot returns the plain value for collector aggregation.
func (f Field) snapshot() interface{} {
	switch f.kind {
	case stringKind:
		return f.str
	case int64Kind:
		return f.i64
	case float64Kind:
		return f.f64
	case durationKind:
		return f.dur.String()
	case errorKind:
		if f.err != nil {
			return f.err.Error()
		}
	}
	return nil
}

func fieldMap(fields []Field) map[string]interface{} {
	m := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		m[f.key] = f.snapshot()
	}
	return m
}

func String(key, value string) Field {
	return Field{key: key, kind: stringKind, str: value}
}

// Strings joins values into one comma-separated field.
func Strings(key string, values []string) Field {
	return String(key, strings.Join(values, ", "))
}

func Int(key string, value int) Field {
	return Field{key: key, kind: int64Kind, i64: int64(value)}
}

func Int64(key string, value int64) Field {
	return Field{key: key, kind: int64Kind, i64: value}
}

func Float64(key string, value float64) Field {
	return Field{key: key, kind: float64Kind, f64: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{key: key, kind: durationKind, dur: value}
}

func Error(err error) Field {
	return Field{key: "error", kind: errorKind, err: err}
}
