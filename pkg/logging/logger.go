// Package logging provides the structured leveled logger used throughout
// the engine, wrapping zerolog behind the Debug/Info/Warning/Error/Fatal
// surface the rest of the module calls.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Severity mirrors the five levels the scripting core distinguishes.
type Severity int32

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) zerologLevel() zerolog.Level {
	switch s {
	case SeverityDebug:
		return zerolog.DebugLevel
	case SeverityInfo:
		return zerolog.InfoLevel
	case SeverityWarning:
		return zerolog.WarnLevel
	case SeverityError:
		return zerolog.ErrorLevel
	case SeverityFatal:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger is a thin, allocation-conscious wrapper around a zerolog.Logger.
// A nil *Logger discards everything, so components may hold an optional
// logger field and call through it unconditionally.
type Logger struct {
	z zerolog.Logger
}

// New builds a Logger writing structured (JSON) records to w, tagged with
// component, e.g. "scheduler" or "vm".
func New(w io.Writer, component string) *Logger {
	if w == nil {
		w = os.Stderr
	}
	z := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &Logger{z: z}
}

// NewConsole builds a Logger writing human-readable records to stderr,
// suitable for the scriptvmctl CLI front-end.
func NewConsole(component string) *Logger {
	z := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("component", component).Logger()
	return &Logger{z: z}
}

func (l *Logger) log(sev Severity, message string) {
	if l == nil {
		return
	}
	l.z.WithLevel(sev.zerologLevel()).Msg(message)
}

func (l *Logger) Debug(message string)   { l.log(SeverityDebug, message) }
func (l *Logger) Info(message string)    { l.log(SeverityInfo, message) }
func (l *Logger) Warning(message string) { l.log(SeverityWarning, message) }
func (l *Logger) Error(message string)   { l.log(SeverityError, message) }
func (l *Logger) Fatal(message string)   { l.log(SeverityFatal, message) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.Log(SeverityDebug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.Log(SeverityInfo, format, args...) }
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Log(SeverityWarning, format, args...)
}
func (l *Logger) Errorf(format string, args ...interface{}) { l.Log(SeverityError, format, args...) }

func (l *Logger) Fatalf(format string, args ...interface{}) {
	if l != nil {
		l.z.Fatal().Msgf(format, args...)
	}
}

// Log is a generic severity-dispatching entry point, for callers that hold
// a Severity value rather than calling a named level method directly.
func (l *Logger) Log(sev Severity, message string, args ...interface{}) {
	if l == nil {
		return
	}
	if len(args) > 0 {
		l.z.WithLevel(sev.zerologLevel()).Msgf(message, args...)
		return
	}
	l.log(sev, message)
}

// With returns a child Logger with an additional structured field attached
// to every subsequent record — e.g. a note or event id.
func (l *Logger) With(key string, value interface{}) *Logger {
	if l == nil {
		return nil
	}
	ctx := l.z.With()
	switch v := value.(type) {
	case string:
		ctx = ctx.Str(key, v)
	case int:
		ctx = ctx.Int(key, v)
	case int64:
		ctx = ctx.Int64(key, v)
	case uint64:
		ctx = ctx.Uint64(key, v)
	case float64:
		ctx = ctx.Float64(key, v)
	case bool:
		ctx = ctx.Bool(key, v)
	default:
		ctx = ctx.Interface(key, v)
	}
	return &Logger{z: ctx.Logger()}
}
