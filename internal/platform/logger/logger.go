package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "info", "":
		return Info
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

func (l Level) slog() slog.Level {
	switch l {
	case Debug:
		return slog.LevelDebug
	case Warn:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// Fields son los campos estructurados que acompañan a cada línea.
type Fields = map[string]any

type Logger interface {
	With(fields Fields) Logger

	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
}

type Options struct {
	Level  Level
	Format Format
	App    string

	// Writer por defecto es os.Stdout.
	Writer io.Writer
	// NoColor desactiva los colores de tint (útil si la salida no es una terminal).
	NoColor bool
}

// SlogLogger adapta *slog.Logger a la interfaz Logger.
type SlogLogger struct {
	l *slog.Logger
}

// New crea un logger sobre slog: tint para texto (consola), JSONHandler para json.
func New(opts Options) Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	var h slog.Handler
	switch opts.Format {
	case FormatJSON:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level.slog()})
	default:
		h = tint.NewHandler(w, &tint.Options{
			Level:      opts.Level.slog(),
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    opts.NoColor,
		})
	}

	l := slog.New(h)
	if app := strings.TrimSpace(opts.App); app != "" {
		l = l.With(slog.String("app", app))
	}
	return &SlogLogger{l: l}
}

// Nop descarta todo. Pensado para tests y valores por defecto.
func Nop() Logger {
	return &SlogLogger{l: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

func (s *SlogLogger) With(fields Fields) Logger {
	if len(fields) == 0 {
		return s
	}
	return &SlogLogger{l: s.l.With(toAttrs(fields)...)}
}

func (s *SlogLogger) Debug(msg string, fields Fields) { s.l.Debug(msg, toAttrs(fields)...) }
func (s *SlogLogger) Info(msg string, fields Fields)  { s.l.Info(msg, toAttrs(fields)...) }
func (s *SlogLogger) Warn(msg string, fields Fields)  { s.l.Warn(msg, toAttrs(fields)...) }
func (s *SlogLogger) Error(msg string, fields Fields) { s.l.Error(msg, toAttrs(fields)...) }

func toAttrs(fields Fields) []any {
	attrs := make([]any, 0, len(fields))
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if err, ok := v.(error); ok {
			attrs = append(attrs, slog.String(k, err.Error()))
			continue
		}
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

// Multi replica cada línea en todos los loggers (stdout + fluent, por ejemplo).
func Multi(loggers ...Logger) Logger {
	out := make(multi, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			out = append(out, l)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

type multi []Logger

func (m multi) With(fields Fields) Logger {
	out := make(multi, 0, len(m))
	for _, l := range m {
		out = append(out, l.With(fields))
	}
	return out
}

func (m multi) Debug(msg string, fields Fields) {
	for _, l := range m {
		l.Debug(msg, fields)
	}
}

func (m multi) Info(msg string, fields Fields) {
	for _, l := range m {
		l.Info(msg, fields)
	}
}

func (m multi) Warn(msg string, fields Fields) {
	for _, l := range m {
		l.Warn(msg, fields)
	}
}

func (m multi) Error(msg string, fields Fields) {
	for _, l := range m {
		l.Error(msg, fields)
	}
}
