package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

type FluentConfig struct {
	Host      string
	Port      int
	TagPrefix string
	Level     Level
}

// poster es el subconjunto de *fluent.Fluent que usamos (permite fakes en tests).
type poster interface {
	Post(tag string, message interface{}) error
}

// FluentLogger envía cada línea como un record a Fluent Bit / Fluentd.
// Los errores de envío se descartan: el log a stdout sigue siendo la fuente principal.
type FluentLogger struct {
	client poster
	level  Level
	base   Fields
	now    func() time.Time
}

// NewFluent abre el cliente fluent. El llamador debe cerrar el *fluent.Fluent devuelto.
func NewFluent(cfg FluentConfig) (Logger, *fluent.Fluent, error) {
	if strings.TrimSpace(cfg.TagPrefix) == "" {
		return nil, nil, fmt.Errorf("fluent tag prefix is required")
	}
	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Async:      true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create fluent client: %w", err)
	}
	return newFluentLogger(client, cfg.Level), client, nil
}

func newFluentLogger(client poster, level Level) *FluentLogger {
	return &FluentLogger{client: client, level: level, base: Fields{}, now: time.Now}
}

func (f *FluentLogger) With(fields Fields) Logger {
	if len(fields) == 0 {
		return f
	}
	merged := make(Fields, len(f.base)+len(fields))
	for k, v := range f.base {
		merged[k] = v
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		merged[k] = v
	}
	return &FluentLogger{client: f.client, level: f.level, base: merged, now: f.now}
}

func (f *FluentLogger) Debug(msg string, fields Fields) { f.post(Debug, msg, fields) }
func (f *FluentLogger) Info(msg string, fields Fields)  { f.post(Info, msg, fields) }
func (f *FluentLogger) Warn(msg string, fields Fields)  { f.post(Warn, msg, fields) }
func (f *FluentLogger) Error(msg string, fields Fields) { f.post(Error, msg, fields) }

func (f *FluentLogger) post(lvl Level, msg string, fields Fields) {
	if lvl < f.level {
		return
	}

	record := map[string]any{
		"ts":    f.now().Format(time.RFC3339Nano),
		"level": lvl.String(),
		"msg":   msg,
	}
	for k, v := range f.base {
		record[k] = flatten(v)
	}
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		record[k] = flatten(v)
	}

	// tag final: <prefix>.<level>
	_ = f.client.Post(lvl.String(), record)
}

// msgpack no serializa error; lo pasamos a string.
func flatten(v any) any {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}
