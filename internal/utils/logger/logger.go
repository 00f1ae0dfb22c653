package logger

import (
	"go.uber.org/zap"

	"github.com/dwarvesf/tradeshield-backend/internal/types/environments"
)

const serviceName = "tradeshield-backend"

// Logger wraps zap with string-map fields so callers never import zap.
type Logger struct {
	zl *zap.Logger
}

// New panics when the zap config cannot be built.
func New(env environments.Environment) *Logger {
	zl, err := configFor(env).Build()
	if err != nil {
		panic(err)
	}

	return &Logger{zl: zl.With(zap.String("service", serviceName))}
}

// With returns a child logger that always carries the given fields.
func (l *Logger) With(fields map[string]string) *Logger {
	return &Logger{zl: l.zl.With(toZapFields(fields)...)}
}

func (l *Logger) Debug(msg string, fields ...map[string]string) {
	l.zl.Debug(msg, firstFields(fields)...)
}

func (l *Logger) Info(msg string, fields ...map[string]string) {
	l.zl.Info(msg, firstFields(fields)...)
}

func (l *Logger) Warn(msg string, fields ...map[string]string) {
	l.zl.Warn(msg, firstFields(fields)...)
}

func (l *Logger) Error(msg string, fields ...map[string]string) {
	l.zl.Error(msg, firstFields(fields)...)
}

func (l *Logger) Fatal(msg string, fields ...map[string]string) {
	l.zl.Fatal(msg, firstFields(fields)...)
}

// Sync flushes buffered entries. Call it before the process exits.
func (l *Logger) Sync() {
	_ = l.zl.Sync()
}

// only the first map is used
func firstFields(fields []map[string]string) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	return toZapFields(fields[0])
}

func toZapFields(m map[string]string) []zap.Field {
	out := make([]zap.Field, 0, len(m))
	for k, v := range m {
		out = append(out, zap.String(k, v))
	}
	return out
}
