// Package gokit implements the domain logger on top of go-kit/log.
package gokit

import (
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ochairo/pagedoctor/internal/domain/interfaces"
)

// Logger adapts a go-kit logger to interfaces.Logger
type Logger struct {
	base log.Logger
}

// NewLogger creates a logfmt logger writing to w, filtered at the named level
// (debug, info, warn, error; anything else means info)
func NewLogger(w io.Writer, lvl string) *Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(w))
	l = level.NewFilter(l, allow(lvl))
	l = log.With(l, "ts", log.DefaultTimestampUTC)
	return &Logger{base: l}
}

// Wrap adapts an existing go-kit logger
func Wrap(l log.Logger) *Logger {
	return &Logger{base: l}
}

// Debug logs at debug level
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	_ = level.Debug(l.base).Log(keyvals(msg, fields)...)
}

// Info logs at info level
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	_ = level.Info(l.base).Log(keyvals(msg, fields)...)
}

// Warn logs at warn level
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	_ = level.Warn(l.base).Log(keyvals(msg, fields)...)
}

// Error logs at error level
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	_ = level.Error(l.base).Log(keyvals(msg, fields)...)
}

// With returns a logger that adds fields to every entry
func (l *Logger) With(fields ...interfaces.Field) interfaces.Logger {
	kv := make([]interface{}, 0, 2*len(fields))
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return &Logger{base: log.With(l.base, kv...)}
}

func keyvals(msg string, fields []interfaces.Field) []interface{} {
	kv := make([]interface{}, 0, 2+2*len(fields))
	kv = append(kv, "msg", msg)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

func allow(lvl string) level.Option {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug()
	case "warn", "warning":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
