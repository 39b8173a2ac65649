package events

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
)

// slogAdapter routes watermill's logging through slog.
type slogAdapter struct {
	log    *slog.Logger
	fields watermill.LogFields
}

// NewLoggerAdapter returns a watermill.LoggerAdapter writing to log.
// Watermill's trace level is mapped to slog debug.
func NewLoggerAdapter(log *slog.Logger) watermill.LoggerAdapter {
	return &slogAdapter{log: log, fields: watermill.LogFields{}}
}

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	all := a.combineFields(fields)
	all["error"] = err
	a.emit(slog.LevelError, msg, all)
}

func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.emit(slog.LevelInfo, msg, a.combineFields(fields))
}

func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.emit(slog.LevelDebug, msg, a.combineFields(fields))
}

func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.emit(slog.LevelDebug, msg, a.combineFields(fields))
}

func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log, fields: a.combineFields(fields)}
}

func (a *slogAdapter) emit(level slog.Level, msg string, fields watermill.LogFields) {
	attrs := make([]slog.Attr, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	a.log.LogAttrs(context.Background(), level, msg, attrs...)
}

func (a *slogAdapter) combineFields(fields watermill.LogFields) watermill.LogFields {
	all := make(watermill.LogFields, len(a.fields)+len(fields))
	for k, v := range a.fields {
		all[k] = v
	}
	for k, v := range fields {
		all[k] = v
	}
	return all
}
