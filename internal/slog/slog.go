package slog

import (
	"context"
	"io"
)

// Init points the default logger at w with debug output enabled; the CLI calls this once at start.
func Init(w io.Writer) {
	setDefault(newLogger(newTextHandler(w, &handlerOptions{Level: levelDebug})))
}

func Error(msg string, keyvals ...any) { Background().Error(msg, keyvals...) }
func Warn(msg string, keyvals ...any)  { Background().Warn(msg, keyvals...) }
func Info(msg string, keyvals ...any)  { Background().Info(msg, keyvals...) }
func Debug(msg string, keyvals ...any) { Background().Debug(msg, keyvals...) }

// Background returns the default logger bound to the background context.
func Background() Interface { return wrap{context.Background(), defaultLogger()} }

// From returns the logger carried by ctx, or the default logger if ctx has none, optionally extended
// with more key / value pairs.
func From(ctx context.Context, keyvals ...any) Interface {
	logger, ok := ctx.Value(ctxLogger{}).(Interface)
	if !ok {
		return wrap{ctx, defaultLogger().With(keyvals...)}
	}
	if len(keyvals) == 0 {
		return logger
	}
	return logger.With(keyvals...)
}

// With derives a context whose logger carries the additional key / value pairs.
func With(ctx context.Context, keyvals ...any) context.Context {
	if len(keyvals) == 0 {
		return ctx
	}
	logger, ok := ctx.Value(ctxLogger{}).(Interface)
	if ok {
		return context.WithValue(ctx, ctxLogger{}, logger.With(keyvals...))
	}
	return context.WithValue(ctx, ctxLogger{}, wrap{ctx, defaultLogger().With(keyvals...)})
}

type ctxLogger struct{}

type wrap struct {
	ctx context.Context
	log *logger
}

func (w wrap) With(keyvals ...any) Interface {
	return wrap{w.ctx, w.log.With(keyvals...)}
}

func (w wrap) Error(msg string, keyvals ...any) { w.log.Log(w.ctx, levelError, msg, keyvals...) }
func (w wrap) Warn(msg string, keyvals ...any)  { w.log.Log(w.ctx, levelWarn, msg, keyvals...) }
func (w wrap) Info(msg string, keyvals ...any)  { w.log.Log(w.ctx, levelInfo, msg, keyvals...) }
func (w wrap) Debug(msg string, keyvals ...any) { w.log.Log(w.ctx, levelDebug, msg, keyvals...) }

// Interface is the subset of structured logging this module needs.
type Interface interface {
	With(keyvals ...any) Interface
	Error(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Debug(msg string, keyvals ...any)
}
