// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides structured leveled logging on top of log/slog.
package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

// Logger writes key/value pairs to a handler.
type Logger interface {
	// With returns a new Logger that has this logger's attributes plus ctx.
	With(ctx ...any) Logger

	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
}

// root holds the process-wide handler. Loggers resolve it on every call, so
// SetDefault applies to loggers created before it ran, package-level ones
// included.
var root atomic.Pointer[slog.Logger]

func init() {
	root.Store(slog.New(DiscardHandler()))
}

// SetDefault sets the default global handler.
func SetDefault(handler slog.Handler) {
	root.Store(slog.New(handler))
}

type logger struct {
	ctx []any
}

func (l *logger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	merged = append(merged, ctx...)
	return &logger{merged}
}

func (l *logger) write(level slog.Level, msg string, ctx []any) {
	inner := root.Load()
	if !inner.Enabled(context.Background(), level) {
		return
	}
	args := make([]any, 0, len(l.ctx)+len(ctx))
	args = append(args, l.ctx...)
	args = append(args, ctx...)
	inner.Log(context.Background(), level, msg, args...)
}

func (l *logger) Debug(msg string, ctx ...any) { l.write(slog.LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(slog.LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(slog.LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.write(slog.LevelError, msg, ctx) }

// Root returns the root logger.
func Root() Logger {
	return &logger{}
}

// WithContext returns a logger carrying the given context attributes.
func WithContext(ctx ...any) Logger {
	return &logger{ctx}
}

// NewTerminalHandlerWithLevel returns a handler formatting records for
// human readability on a terminal, filtered by level.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl slog.Leveler, useColor bool) slog.Handler {
	return newTerminalHandler(wr, lvl, useColor)
}
