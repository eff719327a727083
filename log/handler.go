// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

type discardHandler struct{}

// DiscardHandler returns a no-op handler.
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (h *discardHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (h *discardHandler) WithGroup(_ string) slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return &discardHandler{}
}

type terminalHandler struct {
	mu       sync.Mutex
	wr       io.Writer
	lvl      slog.Leveler
	useColor bool
	attrs    []slog.Attr
}

func newTerminalHandler(wr io.Writer, lvl slog.Leveler, useColor bool) *terminalHandler {
	return &terminalHandler{
		wr:       wr,
		lvl:      lvl,
		useColor: useColor,
	}
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

func (h *terminalHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &terminalHandler{
		wr:       h.wr,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	lvl, color := levelTag(r.Level)
	if h.useColor && color != "" {
		fmt.Fprintf(&b, "\x1b[%sm%s\x1b[0m", color, lvl)
	} else {
		b.WriteString(lvl)
	}
	b.WriteString(" [")
	b.WriteString(r.Time.Format("01-02|15:04:05.000"))
	b.WriteString("] ")
	b.WriteString(r.Message)

	writeAttr := func(a slog.Attr) bool {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(quoteValue(a.Value.String()))
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.wr, b.String())
	return err
}

func levelTag(lvl slog.Level) (tag, color string) {
	switch {
	case lvl >= slog.LevelError:
		return "ERROR", "31"
	case lvl >= slog.LevelWarn:
		return "WARN ", "33"
	case lvl >= slog.LevelInfo:
		return "INFO ", "32"
	default:
		return "DEBUG", "36"
	}
}

func quoteValue(s string) string {
	if strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	if s == "" {
		return `""`
	}
	return s
}
