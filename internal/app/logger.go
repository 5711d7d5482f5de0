package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/andyballingall/srcfmt/internal/fsh"
)

const (
	LogFile   = ".srcfmt.log"
	LogEnvVar = "SRCFMT_LOG_FILE"

	logMaxSizeMB  = 5
	logMaxBackups = 3
)

// setupLogger returns a logger that writes JSON records to a rotating log file
// and readable messages to stderr. When the log file cannot be opened, the
// console logger is still returned together with the error.
func setupLogger(stderr io.Writer, logLevel *slog.LevelVar, root string, env fsh.EnvProvider) (*slog.Logger, io.Closer, error) {
	console := &consoleHandler{w: stderr, level: logLevel}

	logPath := logFilePath(root, env)

	// lumberjack only opens the file on first write, so probe it now to report
	// an unusable path up front.
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(console), nil, fmt.Errorf("cannot open log file %s: %w", logPath, err)
	}
	_ = f.Close()

	sink := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
	}
	file := slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: slog.LevelDebug})

	return slog.New(&multiHandler{handlers: []slog.Handler{file, console}}), sink, nil
}

func logFilePath(root string, env fsh.EnvProvider) string {
	if env != nil {
		if p := env.Get(LogEnvVar); p != "" {
			return p
		}
	}
	if root == "" {
		return LogFile
	}
	return filepath.Join(root, LogFile)
}

// multiHandler fans each record out to every handler enabled for its level.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			errs = append(errs, h.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *multiHandler) derive(fn func(slog.Handler) slog.Handler) *multiHandler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = fn(h)
	}
	return &multiHandler{handlers: next}
}

// consoleHandler prints the message only, prefixed for warnings and errors.
// Error attributes are always appended; other attributes only at debug level.
type consoleHandler struct {
	w     io.Writer
	level *slog.LevelVar
	attrs []slog.Attr
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fmt.Fprint(c.w, levelPrefix(record.Level), record.Message)

	for _, a := range c.attrs {
		c.writeAttr(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		c.writeAttr(a)
		return true
	})

	_, err := fmt.Fprintln(c.w)
	return err
}

func levelPrefix(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "Error: "
	case level >= slog.LevelWarn:
		return "Warning: "
	default:
		return ""
	}
}

func (c *consoleHandler) writeAttr(a slog.Attr) {
	switch {
	case a.Key == "error" || a.Key == "err":
		fmt.Fprintf(c.w, ": %v", a.Value)
	case c.level.Level() <= slog.LevelDebug:
		fmt.Fprintf(c.w, " %s=%v", a.Key, a.Value)
	}
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		w:     c.w,
		level: c.level,
		attrs: append(c.attrs[:len(c.attrs):len(c.attrs)], attrs...),
	}
}

// WithGroup is a no-op: the console output is flat.
func (c *consoleHandler) WithGroup(_ string) slog.Handler {
	return c
}
