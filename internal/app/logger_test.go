package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/andyballingall/srcfmt/internal/fsh"
)

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("writes json to the root log file", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		logLevel := &slog.LevelVar{}
		stderr := &bytes.Buffer{}

		logger, closer, err := setupLogger(stderr, logLevel, root, fsh.MapEnvProvider{})
		require.NoError(t, err)
		require.NotNil(t, closer)
		defer closer.Close()

		logger.Info("test message", "key", "value")
		logger.Debug("hidden on console", "n", 3)

		assert.Equal(t, "test message\n", stderr.String())

		data, err := os.ReadFile(filepath.Join(root, LogFile))
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 2)

		assert.Equal(t, "test message", gjson.Get(lines[0], "msg").String())
		assert.Equal(t, "INFO", gjson.Get(lines[0], "level").String())
		assert.Equal(t, "value", gjson.Get(lines[0], "key").String())

		assert.Equal(t, "hidden on console", gjson.Get(lines[1], "msg").String())
		assert.Equal(t, int64(3), gjson.Get(lines[1], "n").Int())
	})

	t.Run("env var override", func(t *testing.T) {
		t.Parallel()
		logFile := filepath.Join(t.TempDir(), "custom.log")
		env := fsh.MapEnvProvider{LogEnvVar: logFile}

		logger, closer, err := setupLogger(&bytes.Buffer{}, &slog.LevelVar{}, t.TempDir(), env)
		require.NoError(t, err)
		defer closer.Close()

		logger.Warn("custom log")
		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.True(t, gjson.GetBytes(data, "msg").Exists())
		assert.Equal(t, "WARN", gjson.GetBytes(data, "level").String())
	})

	t.Run("fallback on file error", func(t *testing.T) {
		t.Parallel()
		stderr := &bytes.Buffer{}

		logger, closer, err := setupLogger(stderr, &slog.LevelVar{}, "/non/existent/path/unwritable", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot open log file")
		assert.Nil(t, closer)
		require.NotNil(t, logger)

		logger.Info("fallback message")
		assert.Contains(t, stderr.String(), "fallback message")
	})
}

func TestLogFilePath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, LogFile, logFilePath("", nil))
	assert.Equal(t, filepath.Join("/proj", LogFile), logFilePath("/proj", fsh.MapEnvProvider{}))
	assert.Equal(t, "/tmp/x.log",
		logFilePath("/proj", fsh.MapEnvProvider{LogEnvVar: "/tmp/x.log"}))
}

func TestConsoleHandler(t *testing.T) {
	t.Parallel()

	t.Run("levels", func(t *testing.T) {
		t.Parallel()
		logLevel := &slog.LevelVar{}
		logLevel.Set(slog.LevelDebug)
		buf := &bytes.Buffer{}
		handler := &consoleHandler{w: buf, level: logLevel}

		tests := []struct {
			level slog.Level
			msg   string
			want  string
		}{
			{slog.LevelDebug, "d", "d\n"},
			{slog.LevelInfo, "i", "i\n"},
			{slog.LevelWarn, "w", "Warning: w\n"},
			{slog.LevelError, "e", "Error: e\n"},
		}
		for _, tt := range tests {
			buf.Reset()
			err := handler.Handle(context.Background(), slog.Record{Level: tt.level, Message: tt.msg})
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		}
	})

	t.Run("attributes", func(t *testing.T) {
		t.Parallel()
		logLevel := &slog.LevelVar{}
		buf := &bytes.Buffer{}
		handler := &consoleHandler{w: buf, level: logLevel}

		logLevel.Set(slog.LevelInfo)
		rec := slog.NewRecord(time.Now(), slog.LevelError, "msg", 0)
		rec.AddAttrs(slog.String("path", "a.cpp"), slog.Any("error", errors.New("boom")))
		require.NoError(t, handler.Handle(context.Background(), rec))
		assert.Equal(t, "Error: msg: boom\n", buf.String())

		buf.Reset()
		logLevel.Set(slog.LevelDebug)
		h2 := handler.WithAttrs([]slog.Attr{slog.String("component", "git")})
		require.NoError(t, h2.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelDebug, "run", 0)))
		assert.Equal(t, "run component=git\n", buf.String())

		assert.Equal(t, h2, h2.WithGroup("g"))
		assert.True(t, handler.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("WithAttrs does not share backing arrays", func(t *testing.T) {
		t.Parallel()
		logLevel := &slog.LevelVar{}
		logLevel.Set(slog.LevelDebug)
		buf := &bytes.Buffer{}
		base := (&consoleHandler{w: buf, level: logLevel}).WithAttrs([]slog.Attr{slog.Int("a", 1)})

		h1 := base.WithAttrs([]slog.Attr{slog.Int("b", 2)})
		h2 := base.WithAttrs([]slog.Attr{slog.Int("c", 3)})

		require.NoError(t, h1.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0)))
		require.NoError(t, h2.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "y", 0)))
		assert.Equal(t, "x a=1 b=2\ny a=1 c=3\n", buf.String())
	})
}

type errHandler struct{}

func (e *errHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (e *errHandler) Handle(context.Context, slog.Record) error { return errors.New("handler error") }
func (e *errHandler) WithAttrs(_ []slog.Attr) slog.Handler      { return e }
func (e *errHandler) WithGroup(_ string) slog.Handler           { return e }

func TestMultiHandler(t *testing.T) {
	t.Parallel()

	t.Run("Enabled", func(t *testing.T) {
		t.Parallel()
		h1 := &consoleHandler{w: &bytes.Buffer{}, level: &slog.LevelVar{}}
		h2 := &consoleHandler{w: &bytes.Buffer{}, level: &slog.LevelVar{}}
		multi := &multiHandler{handlers: []slog.Handler{h1, h2}}

		assert.True(t, multi.Enabled(context.Background(), slog.LevelInfo))

		h1.level.Set(slog.LevelError)
		h2.level.Set(slog.LevelError)
		assert.False(t, multi.Enabled(context.Background(), slog.LevelInfo))
	})

	t.Run("Handle reaches every handler despite errors", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		console := &consoleHandler{w: buf, level: &slog.LevelVar{}}
		multi := &multiHandler{handlers: []slog.Handler{&errHandler{}, console}}

		err := multi.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "still printed", 0))
		require.EqualError(t, err, "handler error")
		assert.Equal(t, "still printed\n", buf.String())
	})

	t.Run("WithAttrs and WithGroup", func(t *testing.T) {
		t.Parallel()
		h1 := &consoleHandler{w: &bytes.Buffer{}, level: &slog.LevelVar{}}
		multi := &multiHandler{handlers: []slog.Handler{h1, &errHandler{}}}

		m3 := multi.WithAttrs([]slog.Attr{slog.String("v", "1")})
		require.IsType(t, &multiHandler{}, m3)
		assert.Len(t, m3.(*multiHandler).handlers, 2)

		m4 := m3.WithGroup("g")
		assert.IsType(t, &multiHandler{}, m4)
	})
}
