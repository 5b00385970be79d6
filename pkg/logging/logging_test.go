package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := Logger(&buf, false, slog.LevelWarn)
	l.Info("hidden")
	l.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "k=1")
}

func TestAppendCtx_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := Logger(&buf, true, slog.LevelDebug)
	ctx := AppendCtx(context.Background(), slog.String("run", "abc"))
	ctx = AppendCtx(ctx, slog.Group("app", slog.String("name", "ctl")))
	l.InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "abc", rec["run"])
	assert.Equal(t, map[string]any{"name": "ctl"}, rec["app"])
}

func TestAppendCtx_DoesNotLeakToParent(t *testing.T) {
	var buf bytes.Buffer
	l := Logger(&buf, false, slog.LevelInfo)
	parent := AppendCtx(context.Background(), slog.Int("a", 1))
	_ = AppendCtx(parent, slog.Int("b", 2))
	l.InfoContext(parent, "p")
	assert.Contains(t, buf.String(), "a=1")
	assert.NotContains(t, buf.String(), "b=2")
}

func TestLogger_WithAttrsKeepsContext(t *testing.T) {
	var buf bytes.Buffer
	l := Logger(&buf, false, slog.LevelInfo).With("static", "s").WithGroup("g")
	l.InfoContext(AppendCtx(context.Background(), slog.String("dyn", "d")), "m", "x", 1)
	out := buf.String()
	assert.Contains(t, out, "static=s")
	assert.Contains(t, out, "g.x=1")
	assert.Contains(t, out, "dyn=d")
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl.log")
	w := FileWriter(path, 1, 2)
	l := Logger(w, false, slog.LevelInfo)
	l.Info("to file")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
