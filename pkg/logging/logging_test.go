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

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, false, slog.LevelInfo)

	log.Debug("hidden")
	log.Info("shown", slog.Int("blocks", 4))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "blocks=4")
}

func TestLogger_JSONWithContext(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, true, slog.LevelDebug)

	ctx := AppendCtx(context.Background(), slog.String("input", "a.png"))
	ctx = AppendCtx(ctx, slog.Group("run", slog.String("id", "r1")))
	log.DebugContext(ctx, "encoded", slog.Int("bits", 10))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "encoded", rec["msg"])
	assert.Equal(t, "a.png", rec["input"])
	assert.Equal(t, float64(10), rec["bits"])
	assert.Equal(t, map[string]any{"id": "r1"}, rec["run"])
}

func TestLogger_WithKeepsContext(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, false, slog.LevelInfo).With(slog.String("plane", "Y")).WithGroup("g")

	log.InfoContext(AppendCtx(context.Background(), slog.Int("n", 1)), "x")
	out := buf.String()
	assert.Contains(t, out, "plane=Y")
	assert.Contains(t, out, "g.n=1")
}

func TestAppendCtx_DoesNotAlias(t *testing.T) {
	base := AppendCtx(context.Background(), slog.Int("a", 1))
	left := AppendCtx(base, slog.Int("b", 2))
	right := AppendCtx(base, slog.Int("c", 3))

	assert.Len(t, base.Value(ctxKey{}).([]slog.Attr), 1)
	assert.Equal(t, "b", left.Value(ctxKey{}).([]slog.Attr)[1].Key)
	assert.Equal(t, "c", right.Value(ctxKey{}).([]slog.Attr)[1].Key)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"DEBUG", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"ERROR", slog.LevelError, true},
		{"chatty", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jpegctl.log")
	w := RotatingFile(path)
	log := Logger(w, false, slog.LevelInfo)
	log.Info("to disk")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to disk")
}
