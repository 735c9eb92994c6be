package logger

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sales-kpi/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestInit_WritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "app.log")
	Init(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1})
	Info("daily.saved", "uid", 7)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"logger initialized"`)
	assert.Contains(t, string(data), `"msg":"daily.saved"`)
	assert.Contains(t, string(data), `"uid":7`)
}

func TestContextAttrs(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "app.log")
	Init(config.LogConfig{Level: "info", File: path})

	ctx := WithAttrs(context.Background(), "rid", "req-1")
	ctx = WithAttrs(ctx, "uid", 42)
	WarnContext(ctx, "daily.save_failed", "date", "2024-01-08")
	Info("no.request")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "daily.save_failed", rec["msg"])
	assert.Equal(t, "req-1", rec["rid"])
	assert.Equal(t, float64(42), rec["uid"])
	assert.Equal(t, "2024-01-08", rec["date"])
	assert.Equal(t, "sales-kpi", rec["service"])

	require.NoError(t, json.Unmarshal([]byte(lines[2]), &rec))
	assert.NotContains(t, lines[2], "req-1")
}

func TestWithAttrs_DoesNotMutateParent(t *testing.T) {
	parent := WithAttrs(context.Background(), "rid", "a")
	_ = WithAttrs(parent, "uid", 1)
	_ = WithAttrs(parent, "uid", 2)

	attrs := parent.Value(ctxKey{}).([]slog.Attr)
	require.Len(t, attrs, 1)
	assert.Equal(t, "rid", attrs[0].Key)
}
