package slogx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestNew_Redacts(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Service: "mint", Env: "test", Level: "debug", Redact: true, Output: &buf})

	logger.Debug("issued", "ref", "abc", "Scope", []string{"read"}, "kid", "k1",
		slog.Group("req", slog.String("sub", "user-1")))

	line := decodeLine(t, &buf)
	require.Equal(t, RedactedValue, line["ref"])
	require.Equal(t, RedactedValue, line["Scope"])
	require.Equal(t, "k1", line["kid"])
	require.Equal(t, "mint", line["service"])

	group, ok := line["req"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, RedactedValue, group["sub"])
}

func TestNew_NoRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Output: &buf})

	logger.Info("issued", "ref", "abc")
	require.Equal(t, "abc", decodeLine(t, &buf)["ref"])
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Output: &buf})

	logger.Info("dropped")
	require.Zero(t, buf.Len())

	logger.Warn("kept")
	require.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		require.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithRunID(WithContext(context.Background(), base), "run-1")
	FromContext(ctx).Info("hello")

	require.Equal(t, "run-1", decodeLine(t, &buf)["run_id"])
	require.NotNil(t, FromContext(context.Background()))
}
