package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValueFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core)).With("component", "ingest")

	logger.Info("fetched season", "code", "PL", "season", 2023, "err", errors.New("boom"), "dangling")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	assert.Equal(t, "ingest", fields["component"])
	assert.Equal(t, "PL", fields["code"])
	assert.EqualValues(t, 2023, fields["season"])
	assert.Equal(t, "boom", fields["err"])
	assert.Contains(t, fields, "dangling")
}

func TestNewConsole_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsole(&buf, LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown", "rows", 3)
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, `"rows": 3`) {
		t.Fatalf("expected warn line with fields, got=%q", out)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	logger.WarnContext(context.Background(), "still no panic")
}
