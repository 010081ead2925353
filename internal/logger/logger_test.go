package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	require.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	log, err := New(Options{})
	require.NoError(t, err)
	assert.NotNil(t, log)

	log, err = New(Options{Level: "DEBUG", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestZapLoggerWritesEventAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.WarnObj("fetch failed", "fetch_error", map[string]any{"source": "reddit-r-all"})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "fetch failed", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "fetch_error", ctx["event"])
	assert.Equal(t, "reddit-r-all", ctx["source"])
}

func TestEnsure(t *testing.T) {
	assert.IsType(t, NopLogger{}, Ensure(nil))
	assert.IsType(t, NopLogger{}, FromZap(nil))

	l := FromZap(zap.NewNop())
	assert.Same(t, l, Ensure(l))
}
