package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"calisthenics-ai/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerInterface_Contract(t *testing.T) {
	var _ Logger = NewLogger()
	var _ Logger = NewLoggerWithWriter(&bytes.Buffer{}, "info", "json")
	var _ Logger = NewZapFromCore(zap.NewNop().Core())
}

func TestLogrusLogger_WithContextFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, "debug", "json")

	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, "user1")
	ctx = context.WithValue(ctx, contextkeys.RequestIDKey, "req-9")
	log.WithContext(ctx).WithComponent("session").Info("cookie set")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "user1", entry["user_id"])
	assert.Equal(t, "req-9", entry["request_id"])
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, "cookie set", entry["msg"])
}

func TestLogrusLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, "warn", "text")
	log.Info("hidden")
	assert.Empty(t, buf.String())
	log.Warnf("shown %d", 1)
	assert.Contains(t, buf.String(), "shown 1")
}

func TestZapLogger_Fields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewZapFromCore(core)

	ctx := context.WithValue(context.Background(), contextkeys.OperationKey, "list")
	log.WithContext(ctx).WithFields(map[string]interface{}{"count": 3}).Warn("store slow")

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, "store slow", e.Message)
	assert.Equal(t, "list", e.ContextMap()["operation"])
	assert.EqualValues(t, 3, e.ContextMap()["count"])
}

func TestNewLogger_ZapBackend(t *testing.T) {
	t.Setenv("LOG_BACKEND", "zap")
	_, ok := NewLogger().(*ZapLogger)
	assert.True(t, ok)
}
