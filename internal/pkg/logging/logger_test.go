package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Zhima-Mochi/minishop-cart/internal/pkg/logging"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, err := logging.NewLogger(logging.Options{Service: "minishop", Env: "test", File: path})
	require.NoError(t, err)

	l.Info("hello")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"service":"minishop"`)
	assert.Contains(t, string(data), `"level":"info"`)
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	_, err := logging.NewLogger(logging.Options{Level: "loud"})
	require.Error(t, err)
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	l, err := logging.NewLogger(logging.Options{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestWithTraceFillsUnknown(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logging.WithTrace(zap.New(core), "", logging.SystemSpanID).Info("boot")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "unknown", fields["trace_id"])
	assert.Equal(t, "system", fields["span_id"])
}
