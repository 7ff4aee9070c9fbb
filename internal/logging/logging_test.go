package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("shouting"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "faqchat.log")

	logger, err := NewFile(path, "debug")
	require.NoError(t, err)

	logger.Debug("exchange finished")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "exchange finished"))
}

func TestNewFile_RespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faqchat.log")

	logger, err := NewFile(path, "error")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Error("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	logger, err := NewConsole("info")
	require.NoError(t, err)
	assert.Same(t, logger, OrNop(logger))
}
