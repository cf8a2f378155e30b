package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "resumepage.log")

	log, err := NewLogger("warn", path)
	require.NoError(t, err)
	log.Info("dropped")
	log.Warn("kept", zap.String("slug", "minuth"))
	require.NoError(t, log.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "minuth")
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(out), "\n")+1)
}
